package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"international with plus", "+79001234567", "79001234567"},
		{"formatted with spaces", "+7 900 123 45 67", "79001234567"},
		{"trunk prefix with punctuation", "8 (900) 123-45-67", "79001234567"},
		{"already normalized", "79001234567", "79001234567"},
		{"trunk prefix plain", "89001234567", "79001234567"},
		{"local ten digits", "9001234567", "79001234567"},
		{"too short", "12345", ""},
		{"too long", "790012345678", ""},
		{"empty", "", ""},
		{"letters only", "abc", ""},
		{"eleven digits foreign prefix", "19001234567", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

func TestPhonesEqual(t *testing.T) {
	assert.True(t, PhonesEqual("+79001234567", "8 (900) 123-45-67"))
	assert.True(t, PhonesEqual("79001234567", "9001234567"))
	assert.False(t, PhonesEqual("+79001234567", "+79001234568"))

	// Two malformed numbers never match each other
	assert.False(t, PhonesEqual("", ""))
	assert.False(t, PhonesEqual("123", "123"))
}

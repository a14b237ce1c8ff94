package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordingFilename(t *testing.T) {
	rec, err := ParseRecordingFilename("2024.03.15__14-30-05__79001234567__79000000000.mp3")
	require.NoError(t, err)

	assert.Equal(t, "2024.03.15__14-30-05__79001234567__79000000000.mp3", rec.FileName)
	assert.Equal(t, time.Date(2024, 3, 15, 14, 30, 5, 0, time.UTC), rec.CalledAt)
	assert.Equal(t, "79001234567", rec.FromNumber)
	assert.Equal(t, "79000000000", rec.ToNumber)
}

func TestParseRecordingFilenameStripsDirectory(t *testing.T) {
	rec, err := ParseRecordingFilename("data/recordings/2024.03.15__14-30-05__79001234567__79000000000.wav")
	require.NoError(t, err)
	assert.Equal(t, "2024.03.15__14-30-05__79001234567__79000000000.wav", rec.FileName)
}

func TestParseRecordingFilenameRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong part count", "2024.03.15__14-30-05__79001234567.mp3"},
		{"invalid timestamp", "2024.13.45__99-99-99__79001234567__79000000000.mp3"},
		{"missing from number", "2024.03.15__14-30-05____79000000000.mp3"},
		{"missing to number", "2024.03.15__14-30-05__79001234567__.mp3"},
		{"plain filename", "voicemail.mp3"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecordingFilename(tt.input)
			assert.Error(t, err)
			assert.Nil(t, rec)
		})
	}
}

func TestEncodeRecordingFilenameRoundTrip(t *testing.T) {
	calledAt := time.Date(2024, 7, 1, 9, 15, 30, 0, time.UTC)

	name := EncodeRecordingFilename(calledAt, "79001234567", "79000000000", "mp3")
	assert.Equal(t, "2024.07.01__09-15-30__79001234567__79000000000.mp3", name)

	rec, err := ParseRecordingFilename(name)
	require.NoError(t, err)
	assert.True(t, rec.CalledAt.Equal(calledAt))
	assert.Equal(t, "79001234567", rec.FromNumber)
	assert.Equal(t, "79000000000", rec.ToNumber)

	// Extension with a leading dot encodes identically
	assert.Equal(t, name, EncodeRecordingFilename(calledAt, "79001234567", "79000000000", ".mp3"))
}

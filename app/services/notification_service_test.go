package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationServiceValidation(t *testing.T) {
	svc := NewNotificationService(NewMockSMSProvider())

	err := svc.SendSMS(context.Background(), "", "hello")
	assert.Error(t, err)

	err = svc.SendSMS(context.Background(), "79001234567", "hello")
	assert.NoError(t, err)

	unconfigured := NewNotificationService(nil)
	err = unconfigured.SendSMS(context.Background(), "79001234567", "hello")
	assert.Error(t, err)
}

func TestHTTPSMSProviderPostsToGateway(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewHTTPSMSProvider(server.URL, "api-key-123", "79000000000")

	err := provider.SendSMS(context.Background(), "79001234567", "New request #42")
	require.NoError(t, err)

	assert.Equal(t, "Bearer api-key-123", gotAuth)
	assert.Equal(t, map[string]string{
		"from": "79000000000",
		"to":   "79001234567",
		"text": "New request #42",
	}, gotBody)
}

func TestHTTPSMSProviderRejectsGatewayErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewHTTPSMSProvider(server.URL, "api-key-123", "79000000000")

	err := provider.SendSMS(context.Background(), "79001234567", "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

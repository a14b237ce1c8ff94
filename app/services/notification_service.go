package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// NotificationService handles operational notifications to staff
type NotificationService interface {
	SendSMS(ctx context.Context, mobile, message string) error
}

// SMSProvider interface for SMS sending
type SMSProvider interface {
	SendSMS(ctx context.Context, mobile, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	smsProvider SMSProvider
}

// NewNotificationService creates a new notification service
func NewNotificationService(smsProvider SMSProvider) NotificationService {
	return &NotificationServiceImpl{smsProvider: smsProvider}
}

// SendSMS sends an SMS message to the specified mobile number
func (s *NotificationServiceImpl) SendSMS(ctx context.Context, mobile, message string) error {
	if s.smsProvider == nil {
		return fmt.Errorf("SMS provider not configured")
	}
	if mobile == "" {
		return fmt.Errorf("mobile number is empty")
	}
	return s.smsProvider.SendSMS(ctx, mobile, message)
}

// HTTPSMSProvider posts messages to a gateway API endpoint
type HTTPSMSProvider struct {
	apiURL     string
	apiKey     string
	fromNumber string
	client     *http.Client
}

func NewHTTPSMSProvider(apiURL, apiKey, fromNumber string) SMSProvider {
	return &HTTPSMSProvider{
		apiURL:     apiURL,
		apiKey:     apiKey,
		fromNumber: fromNumber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPSMSProvider) SendSMS(ctx context.Context, mobile, message string) error {
	payload, err := json.Marshal(map[string]string{
		"from": p.fromNumber,
		"to":   mobile,
		"text": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call SMS gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// MockSMSProvider logs messages instead of sending them
type MockSMSProvider struct{}

func NewMockSMSProvider() SMSProvider {
	return &MockSMSProvider{}
}

func (p *MockSMSProvider) SendSMS(ctx context.Context, mobile, message string) error {
	log.Printf("SMS sent to %s: %s", mobile, message)
	return nil
}

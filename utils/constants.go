package utils

import (
	"time"
)

// Token time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Telephony constants
const (
	// DedupWindow suppresses duplicate request creation for repeated
	// call events from the same caller within this interval.
	DedupWindow = 30 * time.Minute

	// RecordingLinkTolerance bounds how far a recording's call time may
	// drift from a request's creation time and still be linked. The PBX
	// clock and the application clock are not synchronized.
	RecordingLinkTolerance = 3 * time.Hour

	// WebhookLockTTL bounds how long a per-phone webhook lock is held in
	// redis if the holder dies before releasing it.
	WebhookLockTTL = 15 * time.Second
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

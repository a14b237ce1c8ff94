package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateCaptchaChallengeIsSingleUse(t *testing.T) {
	svc, err := NewCaptchaServiceRotate(2*time.Minute, 5, 220)
	require.NoError(t, err)

	ch, err := svc.GenerateRotate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ch.ID)
	assert.NotEmpty(t, ch.MasterImageBase64)
	assert.NotEmpty(t, ch.ThumbImageBase64)
	assert.Equal(t, 2*time.Minute, ch.TTL)

	// An angle far outside any possible rotation fails and consumes the
	// challenge, so the second attempt fails on the missing entry.
	assert.False(t, svc.VerifyRotate(context.Background(), ch.ID, 720))
	assert.False(t, svc.VerifyRotate(context.Background(), ch.ID, 720))
}

func TestRotateCaptchaUnknownChallenge(t *testing.T) {
	svc, err := NewCaptchaServiceRotate(2*time.Minute, 5, 220)
	require.NoError(t, err)

	assert.False(t, svc.VerifyRotate(context.Background(), "no-such-challenge", 90))
}

func TestRotateCaptchaExpiredChallenge(t *testing.T) {
	svc, err := NewCaptchaServiceRotate(time.Nanosecond, 5, 220)
	require.NoError(t, err)

	ch, err := svc.GenerateRotate(context.Background())
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	assert.False(t, svc.VerifyRotate(context.Background(), ch.ID, 90))
}

package services

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wenlng/go-captcha/v2/rotate"
)

// CaptchaService guards the admin login with a rotate captcha.
//
// Flow:
// - Generate: returns a challenge ID and two base64 images (master and thumb)
// - Verify: validates a user-provided angle against the stored target angle with tolerance
// - A challenge is single-use: the first verification attempt consumes it
type CaptchaService interface {
	// GenerateRotate creates a rotate captcha challenge and returns the assets and challenge ID
	GenerateRotate(ctx context.Context) (*RotateChallenge, error)
	// VerifyRotate verifies the provided user angle for a given challenge ID
	VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool
}

type RotateChallenge struct {
	ID                string
	MasterImageBase64 string
	ThumbImageBase64  string
	TTL               time.Duration
}

// pendingChallenge is the server-side half of an outstanding rotate
// challenge: the angle the user must reproduce and its deadline.
type pendingChallenge struct {
	angle     int
	expiresAt time.Time
}

type captchaServiceImpl struct {
	rotator rotate.Captcha
	padding int // tolerance for angle validation, degrees
	ttl     time.Duration

	mu      sync.Mutex
	pending map[string]pendingChallenge
}

// NewCaptchaServiceRotate constructs a CaptchaService using rotate mode.
// ttl bounds challenge validity, padding is the acceptable angle
// difference in degrees, imgSizePx the square image size.
func NewCaptchaServiceRotate(ttl time.Duration, padding int, imgSizePx int) (CaptchaService, error) {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if imgSizePx <= 0 {
		imgSizePx = 220
	}

	builder := rotate.NewBuilder(
		rotate.WithImageSquareSize(imgSizePx),
	)
	builder.SetResources(
		rotate.WithImages(generateRotateBackgrounds(3, imgSizePx)),
	)

	return &captchaServiceImpl{
		rotator: builder.Make(),
		padding: padding,
		ttl:     ttl,
		pending: make(map[string]pendingChallenge),
	}, nil
}

func (s *captchaServiceImpl) GenerateRotate(ctx context.Context) (*RotateChallenge, error) {
	captData, err := s.rotator.Generate()
	if err != nil {
		return nil, err
	}

	block := captData.GetData()
	if block == nil {
		return nil, err
	}

	masterB64, err := captData.GetMasterImage().ToBase64()
	if err != nil {
		return nil, err
	}
	thumbB64, err := captData.GetThumbImage().ToBase64()
	if err != nil {
		return nil, err
	}

	challengeID := uuid.New().String()

	s.mu.Lock()
	s.pruneExpiredLocked()
	s.pending[challengeID] = pendingChallenge{
		angle:     block.Angle,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return &RotateChallenge{
		ID:                challengeID,
		MasterImageBase64: masterB64,
		ThumbImageBase64:  thumbB64,
		TTL:               s.ttl,
	}, nil
}

func (s *captchaServiceImpl) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	s.mu.Lock()
	entry, ok := s.pending[challengeID]
	// consume the challenge whether or not the angle matches
	delete(s.pending, challengeID)
	s.mu.Unlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return false
	}

	return rotate.Validate(int(math.Round(userAngle)), entry.angle, s.padding)
}

// pruneExpiredLocked drops stale challenges. Called with s.mu held; the
// map stays small because every Generate prunes and every Verify deletes.
func (s *captchaServiceImpl) pruneExpiredLocked() {
	now := time.Now()
	for id, entry := range s.pending {
		if now.After(entry.expiresAt) {
			delete(s.pending, id)
		}
	}
}

// --- Utility: generate simple background images programmatically ---

func generateRotateBackgrounds(n int, size int) []image.Image {
	if n <= 0 {
		n = 1
	}
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		imgs = append(imgs, newNoiseGradientImage(size, size))
	}
	return imgs
}

func newNoiseGradientImage(w, h int) image.Image {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// radial gradient plus noise
			dx := float64(x - w/2)
			dy := float64(y - h/2)
			dist := math.Sqrt(dx*dx + dy*dy)
			t := dist / float64(w/2)
			if t > 1 {
				t = 1
			}
			base := uint8(200 - int(150*t))
			noise := uint8(rand.Intn(30))
			rgba.Set(x, y, color.RGBA{R: base + noise/3, G: base, B: 255 - base/2, A: 255})
		}
	}
	drawRect(rgba, 10, 10, w/3, h/12, color.RGBA{R: 255, G: 255, B: 255, A: 32})
	drawRect(rgba, w/2, h/3, w/3, h/10, color.RGBA{R: 0, G: 0, B: 0, A: 24})
	return rgba
}

func drawRect(dst *image.RGBA, x, y, w, h int, c color.RGBA) {
	rect := image.Rect(x, y, x+w, y+h)
	draw.Draw(dst, rect, &image.Uniform{C: c}, image.Point{}, draw.Over)
}

package businessflow

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/calldesk-crm/calldesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadRequestPhoto(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	req := requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusNew})

	flow := NewAttachmentFlow(requestRepo, t.TempDir())

	resp, err := flow.UploadRequestPhoto(testCtx(), req.ID, "receipt.png", pngBytes(t, 640, 480), testMetadata())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Path)

	_, err = os.Stat(resp.Path)
	assert.NoError(t, err)

	// Large source images get a scaled-down thumbnail
	require.NotEmpty(t, resp.ThumbnailPath)
	_, err = os.Stat(resp.ThumbnailPath)
	assert.NoError(t, err)

	stored, err := requestRepo.ByID(testCtx(), req.ID)
	require.NoError(t, err)
	require.Len(t, stored.Photos, 1)
	assert.Equal(t, resp.Path, stored.Photos[0])
}

func TestUploadRequestPhotoValidation(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	req := requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusNew})

	flow := NewAttachmentFlow(requestRepo, t.TempDir())

	_, err := flow.UploadRequestPhoto(testCtx(), 999, "receipt.png", pngBytes(t, 10, 10), testMetadata())
	assert.True(t, IsRequestNotFound(err))

	_, err = flow.UploadRequestPhoto(testCtx(), req.ID, "receipt.pdf", []byte("%PDF-"), testMetadata())
	require.Error(t, err)
	var bizErr *BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, "INVALID_FILE_TYPE", bizErr.Code)

	oversized := make([]byte, 10*1024*1024+1)
	_, err = flow.UploadRequestPhoto(testCtx(), req.ID, "receipt.jpg", oversized, testMetadata())
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, "FILE_TOO_LARGE", bizErr.Code)
}

func TestUploadRequestPhotoKeepsUndecodableFile(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	req := requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusNew})

	flow := NewAttachmentFlow(requestRepo, t.TempDir())

	// Valid extension but garbage bytes: stored without a thumbnail
	resp, err := flow.UploadRequestPhoto(testCtx(), req.ID, "photo.jpg", []byte("not-an-image"), testMetadata())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Path)
	assert.Empty(t, resp.ThumbnailPath)
}

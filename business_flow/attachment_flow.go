package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/repository"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// AttachmentFlow stores receipt/BSO photos on requests
type AttachmentFlow interface {
	UploadRequestPhoto(ctx context.Context, requestID uint, filename string, data []byte, metadata *ClientMetadata) (*dto.UploadPhotoResponse, error)
}

// AttachmentFlowImpl implements AttachmentFlow
type AttachmentFlowImpl struct {
	requestRepo repository.RequestRepository
	uploadDir   string
}

func NewAttachmentFlow(requestRepo repository.RequestRepository, uploadDir string) AttachmentFlow {
	if uploadDir == "" {
		uploadDir = filepath.Join("data", "uploads", "requests")
	}
	return &AttachmentFlowImpl{requestRepo: requestRepo, uploadDir: uploadDir}
}

const (
	maxPhotoSize   = int64(10 * 1024 * 1024) // 10MB
	thumbnailWidth = 320
)

var allowedPhotoExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

func (f *AttachmentFlowImpl) UploadRequestPhoto(ctx context.Context, requestID uint, filename string, data []byte, metadata *ClientMetadata) (*dto.UploadPhotoResponse, error) {
	r, err := f.requestRepo.ByID(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("GET_REQUEST_FAILED", "Failed to load request", err)
	}
	if r == nil {
		return nil, ErrRequestNotFound
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedPhotoExts[ext]; !ok {
		return nil, NewBusinessError("INVALID_FILE_TYPE", "allowed photo types: jpg, jpeg, png, webp", nil)
	}
	if int64(len(data)) > maxPhotoSize {
		return nil, NewBusinessError("FILE_TOO_LARGE", "photo size exceeds 10MB", nil)
	}

	dateDir := utils.UTCNow().Format("2006-01-02")
	baseDir := filepath.Join(f.uploadDir, dateDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, NewBusinessError("UPLOAD_FAILED", "Failed to prepare upload directory", err)
	}

	stem := uuid.New().String()
	fullPath := filepath.Join(baseDir, stem+ext)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, NewBusinessError("UPLOAD_FAILED", "Failed to store photo", err)
	}

	storedPath := filepath.ToSlash(fullPath)

	// Thumbnail generation is best-effort; an undecodable but
	// well-formed file keeps its full-size copy.
	thumbPath := ""
	if thumb, err := makeThumbnail(data, ext); err == nil {
		p := filepath.Join(baseDir, stem+"_thumb.jpg")
		if err := os.WriteFile(p, thumb, 0o644); err == nil {
			thumbPath = filepath.ToSlash(p)
		}
	}

	if err := f.requestRepo.AppendPhoto(ctx, requestID, storedPath); err != nil {
		return nil, NewBusinessError("UPLOAD_FAILED", "Failed to register photo on request", err)
	}

	return &dto.UploadPhotoResponse{
		Message:       "Photo uploaded successfully",
		Path:          storedPath,
		ThumbnailPath: thumbPath,
	}, nil
}

// makeThumbnail decodes the photo and scales it down to thumbnailWidth
// using Catmull-Rom resampling, encoding the result as JPEG.
func makeThumbnail(data []byte, ext string) ([]byte, error) {
	var src image.Image
	var err error

	switch ext {
	case ".jpg", ".jpeg":
		src, err = jpeg.Decode(bytes.NewReader(data))
	case ".png":
		src, err = png.Decode(bytes.NewReader(data))
	case ".webp":
		src, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported image type %s", ext)
	}
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	if bounds.Dx() <= thumbnailWidth {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 80}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	height := bounds.Dy() * thumbnailWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, thumbnailWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/repository"
	"github.com/calldesk-crm/calldesk/utils"
)

// RecordingLinkFlow attaches downloaded call recordings to requests
type RecordingLinkFlow interface {
	// LinkRecording finds the best-matching request for the recording
	// metadata and sets its file path. Returns the linked request, or
	// nil when the recording stays orphaned; an orphan is not an error.
	LinkRecording(ctx context.Context, rec *models.CallRecording, storedPath string) (*models.Request, error)
}

// RecordingLinkFlowImpl implements RecordingLinkFlow
type RecordingLinkFlowImpl struct {
	requestRepo repository.RequestRepository
	tolerance   time.Duration
	logger      *log.Logger
}

func NewRecordingLinkFlow(requestRepo repository.RequestRepository, tolerance time.Duration, logger *log.Logger) RecordingLinkFlow {
	if tolerance <= 0 {
		tolerance = utils.RecordingLinkTolerance
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RecordingLinkFlowImpl{
		requestRepo: requestRepo,
		tolerance:   tolerance,
		logger:      logger,
	}
}

func (f *RecordingLinkFlowImpl) LinkRecording(ctx context.Context, rec *models.CallRecording, storedPath string) (*models.Request, error) {
	if rec == nil {
		return nil, NewBusinessError("EMPTY_RECORDING_METADATA", "Recording metadata is empty", nil)
	}

	// Call direction in the filename is not always caller-first, so
	// both numbers are matched against client phones.
	phones := make([]string, 0, 2)
	for _, raw := range []string{rec.FromNumber, rec.ToNumber} {
		if p := utils.NormalizePhone(raw); p != "" && !containsString(phones, p) {
			phones = append(phones, p)
		}
	}
	if len(phones) == 0 {
		f.logger.Printf("recording %s has no parseable phone numbers, left orphaned", rec.FileName)
		return nil, nil
	}

	candidates, err := f.requestRepo.ByPhonesWithin(ctx, phones, rec.CalledAt, f.tolerance)
	if err != nil {
		return nil, NewBusinessError("CANDIDATE_LOOKUP_FAILED", "Failed to find candidate requests for recording", err)
	}

	best := closestRequest(candidates, rec.CalledAt)
	if best == nil {
		f.logger.Printf("recording %s is orphaned: no request for %v within %s of %s",
			rec.FileName, phones, f.tolerance, rec.CalledAt.Format(time.RFC3339))
		return nil, nil
	}

	applied, err := f.requestRepo.AttachRecording(ctx, best.ID, storedPath)
	if err != nil {
		return nil, NewBusinessError("ATTACH_RECORDING_FAILED", "Failed to attach recording to request", err)
	}
	if !applied {
		// First match wins; an earlier recording already claimed the request.
		f.logger.Printf("request %d already has a recording, skipping %s", best.ID, rec.FileName)
		return best, nil
	}

	f.logger.Printf("recording %s linked to request %d", rec.FileName, best.ID)
	return best, nil
}

// closestRequest picks the candidate with the smallest absolute time
// difference to the call timestamp.
func closestRequest(candidates []*models.Request, calledAt time.Time) *models.Request {
	var best *models.Request
	var bestDelta time.Duration
	for _, c := range candidates {
		delta := c.CreatedAt.Sub(calledAt)
		if delta < 0 {
			delta = -delta
		}
		if best == nil || delta < bestDelta {
			best = c
			bestDelta = delta
		}
	}
	return best
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Package scheduler contains long-running background tasks
package scheduler

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/calldesk-crm/calldesk/app/services"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
)

// FetcherStatus is a point-in-time snapshot of the fetcher state
type FetcherStatus struct {
	Running        bool      `json:"running"`
	LastCheckAt    time.Time `json:"last_check_at"`
	ProcessedCount int64     `json:"processed_count"`
}

// CycleResult reports what a single poll cycle did
type CycleResult struct {
	Downloaded int
	Linked     int
}

// RecordingFetcher polls a mailbox for call-recording attachments,
// stores them under the media directory and hands parsed metadata to
// the link flow. It is an explicit {stopped, running} state machine:
// Start and Stop are the only transitions and both are idempotent.
// State is process-wide and resets on restart; there is no persistence.
type RecordingFetcher struct {
	mailClient services.MailClient
	linkFlow   businessflow.RecordingLinkFlow
	mediaDir   string
	interval   time.Duration
	logger     *log.Logger

	// pollMu serializes cycles: the ticker loop and manual RunOnce calls
	// must never inspect the media directory concurrently.
	pollMu sync.Mutex

	mu             sync.Mutex
	running        bool
	cancel         context.CancelFunc
	done           chan struct{}
	lastCheckAt    time.Time
	processedCount int64
}

// NewRecordingFetcher creates a stopped fetcher. Polling begins only on
// an explicit Start call, never on construction.
func NewRecordingFetcher(mailClient services.MailClient, linkFlow businessflow.RecordingLinkFlow, mediaDir string, interval time.Duration, logger *log.Logger) *RecordingFetcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RecordingFetcher{
		mailClient: mailClient,
		linkFlow:   linkFlow,
		mediaDir:   mediaDir,
		interval:   interval,
		logger:     logger,
	}
}

// Start launches the polling loop. Starting a running fetcher is a no-op.
func (f *RecordingFetcher) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})
	f.running = true

	go f.loop(ctx, f.done)
	f.logger.Printf("recording fetcher started, polling every %s", f.interval)
}

// Stop ends the polling loop and waits for the current cycle to finish.
// Stopping a stopped fetcher is a no-op.
func (f *RecordingFetcher) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	cancel := f.cancel
	done := f.done
	f.running = false
	f.cancel = nil
	f.done = nil
	f.mu.Unlock()

	cancel()
	<-done
	f.logger.Printf("recording fetcher stopped")
}

// Status returns the current state snapshot
func (f *RecordingFetcher) Status() FetcherStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FetcherStatus{
		Running:        f.running,
		LastCheckAt:    f.lastCheckAt,
		ProcessedCount: f.processedCount,
	}
}

// RunOnce performs a single poll cycle regardless of the running state.
// It backs the manual download endpoint.
func (f *RecordingFetcher) RunOnce(ctx context.Context) (CycleResult, error) {
	return f.poll(ctx)
}

func (f *RecordingFetcher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	// First cycle runs immediately rather than one interval in.
	if _, err := f.poll(ctx); err != nil && ctx.Err() == nil {
		f.logger.Printf("poll cycle failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := f.poll(ctx); err != nil && ctx.Err() == nil {
				// Transient mailbox failures end the cycle, not the service.
				f.logger.Printf("poll cycle failed: %v", err)
			}
		}
	}
}

// poll runs one mailbox cycle: fetch attachments since the last check,
// skip files already on disk, save the rest and attempt linking.
func (f *RecordingFetcher) poll(ctx context.Context) (CycleResult, error) {
	f.pollMu.Lock()
	defer f.pollMu.Unlock()

	f.mu.Lock()
	since := f.lastCheckAt
	f.mu.Unlock()

	var result CycleResult

	if f.mailClient == nil {
		return result, errors.New("mail client is not configured")
	}

	attachments, err := f.mailClient.FetchAttachmentsSince(ctx, since)
	if err != nil {
		return result, err
	}

	for _, att := range attachments {
		saved, err := f.saveAttachment(att)
		if err != nil {
			f.logger.Printf("failed to save %s: %v", att.Filename, err)
			continue
		}
		if !saved {
			// Already on disk from an earlier poll.
			continue
		}
		result.Downloaded++

		f.mu.Lock()
		f.processedCount++
		f.mu.Unlock()

		storedPath := filepath.ToSlash(filepath.Join(f.mediaDir, filepath.Base(att.Filename)))

		rec, err := models.ParseRecordingFilename(att.Filename)
		if err != nil {
			// The file is kept but cannot be linked.
			f.logger.Printf("recording %s kept unlinked: %v", att.Filename, err)
			continue
		}

		linked, err := f.linkFlow.LinkRecording(ctx, rec, storedPath)
		if err != nil {
			f.logger.Printf("failed to link %s: %v", att.Filename, err)
			continue
		}
		if linked != nil {
			result.Linked++
		}
	}

	f.mu.Lock()
	f.lastCheckAt = utils.UTCNow()
	f.mu.Unlock()

	return result, nil
}

// saveAttachment writes the attachment under the media directory using
// its original filename. Returns false when the file already exists.
func (f *RecordingFetcher) saveAttachment(att services.MailAttachment) (bool, error) {
	if err := os.MkdirAll(f.mediaDir, 0o755); err != nil {
		return false, err
	}

	path := filepath.Join(f.mediaDir, filepath.Base(att.Filename))
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if err := os.WriteFile(path, att.Data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

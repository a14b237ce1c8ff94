package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/calldesk-crm/calldesk/app/services"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMailClient serves a fixed set of attachments
type fakeMailClient struct {
	mu          sync.Mutex
	attachments []services.MailAttachment
	err         error
	calls       int
}

func (c *fakeMailClient) FetchAttachmentsSince(ctx context.Context, since time.Time) ([]services.MailAttachment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.attachments, nil
}

// fakeLinkFlow records link attempts and links every parsed recording
type fakeLinkFlow struct {
	mu     sync.Mutex
	linked []string
}

func (f *fakeLinkFlow) LinkRecording(ctx context.Context, rec *models.CallRecording, storedPath string) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linked = append(f.linked, storedPath)
	return &models.Request{ID: uint(len(f.linked))}, nil
}

func TestRecordingFetcherStartStopIdempotent(t *testing.T) {
	mail := &fakeMailClient{}
	fetcher := NewRecordingFetcher(mail, &fakeLinkFlow{}, t.TempDir(), time.Hour, nil)

	assert.False(t, fetcher.Status().Running)

	fetcher.Start()
	fetcher.Start()
	assert.True(t, fetcher.Status().Running)

	fetcher.Stop()
	fetcher.Stop()
	assert.False(t, fetcher.Status().Running)
}

func TestRecordingFetcherRunOnceDownloadsAndLinks(t *testing.T) {
	validName := models.EncodeRecordingFilename(time.Date(2024, 3, 15, 14, 30, 5, 0, time.UTC), "79001234567", "79000000000", "mp3")
	mail := &fakeMailClient{
		attachments: []services.MailAttachment{
			{Filename: validName, Data: []byte("audio-bytes")},
			{Filename: "voicemail.mp3", Data: []byte("other-bytes")},
		},
	}
	linkFlow := &fakeLinkFlow{}
	mediaDir := t.TempDir()
	fetcher := NewRecordingFetcher(mail, linkFlow, mediaDir, time.Hour, nil)

	result, err := fetcher.RunOnce(context.Background())
	require.NoError(t, err)

	// Both files are saved; only the parseable one reaches the link flow
	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, 1, result.Linked)
	assert.Equal(t, []string{filepath.ToSlash(filepath.Join(mediaDir, validName))}, linkFlow.linked)

	data, err := os.ReadFile(filepath.Join(mediaDir, validName))
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)

	status := fetcher.Status()
	assert.False(t, status.Running)
	assert.Equal(t, int64(2), status.ProcessedCount)
	assert.False(t, status.LastCheckAt.IsZero())
}

func TestRecordingFetcherSkipsExistingFiles(t *testing.T) {
	validName := models.EncodeRecordingFilename(time.Date(2024, 3, 15, 14, 30, 5, 0, time.UTC), "79001234567", "79000000000", "mp3")
	mail := &fakeMailClient{
		attachments: []services.MailAttachment{
			{Filename: validName, Data: []byte("audio-bytes")},
		},
	}
	linkFlow := &fakeLinkFlow{}
	fetcher := NewRecordingFetcher(mail, linkFlow, t.TempDir(), time.Hour, nil)

	first, err := fetcher.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Downloaded)

	second, err := fetcher.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Downloaded)
	assert.Equal(t, 0, second.Linked)

	// The link flow saw the file exactly once
	assert.Len(t, linkFlow.linked, 1)
	assert.Equal(t, int64(1), fetcher.Status().ProcessedCount)
}

func TestRecordingFetcherConcurrentCyclesDownloadOnce(t *testing.T) {
	validName := models.EncodeRecordingFilename(time.Date(2024, 3, 15, 14, 30, 5, 0, time.UTC), "79001234567", "79000000000", "mp3")
	mail := &fakeMailClient{
		attachments: []services.MailAttachment{
			{Filename: validName, Data: []byte("audio-bytes")},
			{Filename: "voicemail.mp3", Data: []byte("other-bytes")},
		},
	}
	linkFlow := &fakeLinkFlow{}
	fetcher := NewRecordingFetcher(mail, linkFlow, t.TempDir(), time.Hour, nil)

	// Cycles are serialized, so only the first one finds work; the rest
	// see the files already on disk.
	var wg sync.WaitGroup
	var downloaded int64
	var failures int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := fetcher.RunOnce(context.Background())
			if err != nil {
				atomic.AddInt64(&failures, 1)
				return
			}
			atomic.AddInt64(&downloaded, int64(result.Downloaded))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), failures)
	assert.Equal(t, int64(2), downloaded)
	assert.Equal(t, int64(2), fetcher.Status().ProcessedCount)
	assert.Len(t, linkFlow.linked, 1)
}

func TestRecordingFetcherRunOnceWithoutMailClient(t *testing.T) {
	fetcher := NewRecordingFetcher(nil, &fakeLinkFlow{}, t.TempDir(), time.Hour, nil)

	_, err := fetcher.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestRecordingFetcherStartPollsImmediately(t *testing.T) {
	mail := &fakeMailClient{}
	fetcher := NewRecordingFetcher(mail, &fakeLinkFlow{}, t.TempDir(), time.Hour, nil)

	fetcher.Start()
	defer fetcher.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mail.mu.Lock()
		calls := mail.calls
		mail.mu.Unlock()
		if calls > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("fetcher did not poll after start")
}

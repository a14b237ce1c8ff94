package handlers

import (
	"log"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/app/middleware"
	"github.com/calldesk-crm/calldesk/app/scheduler"
	"github.com/gofiber/fiber/v3"
)

// RecordingHandlerInterface defines the contract for recording service handlers
type RecordingHandlerInterface interface {
	Start(c fiber.Ctx) error
	Stop(c fiber.Ctx) error
	Status(c fiber.Ctx) error
	Download(c fiber.Ctx) error
}

// RecordingHandler controls the background recording fetcher
type RecordingHandler struct {
	baseHandler
	fetcher *scheduler.RecordingFetcher
}

// NewRecordingHandler creates a new recording service handler
func NewRecordingHandler(fetcher *scheduler.RecordingFetcher) *RecordingHandler {
	return &RecordingHandler{
		baseHandler: newBaseHandler(),
		fetcher:     fetcher,
	}
}

// Start launches the recording fetcher
// @Summary Start recording service
// @Description Start the background mailbox poller; starting a running service is a no-op
// @Tags Recordings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RecordingServiceActionResponse} "Service running"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/recordings/start [post]
func (h *RecordingHandler) Start(c fiber.Ctx) error {
	h.fetcher.Start()
	return h.SuccessResponse(c, fiber.StatusOK, "Recording service started", dto.RecordingServiceActionResponse{
		Message: "Recording service started",
		Running: true,
	})
}

// Stop halts the recording fetcher
// @Summary Stop recording service
// @Description Stop the background mailbox poller; stopping a stopped service is a no-op
// @Tags Recordings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RecordingServiceActionResponse} "Service stopped"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/recordings/stop [post]
func (h *RecordingHandler) Stop(c fiber.Ctx) error {
	h.fetcher.Stop()
	return h.SuccessResponse(c, fiber.StatusOK, "Recording service stopped", dto.RecordingServiceActionResponse{
		Message: "Recording service stopped",
		Running: false,
	})
}

// Status reports the recording fetcher state
// @Summary Recording service status
// @Description Report whether the mailbox poller is running and its counters
// @Tags Recordings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RecordingServiceStatusResponse} "Service status"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/recordings/status [get]
func (h *RecordingHandler) Status(c fiber.Ctx) error {
	status := h.fetcher.Status()

	resp := dto.RecordingServiceStatusResponse{
		Running:        status.Running,
		ProcessedCount: status.ProcessedCount,
	}
	if !status.LastCheckAt.IsZero() {
		resp.LastCheckAt = status.LastCheckAt.Format(time.RFC3339)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Recording service status", resp)
}

// Download triggers a one-shot mailbox poll
// @Summary Poll mailbox once
// @Description Run a single mailbox cycle immediately, regardless of the service state
// @Tags Recordings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RecordingDownloadResponse} "Mailbox polled"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 502 {object} dto.APIResponse "Mailbox unreachable"
// @Router /api/v1/recordings/download [post]
func (h *RecordingHandler) Download(c fiber.Ctx) error {
	result, err := h.fetcher.RunOnce(h.createRequestContextWithTimeout(c, "/api/v1/recordings/download", 5*time.Minute))
	if err != nil {
		log.Println("Manual mailbox poll failed", err)
		return h.ErrorResponse(c, fiber.StatusBadGateway, "Failed to poll mailbox", "MAILBOX_POLL_FAILED", nil)
	}

	middleware.RecordingsProcessedTotal.WithLabelValues("downloaded").Add(float64(result.Downloaded))
	middleware.RecordingsProcessedTotal.WithLabelValues("linked").Add(float64(result.Linked))

	return h.SuccessResponse(c, fiber.StatusOK, "Mailbox polled", dto.RecordingDownloadResponse{
		Message:    "Mailbox polled",
		Downloaded: result.Downloaded,
		Linked:     result.Linked,
	})
}

package handlers

import (
	"crypto/subtle"
	"log"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/app/middleware"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/gofiber/fiber/v3"
)

// WebhookHandlerInterface defines the contract for telephony webhook handlers
type WebhookHandlerInterface interface {
	HandleCallEvent(c fiber.Ctx) error
}

// WebhookHandler receives call events from the telephony provider
type WebhookHandler struct {
	baseHandler
	callEventFlow businessflow.CallEventFlow
	webhookToken  string
}

// NewWebhookHandler creates a new webhook handler. An empty token
// disables the signature check.
func NewWebhookHandler(callEventFlow businessflow.CallEventFlow, webhookToken string) *WebhookHandler {
	return &WebhookHandler{
		baseHandler:   newBaseHandler(),
		callEventFlow: callEventFlow,
		webhookToken:  webhookToken,
	}
}

// HandleCallEvent processes an inbound call event
// @Summary Telephony call event webhook
// @Description Receives call events from the PBX and creates deduplicated requests for inbound calls
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param request body dto.CallEventRequest true "Call event payload"
// @Success 200 {object} dto.APIResponse{data=dto.CallEventResponse} "Event processed"
// @Failure 400 {object} dto.APIResponse "Invalid payload"
// @Failure 401 {object} dto.APIResponse "Invalid webhook token"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/mango/webhook [post]
func (h *WebhookHandler) HandleCallEvent(c fiber.Ctx) error {
	if h.webhookToken != "" {
		token := c.Get("X-Webhook-Token")
		if token == "" {
			token = c.Query("token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.webhookToken)) != 1 {
			middleware.CallEventsTotal.WithLabelValues("rejected").Inc()
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid webhook token", "INVALID_WEBHOOK_TOKEN", nil)
		}
	}

	var req dto.CallEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		middleware.CallEventsTotal.WithLabelValues("rejected").Inc()
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := h.clientMetadata(c)

	result, err := h.callEventFlow.HandleCallEvent(h.createRequestContext(c, "/api/v1/mango/webhook"), &req, metadata)
	if err != nil {
		if businessflow.IsMissingCallerNumber(err) {
			middleware.CallEventsTotal.WithLabelValues("rejected").Inc()
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Caller number is missing or malformed", "MISSING_CALLER_NUMBER", nil)
		}

		log.Println("Call event processing failed", err)
		middleware.CallEventsTotal.WithLabelValues("rejected").Inc()
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process call event", "CALL_EVENT_FAILED", nil)
	}

	switch {
	case result.Created:
		middleware.CallEventsTotal.WithLabelValues("created").Inc()
	case result.RequestID != 0:
		middleware.CallEventsTotal.WithLabelValues("duplicate").Inc()
	default:
		middleware.CallEventsTotal.WithLabelValues("ignored").Inc()
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

package handlers

import (
	"log"

	"github.com/calldesk-crm/calldesk/app/dto"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/gofiber/fiber/v3"
)

// CampaignHandlerInterface defines the contract for campaign management handlers
type CampaignHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// CampaignHandler handles advertising campaign HTTP endpoints
type CampaignHandler struct {
	baseHandler
	campaignFlow businessflow.CampaignFlow
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		baseHandler:  newBaseHandler(),
		campaignFlow: campaignFlow,
	}
}

// Create registers a new advertising campaign
// @Summary Create campaign
// @Description Register an advertising campaign bound to a dedicated inbound phone number
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param request body dto.CreateCampaignRequest true "Campaign data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateCampaignResponse} "Campaign created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 409 {object} dto.APIResponse "Phone number already bound"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) Create(c fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.campaignFlow.CreateCampaign(h.createRequestContext(c, "/api/v1/campaigns"), &req, metadata)
	if err != nil {
		if businessflow.IsCampaignPhoneInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Campaign phone number is malformed", "INVALID_PHONE", nil)
		}
		if businessflow.IsCampaignPhoneExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Campaign phone number already exists", "CAMPAIGN_PHONE_EXISTS", nil)
		}

		log.Println("Campaign creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create campaign", "CAMPAIGN_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns the campaign roster
// @Summary List campaigns
// @Description List advertising campaigns, optionally restricted to active ones
// @Tags Campaigns
// @Produce json
// @Param active_only query bool false "Return only active campaigns"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) List(c fiber.Ctx) error {
	activeOnly := c.Query("active_only") == "true"

	metadata := h.clientMetadata(c)

	result, err := h.campaignFlow.ListCampaigns(h.createRequestContext(c, "/api/v1/campaigns"), activeOnly, metadata)
	if err != nil {
		log.Println("Campaign listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

package handlers

import (
	"errors"
	"log"

	"github.com/calldesk-crm/calldesk/app/dto"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/gofiber/fiber/v3"
)

// MasterHandlerInterface defines the contract for master management handlers
type MasterHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// MasterHandler handles field worker HTTP endpoints
type MasterHandler struct {
	baseHandler
	masterFlow businessflow.MasterFlow
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(masterFlow businessflow.MasterFlow) *MasterHandler {
	return &MasterHandler{
		baseHandler: newBaseHandler(),
		masterFlow:  masterFlow,
	}
}

// Create registers a new master
// @Summary Create master
// @Description Register a field worker who can be assigned to requests
// @Tags Masters
// @Accept json
// @Produce json
// @Param request body dto.CreateMasterRequest true "Master data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateMasterResponse} "Master created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/masters [post]
func (h *MasterHandler) Create(c fiber.Ctx) error {
	var req dto.CreateMasterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.masterFlow.CreateMaster(h.createRequestContext(c, "/api/v1/masters"), &req, metadata)
	if err != nil {
		var bizErr *businessflow.BusinessError
		if errors.As(err, &bizErr) && (bizErr.Code == "INVALID_NAME" || bizErr.Code == "INVALID_PHONE") {
			return h.ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
		}

		log.Println("Master creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create master", "MASTER_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns the master roster
// @Summary List masters
// @Description List masters, optionally restricted to active ones
// @Tags Masters
// @Produce json
// @Param active_only query bool false "Return only active masters"
// @Success 200 {object} dto.APIResponse{data=dto.ListMastersResponse} "Masters retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/masters [get]
func (h *MasterHandler) List(c fiber.Ctx) error {
	activeOnly := c.Query("active_only") == "true"

	metadata := h.clientMetadata(c)

	result, err := h.masterFlow.ListMasters(h.createRequestContext(c, "/api/v1/masters"), activeOnly, metadata)
	if err != nil {
		log.Println("Master listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list masters", "MASTER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

package handlers

import (
	"errors"
	"io"
	"log"

	"github.com/calldesk-crm/calldesk/app/dto"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/gofiber/fiber/v3"
)

// RequestHandlerInterface defines the contract for request management handlers
type RequestHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	UpdateStatus(c fiber.Ctx) error
	AssignMaster(c fiber.Ctx) error
	UploadPhoto(c fiber.Ctx) error
}

// RequestHandler handles request lifecycle HTTP endpoints
type RequestHandler struct {
	baseHandler
	requestFlow    businessflow.RequestFlow
	attachmentFlow businessflow.AttachmentFlow
}

// NewRequestHandler creates a new request management handler
func NewRequestHandler(requestFlow businessflow.RequestFlow, attachmentFlow businessflow.AttachmentFlow) *RequestHandler {
	return &RequestHandler{
		baseHandler:    newBaseHandler(),
		requestFlow:    requestFlow,
		attachmentFlow: attachmentFlow,
	}
}

// Create handles manual request creation by an operator
// @Summary Create request
// @Description Create a request manually; the caller history classification matches webhook-created requests
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Request data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateRequestResponse} "Request created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests [post]
func (h *RequestHandler) Create(c fiber.Ctx) error {
	var req dto.CreateRequestRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.requestFlow.CreateRequest(h.createRequestContext(c, "/api/v1/requests"), &req, metadata)
	if err != nil {
		if businessflow.IsMissingCallerNumber(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Client phone is malformed", "INVALID_PHONE", nil)
		}

		log.Println("Request creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create request", "REQUEST_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns a filtered, paginated request listing
// @Summary List requests
// @Description List requests filtered by status, type, master, phone, recording presence and period
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body dto.ListRequestsRequest true "Filter criteria"
// @Success 200 {object} dto.APIResponse{data=dto.ListRequestsResponse} "Requests retrieved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/list [post]
func (h *RequestHandler) List(c fiber.Ctx) error {
	var req dto.ListRequestsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.requestFlow.ListRequests(h.createRequestContext(c, "/api/v1/requests/list"), &req, metadata)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_PERIOD", nil)
		}

		log.Println("Request listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list requests", "REQUEST_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Get returns a single request by UUID
// @Summary Get request
// @Description Load a single request with its campaign and master references
// @Tags Requests
// @Produce json
// @Param uuid path string true "Request UUID"
// @Success 200 {object} dto.APIResponse{data=dto.RequestItem} "Request retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/{uuid} [get]
func (h *RequestHandler) Get(c fiber.Ctx) error {
	requestUUID := c.Params("uuid")
	if requestUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Request UUID is required", "INVALID_REQUEST", nil)
	}

	metadata := h.clientMetadata(c)

	result, err := h.requestFlow.GetRequest(h.createRequestContext(c, "/api/v1/requests/:uuid"), requestUUID, metadata)
	if err != nil {
		if businessflow.IsRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
		}

		log.Println("Request lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load request", "REQUEST_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Request retrieved successfully", result)
}

// UpdateStatus transitions the request lifecycle status
// @Summary Update request status
// @Description Set the request status to one of new, in_progress, done, cancelled, rejected
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body dto.UpdateRequestStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateRequestResponse} "Status updated"
// @Failure 400 {object} dto.APIResponse "Invalid status"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/{id}/status [patch]
func (h *RequestHandler) UpdateStatus(c fiber.Ctx) error {
	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateRequestStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.requestFlow.UpdateStatus(h.createRequestContext(c, "/api/v1/requests/:id/status"), requestID, &req, metadata)
	if err != nil {
		if businessflow.IsInvalidStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request status", "INVALID_STATUS", nil)
		}
		if businessflow.IsRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
		}

		log.Println("Request status update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update request status", "REQUEST_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// AssignMaster sets or clears the master assigned to a request
// @Summary Assign master
// @Description Assign a master to the request; a null master_id clears the assignment
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body dto.AssignMasterRequest true "Master assignment"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateRequestResponse} "Assignment updated"
// @Failure 400 {object} dto.APIResponse "Master inactive"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Request or master not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/{id}/master [patch]
func (h *RequestHandler) AssignMaster(c fiber.Ctx) error {
	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request ID", "INVALID_REQUEST", nil)
	}

	var req dto.AssignMasterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := h.clientMetadata(c)

	result, err := h.requestFlow.AssignMaster(h.createRequestContext(c, "/api/v1/requests/:id/master"), requestID, &req, metadata)
	if err != nil {
		if businessflow.IsRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsMasterNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Master not found", "MASTER_NOT_FOUND", nil)
		}
		if businessflow.IsMasterInactive(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Master is inactive", "MASTER_INACTIVE", nil)
		}

		log.Println("Master assignment failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to assign master", "ASSIGN_MASTER_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// UploadPhoto stores a receipt/BSO photo on the request
// @Summary Upload request photo
// @Description Attach a jpg, jpeg, png or webp photo up to 10MB to the request
// @Tags Requests
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Request ID"
// @Param photo formData file true "Photo file"
// @Success 200 {object} dto.APIResponse{data=dto.UploadPhotoResponse} "Photo uploaded"
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/{id}/photos [post]
func (h *RequestHandler) UploadPhoto(c fiber.Ctx) error {
	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request ID", "INVALID_REQUEST", nil)
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Photo file is required", "MISSING_FILE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read photo file", "INVALID_FILE", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read photo file", "INVALID_FILE", nil)
	}

	metadata := h.clientMetadata(c)

	result, err := h.attachmentFlow.UploadRequestPhoto(h.createRequestContext(c, "/api/v1/requests/:id/photos"), requestID, fileHeader.Filename, data, metadata)
	if err != nil {
		if businessflow.IsRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
		}

		var bizErr *businessflow.BusinessError
		if errors.As(err, &bizErr) && (bizErr.Code == "INVALID_FILE_TYPE" || bizErr.Code == "FILE_TOO_LARGE") {
			return h.ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
		}

		log.Println("Photo upload failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload photo", "UPLOAD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/repository"
	"github.com/calldesk-crm/calldesk/utils"
)

// RequestFlow defines operations for operator-driven request management
type RequestFlow interface {
	CreateRequest(ctx context.Context, req *dto.CreateRequestRequest, metadata *ClientMetadata) (*dto.CreateRequestResponse, error)
	ListRequests(ctx context.Context, req *dto.ListRequestsRequest, metadata *ClientMetadata) (*dto.ListRequestsResponse, error)
	GetRequest(ctx context.Context, requestUUID string, metadata *ClientMetadata) (*dto.RequestItem, error)
	UpdateStatus(ctx context.Context, requestID uint, req *dto.UpdateRequestStatusRequest, metadata *ClientMetadata) (*dto.UpdateRequestResponse, error)
	AssignMaster(ctx context.Context, requestID uint, req *dto.AssignMasterRequest, metadata *ClientMetadata) (*dto.UpdateRequestResponse, error)
}

// RequestFlowImpl implements RequestFlow
type RequestFlowImpl struct {
	requestRepo repository.RequestRepository
	masterRepo  repository.MasterRepository
}

func NewRequestFlow(requestRepo repository.RequestRepository, masterRepo repository.MasterRepository) RequestFlow {
	return &RequestFlowImpl{requestRepo: requestRepo, masterRepo: masterRepo}
}

var validStatuses = map[string]struct{}{
	models.RequestStatusNew:        {},
	models.RequestStatusInProgress: {},
	models.RequestStatusDone:       {},
	models.RequestStatusCancelled:  {},
	models.RequestStatusRejected:   {},
}

func (f *RequestFlowImpl) CreateRequest(ctx context.Context, req *dto.CreateRequestRequest, metadata *ClientMetadata) (*dto.CreateRequestResponse, error) {
	phone := utils.NormalizePhone(req.ClientPhone)
	if phone == "" {
		return nil, NewBusinessError("INVALID_PHONE", "Client phone is malformed", ErrMissingCallerNumber)
	}

	// Manually entered requests get the same history-based classification
	// as webhook-created ones.
	seenBefore, err := f.requestRepo.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, NewBusinessError("HISTORY_LOOKUP_FAILED", "Failed to check caller history", err)
	}
	requestType := models.RequestTypeNewCaller
	if seenBefore {
		requestType = models.RequestTypeRepeatCaller
	}

	r := models.Request{
		ClientPhone:           phone,
		ClientName:            trimOptional(req.ClientName),
		ClientAddress:         trimOptional(req.ClientAddress),
		AdvertisingCampaignID: req.AdvertisingCampaignID,
		RequestType:           requestType,
		Status:                models.RequestStatusNew,
		Comment:               trimOptional(req.Comment),
	}
	if err := f.requestRepo.Save(ctx, &r); err != nil {
		return nil, NewBusinessError("REQUEST_INSERT_FAILED", "Failed to create request", err)
	}

	return &dto.CreateRequestResponse{
		Message:     "Request created successfully",
		ID:          r.ID,
		UUID:        r.UUID.String(),
		RequestType: r.RequestType,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (f *RequestFlowImpl) ListRequests(ctx context.Context, req *dto.ListRequestsRequest, metadata *ClientMetadata) (*dto.ListRequestsResponse, error) {
	var err error
	defer func() {
		if err != nil {
			err = NewBusinessError("LIST_REQUESTS_FAILED", "Failed to list requests", err)
		}
	}()

	filter := models.RequestFilter{
		Status:       req.Status,
		RequestType:  req.RequestType,
		MasterID:     req.MasterID,
		HasRecording: req.HasRecording,
		CreatedAfter: req.StartDate,
	}
	if req.ClientPhone != nil {
		phone := utils.NormalizePhone(*req.ClientPhone)
		if phone != "" {
			filter.ClientPhone = &phone
		}
	}
	if req.EndDate != nil {
		filter.CreatedBefore = req.EndDate
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, ErrStartDateAfterEndDate
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize == 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := int((page - 1) * pageSize)

	rows, err := f.requestRepo.ByFilter(ctx, filter, "created_at DESC", int(pageSize), offset)
	if err != nil {
		return nil, err
	}
	total, err := f.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RequestItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToRequestItemDTO(*r))
	}

	return &dto.ListRequestsResponse{
		Message: "Requests retrieved successfully",
		Items:   items,
		Total:   total,
	}, nil
}

func (f *RequestFlowImpl) GetRequest(ctx context.Context, requestUUID string, metadata *ClientMetadata) (*dto.RequestItem, error) {
	r, err := f.requestRepo.ByUUID(ctx, requestUUID)
	if err != nil {
		return nil, NewBusinessError("GET_REQUEST_FAILED", "Failed to load request", err)
	}
	if r == nil {
		return nil, ErrRequestNotFound
	}

	item := ToRequestItemDTO(*r)
	return &item, nil
}

func (f *RequestFlowImpl) UpdateStatus(ctx context.Context, requestID uint, req *dto.UpdateRequestStatusRequest, metadata *ClientMetadata) (*dto.UpdateRequestResponse, error) {
	if _, ok := validStatuses[req.Status]; !ok {
		return nil, ErrInvalidStatus
	}

	r, err := f.requestRepo.ByID(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("GET_REQUEST_FAILED", "Failed to load request", err)
	}
	if r == nil {
		return nil, ErrRequestNotFound
	}

	if err := f.requestRepo.UpdateStatus(ctx, requestID, req.Status); err != nil {
		return nil, NewBusinessError("UPDATE_STATUS_FAILED", "Failed to update request status", err)
	}

	return &dto.UpdateRequestResponse{
		Message: "Request status updated successfully",
		ID:      requestID,
	}, nil
}

func (f *RequestFlowImpl) AssignMaster(ctx context.Context, requestID uint, req *dto.AssignMasterRequest, metadata *ClientMetadata) (*dto.UpdateRequestResponse, error) {
	r, err := f.requestRepo.ByID(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("GET_REQUEST_FAILED", "Failed to load request", err)
	}
	if r == nil {
		return nil, ErrRequestNotFound
	}

	if req.MasterID != nil {
		master, err := f.masterRepo.ByID(ctx, *req.MasterID)
		if err != nil {
			return nil, NewBusinessError("GET_MASTER_FAILED", "Failed to load master", err)
		}
		if master == nil {
			return nil, ErrMasterNotFound
		}
		if master.IsActive != nil && !*master.IsActive {
			return nil, ErrMasterInactive
		}
	}

	if err := f.requestRepo.AssignMaster(ctx, requestID, req.MasterID); err != nil {
		return nil, NewBusinessError("ASSIGN_MASTER_FAILED", "Failed to assign master", err)
	}

	return &dto.UpdateRequestResponse{
		Message: "Master assignment updated successfully",
		ID:      requestID,
	}, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

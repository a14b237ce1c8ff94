package businessflow

import (
	"context"
	"strings"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/repository"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
)

// MasterFlow manages field workers
type MasterFlow interface {
	CreateMaster(ctx context.Context, req *dto.CreateMasterRequest, metadata *ClientMetadata) (*dto.CreateMasterResponse, error)
	ListMasters(ctx context.Context, activeOnly bool, metadata *ClientMetadata) (*dto.ListMastersResponse, error)
}

// MasterFlowImpl implements MasterFlow
type MasterFlowImpl struct {
	masterRepo repository.MasterRepository
}

func NewMasterFlow(masterRepo repository.MasterRepository) MasterFlow {
	return &MasterFlowImpl{masterRepo: masterRepo}
}

func (f *MasterFlowImpl) CreateMaster(ctx context.Context, req *dto.CreateMasterRequest, metadata *ClientMetadata) (*dto.CreateMasterResponse, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, NewBusinessError("INVALID_NAME", "Master name is required", nil)
	}

	phone := utils.NormalizePhone(req.Phone)
	if phone == "" {
		return nil, NewBusinessError("INVALID_PHONE", "Master phone is malformed", nil)
	}

	m := models.Master{
		UUID:     uuid.New(),
		FullName: name,
		Phone:    phone,
		Note:     trimOptional(req.Note),
	}
	if err := f.masterRepo.Save(ctx, &m); err != nil {
		return nil, NewBusinessError("MASTER_INSERT_FAILED", "Failed to create master", err)
	}

	return &dto.CreateMasterResponse{
		Message: "Master created successfully",
		ID:      m.ID,
		UUID:    m.UUID.String(),
	}, nil
}

func (f *MasterFlowImpl) ListMasters(ctx context.Context, activeOnly bool, metadata *ClientMetadata) (*dto.ListMastersResponse, error) {
	filter := models.MasterFilter{}
	if activeOnly {
		filter.IsActive = utils.ToPtr(true)
	}

	rows, err := f.masterRepo.ByFilter(ctx, filter, "full_name ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_MASTERS_FAILED", "Failed to list masters", err)
	}

	items := make([]dto.MasterItem, 0, len(rows))
	for _, m := range rows {
		items = append(items, dto.MasterItem{
			ID:       m.ID,
			UUID:     m.UUID.String(),
			FullName: m.FullName,
			Phone:    m.Phone,
			Note:     m.Note,
			IsActive: m.IsActive,
		})
	}

	return &dto.ListMastersResponse{
		Message: "Masters retrieved successfully",
		Items:   items,
	}, nil
}

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

// CampaignFlow manages advertising campaigns and their inbound numbers
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error)
	ListCampaigns(ctx context.Context, activeOnly bool, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error)
}

// CampaignFlowImpl implements CampaignFlow
type CampaignFlowImpl struct {
	campaignRepo repository.AdvertisingCampaignRepository
}

func NewCampaignFlow(campaignRepo repository.AdvertisingCampaignRepository) CampaignFlow {
	return &CampaignFlowImpl{campaignRepo: campaignRepo}
}

func (f *CampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewBusinessError("INVALID_NAME", "Campaign name is required", nil)
	}

	phone := utils.NormalizePhone(req.PhoneNumber)
	if phone == "" {
		return nil, ErrCampaignPhoneInvalid
	}

	exists, err := f.campaignRepo.Exists(ctx, models.AdvertisingCampaignFilter{PhoneNumber: &phone})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to check campaign phone", err)
	}
	if exists {
		return nil, ErrCampaignPhoneExists
	}

	c := models.AdvertisingCampaign{
		UUID:        uuid.New(),
		Name:        name,
		PhoneNumber: phone,
	}
	if err := f.campaignRepo.Save(ctx, &c); err != nil {
		return nil, NewBusinessError("CAMPAIGN_INSERT_FAILED", "Failed to create campaign", err)
	}

	return &dto.CreateCampaignResponse{
		Message: "Campaign created successfully",
		ID:      c.ID,
		UUID:    c.UUID.String(),
	}, nil
}

func (f *CampaignFlowImpl) ListCampaigns(ctx context.Context, activeOnly bool, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error) {
	filter := models.AdvertisingCampaignFilter{}
	if activeOnly {
		filter.IsActive = utils.ToPtr(true)
	}

	rows, err := f.campaignRepo.ByFilter(ctx, filter, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_CAMPAIGNS_FAILED", "Failed to list campaigns", err)
	}

	items := make([]dto.CampaignItem, 0, len(rows))
	for _, c := range rows {
		items = append(items, dto.CampaignItem{
			ID:          c.ID,
			UUID:        c.UUID.String(),
			Name:        c.Name,
			PhoneNumber: c.PhoneNumber,
			IsActive:    c.IsActive,
		})
	}

	return &dto.ListCampaignsResponse{
		Message: "Campaigns retrieved successfully",
		Items:   items,
	}, nil
}

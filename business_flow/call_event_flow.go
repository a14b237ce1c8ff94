package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/app/services"
	"github.com/calldesk-crm/calldesk/config"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/repository"
	"github.com/calldesk-crm/calldesk/utils"
	"gorm.io/gorm"
)

// CallEventFlow turns inbound telephony events into deduplicated requests
type CallEventFlow interface {
	HandleCallEvent(ctx context.Context, req *dto.CallEventRequest, metadata *ClientMetadata) (*dto.CallEventResponse, error)
}

// CallEventFlowImpl implements CallEventFlow
type CallEventFlowImpl struct {
	requestRepo  repository.RequestRepository
	campaignRepo repository.AdvertisingCampaignRepository
	locks        *PhoneLockManager
	notifier     services.NotificationService
	adminCfg     config.AdminConfig
	db           *gorm.DB
	dedupWindow  time.Duration
	logger       *log.Logger
}

func NewCallEventFlow(
	requestRepo repository.RequestRepository,
	campaignRepo repository.AdvertisingCampaignRepository,
	locks *PhoneLockManager,
	notifier services.NotificationService,
	adminCfg config.AdminConfig,
	db *gorm.DB,
	dedupWindow time.Duration,
	logger *log.Logger,
) CallEventFlow {
	if dedupWindow <= 0 {
		dedupWindow = utils.DedupWindow
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CallEventFlowImpl{
		requestRepo:  requestRepo,
		campaignRepo: campaignRepo,
		locks:        locks,
		notifier:     notifier,
		adminCfg:     adminCfg,
		db:           db,
		dedupWindow:  dedupWindow,
		logger:       logger,
	}
}

// Call states that correspond to a ringing or answered call. Disconnected
// and technical events never create requests.
var actionableCallStates = map[string]struct{}{
	"Appeared":  {},
	"Connected": {},
}

func (f *CallEventFlowImpl) HandleCallEvent(ctx context.Context, req *dto.CallEventRequest, metadata *ClientMetadata) (*dto.CallEventResponse, error) {
	if req == nil {
		return nil, NewBusinessError("EMPTY_PAYLOAD", "Call event payload is empty", nil)
	}

	// Outbound calls have an internal extension on the from side;
	// technical events carry a non-actionable call state.
	if req.From.Extension != "" {
		return &dto.CallEventResponse{Message: "Outbound call ignored", Created: false}, nil
	}
	if _, ok := actionableCallStates[req.CallState]; !ok {
		return &dto.CallEventResponse{Message: "Call state ignored", Created: false}, nil
	}

	phone := utils.NormalizePhone(req.From.Number)
	if phone == "" {
		return nil, NewBusinessError("MISSING_CALLER_NUMBER", "Caller number is missing or malformed", ErrMissingCallerNumber)
	}

	// First duplicate check: any request for this phone inside the
	// dedup window means the event is a continuation, not a new job.
	since := utils.UTCNow().Add(-f.dedupWindow)
	existing, err := f.requestRepo.LatestByPhoneSince(ctx, phone, since)
	if err != nil {
		return nil, NewBusinessError("DEDUP_LOOKUP_FAILED", "Failed to check for recent requests", err)
	}
	if existing != nil {
		return &dto.CallEventResponse{
			Message:     "Duplicate call within dedup window",
			Created:     false,
			RequestID:   existing.ID,
			RequestUUID: existing.UUID.String(),
		}, nil
	}

	// Classification looks at full history, not just the window.
	seenBefore, err := f.requestRepo.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, NewBusinessError("HISTORY_LOOKUP_FAILED", "Failed to check caller history", err)
	}
	requestType := models.RequestTypeNewCaller
	if seenBefore {
		requestType = models.RequestTypeRepeatCaller
	}

	campaignID := f.resolveCampaign(ctx, req)

	release := f.locks.Acquire(ctx, phone)
	defer release()

	var created *models.Request
	var duplicate bool
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		// Second duplicate check right before the insert; a concurrent
		// delivery may have created the request while we classified.
		dup, err := f.requestRepo.LatestByPhoneSince(txCtx, phone, utils.UTCNow().Add(-f.dedupWindow))
		if err != nil {
			return err
		}
		if dup != nil {
			created = dup
			duplicate = true
			return nil
		}

		r := models.Request{
			ClientPhone:           phone,
			AdvertisingCampaignID: campaignID,
			RequestType:           requestType,
			Status:                models.RequestStatusNew,
		}
		if err := f.requestRepo.Save(txCtx, &r); err != nil {
			return err
		}
		created = &r
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("REQUEST_INSERT_FAILED", "Failed to create request from call event", err)
	}

	if duplicate {
		return &dto.CallEventResponse{
			Message:     "Duplicate call within dedup window",
			Created:     false,
			RequestID:   created.ID,
			RequestUUID: created.UUID.String(),
		}, nil
	}

	f.logger.Printf("request %d created from call %s (phone %s, type %s)", created.ID, req.CallID, phone, requestType)

	f.notifyAdmin(created)

	return &dto.CallEventResponse{
		Message:     "Request created",
		Created:     true,
		RequestID:   created.ID,
		RequestUUID: created.UUID.String(),
		RequestType: created.RequestType,
	}, nil
}

// resolveCampaign maps the dialed number to an advertising campaign.
// Unmatched or malformed dialed numbers leave the reference unset.
func (f *CallEventFlowImpl) resolveCampaign(ctx context.Context, req *dto.CallEventRequest) *uint {
	dialedRaw := req.To.LineNumber
	if dialedRaw == "" {
		dialedRaw = req.To.Number
	}
	dialed := utils.NormalizePhone(dialedRaw)
	if dialed == "" {
		return nil
	}

	campaign, err := f.campaignRepo.ByPhoneNumber(ctx, dialed)
	if err != nil {
		f.logger.Printf("campaign lookup for %s failed: %v", dialed, err)
		return nil
	}
	if campaign == nil {
		return nil
	}
	return &campaign.ID
}

// notifyAdmin sends a best-effort SMS about the new request
func (f *CallEventFlowImpl) notifyAdmin(r *models.Request) {
	if f.notifier == nil || f.adminCfg.Mobile == "" {
		return
	}
	msg := fmt.Sprintf("New request #%d from %s (%s)", r.ID, r.ClientPhone, r.RequestType)
	go func() {
		_ = f.notifier.SendSMS(context.Background(), f.adminCfg.Mobile, msg)
	}()
}

package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/repository"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/xuri/excelize/v2"
)

// ReportFlow aggregates request and cash figures over a period
type ReportFlow interface {
	Summary(ctx context.Context, req *dto.ReportPeriodRequest, metadata *ClientMetadata) (*dto.ReportSummaryResponse, error)
	// ExportXLSX renders the period's requests and cash totals into an
	// XLSX workbook and returns its bytes.
	ExportXLSX(ctx context.Context, req *dto.ReportPeriodRequest, metadata *ClientMetadata) ([]byte, error)
}

// ReportFlowImpl implements ReportFlow
type ReportFlowImpl struct {
	requestRepo     repository.RequestRepository
	transactionRepo repository.CashTransactionRepository
}

func NewReportFlow(requestRepo repository.RequestRepository, transactionRepo repository.CashTransactionRepository) ReportFlow {
	return &ReportFlowImpl{requestRepo: requestRepo, transactionRepo: transactionRepo}
}

var reportStatuses = []string{
	models.RequestStatusNew,
	models.RequestStatusInProgress,
	models.RequestStatusDone,
	models.RequestStatusCancelled,
	models.RequestStatusRejected,
}

var reportTypes = []string{
	models.RequestTypeNewCaller,
	models.RequestTypeRepeatCaller,
}

func (f *ReportFlowImpl) Summary(ctx context.Context, req *dto.ReportPeriodRequest, metadata *ClientMetadata) (*dto.ReportSummaryResponse, error) {
	baseFilter := models.RequestFilter{}
	txFilter := models.CashTransactionFilter{}
	resp := &dto.ReportSummaryResponse{
		Message:          "Report generated successfully",
		RequestsByStatus: make(map[string]int64, len(reportStatuses)),
		RequestsByType:   make(map[string]int64, len(reportTypes)),
	}

	if req != nil {
		if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
			return nil, ErrStartDateAfterEndDate
		}
		baseFilter.CreatedAfter = req.StartDate
		baseFilter.CreatedBefore = req.EndDate
		txFilter.CreatedAfter = req.StartDate
		txFilter.CreatedBefore = req.EndDate
		if req.StartDate != nil {
			resp.PeriodStart = req.StartDate.Format(time.RFC3339)
		}
		if req.EndDate != nil {
			resp.PeriodEnd = req.EndDate.Format(time.RFC3339)
		}
	}

	total, err := f.requestRepo.Count(ctx, baseFilter)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count requests", err)
	}
	resp.TotalRequests = total

	for _, status := range reportStatuses {
		filter := baseFilter
		filter.Status = &status
		n, err := f.requestRepo.Count(ctx, filter)
		if err != nil {
			return nil, NewBusinessError("REPORT_FAILED", "Failed to count requests by status", err)
		}
		resp.RequestsByStatus[status] = n
	}

	for _, requestType := range reportTypes {
		filter := baseFilter
		filter.RequestType = &requestType
		n, err := f.requestRepo.Count(ctx, filter)
		if err != nil {
			return nil, NewBusinessError("REPORT_FAILED", "Failed to count requests by type", err)
		}
		resp.RequestsByType[requestType] = n
	}

	withRecording := baseFilter
	withRecording.HasRecording = utils.ToPtr(true)
	linked, err := f.requestRepo.Count(ctx, withRecording)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count linked recordings", err)
	}
	resp.LinkedRecordings = linked

	income, err := f.transactionRepo.SumByDirection(ctx, txFilter, models.TransactionIncome)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to sum income", err)
	}
	expense, err := f.transactionRepo.SumByDirection(ctx, txFilter, models.TransactionExpense)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to sum expense", err)
	}
	resp.TotalIncome = income
	resp.TotalExpense = expense
	resp.Balance = income - expense

	return resp, nil
}

func (f *ReportFlowImpl) ExportXLSX(ctx context.Context, req *dto.ReportPeriodRequest, metadata *ClientMetadata) ([]byte, error) {
	summary, err := f.Summary(ctx, req, metadata)
	if err != nil {
		return nil, err
	}

	filter := models.RequestFilter{}
	if req != nil {
		filter.CreatedAfter = req.StartDate
		filter.CreatedBefore = req.EndDate
	}
	rows, err := f.requestRepo.ByFilter(ctx, filter, "created_at ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to load requests for export", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Requests"
	wb.SetSheetName(wb.GetSheetName(0), sheet)

	headers := []string{"ID", "Phone", "Name", "Type", "Status", "Campaign", "Master", "Recording", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellValue(sheet, cell, h); err != nil {
			return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to write export header", err)
		}
	}

	for rowIdx, r := range rows {
		values := []any{
			r.ID,
			r.ClientPhone,
			derefOrEmpty(r.ClientName),
			r.RequestType,
			r.Status,
			campaignName(r),
			masterName(r),
			derefOrEmpty(r.RecordingFilePath),
			r.CreatedAt.Format(time.RFC3339),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := wb.SetCellValue(sheet, cell, v); err != nil {
				return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to write export row", err)
			}
		}
	}

	const summarySheet = "Summary"
	if _, err := wb.NewSheet(summarySheet); err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to create summary sheet", err)
	}
	summaryRows := [][]any{
		{"Total requests", summary.TotalRequests},
		{"Linked recordings", summary.LinkedRecordings},
		{"Total income", summary.TotalIncome},
		{"Total expense", summary.TotalExpense},
		{"Balance", summary.Balance},
	}
	for _, status := range reportStatuses {
		summaryRows = append(summaryRows, []any{fmt.Sprintf("Status: %s", status), summary.RequestsByStatus[status]})
	}
	for _, requestType := range reportTypes {
		summaryRows = append(summaryRows, []any{fmt.Sprintf("Type: %s", requestType), summary.RequestsByType[requestType]})
	}
	for rowIdx, pair := range summaryRows {
		for colIdx, v := range pair {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err := wb.SetCellValue(summarySheet, cell, v); err != nil {
				return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to write summary row", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to serialize workbook", err)
	}

	return buf.Bytes(), nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func campaignName(r *models.Request) string {
	if r.AdvertisingCampaign == nil {
		return ""
	}
	return r.AdvertisingCampaign.Name
}

func masterName(r *models.Request) string {
	if r.Master == nil {
		return ""
	}
	return r.Master.FullName
}

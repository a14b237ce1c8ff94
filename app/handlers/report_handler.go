package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/gofiber/fiber/v3"
)

// ReportHandlerInterface defines the contract for reporting handlers
type ReportHandlerInterface interface {
	Summary(c fiber.Ctx) error
	ExportXLSX(c fiber.Ctx) error
}

// ReportHandler handles reporting HTTP endpoints
type ReportHandler struct {
	baseHandler
	reportFlow businessflow.ReportFlow
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportFlow businessflow.ReportFlow) *ReportHandler {
	return &ReportHandler{
		baseHandler: newBaseHandler(),
		reportFlow:  reportFlow,
	}
}

// Summary returns aggregated request and cash figures
// @Summary Report summary
// @Description Aggregate request counts by status and type, linked recordings and cash totals over a period
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body dto.ReportPeriodRequest true "Period boundaries"
// @Success 200 {object} dto.APIResponse{data=dto.ReportSummaryResponse} "Report generated"
// @Failure 400 {object} dto.APIResponse "Invalid period"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reports/summary [post]
func (h *ReportHandler) Summary(c fiber.Ctx) error {
	var req dto.ReportPeriodRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := h.clientMetadata(c)

	result, err := h.reportFlow.Summary(h.createRequestContext(c, "/api/v1/reports/summary"), &req, metadata)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_PERIOD", nil)
		}

		log.Println("Report generation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate report", "REPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ExportXLSX streams the period report as an XLSX workbook
// @Summary Export report
// @Description Export the period's requests and summary figures as an XLSX workbook
// @Tags Reports
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body dto.ReportPeriodRequest true "Period boundaries"
// @Success 200 {file} binary "XLSX workbook"
// @Failure 400 {object} dto.APIResponse "Invalid period"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reports/export [post]
func (h *ReportHandler) ExportXLSX(c fiber.Ctx) error {
	var req dto.ReportPeriodRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := h.clientMetadata(c)

	data, err := h.reportFlow.ExportXLSX(h.createRequestContextWithTimeout(c, "/api/v1/reports/export", 2*time.Minute), &req, metadata)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_PERIOD", nil)
		}

		log.Println("Report export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export report", "REPORT_EXPORT_FAILED", nil)
	}

	filename := fmt.Sprintf("report_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

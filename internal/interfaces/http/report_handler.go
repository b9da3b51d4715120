package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
)

// ReportHandler reportes de solo lectura.
type ReportHandler struct {
	uc  *reporting.ReportingUseCase
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ReportingUseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// WorkSummary GET /api/reports/work-summary?project_id=
func (h *ReportHandler) WorkSummary(c *fiber.Ctx) error {
	out, err := h.uc.DeveloperWorkSummary(c.Context(), GetActor(c), c.Query("project_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Earnings GET /api/reports/earnings?project_id=
func (h *ReportHandler) Earnings(c *fiber.Ctx) error {
	out, err := h.uc.DeveloperEarnings(c.Context(), GetActor(c), c.Query("project_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// TaskBoard GET /api/reports/task-board
func (h *ReportHandler) TaskBoard(c *fiber.Ctx) error {
	out, err := h.uc.LeadTaskBoard(c.Context(), GetActor(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Dashboard GET /api/reports/dashboard?project_id=
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context(), GetActor(c), c.Query("project_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

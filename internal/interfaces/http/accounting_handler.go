package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AccountingHandler consultas y mantenimiento del diario contable.
type AccountingHandler struct {
	uc  *accounting.AccountingUseCase
	log zerolog.Logger
}

// NewAccountingHandler construye el handler.
func NewAccountingHandler(uc *accounting.AccountingUseCase, log zerolog.Logger) *AccountingHandler {
	return &AccountingHandler{uc: uc, log: log}
}

// Entries GET /api/accounting/entries
func (h *AccountingHandler) Entries(c *fiber.Ctx) error {
	var q dto.EntryQuery
	if err := parseQuery(c, &q); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.Entries(c.Context(), GetActor(c), q)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary GET /api/accounting/summary
func (h *AccountingHandler) Summary(c *fiber.Ctx) error {
	var q dto.EntryQuery
	if err := parseQuery(c, &q); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.Summary(c.Context(), GetActor(c), q)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Export descarga el diario filtrado en Excel.
// GET /api/accounting/export
func (h *AccountingHandler) Export(c *fiber.Ctx) error {
	var q dto.EntryQuery
	if err := parseQuery(c, &q); err != nil {
		return fail(c, h.log, err)
	}
	data, err := h.uc.ExportXLSX(c.Context(), GetActor(c), q)
	if err != nil {
		return fail(c, h.log, err)
	}
	filename := fmt.Sprintf("diario-%s.xlsx", time.Now().Format("20060102"))
	return sendFile(c, data, filename, xlsxContentType)
}

// Verify GET /api/accounting/verify
func (h *AccountingHandler) Verify(c *fiber.Ctx) error {
	out, err := h.uc.Verify(c.Context(), GetActor(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Backfill POST /api/accounting/backfill
func (h *AccountingHandler) Backfill(c *fiber.Ctx) error {
	out, err := h.uc.Backfill(c.Context(), GetActor(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Reverse registra el asiento inverso de una referencia.
// POST /api/accounting/reversals
func (h *AccountingHandler) Reverse(c *fiber.Ctx) error {
	var in dto.ReverseEntryRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.Reverse(c.Context(), GetActor(c), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

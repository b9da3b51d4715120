package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/application/payable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
)

// VoucherHandler comprobantes de pago a desarrolladores y sus pagos.
type VoucherHandler struct {
	uc        *payable.PayableUseCase
	statement *reporting.StatementUseCase
	log       zerolog.Logger
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(uc *payable.PayableUseCase, statement *reporting.StatementUseCase, log zerolog.Logger) *VoucherHandler {
	return &VoucherHandler{uc: uc, statement: statement, log: log}
}

// Create POST /api/vouchers
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVoucherRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.CreateVoucher(c.Context(), GetActor(c), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/vouchers
func (h *VoucherHandler) List(c *fiber.Ctx) error {
	var q dto.VoucherListQuery
	if err := parseQuery(c, &q); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.ListVouchers(c.Context(), GetActor(c), q)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/vouchers/:id
func (h *VoucherHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetVoucher(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Pay registra un pago y lo reparte entre las tareas del comprobante.
// POST /api/vouchers/:id/payments
func (h *VoucherHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayVoucherRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.PayVoucher(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF GET /api/vouchers/:id/pdf
func (h *VoucherHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.statement.VoucherStatementPDF(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return sendFile(c, data, filename, "application/pdf")
}

// DeveloperPayments GET /api/developer-payments
func (h *VoucherHandler) DeveloperPayments(c *fiber.Ctx) error {
	var q dto.DeveloperPaymentQuery
	if err := parseQuery(c, &q); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.ListDeveloperPayments(c.Context(), GetActor(c), q)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

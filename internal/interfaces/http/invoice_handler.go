package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/application/receivable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
)

// InvoiceHandler facturas del cliente y sus abonos (protegido).
type InvoiceHandler struct {
	uc        *receivable.ReceivableUseCase
	statement *reporting.StatementUseCase
	log       zerolog.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *receivable.ReceivableUseCase, statement *reporting.StatementUseCase, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, statement: statement, log: log}
}

// Create crea la factura, vincula las tareas y registra el asiento.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.CreateInvoice(c.Context(), GetActor(c), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List facturas visibles para el actor.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := parseQuery(c, &q); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.ListInvoices(c.Context(), GetActor(c), q)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Tasks GET /api/invoices/:id/tasks
func (h *InvoiceHandler) Tasks(c *fiber.Ctx) error {
	out, err := h.uc.ListInvoiceTasks(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// Payments GET /api/invoices/:id/payments
func (h *InvoiceHandler) Payments(c *fiber.Ctx) error {
	out, err := h.uc.ListPayments(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// PDF estado de cuenta de la factura.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.statement.InvoiceStatementPDF(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return sendFile(c, data, filename, "application/pdf")
}

// sendFile responde con un adjunto descargable.
func sendFile(c *fiber.Ctx, data []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(data)
}

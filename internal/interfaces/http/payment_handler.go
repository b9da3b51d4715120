package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/application/receivable"
)

// PaymentHandler abonos del cliente sobre facturas.
type PaymentHandler struct {
	uc  *receivable.ReceivableUseCase
	log zerolog.Logger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *receivable.ReceivableUseCase, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

// Record registra un abono y devuelve el estado resultante de la factura.
// POST /api/payments
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.RecordPayment(c.Context(), GetActor(c), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AttachEvidence PUT /api/payments/:id/evidence
func (h *PaymentHandler) AttachEvidence(c *fiber.Ctx) error {
	var in dto.AttachEvidenceRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.AttachEvidence(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

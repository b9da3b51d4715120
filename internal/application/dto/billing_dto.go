package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// Amount lo define quien factura; en modo estricto debe coincidir con horas facturables × tarifa.
type CreateInvoiceRequest struct {
	ProjectID   string          `json:"project_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceDate string          `json:"invoice_date" validate:"required,datetime=2006-01-02"`
	TaskIDs     []string        `json:"task_ids" validate:"omitempty,dive,required"`
	Notes       string          `json:"notes,omitempty" validate:"max=2000"`
	DateRange   *DateRange      `json:"date_range,omitempty"`
}

// InvoiceResponse factura con estado derivado de sus pagos.
type InvoiceResponse struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceDate string          `json:"invoice_date"`
	Notes       string          `json:"notes,omitempty"`
	DateRange   *DateRange      `json:"date_range,omitempty"`
	Status      string          `json:"status"` // pending | partial | paid
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Remaining   decimal.Decimal `json:"remaining"`
	TaskIDs     []string        `json:"task_ids"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InvoiceListQuery filtros de GET /api/invoices.
type InvoiceListQuery struct {
	ProjectID string `query:"project_id"`
	Status    string `query:"status" validate:"omitempty,oneof=pending partial paid"`
}

// RecordPaymentRequest body para POST /api/payments.
type RecordPaymentRequest struct {
	InvoiceID   string          `json:"invoice_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Notes       string          `json:"notes,omitempty" validate:"max=2000"`
}

// PaymentResponse abono registrado y el estado resultante de la factura.
type PaymentResponse struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	Notes         string          `json:"notes,omitempty"`
	EvidenceFile  string          `json:"evidence_file,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	InvoiceStatus string          `json:"invoice_status,omitempty"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// AttachEvidenceRequest body para PUT /api/payments/:id/evidence.
// FileRef es la referencia al archivo ya almacenado por el servicio de archivos.
type AttachEvidenceRequest struct {
	FileRef string `json:"file_ref" validate:"required,max=500"`
}

// InvoiceTaskResponse tarea vinculada a una factura. IsPaid indica "facturada", no "cobrada".
type InvoiceTaskResponse struct {
	TaskID                  string           `json:"task_id"`
	Title                   string           `json:"title"`
	Status                  string           `json:"status"`
	EstimationHours         decimal.Decimal  `json:"estimation_hours"`
	BillableHours           *decimal.Decimal `json:"billable_hours,omitempty"`
	ProductivityHours       *decimal.Decimal `json:"productivity_hours,omitempty"`
	TrackSummary            string           `json:"track_summary,omitempty"`
	CumulativeApprovedHours decimal.Decimal  `json:"cumulative_approved_hours"`
	IsPaid                  bool             `json:"is_paid"`
}

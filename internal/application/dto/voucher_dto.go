package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVoucherRequest body para POST /api/vouchers.
type CreateVoucherRequest struct {
	DeveloperID string          `json:"developer_id" validate:"required"`
	ProjectID   string          `json:"project_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	VoucherDate string          `json:"voucher_date" validate:"required,datetime=2006-01-02"`
	TaskIDs     []string        `json:"task_ids" validate:"required,min=1,dive,required"`
	Notes       string          `json:"notes,omitempty" validate:"max=2000"`
	DateRange   *DateRange      `json:"date_range,omitempty"`
}

// VoucherTaskResponse línea congelada del comprobante y lo ya asignado a ella.
type VoucherTaskResponse struct {
	TaskID            string          `json:"task_id"`
	TaskTitle         string          `json:"task_title,omitempty"`
	ProductivityHours decimal.Decimal `json:"productivity_hours"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	Amount            decimal.Decimal `json:"amount"`
	Allocated         decimal.Decimal `json:"allocated"`
	Remaining         decimal.Decimal `json:"remaining"`
}

// VoucherResponse comprobante con estado derivado.
type VoucherResponse struct {
	ID          string                `json:"id"`
	DeveloperID string                `json:"developer_id"`
	ProjectID   string                `json:"project_id"`
	ProjectName string                `json:"project_name,omitempty"`
	Amount      decimal.Decimal       `json:"amount"`
	VoucherDate string                `json:"voucher_date"`
	Notes       string                `json:"notes,omitempty"`
	DateRange   *DateRange            `json:"date_range,omitempty"`
	Status      string                `json:"status"`
	TotalPaid   decimal.Decimal       `json:"total_paid"`
	Remaining   decimal.Decimal       `json:"remaining"`
	Tasks       []VoucherTaskResponse `json:"tasks"`
	CreatedBy   string                `json:"created_by"`
	CreatedAt   time.Time             `json:"created_at"`
}

// VoucherListQuery filtros de GET /api/vouchers.
type VoucherListQuery struct {
	ProjectID   string `query:"project_id"`
	DeveloperID string `query:"developer_id"`
	Status      string `query:"status" validate:"omitempty,oneof=pending partial paid"`
}

// PayVoucherRequest body para POST /api/vouchers/:id/payments.
type PayVoucherRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Notes       string          `json:"notes,omitempty" validate:"max=2000"`
}

// AllocationResponse porción del pago asignada a una tarea.
type AllocationResponse struct {
	TaskID            string          `json:"task_id"`
	ProductivityHours decimal.Decimal `json:"productivity_hours"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	Amount            decimal.Decimal `json:"amount"`
}

// DeveloperPaymentResponse pago a desarrollador con su reparto por tarea.
type DeveloperPaymentResponse struct {
	ID            string               `json:"id"`
	VoucherID     string               `json:"voucher_id"`
	DeveloperID   string               `json:"developer_id"`
	ProjectID     string               `json:"project_id"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentDate   string               `json:"payment_date"`
	Notes         string               `json:"notes,omitempty"`
	CreatedBy     string               `json:"created_by"`
	CreatedAt     time.Time            `json:"created_at"`
	Allocations   []AllocationResponse `json:"allocations"`
	VoucherStatus string               `json:"voucher_status,omitempty"`
	TotalPaid     decimal.Decimal      `json:"total_paid"`
	Remaining     decimal.Decimal      `json:"remaining"`
}

// DeveloperPaymentQuery filtros de GET /api/developer-payments.
type DeveloperPaymentQuery struct {
	VoucherID   string `query:"voucher_id"`
	ProjectID   string `query:"project_id"`
	DeveloperID string `query:"developer_id"`
}

// TaskPaidStatusResponse estado de pago de una tarea para un desarrollador.
type TaskPaidStatusResponse struct {
	TaskID      string          `json:"task_id"`
	DeveloperID string          `json:"developer_id"`
	ProjectID   string          `json:"project_id"`
	Expected    decimal.Decimal `json:"expected"` // horas de productividad × tarifa vigente
	Allocated   decimal.Decimal `json:"allocated"`
	IsPaid      bool            `json:"is_paid"`
}

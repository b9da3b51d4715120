package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentVoucher documento por pagar a un desarrollador por horas de productividad.
type PaymentVoucher struct {
	ID             string
	DeveloperID    string
	ProjectID      string
	Amount         decimal.Decimal
	VoucherDate    time.Time
	Notes          string
	DateRangeStart *time.Time
	DateRangeEnd   *time.Time
	CreatedBy      string
	CreatedAt      time.Time
}

// VoucherTask foto congelada de horas, tarifa y monto de cada tarea al crear el comprobante.
type VoucherTask struct {
	ID                string
	VoucherID         string
	TaskID            string
	ProductivityHours decimal.Decimal
	HourlyRate        decimal.Decimal
	Amount            decimal.Decimal
}

// DeveloperPayment abono contra un comprobante.
type DeveloperPayment struct {
	ID          string
	VoucherID   string
	DeveloperID string
	ProjectID   string
	Amount      decimal.Decimal
	PaymentDate time.Time
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	Tasks       []DeveloperPaymentTask
}

// DeveloperPaymentTask porción de un abono asignada a una tarea del comprobante.
type DeveloperPaymentTask struct {
	ID                string
	PaymentID         string
	TaskID            string
	ProductivityHours decimal.Decimal
	HourlyRate        decimal.Decimal
	Amount            decimal.Decimal
}

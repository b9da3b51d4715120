package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkSummaryTask tarea dentro del resumen de trabajo de un desarrollador.
type WorkSummaryTask struct {
	TaskID            string          `json:"task_id"`
	Title             string          `json:"title"`
	ProductivityHours decimal.Decimal `json:"productivity_hours"`
	Amount            decimal.Decimal `json:"amount"`    // horas × tarifa vigente
	Allocated         decimal.Decimal `json:"allocated"` // suma de asignaciones de pagos
	IsPaid            bool            `json:"is_paid"`
}

// DeveloperWorkSummary horas, ganancias y pagos de un desarrollador en un proyecto.
type DeveloperWorkSummary struct {
	DeveloperID            string            `json:"developer_id"`
	ProjectID              string            `json:"project_id"`
	ProjectName            string            `json:"project_name"`
	TotalProductivityHours decimal.Decimal   `json:"total_productivity_hours"`
	HourlyRate             decimal.Decimal   `json:"hourly_rate"`
	TotalEarnings          decimal.Decimal   `json:"total_earnings"`
	TotalPaid              decimal.Decimal   `json:"total_paid"`
	Pending                decimal.Decimal   `json:"pending"`
	Tasks                  []WorkSummaryTask `json:"tasks"`
}

// PaymentHistoryItem pago dentro del historial de un comprobante.
type PaymentHistoryItem struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Notes       string          `json:"notes,omitempty"`
}

// VoucherEarnings comprobante del desarrollador con su historial de pagos (más reciente primero).
type VoucherEarnings struct {
	VoucherID   string               `json:"voucher_id"`
	ProjectID   string               `json:"project_id"`
	ProjectName string               `json:"project_name"`
	Amount      decimal.Decimal      `json:"amount"`
	VoucherDate string               `json:"voucher_date"`
	Status      string               `json:"status"`
	TotalPaid   decimal.Decimal      `json:"total_paid"`
	Remaining   decimal.Decimal      `json:"remaining"`
	Payments    []PaymentHistoryItem `json:"payments"`
}

// TaskBoardItem tarea en el tablero del líder. IsBilled: vinculada a alguna factura.
type TaskBoardItem struct {
	TaskID                  string           `json:"task_id"`
	ProjectID               string           `json:"project_id"`
	ProjectName             string           `json:"project_name"`
	Title                   string           `json:"title"`
	Status                  string           `json:"status"`
	EstimationHours         decimal.Decimal  `json:"estimation_hours"`
	BillableHours           *decimal.Decimal `json:"billable_hours,omitempty"`
	ProductivityHours       *decimal.Decimal `json:"productivity_hours,omitempty"`
	TrackSummary            string           `json:"track_summary,omitempty"`
	CumulativeApprovedHours decimal.Decimal  `json:"cumulative_approved_hours"`
	IsBilled                bool             `json:"is_billed"`
}

// StatusCounts conteo de documentos por estado derivado y saldo pendiente total.
type StatusCounts struct {
	Pending     int             `json:"pending"`
	Partial     int             `json:"partial"`
	Paid        int             `json:"paid"`
	Total       decimal.Decimal `json:"total"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// DashboardResponse respuesta de GET /api/reports/dashboard.
type DashboardResponse struct {
	Ledger      AccountingSummaryResponse `json:"ledger"`
	Invoices    StatusCounts              `json:"invoices"`
	Vouchers    StatusCounts              `json:"vouchers"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskResponse tarea con horas registradas.
type TaskResponse struct {
	ID                      string           `json:"id"`
	ProjectID               string           `json:"project_id"`
	Title                   string           `json:"title"`
	Description             string           `json:"description,omitempty"`
	Status                  string           `json:"status"`
	EstimationHours         decimal.Decimal  `json:"estimation_hours"`
	BillableHours           *decimal.Decimal `json:"billable_hours,omitempty"`
	ProductivityHours       *decimal.Decimal `json:"productivity_hours,omitempty"`
	TrackSummary            string           `json:"track_summary,omitempty"`
	CumulativeApprovedHours decimal.Decimal  `json:"cumulative_approved_hours"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// UpdateTaskHoursRequest body para PUT /api/tasks/:id/hours. Campos nil no se modifican.
type UpdateTaskHoursRequest struct {
	BillableHours     *decimal.Decimal `json:"billable_hours,omitempty"`
	ProductivityHours *decimal.Decimal `json:"productivity_hours,omitempty"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de tarea.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Task unidad de trabajo de un proyecto. EstimationHours es obligatorio (>0);
// BillableHours alimenta la facturación al cliente y ProductivityHours el pago al desarrollador.
type Task struct {
	ID                string
	ProjectID         string
	Title             string
	Description       string
	Status            string
	EstimationHours   decimal.Decimal
	BillableHours     *decimal.Decimal
	ProductivityHours *decimal.Decimal
	TrackSummary      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TaskDeveloper asignación de una tarea a un desarrollador.
type TaskDeveloper struct {
	TaskID      string
	DeveloperID string
}

// Estados de timesheet.
const (
	TimesheetPending  = "pending"
	TimesheetApproved = "approved"
	TimesheetRejected = "rejected"
)

// Timesheet registro de horas trabajadas (colaborador externo, solo lectura aquí).
type Timesheet struct {
	ID     string
	UserID string
	TaskID string
	Date   time.Time
	Hours  decimal.Decimal
	Status string
}

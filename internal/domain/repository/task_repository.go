package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// TaskRepository puerto de persistencia para tareas.
// GetByID/GetForUpdate devuelven (nil, nil) si no existe.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// GetForUpdate obtiene la tarea y bloquea la fila (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Task, error)
	// ListAssigned tareas del proyecto asignadas al desarrollador.
	ListAssigned(ctx context.Context, developerID, projectID string) ([]*entity.Task, error)
	IsAssigned(ctx context.Context, taskID, developerID string) (bool, error)
	// UpdateHours reemplaza ambos valores de horas (nil = sin registrar).
	UpdateHours(ctx context.Context, id string, billable, productivity *decimal.Decimal, updatedAt time.Time) error
}

// TimesheetRepository lectura de horas registradas (sistema de timesheets externo).
type TimesheetRepository interface {
	// ApprovedHours suma de horas aprobadas de la tarea; cero si no hay registros.
	ApprovedHours(ctx context.Context, taskID string) (decimal.Decimal, error)
}

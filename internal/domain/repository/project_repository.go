package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// ProjectFilter criterios de listado de proyectos. Campos vacíos no filtran.
type ProjectFilter struct {
	LeadID  string
	OwnerID string
}

// ProjectRepository puerto de lectura de proyectos (su alta y edición están fuera de este servicio).
// GetByID devuelve (nil, nil) si no existe.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]*entity.Project, error)
}

// AssignmentRepository asignaciones desarrollador-proyecto (búsqueda de tarifa).
type AssignmentRepository interface {
	// HourlyRate tarifa vigente del desarrollador en el proyecto; ok=false si no está asignado.
	HourlyRate(ctx context.Context, developerID, projectID string) (rate decimal.Decimal, ok bool, err error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.DeveloperAssignment, error)
	ListByDeveloper(ctx context.Context, developerID string) ([]*entity.DeveloperAssignment, error)
}

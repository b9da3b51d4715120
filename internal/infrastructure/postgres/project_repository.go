package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var (
	_ repository.ProjectRepository    = (*ProjectRepo)(nil)
	_ repository.AssignmentRepository = (*AssignmentRepo)(nil)
)

// ProjectRepo lectura de proyectos sobre PostgreSQL (usable con pool o tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, name, project_lead_id, project_owner_id, rate_per_hour, status, created_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	var (
		p     entity.Project
		owner *string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.ProjectLeadID, &owner, &p.RatePerHour, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ProjectOwnerID = derefStr(owner)
	return &p, nil
}

// GetByID obtiene un proyecto por ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// List proyectos ordenados por nombre.
func (r *ProjectRepo) List(ctx context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE ($1::text = '' OR project_lead_id = $1)
		  AND ($2::text = '' OR project_owner_id = $2)
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, f.LeadID, f.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// AssignmentRepo asignaciones desarrollador-proyecto (tabla developer_projects).
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador.
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

// HourlyRate tarifa del desarrollador en el proyecto; ok=false si no hay asignación.
func (r *AssignmentRepo) HourlyRate(ctx context.Context, developerID, projectID string) (decimal.Decimal, bool, error) {
	var rate decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT hourly_rate FROM developer_projects WHERE developer_id = $1 AND project_id = $2`,
		developerID, projectID,
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("get hourly rate: %w", err)
	}
	return rate, true, nil
}

func (r *AssignmentRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.DeveloperAssignment, error) {
	return r.list(ctx, `project_id = $1`, projectID)
}

func (r *AssignmentRepo) ListByDeveloper(ctx context.Context, developerID string) ([]*entity.DeveloperAssignment, error) {
	return r.list(ctx, `developer_id = $1`, developerID)
}

func (r *AssignmentRepo) list(ctx context.Context, where string, arg string) ([]*entity.DeveloperAssignment, error) {
	query := `
		SELECT id, developer_id, project_id, hourly_rate, created_at
		FROM developer_projects WHERE ` + where + ` ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var list []*entity.DeveloperAssignment
	for rows.Next() {
		var a entity.DeveloperAssignment
		if err := rows.Scan(&a.ID, &a.DeveloperID, &a.ProjectID, &a.HourlyRate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var (
	_ repository.TaskRepository      = (*TaskRepo)(nil)
	_ repository.TimesheetRepository = (*TimesheetRepo)(nil)
)

// TaskRepo implementación de TaskRepository (usable con pool o tx).
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskColumns = `t.id, t.project_id, t.title, COALESCE(t.description, ''), t.status, t.estimation_hours,
	t.billable_hours, t.productivity_hours, COALESCE(t.track_summary, ''), t.created_at, t.updated_at`

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.EstimationHours,
		&t.BillableHours, &t.ProductivityHours, &t.TrackSummary, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) get(ctx context.Context, query, id string) (*entity.Task, error) {
	t, err := scanTask(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// GetByID obtiene una tarea por ID.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	return r.get(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`, id)
}

// GetForUpdate bloquea la fila de la tarea hasta el fin de la transacción.
func (r *TaskRepo) GetForUpdate(ctx context.Context, id string) (*entity.Task, error) {
	return r.get(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1 FOR UPDATE`, id)
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.project_id = $1 ORDER BY t.created_at, t.id`, projectID)
}

func (r *TaskRepo) ListAssigned(ctx context.Context, developerID, projectID string) ([]*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		JOIN task_developers td ON td.task_id = t.id
		WHERE td.developer_id = $1 AND t.project_id = $2
		ORDER BY t.created_at, t.id`
	return r.list(ctx, query, developerID, projectID)
}

func (r *TaskRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Task, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TaskRepo) IsAssigned(ctx context.Context, taskID, developerID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM task_developers WHERE task_id = $1 AND developer_id = $2)`,
		taskID, developerID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check task assignment: %w", err)
	}
	return ok, nil
}

// UpdateHours reemplaza horas facturables y de productividad (NULL = sin registrar).
func (r *TaskRepo) UpdateHours(ctx context.Context, id string, billable, productivity *decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE tasks
		SET billable_hours = $2, productivity_hours = $3, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, billable, productivity, updatedAt)
	if err != nil {
		return fmt.Errorf("update task hours: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TimesheetRepo lectura de horas registradas.
type TimesheetRepo struct {
	q Querier
}

// NewTimesheetRepository construye el adaptador.
func NewTimesheetRepository(q Querier) *TimesheetRepo {
	return &TimesheetRepo{q: q}
}

func (r *TimesheetRepo) ApprovedHours(ctx context.Context, taskID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(hours), 0) FROM timesheets WHERE task_id = $1 AND status = $2`,
		taskID, entity.TimesheetApproved,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum approved hours: %w", err)
	}
	return total, nil
}

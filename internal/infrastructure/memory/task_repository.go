package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var (
	_ repository.TaskRepository      = (*TaskRepo)(nil)
	_ repository.TimesheetRepository = (*TimesheetRepo)(nil)
)

// TaskRepo implementación en memoria de TaskRepository.
type TaskRepo struct {
	d db
}

func (r *TaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	var out *entity.Task
	err := r.d.read(func(st *state) error {
		if t, ok := st.tasks[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el almacén en exclusiva.
func (r *TaskRepo) GetForUpdate(ctx context.Context, id string) (*entity.Task, error) {
	return r.GetByID(ctx, id)
}

func (r *TaskRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Task, error) {
	return r.list(func(st *state, t entity.Task) bool { return t.ProjectID == projectID })
}

func (r *TaskRepo) ListAssigned(_ context.Context, developerID, projectID string) ([]*entity.Task, error) {
	return r.list(func(st *state, t entity.Task) bool {
		return t.ProjectID == projectID && st.taskDevs[t.ID][developerID]
	})
}

func (r *TaskRepo) list(match func(*state, entity.Task) bool) ([]*entity.Task, error) {
	var out []*entity.Task
	err := r.d.read(func(st *state) error {
		for _, id := range st.taskOrder {
			t := st.tasks[id]
			if match(st, t) {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}

func (r *TaskRepo) IsAssigned(_ context.Context, taskID, developerID string) (bool, error) {
	var ok bool
	err := r.d.read(func(st *state) error {
		ok = st.taskDevs[taskID][developerID]
		return nil
	})
	return ok, err
}

func (r *TaskRepo) UpdateHours(_ context.Context, id string, billable, productivity *decimal.Decimal, updatedAt time.Time) error {
	return r.d.write(func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return domain.ErrNotFound
		}
		t.BillableHours = copyDecimal(billable)
		t.ProductivityHours = copyDecimal(productivity)
		t.UpdatedAt = updatedAt
		st.tasks[id] = t
		return nil
	})
}

func copyDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// TimesheetRepo implementación en memoria de TimesheetRepository.
type TimesheetRepo struct {
	d db
}

func (r *TimesheetRepo) ApprovedHours(_ context.Context, taskID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.d.read(func(st *state) error {
		for _, ts := range st.timesheets {
			if ts.TaskID == taskID && ts.Status == entity.TimesheetApproved {
				total = total.Add(ts.Hours)
			}
		}
		return nil
	})
	return total, err
}

package worklog_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/application/worklog"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/infrastructure/memory"
)

var (
	lead  = entity.Actor{ID: "lead-1", Role: entity.RoleProjectLead}
	owner = entity.Actor{ID: "owner-1", Role: entity.RoleProjectOwner}
	dev   = entity.Actor{ID: "dev-1", Role: entity.RoleDeveloper}
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func newUseCase(t *testing.T) (*worklog.WorkLogUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProject(entity.Project{ID: "p1", Name: "Portal", ProjectLeadID: lead.ID, ProjectOwnerID: owner.ID})
	store.AddProject(entity.Project{ID: "p2", Name: "Otro", ProjectLeadID: "lead-2"})
	store.AddAssignment(entity.DeveloperAssignment{ID: "a1", DeveloperID: dev.ID, ProjectID: "p1", HourlyRate: d("20")})
	store.AddTask(entity.Task{ID: "t1", ProjectID: "p1", Title: "Login", EstimationHours: d("8")}, dev.ID)
	store.AddTask(entity.Task{ID: "t9", ProjectID: "p2", Title: "Ajena", EstimationHours: d("2")})
	store.AddTimesheet(entity.Timesheet{ID: "ts1", TaskID: "t1", UserID: dev.ID, Hours: d("3"), Status: entity.TimesheetApproved})
	store.AddTimesheet(entity.Timesheet{ID: "ts2", TaskID: "t1", UserID: dev.ID, Hours: d("2.5"), Status: entity.TimesheetApproved})
	store.AddTimesheet(entity.Timesheet{ID: "ts3", TaskID: "t1", UserID: dev.ID, Hours: d("4"), Status: entity.TimesheetPending})

	uc := worklog.NewWorkLogUseCase(
		memory.NewTxRunner(store),
		store.Tasks(), store.Projects(), store.Assignments(), store.Timesheets(),
		zerolog.Nop(),
	)
	return uc, store
}

func TestUpdateHours_LiderActualiza(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	resp, err := uc.UpdateHours(ctx, lead, "t1", dto.UpdateTaskHoursRequest{
		BillableHours:     ptr("6"),
		ProductivityHours: ptr("5.5"),
	})
	require.NoError(t, err)
	assert.True(t, resp.BillableHours.Equal(d("6")))
	assert.True(t, resp.ProductivityHours.Equal(d("5.5")))
	assert.True(t, resp.CumulativeApprovedHours.Equal(d("5.5")), "solo timesheets aprobados")

	// nil conserva el valor anterior
	resp, err = uc.SetBillableHours(ctx, lead, "t1", d("7"))
	require.NoError(t, err)
	assert.True(t, resp.BillableHours.Equal(d("7")))
	assert.True(t, resp.ProductivityHours.Equal(d("5.5")))

	stored, err := store.Tasks().GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, stored.BillableHours.Equal(d("7")))
}

func TestUpdateHours_SoloElLider(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	for _, actor := range []entity.Actor{owner, dev, {ID: "lead-2", Role: entity.RoleProjectLead}} {
		_, err := uc.SetProductivityHours(ctx, actor, "t1", d("4"))
		assert.ErrorIs(t, err, domain.ErrForbidden, actor.ID)
	}

	stored, err := store.Tasks().GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, stored.ProductivityHours)
}

func TestUpdateHours_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.SetProductivityHours(ctx, lead, "t1", d("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.SetBillableHours(ctx, lead, "t1", d("1.005"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.UpdateHours(ctx, lead, "t1", dto.UpdateTaskHoursRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.SetBillableHours(ctx, lead, "no-existe", d("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// cero es válido
	resp, err := uc.SetProductivityHours(ctx, lead, "t1", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, resp.ProductivityHours.IsZero())
}

func TestGetTask_Visibilidad(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	resp, err := uc.GetTask(ctx, dev, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Login", resp.Title)

	_, err = uc.GetTask(ctx, dev, "t9")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetTask(ctx, entity.Actor{ID: "root", Role: entity.RoleSuperAdmin}, "t9")
	assert.NoError(t, err)

	_, err = uc.GetTask(ctx, lead, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidateEstimation(t *testing.T) {
	assert.ErrorIs(t, worklog.ValidateEstimation(nil), domain.ErrValidation)
	assert.ErrorIs(t, worklog.ValidateEstimation(ptr("0")), domain.ErrValidation)
	assert.ErrorIs(t, worklog.ValidateEstimation(ptr("-2")), domain.ErrValidation)
	assert.NoError(t, worklog.ValidateEstimation(ptr("0.5")))
}

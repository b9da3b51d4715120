// Package worklog registra las cantidades de trabajo por tarea (horas estimadas,
// facturables y de productividad) que alimentan la facturación y los pagos.
package worklog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/application/authz"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// WorkLogUseCase lectura y edición de horas de tareas.
type WorkLogUseCase struct {
	txRunner      TxRunner
	taskRepo      repository.TaskRepository
	projectRepo   repository.ProjectRepository
	assignRepo    repository.AssignmentRepository
	timesheetRepo repository.TimesheetRepository
	log           zerolog.Logger
	now           func() time.Time
}

// NewWorkLogUseCase construye el caso de uso.
func NewWorkLogUseCase(
	txRunner TxRunner,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	assignRepo repository.AssignmentRepository,
	timesheetRepo repository.TimesheetRepository,
	log zerolog.Logger,
) *WorkLogUseCase {
	return &WorkLogUseCase{
		txRunner:      txRunner,
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		assignRepo:    assignRepo,
		timesheetRepo: timesheetRepo,
		log:           log,
		now:           time.Now,
	}
}

// ValidateEstimation rechaza estimaciones ausentes o no positivas.
func ValidateEstimation(hours *decimal.Decimal) error {
	if hours == nil || !hours.IsPositive() {
		return domain.NewValidationError("estimation_hours", "es obligatorio y debe ser mayor que cero")
	}
	return nil
}

// validateHours horas no negativas con a lo sumo dos decimales.
func validateHours(field string, v *decimal.Decimal) error {
	if v == nil {
		return nil
	}
	if v.IsNegative() {
		return domain.NewValidationError(field, "no puede ser negativo")
	}
	if !billing.IsMoney(*v) {
		return domain.NewValidationError(field, "admite a lo sumo dos decimales")
	}
	return nil
}

// GetTask devuelve la tarea con sus horas aprobadas acumuladas.
func (uc *WorkLogUseCase) GetTask(ctx context.Context, actor entity.Actor, id string) (*dto.TaskResponse, error) {
	task, err := uc.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	scope, err := authz.Scope(ctx, actor, uc.projectRepo, uc.assignRepo)
	if err != nil {
		return nil, err
	}
	if !authz.InScope(scope, task.ProjectID) {
		return nil, domain.ErrForbidden
	}
	return uc.toResponse(ctx, task)
}

// CumulativeApprovedHours suma de horas aprobadas en timesheets para la tarea.
func (uc *WorkLogUseCase) CumulativeApprovedHours(ctx context.Context, taskID string) (decimal.Decimal, error) {
	hours, err := uc.timesheetRepo.ApprovedHours(ctx, taskID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("approved hours: %w", err)
	}
	return hours, nil
}

// SetProductivityHours fija las horas de productividad (solo el líder del proyecto).
func (uc *WorkLogUseCase) SetProductivityHours(ctx context.Context, actor entity.Actor, id string, value decimal.Decimal) (*dto.TaskResponse, error) {
	return uc.UpdateHours(ctx, actor, id, dto.UpdateTaskHoursRequest{ProductivityHours: &value})
}

// SetBillableHours fija las horas facturables (solo el líder del proyecto).
func (uc *WorkLogUseCase) SetBillableHours(ctx context.Context, actor entity.Actor, id string, value decimal.Decimal) (*dto.TaskResponse, error) {
	return uc.UpdateHours(ctx, actor, id, dto.UpdateTaskHoursRequest{BillableHours: &value})
}

// UpdateHours actualiza horas facturables y/o de productividad en una transacción.
// Los comprobantes ya emitidos no cambian: sus líneas guardan una copia de las horas.
func (uc *WorkLogUseCase) UpdateHours(ctx context.Context, actor entity.Actor, id string, in dto.UpdateTaskHoursRequest) (*dto.TaskResponse, error) {
	if in.BillableHours == nil && in.ProductivityHours == nil {
		return nil, domain.NewValidationError("hours", "debe indicar billable_hours o productivity_hours")
	}
	if err := validateHours("billable_hours", in.BillableHours); err != nil {
		return nil, err
	}
	if err := validateHours("productivity_hours", in.ProductivityHours); err != nil {
		return nil, err
	}

	var updated *entity.Task
	err := uc.txRunner.RunWorklog(ctx, func(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) error {
		task, err := taskRepo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		if task == nil {
			return domain.ErrNotFound
		}
		project, err := projectRepo.GetByID(ctx, task.ProjectID)
		if err != nil {
			return fmt.Errorf("get project: %w", err)
		}
		if err := authz.CanActOnProject(actor, project, authz.EditsTaskHours); err != nil {
			return err
		}

		billable, productivity := task.BillableHours, task.ProductivityHours
		if in.BillableHours != nil {
			billable = in.BillableHours
		}
		if in.ProductivityHours != nil {
			productivity = in.ProductivityHours
		}
		now := uc.now()
		if err := taskRepo.UpdateHours(ctx, task.ID, billable, productivity, now); err != nil {
			return fmt.Errorf("update hours: %w", err)
		}
		task.BillableHours, task.ProductivityHours, task.UpdatedAt = billable, productivity, now
		updated = task
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("task_id", id).Str("actor_id", actor.ID).Msg("actualización de horas rechazada")
		return nil, err
	}

	uc.log.Info().Str("task_id", id).Str("actor_id", actor.ID).
		Interface("billable_hours", updated.BillableHours).
		Interface("productivity_hours", updated.ProductivityHours).
		Msg("horas de tarea actualizadas")
	return uc.toResponse(ctx, updated)
}

func (uc *WorkLogUseCase) toResponse(ctx context.Context, t *entity.Task) (*dto.TaskResponse, error) {
	approved, err := uc.CumulativeApprovedHours(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TaskResponse{
		ID:                      t.ID,
		ProjectID:               t.ProjectID,
		Title:                   t.Title,
		Description:             t.Description,
		Status:                  t.Status,
		EstimationHours:         t.EstimationHours,
		BillableHours:           t.BillableHours,
		ProductivityHours:       t.ProductivityHours,
		TrackSummary:            t.TrackSummary,
		CumulativeApprovedHours: approved,
		UpdatedAt:               t.UpdatedAt,
	}, nil
}

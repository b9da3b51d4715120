// Package reporting contiene las consultas de solo lectura: resumen de trabajo por
// desarrollador, ganancias, tablero del líder, dashboard y estados de cuenta en PDF.
package reporting

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

// Repos puertos de lectura que consulta el reporte.
type Repos struct {
	Projects    repository.ProjectRepository
	Assignments repository.AssignmentRepository
	Tasks       repository.TaskRepository
	Timesheets  repository.TimesheetRepository
	Invoices    repository.InvoiceRepository
	Vouchers    repository.VoucherRepository
	Ledger      repository.LedgerRepository
}

// ReportingUseCase reportes de trabajo, pagos y tablero.
type ReportingUseCase struct {
	repos     Repos
	tolerance decimal.Decimal
	log       zerolog.Logger
	now       func() time.Time
}

// NewReportingUseCase construye el caso de uso. tolerance <= 0 usa billing.DefaultTolerance.
func NewReportingUseCase(repos Repos, tolerance decimal.Decimal, log zerolog.Logger) *ReportingUseCase {
	if !tolerance.IsPositive() {
		tolerance = billing.DefaultTolerance
	}
	return &ReportingUseCase{repos: repos, tolerance: tolerance, log: log, now: time.Now}
}

// DeveloperWorkSummary horas de productividad, ganancias y pagos por (desarrollador, proyecto).
// El desarrollador ve lo propio; el líder, a los desarrolladores de sus proyectos.
func (uc *ReportingUseCase) DeveloperWorkSummary(ctx context.Context, actor entity.Actor, projectID string) ([]dto.DeveloperWorkSummary, error) {
	if err := authz.RequireRole(actor, entity.RoleDeveloper, entity.RoleProjectLead, entity.RoleProjectManager); err != nil {
		return nil, err
	}
	assignments, err := uc.visibleAssignments(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	out := make([]dto.DeveloperWorkSummary, 0, len(assignments))
	for _, a := range assignments {
		name, err := uc.projectName(ctx, names, a.ProjectID)
		if err != nil {
			return nil, err
		}
		tasks, err := uc.repos.Tasks.ListAssigned(ctx, a.DeveloperID, a.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("list assigned tasks: %w", err)
		}
		paid, err := uc.repos.Vouchers.SumDeveloperPayments(ctx, a.DeveloperID, a.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("sum developer payments: %w", err)
		}

		s := dto.DeveloperWorkSummary{
			DeveloperID:            a.DeveloperID,
			ProjectID:              a.ProjectID,
			ProjectName:            name,
			TotalProductivityHours: decimal.Zero,
			HourlyRate:             a.HourlyRate,
			TotalEarnings:          decimal.Zero,
			TotalPaid:              paid,
			Tasks:                  make([]dto.WorkSummaryTask, 0, len(tasks)),
		}
		for _, t := range tasks {
			hours := decimal.Zero
			if t.ProductivityHours != nil {
				hours = *t.ProductivityHours
			}
			amount := billing.LineAmount(hours, a.HourlyRate)
			allocated, err := uc.repos.Vouchers.TaskAllocated(ctx, t.ID, a.DeveloperID, a.ProjectID)
			if err != nil {
				return nil, fmt.Errorf("task allocations: %w", err)
			}
			s.TotalProductivityHours = s.TotalProductivityHours.Add(hours)
			s.TotalEarnings = s.TotalEarnings.Add(amount)
			s.Tasks = append(s.Tasks, dto.WorkSummaryTask{
				TaskID:            t.ID,
				Title:             t.Title,
				ProductivityHours: hours,
				Amount:            amount,
				Allocated:         allocated,
				IsPaid:            billing.FullyPaid(allocated, amount, uc.tolerance),
			})
		}
		s.Pending = billing.Remaining(s.TotalEarnings, paid)
		out = append(out, s)
	}
	return out, nil
}

func (uc *ReportingUseCase) visibleAssignments(ctx context.Context, actor entity.Actor, projectID string) ([]*entity.DeveloperAssignment, error) {
	if actor.Role == entity.RoleDeveloper {
		list, err := uc.repos.Assignments.ListByDeveloper(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("list assignments: %w", err)
		}
		return filterAssignments(list, projectID), nil
	}

	var projects []string
	if projectID != "" {
		p, err := uc.repos.Projects.GetByID(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("get project: %w", err)
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		if !actor.IsSuperAdmin() && p.ProjectLeadID != actor.ID {
			return nil, domain.ErrForbidden
		}
		projects = []string{projectID}
	} else {
		ids, err := uc.projectScope(ctx, actor)
		if err != nil {
			return nil, err
		}
		projects = ids
	}

	var out []*entity.DeveloperAssignment
	for _, id := range projects {
		list, err := uc.repos.Assignments.ListByProject(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list assignments: %w", err)
		}
		out = append(out, list...)
	}
	return out, nil
}

func filterAssignments(list []*entity.DeveloperAssignment, projectID string) []*entity.DeveloperAssignment {
	if projectID == "" {
		return list
	}
	out := list[:0:0]
	for _, a := range list {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

// DeveloperEarnings comprobantes del desarrollador con su historial de pagos.
func (uc *ReportingUseCase) DeveloperEarnings(ctx context.Context, actor entity.Actor, projectID string) ([]dto.VoucherEarnings, error) {
	if err := authz.RequireRole(actor, entity.RoleDeveloper); err != nil {
		return nil, err
	}
	vouchers, err := uc.repos.Vouchers.List(ctx, repository.VoucherFilter{DeveloperID: actor.ID, ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}

	names := make(map[string]string)
	out := make([]dto.VoucherEarnings, 0, len(vouchers))
	for _, v := range vouchers {
		name, err := uc.projectName(ctx, names, v.ProjectID)
		if err != nil {
			return nil, err
		}
		payments, err := uc.repos.Vouchers.ListPayments(ctx, repository.VoucherFilter{VoucherID: v.ID})
		if err != nil {
			return nil, fmt.Errorf("list developer payments: %w", err)
		}
		paid := decimal.Zero
		history := make([]dto.PaymentHistoryItem, 0, len(payments))
		for _, p := range payments {
			paid = paid.Add(p.Amount)
			history = append(history, dto.PaymentHistoryItem{
				ID:          p.ID,
				Amount:      p.Amount,
				PaymentDate: dto.FormatDate(p.PaymentDate),
				Notes:       p.Notes,
			})
		}
		out = append(out, dto.VoucherEarnings{
			VoucherID:   v.ID,
			ProjectID:   v.ProjectID,
			ProjectName: name,
			Amount:      v.Amount,
			VoucherDate: dto.FormatDate(v.VoucherDate),
			Status:      string(billing.DeriveStatus(v.Amount, paid)),
			TotalPaid:   paid,
			Remaining:   billing.Remaining(v.Amount, paid),
			Payments:    history,
		})
	}
	return out, nil
}

// LeadTaskBoard tareas de los proyectos del líder con marca de facturada y horas aprobadas.
func (uc *ReportingUseCase) LeadTaskBoard(ctx context.Context, actor entity.Actor) ([]dto.TaskBoardItem, error) {
	if err := authz.RequireRole(actor, entity.RoleProjectLead); err != nil {
		return nil, err
	}
	projects, err := uc.projectScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	var out []dto.TaskBoardItem
	for _, pid := range projects {
		name, err := uc.projectName(ctx, names, pid)
		if err != nil {
			return nil, err
		}
		tasks, err := uc.repos.Tasks.ListByProject(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		for _, t := range tasks {
			billed, err := uc.repos.Invoices.IsTaskInvoiced(ctx, t.ID)
			if err != nil {
				return nil, fmt.Errorf("task invoiced: %w", err)
			}
			approved, err := uc.repos.Timesheets.ApprovedHours(ctx, t.ID)
			if err != nil {
				return nil, fmt.Errorf("approved hours: %w", err)
			}
			out = append(out, dto.TaskBoardItem{
				TaskID:                  t.ID,
				ProjectID:               pid,
				ProjectName:             name,
				Title:                   t.Title,
				Status:                  t.Status,
				EstimationHours:         t.EstimationHours,
				BillableHours:           t.BillableHours,
				ProductivityHours:       t.ProductivityHours,
				TrackSummary:            t.TrackSummary,
				CumulativeApprovedHours: approved,
				IsBilled:                billed,
			})
		}
	}
	if out == nil {
		out = []dto.TaskBoardItem{}
	}
	return out, nil
}

// projectScope ids de proyectos del líder; todos para super_admin.
func (uc *ReportingUseCase) projectScope(ctx context.Context, actor entity.Actor) ([]string, error) {
	f := repository.ProjectFilter{LeadID: actor.ID}
	if actor.IsSuperAdmin() {
		f = repository.ProjectFilter{}
	}
	list, err := uc.repos.Projects.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (uc *ReportingUseCase) projectName(ctx context.Context, cache map[string]string, id string) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	p, err := uc.repos.Projects.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get project: %w", err)
	}
	name := ""
	if p != nil {
		name = p.Name
	}
	cache[id] = name
	return name, nil
}

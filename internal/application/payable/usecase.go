// Package payable implementa el ciclo de cuentas por pagar a desarrolladores:
// comprobantes por horas de productividad, abonos parciales y su reparto por tarea.
package payable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/application/authz"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// Config reglas de comprobantes.
type Config struct {
	// AmountTolerance diferencia máxima aceptada entre el monto recibido y el calculado.
	AmountTolerance decimal.Decimal
}

// PayableUseCase comprobantes y pagos a desarrolladores.
type PayableUseCase struct {
	txRunner    TxRunner
	projectRepo repository.ProjectRepository
	assignRepo  repository.AssignmentRepository
	taskRepo    repository.TaskRepository
	voucherRepo repository.VoucherRepository
	cfg         Config
	log         zerolog.Logger
	now         func() time.Time
}

// NewPayableUseCase construye el caso de uso. Tolerancia cero o negativa usa billing.DefaultTolerance.
func NewPayableUseCase(
	txRunner TxRunner,
	projectRepo repository.ProjectRepository,
	assignRepo repository.AssignmentRepository,
	taskRepo repository.TaskRepository,
	voucherRepo repository.VoucherRepository,
	cfg Config,
	log zerolog.Logger,
) *PayableUseCase {
	if !cfg.AmountTolerance.IsPositive() {
		cfg.AmountTolerance = billing.DefaultTolerance
	}
	return &PayableUseCase{
		txRunner:    txRunner,
		projectRepo: projectRepo,
		assignRepo:  assignRepo,
		taskRepo:    taskRepo,
		voucherRepo: voucherRepo,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// CreateVoucher valida asignaciones y horas, congela horas × tarifa por tarea y registra
// Dr gasto / Cr CxP. El monto guardado es el calculado (el recibido solo debe coincidir dentro de la tolerancia).
func (uc *PayableUseCase) CreateVoucher(ctx context.Context, actor entity.Actor, in dto.CreateVoucherRequest) (*dto.VoucherResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "debe ser mayor que cero")
	}
	date, ok, err := dto.ParseDate(in.VoucherDate)
	if err != nil || !ok {
		return nil, domain.NewValidationError("voucher_date", "fecha inválida, formato YYYY-MM-DD")
	}
	start, end, err := in.DateRange.Bounds()
	if err != nil {
		return nil, err
	}
	if len(in.TaskIDs) == 0 {
		return nil, domain.NewValidationError("task_ids", "debe incluir al menos una tarea")
	}

	project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	if err := authz.CanActOnProject(actor, project, authz.CreatesVoucher); err != nil {
		uc.log.Warn().Err(err).Str("project_id", project.ID).Str("actor_id", actor.ID).Msg("comprobante rechazado")
		return nil, err
	}

	voucherID := uuid.New().String()
	lines, err := uc.buildLines(ctx, voucherID, in.DeveloperID, project.ID, in.TaskIDs)
	if err != nil {
		uc.log.Warn().Err(err).Str("developer_id", in.DeveloperID).Str("project_id", project.ID).Msg("comprobante rechazado")
		return nil, err
	}
	amounts := make([]decimal.Decimal, len(lines))
	for i, l := range lines {
		amounts[i] = l.Amount
	}
	calculated := billing.Sum(amounts...)
	if !billing.WithinTolerance(in.Amount, calculated, uc.cfg.AmountTolerance) {
		err := &domain.AmountMismatchError{Given: in.Amount, Calculated: calculated}
		uc.log.Warn().Err(err).Str("developer_id", in.DeveloperID).Str("project_id", project.ID).Msg("comprobante rechazado")
		return nil, err
	}

	now := uc.now()
	voucher := &entity.PaymentVoucher{
		ID:             voucherID,
		DeveloperID:    in.DeveloperID,
		ProjectID:      project.ID,
		Amount:         calculated,
		VoucherDate:    date,
		Notes:          in.Notes,
		DateRangeStart: start,
		DateRangeEnd:   end,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
	}
	posting, err := accounting.VoucherCreated(*voucher, project.Name)
	if err != nil {
		return nil, fmt.Errorf("posting voucher: %w", err)
	}

	err = uc.txRunner.RunPayable(ctx, func(voucherRepo repository.VoucherRepository, ledgerRepo repository.LedgerRepository) error {
		if err := voucherRepo.Create(ctx, voucher); err != nil {
			return fmt.Errorf("create voucher: %w", err)
		}
		if err := voucherRepo.AddTasks(ctx, lines); err != nil {
			return fmt.Errorf("create voucher tasks: %w", err)
		}
		if err := ledgerRepo.Post(ctx, posting); err != nil {
			return fmt.Errorf("post voucher entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("voucher_id", voucher.ID).Str("developer_id", voucher.DeveloperID).
		Str("project_id", voucher.ProjectID).Str("amount", voucher.Amount.StringFixed(2)).
		Int("tasks", len(lines)).Msg("comprobante creado")
	return voucherResponse(voucher, project.Name, lines, nil, decimal.Zero), nil
}

// buildLines valida cada tarea y congela horas, tarifa y monto.
func (uc *PayableUseCase) buildLines(ctx context.Context, voucherID, developerID, projectID string, taskIDs []string) ([]entity.VoucherTask, error) {
	rate, assigned, err := uc.assignRepo.HourlyRate(ctx, developerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("hourly rate: %w", err)
	}
	if !assigned {
		return nil, &domain.NotAssignedError{DeveloperID: developerID, ProjectID: projectID}
	}
	if !rate.IsPositive() {
		return nil, domain.NewValidationError("hourly_rate", "la tarifa del desarrollador en el proyecto debe ser mayor que cero")
	}

	lines := make([]entity.VoucherTask, 0, len(taskIDs))
	seen := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		if seen[id] {
			return nil, domain.NewValidationError("task_ids", fmt.Sprintf("la tarea %s está repetida", id))
		}
		seen[id] = true

		task, err := uc.taskRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get task: %w", err)
		}
		if task == nil {
			return nil, domain.NewValidationError("task_ids", fmt.Sprintf("la tarea %s no existe", id))
		}
		if task.ProjectID != projectID {
			return nil, domain.NewValidationError("task_ids", fmt.Sprintf("la tarea %s no pertenece al proyecto %s", id, projectID))
		}
		ok, err := uc.taskRepo.IsAssigned(ctx, task.ID, developerID)
		if err != nil {
			return nil, fmt.Errorf("task assignment: %w", err)
		}
		if !ok {
			return nil, &domain.NotAssignedError{DeveloperID: developerID, ProjectID: projectID, TaskID: task.ID}
		}
		if task.ProductivityHours == nil || !task.ProductivityHours.IsPositive() {
			return nil, &domain.MissingProductivityHoursError{TaskID: task.ID, TaskTitle: task.Title}
		}
		hours := *task.ProductivityHours
		lines = append(lines, entity.VoucherTask{
			ID:                uuid.New().String(),
			VoucherID:         voucherID,
			TaskID:            task.ID,
			ProductivityHours: hours,
			HourlyRate:        rate,
			Amount:            billing.LineAmount(hours, rate),
		})
	}
	return lines, nil
}

// PayVoucher registra un abono y lo reparte entre las tareas del comprobante.
//
// Con el comprobante bloqueado:
//  1. saldo = monto - Σ pagos previos; el abono no puede superarlo
//  2. peso de cada tarea = monto congelado - Σ asignaciones previas
//  3. reparto proporcional al peso con restos mayores (billing.Allocate)
//
// Sin historial de redondeo el peso es proporcional al monto de la línea, y al saldar
// el comprobante cada tarea recibe exactamente su monto congelado.
func (uc *PayableUseCase) PayVoucher(ctx context.Context, actor entity.Actor, voucherID string, in dto.PayVoucherRequest) (*dto.DeveloperPaymentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !billing.IsMoney(in.Amount) {
		return nil, domain.NewValidationError("amount", "admite a lo sumo dos decimales")
	}
	date, ok, err := dto.ParseDate(in.PaymentDate)
	if err != nil || !ok {
		return nil, domain.NewValidationError("payment_date", "fecha inválida, formato YYYY-MM-DD")
	}

	v, err := uc.voucherRepo.GetByID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	project, err := uc.projectRepo.GetByID(ctx, v.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if err := authz.CanActOnProject(actor, project, authz.PaysVoucher); err != nil {
		uc.log.Warn().Err(err).Str("voucher_id", v.ID).Str("actor_id", actor.ID).Msg("pago de comprobante rechazado")
		return nil, err
	}

	payment := &entity.DeveloperPayment{
		ID:          uuid.New().String(),
		VoucherID:   v.ID,
		DeveloperID: v.DeveloperID,
		ProjectID:   v.ProjectID,
		Amount:      in.Amount,
		PaymentDate: date,
		Notes:       in.Notes,
		CreatedBy:   actor.ID,
		CreatedAt:   uc.now(),
	}
	var (
		locked    *entity.PaymentVoucher
		paidAfter decimal.Decimal
	)

	err = uc.txRunner.RunPayable(ctx, func(voucherRepo repository.VoucherRepository, ledgerRepo repository.LedgerRepository) error {
		var err error
		locked, err = voucherRepo.GetForUpdate(ctx, v.ID)
		if err != nil {
			return fmt.Errorf("lock voucher: %w", err)
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		paid, err := voucherRepo.SumPayments(ctx, locked.ID)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}
		remaining := billing.Remaining(locked.Amount, paid)
		if in.Amount.GreaterThan(remaining) {
			return &domain.OverpaymentError{Amount: in.Amount, Remaining: remaining}
		}

		lines, err := voucherRepo.Tasks(ctx, locked.ID)
		if err != nil {
			return fmt.Errorf("voucher tasks: %w", err)
		}
		prior, err := voucherRepo.AllocatedByTask(ctx, locked.ID)
		if err != nil {
			return fmt.Errorf("prior allocations: %w", err)
		}
		shares := make([]billing.Share, len(lines))
		for i, l := range lines {
			shares[i] = billing.Share{Key: l.TaskID, Weight: billing.Remaining(l.Amount, prior[l.TaskID])}
		}
		parts, err := billing.Allocate(in.Amount, shares)
		if err != nil {
			if errors.Is(err, billing.ErrZeroBase) || errors.Is(err, billing.ErrAllocationExceedsBase) {
				return fmt.Errorf("comprobante %s: asignaciones previas inconsistentes con el saldo: %w", locked.ID, err)
			}
			return err
		}

		payment.Tasks = make([]entity.DeveloperPaymentTask, 0, len(lines))
		for i, l := range lines {
			if parts[i].IsZero() {
				continue
			}
			payment.Tasks = append(payment.Tasks, entity.DeveloperPaymentTask{
				ID:                uuid.New().String(),
				PaymentID:         payment.ID,
				TaskID:            l.TaskID,
				ProductivityHours: l.ProductivityHours,
				HourlyRate:        l.HourlyRate,
				Amount:            parts[i],
			})
		}

		posting, err := accounting.VoucherPayment(*payment, projectName(project))
		if err != nil {
			return fmt.Errorf("posting developer payment: %w", err)
		}
		if err := voucherRepo.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("create developer payment: %w", err)
		}
		if err := ledgerRepo.Post(ctx, posting); err != nil {
			return fmt.Errorf("post developer payment entries: %w", err)
		}
		paidAfter = paid.Add(in.Amount)
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("voucher_id", v.ID).Str("amount", in.Amount.StringFixed(2)).Msg("pago de comprobante rechazado")
		return nil, err
	}

	status := billing.DeriveStatus(locked.Amount, paidAfter)
	uc.log.Info().Str("voucher_id", locked.ID).Str("payment_id", payment.ID).
		Str("amount", payment.Amount.StringFixed(2)).Int("allocations", len(payment.Tasks)).
		Str("status", string(status)).Msg("pago de comprobante registrado")

	resp := developerPaymentResponse(payment)
	resp.VoucherStatus = string(status)
	resp.TotalPaid = paidAfter
	resp.Remaining = billing.Remaining(locked.Amount, paidAfter)
	return &resp, nil
}

// IsTaskFullyPaid compara las asignaciones a la tarea con horas de productividad × tarifa vigente.
func (uc *PayableUseCase) IsTaskFullyPaid(ctx context.Context, taskID, developerID, projectID string) (bool, error) {
	st, err := uc.TaskPaidStatus(ctx, taskID, developerID, projectID)
	if err != nil {
		return false, err
	}
	return st.IsPaid, nil
}

// TaskPaidStatus detalle de IsTaskFullyPaid (esperado vs asignado).
func (uc *PayableUseCase) TaskPaidStatus(ctx context.Context, taskID, developerID, projectID string) (*dto.TaskPaidStatusResponse, error) {
	task, err := uc.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	if projectID == "" {
		projectID = task.ProjectID
	}
	allocated, err := uc.voucherRepo.TaskAllocated(ctx, taskID, developerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("task allocations: %w", err)
	}
	out := &dto.TaskPaidStatusResponse{
		TaskID:      taskID,
		DeveloperID: developerID,
		ProjectID:   projectID,
		Expected:    decimal.Zero,
		Allocated:   allocated,
	}
	rate, assigned, err := uc.assignRepo.HourlyRate(ctx, developerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("hourly rate: %w", err)
	}
	if !assigned || task.ProductivityHours == nil {
		return out, nil
	}
	out.Expected = billing.LineAmount(*task.ProductivityHours, rate)
	out.IsPaid = billing.FullyPaid(allocated, out.Expected, uc.cfg.AmountTolerance)
	return out, nil
}

// GetVoucherStatus estado derivado del comprobante.
func (uc *PayableUseCase) GetVoucherStatus(ctx context.Context, voucherID string) (billing.Status, error) {
	v, err := uc.voucherRepo.GetByID(ctx, voucherID)
	if err != nil {
		return "", fmt.Errorf("get voucher: %w", err)
	}
	if v == nil {
		return "", domain.ErrNotFound
	}
	paid, err := uc.voucherRepo.SumPayments(ctx, voucherID)
	if err != nil {
		return "", fmt.Errorf("sum payments: %w", err)
	}
	return billing.DeriveStatus(v.Amount, paid), nil
}

// GetVoucher comprobante con líneas, asignado y pendiente por tarea.
func (uc *PayableUseCase) GetVoucher(ctx context.Context, actor entity.Actor, id string) (*dto.VoucherResponse, error) {
	v, err := uc.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	project, err := uc.projectRepo.GetByID(ctx, v.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if !canSeeVoucher(actor, v, project) {
		return nil, domain.ErrForbidden
	}
	return uc.detail(ctx, v, projectName(project))
}

// ListVouchers comprobantes visibles: el líder ve los de sus proyectos, el desarrollador los propios.
func (uc *PayableUseCase) ListVouchers(ctx context.Context, actor entity.Actor, q dto.VoucherListQuery) ([]dto.VoucherResponse, error) {
	if q.Status != "" && !billing.ValidStatus(q.Status) {
		return nil, domain.NewValidationError("status", "debe ser pending, partial o paid")
	}
	f, err := uc.scopeFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	f.ProjectID = q.ProjectID
	if q.DeveloperID != "" && f.DeveloperID == "" {
		f.DeveloperID = q.DeveloperID
	}
	vouchers, err := uc.voucherRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	names := make(map[string]string)
	out := make([]dto.VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		if _, ok := names[v.ProjectID]; !ok {
			p, err := uc.projectRepo.GetByID(ctx, v.ProjectID)
			if err != nil {
				return nil, fmt.Errorf("get project: %w", err)
			}
			names[v.ProjectID] = projectName(p)
		}
		resp, err := uc.detail(ctx, v, names[v.ProjectID])
		if err != nil {
			return nil, err
		}
		if q.Status != "" && resp.Status != q.Status {
			continue
		}
		out = append(out, *resp)
	}
	return out, nil
}

// ListDeveloperPayments pagos a desarrolladores con su reparto, más recientes primero.
func (uc *PayableUseCase) ListDeveloperPayments(ctx context.Context, actor entity.Actor, q dto.DeveloperPaymentQuery) ([]dto.DeveloperPaymentResponse, error) {
	f, err := uc.scopeFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	f.ProjectID = q.ProjectID
	f.VoucherID = q.VoucherID
	if q.DeveloperID != "" && f.DeveloperID == "" {
		f.DeveloperID = q.DeveloperID
	}
	payments, err := uc.voucherRepo.ListPayments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list developer payments: %w", err)
	}
	out := make([]dto.DeveloperPaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, developerPaymentResponse(p))
	}
	return out, nil
}

// scopeFilter restringe por proyectos del líder o por el propio desarrollador.
func (uc *PayableUseCase) scopeFilter(ctx context.Context, actor entity.Actor) (repository.VoucherFilter, error) {
	if err := authz.RequireRole(actor, entity.RoleProjectLead, entity.RoleProjectManager, entity.RoleDeveloper); err != nil {
		return repository.VoucherFilter{}, err
	}
	switch {
	case actor.IsSuperAdmin():
		return repository.VoucherFilter{}, nil
	case actor.Role == entity.RoleDeveloper:
		return repository.VoucherFilter{DeveloperID: actor.ID}, nil
	}
	scope, err := authz.Scope(ctx, actor, uc.projectRepo, uc.assignRepo)
	if err != nil {
		return repository.VoucherFilter{}, err
	}
	return repository.VoucherFilter{ProjectIDs: scope}, nil
}

func (uc *PayableUseCase) detail(ctx context.Context, v *entity.PaymentVoucher, name string) (*dto.VoucherResponse, error) {
	lines, err := uc.voucherRepo.Tasks(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("voucher tasks: %w", err)
	}
	allocated, err := uc.voucherRepo.AllocatedByTask(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("allocations: %w", err)
	}
	paid, err := uc.voucherRepo.SumPayments(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	titles := make(map[string]string, len(lines))
	for _, l := range lines {
		if t, err := uc.taskRepo.GetByID(ctx, l.TaskID); err == nil && t != nil {
			titles[l.TaskID] = t.Title
		}
	}
	resp := voucherResponse(v, name, lines, allocated, paid)
	for i := range resp.Tasks {
		resp.Tasks[i].TaskTitle = titles[resp.Tasks[i].TaskID]
	}
	return resp, nil
}

func canSeeVoucher(actor entity.Actor, v *entity.PaymentVoucher, project *entity.Project) bool {
	switch {
	case actor.IsSuperAdmin():
		return true
	case v.DeveloperID == actor.ID:
		return true
	case project != nil && project.ProjectLeadID == actor.ID:
		return true
	}
	return false
}

func projectName(p *entity.Project) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func voucherResponse(v *entity.PaymentVoucher, name string, lines []entity.VoucherTask, allocated map[string]decimal.Decimal, paid decimal.Decimal) *dto.VoucherResponse {
	tasks := make([]dto.VoucherTaskResponse, 0, len(lines))
	for _, l := range lines {
		a := allocated[l.TaskID]
		tasks = append(tasks, dto.VoucherTaskResponse{
			TaskID:            l.TaskID,
			ProductivityHours: l.ProductivityHours,
			HourlyRate:        l.HourlyRate,
			Amount:            l.Amount,
			Allocated:         a,
			Remaining:         billing.Remaining(l.Amount, a),
		})
	}
	return &dto.VoucherResponse{
		ID:          v.ID,
		DeveloperID: v.DeveloperID,
		ProjectID:   v.ProjectID,
		ProjectName: name,
		Amount:      v.Amount,
		VoucherDate: dto.FormatDate(v.VoucherDate),
		Notes:       v.Notes,
		DateRange:   dto.NewDateRange(v.DateRangeStart, v.DateRangeEnd),
		Status:      string(billing.DeriveStatus(v.Amount, paid)),
		TotalPaid:   paid,
		Remaining:   billing.Remaining(v.Amount, paid),
		Tasks:       tasks,
		CreatedBy:   v.CreatedBy,
		CreatedAt:   v.CreatedAt,
	}
}

func developerPaymentResponse(p *entity.DeveloperPayment) dto.DeveloperPaymentResponse {
	allocs := make([]dto.AllocationResponse, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		allocs = append(allocs, dto.AllocationResponse{
			TaskID:            t.TaskID,
			ProductivityHours: t.ProductivityHours,
			HourlyRate:        t.HourlyRate,
			Amount:            t.Amount,
		})
	}
	return dto.DeveloperPaymentResponse{
		ID:          p.ID,
		VoucherID:   p.VoucherID,
		DeveloperID: p.DeveloperID,
		ProjectID:   p.ProjectID,
		Amount:      p.Amount,
		PaymentDate: dto.FormatDate(p.PaymentDate),
		Notes:       p.Notes,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		Allocations: allocs,
	}
}

// Package receivable implementa el ciclo de cuentas por cobrar: facturas al dueño del
// proyecto, abonos parciales y estado derivado de la suma de pagos.
package receivable

import (
	"context"
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

// Config reglas de facturación.
type Config struct {
	// StrictAmount exige amount == Σ round2(billableHours × project.RatePerHour).
	StrictAmount bool
}

// ReceivableUseCase facturas y pagos del cliente.
type ReceivableUseCase struct {
	txRunner      TxRunner
	projectRepo   repository.ProjectRepository
	assignRepo    repository.AssignmentRepository
	taskRepo      repository.TaskRepository
	timesheetRepo repository.TimesheetRepository
	invoiceRepo   repository.InvoiceRepository
	cfg           Config
	log           zerolog.Logger
	now           func() time.Time
}

// NewReceivableUseCase construye el caso de uso.
func NewReceivableUseCase(
	txRunner TxRunner,
	projectRepo repository.ProjectRepository,
	assignRepo repository.AssignmentRepository,
	taskRepo repository.TaskRepository,
	timesheetRepo repository.TimesheetRepository,
	invoiceRepo repository.InvoiceRepository,
	cfg Config,
	log zerolog.Logger,
) *ReceivableUseCase {
	return &ReceivableUseCase{
		txRunner:      txRunner,
		projectRepo:   projectRepo,
		assignRepo:    assignRepo,
		taskRepo:      taskRepo,
		timesheetRepo: timesheetRepo,
		invoiceRepo:   invoiceRepo,
		cfg:           cfg,
		log:           log,
		now:           time.Now,
	}
}

// CreateInvoice crea la factura, vincula las tareas y registra Dr CxC / Cr ingresos en una sola transacción.
func (uc *ReceivableUseCase) CreateInvoice(ctx context.Context, actor entity.Actor, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "debe ser mayor que cero")
	}
	if !billing.IsMoney(in.Amount) {
		return nil, domain.NewValidationError("amount", "admite a lo sumo dos decimales")
	}
	date, ok, err := dto.ParseDate(in.InvoiceDate)
	if err != nil || !ok {
		return nil, domain.NewValidationError("invoice_date", "fecha inválida, formato YYYY-MM-DD")
	}
	start, end, err := in.DateRange.Bounds()
	if err != nil {
		return nil, err
	}

	project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	if err := authz.CanActOnProject(actor, project, authz.CreatesInvoice); err != nil {
		uc.log.Warn().Err(err).Str("project_id", project.ID).Str("actor_id", actor.ID).Msg("factura rechazada")
		return nil, err
	}

	// Tareas: deben existir, pertenecer al proyecto y no repetirse.
	tasks := make([]*entity.Task, 0, len(in.TaskIDs))
	seen := make(map[string]bool, len(in.TaskIDs))
	for _, id := range in.TaskIDs {
		if seen[id] {
			return nil, domain.NewValidationError("task_ids", fmt.Sprintf("la tarea %s está repetida", id))
		}
		seen[id] = true
		task, err := uc.taskRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get task: %w", err)
		}
		if task == nil || task.ProjectID != project.ID {
			err := domain.NewValidationError("task_ids", fmt.Sprintf("la tarea %s no pertenece al proyecto %s", id, project.ID))
			uc.log.Warn().Err(err).Str("project_id", project.ID).Msg("factura rechazada")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if uc.cfg.StrictAmount {
		if err := checkStrictAmount(in.Amount, project, tasks); err != nil {
			uc.log.Warn().Err(err).Str("project_id", project.ID).Msg("factura rechazada")
			return nil, err
		}
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		ProjectID:      project.ID,
		Amount:         in.Amount,
		InvoiceDate:    date,
		Notes:          in.Notes,
		DateRangeStart: start,
		DateRangeEnd:   end,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
	}
	posting, err := accounting.InvoiceCreated(*inv, project.Name)
	if err != nil {
		return nil, fmt.Errorf("posting invoice: %w", err)
	}

	err = uc.txRunner.RunReceivable(ctx, func(invoiceRepo repository.InvoiceRepository, ledgerRepo repository.LedgerRepository) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if len(in.TaskIDs) > 0 {
			if err := invoiceRepo.AddTasks(ctx, inv.ID, in.TaskIDs); err != nil {
				return fmt.Errorf("link invoice tasks: %w", err)
			}
		}
		if err := ledgerRepo.Post(ctx, posting); err != nil {
			return fmt.Errorf("post invoice entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", inv.ID).Str("project_id", inv.ProjectID).
		Str("amount", inv.Amount.StringFixed(2)).Int("tasks", len(in.TaskIDs)).
		Msg("factura creada")
	return uc.toResponse(inv, project.Name, in.TaskIDs, decimal.Zero), nil
}

// checkStrictAmount compara el monto con Σ round2(horas facturables × tarifa del proyecto).
func checkStrictAmount(amount decimal.Decimal, project *entity.Project, tasks []*entity.Task) error {
	if project.RatePerHour == nil {
		return domain.NewValidationError("project", "el proyecto no tiene tarifa por hora definida")
	}
	lines := make([]decimal.Decimal, 0, len(tasks))
	for _, t := range tasks {
		if t.BillableHours == nil {
			return domain.NewValidationError("task_ids", fmt.Sprintf("la tarea '%s' no tiene horas facturables", t.Title))
		}
		lines = append(lines, billing.LineAmount(*t.BillableHours, *project.RatePerHour))
	}
	calculated := billing.Sum(lines...)
	if !amount.Equal(calculated) {
		return &domain.AmountMismatchError{Given: amount, Calculated: calculated}
	}
	return nil
}

// RecordPayment registra un abono del cliente. Bloquea la factura, relee la suma de pagos
// y rechaza el sobrepago; pago y asiento Dr caja / Cr CxC se confirman juntos.
func (uc *ReceivableUseCase) RecordPayment(ctx context.Context, actor entity.Actor, in dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
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

	inv, project, err := uc.loadInvoice(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanActOnProject(actor, project, authz.RecordsPayment); err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Str("actor_id", actor.ID).Msg("pago rechazado")
		return nil, err
	}

	now := uc.now()
	payment := &entity.Payment{
		ID:          uuid.New().String(),
		InvoiceID:   inv.ID,
		Amount:      in.Amount,
		PaymentDate: date,
		Notes:       in.Notes,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
	}
	var paidAfter decimal.Decimal
	var locked *entity.Invoice

	err = uc.txRunner.RunReceivable(ctx, func(invoiceRepo repository.InvoiceRepository, ledgerRepo repository.LedgerRepository) error {
		var err error
		locked, err = invoiceRepo.GetForUpdate(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("lock invoice: %w", err)
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		paid, err := invoiceRepo.SumPayments(ctx, locked.ID)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}
		remaining := billing.Remaining(locked.Amount, paid)
		if in.Amount.GreaterThan(remaining) {
			return &domain.OverpaymentError{Amount: in.Amount, Remaining: remaining}
		}
		posting, err := accounting.InvoicePayment(*payment, *locked, project.Name)
		if err != nil {
			return fmt.Errorf("posting payment: %w", err)
		}
		if err := invoiceRepo.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if err := ledgerRepo.Post(ctx, posting); err != nil {
			return fmt.Errorf("post payment entries: %w", err)
		}
		paidAfter = paid.Add(in.Amount)
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Str("amount", in.Amount.StringFixed(2)).Msg("pago rechazado")
		return nil, err
	}

	status := billing.DeriveStatus(locked.Amount, paidAfter)
	uc.log.Info().Str("invoice_id", inv.ID).Str("payment_id", payment.ID).
		Str("amount", payment.Amount.StringFixed(2)).Str("status", string(status)).
		Msg("pago de factura registrado")

	resp := paymentResponse(payment)
	resp.InvoiceStatus = string(status)
	resp.TotalPaid = paidAfter
	resp.Remaining = billing.Remaining(locked.Amount, paidAfter)
	return &resp, nil
}

// GetStatus estado derivado de la factura.
func (uc *ReceivableUseCase) GetStatus(ctx context.Context, invoiceID string) (billing.Status, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return "", fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return "", domain.ErrNotFound
	}
	paid, err := uc.invoiceRepo.SumPayments(ctx, invoiceID)
	if err != nil {
		return "", fmt.Errorf("sum payments: %w", err)
	}
	return billing.DeriveStatus(inv.Amount, paid), nil
}

// GetInvoice factura con estado y tareas, si el actor puede verla.
func (uc *ReceivableUseCase) GetInvoice(ctx context.Context, actor entity.Actor, id string) (*dto.InvoiceResponse, error) {
	inv, project, err := uc.visibleInvoice(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	paid, err := uc.invoiceRepo.SumPayments(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	taskIDs, err := uc.invoiceRepo.TaskIDs(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("invoice tasks: %w", err)
	}
	return uc.toResponse(inv, project.Name, taskIDs, paid), nil
}

// ListInvoices facturas visibles para el actor, opcionalmente por proyecto y estado.
func (uc *ReceivableUseCase) ListInvoices(ctx context.Context, actor entity.Actor, q dto.InvoiceListQuery) ([]dto.InvoiceResponse, error) {
	if err := authz.RequireRole(actor, entity.RoleProjectLead, entity.RoleProjectManager, entity.RoleProjectOwner); err != nil {
		return nil, err
	}
	if q.Status != "" && !billing.ValidStatus(q.Status) {
		return nil, domain.NewValidationError("status", "debe ser pending, partial o paid")
	}
	scope, err := authz.Scope(ctx, actor, uc.projectRepo, uc.assignRepo)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{ProjectID: q.ProjectID, ProjectIDs: scope})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	names := make(map[string]string)
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		paid, err := uc.invoiceRepo.SumPayments(ctx, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("sum payments: %w", err)
		}
		if q.Status != "" && billing.DeriveStatus(inv.Amount, paid) != billing.Status(q.Status) {
			continue
		}
		taskIDs, err := uc.invoiceRepo.TaskIDs(ctx, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("invoice tasks: %w", err)
		}
		name, err := uc.projectName(ctx, names, inv.ProjectID)
		if err != nil {
			return nil, err
		}
		out = append(out, *uc.toResponse(inv, name, taskIDs, paid))
	}
	return out, nil
}

// ListInvoiceTasks tareas de la factura. IsPaid=true para todas: vinculada = facturada,
// independientemente de si la factura ya se cobró.
func (uc *ReceivableUseCase) ListInvoiceTasks(ctx context.Context, actor entity.Actor, invoiceID string) ([]dto.InvoiceTaskResponse, error) {
	inv, _, err := uc.visibleInvoice(ctx, actor, invoiceID)
	if err != nil {
		return nil, err
	}
	ids, err := uc.invoiceRepo.TaskIDs(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("invoice tasks: %w", err)
	}
	out := make([]dto.InvoiceTaskResponse, 0, len(ids))
	for _, id := range ids {
		task, err := uc.taskRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get task: %w", err)
		}
		if task == nil {
			continue
		}
		approved, err := uc.timesheetRepo.ApprovedHours(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("approved hours: %w", err)
		}
		out = append(out, dto.InvoiceTaskResponse{
			TaskID:                  task.ID,
			Title:                   task.Title,
			Status:                  task.Status,
			EstimationHours:         task.EstimationHours,
			BillableHours:           task.BillableHours,
			ProductivityHours:       task.ProductivityHours,
			TrackSummary:            task.TrackSummary,
			CumulativeApprovedHours: approved,
			IsPaid:                  true,
		})
	}
	return out, nil
}

// ListPayments pagos de la factura, más recientes primero.
func (uc *ReceivableUseCase) ListPayments(ctx context.Context, actor entity.Actor, invoiceID string) ([]dto.PaymentResponse, error) {
	inv, _, err := uc.visibleInvoice(ctx, actor, invoiceID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.invoiceRepo.ListPayments(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResponse(p))
	}
	return out, nil
}

// AttachEvidence guarda la referencia al soporte del pago. El archivo lo almacena otro servicio.
func (uc *ReceivableUseCase) AttachEvidence(ctx context.Context, actor entity.Actor, paymentID string, in dto.AttachEvidenceRequest) (*dto.PaymentResponse, error) {
	if in.FileRef == "" {
		return nil, domain.NewValidationError("file_ref", "es obligatorio")
	}
	payment, err := uc.invoiceRepo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	_, project, err := uc.loadInvoice(ctx, payment.InvoiceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanActOnProject(actor, project, authz.UploadsEvidence); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.SetPaymentEvidence(ctx, payment.ID, in.FileRef); err != nil {
		return nil, fmt.Errorf("set evidence: %w", err)
	}
	payment.EvidenceFile = in.FileRef
	uc.log.Info().Str("payment_id", payment.ID).Str("file_ref", in.FileRef).Msg("soporte de pago adjuntado")
	resp := paymentResponse(payment)
	return &resp, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (uc *ReceivableUseCase) loadInvoice(ctx context.Context, id string) (*entity.Invoice, *entity.Project, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	project, err := uc.projectRepo.GetByID(ctx, inv.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, nil, fmt.Errorf("proyecto %s de la factura %s: %w", inv.ProjectID, inv.ID, domain.ErrNotFound)
	}
	return inv, project, nil
}

// visibleInvoice: líder y dueño ven las facturas de sus proyectos; super_admin todas.
func (uc *ReceivableUseCase) visibleInvoice(ctx context.Context, actor entity.Actor, id string) (*entity.Invoice, *entity.Project, error) {
	if err := authz.RequireRole(actor, entity.RoleProjectLead, entity.RoleProjectManager, entity.RoleProjectOwner); err != nil {
		return nil, nil, err
	}
	inv, project, err := uc.loadInvoice(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if actor.IsSuperAdmin() || project.ProjectLeadID == actor.ID || project.ProjectOwnerID == actor.ID {
		return inv, project, nil
	}
	return nil, nil, domain.ErrForbidden
}

func (uc *ReceivableUseCase) projectName(ctx context.Context, cache map[string]string, id string) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	p, err := uc.projectRepo.GetByID(ctx, id)
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

func (uc *ReceivableUseCase) toResponse(inv *entity.Invoice, projectName string, taskIDs []string, paid decimal.Decimal) *dto.InvoiceResponse {
	if taskIDs == nil {
		taskIDs = []string{}
	}
	return &dto.InvoiceResponse{
		ID:          inv.ID,
		ProjectID:   inv.ProjectID,
		ProjectName: projectName,
		Amount:      inv.Amount,
		InvoiceDate: dto.FormatDate(inv.InvoiceDate),
		Notes:       inv.Notes,
		DateRange:   dto.NewDateRange(inv.DateRangeStart, inv.DateRangeEnd),
		Status:      string(billing.DeriveStatus(inv.Amount, paid)),
		TotalPaid:   paid,
		Remaining:   billing.Remaining(inv.Amount, paid),
		TaskIDs:     taskIDs,
		CreatedBy:   inv.CreatedBy,
		CreatedAt:   inv.CreatedAt,
	}
}

func paymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:           p.ID,
		InvoiceID:    p.InvoiceID,
		Amount:       p.Amount,
		PaymentDate:  dto.FormatDate(p.PaymentDate),
		Notes:        p.Notes,
		EvidenceFile: p.EvidenceFile,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
	}
}

// Package accounting expone el diario contable: consultas, resumen, verificación
// de integridad, asientos faltantes, exportación y reversos.
package accounting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/application/authz"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	ledger "github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// ErrNothingToExport el filtro no devolvió filas.
var ErrNothingToExport = errors.New("no hay asientos para exportar")

// AccountingUseCase consultas y mantenimiento del diario.
type AccountingUseCase struct {
	txRunner    TxRunner
	ledgerRepo  repository.LedgerRepository
	invoiceRepo repository.InvoiceRepository
	voucherRepo repository.VoucherRepository
	projectRepo repository.ProjectRepository
	assignRepo  repository.AssignmentRepository
	exporter    Exporter
	log         zerolog.Logger
	now         func() time.Time
}

// NewAccountingUseCase construye el caso de uso. exporter puede ser nil si no se exporta.
func NewAccountingUseCase(
	txRunner TxRunner,
	ledgerRepo repository.LedgerRepository,
	invoiceRepo repository.InvoiceRepository,
	voucherRepo repository.VoucherRepository,
	projectRepo repository.ProjectRepository,
	assignRepo repository.AssignmentRepository,
	exporter Exporter,
	log zerolog.Logger,
) *AccountingUseCase {
	return &AccountingUseCase{
		txRunner:    txRunner,
		ledgerRepo:  ledgerRepo,
		invoiceRepo: invoiceRepo,
		voucherRepo: voucherRepo,
		projectRepo: projectRepo,
		assignRepo:  assignRepo,
		exporter:    exporter,
		log:         log,
		now:         time.Now,
	}
}

// Entries filas del diario visibles para el actor, más recientes primero.
func (uc *AccountingUseCase) Entries(ctx context.Context, actor entity.Actor, q dto.EntryQuery) ([]dto.AccountingEntryResponse, error) {
	rows, err := uc.entries(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountingEntryResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, entryResponse(e))
	}
	return out, nil
}

// Summary totales del diario en una sola pasada sobre las filas filtradas.
func (uc *AccountingUseCase) Summary(ctx context.Context, actor entity.Actor, q dto.EntryQuery) (*dto.AccountingSummaryResponse, error) {
	rows, err := uc.entries(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	s := ledger.Summarize(rows)
	return summaryResponse(s), nil
}

// ExportXLSX libro diario filtrado con su resumen.
func (uc *AccountingUseCase) ExportXLSX(ctx context.Context, actor entity.Actor, q dto.EntryQuery) ([]byte, error) {
	if uc.exporter == nil {
		return nil, errors.New("exportador no configurado")
	}
	rows, err := uc.entries(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}
	data, err := uc.exporter.Export(rows, ledger.Summarize(rows))
	if err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}
	return data, nil
}

// entries aplica visibilidad: super_admin ve todo; el líder solo sus proyectos.
func (uc *AccountingUseCase) entries(ctx context.Context, actor entity.Actor, q dto.EntryQuery) ([]entity.AccountingEntry, error) {
	f, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireRole(actor, entity.RoleProjectLead); err != nil {
		return nil, err
	}
	if f.ProjectID != "" {
		project, err := uc.projectRepo.GetByID(ctx, f.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("get project: %w", err)
		}
		if err := authz.CanActOnProject(actor, project, authz.ViewsLedger); err != nil {
			return nil, err
		}
	} else {
		scope, err := authz.Scope(ctx, actor, uc.projectRepo, uc.assignRepo)
		if err != nil {
			return nil, err
		}
		f.ProjectIDs = scope
	}
	rows, err := uc.ledgerRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return rows, nil
}

func buildFilter(q dto.EntryQuery) (repository.EntryFilter, error) {
	f := repository.EntryFilter{ProjectID: q.ProjectID}
	if q.TransactionType != "" {
		if !entity.ValidTransactionType(q.TransactionType) {
			return f, domain.NewValidationError("transaction_type", "tipo de transacción desconocido")
		}
		f.TransactionType = entity.TransactionType(q.TransactionType)
	}
	if q.AccountType != "" {
		if !entity.ValidAccountType(q.AccountType) {
			return f, domain.NewValidationError("account_type", "cuenta desconocida")
		}
		f.AccountType = entity.AccountType(q.AccountType)
	}
	if t, ok, err := dto.ParseDate(q.StartDate); err != nil {
		return f, domain.NewValidationError("start_date", "fecha inválida, formato YYYY-MM-DD")
	} else if ok {
		f.From = &t
	}
	if t, ok, err := dto.ParseDate(q.EndDate); err != nil {
		return f, domain.NewValidationError("end_date", "fecha inválida, formato YYYY-MM-DD")
	} else if ok {
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, domain.NewValidationError("end_date", "debe ser posterior a start_date")
	}
	return f, nil
}

// ── Integridad ───────────────────────────────────────────────────────────────

// Verify revisa el diario completo: débitos == créditos, un asiento balanceado por
// documento y reparto de cada pago a desarrollador igual a su monto.
func (uc *AccountingUseCase) Verify(ctx context.Context, actor entity.Actor) (*dto.VerifyReport, error) {
	if err := authz.RequireRole(actor); err != nil {
		return nil, err
	}
	rows, err := uc.ledgerRepo.List(ctx, repository.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	s := ledger.Summarize(rows)
	refs := make(map[string]bool, len(rows))
	for _, e := range rows {
		refs[e.ReferenceNumber] = true
	}

	docs, err := uc.documentRefs(ctx, uc.invoiceRepo, uc.voucherRepo)
	if err != nil {
		return nil, err
	}
	report := &dto.VerifyReport{
		TotalDebits:          s.TotalDebits,
		TotalCredits:         s.TotalCredits,
		UnbalancedReferences: ledger.UnbalancedReferences(rows),
		MissingPostings:      []string{},
		AllocationMismatches: []string{},
		CheckedAt:            uc.now(),
	}
	for _, d := range docs {
		if !refs[d.ref] {
			report.MissingPostings = append(report.MissingPostings, d.ref)
		}
	}

	payments, err := uc.voucherRepo.ListPayments(ctx, repository.VoucherFilter{})
	if err != nil {
		return nil, fmt.Errorf("list developer payments: %w", err)
	}
	for _, p := range payments {
		parts := make([]decimal.Decimal, 0, len(p.Tasks))
		for _, t := range p.Tasks {
			parts = append(parts, t.Amount)
		}
		if !billing.Sum(parts...).Equal(p.Amount) {
			report.AllocationMismatches = append(report.AllocationMismatches, ledger.RefDeveloperPayment+p.ID)
		}
	}

	report.OK = s.Balanced() && len(report.UnbalancedReferences) == 0 &&
		len(report.MissingPostings) == 0 && len(report.AllocationMismatches) == 0
	ev := uc.log.Info()
	if !report.OK {
		ev = uc.log.Warn()
	}
	ev.Bool("ok", report.OK).Int("entries", s.EntryCount).
		Int("unbalanced", len(report.UnbalancedReferences)).
		Int("missing", len(report.MissingPostings)).
		Int("allocation_mismatches", len(report.AllocationMismatches)).
		Msg("verificación del diario")
	return report, nil
}

// Backfill agrega los asientos de documentos que no tienen ninguno. Repetirlo no duplica filas.
func (uc *AccountingUseCase) Backfill(ctx context.Context, actor entity.Actor) (*dto.BackfillResponse, error) {
	if err := authz.RequireRole(actor); err != nil {
		return nil, err
	}
	names, err := uc.projectNames(ctx)
	if err != nil {
		return nil, err
	}
	posted := []string{}
	err = uc.txRunner.RunLedger(ctx, func(invoiceRepo repository.InvoiceRepository, voucherRepo repository.VoucherRepository, ledgerRepo repository.LedgerRepository) error {
		posted = posted[:0]
		docs, err := uc.documentRefs(ctx, invoiceRepo, voucherRepo)
		if err != nil {
			return err
		}
		for _, d := range docs {
			existing, err := ledgerRepo.ByReference(ctx, d.ref)
			if err != nil {
				return fmt.Errorf("entries %s: %w", d.ref, err)
			}
			if len(existing) > 0 {
				continue
			}
			p, err := d.build(names[d.projectID])
			if err != nil {
				return fmt.Errorf("posting %s: %w", d.ref, err)
			}
			if err := ledgerRepo.Post(ctx, p); err != nil {
				return fmt.Errorf("post %s: %w", d.ref, err)
			}
			posted = append(posted, d.ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("posted", len(posted)).Str("actor_id", actor.ID).Msg("asientos faltantes registrados")
	return &dto.BackfillResponse{Posted: posted, Count: len(posted)}, nil
}

// Reverse agrega el asiento espejo de referenceNumber. Los reversos no se revierten
// y cada asiento se revierte a lo sumo una vez.
func (uc *AccountingUseCase) Reverse(ctx context.Context, actor entity.Actor, in dto.ReverseEntryRequest) ([]dto.AccountingEntryResponse, error) {
	if err := authz.RequireRole(actor); err != nil {
		return nil, err
	}
	if in.ReferenceNumber == "" {
		return nil, domain.NewValidationError("reference_number", "es obligatorio")
	}
	if ledger.IsReversal(in.ReferenceNumber) {
		return nil, domain.NewValidationError("reference_number", "un reverso no se puede revertir")
	}
	date := uc.now()
	if t, ok, err := dto.ParseDate(in.Date); err != nil {
		return nil, domain.NewValidationError("date", "fecha inválida, formato YYYY-MM-DD")
	} else if ok {
		date = t
	}

	var (
		reversal ledger.Posting
		posted   []entity.AccountingEntry
	)
	err := uc.txRunner.RunLedger(ctx, func(_ repository.InvoiceRepository, _ repository.VoucherRepository, ledgerRepo repository.LedgerRepository) error {
		rows, err := ledgerRepo.ByReference(ctx, in.ReferenceNumber)
		if err != nil {
			return fmt.Errorf("entries %s: %w", in.ReferenceNumber, err)
		}
		if len(rows) == 0 {
			return domain.ErrNotFound
		}
		done, err := ledgerRepo.ByReference(ctx, ledger.ReversalReference(in.ReferenceNumber))
		if err != nil {
			return fmt.Errorf("reversal entries: %w", err)
		}
		if len(done) > 0 {
			return domain.NewValidationError("reference_number", "el asiento ya fue revertido")
		}
		original, err := ledger.FromEntries(rows)
		if err != nil {
			return err
		}
		reversal = original.Reverse(actor.ID, date)
		if err := ledgerRepo.Post(ctx, reversal); err != nil {
			return fmt.Errorf("post reversal: %w", err)
		}
		posted, err = ledgerRepo.ByReference(ctx, reversal.Meta().ReferenceNumber)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("reference", in.ReferenceNumber).Msg("reverso rechazado")
		return nil, err
	}

	uc.log.Info().Str("reference", in.ReferenceNumber).Str("amount", reversal.Amount().StringFixed(2)).
		Str("actor_id", actor.ID).Msg("asiento revertido")
	out := make([]dto.AccountingEntryResponse, 0, len(posted))
	for _, e := range posted {
		out = append(out, entryResponse(e))
	}
	return out, nil
}

// document documento que debe tener un asiento con la referencia ref.
type document struct {
	ref       string
	projectID string
	build     func(projectName string) (ledger.Posting, error)
}

// documentRefs recorre facturas, pagos, comprobantes y pagos a desarrolladores.
func (uc *AccountingUseCase) documentRefs(ctx context.Context, invoiceRepo repository.InvoiceRepository, voucherRepo repository.VoucherRepository) ([]document, error) {
	var docs []document

	invoices, err := invoiceRepo.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	for _, inv := range invoices {
		inv := *inv
		docs = append(docs, document{
			ref:       ledger.RefInvoice + inv.ID,
			projectID: inv.ProjectID,
			build: func(name string) (ledger.Posting, error) {
				return ledger.InvoiceCreated(inv, name)
			},
		})
		payments, err := invoiceRepo.ListPayments(ctx, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		for _, p := range payments {
			p := *p
			docs = append(docs, document{
				ref:       ledger.RefPayment + p.ID,
				projectID: inv.ProjectID,
				build: func(name string) (ledger.Posting, error) {
					return ledger.InvoicePayment(p, inv, name)
				},
			})
		}
	}

	vouchers, err := voucherRepo.List(ctx, repository.VoucherFilter{})
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	for _, v := range vouchers {
		v := *v
		docs = append(docs, document{
			ref:       ledger.RefVoucher + v.ID,
			projectID: v.ProjectID,
			build: func(name string) (ledger.Posting, error) {
				return ledger.VoucherCreated(v, name)
			},
		})
	}
	devPayments, err := voucherRepo.ListPayments(ctx, repository.VoucherFilter{})
	if err != nil {
		return nil, fmt.Errorf("list developer payments: %w", err)
	}
	for _, p := range devPayments {
		p := *p
		docs = append(docs, document{
			ref:       ledger.RefDeveloperPayment + p.ID,
			projectID: p.ProjectID,
			build: func(name string) (ledger.Posting, error) {
				return ledger.VoucherPayment(p, name)
			},
		})
	}
	return docs, nil
}

func (uc *AccountingUseCase) projectNames(ctx context.Context) (map[string]string, error) {
	projects, err := uc.projectRepo.List(ctx, repository.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}

func entryResponse(e entity.AccountingEntry) dto.AccountingEntryResponse {
	return dto.AccountingEntryResponse{
		ID:                 e.ID,
		TransactionDate:    e.TransactionDate,
		TransactionType:    string(e.TransactionType),
		AccountType:        string(e.AccountType),
		EntryType:          string(e.EntryType),
		Amount:             e.Amount,
		Description:        e.Description,
		ReferenceNumber:    e.ReferenceNumber,
		InvoiceID:          e.InvoiceID,
		PaymentID:          e.PaymentID,
		VoucherID:          e.VoucherID,
		DeveloperPaymentID: e.DeveloperPaymentID,
		ProjectID:          e.ProjectID,
		CreatedBy:          e.CreatedBy,
		CreatedAt:          e.CreatedAt,
	}
}

func summaryResponse(s ledger.Summary) *dto.AccountingSummaryResponse {
	return &dto.AccountingSummaryResponse{
		TotalDebits:        s.TotalDebits,
		TotalCredits:       s.TotalCredits,
		Balance:            s.Balance,
		AccountsReceivable: s.AccountsReceivable,
		AccountsPayable:    s.AccountsPayable,
		CashIn:             s.CashIn,
		CashOut:            s.CashOut,
		TotalRevenue:       s.Revenue,
		TotalExpenses:      s.Expenses,
		ProfitLoss:         s.ProfitLoss,
		EntryCount:         s.EntryCount,
	}
}

package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// StatementUseCase genera el estado de cuenta en PDF de una factura o un comprobante.
type StatementUseCase struct {
	repos     Repos
	generator StatementPDFGenerator
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(repos Repos, generator StatementPDFGenerator) *StatementUseCase {
	return &StatementUseCase{repos: repos, generator: generator}
}

// InvoiceStatementPDF estado de cuenta de la factura: tareas vinculadas y abonos.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si el actor no es líder ni dueño del proyecto.
func (uc *StatementUseCase) InvoiceStatementPDF(ctx context.Context, actor entity.Actor, invoiceID string) ([]byte, string, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	project, err := uc.repos.Projects.GetByID(ctx, inv.ProjectID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proyecto: %w", err)
	}
	if project == nil {
		return nil, "", domain.ErrNotFound
	}
	if !actor.IsSuperAdmin() && project.ProjectLeadID != actor.ID && project.ProjectOwnerID != actor.ID {
		return nil, "", domain.ErrForbidden
	}

	taskIDs, err := uc.repos.Invoices.TaskIDs(ctx, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: tareas de la factura: %w", err)
	}
	rate := decimal.Zero
	if project.RatePerHour != nil {
		rate = *project.RatePerHour
	}
	lines := make([]StatementLine, 0, len(taskIDs))
	for _, id := range taskIDs {
		t, err := uc.repos.Tasks.GetByID(ctx, id)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener tarea: %w", err)
		}
		if t == nil {
			continue
		}
		hours := decimal.Zero
		if t.BillableHours != nil {
			hours = *t.BillableHours
		}
		lines = append(lines, StatementLine{
			Description: t.Title,
			Hours:       hours,
			Rate:        rate,
			Amount:      billing.LineAmount(hours, rate),
		})
	}

	payments, err := uc.repos.Invoices.ListPayments(ctx, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: pagos de la factura: %w", err)
	}
	paid := decimal.Zero
	history := make([]StatementPayment, 0, len(payments))
	for _, p := range payments {
		paid = paid.Add(p.Amount)
		history = append(history, StatementPayment{Date: p.PaymentDate, Amount: p.Amount, Notes: p.Notes})
	}

	st := &Statement{
		Kind:         StatementInvoice,
		Reference:    accounting.RefInvoice + inv.ID,
		ProjectName:  project.Name,
		Counterparty: project.ProjectOwnerID,
		IssuedBy:     inv.CreatedBy,
		Date:         inv.InvoiceDate,
		Period:       period(inv.DateRangeStart, inv.DateRangeEnd),
		Notes:        inv.Notes,
		Amount:       inv.Amount,
		TotalPaid:    paid,
		Remaining:    billing.Remaining(inv.Amount, paid),
		Status:       billing.DeriveStatus(inv.Amount, paid),
		Lines:        lines,
		Payments:     history,
	}
	pdfBytes, err := uc.generator.GenerateStatementPDF(ctx, st)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.ID), nil
}

// VoucherStatementPDF estado de cuenta del comprobante: líneas congeladas y pagos.
func (uc *StatementUseCase) VoucherStatementPDF(ctx context.Context, actor entity.Actor, voucherID string) ([]byte, string, error) {
	v, err := uc.repos.Vouchers.GetByID(ctx, voucherID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener comprobante: %w", err)
	}
	if v == nil {
		return nil, "", domain.ErrNotFound
	}
	project, err := uc.repos.Projects.GetByID(ctx, v.ProjectID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proyecto: %w", err)
	}
	if project == nil {
		return nil, "", domain.ErrNotFound
	}
	if !actor.IsSuperAdmin() && project.ProjectLeadID != actor.ID && v.DeveloperID != actor.ID {
		return nil, "", domain.ErrForbidden
	}

	frozen, err := uc.repos.Vouchers.Tasks(ctx, v.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: tareas del comprobante: %w", err)
	}
	lines := make([]StatementLine, 0, len(frozen))
	for _, l := range frozen {
		desc := l.TaskID
		if t, err := uc.repos.Tasks.GetByID(ctx, l.TaskID); err == nil && t != nil {
			desc = t.Title
		}
		lines = append(lines, StatementLine{
			Description: desc,
			Hours:       l.ProductivityHours,
			Rate:        l.HourlyRate,
			Amount:      l.Amount,
		})
	}

	payments, err := uc.repos.Vouchers.ListPayments(ctx, repository.VoucherFilter{VoucherID: v.ID})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: pagos del comprobante: %w", err)
	}
	paid := decimal.Zero
	history := make([]StatementPayment, 0, len(payments))
	for _, p := range payments {
		paid = paid.Add(p.Amount)
		history = append(history, StatementPayment{Date: p.PaymentDate, Amount: p.Amount, Notes: p.Notes})
	}

	st := &Statement{
		Kind:         StatementVoucher,
		Reference:    accounting.RefVoucher + v.ID,
		ProjectName:  project.Name,
		Counterparty: v.DeveloperID,
		IssuedBy:     v.CreatedBy,
		Date:         v.VoucherDate,
		Period:       period(v.DateRangeStart, v.DateRangeEnd),
		Notes:        v.Notes,
		Amount:       v.Amount,
		TotalPaid:    paid,
		Remaining:    billing.Remaining(v.Amount, paid),
		Status:       billing.DeriveStatus(v.Amount, paid),
		Lines:        lines,
		Payments:     history,
	}
	pdfBytes, err := uc.generator.GenerateStatementPDF(ctx, st)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("comprobante_%s.pdf", v.ID), nil
}

// period texto "desde - hasta" del rango cubierto; vacío si no hay fechas.
func period(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return start.Format("02/01/2006") + " - " + end.Format("02/01/2006")
	case start != nil:
		return "desde " + start.Format("02/01/2006")
	case end != nil:
		return "hasta " + end.Format("02/01/2006")
	}
	return ""
}

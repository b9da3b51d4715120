package reporting

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/application/authz"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// Dashboard resumen del diario y conteo de facturas y comprobantes por estado.
//
// Tres consultas en paralelo:
//  1. diario filtrado por alcance → Summary
//  2. facturas + pagos            → StatusCounts
//  3. comprobantes + pagos        → StatusCounts
func (uc *ReportingUseCase) Dashboard(ctx context.Context, actor entity.Actor, projectID string) (*dto.DashboardResponse, error) {
	if err := authz.RequireRole(actor, entity.RoleProjectLead); err != nil {
		return nil, err
	}
	var scope []string
	if projectID != "" {
		p, err := uc.repos.Projects.GetByID(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("get project: %w", err)
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		if err := authz.CanActOnProject(actor, p, authz.ViewsLedger); err != nil {
			return nil, err
		}
		scope = []string{projectID}
	} else if !actor.IsSuperAdmin() {
		ids, err := uc.projectScope(ctx, actor)
		if err != nil {
			return nil, err
		}
		scope = ids
	}

	type ledgerResult struct {
		summary accounting.Summary
		err     error
	}
	type countsResult struct {
		counts dto.StatusCounts
		err    error
	}

	ledgerCh := make(chan ledgerResult, 1)
	invoicesCh := make(chan countsResult, 1)
	vouchersCh := make(chan countsResult, 1)

	go func() {
		rows, err := uc.repos.Ledger.List(ctx, repository.EntryFilter{ProjectIDs: scope})
		ledgerCh <- ledgerResult{accounting.Summarize(rows), err}
	}()
	go func() {
		c, err := uc.invoiceCounts(ctx, scope)
		invoicesCh <- countsResult{c, err}
	}()
	go func() {
		c, err := uc.voucherCounts(ctx, scope)
		vouchersCh <- countsResult{c, err}
	}()

	led := <-ledgerCh
	inv := <-invoicesCh
	vch := <-vouchersCh

	if led.err != nil {
		return nil, fmt.Errorf("dashboard: diario: %w", led.err)
	}
	if inv.err != nil {
		return nil, fmt.Errorf("dashboard: facturas: %w", inv.err)
	}
	if vch.err != nil {
		return nil, fmt.Errorf("dashboard: comprobantes: %w", vch.err)
	}

	s := led.summary
	return &dto.DashboardResponse{
		Ledger: dto.AccountingSummaryResponse{
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
		},
		Invoices:    inv.counts,
		Vouchers:    vch.counts,
		GeneratedAt: uc.now(),
	}, nil
}

func (uc *ReportingUseCase) invoiceCounts(ctx context.Context, scope []string) (dto.StatusCounts, error) {
	invoices, err := uc.repos.Invoices.List(ctx, repository.InvoiceFilter{ProjectIDs: scope})
	if err != nil {
		return dto.StatusCounts{}, err
	}
	c := newCounts()
	for _, inv := range invoices {
		paid, err := uc.repos.Invoices.SumPayments(ctx, inv.ID)
		if err != nil {
			return dto.StatusCounts{}, err
		}
		c.add(inv.Amount, paid)
	}
	return c.StatusCounts, nil
}

func (uc *ReportingUseCase) voucherCounts(ctx context.Context, scope []string) (dto.StatusCounts, error) {
	vouchers, err := uc.repos.Vouchers.List(ctx, repository.VoucherFilter{ProjectIDs: scope})
	if err != nil {
		return dto.StatusCounts{}, err
	}
	c := newCounts()
	for _, v := range vouchers {
		paid, err := uc.repos.Vouchers.SumPayments(ctx, v.ID)
		if err != nil {
			return dto.StatusCounts{}, err
		}
		c.add(v.Amount, paid)
	}
	return c.StatusCounts, nil
}

type counts struct{ dto.StatusCounts }

func newCounts() *counts {
	return &counts{dto.StatusCounts{Total: decimal.Zero, Outstanding: decimal.Zero}}
}

func (c *counts) add(amount, paid decimal.Decimal) {
	switch billing.DeriveStatus(amount, paid) {
	case billing.StatusPaid:
		c.Paid++
	case billing.StatusPartial:
		c.Partial++
	default:
		c.Pending++
	}
	c.Total = c.Total.Add(amount)
	c.Outstanding = c.Outstanding.Add(billing.Remaining(amount, paid))
}

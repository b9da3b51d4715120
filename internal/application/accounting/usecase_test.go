package accounting_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/application/payable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/receivable"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	ledger "github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/infrastructure/memory"
)

var (
	lead  = entity.Actor{ID: "lead-1", Role: entity.RoleProjectLead}
	owner = entity.Actor{ID: "owner-1", Role: entity.RoleProjectOwner}
	admin = entity.Actor{ID: "root", Role: entity.RoleSuperAdmin}
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type fakeExporter struct {
	rows    int
	summary ledger.Summary
}

func (f *fakeExporter) Export(entries []entity.AccountingEntry, s ledger.Summary) ([]byte, error) {
	f.rows, f.summary = len(entries), s
	return []byte("xlsx"), nil
}

type fixture struct {
	store    *memory.Store
	uc       *accounting.AccountingUseCase
	recv     *receivable.ReceivableUseCase
	pay      *payable.PayableUseCase
	exporter *fakeExporter
}

// newFixture arma el escenario: factura 1000, pago 400, comprobante 400, pago al desarrollador 200.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.AddProject(entity.Project{ID: "p1", Name: "Portal", ProjectLeadID: lead.ID, ProjectOwnerID: owner.ID})
	store.AddProject(entity.Project{ID: "p2", Name: "Otro", ProjectLeadID: "lead-2"})
	store.AddAssignment(entity.DeveloperAssignment{ID: "a1", DeveloperID: "dev-1", ProjectID: "p1", HourlyRate: d("20")})
	store.AddTask(entity.Task{ID: "t1", ProjectID: "p1", Title: "Login", EstimationHours: d("6"), ProductivityHours: ptr("5")}, "dev-1")
	store.AddTask(entity.Task{ID: "t2", ProjectID: "p1", Title: "Pagos", EstimationHours: d("16"), ProductivityHours: ptr("15")}, "dev-1")

	tx := memory.NewTxRunner(store)
	f := &fixture{store: store, exporter: &fakeExporter{}}
	f.recv = receivable.NewReceivableUseCase(tx, store.Projects(), store.Assignments(), store.Tasks(), store.Timesheets(), store.Invoices(), receivable.Config{}, zerolog.Nop())
	f.pay = payable.NewPayableUseCase(tx, store.Projects(), store.Assignments(), store.Tasks(), store.Vouchers(), payable.Config{}, zerolog.Nop())
	f.uc = accounting.NewAccountingUseCase(tx, store.Ledger(), store.Invoices(), store.Vouchers(), store.Projects(), store.Assignments(), f.exporter, zerolog.Nop())

	inv, err := f.recv.CreateInvoice(ctx, lead, dto.CreateInvoiceRequest{ProjectID: "p1", Amount: d("1000"), InvoiceDate: "2026-01-05"})
	require.NoError(t, err)
	_, err = f.recv.RecordPayment(ctx, owner, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("400"), PaymentDate: "2026-01-20"})
	require.NoError(t, err)
	v, err := f.pay.CreateVoucher(ctx, lead, dto.CreateVoucherRequest{DeveloperID: "dev-1", ProjectID: "p1", Amount: d("400"), VoucherDate: "2026-02-01", TaskIDs: []string{"t1", "t2"}})
	require.NoError(t, err)
	_, err = f.pay.PayVoucher(ctx, lead, v.ID, dto.PayVoucherRequest{Amount: d("200"), PaymentDate: "2026-02-15"})
	require.NoError(t, err)
	return f
}

func TestSummary_Escenario(t *testing.T) {
	f := newFixture(t)

	s, err := f.uc.Summary(context.Background(), admin, dto.EntryQuery{})
	require.NoError(t, err)
	assert.Equal(t, 8, s.EntryCount)
	assert.True(t, s.TotalDebits.Equal(d("2000")))
	assert.True(t, s.TotalCredits.Equal(d("2000")))
	assert.True(t, s.Balance.IsZero())
	assert.True(t, s.AccountsReceivable.Equal(d("600")))
	assert.True(t, s.AccountsPayable.Equal(d("200")))
	assert.True(t, s.CashIn.Equal(d("400")))
	assert.True(t, s.CashOut.Equal(d("200")))
	assert.True(t, s.TotalRevenue.Equal(d("1000")))
	assert.True(t, s.TotalExpenses.Equal(d("400")))
	assert.True(t, s.ProfitLoss.Equal(d("600")))
}

func TestEntries_FiltrosYOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.uc.Entries(ctx, lead, dto.EntryQuery{})
	require.NoError(t, err)
	require.Len(t, all, 8)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].TransactionDate.After(all[i-1].TransactionDate), "más recientes primero")
	}

	cash, err := f.uc.Entries(ctx, lead, dto.EntryQuery{AccountType: "cash"})
	require.NoError(t, err)
	assert.Len(t, cash, 2)

	jan, err := f.uc.Entries(ctx, lead, dto.EntryQuery{StartDate: "2026-01-01", EndDate: "2026-01-20"})
	require.NoError(t, err)
	assert.Len(t, jan, 4, "fechas inclusivas")

	pays, err := f.uc.Entries(ctx, lead, dto.EntryQuery{TransactionType: "voucher_payment", AccountType: "accounts_payable"})
	require.NoError(t, err)
	require.Len(t, pays, 1)
	assert.Equal(t, "debit", pays[0].EntryType)

	_, err = f.uc.Entries(ctx, lead, dto.EntryQuery{AccountType: "inventory"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.uc.Entries(ctx, lead, dto.EntryQuery{StartDate: "2026-02-01", EndDate: "2026-01-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEntries_Visibilidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := entity.Actor{ID: "lead-2", Role: entity.RoleProjectLead}
	rows, err := f.uc.Entries(ctx, other, dto.EntryQuery{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = f.uc.Entries(ctx, other, dto.EntryQuery{ProjectID: "p1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Entries(ctx, owner, dto.EntryQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestVerifyYBackfill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.uc.Verify(ctx, admin)
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.Empty(t, report.MissingPostings)

	// factura cargada sin asiento (datos previos al diario)
	require.NoError(t, f.store.Invoices().Create(ctx, &entity.Invoice{
		ID: "legacy", ProjectID: "p1", Amount: d("250"), InvoiceDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), CreatedBy: lead.ID,
	}))
	report, err = f.uc.Verify(ctx, admin)
	require.NoError(t, err)
	assert.False(t, report.OK)
	assert.Equal(t, []string{"INV-legacy"}, report.MissingPostings)

	_, err = f.uc.Backfill(ctx, lead)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	res, err := f.uc.Backfill(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, []string{"INV-legacy"}, res.Posted)

	res, err = f.uc.Backfill(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, res.Count, "idempotente")

	report, err = f.uc.Verify(ctx, admin)
	require.NoError(t, err)
	assert.True(t, report.OK)
	rows, err := f.store.Ledger().ByReference(ctx, "INV-legacy")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Factura #legacy - Portal", rows[0].Description)
}

func TestReverse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.uc.Entries(ctx, admin, dto.EntryQuery{TransactionType: "invoice_created"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	ref := all[0].ReferenceNumber

	_, err = f.uc.Reverse(ctx, lead, dto.ReverseEntryRequest{ReferenceNumber: ref})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	rows, err := f.uc.Reverse(ctx, admin, dto.ReverseEntryRequest{ReferenceNumber: ref, Date: "2026-03-01"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "REV-"+ref, r.ReferenceNumber)
		assert.Equal(t, "invoice_created", r.TransactionType)
		assert.Contains(t, r.Description, "Reverso de ")
		if r.EntryType == "debit" {
			assert.Equal(t, "revenue", r.AccountType)
		} else {
			assert.Equal(t, "accounts_receivable", r.AccountType)
		}
	}

	_, err = f.uc.Reverse(ctx, admin, dto.ReverseEntryRequest{ReferenceNumber: ref})
	assert.ErrorIs(t, err, domain.ErrValidation, "solo un reverso por asiento")
	_, err = f.uc.Reverse(ctx, admin, dto.ReverseEntryRequest{ReferenceNumber: "REV-" + ref})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.uc.Reverse(ctx, admin, dto.ReverseEntryRequest{ReferenceNumber: "INV-nada"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s, err := f.uc.Summary(ctx, admin, dto.EntryQuery{})
	require.NoError(t, err)
	assert.True(t, s.Balance.IsZero())
	assert.True(t, s.TotalRevenue.Equal(d("1000")), "ingresos suma solo créditos")
	assert.True(t, s.AccountsReceivable.Equal(d("-400")))

	report, err := f.uc.Verify(ctx, admin)
	require.NoError(t, err)
	assert.True(t, report.OK)
}

func TestExportXLSX(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data, err := f.uc.ExportXLSX(ctx, lead, dto.EntryQuery{ProjectID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Equal(t, 8, f.exporter.rows)
	assert.True(t, f.exporter.summary.Balanced())

	_, err = f.uc.ExportXLSX(ctx, lead, dto.EntryQuery{StartDate: "2030-01-01"})
	assert.ErrorIs(t, err, accounting.ErrNothingToExport)
}

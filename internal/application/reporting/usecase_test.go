package reporting_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/application/payable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/receivable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/infrastructure/memory"
)

var (
	lead  = entity.Actor{ID: "lead-1", Role: entity.RoleProjectLead}
	owner = entity.Actor{ID: "owner-1", Role: entity.RoleProjectOwner}
	dev   = entity.Actor{ID: "dev-1", Role: entity.RoleDeveloper}
	admin = entity.Actor{ID: "root", Role: entity.RoleSuperAdmin}
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type fakeGenerator struct{ last *reporting.Statement }

func (g *fakeGenerator) GenerateStatementPDF(_ context.Context, st *reporting.Statement) ([]byte, error) {
	g.last = st
	return []byte("%PDF"), nil
}

type fixture struct {
	uc        *reporting.ReportingUseCase
	statement *reporting.StatementUseCase
	generator *fakeGenerator
	invoiceID string
	voucherID string
}

// newFixture: t1 (5h) pagada completa, t2 (15h) parcialmente, t3 sin comprobante; factura de t1 con abono.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.AddProject(entity.Project{ID: "p1", Name: "Portal", ProjectLeadID: lead.ID, ProjectOwnerID: owner.ID, RatePerHour: ptr("50")})
	store.AddProject(entity.Project{ID: "p2", Name: "Otro", ProjectLeadID: "lead-2"})
	store.AddAssignment(entity.DeveloperAssignment{ID: "a1", DeveloperID: dev.ID, ProjectID: "p1", HourlyRate: d("20")})
	store.AddTask(entity.Task{ID: "t1", ProjectID: "p1", Title: "Login", Status: entity.TaskStatusCompleted, EstimationHours: d("6"), BillableHours: ptr("4"), ProductivityHours: ptr("5")}, dev.ID)
	store.AddTask(entity.Task{ID: "t2", ProjectID: "p1", Title: "Pagos", Status: entity.TaskStatusInProgress, EstimationHours: d("16"), ProductivityHours: ptr("15")}, dev.ID)
	store.AddTask(entity.Task{ID: "t3", ProjectID: "p1", Title: "Reportes", Status: entity.TaskStatusTodo, EstimationHours: d("4"), ProductivityHours: ptr("2")}, dev.ID)
	store.AddTask(entity.Task{ID: "t9", ProjectID: "p2", Title: "Ajena", EstimationHours: d("1")})
	store.AddTimesheet(entity.Timesheet{ID: "ts1", TaskID: "t1", Hours: d("4.5"), Status: entity.TimesheetApproved})

	tx := memory.NewTxRunner(store)
	recv := receivable.NewReceivableUseCase(tx, store.Projects(), store.Assignments(), store.Tasks(), store.Timesheets(), store.Invoices(), receivable.Config{}, zerolog.Nop())
	pay := payable.NewPayableUseCase(tx, store.Projects(), store.Assignments(), store.Tasks(), store.Vouchers(), payable.Config{}, zerolog.Nop())

	inv, err := recv.CreateInvoice(ctx, lead, dto.CreateInvoiceRequest{ProjectID: "p1", Amount: d("200"), InvoiceDate: "2026-05-01", TaskIDs: []string{"t1"}})
	require.NoError(t, err)
	_, err = recv.RecordPayment(ctx, owner, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("50"), PaymentDate: "2026-05-02"})
	require.NoError(t, err)

	v, err := pay.CreateVoucher(ctx, lead, dto.CreateVoucherRequest{DeveloperID: dev.ID, ProjectID: "p1", Amount: d("400"), VoucherDate: "2026-05-03", TaskIDs: []string{"t1", "t2"}})
	require.NoError(t, err)
	_, err = pay.PayVoucher(ctx, lead, v.ID, dto.PayVoucherRequest{Amount: d("200"), PaymentDate: "2026-05-04"})
	require.NoError(t, err)
	_, err = pay.PayVoucher(ctx, lead, v.ID, dto.PayVoucherRequest{Amount: d("50"), PaymentDate: "2026-05-05"})
	require.NoError(t, err)

	repos := reporting.Repos{
		Projects:    store.Projects(),
		Assignments: store.Assignments(),
		Tasks:       store.Tasks(),
		Timesheets:  store.Timesheets(),
		Invoices:    store.Invoices(),
		Vouchers:    store.Vouchers(),
		Ledger:      store.Ledger(),
	}
	gen := &fakeGenerator{}
	return &fixture{
		uc:        reporting.NewReportingUseCase(repos, decimal.Zero, zerolog.Nop()),
		statement: reporting.NewStatementUseCase(repos, gen),
		generator: gen,
		invoiceID: inv.ID,
		voucherID: v.ID,
	}
}

func TestDeveloperWorkSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.uc.DeveloperWorkSummary(ctx, dev, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	s := list[0]
	assert.Equal(t, "Portal", s.ProjectName)
	assert.True(t, s.TotalProductivityHours.Equal(d("22")))
	assert.True(t, s.TotalEarnings.Equal(d("440")))
	assert.True(t, s.TotalPaid.Equal(d("250")))
	assert.True(t, s.Pending.Equal(d("190")))

	paid := map[string]bool{}
	for _, task := range s.Tasks {
		paid[task.TaskID] = task.IsPaid
	}
	// 250 repartidos 1:3 entre t1 (100) y t2 (300): t1 recibe 62.50
	assert.Equal(t, map[string]bool{"t1": false, "t2": false, "t3": false}, paid)

	leadView, err := f.uc.DeveloperWorkSummary(ctx, lead, "p1")
	require.NoError(t, err)
	assert.Len(t, leadView, 1)

	_, err = f.uc.DeveloperWorkSummary(ctx, entity.Actor{ID: "lead-2", Role: entity.RoleProjectLead}, "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.DeveloperWorkSummary(ctx, owner, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeveloperEarnings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.uc.DeveloperEarnings(ctx, dev, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	e := list[0]
	assert.Equal(t, string(billing.StatusPartial), e.Status)
	assert.True(t, e.TotalPaid.Equal(d("250")))
	assert.True(t, e.Remaining.Equal(d("150")))
	require.Len(t, e.Payments, 2)
	assert.Equal(t, "2026-05-05", e.Payments[0].PaymentDate, "más reciente primero")

	_, err = f.uc.DeveloperEarnings(ctx, lead, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLeadTaskBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	board, err := f.uc.LeadTaskBoard(ctx, lead)
	require.NoError(t, err)
	require.Len(t, board, 3)
	billed := map[string]bool{}
	for _, item := range board {
		billed[item.TaskID] = item.IsBilled
		if item.TaskID == "t1" {
			assert.True(t, item.CumulativeApprovedHours.Equal(d("4.5")))
		}
	}
	assert.Equal(t, map[string]bool{"t1": true, "t2": false, "t3": false}, billed)

	board, err = f.uc.LeadTaskBoard(ctx, entity.Actor{ID: "lead-2", Role: entity.RoleProjectLead})
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "t9", board[0].TaskID)

	_, err = f.uc.LeadTaskBoard(ctx, dev)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Dashboard(ctx, lead, "")
	require.NoError(t, err)
	assert.True(t, resp.Ledger.TotalDebits.Equal(resp.Ledger.TotalCredits))
	assert.Equal(t, 10, resp.Ledger.EntryCount)
	assert.Equal(t, 1, resp.Invoices.Partial)
	assert.True(t, resp.Invoices.Outstanding.Equal(d("150")))
	assert.Equal(t, 1, resp.Vouchers.Partial)
	assert.True(t, resp.Vouchers.Outstanding.Equal(d("150")))

	other, err := f.uc.Dashboard(ctx, entity.Actor{ID: "lead-2", Role: entity.RoleProjectLead}, "")
	require.NoError(t, err)
	assert.Zero(t, other.Ledger.EntryCount)
	assert.Zero(t, other.Invoices.Pending+other.Invoices.Partial+other.Invoices.Paid)

	_, err = f.uc.Dashboard(ctx, entity.Actor{ID: "lead-2", Role: entity.RoleProjectLead}, "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := f.uc.Dashboard(ctx, admin, "")
	require.NoError(t, err)
	assert.Equal(t, 10, all.Ledger.EntryCount)
}

func TestStatements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data, name, err := f.statement.InvoiceStatementPDF(ctx, owner, f.invoiceID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Contains(t, name, f.invoiceID)
	st := f.generator.last
	assert.Equal(t, reporting.StatementInvoice, st.Kind)
	assert.Equal(t, "INV-"+f.invoiceID, st.Reference)
	require.Len(t, st.Lines, 1)
	assert.True(t, st.Lines[0].Amount.Equal(d("200")))
	assert.Equal(t, billing.StatusPartial, st.Status)

	_, _, err = f.statement.VoucherStatementPDF(ctx, dev, f.voucherID)
	require.NoError(t, err)
	st = f.generator.last
	assert.Equal(t, reporting.StatementVoucher, st.Kind)
	require.Len(t, st.Lines, 2)
	assert.Equal(t, "Login", st.Lines[0].Description)
	assert.Len(t, st.Payments, 2)

	_, _, err = f.statement.VoucherStatementPDF(ctx, owner, f.voucherID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, _, err = f.statement.InvoiceStatementPDF(ctx, dev, f.invoiceID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, _, err = f.statement.InvoiceStatementPDF(ctx, owner, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

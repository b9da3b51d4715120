package accounting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewPosting_Validaciones(t *testing.T) {
	meta := accounting.Meta{ReferenceNumber: "INV-1", TransactionType: entity.TxInvoiceCreated}

	_, err := accounting.NewPosting(entity.AccountCash, entity.AccountCash, d("10"), meta)
	assert.ErrorIs(t, err, accounting.ErrSameAccount)

	_, err = accounting.NewPosting(entity.AccountCash, entity.AccountRevenue, d("0"), meta)
	assert.ErrorIs(t, err, accounting.ErrNonPositiveAmount)

	_, err = accounting.NewPosting(entity.AccountCash, entity.AccountRevenue, d("-5"), meta)
	assert.ErrorIs(t, err, accounting.ErrNonPositiveAmount)

	_, err = accounting.NewPosting("equity", entity.AccountRevenue, d("5"), meta)
	assert.ErrorIs(t, err, accounting.ErrUnknownAccount)

	_, err = accounting.NewPosting(entity.AccountCash, entity.AccountRevenue, d("5"), accounting.Meta{})
	assert.ErrorIs(t, err, accounting.ErrMissingReference)
}

func TestPosting_EntriesBalanceadas(t *testing.T) {
	inv := entity.Invoice{ID: "i1", ProjectID: "p1", Amount: d("1000.00"), InvoiceDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), CreatedBy: "lead"}
	p, err := accounting.InvoiceCreated(inv, "Portal")
	require.NoError(t, err)

	rows := p.Entries(time.Now())
	assert.Equal(t, entity.AccountReceivable, rows[0].AccountType)
	assert.Equal(t, entity.Debit, rows[0].EntryType)
	assert.Equal(t, entity.AccountRevenue, rows[1].AccountType)
	assert.Equal(t, entity.Credit, rows[1].EntryType)
	assert.True(t, rows[0].Amount.Equal(rows[1].Amount))
	assert.Equal(t, "INV-i1", rows[0].ReferenceNumber)
	assert.Equal(t, "Factura #i1 - Portal", rows[0].Description)
	assert.NotEqual(t, rows[0].ID, rows[1].ID)
	assert.Equal(t, "p1", rows[1].ProjectID)
}

func TestBuilders_CuentasPorEvento(t *testing.T) {
	now := time.Now()
	inv := entity.Invoice{ID: "i1", ProjectID: "p1", Amount: d("1000.00"), InvoiceDate: now}
	pay := entity.Payment{ID: "pay1", InvoiceID: "i1", Amount: d("400.00"), PaymentDate: now}
	v := entity.PaymentVoucher{ID: "v1", ProjectID: "p1", Amount: d("400.00"), VoucherDate: now}
	dp := entity.DeveloperPayment{ID: "dp1", VoucherID: "v1", ProjectID: "p1", Amount: d("200.00"), PaymentDate: now}

	cases := []struct {
		name          string
		build         func() (accounting.Posting, error)
		debit, credit entity.AccountType
		tx            entity.TransactionType
		ref           string
	}{
		{"factura", func() (accounting.Posting, error) { return accounting.InvoiceCreated(inv, "P") },
			entity.AccountReceivable, entity.AccountRevenue, entity.TxInvoiceCreated, "INV-i1"},
		{"pago factura", func() (accounting.Posting, error) { return accounting.InvoicePayment(pay, inv, "P") },
			entity.AccountCash, entity.AccountReceivable, entity.TxInvoicePayment, "PAY-pay1"},
		{"comprobante", func() (accounting.Posting, error) { return accounting.VoucherCreated(v, "P") },
			entity.AccountExpense, entity.AccountPayable, entity.TxVoucherCreated, "VCH-v1"},
		{"pago comprobante", func() (accounting.Posting, error) { return accounting.VoucherPayment(dp, "P") },
			entity.AccountPayable, entity.AccountCash, entity.TxVoucherPayment, "DPAY-dp1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.build()
			require.NoError(t, err)
			assert.Equal(t, tc.debit, p.DebitAccount())
			assert.Equal(t, tc.credit, p.CreditAccount())
			assert.Equal(t, tc.tx, p.Meta().TransactionType)
			assert.Equal(t, tc.ref, p.Meta().ReferenceNumber)
		})
	}
}

func TestPosting_ReverseYFromEntries(t *testing.T) {
	v := entity.PaymentVoucher{ID: "v1", ProjectID: "p1", Amount: d("400.00"), VoucherDate: time.Now()}
	p, err := accounting.VoucherCreated(v, "P")
	require.NoError(t, err)

	rows := p.Entries(time.Now())
	back, err := accounting.FromEntries(rows[:])
	require.NoError(t, err)
	assert.Equal(t, p.DebitAccount(), back.DebitAccount())
	assert.True(t, p.Amount().Equal(back.Amount()))

	rev := back.Reverse("admin", time.Now())
	assert.Equal(t, entity.AccountPayable, rev.DebitAccount())
	assert.Equal(t, entity.AccountExpense, rev.CreditAccount())
	assert.Equal(t, entity.TxVoucherCreated, rev.Meta().TransactionType)
	assert.Equal(t, "REV-VCH-v1", rev.Meta().ReferenceNumber)
	assert.True(t, accounting.IsReversal(rev.Meta().ReferenceNumber))
	assert.Equal(t, "v1", rev.Meta().VoucherID)

	revRows := rev.Entries(time.Now())
	both := append(rows[:], revRows[:]...)
	s := accounting.Summarize(both)
	assert.True(t, s.Expenses.Equal(d("400.00")), "los gastos no se netean por el reverso (solo débitos)")
	assert.True(t, s.AccountsPayable.IsZero())
	assert.True(t, s.Balanced())
}

func TestFromEntries_Desbalanceado(t *testing.T) {
	rows := []entity.AccountingEntry{
		{ReferenceNumber: "X", EntryType: entity.Debit, AccountType: entity.AccountCash, Amount: d("1")},
		{ReferenceNumber: "X", EntryType: entity.Credit, AccountType: entity.AccountRevenue, Amount: d("2")},
	}
	_, err := accounting.FromEntries(rows)
	assert.Error(t, err)

	_, err = accounting.FromEntries(rows[:1])
	assert.Error(t, err)
}

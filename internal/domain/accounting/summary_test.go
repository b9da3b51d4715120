package accounting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// ledgerOf arma el diario del escenario completo: factura 1000 con abono 400,
// comprobante 400 con abono 200.
func ledgerOf(t *testing.T) []entity.AccountingEntry {
	t.Helper()
	now := time.Now()
	inv := entity.Invoice{ID: "i1", ProjectID: "p1", Amount: d("1000.00"), InvoiceDate: now}
	pay := entity.Payment{ID: "pay1", InvoiceID: "i1", Amount: d("400.00"), PaymentDate: now}
	v := entity.PaymentVoucher{ID: "v1", ProjectID: "p1", Amount: d("400.00"), VoucherDate: now}
	dp := entity.DeveloperPayment{ID: "dp1", VoucherID: "v1", ProjectID: "p1", Amount: d("200.00"), PaymentDate: now}

	var out []entity.AccountingEntry
	for _, build := range []func() (accounting.Posting, error){
		func() (accounting.Posting, error) { return accounting.InvoiceCreated(inv, "P") },
		func() (accounting.Posting, error) { return accounting.InvoicePayment(pay, inv, "P") },
		func() (accounting.Posting, error) { return accounting.VoucherCreated(v, "P") },
		func() (accounting.Posting, error) { return accounting.VoucherPayment(dp, "P") },
	} {
		p, err := build()
		require.NoError(t, err)
		rows := p.Entries(now)
		out = append(out, rows[:]...)
	}
	return out
}

func TestSummarize_Formulas(t *testing.T) {
	s := accounting.Summarize(ledgerOf(t))

	assert.Equal(t, 8, s.EntryCount)
	assert.True(t, s.TotalDebits.Equal(d("2000.00")))
	assert.True(t, s.TotalCredits.Equal(d("2000.00")))
	assert.True(t, s.Balanced())
	assert.True(t, s.Balance.IsZero())
	assert.True(t, s.AccountsReceivable.Equal(d("600.00")))
	assert.True(t, s.AccountsPayable.Equal(d("200.00")))
	assert.True(t, s.CashIn.Equal(d("400.00")))
	assert.True(t, s.CashOut.Equal(d("200.00")))
	assert.True(t, s.Revenue.Equal(d("1000.00")))
	assert.True(t, s.Expenses.Equal(d("400.00")))
	assert.True(t, s.ProfitLoss.Equal(d("600.00")))
}

func TestSummarize_Vacio(t *testing.T) {
	s := accounting.Summarize(nil)
	assert.Zero(t, s.EntryCount)
	assert.True(t, s.Balanced())
	assert.True(t, s.ProfitLoss.IsZero())
}

func TestUnbalancedReferences(t *testing.T) {
	rows := ledgerOf(t)
	assert.Empty(t, accounting.UnbalancedReferences(rows))

	// Fila suelta: el grupo DPAY-dp1 queda con dos créditos.
	extra := rows[7]
	extra.ID = "extra"
	rows = append(rows, extra)
	assert.Equal(t, []string{"DPAY-dp1"}, accounting.UnbalancedReferences(rows))
}

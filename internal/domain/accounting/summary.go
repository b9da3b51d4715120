package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// Summary totales del diario para un filtro dado.
type Summary struct {
	TotalDebits        decimal.Decimal
	TotalCredits       decimal.Decimal
	Balance            decimal.Decimal // créditos - débitos
	AccountsReceivable decimal.Decimal // débitos CxC - créditos CxC
	AccountsPayable    decimal.Decimal // créditos CxP - débitos CxP
	CashIn             decimal.Decimal
	CashOut            decimal.Decimal
	Revenue            decimal.Decimal
	Expenses           decimal.Decimal
	ProfitLoss         decimal.Decimal // ingresos - gastos
	EntryCount         int
}

// Summarize pliega las filas en una sola pasada.
func Summarize(entries []entity.AccountingEntry) Summary {
	var (
		s                 Summary
		arDebit, arCredit decimal.Decimal
		apDebit, apCredit decimal.Decimal
	)
	for _, e := range entries {
		s.EntryCount++
		debit := e.EntryType == entity.Debit
		if debit {
			s.TotalDebits = s.TotalDebits.Add(e.Amount)
		} else {
			s.TotalCredits = s.TotalCredits.Add(e.Amount)
		}
		switch e.AccountType {
		case entity.AccountReceivable:
			if debit {
				arDebit = arDebit.Add(e.Amount)
			} else {
				arCredit = arCredit.Add(e.Amount)
			}
		case entity.AccountPayable:
			if debit {
				apDebit = apDebit.Add(e.Amount)
			} else {
				apCredit = apCredit.Add(e.Amount)
			}
		case entity.AccountCash:
			if debit {
				s.CashIn = s.CashIn.Add(e.Amount)
			} else {
				s.CashOut = s.CashOut.Add(e.Amount)
			}
		case entity.AccountRevenue:
			if !debit {
				s.Revenue = s.Revenue.Add(e.Amount)
			}
		case entity.AccountExpense:
			if debit {
				s.Expenses = s.Expenses.Add(e.Amount)
			}
		}
	}
	s.Balance = s.TotalCredits.Sub(s.TotalDebits)
	s.AccountsReceivable = arDebit.Sub(arCredit)
	s.AccountsPayable = apCredit.Sub(apDebit)
	s.ProfitLoss = s.Revenue.Sub(s.Expenses)
	return s
}

// Balanced indica si débitos y créditos totales coinciden.
func (s Summary) Balanced() bool { return s.TotalDebits.Equal(s.TotalCredits) }

// UnbalancedReferences agrupa por número de referencia y devuelve las referencias
// cuyo grupo no es exactamente un débito y un crédito del mismo monto.
func UnbalancedReferences(entries []entity.AccountingEntry) []string {
	type pair struct {
		debits, credits int
		debit, credit   decimal.Decimal
	}
	groups := make(map[string]*pair)
	var order []string
	for _, e := range entries {
		g, ok := groups[e.ReferenceNumber]
		if !ok {
			g = &pair{}
			groups[e.ReferenceNumber] = g
			order = append(order, e.ReferenceNumber)
		}
		if e.EntryType == entity.Debit {
			g.debits++
			g.debit = g.debit.Add(e.Amount)
		} else {
			g.credits++
			g.credit = g.credit.Add(e.Amount)
		}
	}
	var bad []string
	for _, ref := range order {
		g := groups[ref]
		if g.debits != 1 || g.credits != 1 || !g.debit.Equal(g.credit) {
			bad = append(bad, ref)
		}
	}
	return bad
}

package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		paid   string
		want   billing.Status
	}{
		{"sin pagos", "1000.00", "0", billing.StatusPending},
		{"abono parcial", "1000.00", "400.00", billing.StatusPartial},
		{"un centavo pendiente", "1000.00", "999.99", billing.StatusPartial},
		{"pagado exacto", "1000.00", "1000.00", billing.StatusPaid},
		{"sobrepagado (datos heredados)", "1000.00", "1000.50", billing.StatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, billing.DeriveStatus(d(tc.amount), d(tc.paid)))
		})
	}
}

func TestRemaining_NoNegativo(t *testing.T) {
	assert.True(t, d("600.00").Equal(billing.Remaining(d("1000.00"), d("400.00"))))
	assert.True(t, billing.Remaining(d("10"), d("11")).IsZero())
}

func TestLineAmountYTolerancia(t *testing.T) {
	assert.True(t, d("26.67").Equal(billing.LineAmount(d("1.3333"), d("20.00"))))
	assert.True(t, billing.WithinTolerance(d("400.00"), d("400.01"), billing.DefaultTolerance))
	assert.False(t, billing.WithinTolerance(d("400.00"), d("390.00"), billing.DefaultTolerance))
	assert.False(t, billing.IsMoney(d("1.005")))
}

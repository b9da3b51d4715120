package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sum(values []decimal.Decimal) decimal.Decimal {
	return billing.Sum(values...)
}

func TestAllocate_MitadDelComprobante(t *testing.T) {
	shares := []billing.Share{
		{Key: "T1", Weight: d("100.00")},
		{Key: "T2", Weight: d("300.00")},
	}
	out, err := billing.Allocate(d("200.00"), shares)
	require.NoError(t, err)
	assert.True(t, d("50.00").Equal(out[0]), "T1 recibe 50.00, obtuvo %s", out[0])
	assert.True(t, d("150.00").Equal(out[1]), "T2 recibe 150.00, obtuvo %s", out[1])
}

func TestAllocate_TercerosSumaExacta(t *testing.T) {
	shares := []billing.Share{
		{Key: "A", Weight: d("100.00")},
		{Key: "B", Weight: d("100.00")},
		{Key: "C", Weight: d("100.00")},
	}
	out, err := billing.Allocate(d("100.00"), shares)
	require.NoError(t, err)
	assert.True(t, d("100.00").Equal(sum(out)), "la suma debe ser exacta: %s", sum(out))
	// El centavo sobrante va a la primera línea (empate de restos).
	assert.True(t, d("33.34").Equal(out[0]))
	assert.True(t, d("33.33").Equal(out[1]))
	assert.True(t, d("33.33").Equal(out[2]))
}

func TestAllocate_RestoMayorRecibeElCentavo(t *testing.T) {
	shares := []billing.Share{
		{Key: "A", Weight: d("10.00")},
		{Key: "B", Weight: d("20.00")},
		{Key: "C", Weight: d("70.00")},
	}
	// raw: 0.01, 0.02, 0.07 de 0.10 → exacto, sin sobrante
	out, err := billing.Allocate(d("0.10"), shares)
	require.NoError(t, err)
	assert.True(t, d("0.10").Equal(sum(out)))

	// raw: 3.333.., 6.666.., 23.333.. de 33.33 → floors 3.33, 6.66, 23.33 = 33.32; sobra 0.01 → B (resto .0066)
	out, err = billing.Allocate(d("33.33"), shares)
	require.NoError(t, err)
	assert.True(t, d("33.33").Equal(sum(out)))
	assert.True(t, d("6.67").Equal(out[1]), "B tiene el mayor resto, obtuvo %s", out[1])
}

func TestAllocate_NuncaSuperaElPeso(t *testing.T) {
	shares := []billing.Share{
		{Key: "A", Weight: d("0.01")},
		{Key: "B", Weight: d("0.01")},
		{Key: "C", Weight: d("9.98")},
	}
	out, err := billing.Allocate(d("10.00"), shares)
	require.NoError(t, err)
	for i, s := range shares {
		assert.True(t, out[i].Equal(s.Weight), "pago total: cada línea recibe su peso exacto")
	}
}

func TestAllocate_ManyLinesSumIsExact(t *testing.T) {
	shares := make([]billing.Share, 0, 7)
	for _, w := range []string{"13.37", "0.99", "250.00", "7.77", "41.10", "3.03", "88.88"} {
		shares = append(shares, billing.Share{Weight: d(w)})
	}
	for _, amount := range []string{"0.01", "1.00", "17.29", "100.00", "333.33", "405.14"} {
		out, err := billing.Allocate(d(amount), shares)
		require.NoError(t, err)
		assert.True(t, d(amount).Equal(sum(out)), "monto %s repartido como %s", amount, sum(out))
		for i := range out {
			assert.False(t, out[i].IsNegative())
			assert.True(t, out[i].LessThanOrEqual(shares[i].Weight))
		}
	}
}

func TestAllocate_Errores(t *testing.T) {
	_, err := billing.Allocate(d("10.00"), nil)
	assert.ErrorIs(t, err, billing.ErrZeroBase)

	_, err = billing.Allocate(d("0"), []billing.Share{{Weight: d("1")}})
	assert.ErrorIs(t, err, billing.ErrZeroBase)

	_, err = billing.Allocate(d("5.00"), []billing.Share{{Weight: d("4.99")}})
	assert.ErrorIs(t, err, billing.ErrAllocationExceedsBase)
}

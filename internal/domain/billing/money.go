package billing

import "github.com/shopspring/decimal"

// MoneyPlaces decimales de la unidad monetaria mínima (centavos).
const MoneyPlaces = 2

var cent = decimal.New(1, -MoneyPlaces)

// DefaultTolerance tolerancia por defecto al comparar montos calculados a partir de horas × tarifa.
var DefaultTolerance = decimal.New(1, -MoneyPlaces)

// RoundMoney redondea a centavos (half-up, simétrico).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// IsMoney indica si d no tiene más decimales que la unidad mínima.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(RoundMoney(d))
}

// LineAmount monto de una línea horas × tarifa, redondeado a centavos.
func LineAmount(hours, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(hours.Mul(rate))
}

// WithinTolerance |a-b| <= tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// Sum suma una lista de montos.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// FullyPaid indica si lo asignado cubre lo esperado dentro de la tolerancia. Esperado cero nunca está pagado.
func FullyPaid(allocated, expected, tol decimal.Decimal) bool {
	return expected.IsPositive() && WithinTolerance(allocated, expected, tol)
}

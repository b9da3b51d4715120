package billing

import "github.com/shopspring/decimal"

// Status estado derivado de un documento con pagos parciales (factura o comprobante).
type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// DeriveStatus calcula el estado a partir del total del documento y la suma de sus pagos.
// Es una función pura: el estado nunca se persiste.
func DeriveStatus(amount, paid decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(amount):
		return StatusPaid
	case paid.GreaterThan(decimal.Zero):
		return StatusPartial
	default:
		return StatusPending
	}
}

// Remaining saldo pendiente; nunca negativo.
func Remaining(amount, paid decimal.Decimal) decimal.Decimal {
	r := amount.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// ValidStatus indica si s es uno de los tres estados.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusPartial, StatusPaid:
		return true
	}
	return false
}

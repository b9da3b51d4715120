package billing

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrZeroBase la base de reparto suma cero (documento sin saldo o sin líneas).
var ErrZeroBase = errors.New("billing: base de reparto en cero")

// ErrAllocationExceedsBase el monto a repartir supera la base.
var ErrAllocationExceedsBase = errors.New("billing: monto a repartir supera la base")

// rawPrecision decimales intermedios antes de redondear a centavos.
const rawPrecision = 12

// Share peso de una línea dentro del reparto (normalmente el saldo pendiente de la tarea).
type Share struct {
	Key    string
	Weight decimal.Decimal
}

// Allocate reparte amount entre shares de forma proporcional a su peso, exacto al centavo.
//
// Método de restos mayores (Hamilton):
//  1. raw_i = peso_i × amount / Σpesos
//  2. cada línea recibe floor(raw_i) a centavos
//  3. los centavos sobrantes se asignan por resto descendente (empates: orden original)
//
// Ninguna línea recibe más que su peso. La suma del resultado es exactamente amount.
func Allocate(amount decimal.Decimal, shares []Share) ([]decimal.Decimal, error) {
	if !amount.IsPositive() || !IsMoney(amount) {
		return nil, ErrZeroBase
	}
	base := decimal.Zero
	for _, s := range shares {
		if s.Weight.IsNegative() {
			return nil, ErrZeroBase
		}
		base = base.Add(s.Weight)
	}
	if !base.IsPositive() {
		return nil, ErrZeroBase
	}
	if amount.GreaterThan(base) {
		return nil, ErrAllocationExceedsBase
	}

	out := make([]decimal.Decimal, len(shares))
	rems := make([]decimal.Decimal, len(shares))
	assigned := decimal.Zero
	for i, s := range shares {
		raw := s.Weight.Mul(amount).DivRound(base, rawPrecision)
		floor := raw.Truncate(MoneyPlaces)
		out[i] = floor
		rems[i] = raw.Sub(floor)
		assigned = assigned.Add(floor)
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]].GreaterThan(rems[order[b]])
	})

	leftover := amount.Sub(assigned)
	for leftover.IsPositive() {
		progressed := false
		for _, i := range order {
			if !leftover.IsPositive() {
				break
			}
			if out[i].Add(cent).GreaterThan(shares[i].Weight) {
				continue
			}
			out[i] = out[i].Add(cent)
			leftover = leftover.Sub(cent)
			progressed = true
		}
		if !progressed {
			break
		}
	}

	// Corrección final sobre la última línea con peso (solo por precisión intermedia).
	if !leftover.IsZero() {
		for i := len(out) - 1; i >= 0; i-- {
			if shares[i].Weight.IsPositive() {
				out[i] = out[i].Add(leftover)
				break
			}
		}
	}
	return out, nil
}

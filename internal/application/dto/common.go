package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/ProjectLedger-api/internal/domain"
)

// DateLayout formato de fechas en requests y responses (día calendario).
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DateRange rango opcional de fechas que cubre un documento.
type DateRange struct {
	Start string `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ParseDate interpreta s con DateLayout (UTC). Vacío devuelve (zero, false, nil).
func ParseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// FormatDate formatea t con DateLayout.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatDatePtr igual que FormatDate para fechas opcionales.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// NewDateRange construye el rango de respuesta; nil si ambas fechas faltan.
func NewDateRange(start, end *time.Time) *DateRange {
	if start == nil && end == nil {
		return nil
	}
	return &DateRange{Start: FormatDatePtr(start), End: FormatDatePtr(end)}
}

// Bounds interpreta el rango (r puede ser nil). Fechas inválidas o invertidas
// devuelven un domain.ValidationError.
func (r *DateRange) Bounds() (start, end *time.Time, err error) {
	if r == nil {
		return nil, nil, nil
	}
	if t, ok, err := ParseDate(r.Start); err != nil {
		return nil, nil, domain.NewValidationError("date_range.start", "fecha inválida")
	} else if ok {
		start = &t
	}
	if t, ok, err := ParseDate(r.End); err != nil {
		return nil, nil, domain.NewValidationError("date_range.end", "fecha inválida")
	} else if ok {
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, domain.NewValidationError("date_range", "la fecha final es anterior a la inicial")
	}
	return start, end, nil
}

package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrValidation               = errors.New("entrada inválida")
	ErrInvalidAmount            = errors.New("el monto debe ser mayor que cero")
	ErrAmountMismatch           = errors.New("el monto no coincide con el total calculado")
	ErrOverpayment              = errors.New("el pago excede el saldo pendiente")
	ErrMissingProductivityHours = errors.New("la tarea no tiene horas de productividad")
	ErrNotAssigned              = errors.New("el desarrollador no está asignado")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
)

// ValidationError describe el campo rechazado. Unwrap devuelve ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AmountMismatchError monto recibido vs. monto calculado a partir de las tareas.
type AmountMismatchError struct {
	Given      decimal.Decimal
	Calculated decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("el monto %s no coincide con el calculado %s",
		e.Given.StringFixed(2), e.Calculated.StringFixed(2))
}

func (e *AmountMismatchError) Unwrap() error { return ErrAmountMismatch }

// OverpaymentError pago que supera el saldo restante del documento.
type OverpaymentError struct {
	Amount    decimal.Decimal
	Remaining decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("el pago %s excede el saldo restante %s",
		e.Amount.StringFixed(2), e.Remaining.StringFixed(2))
}

func (e *OverpaymentError) Unwrap() error { return ErrOverpayment }

// MissingProductivityHoursError identifica la tarea sin horas de productividad.
type MissingProductivityHoursError struct {
	TaskID    string
	TaskTitle string
}

func (e *MissingProductivityHoursError) Error() string {
	return fmt.Sprintf("la tarea '%s' (%s) no tiene horas de productividad", e.TaskTitle, e.TaskID)
}

func (e *MissingProductivityHoursError) Unwrap() error { return ErrMissingProductivityHours }

// NotAssignedError desarrollador sin asignación al proyecto o a la tarea.
type NotAssignedError struct {
	DeveloperID string
	ProjectID   string
	TaskID      string // vacío si falta la asignación al proyecto
}

func (e *NotAssignedError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("la tarea %s no está asignada al desarrollador %s", e.TaskID, e.DeveloperID)
	}
	return fmt.Sprintf("el desarrollador %s no está asignado al proyecto %s", e.DeveloperID, e.ProjectID)
}

func (e *NotAssignedError) Unwrap() error { return ErrNotAssigned }

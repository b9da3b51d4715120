package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// VoucherFilter criterios de listado de comprobantes y de pagos a desarrolladores.
// ProjectIDs nil = sin restricción; slice vacío = ningún proyecto visible.
type VoucherFilter struct {
	ProjectID   string
	DeveloperID string
	VoucherID   string // solo aplica a pagos
	ProjectIDs  []string
}

// VoucherRepository puerto de persistencia para comprobantes, sus tareas congeladas y sus pagos.
// GetByID/GetForUpdate devuelven (nil, nil) si no existe.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *entity.PaymentVoucher) error
	// AddTasks persiste las líneas congeladas; no existe operación de actualización.
	AddTasks(ctx context.Context, tasks []entity.VoucherTask) error
	GetByID(ctx context.Context, id string) (*entity.PaymentVoucher, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PaymentVoucher, error)
	List(ctx context.Context, f VoucherFilter) ([]*entity.PaymentVoucher, error)
	// Tasks líneas del comprobante en orden de creación.
	Tasks(ctx context.Context, voucherID string) ([]entity.VoucherTask, error)

	// CreatePayment persiste el pago y sus líneas de asignación (payment.Tasks).
	CreatePayment(ctx context.Context, payment *entity.DeveloperPayment) error
	// ListPayments pagos con sus asignaciones, más recientes primero.
	ListPayments(ctx context.Context, f VoucherFilter) ([]*entity.DeveloperPayment, error)
	SumPayments(ctx context.Context, voucherID string) (decimal.Decimal, error)
	// AllocatedByTask suma de asignaciones previas por tarea dentro del comprobante.
	AllocatedByTask(ctx context.Context, voucherID string) (map[string]decimal.Decimal, error)
	// TaskAllocated suma de asignaciones a la tarea en pagos del desarrollador en el proyecto.
	TaskAllocated(ctx context.Context, taskID, developerID, projectID string) (decimal.Decimal, error)
	// SumDeveloperPayments total pagado al desarrollador en el proyecto.
	SumDeveloperPayments(ctx context.Context, developerID, projectID string) (decimal.Decimal, error)
}

package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// InvoiceFilter criterios de listado de facturas.
// ProjectIDs nil = sin restricción; slice vacío = ningún proyecto visible.
type InvoiceFilter struct {
	ProjectID  string
	ProjectIDs []string
}

// InvoiceRepository puerto de persistencia para facturas, sus tareas y sus pagos.
// GetByID/GetForUpdate/GetPayment devuelven (nil, nil) si no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// AddTasks vincula las tareas en el orden recibido.
	AddTasks(ctx context.Context, invoiceID string, taskIDs []string) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate obtiene la factura y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	// TaskIDs tareas de la factura en orden de vinculación.
	TaskIDs(ctx context.Context, invoiceID string) ([]string, error)
	// IsTaskInvoiced indica si la tarea está vinculada a alguna factura.
	IsTaskInvoiced(ctx context.Context, taskID string) (bool, error)

	CreatePayment(ctx context.Context, payment *entity.Payment) error
	GetPayment(ctx context.Context, id string) (*entity.Payment, error)
	// ListPayments pagos de la factura, más recientes primero.
	ListPayments(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	SumPayments(ctx context.Context, invoiceID string) (decimal.Decimal, error)
	// SetPaymentEvidence guarda la referencia al soporte del pago (único campo mutable).
	SetPaymentEvidence(ctx context.Context, paymentID, fileRef string) error
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice documento por cobrar emitido al dueño del proyecto.
// El estado no se persiste: se deriva de la suma de pagos (ver billing.DeriveStatus).
type Invoice struct {
	ID             string
	ProjectID      string
	Amount         decimal.Decimal
	InvoiceDate    time.Time
	Notes          string
	DateRangeStart *time.Time
	DateRangeEnd   *time.Time
	CreatedBy      string
	CreatedAt      time.Time
}

// InvoiceTask fila de la relación factura-tarea (orden de inserción preservado por Position).
type InvoiceTask struct {
	InvoiceID string
	TaskID    string
	Position  int
}

// Payment abono del cliente contra una factura.
type Payment struct {
	ID           string
	InvoiceID    string
	Amount       decimal.Decimal
	PaymentDate  time.Time
	Notes        string
	EvidenceFile string // referencia al soporte; el almacenamiento es externo
	CreatedBy    string
	CreatedAt    time.Time
}

package reporting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
)

// StatementKind tipo de documento del estado de cuenta.
type StatementKind string

const (
	StatementInvoice StatementKind = "invoice"
	StatementVoucher StatementKind = "voucher"
)

// StatementLine línea de detalle: una tarea con sus horas y tarifa.
type StatementLine struct {
	Description string
	Hours       decimal.Decimal
	Rate        decimal.Decimal // cero si el proyecto no tiene tarifa definida
	Amount      decimal.Decimal
}

// StatementPayment abono aplicado al documento.
type StatementPayment struct {
	Date   time.Time
	Amount decimal.Decimal
	Notes  string
}

// Statement datos ya resueltos para el PDF de una factura o comprobante.
type Statement struct {
	Kind         StatementKind
	Reference    string // INV-<id> / VCH-<id>
	ProjectName  string
	Counterparty string // dueño del proyecto o desarrollador
	IssuedBy     string
	Date         time.Time
	Period       string
	Notes        string
	Amount       decimal.Decimal
	TotalPaid    decimal.Decimal
	Remaining    decimal.Decimal
	Status       billing.Status
	Lines        []StatementLine
	Payments     []StatementPayment
}

// StatementPDFGenerator puerto de salida para renderizar el estado de cuenta.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, st *Statement) ([]byte, error)
}

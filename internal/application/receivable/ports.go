package receivable

import (
	"context"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repos de facturas y diario.
// Factura/pago y su asiento se confirman juntos o no se confirma nada.
type TxRunner interface {
	RunReceivable(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

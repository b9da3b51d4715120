package accounting

import (
	"context"

	ledger "github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con el diario y los documentos que lo originan.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		voucherRepo repository.VoucherRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// Exporter genera el libro diario en un formato descargable (xlsx).
type Exporter interface {
	Export(entries []entity.AccountingEntry, summary ledger.Summary) ([]byte, error)
}

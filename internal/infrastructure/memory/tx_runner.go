package memory

import (
	"context"

	"github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/payable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/receivable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/worklog"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var (
	_ worklog.TxRunner    = (*TxRunner)(nil)
	_ receivable.TxRunner = (*TxRunner)(nil)
	_ payable.TxRunner    = (*TxRunner)(nil)
	_ accounting.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks sobre una copia del almacén y la publica al terminar sin error.
// Las transacciones se serializan con el lock del Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// RunWorklog transacción con repos de tareas y proyectos.
func (r *TxRunner) RunWorklog(ctx context.Context, fn func(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
) error) error {
	return r.store.runTx(ctx, func(d db) error {
		return fn(&TaskRepo{d: d}, &ProjectRepo{d: d})
	})
}

// RunReceivable transacción con repos de facturación al cliente.
func (r *TxRunner) RunReceivable(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.store.runTx(ctx, func(d db) error {
		return fn(&InvoiceRepo{d: d}, &LedgerRepo{d: d})
	})
}

// RunPayable transacción con repos de comprobantes de pago.
func (r *TxRunner) RunPayable(ctx context.Context, fn func(
	voucherRepo repository.VoucherRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.store.runTx(ctx, func(d db) error {
		return fn(&VoucherRepo{d: d}, &LedgerRepo{d: d})
	})
}

// RunLedger transacción con el diario y los documentos que lo originan.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	voucherRepo repository.VoucherRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.store.runTx(ctx, func(d db) error {
		return fn(&InvoiceRepo{d: d}, &VoucherRepo{d: d}, &LedgerRepo{d: d})
	})
}

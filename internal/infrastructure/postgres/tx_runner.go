package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunWorklog transacción con repos de tareas y proyectos (actualización de horas).
func (r *TxRunner) RunWorklog(ctx context.Context, fn func(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewTaskRepository(tx), NewProjectRepository(tx))
	})
}

// RunReceivable transacción con facturas y diario: documento y asiento se confirman juntos.
func (r *TxRunner) RunReceivable(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewInvoiceRepository(tx), NewLedgerRepository(tx))
	})
}

// RunPayable transacción con comprobantes y diario.
func (r *TxRunner) RunPayable(ctx context.Context, fn func(
	voucherRepo repository.VoucherRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewVoucherRepository(tx), NewLedgerRepository(tx))
	})
}

// RunLedger transacción con el diario y los documentos que lo originan (backfill, reversos).
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	voucherRepo repository.VoucherRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewInvoiceRepository(tx), NewVoucherRepository(tx), NewLedgerRepository(tx))
	})
}

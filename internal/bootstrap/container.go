// Package bootstrap arma los casos de uso sobre el almacén configurado.
// Lo comparten el servidor HTTP y el CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/payable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/receivable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/worklog"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
	"github.com/jhoicas/ProjectLedger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/ProjectLedger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ProjectLedger-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/ProjectLedger-api/internal/infrastructure/xlsx"
	"github.com/jhoicas/ProjectLedger-api/pkg/config"
	"github.com/jhoicas/ProjectLedger-api/pkg/logger"
)

// txRunner une los cuatro puertos transaccionales; lo cumplen ambos almacenes.
type txRunner interface {
	worklog.TxRunner
	receivable.TxRunner
	payable.TxRunner
	accounting.TxRunner
}

// stores repositorios sobre la conexión (pool o almacén en memoria).
type stores struct {
	tx          txRunner
	projects    repository.ProjectRepository
	assignments repository.AssignmentRepository
	tasks       repository.TaskRepository
	timesheets  repository.TimesheetRepository
	invoices    repository.InvoiceRepository
	vouchers    repository.VoucherRepository
	ledger      repository.LedgerRepository
}

// Container casos de uso listos para usar.
type Container struct {
	WorkLog    *worklog.WorkLogUseCase
	Receivable *receivable.ReceivableUseCase
	Payable    *payable.PayableUseCase
	Accounting *accounting.AccountingUseCase
	Reporting  *reporting.ReportingUseCase
	Statement  *reporting.StatementUseCase

	closeFn func()
}

// Close libera la conexión a la base de datos (no-op en memoria).
func (c *Container) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// New abre el almacén indicado por cfg.Store.Driver y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	var (
		s       stores
		closeFn func()
	)
	switch cfg.Store.Driver {
	case config.StoreMemory:
		store := memory.NewStore()
		if cfg.Store.FixturePath != "" {
			if err := memory.LoadFixtureFile(store, cfg.Store.FixturePath); err != nil {
				return nil, err
			}
			log.Info().Str("fixture", cfg.Store.FixturePath).Msg("datos maestros cargados")
		}
		s = stores{
			tx:          memory.NewTxRunner(store),
			projects:    store.Projects(),
			assignments: store.Assignments(),
			tasks:       store.Tasks(),
			timesheets:  store.Timesheets(),
			invoices:    store.Invoices(),
			vouchers:    store.Vouchers(),
			ledger:      store.Ledger(),
		}
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		closeFn = pool.Close
		s = stores{
			tx:          postgres.NewTxRunner(pool),
			projects:    postgres.NewProjectRepository(pool),
			assignments: postgres.NewAssignmentRepository(pool),
			tasks:       postgres.NewTaskRepository(pool),
			timesheets:  postgres.NewTimesheetRepository(pool),
			invoices:    postgres.NewInvoiceRepository(pool),
			vouchers:    postgres.NewVoucherRepository(pool),
			ledger:      postgres.NewLedgerRepository(pool),
		}
	default:
		return nil, fmt.Errorf("store driver desconocido: %q", cfg.Store.Driver)
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("almacén listo")

	repos := reporting.Repos{
		Projects:    s.projects,
		Assignments: s.assignments,
		Tasks:       s.tasks,
		Timesheets:  s.timesheets,
		Invoices:    s.invoices,
		Vouchers:    s.vouchers,
		Ledger:      s.ledger,
	}

	return &Container{
		WorkLog: worklog.NewWorkLogUseCase(
			s.tx, s.tasks, s.projects, s.assignments, s.timesheets,
			log.WithComponent("worklog"),
		),
		Receivable: receivable.NewReceivableUseCase(
			s.tx, s.projects, s.assignments, s.tasks, s.timesheets, s.invoices,
			receivable.Config{StrictAmount: cfg.Billing.StrictInvoiceAmount},
			log.WithComponent("receivable"),
		),
		Payable: payable.NewPayableUseCase(
			s.tx, s.projects, s.assignments, s.tasks, s.vouchers,
			payable.Config{AmountTolerance: cfg.Billing.AmountTolerance},
			log.WithComponent("payable"),
		),
		Accounting: accounting.NewAccountingUseCase(
			s.tx, s.ledger, s.invoices, s.vouchers, s.projects, s.assignments,
			infraxlsx.NewLedgerExporter(),
			log.WithComponent("accounting"),
		),
		Reporting: reporting.NewReportingUseCase(repos, cfg.Billing.AmountTolerance, log.WithComponent("reporting")),
		Statement: reporting.NewStatementUseCase(repos, infrapdf.NewMarotoPDFGenerator()),
		closeFn:   closeFn,
	}, nil
}

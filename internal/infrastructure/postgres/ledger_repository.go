package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo diario contable sobre la tabla accounting_entries. Solo inserta y consulta.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const entryColumns = `id, transaction_date, transaction_type, account_type, entry_type, amount,
	COALESCE(description, ''), reference_number,
	COALESCE(invoice_id, ''), COALESCE(payment_id, ''), COALESCE(voucher_id, ''),
	COALESCE(developer_payment_id, ''), project_id, created_by, created_at`

// Post inserta las dos filas del asiento en un mismo lote; dentro de la tx del documento.
func (r *LedgerRepo) Post(ctx context.Context, p accounting.Posting) error {
	query := `
		INSERT INTO accounting_entries (id, transaction_date, transaction_type, account_type, entry_type, amount,
		                                description, reference_number, invoice_id, payment_id, voucher_id,
		                                developer_payment_id, project_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	b := &pgx.Batch{}
	for _, e := range p.Entries(time.Now()) {
		b.Queue(query,
			e.ID, e.TransactionDate, string(e.TransactionType), string(e.AccountType), string(e.EntryType), e.Amount,
			nullIfEmpty(e.Description), e.ReferenceNumber,
			nullIfEmpty(e.InvoiceID), nullIfEmpty(e.PaymentID), nullIfEmpty(e.VoucherID),
			nullIfEmpty(e.DeveloperPaymentID), e.ProjectID, e.CreatedBy, e.CreatedAt,
		)
	}
	if err := execBatch(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert accounting entries: %w", err)
	}
	return nil
}

// List filas que cumplen el filtro. A igual fecha, el asiento más reciente primero y su crédito antes que su débito.
func (r *LedgerRepo) List(ctx context.Context, f repository.EntryFilter) ([]entity.AccountingEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounting_entries
		WHERE ($1::text = '' OR project_id = $1)
		  AND ($2::text[] IS NULL OR project_id = ANY($2))
		  AND ($3::text = '' OR transaction_type = $3)
		  AND ($4::text = '' OR account_type = $4)
		  AND ($5::date IS NULL OR transaction_date::date >= $5)
		  AND ($6::date IS NULL OR transaction_date::date <= $6)
		ORDER BY transaction_date DESC, created_at DESC, entry_type ASC`
	return r.query(ctx, query,
		f.ProjectID, f.ProjectIDs, string(f.TransactionType), string(f.AccountType),
		dateOrNil(f.From), dateOrNil(f.To),
	)
}

// ByReference filas del asiento con ese número de referencia, débito primero.
func (r *LedgerRepo) ByReference(ctx context.Context, ref string) ([]entity.AccountingEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounting_entries
		WHERE reference_number = $1
		ORDER BY created_at, entry_type DESC`
	return r.query(ctx, query, ref)
}

func (r *LedgerRepo) query(ctx context.Context, query string, args ...any) ([]entity.AccountingEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounting entries: %w", err)
	}
	defer rows.Close()

	var list []entity.AccountingEntry
	for rows.Next() {
		var (
			e                          entity.AccountingEntry
			txType, account, entryType string
		)
		err := rows.Scan(
			&e.ID, &e.TransactionDate, &txType, &account, &entryType, &e.Amount,
			&e.Description, &e.ReferenceNumber,
			&e.InvoiceID, &e.PaymentID, &e.VoucherID,
			&e.DeveloperPaymentID, &e.ProjectID, &e.CreatedBy, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan accounting entry: %w", err)
		}
		e.TransactionType = entity.TransactionType(txType)
		e.AccountType = entity.AccountType(account)
		e.EntryType = entity.EntryType(entryType)
		list = append(list, e)
	}
	return list, rows.Err()
}

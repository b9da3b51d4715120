package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, project_id, amount, invoice_date, COALESCE(notes, ''),
	date_range_start, date_range_end, created_by, created_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.ProjectID, &inv.Amount, &inv.InvoiceDate, &inv.Notes,
		&inv.DateRangeStart, &inv.DateRangeEnd, &inv.CreatedBy, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, project_id, amount, invoice_date, notes, date_range_start, date_range_end, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.ProjectID, invoice.Amount, dateOnly(invoice.InvoiceDate), nullIfEmpty(invoice.Notes),
		dateOrNil(invoice.DateRangeStart), dateOrNil(invoice.DateRangeEnd), invoice.CreatedBy, invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice id already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// AddTasks vincula las tareas conservando el orden recibido en la columna position.
func (r *InvoiceRepo) AddTasks(ctx context.Context, invoiceID string, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO invoice_tasks (invoice_id, task_id, position)
		SELECT $1, t.task_id,
		       COALESCE((SELECT MAX(position) FROM invoice_tasks WHERE invoice_id = $1), 0) + t.ord
		FROM unnest($2::text[]) WITH ORDINALITY AS t(task_id, ord)`
	if _, err := r.q.Exec(ctx, query, invoiceID, taskIDs); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert invoice tasks: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate obtiene la factura y bloquea su fila: los pagos concurrentes se serializan aquí.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

// List facturas más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1::text = '' OR project_id = $1)
		  AND ($2::text[] IS NULL OR project_id = ANY($2))
		ORDER BY invoice_date DESC, created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, f.ProjectID, f.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) TaskIDs(ctx context.Context, invoiceID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT task_id FROM invoice_tasks WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice tasks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan invoice task: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *InvoiceRepo) IsTaskInvoiced(ctx context.Context, taskID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoice_tasks WHERE task_id = $1)`, taskID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check invoiced task: %w", err)
	}
	return ok, nil
}

// ── Pagos ────────────────────────────────────────────────────────────────────

const paymentColumns = `id, invoice_id, amount, payment_date, COALESCE(notes, ''),
	COALESCE(evidence_file, ''), created_by, created_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.InvoiceID, &p.Amount, &p.PaymentDate, &p.Notes,
		&p.EvidenceFile, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment persiste el abono. La factura debe existir (FK).
func (r *InvoiceRepo) CreatePayment(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payments (id, invoice_id, amount, payment_date, notes, evidence_file, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.InvoiceID, payment.Amount, dateOnly(payment.PaymentDate),
		nullIfEmpty(payment.Notes), nullIfEmpty(payment.EvidenceFile), payment.CreatedBy, payment.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetPayment(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *InvoiceRepo) ListPayments(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments WHERE invoice_id = $1
		ORDER BY payment_date DESC, created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SumPayments total abonado a la factura; cero si no hay pagos.
func (r *InvoiceRepo) SumPayments(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`, invoiceID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}

func (r *InvoiceRepo) SetPaymentEvidence(ctx context.Context, paymentID, fileRef string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE payments SET evidence_file = $2 WHERE id = $1`, paymentID, nullIfEmpty(fileRef))
	if err != nil {
		return fmt.Errorf("update payment evidence: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

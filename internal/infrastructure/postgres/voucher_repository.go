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

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

// VoucherRepo comprobantes de pago, sus líneas congeladas y los abonos a desarrolladores.
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

const voucherColumns = `id, developer_id, project_id, amount, voucher_date, COALESCE(notes, ''),
	date_range_start, date_range_end, created_by, created_at`

func scanVoucher(row pgx.Row) (*entity.PaymentVoucher, error) {
	var v entity.PaymentVoucher
	err := row.Scan(
		&v.ID, &v.DeveloperID, &v.ProjectID, &v.Amount, &v.VoucherDate, &v.Notes,
		&v.DateRangeStart, &v.DateRangeEnd, &v.CreatedBy, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoucherRepo) Create(ctx context.Context, voucher *entity.PaymentVoucher) error {
	if voucher.ID == "" {
		voucher.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payment_vouchers (id, developer_id, project_id, amount, voucher_date, notes,
		                              date_range_start, date_range_end, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		voucher.ID, voucher.DeveloperID, voucher.ProjectID, voucher.Amount, dateOnly(voucher.VoucherDate),
		nullIfEmpty(voucher.Notes), dateOrNil(voucher.DateRangeStart), dateOrNil(voucher.DateRangeEnd),
		voucher.CreatedBy, voucher.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("voucher id already exists: %w", err)
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

// AddTasks inserta las líneas congeladas en un solo lote, en el orden recibido.
func (r *VoucherRepo) AddTasks(ctx context.Context, tasks []entity.VoucherTask) error {
	if len(tasks) == 0 {
		return nil
	}
	query := `
		INSERT INTO voucher_tasks (id, voucher_id, task_id, productivity_hours, hourly_rate, amount, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	b := &pgx.Batch{}
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.New().String()
		}
		t := tasks[i]
		b.Queue(query, t.ID, t.VoucherID, t.TaskID, t.ProductivityHours, t.HourlyRate, t.Amount, i+1)
	}
	if err := execBatch(ctx, r.q, b); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert voucher tasks: %w", err)
	}
	return nil
}

func (r *VoucherRepo) get(ctx context.Context, query, id string) (*entity.PaymentVoucher, error) {
	v, err := scanVoucher(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

func (r *VoucherRepo) GetByID(ctx context.Context, id string) (*entity.PaymentVoucher, error) {
	return r.get(ctx, `SELECT `+voucherColumns+` FROM payment_vouchers WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del comprobante hasta el fin de la transacción.
func (r *VoucherRepo) GetForUpdate(ctx context.Context, id string) (*entity.PaymentVoucher, error) {
	return r.get(ctx, `SELECT `+voucherColumns+` FROM payment_vouchers WHERE id = $1 FOR UPDATE`, id)
}

// List comprobantes más recientes primero.
func (r *VoucherRepo) List(ctx context.Context, f repository.VoucherFilter) ([]*entity.PaymentVoucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM payment_vouchers
		WHERE ($1::text = '' OR project_id = $1)
		  AND ($2::text = '' OR developer_id = $2)
		  AND ($3::text[] IS NULL OR project_id = ANY($3))
		ORDER BY voucher_date DESC, created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, f.ProjectID, f.DeveloperID, f.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var list []*entity.PaymentVoucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *VoucherRepo) Tasks(ctx context.Context, voucherID string) ([]entity.VoucherTask, error) {
	query := `
		SELECT id, voucher_id, task_id, productivity_hours, hourly_rate, amount
		FROM voucher_tasks WHERE voucher_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("list voucher tasks: %w", err)
	}
	defer rows.Close()

	var list []entity.VoucherTask
	for rows.Next() {
		var t entity.VoucherTask
		if err := rows.Scan(&t.ID, &t.VoucherID, &t.TaskID, &t.ProductivityHours, &t.HourlyRate, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan voucher task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ── Pagos a desarrolladores ──────────────────────────────────────────────────

// CreatePayment persiste el abono y sus asignaciones por tarea en un solo lote.
func (r *VoucherRepo) CreatePayment(ctx context.Context, payment *entity.DeveloperPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO developer_payments (id, voucher_id, developer_id, project_id, amount, payment_date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		payment.ID, payment.VoucherID, payment.DeveloperID, payment.ProjectID, payment.Amount,
		dateOnly(payment.PaymentDate), nullIfEmpty(payment.Notes), payment.CreatedBy, payment.CreatedAt,
	)
	for i := range payment.Tasks {
		t := &payment.Tasks[i]
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		t.PaymentID = payment.ID
		b.Queue(`
			INSERT INTO developer_payment_tasks (id, developer_payment_id, task_id, productivity_hours, hourly_rate, amount)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			t.ID, t.PaymentID, t.TaskID, t.ProductivityHours, t.HourlyRate, t.Amount,
		)
	}
	if err := execBatch(ctx, r.q, b); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert developer payment: %w", err)
	}
	return nil
}

// ListPayments abonos con sus asignaciones, más recientes primero.
func (r *VoucherRepo) ListPayments(ctx context.Context, f repository.VoucherFilter) ([]*entity.DeveloperPayment, error) {
	query := `
		SELECT id, voucher_id, developer_id, project_id, amount, payment_date,
		       COALESCE(notes, ''), created_by, created_at
		FROM developer_payments
		WHERE ($1::text = '' OR voucher_id = $1)
		  AND ($2::text = '' OR project_id = $2)
		  AND ($3::text = '' OR developer_id = $3)
		  AND ($4::text[] IS NULL OR project_id = ANY($4))
		ORDER BY payment_date DESC, created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, f.VoucherID, f.ProjectID, f.DeveloperID, f.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("list developer payments: %w", err)
	}
	defer rows.Close()

	var (
		list []*entity.DeveloperPayment
		ids  []string
		byID = make(map[string]*entity.DeveloperPayment)
	)
	for rows.Next() {
		var p entity.DeveloperPayment
		err := rows.Scan(
			&p.ID, &p.VoucherID, &p.DeveloperID, &p.ProjectID, &p.Amount, &p.PaymentDate,
			&p.Notes, &p.CreatedBy, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan developer payment: %w", err)
		}
		list = append(list, &p)
		ids = append(ids, p.ID)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	taskRows, err := r.q.Query(ctx, `
		SELECT id, developer_payment_id, task_id, productivity_hours, hourly_rate, amount
		FROM developer_payment_tasks
		WHERE developer_payment_id = ANY($1)
		ORDER BY developer_payment_id, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list developer payment tasks: %w", err)
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var t entity.DeveloperPaymentTask
		if err := taskRows.Scan(&t.ID, &t.PaymentID, &t.TaskID, &t.ProductivityHours, &t.HourlyRate, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan developer payment task: %w", err)
		}
		if p, ok := byID[t.PaymentID]; ok {
			p.Tasks = append(p.Tasks, t)
		}
	}
	return list, taskRows.Err()
}

func (r *VoucherRepo) SumPayments(ctx context.Context, voucherID string) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM developer_payments WHERE voucher_id = $1`, voucherID)
}

func (r *VoucherRepo) AllocatedByTask(ctx context.Context, voucherID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT dpt.task_id, SUM(dpt.amount)
		FROM developer_payment_tasks dpt
		JOIN developer_payments dp ON dp.id = dpt.developer_payment_id
		WHERE dp.voucher_id = $1
		GROUP BY dpt.task_id`
	rows, err := r.q.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("sum allocations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			taskID string
			total  decimal.Decimal
		)
		if err := rows.Scan(&taskID, &total); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out[taskID] = total
	}
	return out, rows.Err()
}

func (r *VoucherRepo) TaskAllocated(ctx context.Context, taskID, developerID, projectID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(dpt.amount), 0)
		FROM developer_payment_tasks dpt
		JOIN developer_payments dp ON dp.id = dpt.developer_payment_id
		WHERE dpt.task_id = $1 AND dp.developer_id = $2 AND dp.project_id = $3`
	return r.sum(ctx, query, taskID, developerID, projectID)
}

func (r *VoucherRepo) SumDeveloperPayments(ctx context.Context, developerID, projectID string) (decimal.Decimal, error) {
	return r.sum(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM developer_payments WHERE developer_id = $1 AND project_id = $2`,
		developerID, projectID)
}

func (r *VoucherRepo) sum(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum developer payments: %w", err)
	}
	return total, nil
}

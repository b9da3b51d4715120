package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

// VoucherRepo implementación en memoria de VoucherRepository.
type VoucherRepo struct {
	d db
}

func (r *VoucherRepo) Create(_ context.Context, voucher *entity.PaymentVoucher) error {
	if voucher.ID == "" {
		voucher.ID = uuid.New().String()
	}
	if voucher.CreatedAt.IsZero() {
		voucher.CreatedAt = time.Now()
	}
	return r.d.write(func(st *state) error {
		if _, dup := st.vouchers[voucher.ID]; dup {
			return fmt.Errorf("insert voucher: id %s duplicado", voucher.ID)
		}
		st.vouchers[voucher.ID] = *voucher
		st.voucherOrder = append(st.voucherOrder, voucher.ID)
		return nil
	})
}

func (r *VoucherRepo) AddTasks(_ context.Context, tasks []entity.VoucherTask) error {
	return r.d.write(func(st *state) error {
		for _, t := range tasks {
			if _, ok := st.vouchers[t.VoucherID]; !ok {
				return domain.ErrNotFound
			}
			if t.ID == "" {
				t.ID = uuid.New().String()
			}
			st.voucherTasks[t.VoucherID] = append(st.voucherTasks[t.VoucherID], t)
		}
		return nil
	})
}

func (r *VoucherRepo) GetByID(_ context.Context, id string) (*entity.PaymentVoucher, error) {
	var out *entity.PaymentVoucher
	err := r.d.read(func(st *state) error {
		if v, ok := st.vouchers[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *VoucherRepo) GetForUpdate(ctx context.Context, id string) (*entity.PaymentVoucher, error) {
	return r.GetByID(ctx, id)
}

// List comprobantes más recientes primero.
func (r *VoucherRepo) List(_ context.Context, f repository.VoucherFilter) ([]*entity.PaymentVoucher, error) {
	var out []*entity.PaymentVoucher
	err := r.d.read(func(st *state) error {
		order := newestFirst(len(st.voucherOrder), func(i int) time.Time {
			return st.vouchers[st.voucherOrder[i]].VoucherDate
		})
		for _, i := range order {
			v := st.vouchers[st.voucherOrder[i]]
			if f.ProjectID != "" && v.ProjectID != f.ProjectID {
				continue
			}
			if f.DeveloperID != "" && v.DeveloperID != f.DeveloperID {
				continue
			}
			if !inScope(f.ProjectIDs, v.ProjectID) {
				continue
			}
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

func (r *VoucherRepo) Tasks(_ context.Context, voucherID string) ([]entity.VoucherTask, error) {
	var out []entity.VoucherTask
	err := r.d.read(func(st *state) error {
		out = append(out, st.voucherTasks[voucherID]...)
		return nil
	})
	return out, err
}

func (r *VoucherRepo) CreatePayment(_ context.Context, payment *entity.DeveloperPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	for i := range payment.Tasks {
		if payment.Tasks[i].ID == "" {
			payment.Tasks[i].ID = uuid.New().String()
		}
		payment.Tasks[i].PaymentID = payment.ID
	}
	return r.d.write(func(st *state) error {
		if _, ok := st.vouchers[payment.VoucherID]; !ok {
			return domain.ErrNotFound
		}
		stored := *payment
		stored.Tasks = append([]entity.DeveloperPaymentTask(nil), payment.Tasks...)
		st.devPayments[payment.ID] = stored
		st.devPayOrder = append(st.devPayOrder, payment.ID)
		return nil
	})
}

func (r *VoucherRepo) ListPayments(_ context.Context, f repository.VoucherFilter) ([]*entity.DeveloperPayment, error) {
	var out []*entity.DeveloperPayment
	err := r.d.read(func(st *state) error {
		order := newestFirst(len(st.devPayOrder), func(i int) time.Time {
			return st.devPayments[st.devPayOrder[i]].PaymentDate
		})
		for _, i := range order {
			p := st.devPayments[st.devPayOrder[i]]
			if f.VoucherID != "" && p.VoucherID != f.VoucherID {
				continue
			}
			if f.ProjectID != "" && p.ProjectID != f.ProjectID {
				continue
			}
			if f.DeveloperID != "" && p.DeveloperID != f.DeveloperID {
				continue
			}
			if !inScope(f.ProjectIDs, p.ProjectID) {
				continue
			}
			p.Tasks = append([]entity.DeveloperPaymentTask(nil), p.Tasks...)
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *VoucherRepo) SumPayments(_ context.Context, voucherID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.d.read(func(st *state) error {
		for _, p := range st.devPayments {
			if p.VoucherID == voucherID {
				total = total.Add(p.Amount)
			}
		}
		return nil
	})
	return total, err
}

func (r *VoucherRepo) AllocatedByTask(_ context.Context, voucherID string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	err := r.d.read(func(st *state) error {
		for _, p := range st.devPayments {
			if p.VoucherID != voucherID {
				continue
			}
			for _, t := range p.Tasks {
				out[t.TaskID] = out[t.TaskID].Add(t.Amount)
			}
		}
		return nil
	})
	return out, err
}

func (r *VoucherRepo) TaskAllocated(_ context.Context, taskID, developerID, projectID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.d.read(func(st *state) error {
		for _, p := range st.devPayments {
			if p.DeveloperID != developerID || p.ProjectID != projectID {
				continue
			}
			for _, t := range p.Tasks {
				if t.TaskID == taskID {
					total = total.Add(t.Amount)
				}
			}
		}
		return nil
	})
	return total, err
}

func (r *VoucherRepo) SumDeveloperPayments(_ context.Context, developerID, projectID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.d.read(func(st *state) error {
		for _, p := range st.devPayments {
			if p.DeveloperID == developerID && p.ProjectID == projectID {
				total = total.Add(p.Amount)
			}
		}
		return nil
	})
	return total, err
}

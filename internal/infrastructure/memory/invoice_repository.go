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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct {
	d db
}

func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	return r.d.write(func(st *state) error {
		if _, dup := st.invoices[invoice.ID]; dup {
			return fmt.Errorf("insert invoice: id %s duplicado", invoice.ID)
		}
		st.invoices[invoice.ID] = *invoice
		st.invoiceOrder = append(st.invoiceOrder, invoice.ID)
		return nil
	})
}

func (r *InvoiceRepo) AddTasks(_ context.Context, invoiceID string, taskIDs []string) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.invoices[invoiceID]; !ok {
			return domain.ErrNotFound
		}
		st.invoiceTasks[invoiceID] = append(st.invoiceTasks[invoiceID], taskIDs...)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.d.read(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

// List facturas más recientes primero.
func (r *InvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.d.read(func(st *state) error {
		order := newestFirst(len(st.invoiceOrder), func(i int) time.Time {
			return st.invoices[st.invoiceOrder[i]].InvoiceDate
		})
		for _, i := range order {
			inv := st.invoices[st.invoiceOrder[i]]
			if f.ProjectID != "" && inv.ProjectID != f.ProjectID {
				continue
			}
			if !inScope(f.ProjectIDs, inv.ProjectID) {
				continue
			}
			out = append(out, &inv)
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) TaskIDs(_ context.Context, invoiceID string) ([]string, error) {
	var out []string
	err := r.d.read(func(st *state) error {
		out = append(out, st.invoiceTasks[invoiceID]...)
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) IsTaskInvoiced(_ context.Context, taskID string) (bool, error) {
	var found bool
	err := r.d.read(func(st *state) error {
		for _, ids := range st.invoiceTasks {
			for _, id := range ids {
				if id == taskID {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

func (r *InvoiceRepo) CreatePayment(_ context.Context, payment *entity.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	return r.d.write(func(st *state) error {
		if _, ok := st.invoices[payment.InvoiceID]; !ok {
			return domain.ErrNotFound
		}
		st.payments[payment.ID] = *payment
		st.paymentOrder = append(st.paymentOrder, payment.ID)
		return nil
	})
}

func (r *InvoiceRepo) GetPayment(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.d.read(func(st *state) error {
		if p, ok := st.payments[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) ListPayments(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.d.read(func(st *state) error {
		order := newestFirst(len(st.paymentOrder), func(i int) time.Time {
			return st.payments[st.paymentOrder[i]].PaymentDate
		})
		for _, i := range order {
			p := st.payments[st.paymentOrder[i]]
			if p.InvoiceID == invoiceID {
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) SumPayments(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.d.read(func(st *state) error {
		for _, p := range st.payments {
			if p.InvoiceID == invoiceID {
				total = total.Add(p.Amount)
			}
		}
		return nil
	})
	return total, err
}

func (r *InvoiceRepo) SetPaymentEvidence(_ context.Context, paymentID, fileRef string) error {
	return r.d.write(func(st *state) error {
		p, ok := st.payments[paymentID]
		if !ok {
			return domain.ErrNotFound
		}
		p.EvidenceFile = fileRef
		st.payments[paymentID] = p
		return nil
	})
}

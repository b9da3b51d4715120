package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo diario en memoria, solo inserción.
type LedgerRepo struct {
	d db
}

func (r *LedgerRepo) Post(_ context.Context, p accounting.Posting) error {
	rows := p.Entries(time.Now())
	return r.d.write(func(st *state) error {
		st.entries = append(st.entries, rows[0], rows[1])
		return nil
	})
}

func (r *LedgerRepo) List(_ context.Context, f repository.EntryFilter) ([]entity.AccountingEntry, error) {
	var out []entity.AccountingEntry
	err := r.d.read(func(st *state) error {
		order := newestFirst(len(st.entries), func(i int) time.Time { return st.entries[i].TransactionDate })
		for _, i := range order {
			e := st.entries[i]
			if matchEntry(e, f) {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func (r *LedgerRepo) ByReference(_ context.Context, ref string) ([]entity.AccountingEntry, error) {
	var out []entity.AccountingEntry
	err := r.d.read(func(st *state) error {
		for _, e := range st.entries {
			if e.ReferenceNumber == ref {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func matchEntry(e entity.AccountingEntry, f repository.EntryFilter) bool {
	if f.ProjectID != "" && e.ProjectID != f.ProjectID {
		return false
	}
	if !inScope(f.ProjectIDs, e.ProjectID) {
		return false
	}
	if f.TransactionType != "" && e.TransactionType != f.TransactionType {
		return false
	}
	if f.AccountType != "" && e.AccountType != f.AccountType {
		return false
	}
	day := dateOnly(e.TransactionDate)
	if f.From != nil && day.Before(dateOnly(*f.From)) {
		return false
	}
	if f.To != nil && day.After(dateOnly(*f.To)) {
		return false
	}
	return true
}

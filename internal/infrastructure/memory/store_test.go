package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

func TestRunTx_RollbackDescartaCambios(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	inv := entity.Invoice{ID: "i1", ProjectID: "p1", Amount: decimal.NewFromInt(100), InvoiceDate: time.Now()}
	posting, err := accounting.InvoiceCreated(inv, "Portal")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = NewTxRunner(store).RunReceivable(ctx, func(invoiceRepo repository.InvoiceRepository, ledgerRepo repository.LedgerRepository) error {
		require.NoError(t, invoiceRepo.Create(ctx, &inv))
		require.NoError(t, ledgerRepo.Post(ctx, posting))
		// dentro de la transacción los cambios son visibles
		got, err := invoiceRepo.GetByID(ctx, "i1")
		require.NoError(t, err)
		require.NotNil(t, got)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Invoices().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Nil(t, got)
	rows, err := store.Ledger().List(ctx, repository.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunTx_ContextoCancelado(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewTxRunner(store).RunLedger(ctx, func(repository.InvoiceRepository, repository.VoucherRepository, repository.LedgerRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLedgerRepo_FiltroYOrden(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	day := func(s string) time.Time {
		v, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return v
	}
	for i, date := range []string{"2026-01-10", "2026-03-01", "2026-02-01"} {
		inv := entity.Invoice{ID: string(rune('a' + i)), ProjectID: "p1", Amount: decimal.NewFromInt(10), InvoiceDate: day(date)}
		p, err := accounting.InvoiceCreated(inv, "Portal")
		require.NoError(t, err)
		require.NoError(t, store.Ledger().Post(ctx, p))
	}

	rows, err := store.Ledger().List(ctx, repository.EntryFilter{AccountType: entity.AccountReceivable})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "INV-b", rows[0].ReferenceNumber)
	assert.Equal(t, "INV-c", rows[1].ReferenceNumber)
	assert.Equal(t, "INV-a", rows[2].ReferenceNumber)

	from, to := day("2026-02-01"), day("2026-02-01")
	rows, err = store.Ledger().List(ctx, repository.EntryFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = store.Ledger().List(ctx, repository.EntryFilter{ProjectIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, rows, "alcance vacío no ve nada")
}

func TestLoadFixture(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	const fx = `{
		"projects": [{"id": "p1", "name": "Portal", "project_lead_id": "lead-1", "project_owner_id": "owner-1", "rate_per_hour": "50"}],
		"assignments": [{"developer_id": "dev-1", "project_id": "p1", "hourly_rate": "20"}],
		"tasks": [{"id": "t1", "project_id": "p1", "title": "Login", "estimation_hours": "6", "productivity_hours": "5", "developer_ids": ["dev-1"]}],
		"timesheets": [{"id": "ts1", "task_id": "t1", "hours": "2", "status": "approved"}]
	}`
	require.NoError(t, LoadFixture(store, strings.NewReader(fx)))

	p, err := store.Projects().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "active", p.Status)
	assert.True(t, p.RatePerHour.Equal(decimal.NewFromInt(50)))

	rate, ok, err := store.Assignments().HourlyRate(ctx, "dev-1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(20)))

	assigned, err := store.Tasks().IsAssigned(ctx, "t1", "dev-1")
	require.NoError(t, err)
	assert.True(t, assigned)

	hours, err := store.Timesheets().ApprovedHours(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, hours.Equal(decimal.NewFromInt(2)))

	err = LoadFixture(NewStore(), strings.NewReader(`{"tasks": [{"id": "t2", "project_id": "p1", "title": "x"}]}`))
	assert.Error(t, err)
	err = LoadFixture(NewStore(), strings.NewReader(`{"usuarios": []}`))
	assert.Error(t, err)
}

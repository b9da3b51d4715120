package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// EntryFilter criterios conjuntivos sobre el diario. Valores cero no filtran.
// From/To comparan solo la fecha (inclusive).
type EntryFilter struct {
	ProjectID       string
	ProjectIDs      []string // nil = sin restricción
	TransactionType entity.TransactionType
	AccountType     entity.AccountType
	From            *time.Time
	To              *time.Time
}

// LedgerRepository diario contable de solo inserción. No expone actualización ni borrado.
type LedgerRepository interface {
	// Post inserta las dos filas del asiento.
	Post(ctx context.Context, p accounting.Posting) error
	// List filas que cumplen el filtro, más recientes primero.
	List(ctx context.Context, f EntryFilter) ([]entity.AccountingEntry, error)
	// ByReference filas con el número de referencia dado.
	ByReference(ctx context.Context, ref string) ([]entity.AccountingEntry, error)
}

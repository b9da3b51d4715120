package payable

import (
	"context"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repos de comprobantes y diario.
type TxRunner interface {
	RunPayable(ctx context.Context, fn func(
		voucherRepo repository.VoucherRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

package accounting

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

var (
	ErrNonPositiveAmount = errors.New("accounting: el monto del asiento debe ser mayor que cero")
	ErrSameAccount       = errors.New("accounting: débito y crédito deben afectar cuentas distintas")
	ErrUnknownAccount    = errors.New("accounting: cuenta desconocida")
	ErrMissingReference  = errors.New("accounting: el asiento requiere número de referencia")
)

// Prefijos de número de referencia por tipo de documento.
const (
	RefInvoice          = "INV-"
	RefPayment          = "PAY-"
	RefVoucher          = "VCH-"
	RefDeveloperPayment = "DPAY-"
	RefReversal         = "REV-"
)

// Meta datos comunes a las dos filas de un asiento.
type Meta struct {
	TransactionType    entity.TransactionType
	Date               time.Time
	Description        string
	ReferenceNumber    string
	InvoiceID          string
	PaymentID          string
	VoucherID          string
	DeveloperPaymentID string
	ProjectID          string
	CreatedBy          string
}

// Posting par débito/crédito del mismo monto. Solo se construye con NewPosting,
// por lo que un Posting válido siempre está balanceado.
type Posting struct {
	debit  entity.AccountType
	credit entity.AccountType
	amount decimal.Decimal
	meta   Meta
}

// NewPosting valida y construye un asiento balanceado.
func NewPosting(debit, credit entity.AccountType, amount decimal.Decimal, meta Meta) (Posting, error) {
	if !entity.ValidAccountType(string(debit)) || !entity.ValidAccountType(string(credit)) {
		return Posting{}, ErrUnknownAccount
	}
	if debit == credit {
		return Posting{}, ErrSameAccount
	}
	if !amount.IsPositive() {
		return Posting{}, ErrNonPositiveAmount
	}
	if strings.TrimSpace(meta.ReferenceNumber) == "" {
		return Posting{}, ErrMissingReference
	}
	return Posting{debit: debit, credit: credit, amount: amount, meta: meta}, nil
}

func (p Posting) DebitAccount() entity.AccountType { return p.debit }
func (p Posting) CreditAccount() entity.AccountType { return p.credit }
func (p Posting) Amount() decimal.Decimal { return p.amount }
func (p Posting) Meta() Meta { return p.meta }

// Entries materializa las dos filas del diario (débito primero). createdAt lo fija quien persiste.
func (p Posting) Entries(createdAt time.Time) [2]entity.AccountingEntry {
	row := func(account entity.AccountType, side entity.EntryType) entity.AccountingEntry {
		return entity.AccountingEntry{
			ID:                 uuid.NewString(),
			TransactionDate:    p.meta.Date,
			TransactionType:    p.meta.TransactionType,
			AccountType:        account,
			EntryType:          side,
			Amount:             p.amount,
			Description:        p.meta.Description,
			ReferenceNumber:    p.meta.ReferenceNumber,
			InvoiceID:          p.meta.InvoiceID,
			PaymentID:          p.meta.PaymentID,
			VoucherID:          p.meta.VoucherID,
			DeveloperPaymentID: p.meta.DeveloperPaymentID,
			ProjectID:          p.meta.ProjectID,
			CreatedBy:          p.meta.CreatedBy,
			CreatedAt:          createdAt,
		}
	}
	return [2]entity.AccountingEntry{
		row(p.debit, entity.Debit),
		row(p.credit, entity.Credit),
	}
}

// Reverse asiento espejo (débito ↔ crédito) que anula a p sin modificarlo.
// Conserva el tipo de transacción y los vínculos al documento.
func (p Posting) Reverse(actorID string, date time.Time) Posting {
	meta := p.meta
	meta.Date = date
	meta.CreatedBy = actorID
	meta.Description = "Reverso de " + p.meta.Description
	meta.ReferenceNumber = ReversalReference(p.meta.ReferenceNumber)
	return Posting{debit: p.credit, credit: p.debit, amount: p.amount, meta: meta}
}

// ReversalReference número de referencia del reverso de ref.
func ReversalReference(ref string) string { return RefReversal + ref }

// IsReversal indica si ref corresponde a un asiento de reverso.
func IsReversal(ref string) bool { return strings.HasPrefix(ref, RefReversal) }

// FromEntries reconstruye el Posting a partir de sus dos filas.
func FromEntries(rows []entity.AccountingEntry) (Posting, error) {
	if len(rows) != 2 {
		return Posting{}, fmt.Errorf("accounting: se esperaban 2 filas, hay %d", len(rows))
	}
	var debit, credit *entity.AccountingEntry
	for i := range rows {
		switch rows[i].EntryType {
		case entity.Debit:
			debit = &rows[i]
		case entity.Credit:
			credit = &rows[i]
		}
	}
	if debit == nil || credit == nil || !debit.Amount.Equal(credit.Amount) {
		return Posting{}, fmt.Errorf("accounting: asiento %s desbalanceado", rows[0].ReferenceNumber)
	}
	return NewPosting(debit.AccountType, credit.AccountType, debit.Amount, Meta{
		TransactionType:    debit.TransactionType,
		Date:               debit.TransactionDate,
		Description:        debit.Description,
		ReferenceNumber:    debit.ReferenceNumber,
		InvoiceID:          debit.InvoiceID,
		PaymentID:          debit.PaymentID,
		VoucherID:          debit.VoucherID,
		DeveloperPaymentID: debit.DeveloperPaymentID,
		ProjectID:          debit.ProjectID,
		CreatedBy:          debit.CreatedBy,
	})
}

// ── Asientos por evento ──────────────────────────────────────────────────────

// InvoiceCreated Dr cuentas por cobrar / Cr ingresos.
func InvoiceCreated(inv entity.Invoice, projectName string) (Posting, error) {
	return NewPosting(entity.AccountReceivable, entity.AccountRevenue, inv.Amount, Meta{
		TransactionType: entity.TxInvoiceCreated,
		Date:            inv.InvoiceDate,
		Description:     fmt.Sprintf("Factura #%s - %s", inv.ID, projectName),
		ReferenceNumber: RefInvoice + inv.ID,
		InvoiceID:       inv.ID,
		ProjectID:       inv.ProjectID,
		CreatedBy:       inv.CreatedBy,
	})
}

// InvoicePayment Dr caja / Cr cuentas por cobrar.
func InvoicePayment(p entity.Payment, inv entity.Invoice, projectName string) (Posting, error) {
	return NewPosting(entity.AccountCash, entity.AccountReceivable, p.Amount, Meta{
		TransactionType: entity.TxInvoicePayment,
		Date:            p.PaymentDate,
		Description:     fmt.Sprintf("Pago de factura #%s - %s", inv.ID, projectName),
		ReferenceNumber: RefPayment + p.ID,
		InvoiceID:       inv.ID,
		PaymentID:       p.ID,
		ProjectID:       inv.ProjectID,
		CreatedBy:       p.CreatedBy,
	})
}

// VoucherCreated Dr gasto / Cr cuentas por pagar.
func VoucherCreated(v entity.PaymentVoucher, projectName string) (Posting, error) {
	return NewPosting(entity.AccountExpense, entity.AccountPayable, v.Amount, Meta{
		TransactionType: entity.TxVoucherCreated,
		Date:            v.VoucherDate,
		Description:     fmt.Sprintf("Comprobante de pago #%s - %s", v.ID, projectName),
		ReferenceNumber: RefVoucher + v.ID,
		VoucherID:       v.ID,
		ProjectID:       v.ProjectID,
		CreatedBy:       v.CreatedBy,
	})
}

// VoucherPayment Dr cuentas por pagar / Cr caja.
func VoucherPayment(p entity.DeveloperPayment, projectName string) (Posting, error) {
	return NewPosting(entity.AccountPayable, entity.AccountCash, p.Amount, Meta{
		TransactionType:    entity.TxVoucherPayment,
		Date:               p.PaymentDate,
		Description:        fmt.Sprintf("Pago a desarrollador, comprobante #%s - %s", p.VoucherID, projectName),
		ReferenceNumber:    RefDeveloperPayment + p.ID,
		VoucherID:          p.VoucherID,
		DeveloperPaymentID: p.ID,
		ProjectID:          p.ProjectID,
		CreatedBy:          p.CreatedBy,
	})
}

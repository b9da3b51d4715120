package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType evento de negocio que origina un asiento.
type TransactionType string

const (
	TxInvoiceCreated TransactionType = "invoice_created"
	TxInvoicePayment TransactionType = "invoice_payment"
	TxVoucherCreated TransactionType = "voucher_created"
	TxVoucherPayment TransactionType = "voucher_payment"
)

// AccountType cuenta afectada (taxonomía fija).
type AccountType string

const (
	AccountReceivable AccountType = "accounts_receivable"
	AccountRevenue    AccountType = "revenue"
	AccountCash       AccountType = "cash"
	AccountPayable    AccountType = "accounts_payable"
	AccountExpense    AccountType = "expense"
)

// EntryType lado del asiento.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// AccountingEntry fila inmutable del diario. Nunca se actualiza ni se elimina;
// las correcciones se hacen con asientos de reverso.
type AccountingEntry struct {
	ID                 string
	TransactionDate    time.Time
	TransactionType    TransactionType
	AccountType        AccountType
	EntryType          EntryType
	Amount             decimal.Decimal
	Description        string
	ReferenceNumber    string
	InvoiceID          string
	PaymentID          string
	VoucherID          string
	DeveloperPaymentID string
	ProjectID          string
	CreatedBy          string
	CreatedAt          time.Time
}

// ValidTransactionType indica si s es un tipo de transacción conocido.
func ValidTransactionType(s string) bool {
	switch TransactionType(s) {
	case TxInvoiceCreated, TxInvoicePayment, TxVoucherCreated, TxVoucherPayment:
		return true
	}
	return false
}

// ValidAccountType indica si s es una cuenta conocida.
func ValidAccountType(s string) bool {
	switch AccountType(s) {
	case AccountReceivable, AccountRevenue, AccountCash, AccountPayable, AccountExpense:
		return true
	}
	return false
}

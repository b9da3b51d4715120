package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryQuery filtros de GET /api/accounting/entries (y summary/export).
type EntryQuery struct {
	ProjectID       string `query:"project_id"`
	TransactionType string `query:"transaction_type" validate:"omitempty,oneof=invoice_created invoice_payment voucher_created voucher_payment"`
	AccountType     string `query:"account_type" validate:"omitempty,oneof=accounts_receivable revenue cash accounts_payable expense"`
	StartDate       string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// AccountingEntryResponse fila del diario.
type AccountingEntryResponse struct {
	ID                 string          `json:"id"`
	TransactionDate    time.Time       `json:"transaction_date"`
	TransactionType    string          `json:"transaction_type"`
	AccountType        string          `json:"account_type"`
	EntryType          string          `json:"entry_type"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	ReferenceNumber    string          `json:"reference_number"`
	InvoiceID          string          `json:"invoice_id,omitempty"`
	PaymentID          string          `json:"payment_id,omitempty"`
	VoucherID          string          `json:"voucher_id,omitempty"`
	DeveloperPaymentID string          `json:"developer_payment_id,omitempty"`
	ProjectID          string          `json:"project_id,omitempty"`
	CreatedBy          string          `json:"created_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// AccountingSummaryResponse totales del diario. Los signos siguen la naturaleza de cada cuenta.
type AccountingSummaryResponse struct {
	TotalDebits        decimal.Decimal `json:"total_debits"`
	TotalCredits       decimal.Decimal `json:"total_credits"`
	Balance            decimal.Decimal `json:"balance"`
	AccountsReceivable decimal.Decimal `json:"accounts_receivable"`
	AccountsPayable    decimal.Decimal `json:"accounts_payable"`
	CashIn             decimal.Decimal `json:"cash_in"`
	CashOut            decimal.Decimal `json:"cash_out"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	ProfitLoss         decimal.Decimal `json:"profit_loss"`
	EntryCount         int             `json:"entry_count"`
}

// VerifyReport resultado de la verificación de integridad del diario.
type VerifyReport struct {
	OK                   bool            `json:"ok"`
	TotalDebits          decimal.Decimal `json:"total_debits"`
	TotalCredits         decimal.Decimal `json:"total_credits"`
	UnbalancedReferences []string        `json:"unbalanced_references"`
	MissingPostings      []string        `json:"missing_postings"`
	AllocationMismatches []string        `json:"allocation_mismatches"`
	CheckedAt            time.Time       `json:"checked_at"`
}

// BackfillResponse asientos agregados para documentos que no los tenían.
type BackfillResponse struct {
	Posted []string `json:"posted"` // números de referencia
	Count  int      `json:"count"`
}

// ReverseEntryRequest body para POST /api/accounting/reversals.
type ReverseEntryRequest struct {
	ReferenceNumber string `json:"reference_number" validate:"required"`
	Date            string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

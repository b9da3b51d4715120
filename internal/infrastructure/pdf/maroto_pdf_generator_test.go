package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0,00"},
		{"999.5", "$999,50"},
		{"25000", "$25.000,00"},
		{"1000000.1", "$1.000.000,10"},
		{"-1234.5", "-$1.234,50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestGenerateStatementPDF(t *testing.T) {
	st := &reporting.Statement{
		Kind:         reporting.StatementVoucher,
		Reference:    "VCH-123",
		ProjectName:  "Portal",
		Counterparty: "dev-1",
		IssuedBy:     "lead-1",
		Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Period:       "01/02/2026 - 28/02/2026",
		Amount:       decimal.NewFromInt(400),
		TotalPaid:    decimal.NewFromInt(250),
		Remaining:    decimal.NewFromInt(150),
		Status:       billing.StatusPartial,
		Lines: []reporting.StatementLine{
			{Description: "API", Hours: decimal.NewFromInt(10), Rate: decimal.NewFromInt(20), Amount: decimal.NewFromInt(200)},
			{Description: "UI", Hours: decimal.NewFromInt(10), Rate: decimal.NewFromInt(20), Amount: decimal.NewFromInt(200)},
		},
		Payments: []reporting.StatementPayment{
			{Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(250), Notes: "transferencia"},
		},
	}

	out, err := NewMarotoPDFGenerator().GenerateStatementPDF(context.Background(), st)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateStatementPDF_Nil(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateStatementPDF(context.Background(), nil)
	assert.Error(t, err)
}

package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BILLING_AMOUNT_TOLERANCE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.True(t, cfg.Billing.AmountTolerance.Equal(decimal.RequireFromString("0.01")))
}

func TestLoad_BillingFlags(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("BILLING_STRICT_INVOICE_AMOUNT", "true")
	t.Setenv("BILLING_AMOUNT_TOLERANCE", "0.05")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.True(t, cfg.Billing.StrictInvoiceAmount)
	assert.True(t, cfg.Billing.AmountTolerance.Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"driver desconocido", "STORE_DRIVER", "mongo"},
		{"tolerancia no numérica", "BILLING_AMOUNT_TOLERANCE", "abc"},
		{"tolerancia negativa", "BILLING_AMOUNT_TOLERANCE", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv("BILLING_AMOUNT_TOLERANCE", "0.01")
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDSN_EscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ledger?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

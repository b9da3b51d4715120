package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate(secret, "ledger", Claims{UserID: "u1", Role: "project_lead", Name: "Ana"}, time.Hour)
	require.NoError(t, err)

	c, err := Parse(secret, "ledger", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "project_lead", c.Role)
	assert.Equal(t, "Ana", c.Name)
}

func TestParse_Rejects(t *testing.T) {
	valid, err := Generate(secret, "ledger", Claims{UserID: "u1", Role: "developer"}, time.Hour)
	require.NoError(t, err)
	expired, err := Generate(secret, "ledger", Claims{UserID: "u1", Role: "developer"}, -time.Minute)
	require.NoError(t, err)
	noRole, err := Generate(secret, "ledger", Claims{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		issuer string
		token  string
	}{
		{"firma incorrecta", "otra", "", valid},
		{"emisor distinto", secret, "otro", valid},
		{"expirado", secret, "", expired},
		{"sin rol", secret, "", noRole},
		{"basura", secret, "", "abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.secret, tt.issuer, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "", Claims{UserID: "u1", Role: "developer"}, time.Hour)
	assert.Error(t, err)
}

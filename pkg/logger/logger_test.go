package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestWithComponent_KeepsLevel(t *testing.T) {
	l := New(Config{Env: "production", Level: "warn"})
	sub := l.WithComponent("payable")
	assert.Equal(t, zerolog.WarnLevel, sub.GetLevel())
}

func TestNew_ServiceYComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "project-ledger", Out: &buf})
	sub := l.WithComponent("receivable")
	sub.Info().Msg("factura creada")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "project-ledger", ev["service"])
	assert.Equal(t, "receivable", ev["component"])
	assert.Equal(t, "factura creada", ev["message"])
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
)

func setupEnv(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"projects":[{"id":"p1","name":"Portal","project_lead_id":"lead-1"}]}`), 0o600))
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STORE_FIXTURE", path)
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVerify_DiarioVacio(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "verify")
	require.NoError(t, err)

	var report dto.VerifyReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.OK)
	assert.Empty(t, report.MissingPostings)
}

func TestSummary_Filtros(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "summary", "--project", "p1", "--start", "2026-01-01")
	require.NoError(t, err)

	var s dto.AccountingSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 0, s.EntryCount)

	_, err = run(t, "summary", "--start", "01/01/2026")
	assert.Error(t, err)
}

func TestBackfill_SinDocumentos(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "backfill")
	require.NoError(t, err)

	var resp dto.BackfillResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestExport_SinFilas(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "export", "--out", filepath.Join(t.TempDir(), "d.xlsx"))
	assert.ErrorIs(t, err, accounting.ErrNothingToExport)
}

func TestDriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := run(t, "verify")
	assert.Error(t, err)
}

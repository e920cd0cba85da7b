package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hwdiag/internal/engine"
	"github.com/roach88/hwdiag/internal/ir"
	"github.com/roach88/hwdiag/internal/store"
)

// seedHistory logs one consultation per symptom set and returns the db path.
func seedHistory(t *testing.T, consultations ...[]string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	ids := make([]string, len(consultations))
	for i := range ids {
		ids[i] = "hist-" + string(rune('a'+i))
	}
	opts := newTestDiagnose("text", ids...)
	for _, symptoms := range consultations {
		args := append([]string{"--db", dbPath}, symptoms...)
		_, err := execute(t, newDiagnoseCommand(opts), args...)
		require.NoError(t, err)
	}
	return dbPath
}

func TestHistory_ListNewestFirst(t *testing.T) {
	isolateEnv(t)
	dbPath := seedHistory(t, []string{"nao_liga"}, []string{"lento", "pouca_memoria", "uso_disco_alto"})

	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "hist-b  Desempenho lento por gargalo em disco (+1)")
	assert.Contains(t, out, "hist-a  Computador não liga")
	assert.Less(t, strings.Index(out, "hist-b"), strings.Index(out, "hist-a"))
	assert.Contains(t, out, "2026-03-14 09:26:53Z")
}

func TestHistory_Limit(t *testing.T) {
	isolateEnv(t)
	dbPath := seedHistory(t, []string{"nao_liga"}, []string{"sem_video"}, []string{"ruidos"})

	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json"}), "--db", dbPath, "-n", "2")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []ir.LogRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "hist-c", resp.Data[0].ID)
	assert.Equal(t, "hist-b", resp.Data[1].ID)
}

func TestHistory_FilterByRulesHash(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	rulesDir := writeRules(t, benchRules)

	opts := newTestDiagnose("text", "builtin-1", "bench-1", "builtin-2")
	for _, args := range [][]string{
		{"nao_liga"},
		{"nao_liga", "ruidos", "--rules", rulesDir},
		{"sem_video"},
	} {
		_, err := execute(t, newDiagnoseCommand(opts), append([]string{"--db", dbPath}, args...)...)
		require.NoError(t, err)
	}

	builtinHash := engine.Default().RulesHash()
	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json"}),
		"--db", dbPath, "--rules-hash", shortHash(builtinHash))
	require.NoError(t, err)

	var resp struct {
		Data []ir.LogRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, []string{"builtin-2", "builtin-1"}, []string{resp.Data[0].ID, resp.Data[1].ID})

	// Upper-case input is accepted.
	out, err = execute(t, NewHistoryCommand(&RootOptions{Format: "text"}),
		"--db", dbPath, "--rules-hash", strings.ToUpper(shortHash(builtinHash)), "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "builtin-2")
	assert.NotContains(t, out, "builtin-1")
	assert.NotContains(t, out, "bench-1")
}

func TestHistory_InvalidRulesHash(t *testing.T) {
	isolateEnv(t)
	dbPath := seedHistory(t, []string{"nao_liga"})

	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--rules-hash", "not-hex")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E007]")
}

func TestHistory_ShowRecord(t *testing.T) {
	isolateEnv(t)
	dbPath := seedHistory(t, []string{"superaquecendo", "reinicia_sozinho"})

	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "hist-a", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Record hist-a")
	assert.Contains(t, out, "Symptoms:  superaquecendo + reinicia_sozinho")
	assert.Contains(t, out, "bancada-01 (linux 6.8.0), 8 CPUs")
	assert.Contains(t, out, "1. Reinicializações devido a superaquecimento")
}

func TestHistory_RecordNotFound(t *testing.T) {
	isolateEnv(t)
	dbPath := seedHistory(t, []string{"nao_liga"})

	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "nope", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestHistory_NotConfigured(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json"}))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotConfigured, resp.Error.Code)
}

func TestHistory_MissingDatabaseFile(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "absent.db")

	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, out, "log database not found")
	assert.NoFileExists(t, dbPath)
}

func TestHistory_Empty(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No consultations logged.")
}

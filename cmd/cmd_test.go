package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProgressFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	history := `[
		{"subject": "math", "level": "easy", "result": "pass", "created_at": "2026-03-01T10:00:00Z"},
		{"subject": "math", "level": "medium", "result": "fail", "attempts_medium": 1, "created_at": "2026-03-02T10:00:00Z"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(history), 0o644))

	out, err := execute(t, "progress", "--file", path, "--subject", "physics", "--json")
	require.NoError(t, err)

	var p progression.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.True(t, p.Lock.IsLocked)
	assert.Equal(t, progression.ReasonPhysicsLocked, p.Lock.Reason)

	out, err = execute(t, "progress", "--file", path, "--subject", "math", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Mathematics  (1/3 completed)")
	assert.Contains(t, out, "Medium   Current    1 attempt(s)")
}

func TestProgressRequiresSource(t *testing.T) {
	_, err := execute(t, "progress", "--file", "", "--student", "", "--subject", "")
	require.Error(t, err)
}

func TestAttemptLifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")

	out, err := execute(t, "attempt", "start", "--db", db, "--student", "stu-1", "--subject", "math", "--level", "easy")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Started Mathematics easy test "), out)
	id := strings.TrimSpace(strings.TrimPrefix(out, "Started Mathematics easy test "))

	out, err = execute(t, "attempt", "start", "--db", db, "--student", "stu-1", "--subject", "math", "--level", "easy")
	require.NoError(t, err)
	assert.Equal(t, "Resumed Mathematics easy test "+id+"\n", out)

	out, err = execute(t, "attempt", "start", "--db", db, "--student", "stu-1", "--subject", "physics", "--level", "easy")
	require.NoError(t, err)
	assert.Contains(t, out, progression.ReasonPhysicsLocked)

	out, err = execute(t, "attempt", "score", "--db", db, id, "pass")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics easy: pass (1 attempt(s))\n", out)

	out, err = execute(t, "attempt", "score", "--db", db, id, "fail")
	require.NoError(t, err)
	assert.Contains(t, out, "already scored")

	out, err = execute(t, "attempt", "list", "--db", db, "--student", "stu-1")
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = execute(t, "students", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "stu-1")
}

func TestLLMCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")

	out, err := execute(t, "llm", "stats", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No LLM requests recorded.\n", out)

	st, err := store.Open(db)
	require.NoError(t, err)
	events := st.EventRepo()
	require.NoError(t, events.AppendLLMRequest(t.Context(), store.LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "review",
		InputTokens: 1500, OutputTokens: 400, LatencyMs: 900, Success: true,
		RequestBody: "[user]\nSubject: Physics", ResponseBody: `{"title":"Kinematics"}`,
	}))
	require.NoError(t, events.AppendLLMRequest(t.Context(), store.LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "review", ErrorMessage: "mock: llm provider unavailable",
	}))
	require.NoError(t, st.Close())

	out, err = execute(t, "llm", "list", "--db", db, "--limit", "10", "--purpose", "")
	require.NoError(t, err)
	assert.Contains(t, out, "claude-haiku-4-5-20251001")
	assert.Contains(t, out, "1,900")
	assert.Contains(t, out, "✗")

	out, err = execute(t, "llm", "list", "--db", db, "--limit", "10", "--purpose", "practice")
	require.NoError(t, err)
	assert.Equal(t, "No LLM requests recorded.\n", out)

	out, err = execute(t, "llm", "view", "--db", db, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "claude-haiku-4-5-20251001 via anthropic")
	assert.Contains(t, out, "Subject: Physics")
	assert.Contains(t, out, `{"title":"Kinematics"}`)

	_, err = execute(t, "llm", "view", "--db", db, "99")
	assert.ErrorIs(t, err, store.ErrNotFound)

	out, err = execute(t, "llm", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "review")
	assert.Contains(t, out, "$0.0035")
	assert.Contains(t, out, "Total (excluding unpriced models): $0.0035")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "admitflow "+resolvedVersion()+"\n", out)

	saved := version
	version = "v1.4.0"
	t.Cleanup(func() { version = saved })
	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "admitflow v1.4.0\n", out)
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: smoke
description: A minimal passing scenario
run_id: run-smoke
steps:
  - type: wait
    ms: 1
assertions:
  - type: report_count
    count: 2
`

const failingScenario = `
name: count-off
description: The count assertion misses on purpose
steps:
  - type: wait
    ms: 1
assertions:
  - type: report_count
    count: 99
`

// execute runs the root command with the given args and captures output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate_ValidScenario(t *testing.T) {
	path := writeScenario(t, "smoke.yaml", passingScenario)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 1 scenario(s) valid")
}

func TestValidate_SchemaFailure(t *testing.T) {
	path := writeScenario(t, "bad.yaml", `
name: bad
description: Step type outside the enum
steps:
  - type: teleport
assertions:
  - type: report_count
    count: 1
`)

	out, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, path)
}

func TestValidate_UnreadableFileIsCommandError(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_JSONOutput(t *testing.T) {
	path := writeScenario(t, "smoke.yaml", passingScenario)

	out, _, err := execute(t, "--format", "json", "validate", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestRun_PassingScenario(t *testing.T) {
	path := writeScenario(t, "smoke.yaml", passingScenario)

	out, _, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ smoke")
	assert.Contains(t, out, "1 passed, 0 failed")
}

func TestRun_FailingScenario(t *testing.T) {
	path := writeScenario(t, "count-off.yaml", failingScenario)

	out, _, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ count-off")
	assert.Contains(t, out, "0 passed, 1 failed")
	assert.Contains(t, out, "Assertion failed: report_count")
}

func TestRun_VerbosePrintsTranscript(t *testing.T) {
	path := writeScenario(t, "smoke.yaml", passingScenario)

	out, _, err := execute(t, "--verbose", "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Step wait")
	assert.Contains(t, out, "[OK] Step cleanup")
}

func TestRun_MissingFileIsCommandError(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_JSONOutput(t *testing.T) {
	path := writeScenario(t, "smoke.yaml", passingScenario)

	out, _, err := execute(t, "--format", "json", "run", path)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Pass)
	require.Len(t, resp.Data.Outcomes, 1)
	assert.Equal(t, "run-smoke", resp.Data.Outcomes[0].RunID)
}

func TestRunAndTrace_Persistence(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "smoke.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(passingScenario), 0o644))
	dbPath := filepath.Join(dir, "trace.db")

	_, _, err := execute(t, "run", "--db", dbPath, scenarioPath)
	require.NoError(t, err)

	// Listing runs shows the pinned run id.
	out, _, err := execute(t, "trace", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "run-smoke")

	// Listing one run prints its reports in order.
	out, _, err = execute(t, "trace", dbPath, "run-smoke")
	require.NoError(t, err)
	assert.Contains(t, out, "   1  [OK] Step wait")
	assert.Contains(t, out, "   2  [OK] Step cleanup")
}

func TestTrace_MissingDatabaseIsCommandError(t *testing.T) {
	_, _, err := execute(t, "trace", filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTrace_UnknownRunIsCommandError(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "smoke.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(passingScenario), 0o644))
	dbPath := filepath.Join(dir, "trace.db")

	_, _, err := execute(t, "run", "--db", dbPath, scenarioPath)
	require.NoError(t, err)

	_, _, err = execute(t, "trace", dbPath, "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	path := writeScenario(t, "smoke.yaml", passingScenario)

	_, _, err := execute(t, "--format", "xml", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))

	wrapped := WrapExitError(ExitFailure, "outer", errors.New("inner"))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Equal(t, "outer: inner", wrapped.Error())
}

//go:build integration

package integration

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

type habit struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Cadence  string `json:"cadence"`
	Archived bool   `json:"archived"`
}

// TestSmokeHelp verifies the hb binary runs and prints help.
func TestSmokeHelp(t *testing.T) {
	e := newEnv(t)
	stdout, _ := e.mustRun(nil, "--help")
	if !strings.Contains(stdout, "habits") {
		t.Errorf("expected help to mention habits, got:\n%s", stdout)
	}
}

// TestSmokeFreshInstall checks that the first run creates the default
// database and writes the empty state.
func TestSmokeFreshInstall(t *testing.T) {
	e := newEnv(t)
	stdout, _ := e.mustRun(nil, "export")
	if strings.TrimSpace(stdout) != `{"version":1,"habits":[]}` {
		t.Errorf("fresh export = %q", stdout)
	}
	if _, err := os.Stat(e.dbPath); err != nil {
		t.Errorf("expected database at %s: %v", e.dbPath, err)
	}
}

// TestSmokePersistsAcrossProcesses adds and archives in separate processes.
func TestSmokePersistsAcrossProcesses(t *testing.T) {
	e := newEnv(t)

	stdout, _ := e.mustRun(nil, "add", "Read 20 pages", "--cadence", "daily", "--json")
	var h habit
	if err := json.Unmarshal([]byte(stdout), &h); err != nil {
		t.Fatalf("parse add output: %v\n%s", err, stdout)
	}
	e.mustRun(nil, "add", "Call home", "--cadence", "weekly")
	e.mustRun(nil, "archive", h.ID)

	stdout, _ = e.mustRun(nil, "list", "--all", "--json")
	var list []habit
	if err := json.Unmarshal([]byte(stdout), &list); err != nil {
		t.Fatalf("parse list output: %v\n%s", err, stdout)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(list))
	}
	if list[0].ID != h.ID || !list[0].Archived {
		t.Errorf("first habit = %+v, want archived %s", list[0], h.ID)
	}
	if list[1].Title != "Call home" || list[1].Archived {
		t.Errorf("second habit = %+v", list[1])
	}
}

// TestSmokeImportFromStdin restores an export piped on stdin.
func TestSmokeImportFromStdin(t *testing.T) {
	src := newEnv(t)
	src.mustRun(nil, "add", "Meditate")
	src.mustRun(nil, "add", "Budget review", "--cadence", "monthly")
	exported, _ := src.mustRun(nil, "export")

	dst := newEnv(t)
	stdout, _ := dst.mustRun([]byte(exported), "import", "-")
	if !strings.Contains(stdout, "imported 2 habits") {
		t.Errorf("import output = %q", stdout)
	}
	again, _ := dst.mustRun(nil, "export")
	if again != exported {
		t.Errorf("export after import = %q, want %q", again, exported)
	}
}

// TestSmokeRejectsBadImport leaves state alone and exits non-zero.
func TestSmokeRejectsBadImport(t *testing.T) {
	e := newEnv(t)
	e.mustRun(nil, "add", "Keep")
	before, _ := e.mustRun(nil, "export")

	_, stderr, err := e.run([]byte(`{"habits":"nope"}`), "import", "-")
	if err == nil {
		t.Fatal("expected import to fail")
	}
	if !strings.Contains(stderr, "not a valid habits export") {
		t.Errorf("stderr = %q", stderr)
	}
	after, _ := e.mustRun(nil, "export")
	if after != before {
		t.Errorf("state changed: %q -> %q", before, after)
	}
}

// TestSmokeConfigFormat verifies default_format from config.toml.
func TestSmokeConfigFormat(t *testing.T) {
	e := newEnv(t)
	e.writeConfig("default_format = \"yaml\"\n")
	e.mustRun(nil, "add", "Stretch", "--cadence", "custom")

	stdout, _ := e.mustRun(nil, "list")
	if !strings.Contains(stdout, "title: Stretch") || !strings.Contains(stdout, "cadence: custom") {
		t.Errorf("expected yaml list, got:\n%s", stdout)
	}
}

// TestSmokeVerboseLogsToStderr checks that --verbose writes zap output to
// stderr only.
func TestSmokeVerboseLogsToStderr(t *testing.T) {
	e := newEnv(t)
	stdout, stderr := e.mustRun(nil, "list", "--json", "--verbose")
	if strings.TrimSpace(stdout) != "[]" {
		t.Errorf("stdout = %q", stdout)
	}
	if stderr == "" {
		t.Error("expected debug logging on stderr")
	}
}

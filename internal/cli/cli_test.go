package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/scbrown/habits/internal/config"
	"github.com/scbrown/habits/internal/habits"
)

// captureStdout runs fn while capturing stdout, returning the output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-done
}

// resetFlags restores every package-level flag variable and clears the
// Changed bit cobra leaves set between Execute calls.
func resetFlags() {
	backendName = "sqlite"
	redisAddr = "localhost:6379"
	redisDB = 0
	storageKey = habits.DefaultKey
	jsonOutput = false
	outputFormat = "table"
	logLevel = ""
	verbose = false
	listAll, listArchived, listCadence = false, false, ""
	addCadence = "daily"
	exportOutput = ""
	resetYes = false

	unset := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(unset)
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(unset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// setupCLI points the CLI at a fresh temp directory and returns its path.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.toml")
	dbPath = filepath.Join(dir, "habits.db")
	resetFlags()
	t.Cleanup(func() {
		configPath = config.Path()
		dbPath = defaultDBPath()
		resetFlags()
	})
	return dir
}

// runCLI executes hb with args against the test database and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	args = append(args, "--db", dbPath)
	var err error
	out := captureStdout(t, func() {
		rootCmd.SetArgs(args)
		err = rootCmd.Execute()
	})
	return out, err
}

// mustRun is runCLI that fails the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("hb %v: %v", args, err)
	}
	return out
}

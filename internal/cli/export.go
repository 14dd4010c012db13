package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scbrown/habits/internal/habits"
)

var (
	exportOutput string
	resetYes     bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all habits as JSON",
	Long: `Export writes the complete habit state ({"version":..., "habits":[...]})
as a single line of JSON, exactly as it is stored. The output can be fed
back to hb import on this or another machine.

Output goes to stdout unless -o is given.`,
	Example: `  hb export > backup.json
  hb export -o ~/habits-backup.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hs, closeFn, err := openHabits(context.Background())
		if err != nil {
			return err
		}
		defer closeFn()

		text, err := hs.ExportJSON()
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if exportOutput == "" || exportOutput == "-" {
			fmt.Println(text)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(exportOutput), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := os.WriteFile(exportOutput, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(os.Stderr, "exported %d habits to %s\n", len(hs.Habits()), exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace habits from an exported JSON file",
	Long: `Import reads JSON produced by hb export and applies it to the stored
state. Each top-level field present in the file ("version", "habits")
replaces the current one; a file without "habits" leaves the list alone.

The file is validated first. If it is not valid JSON, or holds duplicate
ids, unknown cadences or empty titles, nothing is changed and the command
fails. Use - to read from stdin.`,
	Example: `  hb import backup.json
  cat backup.json | hb import -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		hs, closeFn, err := openHabits(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := hs.ImportJSON(ctx, strings.TrimSpace(string(data))); err != nil {
			if errors.Is(err, habits.ErrDecode) {
				return fmt.Errorf("%s is not a valid habits export: %w", args[0], err)
			}
			return err
		}
		if jsonOutput {
			return writeStructured(os.Stdout, "json", hs.Snapshot())
		}
		fmt.Printf("imported %d habits\n", len(hs.Habits()))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all habits and start over",
	Long: `Reset deletes the stored habit state and writes an empty one, leaving
storage as it is on a fresh install. This cannot be undone; run
hb export first if you may want the data back.`,
	Example: `  hb export -o before-reset.json && hb reset --yes`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("reset deletes every habit; pass --yes to confirm")
		}
		ctx := context.Background()
		hs, closeFn, err := openHabits(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := hs.ResetStorage(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Println("habit storage reset")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deleting all habits")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

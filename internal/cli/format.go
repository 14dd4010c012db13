package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scbrown/habits/internal/model"
)

// format returns the output format chosen by --json, --format or config.
func format() (string, error) {
	if jsonOutput {
		return "json", nil
	}
	switch outputFormat {
	case "", "table":
		return "table", nil
	case "json", "yaml":
		return outputFormat, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use table, json or yaml)", outputFormat)
	}
}

// writeStructured writes v as indented JSON or as YAML.
func writeStructured(w io.Writer, f string, v any) error {
	switch f {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", f)
	}
}

// status returns the display label for a habit's archived flag.
func status(h model.Habit) string {
	if h.Archived {
		return "archived"
	}
	return "active"
}

// formatCreated formats a creation timestamp in local time.
func formatCreated(h model.Habit) string {
	return h.Created().Local().Format("2006-01-02 15:04")
}

// printHabit writes a single habit in the chosen format.
func printHabit(h model.Habit) error {
	f, err := format()
	if err != nil {
		return err
	}
	if f != "table" {
		return writeStructured(os.Stdout, f, h)
	}
	fmt.Printf("ID:       %s\n", h.ID)
	fmt.Printf("Title:    %s\n", h.Title)
	fmt.Printf("Cadence:  %s\n", h.Cadence)
	fmt.Printf("Status:   %s\n", status(h))
	fmt.Printf("Created:  %s\n", h.Created().Local().Format(time.RFC3339))
	return nil
}

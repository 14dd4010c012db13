package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scbrown/habits/internal/model"
)

var addCadence string

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Start tracking a new habit",
	Long: `Add creates a new active habit with the given title and cadence.
Multiple arguments are joined with spaces, so quoting the title is optional.
A note is printed to stderr when an existing habit has a similar title.`,
	Example: `  hb add "Drink water"
  hb add Call home --cadence weekly
  hb add Budget review --cadence monthly --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cadence, err := model.ParseCadence(addCadence)
		if err != nil {
			return err
		}
		title := strings.TrimSpace(strings.Join(args, " "))

		hs, closeFn, err := openHabits(context.Background())
		if err != nil {
			return err
		}
		defer closeFn()

		for _, dup := range hs.SimilarHabits(title) {
			fmt.Fprintf(os.Stderr, "note: similar habit %s %q (%s, %s)\n", dup.ID, dup.Title, dup.Cadence, status(dup))
		}

		h, err := hs.AddHabit(context.Background(), title, cadence)
		if err != nil {
			return fmt.Errorf("add habit: %w", err)
		}

		f, err := format()
		if err != nil {
			return err
		}
		if f != "table" {
			return printHabit(h)
		}
		fmt.Printf("added %s %q (%s)\n", h.ID, h.Title, h.Cadence)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addCadence, "cadence", "c", string(model.Daily), "how often: daily, weekly, monthly or custom")
	rootCmd.AddCommand(addCmd)
}

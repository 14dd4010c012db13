package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scbrown/habits/internal/model"
)

var (
	listAll      bool
	listArchived bool
	listCadence  string
)

// fixedListWidth is the width taken by every list column except TITLE.
const fixedListWidth = 36 + 9 + 10 + 18 + 8

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked habits",
	Long: `List displays habits in the order they were added.

By default only active habits are shown. Use --all to include archived
habits, or --archived to show only archived ones.`,
	Example: `  hb list
  hb list --all
  hb list --archived --cadence weekly
  hb list --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listAll && listArchived {
			return fmt.Errorf("--all and --archived cannot be combined")
		}
		var cadence model.Cadence
		if listCadence != "" {
			c, err := model.ParseCadence(listCadence)
			if err != nil {
				return err
			}
			cadence = c
		}
		f, err := format()
		if err != nil {
			return err
		}

		hs, closeFn, err := openHabits(context.Background())
		if err != nil {
			return err
		}
		defer closeFn()

		var list []model.Habit
		switch {
		case listAll:
			list = hs.Habits()
		case listArchived:
			list = hs.Archived()
		default:
			list = hs.Active()
		}
		if cadence != "" {
			list = filterCadence(list, cadence)
		}

		if f != "table" {
			return writeStructured(os.Stdout, f, list)
		}
		if len(list) == 0 {
			fmt.Println("No habits found.")
			return nil
		}
		return printHabitTable(list)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "include archived habits")
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "show only archived habits")
	listCmd.Flags().StringVar(&listCadence, "cadence", "", "only show habits with this cadence")
	rootCmd.AddCommand(listCmd)
}

func filterCadence(list []model.Habit, c model.Cadence) []model.Habit {
	out := []model.Habit{}
	for _, h := range list {
		if h.Cadence == c {
			out = append(out, h)
		}
	}
	return out
}

func printHabitTable(list []model.Habit) error {
	tbl := NewTable(os.Stdout, "ID", "TITLE", "CADENCE", "STATUS", "CREATED")
	maxTitle := tbl.Width() - fixedListWidth
	if maxTitle < 20 {
		maxTitle = 20
	}
	for _, h := range list {
		tbl.Row(h.ID, truncate(h.Title, maxTitle), string(h.Cadence), status(h), formatCreated(h))
	}
	return tbl.Flush()
}

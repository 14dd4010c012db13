package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scbrown/habits/internal/habits"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single habit",
	Example: `  hb show 3f2a9c1e-8b7d-4e6f-a5c4-1b2d3e4f5a6b
  hb show 3f2a9c1e-8b7d-4e6f-a5c4-1b2d3e4f5a6b --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hs, closeFn, err := openHabits(context.Background())
		if err != nil {
			return err
		}
		defer closeFn()

		h, ok := hs.FetchByID(args[0])
		if !ok {
			return unknownID(hs, args[0])
		}
		return printHabit(h)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// unknownID builds the error for a missing id, suggesting the closest ids.
func unknownID(hs *habits.Store, id string) error {
	list := hs.Habits()
	ids := make([]string, len(list))
	for i, h := range list {
		ids[i] = h.ID
	}
	if sg := habits.Suggest(id, ids, 1, habits.DefaultThreshold); len(sg) > 0 {
		return fmt.Errorf("no habit with id %q (did you mean %s?)", id, sg[0].Value)
	}
	return fmt.Errorf("no habit with id %q", id)
}

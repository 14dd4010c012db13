package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <id>...",
	Short: "Mark habits as no longer active",
	Long: `Archive hides habits from the default list without deleting them.
Archiving is idempotent: archiving an archived habit or an unknown id
changes nothing. There is no way to un-archive.`,
	Example: `  hb archive 3f2a9c1e-8b7d-4e6f-a5c4-1b2d3e4f5a6b
  hb list --archived`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		hs, closeFn, err := openHabits(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		for _, id := range args {
			if _, ok := hs.FetchByID(id); !ok {
				fmt.Fprintf(os.Stderr, "%v; skipping\n", unknownID(hs, id))
				continue
			}
			if err := hs.ArchiveHabit(ctx, id); err != nil {
				return fmt.Errorf("archive %s: %w", id, err)
			}
			if !jsonOutput {
				fmt.Printf("archived %s\n", id)
			}
		}
		if jsonOutput {
			return writeStructured(os.Stdout, "json", hs.Archived())
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete habits permanently",
	Example: `  hb remove 3f2a9c1e-8b7d-4e6f-a5c4-1b2d3e4f5a6b
  hb rm id1 id2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		hs, closeFn, err := openHabits(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		removed := []string{}
		for _, id := range args {
			_, existed := hs.FetchByID(id)
			if err := hs.RemoveHabit(ctx, id); err != nil {
				return fmt.Errorf("remove %s: %w", id, err)
			}
			if existed {
				removed = append(removed, id)
			}
			if jsonOutput {
				continue
			}
			if existed {
				fmt.Printf("removed %s\n", id)
			} else {
				fmt.Fprintf(os.Stderr, "no habit with id %q\n", id)
			}
		}
		if jsonOutput {
			return writeStructured(os.Stdout, "json", map[string]any{"removed": removed})
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(removeCmd)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scbrown/habits/internal/habits"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics about tracked habits",
	Long: `Display a summary of the habit list: total, active and archived
counts, a per-cadence breakdown, and when the oldest and newest habits
were added.`,
	Example: `  hb stats
  hb stats --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := format()
		if err != nil {
			return err
		}
		hs, closeFn, err := openHabits(context.Background())
		if err != nil {
			return err
		}
		defer closeFn()

		st := hs.Stats()
		if f != "table" {
			return writeStructured(os.Stdout, f, st)
		}
		return printStatsText(st)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printStatsText(st habits.Stats) error {
	color := isTTY(os.Stdout)

	fmt.Printf("Total habits:   %d\n", st.Total)
	fmt.Printf("Active:         %d\n", st.Active)
	fmt.Printf("Archived:       %d\n", st.Archived)
	fmt.Printf("Schema version: %d\n", st.Version)

	if st.Total == 0 {
		return nil
	}

	fmt.Printf("\n%s\n", bold("By cadence:", color))
	tbl := NewTable(os.Stdout, "CADENCE", "ACTIVE", "ARCHIVED")
	for _, c := range st.ByCadence {
		tbl.Row(string(c.Cadence), strconv.Itoa(c.Active), strconv.Itoa(c.Archived))
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nFirst added:    %s\n", st.Earliest.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Last added:     %s\n", st.Latest.Local().Format("2006-01-02 15:04"))
	return nil
}

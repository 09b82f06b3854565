package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/vidfeed/internal/tui/theme"
	"github.com/glabrego/vidfeed/internal/tui/view"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show recommendation stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			stats, err := rt.service.Stats(cmd.Context())
			if err != nil {
				return err
			}
			for _, line := range view.StatsLines(stats, time.Now(), theme.Default()) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

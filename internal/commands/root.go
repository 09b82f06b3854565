package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the vidfeed command tree. Running it without a
// subcommand starts the TUI.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "vidfeed",
		Short: "Terminal client for a personal video-feed aggregator",
		Long: `vidfeed browses the video feed served by the aggregator backend.

Commands:
  tui                          Interactive feed browser (default)
  subs list|add|remove         Manage channel subscriptions
  subs export|import           Back up or restore subscriptions as YAML
  stats                        Show recommendation stats
  sync                         Post pending engagement events and refresh the offline cache

Configuration comes from VIDFEED_* environment variables, optionally on top
of a YAML file named by VIDFEED_CONFIG.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}

	root.AddCommand(newTUICmd())
	root.AddCommand(newSubsCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newSyncCmd())
	return root
}

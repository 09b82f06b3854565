package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glabrego/vidfeed/internal/app"
	"github.com/glabrego/vidfeed/internal/feedapi"
)

func newSubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subs",
		Short: "Manage channel subscriptions",
	}
	cmd.AddCommand(newSubsListCmd(), newSubsAddCmd(), newSubsRemoveCmd(), newSubsExportCmd(), newSubsImportCmd())
	return cmd
}

func newSubsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subscribed channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			subs, err := rt.service.Subscriptions(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(out, "No subscriptions yet. Add one with: vidfeed subs add <name> <url>")
				return nil
			}
			for i, sub := range subs {
				fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, sub.Name, sub.URL)
			}
			fmt.Fprintf(out, "Total: %d subscriptions\n", len(subs))
			return nil
		},
	}
}

func newSubsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Subscribe to a channel feed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, url := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if name == "" || url == "" {
				return errors.New("name and url must not be empty")
			}
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			added, err := rt.service.AddSubscription(cmd.Context(), feedapi.Subscription{Name: name, URL: url})
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(cmd.OutOrStdout(), "Already subscribed to %s\n", url)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subscribed to %s\n", name)
			return nil
		},
	}
}

func newSubsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name-or-url>",
		Short: "Unsubscribe from a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			err = rt.service.RemoveSubscription(cmd.Context(), args[0])
			if errors.Is(err, app.ErrSubscriptionNotFound) {
				return fmt.Errorf("no subscription matches %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newSubsExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write subscriptions as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if output == "" || output == "-" {
				return rt.service.ExportSubscriptions(cmd.Context(), cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := rt.service.ExportSubscriptions(cmd.Context(), f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func newSubsImportCmd() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add subscriptions from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := rt.service.ImportSubscriptions(cmd.Context(), f, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subscriptions after import: %d\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the whole list instead of merging")
	return cmd
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/vidfeed/internal/session"
	"github.com/glabrego/vidfeed/internal/storage"
)

const sentEventRetention = 7 * 24 * time.Hour

func newSyncCmd() *cobra.Command {
	var pages int
	var viewName string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Post pending engagement events and refresh the offline cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			out := cmd.OutOrStdout()

			res, err := rt.tracker.Flush(ctx)
			if err != nil {
				return fmt.Errorf("flush engagement events: %w", err)
			}
			pending, err := rt.repo.CountEvents(ctx, storage.EventPending)
			if err != nil {
				return err
			}
			pruned, err := rt.repo.PruneSentEvents(ctx, time.Now().Add(-sentEventRetention))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Events: %d sent, %d failed, %d still pending, %d old rows pruned\n", res.Sent, res.Failed, pending, pruned)

			if pages <= 0 {
				return nil
			}
			view := rt.cfg.InitialView()
			if viewName != "" {
				if view, err = session.ParseView(viewName); err != nil {
					return err
				}
			}
			loaded, err := prefetch(ctx, rt, view, rt.cfg.InitialSort(), pages)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Cached %d videos for view %s\n", loaded, view)
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "feed pages to prefetch into the offline cache (0 to skip)")
	cmd.Flags().StringVar(&viewName, "view", "", "view to prefetch (default from config)")
	return cmd
}

// prefetch walks the feed the same way the TUI does, through a session
// engine, so the cache sees the same pages.
func prefetch(ctx context.Context, rt *runtime, view session.View, sortBy session.Sort, pages int) (int, error) {
	engine := session.NewEngine(view, sortBy, session.Options{Logger: rt.log})
	req, ok := engine.LoadPage(true)
	for i := 0; ok && i < pages; i++ {
		page, err := rt.service.FetchPage(ctx, req)
		if err != nil {
			engine.FailFetch(req, err)
			return engine.VisibleCount(), err
		}
		out := engine.CompleteFetch(req, page)
		if out.Backfill != nil {
			req, ok = *out.Backfill, true
			continue
		}
		req, ok = engine.LoadPage(false)
	}
	return engine.VisibleCount(), nil
}

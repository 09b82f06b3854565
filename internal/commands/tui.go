package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/vidfeed/internal/session"
	"github.com/glabrego/vidfeed/internal/storage"
	"github.com/glabrego/vidfeed/internal/tui"
)

const (
	offlineSeedLimit = 50
	// scrollProximityRows is how close to the last row the cursor window
	// may get before the next page is requested.
	scrollProximityRows = 3
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the feed interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}
}

func runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	rt, err := openRuntime(startCtx)
	if err != nil {
		return err
	}
	defer rt.Close()

	prefs, found, err := rt.service.LoadUIPreferences(startCtx)
	if err != nil {
		rt.log.Warn("could not load UI preferences, using defaults", "error", err)
	}
	if !found {
		prefs = storage.UIPreferences{RelativeTime: true}
	}
	view, sortBy := startingPosition(rt.cfg.InitialView(), rt.cfg.InitialSort(), prefs)

	engine := session.NewEngine(view, sortBy, session.Options{
		MinVisible:        session.DefaultMinVisible,
		ScrollProximity:   scrollProximityRows,
		RollbackOnFailure: rt.cfg.Rollback,
		Logger:            rt.log,
	})

	cacheStart := time.Now()
	cached, err := rt.service.ListCached(startCtx, view, offlineSeedLimit)
	if err != nil {
		rt.log.Warn("cannot load cached videos", "error", err)
	}
	seeded := engine.Seed(cached)
	rt.log.Info("tui starting", "view", view, "sort", sortBy, "cached", seeded, "cache_ms", time.Since(cacheStart).Milliseconds())

	model := tui.NewModel(rt.service, rt.tracker, engine)
	model.SetLogger(rt.log)
	model.ApplyPreferences(prefs)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	res, err := rt.tracker.Flush(flushCtx)
	if err != nil {
		rt.log.Warn("final engagement flush failed", "error", err)
	}
	rt.log.Info("tui stopped", "events_sent", res.Sent, "events_failed", res.Failed)
	return nil
}

// startingPosition prefers the view and sort saved by the last session.
func startingPosition(view session.View, sortBy session.Sort, prefs storage.UIPreferences) (session.View, session.Sort) {
	if v, err := session.ParseView(prefs.View); err == nil {
		view = v
	}
	if s, err := session.ParseSort(prefs.Sort); err == nil {
		sortBy = s
	}
	return view, sortBy
}

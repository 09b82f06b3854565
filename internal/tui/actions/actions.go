package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/vidfeed/internal/app"
	"github.com/glabrego/vidfeed/internal/engagement"
	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/session"
	"github.com/glabrego/vidfeed/internal/storage"
)

const (
	fetchTimeout  = 12 * time.Second
	actionTimeout = 10 * time.Second
	trackTimeout  = 15 * time.Second
)

type Service interface {
	FetchPage(ctx context.Context, req session.FetchRequest) (feedapi.FeedPage, error)
	FetchDiscover(ctx context.Context, sortBy session.Sort) ([]feedapi.Video, error)
	PerformAction(ctx context.Context, req session.ActionRequest) error
	Stats(ctx context.Context) (feedapi.Stats, error)
	SaveUIPreferences(ctx context.Context, prefs storage.UIPreferences) error
}

type Tracker interface {
	Record(ctx context.Context, events []engagement.Event) error
	RecordAndFlush(ctx context.Context, events []engagement.Event) (app.FlushResult, error)
}

type FetchSuccessMsg struct {
	Req      session.FetchRequest
	Page     feedapi.FeedPage
	Duration time.Duration
}

type FetchErrorMsg struct {
	Req session.FetchRequest
	Err error
}

type DiscoverSuccessMsg struct {
	Videos []feedapi.Video
}

type DiscoverErrorMsg struct {
	Err error
}

// ActionDoneMsg settles one optimistic mutation. Err is nil on success.
type ActionDoneMsg struct {
	Req session.ActionRequest
	Err error
}

type StatsSuccessMsg struct {
	Stats feedapi.Stats
}

type StatsErrorMsg struct {
	Err error
}

type TrackDoneMsg struct {
	Result app.FlushResult
	Err    error
}

type SearchTickMsg struct {
	Token uint64
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ThumbnailSuccessMsg struct {
	Key     string
	Preview string
}

type ThumbnailErrorMsg struct {
	Key string
	Err error
}

type PreferenceSaveErrorMsg struct {
	Err error
}

// FetchCmd runs one page fetch under parent, which the caller cancels when
// the session generation changes. Both outcomes carry the request so the
// engine can tell stale results apart; a panic in the service settles as a
// FetchErrorMsg.
func FetchCmd(parent context.Context, service Service, req session.FetchRequest) tea.Cmd {
	return func() (msg tea.Msg) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		// The engine stays loading until this request settles.
		defer func() {
			if r := recover(); r != nil {
				msg = FetchErrorMsg{Req: req, Err: fmt.Errorf("load page %d: panic: %v", req.Page, r)}
			}
		}()
		start := time.Now()

		page, err := service.FetchPage(ctx, req)
		if err != nil {
			return FetchErrorMsg{Req: req, Err: err}
		}
		return FetchSuccessMsg{Req: req, Page: page, Duration: time.Since(start)}
	}
}

func DiscoverCmd(service Service, sortBy session.Sort) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		videos, err := service.FetchDiscover(ctx, sortBy)
		if err != nil {
			return DiscoverErrorMsg{Err: err}
		}
		return DiscoverSuccessMsg{Videos: videos}
	}
}

func ActionCmd(service Service, req session.ActionRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		return ActionDoneMsg{Req: req, Err: service.PerformAction(ctx, req)}
	}
}

func StatsCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		stats, err := service.Stats(ctx)
		if err != nil {
			return StatsErrorMsg{Err: err}
		}
		return StatsSuccessMsg{Stats: stats}
	}
}

// TrackCmd records events and tries to post them. Failures are reported but
// never surface as user-facing errors.
func TrackCmd(tracker Tracker, events []engagement.Event) tea.Cmd {
	if tracker == nil || len(events) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		res, err := tracker.RecordAndFlush(ctx, events)
		return TrackDoneMsg{Result: res, Err: err}
	}
}

// RecordCmd only writes events to the outbox; used on quit.
func RecordCmd(tracker Tracker, events []engagement.Event) tea.Cmd {
	if tracker == nil || len(events) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		return TrackDoneMsg{Err: tracker.Record(ctx, events)}
	}
}

func SearchTickCmd(token uint64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return SearchTickMsg{Token: token}
	})
}

func SavePreferencesCmd(service Service, prefs storage.UIPreferences) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := service.SaveUIPreferences(ctx, prefs); err != nil {
			return PreferenceSaveErrorMsg{Err: err}
		}
		return nil
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened video in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

func ThumbnailCmd(key, url string, width int, render func(string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		if render == nil {
			return ThumbnailErrorMsg{Key: key, Err: fmt.Errorf("thumbnail rendering unavailable")}
		}
		preview, err := render(url, width)
		if err != nil {
			return ThumbnailErrorMsg{Key: key, Err: err}
		}
		return ThumbnailSuccessMsg{Key: key, Preview: preview}
	}
}

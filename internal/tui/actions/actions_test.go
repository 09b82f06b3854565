package actions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glabrego/vidfeed/internal/app"
	"github.com/glabrego/vidfeed/internal/engagement"
	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/session"
	"github.com/glabrego/vidfeed/internal/storage"
)

type fakeService struct {
	page      feedapi.FeedPage
	fetchErr  error
	panicOn   int
	actionErr error
	stats     feedapi.Stats

	lastFetchDeadline time.Time
	lastReq           session.FetchRequest
	actions           []session.ActionRequest
}

func (f *fakeService) FetchPage(ctx context.Context, req session.FetchRequest) (feedapi.FeedPage, error) {
	if dl, ok := ctx.Deadline(); ok {
		f.lastFetchDeadline = dl
	}
	f.lastReq = req
	if f.panicOn != 0 && req.Page == f.panicOn {
		panic("decoder blew up")
	}
	if err := ctx.Err(); err != nil {
		return feedapi.FeedPage{}, err
	}
	if f.fetchErr != nil {
		return feedapi.FeedPage{}, f.fetchErr
	}
	return f.page, nil
}

func (f *fakeService) FetchDiscover(context.Context, session.Sort) ([]feedapi.Video, error) {
	return f.page.Feeds, f.fetchErr
}

func (f *fakeService) PerformAction(_ context.Context, req session.ActionRequest) error {
	f.actions = append(f.actions, req)
	return f.actionErr
}

func (f *fakeService) Stats(context.Context) (feedapi.Stats, error) {
	return f.stats, nil
}

func (f *fakeService) SaveUIPreferences(context.Context, storage.UIPreferences) error {
	return nil
}

type fakeTracker struct {
	recorded []engagement.Event
}

func (f *fakeTracker) Record(_ context.Context, events []engagement.Event) error {
	f.recorded = append(f.recorded, events...)
	return nil
}

func (f *fakeTracker) RecordAndFlush(ctx context.Context, events []engagement.Event) (app.FlushResult, error) {
	_ = f.Record(ctx, events)
	return app.FlushResult{Sent: len(events)}, nil
}

func TestFetchCmd_CarriesRequestAndDeadline(t *testing.T) {
	svc := &fakeService{page: feedapi.FeedPage{Feeds: []feedapi.Video{{ID: "a"}}, HasMore: true}}
	req := session.FetchRequest{Page: 3, View: session.ViewStarred, Generation: 4}

	msg := FetchCmd(context.Background(), svc, req)()
	success, ok := msg.(FetchSuccessMsg)
	if !ok {
		t.Fatalf("expected FetchSuccessMsg, got %T", msg)
	}
	if success.Req != req || len(success.Page.Feeds) != 1 {
		t.Fatalf("unexpected message: %+v", success)
	}
	if svc.lastFetchDeadline.IsZero() {
		t.Fatal("expected fetch to run with a deadline")
	}
}

func TestFetchCmd_CancelledParent(t *testing.T) {
	svc := &fakeService{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := FetchCmd(ctx, svc, session.FetchRequest{Page: 1, Generation: 2})()
	failure, ok := msg.(FetchErrorMsg)
	if !ok {
		t.Fatalf("expected FetchErrorMsg, got %T", msg)
	}
	if failure.Req.Generation != 2 || !errors.Is(failure.Err, context.Canceled) {
		t.Fatalf("unexpected failure: %+v", failure)
	}
}

func TestFetchCmd_PanicSettlesAsError(t *testing.T) {
	svc := &fakeService{panicOn: 2}
	req := session.FetchRequest{Page: 2, Generation: 7}

	msg := FetchCmd(context.Background(), svc, req)()
	failure, ok := msg.(FetchErrorMsg)
	if !ok {
		t.Fatalf("expected FetchErrorMsg, got %T", msg)
	}
	if failure.Req != req || !strings.Contains(failure.Err.Error(), "decoder blew up") {
		t.Fatalf("unexpected failure: %+v", failure)
	}
}

func TestActionCmd_ReportsError(t *testing.T) {
	svc := &fakeService{actionErr: feedapi.ErrUnsuccessful}
	req := session.ActionRequest{Key: "a", Kind: session.ActionStar, Value: true}

	msg := ActionCmd(svc, req)()
	done, ok := msg.(ActionDoneMsg)
	if !ok {
		t.Fatalf("expected ActionDoneMsg, got %T", msg)
	}
	if done.Req.Key != "a" || !errors.Is(done.Err, feedapi.ErrUnsuccessful) {
		t.Fatalf("unexpected message: %+v", done)
	}
}

func TestTrackCmd_SkipsEmptyBatches(t *testing.T) {
	tracker := &fakeTracker{}
	if cmd := TrackCmd(tracker, nil); cmd != nil {
		t.Fatal("expected nil command for no events")
	}
	msg := TrackCmd(tracker, []engagement.Event{{ID: "e1", Kind: engagement.KindView}})()
	done, ok := msg.(TrackDoneMsg)
	if !ok || done.Result.Sent != 1 {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if len(tracker.recorded) != 1 {
		t.Fatalf("expected event to be recorded, got %d", len(tracker.recorded))
	}
}

func TestOpenURLCmd_FallsBackToClipboard(t *testing.T) {
	var copied string
	msg := OpenURLCmd(
		"https://youtu.be/a",
		func(string) error { return errors.New("no browser") },
		func(u string) error { copied = u; return nil },
	)()
	success, ok := msg.(OpenURLSuccessMsg)
	if !ok || success.Opened {
		t.Fatalf("expected clipboard fallback, got %#v", msg)
	}
	if copied != "https://youtu.be/a" {
		t.Fatalf("unexpected copied url: %q", copied)
	}
}

func TestOpenURLCmd_BothFail(t *testing.T) {
	fail := func(string) error { return errors.New("nope") }
	if _, ok := OpenURLCmd("https://youtu.be/a", fail, fail)().(OpenURLErrorMsg); !ok {
		t.Fatal("expected OpenURLErrorMsg")
	}
}

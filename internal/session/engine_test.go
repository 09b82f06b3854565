package session

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/glabrego/vidfeed/internal/feedapi"
)

func videos(prefix string, n int) []feedapi.Video {
	out := make([]feedapi.Video, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, feedapi.Video{
			ID:     fmt.Sprintf("%s%d", prefix, i),
			Title:  fmt.Sprintf("Video %d", i),
			Author: "Channel",
			Link:   fmt.Sprintf("https://www.youtube.com/watch?v=%s%d", prefix, i),
		})
	}
	return out
}

func loadedEngine(t *testing.T, opts Options, items []feedapi.Video, hasMore bool) *Engine {
	t.Helper()
	e := NewEngine(ViewUnwatched, SortDateDesc, opts)
	req, ok := e.LoadPage(true)
	if !ok {
		t.Fatal("expected initial load to be issued")
	}
	out := e.CompleteFetch(req, feedapi.FeedPage{Feeds: items, HasMore: hasMore})
	if out.Backfill != nil {
		e.CompleteFetch(*out.Backfill, feedapi.FeedPage{HasMore: false})
	}
	return e
}

func TestEngine_LoadPage_SingleFlight(t *testing.T) {
	e := NewEngine(ViewUnwatched, SortDateDesc, DefaultOptions())

	first, ok := e.LoadPage(true)
	if !ok {
		t.Fatal("expected first load to be issued")
	}
	if _, ok := e.LoadPage(false); ok {
		t.Fatal("expected second load to be dropped while loading")
	}
	if _, ok := e.LoadPage(true); ok {
		t.Fatal("expected reset load to be dropped while loading")
	}
	if _, ok := e.Scrolled(0, 10, 10); ok {
		t.Fatal("expected scroll trigger to be dropped while loading")
	}
	if got := e.State().Page; got != 1 {
		t.Fatalf("expected page to stay 1, got %d", got)
	}

	e.CompleteFetch(first, feedapi.FeedPage{Feeds: videos("a", 20), HasMore: true})
	if e.State().Loading {
		t.Fatal("expected loading to clear after completion")
	}
	next, ok := e.LoadPage(false)
	if !ok || next.Page != 2 {
		t.Fatalf("expected page 2 to be issued, got ok=%v page=%d", ok, next.Page)
	}
}

func TestEngine_SetView_ResetsStateAndDiscardsStaleFetch(t *testing.T) {
	e := loadedEngine(t, DefaultOptions(), videos("a", 20), true)
	scroll, ok := e.Scrolled(0, 10, 10)
	if !ok || scroll.Page != 2 {
		t.Fatalf("expected page 2 scroll load, got ok=%v page=%d", ok, scroll.Page)
	}

	req := e.SetView(ViewBookmarked)
	state := e.State()
	if state.Page != 1 || !state.HasMore || !state.Loading {
		t.Fatalf("unexpected state after view change: %+v", state)
	}
	if req.Generation == scroll.Generation {
		t.Fatal("expected view change to start a new generation")
	}
	if e.VisibleCount() != 0 {
		t.Fatalf("expected list to be cleared, got %d items", e.VisibleCount())
	}

	out := e.CompleteFetch(scroll, feedapi.FeedPage{Feeds: videos("old", 5), HasMore: true})
	if !out.Stale {
		t.Fatal("expected old generation result to be stale")
	}
	if !e.State().Loading {
		t.Fatal("stale completion must not clear the current loading flag")
	}
	if e.VisibleCount() != 0 {
		t.Fatalf("expected stale items to be ignored, got %d", e.VisibleCount())
	}

	bookmarked := videos("b", 7)
	for i := range bookmarked {
		bookmarked[i].Bookmarked = true
	}
	out = e.CompleteFetch(req, feedapi.FeedPage{Feeds: bookmarked, HasMore: false})
	if out.Stale || out.Added != 7 {
		t.Fatalf("expected 7 items merged, got %+v", out)
	}
	if e.State().Condition != ConditionExhausted {
		t.Fatalf("expected exhausted condition, got %s", e.State().Condition)
	}
}

func TestEngine_CompleteFetch_EmptyFirstPage(t *testing.T) {
	e := NewEngine(ViewUnwatched, SortDateDesc, DefaultOptions())
	e.SetSearch("nothing matches")
	req := e.Refresh()

	out := e.CompleteFetch(req, feedapi.FeedPage{HasMore: false})
	if !out.Empty || out.Exhausted {
		t.Fatalf("expected empty outcome, got %+v", out)
	}
	if e.State().Condition != ConditionEmpty {
		t.Fatalf("expected empty condition, got %s", e.State().Condition)
	}
	if e.State().Search != "nothing matches" {
		t.Fatalf("expected search to persist, got %q", e.State().Search)
	}
}

func TestEngine_CompleteFetch_KeepsLocalFlagsOnMerge(t *testing.T) {
	e := NewEngine(ViewAll, SortDateDesc, DefaultOptions())
	req, _ := e.LoadPage(true)
	e.CompleteFetch(req, feedapi.FeedPage{Feeds: videos("a", 20), HasMore: true})

	if _, err := e.ApplyAction("a3", ActionStar, true); err != nil {
		t.Fatalf("ApplyAction returned error: %v", err)
	}

	next, _ := e.LoadPage(false)
	again := videos("a", 3)
	out := e.CompleteFetch(next, feedapi.FeedPage{Feeds: again, HasMore: false})
	if out.Added != 0 {
		t.Fatalf("expected duplicates to be skipped, got %d added", out.Added)
	}
	v, _ := e.Video("a3")
	if !v.Starred {
		t.Fatal("expected local star to survive a stale server copy")
	}
}

func TestEngine_RefreshKeepsInFlightFlag(t *testing.T) {
	e := NewEngine(ViewAll, SortDateDesc, DefaultOptions())
	req, _ := e.LoadPage(true)
	e.CompleteFetch(req, feedapi.FeedPage{Feeds: videos("v", 8)})

	action, err := e.ApplyAction("v1", ActionStar, true)
	if err != nil {
		t.Fatalf("ApplyAction returned error: %v", err)
	}
	refresh := e.Refresh()
	e.CompleteFetch(refresh, feedapi.FeedPage{Feeds: videos("v", 8)})
	e.CompleteAction(action)

	v, ok := e.Video("v1")
	if !ok || !v.Starred {
		t.Fatalf("expected star to survive refetch of a stale copy, got ok=%v %+v", ok, v)
	}
	if e.InFlight("v1", ActionStar) {
		t.Fatal("expected in-flight mark to be cleared")
	}
}

func TestEngine_ResetDoesNotRelistInFlightRemoval(t *testing.T) {
	e := loadedEngine(t, DefaultOptions(), videos("a", 8), false)

	action, err := e.ApplyAction("a2", ActionWatched, true)
	if err != nil {
		t.Fatalf("ApplyAction returned error: %v", err)
	}
	refresh := e.Refresh()
	out := e.CompleteFetch(refresh, feedapi.FeedPage{Feeds: videos("a", 8)})
	if out.Added != 7 {
		t.Fatalf("expected the pending watched video to stay out of the list, got %d added", out.Added)
	}
	for _, v := range e.Visible() {
		if v.ID == "a2" {
			t.Fatal("watched video listed in unwatched view")
		}
	}

	done := e.CompleteAction(action)
	if len(done.Removed) != 0 || done.Backfill != nil {
		t.Fatalf("expected nothing left to prune, got %+v", done)
	}
	if _, ok := e.Video("a2"); ok {
		t.Fatal("expected unreferenced entity to be released once settled")
	}
}

func TestEngine_FailFetch_RecordsConditionAndRetriesSamePage(t *testing.T) {
	e := loadedEngine(t, DefaultOptions(), videos("a", 20), true)
	req, _ := e.LoadPage(false)

	out := e.FailFetch(req, errors.New("boom"))
	if out.Backfill != nil {
		t.Fatal("expected no automatic retry")
	}
	state := e.State()
	if state.Loading || state.Condition != ConditionFetchFailed || !state.HasMore {
		t.Fatalf("unexpected state after failure: %+v", state)
	}
	if state.FetchErr == nil {
		t.Fatal("expected fetch error to be recorded")
	}

	retry, ok := e.LoadPage(false)
	if !ok || retry.Page != req.Page {
		t.Fatalf("expected page %d to be requested again, got ok=%v page=%d", req.Page, ok, retry.Page)
	}
	if e.State().Condition != ConditionNone {
		t.Fatal("expected condition to clear when a new fetch starts")
	}
}

func TestEngine_ApplyAction_MarkThirdOfSevenTriggersBackfill(t *testing.T) {
	e := loadedEngine(t, DefaultOptions(), videos("a", 7), true)
	if e.VisibleCount() != 7 {
		t.Fatalf("expected 7 visible, got %d", e.VisibleCount())
	}

	req, err := e.ApplyAction("a3", ActionWatched, true)
	if err != nil {
		t.Fatalf("ApplyAction returned error: %v", err)
	}
	if req.Interaction != InteractionMarked || req.Previous {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !e.InFlight("a3", ActionWatched) {
		t.Fatal("expected control to be disabled while in flight")
	}

	out := e.CompleteAction(req)
	if len(out.Removed) != 1 || out.Removed[0] != (Projection{List: MainList, Index: 2}) {
		t.Fatalf("unexpected removals: %+v", out.Removed)
	}
	if out.Backfill != nil {
		t.Fatal("expected no backfill with 6 items left")
	}

	req, _ = e.ApplyAction("a4", ActionWatched, true)
	out = e.CompleteAction(req)
	if e.VisibleCount() != 5 {
		t.Fatalf("expected 5 visible, got %d", e.VisibleCount())
	}
	if out.Backfill == nil || out.Backfill.Page != 2 || out.Backfill.Reset {
		t.Fatalf("expected backfill of page 2, got %+v", out.Backfill)
	}
	if e.InFlight("a4", ActionWatched) {
		t.Fatal("expected in-flight mark to clear")
	}
}

func TestEngine_ApplyAction_RejectsDuplicateInFlight(t *testing.T) {
	e := loadedEngine(t, DefaultOptions(), videos("a", 10), true)

	if _, err := e.ApplyAction("a1", ActionBookmark, true); err != nil {
		t.Fatalf("ApplyAction returned error: %v", err)
	}
	if _, err := e.ApplyAction("a1", ActionBookmark, false); !errors.Is(err, ErrActionInFlight) {
		t.Fatalf("expected ErrActionInFlight, got %v", err)
	}
	if _, err := e.ApplyAction("a1", ActionStar, true); err != nil {
		t.Fatalf("expected a different action to proceed, got %v", err)
	}
	if _, err := e.ApplyAction("missing", ActionStar, true); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestEngine_FailAction_KeepsOptimisticFlagByDefault(t *testing.T) {
	e := loadedEngine(t, DefaultOptions(), videos("a", 10), true)
	req, _ := e.ApplyAction("a2", ActionStar, true)

	out := e.FailAction(req, errors.New("server said no"))
	if out.RolledBack {
		t.Fatal("expected no rollback by default")
	}
	v, _ := e.Video("a2")
	if !v.Starred {
		t.Fatal("expected optimistic flag to stay")
	}
	if e.InFlight("a2", ActionStar) {
		t.Fatal("expected control to be re-enabled")
	}
}

func TestEngine_FailAction_RollsBackWhenConfigured(t *testing.T) {
	opts := DefaultOptions()
	opts.RollbackOnFailure = true
	e := loadedEngine(t, opts, videos("a", 10), true)
	req, _ := e.ApplyAction("a2", ActionStar, true)

	out := e.FailAction(req, errors.New("timeout"))
	if !out.RolledBack {
		t.Fatal("expected rollback")
	}
	v, _ := e.Video("a2")
	if v.Starred {
		t.Fatal("expected flag to be restored")
	}
}

func TestEngine_StarInPanelUpdatesMainList(t *testing.T) {
	e := loadedEngine(t, DefaultOptions(), videos("a", 10), true)
	discover := []feedapi.Video{{ID: "a5", Link: "https://youtu.be/a5"}, {ID: "x1", Link: "https://youtu.be/x1"}}
	e.SetPanel("discover", ViewDiscover, discover)

	if got := len(e.Projections("a5")); got != 2 {
		t.Fatalf("expected 2 projections, got %d", got)
	}

	req, err := e.ApplyAction("a5", ActionStar, true)
	if err != nil {
		t.Fatalf("ApplyAction returned error: %v", err)
	}
	for _, v := range e.Visible() {
		if v.ID == "a5" && !v.Starred {
			t.Fatal("expected main list projection to show the star")
		}
	}
	for _, v := range e.Panel("discover") {
		if v.ID == "a5" && !v.Starred {
			t.Fatal("expected panel projection to show the star")
		}
	}
	if out := e.CompleteAction(req); len(out.Removed) != 0 {
		t.Fatalf("expected star to keep both projections, got %+v", out.Removed)
	}
}

func TestEngine_OpenVideo_MarksClickedOnce(t *testing.T) {
	e := loadedEngine(t, DefaultOptions(), videos("a", 10), true)

	req, ok, err := e.OpenVideo("a1")
	if err != nil || !ok {
		t.Fatalf("expected open to mark watched, ok=%v err=%v", ok, err)
	}
	if req.Interaction != InteractionClicked {
		t.Fatalf("expected clicked interaction, got %q", req.Interaction)
	}
	e.CompleteAction(req)

	all := e.SetView(ViewAll)
	watched := videos("a", 1)
	watched[0].Watched = true
	e.CompleteFetch(all, feedapi.FeedPage{Feeds: watched})
	if _, ok, _ := e.OpenVideo("a1"); ok {
		t.Fatal("expected already watched video not to be marked again")
	}
}

func TestEngine_Scrolled_RespectsProximity(t *testing.T) {
	opts := DefaultOptions()
	opts.ScrollProximity = 5
	e := loadedEngine(t, opts, videos("a", 20), true)

	if _, ok := e.Scrolled(0, 10, 40); ok {
		t.Fatal("expected no load far from the bottom")
	}
	req, ok := e.Scrolled(26, 10, 40)
	if !ok || req.Page != 2 {
		t.Fatalf("expected page 2 near the bottom, got ok=%v page=%d", ok, req.Page)
	}
	e.CompleteFetch(req, feedapi.FeedPage{Feeds: videos("b", 3), HasMore: false})
	if _, ok := e.Scrolled(40, 10, 40); ok {
		t.Fatal("expected no load once exhausted")
	}
}

func TestEngine_SeedIsReplacedByFirstPage(t *testing.T) {
	e := NewEngine(ViewUnwatched, SortDateDesc, DefaultOptions())
	if got := e.Seed(videos("cached", 3)); got != 3 {
		t.Fatalf("expected 3 cached items, got %d", got)
	}
	req, _ := e.LoadPage(true)
	if e.VisibleCount() != 3 {
		t.Fatal("expected cached items to stay visible while loading")
	}
	e.CompleteFetch(req, feedapi.FeedPage{Feeds: videos("a", 8), HasMore: false})
	for _, v := range e.Visible() {
		if v.ID == "cached1" {
			t.Fatal("expected cached items to be replaced")
		}
	}
	if e.VisibleCount() != 8 {
		t.Fatalf("expected 8 items, got %d", e.VisibleCount())
	}
}

func TestEngine_FailAction_LogsVideo(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	e := loadedEngine(t, opts, videos("a", 8), false)

	req, err := e.ApplyAction("a1", ActionBookmark, true)
	if err != nil {
		t.Fatalf("ApplyAction returned error: %v", err)
	}
	e.FailAction(req, errors.New("timeout"))

	out := buf.String()
	for _, want := range []string{"action failed", "video_id=a1", `title="Video 1"`, "error=timeout"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output:\n%s", want, out)
		}
	}
}

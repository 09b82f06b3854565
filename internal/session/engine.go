package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/logging"
)

// FetchOutcome reports what settling a FetchRequest did.
type FetchOutcome struct {
	// Stale is true when the request belonged to an older generation and
	// was ignored.
	Stale     bool
	Added     int
	Empty     bool
	Exhausted bool
	Backfill  *FetchRequest
}

// Snapshot is a copy of everything a renderer needs.
type Snapshot struct {
	State State
	Items []feedapi.Video
}

// Engine owns the entity store and the session state. Every transition
// returns the effect the caller must execute; the engine itself does no I/O.
type Engine struct {
	mu    sync.Mutex
	opts  Options
	log   *slog.Logger
	store *Store
	state State

	inflight map[inflightKey]struct{}
	// retryPage makes the next advance re-request the current page after a
	// failed fetch instead of skipping it.
	retryPage bool
	// placeholder marks the main list as seeded from cache; the next reset
	// completion replaces it instead of clearing it up front.
	placeholder bool
}

func NewEngine(view View, sortBy Sort, opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		opts:     opts,
		log:      opts.Logger.With("component", "session"),
		store:    NewStore(),
		inflight: make(map[inflightKey]struct{}),
		state: State{
			View:    view,
			SortBy:  sortBy,
			Page:    1,
			HasMore: true,
		},
	}
	e.store.SetView(MainList, view)
	return e
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{State: e.state, Items: e.store.Videos(MainList)}
}

// Visible returns the main list in display order.
func (e *Engine) Visible() []feedapi.Video {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Videos(MainList)
}

func (e *Engine) VisibleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len(MainList)
}

func (e *Engine) Video(key string) (feedapi.Video, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(key)
}

func (e *Engine) Projections(key string) []Projection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Projections(key)
}

// InFlight reports whether the control for key+kind is disabled.
func (e *Engine) InFlight(key string, kind ActionKind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.inflight[inflightKey{key: key, kind: kind}]
	return ok
}

// SetPanel replaces a secondary list, such as the discover strip, that shows
// entities alongside the main list.
func (e *Engine) SetPanel(name string, view View, videos []feedapi.Video) int {
	if name == MainList {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Replace(name, view, videos)
}

func (e *Engine) Panel(name string) []feedapi.Video {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Videos(name)
}

// Seed shows cached videos until the next reset load completes.
func (e *Engine) Seed(videos []feedapi.Video) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store.Len(MainList) > 0 {
		return 0
	}
	added := e.store.Merge(MainList, videos)
	e.placeholder = added > 0
	return added
}

// LoadPage issues a fetch. reset starts the list over at page 1; otherwise
// the next page is requested. It reports false when a fetch is already in
// flight or, for a non-reset load, when the backend has no more pages.
func (e *Engine) LoadPage(reset bool) (FetchRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked(reset)
}

func (e *Engine) loadLocked(reset bool) (FetchRequest, bool) {
	if e.state.Loading {
		return FetchRequest{}, false
	}
	if reset {
		if !e.placeholder {
			e.store.Clear(MainList)
		}
		e.state.Page = 1
		e.state.HasMore = true
		e.retryPage = false
	} else {
		if !e.state.HasMore {
			return FetchRequest{}, false
		}
		if e.retryPage {
			e.retryPage = false
		} else {
			e.state.Page++
		}
	}
	e.state.Loading = true
	e.state.Condition = ConditionNone
	e.state.FetchErr = nil

	req := FetchRequest{
		Page:       e.state.Page,
		View:       e.state.View,
		Search:     e.state.Search,
		SortBy:     e.state.SortBy,
		Generation: e.state.Generation,
		Reset:      reset,
	}
	e.log.Debug("fetch issued", "generation", req.Generation, "page", req.Page, "reset", reset)
	return req, true
}

// restartLocked starts a new generation. A fetch still in flight belongs to
// the old generation and will be discarded when it settles.
func (e *Engine) restartLocked() FetchRequest {
	e.state.Generation++
	e.state.Loading = false
	e.placeholder = false
	e.store.SetView(MainList, e.state.View)
	req, _ := e.loadLocked(true)
	return req
}

func (e *Engine) SetView(view View) FetchRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.View = view
	return e.restartLocked()
}

func (e *Engine) SetSort(sortBy Sort) FetchRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SortBy = sortBy
	return e.restartLocked()
}

func (e *Engine) SetSearch(query string) FetchRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Search = strings.TrimSpace(query)
	return e.restartLocked()
}

// Refresh reloads page 1 with unchanged filters.
func (e *Engine) Refresh() FetchRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restartLocked()
}

func (e *Engine) CompleteFetch(req FetchRequest, page feedapi.FeedPage) FetchOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Generation != e.state.Generation {
		e.log.Debug("stale fetch discarded", "generation", req.Generation, "current", e.state.Generation)
		return FetchOutcome{Stale: true}
	}
	e.state.Loading = false
	if req.Reset && e.placeholder {
		e.store.Clear(MainList)
		e.placeholder = false
	}

	out := FetchOutcome{Added: e.store.Merge(MainList, page.Feeds)}
	e.state.HasMore = page.HasMore
	e.retryPage = false
	switch {
	case req.Page == 1 && len(page.Feeds) == 0:
		e.state.Condition = ConditionEmpty
		out.Empty = true
	case !page.HasMore:
		e.state.Condition = ConditionExhausted
		out.Exhausted = true
	default:
		e.state.Condition = ConditionNone
	}
	e.state.FetchErr = nil

	if next, ok := e.ensureLocked(); ok {
		out.Backfill = &next
	}
	return out
}

// FailFetch settles a failed fetch. Nothing is retried automatically; the
// next advance re-requests the failed page.
func (e *Engine) FailFetch(req FetchRequest, err error) FetchOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Generation != e.state.Generation {
		return FetchOutcome{Stale: true}
	}
	e.state.Loading = false
	e.state.Condition = ConditionFetchFailed
	e.state.FetchErr = fmt.Errorf("load page %d: %w", req.Page, err)
	e.retryPage = true
	e.log.Warn("fetch failed", "generation", req.Generation, "page", req.Page, "error", err)
	return FetchOutcome{}
}

// EnsureMinimumVisible requests the next page when fewer than MinVisible
// items remain and more are available.
func (e *Engine) EnsureMinimumVisible() (FetchRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureLocked()
}

func (e *Engine) ensureLocked() (FetchRequest, bool) {
	if e.state.Loading || !e.state.HasMore {
		return FetchRequest{}, false
	}
	if e.store.Len(MainList) >= e.opts.MinVisible {
		return FetchRequest{}, false
	}
	return e.loadLocked(false)
}

// Scrolled requests the next page when the bottom of the viewport is within
// ScrollProximity of the end of the content.
func (e *Engine) Scrolled(offset, viewport, content int) (FetchRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if content-(offset+viewport) > e.opts.ScrollProximity {
		return FetchRequest{}, false
	}
	if e.state.Loading || !e.state.HasMore {
		return FetchRequest{}, false
	}
	return e.loadLocked(false)
}

// ApplyAction sets a flag optimistically. The flag lives on the single
// stored entity, so every projection shows the new value at once.
func (e *Engine) ApplyAction(key string, kind ActionKind, value bool) (ActionRequest, error) {
	return e.apply(key, kind, value, InteractionMarked)
}

// Toggle flips the current value of a flag.
func (e *Engine) Toggle(key string, kind ActionKind) (ActionRequest, error) {
	e.mu.Lock()
	v, ok := e.store.Get(key)
	e.mu.Unlock()
	if !ok {
		return ActionRequest{}, fmt.Errorf("toggle %s on %q: %w", kind, key, ErrUnknownEntity)
	}
	return e.apply(key, kind, !kind.Value(v), InteractionMarked)
}

// OpenVideo records a click-through. An unwatched entity is marked watched
// with the clicked interaction type; ok is false when there was nothing to
// change.
func (e *Engine) OpenVideo(key string) (ActionRequest, bool, error) {
	e.mu.Lock()
	v, found := e.store.Get(key)
	e.mu.Unlock()
	if !found {
		return ActionRequest{}, false, fmt.Errorf("open %q: %w", key, ErrUnknownEntity)
	}
	if v.Watched {
		return ActionRequest{}, false, nil
	}
	req, err := e.apply(key, ActionWatched, true, InteractionClicked)
	if err != nil {
		return ActionRequest{}, false, err
	}
	return req, true, nil
}

func (e *Engine) apply(key string, kind ActionKind, value bool, interaction string) (ActionRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.store.Get(key)
	if !ok {
		return ActionRequest{}, fmt.Errorf("%s %q: %w", kind, key, ErrUnknownEntity)
	}
	if kind.flag(&current) == nil {
		return ActionRequest{}, fmt.Errorf("unknown action %q", kind)
	}
	ik := inflightKey{key: key, kind: kind}
	if _, busy := e.inflight[ik]; busy {
		return ActionRequest{}, fmt.Errorf("%s %q: %w", kind, key, ErrActionInFlight)
	}

	previous := kind.Value(current)
	e.store.Update(key, func(v *feedapi.Video) { *kind.flag(v) = value })
	e.store.Pin(key)
	e.inflight[ik] = struct{}{}
	updated, _ := e.store.Get(key)

	req := ActionRequest{
		Key:      key,
		Kind:     kind,
		Value:    value,
		Previous: previous,
		Video:    updated,
	}
	if kind == ActionWatched {
		req.Interaction = interaction
	}
	return req, nil
}

// CompleteAction settles a confirmed mutation. Projections whose list no
// longer admits the entity are removed, which may in turn trigger backfill.
func (e *Engine) CompleteAction(req ActionRequest) ActionOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settleLocked(req)
	out := ActionOutcome{Removed: e.store.Prune(req.Key)}
	if len(out.Removed) > 0 {
		if next, ok := e.ensureLocked(); ok {
			out.Backfill = &next
		}
	}
	return out
}

// FailAction settles a rejected or failed mutation. The optimistic value is
// kept unless Options.RollbackOnFailure is set.
func (e *Engine) FailAction(req ActionRequest, err error) ActionOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	defer e.settleLocked(req)
	logging.WithVideo(e.log, req.Key, req.Video.Title).Warn("action failed", "action", string(req.Kind), "error", err)
	if !e.opts.RollbackOnFailure {
		return ActionOutcome{}
	}
	rolled := e.store.Update(req.Key, func(v *feedapi.Video) { *req.Kind.flag(v) = req.Previous })
	return ActionOutcome{RolledBack: rolled}
}

// settleLocked clears the in-flight mark and releases the pin taken by apply.
// The caller prunes first when it needs the entity re-evaluated.
func (e *Engine) settleLocked(req ActionRequest) {
	ik := inflightKey{key: req.Key, kind: req.Kind}
	if _, ok := e.inflight[ik]; !ok {
		return
	}
	delete(e.inflight, ik)
	e.store.Unpin(req.Key)
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/vidfeed/internal/app"
	"github.com/glabrego/vidfeed/internal/engagement"
	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/logging"
	"github.com/glabrego/vidfeed/internal/session"
	"github.com/glabrego/vidfeed/internal/storage"
	"github.com/glabrego/vidfeed/internal/tui/actions"
	"github.com/glabrego/vidfeed/internal/tui/platform"
	"github.com/glabrego/vidfeed/internal/tui/state"
	tuitheme "github.com/glabrego/vidfeed/internal/tui/theme"
	"github.com/glabrego/vidfeed/internal/tui/view"
)

// DiscoverPanel is the store list backing the discover strip.
const DiscoverPanel = "discover"

const (
	discoverPanelRows = 5
	thumbnailTimeout  = 15 * time.Second
)

type clearStatusMsg struct {
	id int
}

// fetchScope owns the context of the current generation's network calls.
// Moving to a new generation cancels whatever the old one still has open.
type fetchScope struct {
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
}

func (s *fetchScope) context(generation uint64) context.Context {
	if s.cancel != nil && s.generation != generation {
		s.cancel()
		s.cancel = nil
	}
	if s.cancel == nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
		s.generation = generation
	}
	return s.ctx
}

func (s *fetchScope) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

type Model struct {
	service   actions.Service
	tracker   actions.Tracker
	engine    *session.Engine
	collector *engagement.Collector
	debouncer *session.Debouncer
	fetches   *fetchScope
	theme     tuitheme.Theme
	log       *slog.Logger

	items       []feedapi.Video
	cursor      int
	selectedKey string

	panelOpen   bool
	panelItems  []feedapi.Video
	panelCursor int
	focusPanel  bool
	panelLoaded bool

	compact      bool
	relativeTime bool
	showNumbers  bool
	showHelp     bool
	showStats    bool
	inDetail     bool
	detailKey    string
	detailVideo  feedapi.Video
	detailTop    int
	width        int
	height       int

	searching     bool
	searchInput   textinput.Model
	debounceDelay time.Duration
	spinner       spinner.Model

	status   string
	statusID int
	err      error
	stats    *feedapi.Stats
	statsErr error

	initialReq    session.FetchRequest
	hasInitialReq bool

	openURLFn     func(string) error
	copyURLFn     func(string) error
	nowFn         func() time.Time
	renderThumbFn func(string, int) (string, error)
	thumbs        map[string]view.ThumbnailState
}

// NewModel builds the TUI around an engine the caller may already have
// seeded from the offline cache. The first page load is issued here and
// sent by Init.
func NewModel(service actions.Service, tracker actions.Tracker, engine *session.Engine) Model {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "search videos"
	input.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	thumbs := view.NewThumbnailRenderer()
	m := Model{
		service:       service,
		tracker:       tracker,
		engine:        engine,
		collector:     engagement.NewCollector(),
		debouncer:     &session.Debouncer{},
		fetches:       &fetchScope{},
		theme:         tuitheme.Default(),
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		relativeTime:  true,
		searchInput:   input,
		debounceDelay: session.DefaultDebounce,
		spinner:       spin,
		openURLFn:     platform.OpenURLInBrowser,
		copyURLFn:     platform.CopyURLToClipboard,
		nowFn:         time.Now,
		renderThumbFn: func(url string, width int) (string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), thumbnailTimeout)
			defer cancel()
			return thumbs.Render(ctx, url, width)
		},
		thumbs: make(map[string]view.ThumbnailState),
	}
	if service != nil {
		m.initialReq, m.hasInitialReq = engine.LoadPage(true)
	}
	m.syncItems()
	return m
}

func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.log = logger.With("component", "tui")
	}
}

// ApplyPreferences restores persisted display settings. View and sort are
// applied by the caller when it builds the engine.
func (m *Model) ApplyPreferences(prefs storage.UIPreferences) {
	m.compact = prefs.Compact
	m.relativeTime = prefs.RelativeTime
}

func (m Model) preferences() storage.UIPreferences {
	st := m.engine.State()
	return storage.UIPreferences{
		Compact:      m.compact,
		RelativeTime: m.relativeTime,
		View:         string(st.View),
		Sort:         string(st.SortBy),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.hasInitialReq {
		cmds = append(cmds, m.fetchCmd(m.initialReq))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(10, msg.Width-4)
		return m, m.observe(true)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)

	case actions.FetchSuccessMsg:
		out := m.engine.CompleteFetch(msg.Req, msg.Page)
		if out.Stale {
			return m, nil
		}
		m.log.Debug("page loaded", "generation", msg.Req.Generation, "page", msg.Req.Page, "added", out.Added, "duration", msg.Duration)
		m.syncItems()
		cmds := []tea.Cmd{m.observe(false)}
		if out.Backfill != nil {
			cmds = append(cmds, m.fetchCmd(*out.Backfill))
		}
		return m, tea.Batch(cmds...)
	case actions.FetchErrorMsg:
		if out := m.engine.FailFetch(msg.Req, msg.Err); out.Stale {
			return m, nil
		}
		m.log.Warn("page load failed", "page", msg.Req.Page, "error", msg.Err)
		m.syncItems()
		return m, nil

	case actions.ActionDoneMsg:
		var out session.ActionOutcome
		if msg.Err != nil {
			out = m.engine.FailAction(msg.Req, msg.Err)
			if app.IsUnsuccessful(msg.Err) {
				m.err = fmt.Errorf("server rejected %s on %q: %w", msg.Req.Kind, msg.Req.Video.Title, msg.Err)
			} else {
				m.err = fmt.Errorf("%s %q: %w", msg.Req.Kind, msg.Req.Video.Title, msg.Err)
			}
			if out.RolledBack {
				m.status = "Change reverted"
			}
		} else {
			out = m.engine.CompleteAction(msg.Req)
		}
		m.syncItems()
		cmds := []tea.Cmd{m.observe(false)}
		if out.Backfill != nil {
			cmds = append(cmds, m.fetchCmd(*out.Backfill))
		}
		return m, tea.Batch(cmds...)

	case actions.DiscoverSuccessMsg:
		m.panelLoaded = true
		m.engine.SetPanel(DiscoverPanel, session.ViewDiscover, msg.Videos)
		m.syncItems()
		return m, m.observe(false)
	case actions.DiscoverErrorMsg:
		m.err = fmt.Errorf("load discover panel: %w", msg.Err)
		return m, nil

	case actions.StatsSuccessMsg:
		stats := msg.Stats
		m.stats = &stats
		m.statsErr = nil
		return m, nil
	case actions.StatsErrorMsg:
		m.statsErr = msg.Err
		return m, nil

	case actions.TrackDoneMsg:
		if msg.Err != nil {
			m.log.Warn("engagement flush incomplete", "sent", msg.Result.Sent, "failed", msg.Result.Failed, "error", msg.Err)
		}
		return m, nil

	case actions.SearchTickMsg:
		query, ok := m.debouncer.Fire(msg.Token)
		if !ok {
			return m, nil
		}
		return m, m.applySearch(query)

	case actions.OpenURLSuccessMsg:
		m.err = nil
		return m, m.setStatus(msg.Status, 3*time.Second)
	case actions.OpenURLErrorMsg:
		return m, m.setStatus(msg.Err.Error(), 4*time.Second)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case actions.PreferenceSaveErrorMsg:
		m.err = msg.Err
		m.status = "Could not persist UI preferences"
		return m, nil

	case actions.ThumbnailSuccessMsg:
		m.thumbs[msg.Key] = view.ThumbnailState{Enabled: true, Raw: msg.Preview}
		return m, nil
	case actions.ThumbnailErrorMsg:
		m.thumbs[msg.Key] = view.ThumbnailState{Enabled: true, Err: msg.Err.Error()}
		return m, nil
	}
	if m.searching {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if key == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		switch key {
		case "esc":
			m.showHelp = false
		case "q":
			return m.quit()
		}
		return m, nil
	}
	if m.showStats {
		switch key {
		case "esc", "i":
			m.showStats = false
		case "r":
			return m, actions.StatsCmd(m.service)
		case "q":
			return m.quit()
		}
		return m, nil
	}
	if m.inDetail {
		return m.handleDetailKey(key)
	}

	switch key {
	case "q":
		return m.quit()
	case "up", "k":
		m.moveCursor(-1)
		return m, m.observe(true)
	case "down", "j":
		m.moveCursor(1)
		return m, m.observe(true)
	case "pgup", "ctrl+b":
		m.moveCursor(-state.PageStep(m.height, m.hasSearchBar()) / view.RowsPerVideo(m.compact))
		return m, m.observe(true)
	case "pgdown", "ctrl+f":
		m.moveCursor(state.PageStep(m.height, m.hasSearchBar()) / view.RowsPerVideo(m.compact))
		return m, m.observe(true)
	case "g":
		m.moveCursor(-len(m.focusedItems()))
		return m, m.observe(true)
	case "G":
		m.moveCursor(len(m.focusedItems()))
		return m, m.observe(true)
	case "tab":
		if m.panelOpen && len(m.panelItems) > 0 {
			m.focusPanel = !m.focusPanel
		}
		return m, nil
	case "enter":
		v, ok := m.selectedVideo()
		if !ok {
			return m, nil
		}
		m.inDetail = true
		m.detailKey = v.Key()
		m.detailVideo = v
		m.detailTop = 0
		return m, m.observe(false)
	case "o":
		return m.openSelected()
	case "y":
		return m.copySelected()
	case "w":
		return m.toggleSelected(session.ActionWatched)
	case "b":
		return m.toggleSelected(session.ActionBookmark)
	case "s":
		return m.toggleSelected(session.ActionStar)
	case "x":
		return m.toggleSelected(session.ActionDislike)
	case "1", "2", "3", "4", "5", "6":
		idx := int(key[0] - '1')
		if idx >= len(session.Views) {
			return m, nil
		}
		return m.switchView(session.Views[idx])
	case "[", "]":
		step := 1
		if key == "[" {
			step = -1
		}
		return m.switchView(cycle(session.Views, m.engine.State().View, step))
	case "S":
		next := cycle(session.Sorts, m.engine.State().SortBy, 1)
		req := m.engine.SetSort(next)
		m.syncItems()
		m.err = nil
		return m, tea.Batch(m.fetchCmd(req), actions.SavePreferencesCmd(m.service, m.preferences()), m.setStatus("Sort: "+string(next), 3*time.Second))
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.engine.State().Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case "ctrl+l":
		return m, m.clearSearch()
	case "r":
		if m.service == nil {
			return m, nil
		}
		req := m.engine.Refresh()
		m.err = nil
		m.syncItems()
		cmds := []tea.Cmd{m.fetchCmd(req)}
		if m.panelOpen {
			cmds = append(cmds, actions.DiscoverCmd(m.service, m.engine.State().SortBy))
		}
		return m, tea.Batch(cmds...)
	case "D":
		m.panelOpen = !m.panelOpen
		m.focusPanel = false
		m.panelLoaded = false
		if !m.panelOpen {
			m.engine.SetPanel(DiscoverPanel, session.ViewDiscover, nil)
			m.syncItems()
			return m, m.observe(false)
		}
		if m.service == nil {
			return m, nil
		}
		return m, actions.DiscoverCmd(m.service, m.engine.State().SortBy)
	case "i":
		m.showStats = true
		if m.service == nil {
			return m, nil
		}
		return m, actions.StatsCmd(m.service)
	case "c":
		m.compact = !m.compact
		return m, tea.Batch(m.observe(true), actions.SavePreferencesCmd(m.service, m.preferences()), m.setStatus(onOff("Compact rows", m.compact), 3*time.Second))
	case "d":
		m.relativeTime = !m.relativeTime
		return m, tea.Batch(actions.SavePreferencesCmd(m.service, m.preferences()), m.setStatus(onOff("Relative dates", m.relativeTime), 3*time.Second))
	case "N":
		m.showNumbers = !m.showNumbers
		return m, m.setStatus(onOff("Numbering", m.showNumbers), 3*time.Second)
	}
	return m, nil
}

func (m Model) handleDetailKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m.quit()
	case "esc", "backspace":
		m.inDetail = false
		m.detailTop = 0
		m.syncItems()
		return m, m.observe(true)
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		if m.detailTop < view.DetailMaxTop(len(m.detailLines()), m.detailBodyHeight()) {
			m.detailTop++
		}
		return m, nil
	case "enter", "o":
		return m.openSelected()
	case "y":
		return m.copySelected()
	case "w":
		return m.toggleSelected(session.ActionWatched)
	case "b":
		return m.toggleSelected(session.ActionBookmark)
	case "s":
		return m.toggleSelected(session.ActionStar)
	case "x":
		return m.toggleSelected(session.ActionDislike)
	case "t":
		return m, m.toggleThumbnail()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		query, ok := m.debouncer.Flush()
		if !ok {
			query = m.searchInput.Value()
		}
		return m, m.applySearch(query)
	case "ctrl+l":
		m.searchInput.SetValue("")
		return m, m.clearSearch()
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}
	token := m.debouncer.Push(m.searchInput.Value())
	return m, tea.Batch(cmd, actions.SearchTickCmd(token, m.debounceDelay))
}

func (m *Model) applySearch(query string) tea.Cmd {
	if m.service == nil {
		return nil
	}
	req := m.engine.SetSearch(query)
	m.err = nil
	m.syncItems()
	return m.fetchCmd(req)
}

func (m *Model) clearSearch() tea.Cmd {
	m.debouncer.Flush()
	if m.engine.State().Search == "" {
		return nil
	}
	return m.applySearch("")
}

func (m Model) switchView(next session.View) (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	req := m.engine.SetView(next)
	m.err = nil
	m.focusPanel = false
	m.syncItems()
	return m, tea.Batch(m.fetchCmd(req), actions.SavePreferencesCmd(m.service, m.preferences()))
}

func (m Model) toggleSelected(kind session.ActionKind) (tea.Model, tea.Cmd) {
	v, ok := m.selectedVideo()
	if !ok {
		return m, nil
	}
	req, err := m.engine.Toggle(v.Key(), kind)
	if errors.Is(err, session.ErrActionInFlight) {
		return m, m.setStatus("Still saving the previous change", 3*time.Second)
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.syncItems()

	cmds := []tea.Cmd{actions.ActionCmd(m.service, req)}
	if kind == session.ActionWatched && req.Value {
		events := m.collector.Mark(targetFor(req.Video), m.nowFn())
		cmds = append(cmds, actions.TrackCmd(m.tracker, events))
	}
	return m, tea.Batch(cmds...)
}

// openSelected opens the video link and counts as a click-through: the
// engagement episode is classified and the video is marked watched.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	v, ok := m.selectedVideo()
	if !ok {
		return m, nil
	}
	url, err := platform.ValidateVideoURL(v.Link)
	if err != nil {
		return m, m.setStatus(err.Error(), 4*time.Second)
	}

	cmds := []tea.Cmd{actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)}
	cmds = append(cmds, actions.TrackCmd(m.tracker, m.collector.Click(targetFor(v), m.nowFn())))
	req, changed, err := m.engine.OpenVideo(v.Key())
	switch {
	case err != nil:
		logging.WithVideo(m.log, v.Key(), v.Title).Warn("mark watched on open skipped", "error", err)
	case changed:
		m.syncItems()
		cmds = append(cmds, actions.ActionCmd(m.service, req))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	v, ok := m.selectedVideo()
	if !ok {
		return m, nil
	}
	url, err := platform.ValidateVideoURL(v.Link)
	if err != nil {
		return m, m.setStatus(err.Error(), 4*time.Second)
	}
	return m, actions.CopyURLCmd(url, m.copyURLFn)
}

func (m *Model) toggleThumbnail() tea.Cmd {
	v, ok := m.selectedVideo()
	if !ok {
		return nil
	}
	key := v.Key()
	if st, shown := m.thumbs[key]; shown && !st.Loading {
		delete(m.thumbs, key)
		return nil
	}
	url := v.ThumbnailURL
	if url == "" {
		url = feedapi.ThumbnailFor(v.ID)
	}
	m.thumbs[key] = view.ThumbnailState{Enabled: true, Loading: true}
	return actions.ThumbnailCmd(key, url, m.contentWidth(), m.renderThumbFn)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.fetches.stop()
	events := m.collector.Close(m.nowFn())
	if record := actions.RecordCmd(m.tracker, events); record != nil {
		return m, tea.Sequence(record, tea.Quit)
	}
	return m, tea.Quit
}

func (m *Model) fetchCmd(req session.FetchRequest) tea.Cmd {
	if m.service == nil {
		return nil
	}
	return actions.FetchCmd(m.fetches.context(req.Generation), m.service, req)
}

func (m *Model) setStatus(status string, after time.Duration) tea.Cmd {
	m.status = status
	m.statusID++
	id := m.statusID
	return tea.Tick(after, func(time.Time) tea.Msg { return clearStatusMsg{id: id} })
}

// syncItems copies the engine lists and keeps the cursor on the selected
// video when it is still listed.
func (m *Model) syncItems() {
	m.items = m.engine.Visible()
	m.panelItems = nil
	if m.panelOpen {
		m.panelItems = m.engine.Panel(DiscoverPanel)
	}
	if len(m.panelItems) == 0 {
		m.focusPanel = false
	}
	m.panelCursor = state.ClampCursor(m.panelCursor, len(m.panelItems))
	m.cursor = state.FollowSelection(m.items, m.selectedKey, m.cursor)
	if len(m.items) > 0 {
		m.selectedKey = m.items[m.cursor].Key()
	}
	if v, ok := m.engine.Video(m.detailKey); ok {
		m.detailVideo = v
	}
}

func (m *Model) moveCursor(delta int) {
	if m.focusPanel {
		m.panelCursor = state.ClampCursor(m.panelCursor+delta, len(m.panelItems))
		return
	}
	m.cursor = state.ClampCursor(m.cursor+delta, len(m.items))
	if len(m.items) > 0 {
		m.selectedKey = m.items[m.cursor].Key()
	}
}

func (m Model) focusedItems() []feedapi.Video {
	if m.focusPanel {
		return m.panelItems
	}
	return m.items
}

func (m Model) selectedVideo() (feedapi.Video, bool) {
	if m.inDetail {
		if v, ok := m.engine.Video(m.detailKey); ok {
			return v, true
		}
		return m.detailVideo, m.detailKey != ""
	}
	items := m.focusedItems()
	cursor := m.cursor
	if m.focusPanel {
		cursor = m.panelCursor
	}
	if len(items) == 0 {
		return feedapi.Video{}, false
	}
	return m.engine.Video(items[state.ClampCursor(cursor, len(items))].Key())
}

// observe reconciles the engagement collector with what is on screen and,
// after navigation, lets the engine load the next page near the bottom.
func (m *Model) observe(scrolled bool) tea.Cmd {
	events := m.collector.Reattach(m.onScreen(), m.nowFn())
	cmds := []tea.Cmd{actions.TrackCmd(m.tracker, events)}
	if scrolled && !m.inDetail {
		start, end := m.listWindow()
		if req, ok := m.engine.Scrolled(start, end-start, len(m.items)); ok {
			cmds = append(cmds, m.fetchCmd(req))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) onScreen() []engagement.Visibility {
	if m.inDetail {
		v, _ := m.selectedVideo()
		return []engagement.Visibility{{Target: targetFor(v), Ratio: 1}}
	}
	if m.showHelp || m.showStats {
		return nil
	}
	start, end := m.listWindow()
	window := state.WindowVideos(m.items, start, end)
	out := make([]engagement.Visibility, 0, len(window)+len(m.panelItems))
	for _, v := range m.visiblePanelItems() {
		out = append(out, engagement.Visibility{Target: targetFor(v), Ratio: 1})
	}
	for _, v := range window {
		out = append(out, engagement.Visibility{Target: targetFor(v), Ratio: 1})
	}
	return out
}

func (m Model) visiblePanelItems() []feedapi.Video {
	if !m.panelOpen {
		return nil
	}
	start, end := state.CenteredWindow(len(m.panelItems), m.panelCursor, discoverPanelRows)
	return state.WindowVideos(m.panelItems, start, end)
}

func (m Model) panelRows() int {
	if !m.panelOpen {
		return 0
	}
	return max(1, len(m.visiblePanelItems())) + 2
}

func (m Model) hasSearchBar() bool {
	return m.searching || m.engine.State().Search != ""
}

// listWindow is the [start, end) range of main list items on screen.
func (m Model) listWindow() (int, int) {
	rows := state.ListHeight(m.height, m.hasSearchBar(), m.panelRows())
	perScreen := max(1, rows/view.RowsPerVideo(m.compact))
	return state.CenteredWindow(len(m.items), m.cursor, perScreen)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(20, m.width-4)
}

func (m Model) detailBodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(3, m.height-6)
}

func (m Model) detailLines() []string {
	v, ok := m.selectedVideo()
	if !ok {
		return nil
	}
	return view.DetailLines(v, m.contentWidth(), 2, m.thumbs[v.Key()])
}

func targetFor(v feedapi.Video) engagement.Target {
	return engagement.Target{VideoID: v.ID, Title: v.Title, Author: v.Author}
}

func cycle[T comparable](values []T, current T, step int) T {
	for i, v := range values {
		if v == current {
			return values[(i+step+len(values))%len(values)]
		}
	}
	return values[0]
}

func onOff(label string, on bool) string {
	if on {
		return label + ": on"
	}
	return label + ": off"
}

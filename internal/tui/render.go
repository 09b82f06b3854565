package tui

import (
	"fmt"
	"strings"

	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/session"
	"github.com/glabrego/vidfeed/internal/tui/state"
	"github.com/glabrego/vidfeed/internal/tui/view"
)

func (m Model) View() string {
	th := m.theme
	st := m.engine.State()

	var b strings.Builder
	b.WriteString(th.Title.Render("vidfeed") + " " + view.ViewTabs(st.View, th) + "\n")
	b.WriteString(view.Toolbar(m.inDetail, m.searching) + "\n")
	if m.hasSearchBar() && !m.inDetail {
		if m.searching {
			b.WriteString(m.searchInput.View())
		} else {
			b.WriteString(th.MetaLabel.Render("/ " + st.Search))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.showHelp:
		b.WriteString(th.Section.Render("Help (? to close)") + "\n\n")
		b.WriteString(strings.Join(view.HelpLines(), "\n") + "\n")
	case m.showStats:
		b.WriteString(m.statsView())
	case m.inDetail:
		b.WriteString(view.RenderDetailLines(m.detailLines(), m.detailTop, m.detailBodyHeight()))
	default:
		b.WriteString(m.panelView())
		b.WriteString(m.listView(st))
	}

	b.WriteString("\n")
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	b.WriteString(view.Message(st.Loading, m.spinner.View(), m.status, warning, th) + "\n")
	b.WriteString(view.Footer(st, len(m.items), th) + "\n")
	return b.String()
}

func (m Model) listView(st session.State) string {
	var b strings.Builder
	start, end := m.listWindow()
	for i, v := range state.WindowVideos(m.items, start, end) {
		pos := start + i
		for _, line := range m.renderVideo(v, pos, pos == m.cursor && !m.focusPanel) {
			b.WriteString(line + "\n")
		}
	}
	if msg := view.EmptyState(st, len(m.items), m.theme); msg != "" && (len(m.items) == 0 || end == len(m.items)) {
		b.WriteString(msg + "\n")
	}
	return b.String()
}

func (m Model) panelView() string {
	if !m.panelOpen {
		return ""
	}
	var b strings.Builder
	title := "Discover"
	if m.focusPanel {
		title += " (tab: back to feed)"
	} else {
		title += " (tab: focus)"
	}
	b.WriteString(m.theme.Section.Render(title) + "\n")
	items := m.visiblePanelItems()
	switch {
	case len(items) == 0 && m.panelLoaded:
		b.WriteString(m.theme.Empty.Render("No suggestions right now") + "\n")
	case len(items) == 0:
		b.WriteString(m.theme.Empty.Render("Loading suggestions...") + "\n")
	}
	start, _ := state.CenteredWindow(len(m.panelItems), m.panelCursor, discoverPanelRows)
	for i, v := range items {
		params := m.lineParams(v, start+i, m.focusPanel && start+i == m.panelCursor)
		params.Compact = true
		params.ShowNumbers = false
		b.WriteString(view.RenderVideoLines(params, m.theme)[0] + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderVideo(v feedapi.Video, pos int, active bool) []string {
	return view.RenderVideoLines(m.lineParams(v, pos, active), m.theme)
}

func (m Model) lineParams(v feedapi.Video, pos int, active bool) view.VideoLineParams {
	key := v.Key()
	return view.VideoLineParams{
		Video:        v,
		Now:          m.nowFn(),
		RelativeTime: m.relativeTime,
		Compact:      m.compact,
		ShowNumbers:  m.showNumbers,
		VisiblePos:   pos,
		Active:       active,
		Pending: func(flag string) bool {
			return m.engine.InFlight(key, session.ActionKind(flag))
		},
		Width: m.listWidth(),
	}
}

func (m Model) listWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func (m Model) statsView() string {
	switch {
	case m.stats != nil:
		return strings.Join(view.StatsLines(*m.stats, m.nowFn(), m.theme), "\n") + "\n"
	case m.statsErr != nil:
		return m.theme.StateWarn.Render(fmt.Sprintf("Failed to load stats: %v", m.statsErr)) + "\n"
	default:
		return m.theme.Empty.Render("Loading stats...") + "\n"
	}
}

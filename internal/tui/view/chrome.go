package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/vidfeed/internal/session"
	tuitheme "github.com/glabrego/vidfeed/internal/tui/theme"
)

func Toolbar(inDetail, searching bool) string {
	if searching {
		return "type to search | enter apply now | esc stop typing | ctrl+l clear"
	}
	if inDetail {
		return "j/k scroll | o open | y copy | w/b/s/x toggle | t thumbnail | esc back | ? help"
	}
	return "j/k move | enter details | o open | w/b/s/x toggle | 1-6 view | / search | ? help"
}

// HelpLines lists every binding, grouped by what they act on.
func HelpLines() []string {
	return []string{
		"Navigation",
		"  j/k, up/down     move cursor",
		"  g/G              top/bottom",
		"  pgup/pgdown      jump a page",
		"  tab              switch between feed and discover panel",
		"  enter            details",
		"  esc/backspace    back to list",
		"",
		"Video",
		"  o                open in browser (marks as clicked)",
		"  y                copy link",
		"  w                toggle watched",
		"  b                toggle bookmark",
		"  s                toggle star",
		"  x                toggle dislike",
		"  t                thumbnail preview (details)",
		"",
		"Feed",
		"  1-6, [ ]         switch view",
		"  S                cycle sort",
		"  /                search, ctrl+l clears",
		"  r                refresh",
		"  D                discover panel",
		"  i                recommendation stats",
		"",
		"Display",
		"  c                compact rows",
		"  d                relative/absolute dates",
		"  N                numbering",
		"  q                quit",
	}
}

func ViewTabs(active session.View, th tuitheme.Theme) string {
	parts := make([]string, 0, len(session.Views))
	for i, v := range session.Views {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == active {
			parts = append(parts, th.TabActive.Render(label))
			continue
		}
		parts = append(parts, th.Tab.Render(label))
	}
	return strings.Join(parts, "")
}

func Footer(st session.State, shown int, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("view") + " " + th.MetaValue.Render(string(st.View)),
		th.MetaLabel.Render("sort") + " " + th.MetaValue.Render(string(st.SortBy)),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d", st.Page)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
	}
	if st.Search != "" {
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(fmt.Sprintf("%q", st.Search)))
	}
	if !st.HasMore && st.Page > 0 {
		parts = append(parts, th.MetaLabel.Render("end"))
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, spinner, status, warning string, th tuitheme.Theme) string {
	switch {
	case warning != "":
		return th.StateWarn.Render("!") + " " + th.MetaValue.Render(warning)
	case loading:
		return th.StateLoad.Render(strings.TrimSpace(spinner+" loading")) + status
	case status != "":
		return th.StateIdle.Render("•") + " " + th.MetaValue.Render(status)
	default:
		return th.StateIdle.Render("•") + " " + th.MetaValue.Render("Ready")
	}
}

// EmptyState describes why the list shows nothing, or what lies past its
// last row. It returns "" when there is nothing to say.
func EmptyState(st session.State, shown int, th tuitheme.Theme) string {
	switch st.Condition {
	case session.ConditionFetchFailed:
		if st.FetchErr != nil {
			return th.StateWarn.Render("Failed to load videos: " + st.FetchErr.Error())
		}
		return th.StateWarn.Render("Failed to load videos")
	case session.ConditionEmpty:
		if st.Search != "" {
			return th.Empty.Render(fmt.Sprintf("No videos found for %q", st.Search))
		}
		return th.Empty.Render("No videos found")
	case session.ConditionExhausted:
		if shown == 0 {
			return th.Empty.Render("No videos found")
		}
		return th.Empty.Render("No more videos")
	}
	if shown == 0 && st.Loading {
		return th.Empty.Render("Loading videos...")
	}
	return ""
}

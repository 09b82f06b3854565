package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/vidfeed/internal/feedapi"
)

type Theme struct {
	Title     lipgloss.Style
	ModePill  lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Section   lipgloss.Style
	Channel   lipgloss.Style

	ActiveLine   lipgloss.Style
	FocusedPanel lipgloss.Style
	PanelBorder  lipgloss.Style

	MetaLabel lipgloss.Style
	MetaValue lipgloss.Style
	StateIdle lipgloss.Style
	StateWarn lipgloss.Style
	StateLoad lipgloss.Style
	Empty     lipgloss.Style

	TitleFresh    lipgloss.Style
	TitleStarred  lipgloss.Style
	TitleWatched  lipgloss.Style
	TitleDisliked lipgloss.Style

	BadgeWatched  lipgloss.Style
	BadgeBookmark lipgloss.Style
	BadgeStar     lipgloss.Style
	BadgeDislike  lipgloss.Style
	BadgePending  lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")

	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:  lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(cpOverlay1).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Bold(true).Foreground(cpText).Background(cpSurface2).Padding(0, 1),
		Section:   lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Channel:   lipgloss.NewStyle().Foreground(cpSubtext1),

		ActiveLine:   lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		FocusedPanel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cpMauve),
		PanelBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cpSurface2),

		MetaLabel: lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue: lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle: lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn: lipgloss.NewStyle().Foreground(cpRed),
		StateLoad: lipgloss.NewStyle().Foreground(cpPeach),
		Empty:     lipgloss.NewStyle().Italic(true).Foreground(cpOverlay0),

		TitleFresh: lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitleStarred: lipgloss.NewStyle().
			Bold(true).
			Italic(true).
			Foreground(cpRosewater),
		TitleWatched:  lipgloss.NewStyle().Foreground(cpSubtext0),
		TitleDisliked: lipgloss.NewStyle().Strikethrough(true).Foreground(cpOverlay0),

		BadgeWatched:  lipgloss.NewStyle().Foreground(cpGreen),
		BadgeBookmark: lipgloss.NewStyle().Foreground(cpBlue),
		BadgeStar:     lipgloss.NewStyle().Foreground(cpYellow),
		BadgeDislike:  lipgloss.NewStyle().Foreground(cpRed),
		BadgePending:  lipgloss.NewStyle().Foreground(cpPeach).Faint(true),
	}
}

func (t Theme) StyleVideoTitle(v feedapi.Video, title string) string {
	if title == "" {
		return title
	}
	switch {
	case v.Disliked:
		return t.TitleDisliked.Render(title)
	case v.Starred:
		return t.TitleStarred.Render(title)
	case v.Watched:
		return t.TitleWatched.Render(title)
	default:
		return t.TitleFresh.Render(title)
	}
}

// Badges renders the flag column: watched, bookmarked, starred, disliked.
// A flag whose change is still pending shows in the pending style.
func (t Theme) Badges(v feedapi.Video, pending func(flag string) bool) string {
	badge := func(on bool, symbol, flag string, style lipgloss.Style) string {
		if !on {
			return " "
		}
		if pending != nil && pending(flag) {
			return t.BadgePending.Render(symbol)
		}
		return style.Render(symbol)
	}
	return badge(v.Watched, "✓", "watched", t.BadgeWatched) +
		badge(v.Bookmarked, "◆", "bookmark", t.BadgeBookmark) +
		badge(v.Starred, "★", "star", t.BadgeStar) +
		badge(v.Disliked, "✗", "dislike", t.BadgeDislike)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}

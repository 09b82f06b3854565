package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glabrego/vidfeed/internal/feedapi"
	tuitheme "github.com/glabrego/vidfeed/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type VideoLineParams struct {
	Video        feedapi.Video
	Now          time.Time
	RelativeTime bool
	Compact      bool
	ShowNumbers  bool
	VisiblePos   int
	Active       bool
	// Pending reports whether a flag change is still waiting on the backend.
	Pending func(flag string) bool
	Width   int
}

// RowsPerVideo is how many terminal rows one video takes.
func RowsPerVideo(compact bool) int {
	if compact {
		return 1
	}
	return 2
}

// RenderVideoLines renders one list item: a single line in compact mode,
// title and channel lines otherwise.
func RenderVideoLines(p VideoLineParams, th tuitheme.Theme) []string {
	date := DateLabel(p.Now, p.Video.PublishedAt, p.RelativeTime)

	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf(" %s ", cursorMarker)
	if p.ShowNumbers {
		prefix = fmt.Sprintf(" %s%3d. ", cursorMarker, p.VisiblePos+1)
	}
	badges := th.Badges(p.Video, p.Pending) + " "
	dateLabel := "[" + date + "]"

	label := strings.TrimSpace(p.Video.Title)
	if label == "" {
		label = "(untitled)"
	}
	if p.Compact {
		label = CompactVideoLabel(p.Video)
	}
	available := p.Width - visibleLen(prefix) - visibleLen(badges) - 1 - visibleLen(dateLabel)
	if available < 1 {
		available = 1
	}
	label = truncateRunes(label, available)
	gap := p.Width - visibleLen(prefix) - visibleLen(badges) - visibleLen(label) - visibleLen(dateLabel)
	if gap < 1 {
		gap = 1
	}
	first := th.RenderActiveLine(p.Active, prefix+badges+th.StyleVideoTitle(p.Video, label)+strings.Repeat(" ", gap)+dateLabel)
	if p.Compact {
		return []string{first}
	}

	indent := strings.Repeat(" ", visibleLen(prefix)+visibleLen(badges))
	channel := strings.TrimSpace(p.Video.Author)
	if channel == "" {
		channel = "unknown channel"
	}
	channel = truncateRunes(channel, max(1, p.Width-len(indent)))
	return []string{first, indent + th.Channel.Render(channel)}
}

func CompactVideoLabel(v feedapi.Video) string {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		title = "(untitled)"
	}
	author := strings.TrimSpace(v.Author)
	if author == "" {
		return title
	}
	return author + " | " + title
}

func DateLabel(now, published time.Time, relative bool) string {
	if relative {
		return RelativeTimeLabel(now, published)
	}
	if published.IsZero() {
		return "unknown"
	}
	return published.UTC().Format(time.DateOnly)
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) {
		return "just now"
	}
	d := now.Sub(then)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return plural(int(d/time.Minute), "minute")
	}
	if d < 24*time.Hour {
		return plural(int(d/time.Hour), "hour")
	}
	if d < 30*24*time.Hour {
		return plural(int(d/(24*time.Hour)), "day")
	}
	return plural(int(d/(30*24*time.Hour)), "month")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSI(s))
}

func stripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}

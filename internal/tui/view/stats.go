package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glabrego/vidfeed/internal/feedapi"
	tuitheme "github.com/glabrego/vidfeed/internal/tui/theme"
)

const (
	statsTopChannels = 5
	statsTopKeywords = 8
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// StatsLines renders the recommendation stats panel.
func StatsLines(s feedapi.Stats, now time.Time, th tuitheme.Theme) []string {
	lines := []string{
		th.Section.Render("Recommendation stats"),
		"",
		fmt.Sprintf("Watched %d • Starred %d • Disliked %d", s.TotalWatched, s.TotalStarred, s.TotalDisliked),
		fmt.Sprintf("Opened to watch %d • Marked as watched %d", s.ClickedToWatch, s.MarkedAsWatched),
	}

	if top := topScores(s.TopChannels, statsTopChannels); len(top) > 0 {
		lines = append(lines, "", th.Section.Render("Top channels"))
		for _, e := range top {
			lines = append(lines, fmt.Sprintf("  %-28s %6.1f", truncateRunes(e.name, 28), e.score))
		}
	}
	if top := topScores(s.TopKeywords, statsTopKeywords); len(top) > 0 {
		names := make([]string, 0, len(top))
		for _, e := range top {
			names = append(names, e.name)
		}
		lines = append(lines, "", th.Section.Render("Top keywords"), "  "+strings.Join(names, ", "))
	}
	if len(s.ActiveHours) > 0 {
		lines = append(lines, "", th.Section.Render("Active hours (UTC)"), "  "+HourSparkline(s.ActiveHours), "  0     6     12    18   23")
	}

	updated := "never"
	if at := s.UpdatedAt(); !at.IsZero() {
		updated = RelativeTimeLabel(now, at)
	}
	lines = append(lines, "", th.MetaLabel.Render("updated "+updated))
	return lines
}

// HourSparkline draws one block per hour of the day, scaled to the busiest
// hour.
func HourSparkline(hours map[string]int) string {
	counts := make([]int, 24)
	peak := 0
	for k, n := range hours {
		h, err := strconv.Atoi(k)
		if err != nil || h < 0 || h > 23 {
			continue
		}
		counts[h] += n
		peak = max(peak, counts[h])
	}
	var b strings.Builder
	for _, n := range counts {
		if peak == 0 || n <= 0 {
			b.WriteRune(' ')
			continue
		}
		idx := n * (len(sparkBlocks) - 1) / peak
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

type scoredName struct {
	name  string
	score float64
}

func topScores(scores map[string]float64, limit int) []scoredName {
	out := make([]scoredName, 0, len(scores))
	for name, score := range scores {
		out = append(out, scoredName{name: name, score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].name < out[j].name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

package view

import (
	"strings"
	"testing"
	"time"

	"github.com/glabrego/vidfeed/internal/feedapi"
	tuitheme "github.com/glabrego/vidfeed/internal/tui/theme"
)

func TestRenderVideoLines_AbsoluteDateAtRightEdge(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	lines := RenderVideoLines(VideoLineParams{
		Video: feedapi.Video{
			ID:          "a",
			Title:       "Absolute date rendering",
			PublishedAt: now.Add(-2 * time.Hour),
		},
		Now:   now,
		Width: 60,
	}, tuitheme.Default())
	if len(lines) != 2 {
		t.Fatalf("expected title and channel lines, got %d", len(lines))
	}
	plain := stripANSI(lines[0])
	if !strings.HasSuffix(plain, "[2026-02-09]") {
		t.Fatalf("expected absolute date suffix at right edge, got %q", plain)
	}
	if visibleLen(plain) != 60 {
		t.Fatalf("expected line padded to width 60, got %d", visibleLen(plain))
	}
	if got := strings.TrimSpace(stripANSI(lines[1])); got != "unknown channel" {
		t.Fatalf("expected unknown channel placeholder, got %q", got)
	}
}

func TestRenderVideoLines_TruncatesLongTitles(t *testing.T) {
	lines := RenderVideoLines(VideoLineParams{
		Video:   feedapi.Video{ID: "a", Title: strings.Repeat("long title ", 20)},
		Now:     time.Now(),
		Compact: true,
		Width:   40,
	}, tuitheme.Default())
	if len(lines) != 1 {
		t.Fatalf("expected one compact line, got %d", len(lines))
	}
	plain := stripANSI(lines[0])
	if !strings.Contains(plain, "...") {
		t.Fatalf("expected truncated title, got %q", plain)
	}
	if visibleLen(plain) > 40 {
		t.Fatalf("expected line within width, got %d chars", visibleLen(plain))
	}
}

func TestRenderVideoLines_PendingBadge(t *testing.T) {
	var asked []string
	RenderVideoLines(VideoLineParams{
		Video: feedapi.Video{ID: "a", Title: "t", Watched: true, Starred: true},
		Pending: func(flag string) bool {
			asked = append(asked, flag)
			return flag == "watched"
		},
		Width: 40,
	}, tuitheme.Default())
	if strings.Join(asked, ",") != "watched,star" {
		t.Fatalf("expected pending lookups for set flags only, got %v", asked)
	}
}

func TestCompactVideoLabel(t *testing.T) {
	if got := CompactVideoLabel(feedapi.Video{Title: "Talk", Author: "GopherCon"}); got != "GopherCon | Talk" {
		t.Fatalf("unexpected label with author: %q", got)
	}
	if got := CompactVideoLabel(feedapi.Video{Title: "Talk"}); got != "Talk" {
		t.Fatalf("unexpected label without author: %q", got)
	}
	if got := CompactVideoLabel(feedapi.Video{}); got != "(untitled)" {
		t.Fatalf("unexpected label for empty video: %q", got)
	}
}

func TestRelativeTimeLabel(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		then time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(time.Hour), "just now"},
		{now.Add(-1 * time.Minute), "1 minute ago"},
		{now.Add(-45 * time.Minute), "45 minutes ago"},
		{now.Add(-5 * time.Hour), "5 hours ago"},
		{now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{now.Add(-65 * 24 * time.Hour), "2 months ago"},
		{time.Time{}, "unknown"},
	}
	for _, tt := range tests {
		if got := RelativeTimeLabel(now, tt.then); got != tt.want {
			t.Fatalf("RelativeTimeLabel(%v) = %q, want %q", tt.then, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo wörld", 8); got != "héllo..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateRunes("abc", 2); got != ".." {
		t.Fatalf("unexpected short truncation: %q", got)
	}
	if got := truncateRunes("abc", 5); got != "abc" {
		t.Fatalf("expected untouched string, got %q", got)
	}
}

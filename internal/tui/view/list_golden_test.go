package view

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glabrego/vidfeed/internal/feedapi"
	tuitheme "github.com/glabrego/vidfeed/internal/tui/theme"
)

var updateViewGolden = flag.Bool("update-view-golden", false, "update view golden files")

func TestListRendering_Golden(t *testing.T) {
	th := tuitheme.Default()
	now := time.Date(2026, 2, 11, 16, 0, 0, 0, time.UTC)
	video := feedapi.Video{
		ID:          "abc123",
		Title:       "Building a Go TUI",
		Author:      "Gopher Academy",
		Bookmarked:  true,
		Starred:     true,
		PublishedAt: now.Add(-3 * time.Hour),
	}

	var lines []string
	lines = append(lines, RenderVideoLines(VideoLineParams{
		Video:        video,
		Now:          now,
		RelativeTime: true,
		ShowNumbers:  true,
		VisiblePos:   0,
		Active:       true,
		Width:        60,
	}, th)...)
	lines = append(lines, RenderVideoLines(VideoLineParams{
		Video:   video,
		Now:     now,
		Compact: true,
		Width:   60,
	}, th)...)
	got := stripANSI(strings.Join(lines, "\n"))
	assertViewGolden(t, "list_rendering.golden", got)
}

func assertViewGolden(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if *updateViewGolden {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got+"\n"), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}

	wantBytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	want := strings.TrimRight(string(wantBytes), "\n")
	got = strings.TrimRight(got, "\n")
	if got != want {
		t.Fatalf("golden mismatch for %s\n--- got ---\n%s\n--- want ---\n%s", name, got, want)
	}
}

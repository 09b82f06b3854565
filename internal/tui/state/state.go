package state

import (
	"github.com/glabrego/vidfeed/internal/feedapi"
)

// chromeLines is what the header, tabs, footer and status bar take.
const chromeLines = 6

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	step := ListHeight(height, hasStatus, 0)
	if step < 3 {
		step = 3
	}
	return step
}

// ListHeight is the number of rows left for the main list. panelRows is
// taken by the discover panel when it is open.
func ListHeight(height int, hasStatus bool, panelRows int) int {
	if height <= 0 {
		return 20
	}
	used := chromeLines + panelRows
	if hasStatus {
		used += 2
	}
	rows := height - used
	if rows < 1 {
		rows = 1
	}
	return rows
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func IndexByKey(videos []feedapi.Video, key string) int {
	if key == "" {
		return -1
	}
	for i, v := range videos {
		if v.Key() == key {
			return i
		}
	}
	return -1
}

// FollowSelection keeps the cursor on the same video after the list changed.
// When that video is gone the cursor stays at the same position, so the
// next item moves under it.
func FollowSelection(videos []feedapi.Video, key string, cursor int) int {
	if idx := IndexByKey(videos, key); idx >= 0 {
		return idx
	}
	return ClampCursor(cursor, len(videos))
}

// WindowVideos returns the videos rendered in [start, end).
func WindowVideos(videos []feedapi.Video, start, end int) []feedapi.Video {
	if start < 0 {
		start = 0
	}
	if end > len(videos) {
		end = len(videos)
	}
	if start >= end {
		return nil
	}
	return videos[start:end]
}

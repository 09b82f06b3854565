package view

import (
	"strings"
	"time"

	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/render/description"
)

type ThumbnailState struct {
	Enabled bool
	Loading bool
	Raw     string
	Err     string
}

func DetailMetaLines(v feedapi.Video, width int) []string {
	width = max(1, width)
	title := strings.TrimSpace(v.Title)
	if title == "" {
		title = "(untitled)"
	}
	lines := make([]string, 0, 12)
	lines = append(lines, wrap(title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, len([]rune(title))))))
	lines = append(lines, "")

	if v.Author != "" {
		lines = append(lines, wrap("Channel: "+v.Author, width)...)
	}
	if v.PublishedAt.IsZero() {
		lines = append(lines, "Published: unknown")
	} else {
		lines = append(lines, "Published: "+v.PublishedAt.UTC().Format(time.RFC3339))
	}
	lines = append(lines, "Flags: "+flagSummary(v))
	if v.Link != "" {
		lines = append(lines, wrap("URL: "+v.Link, width)...)
	}
	return lines
}

func flagSummary(v feedapi.Video) string {
	var flags []string
	if v.Watched {
		flags = append(flags, "watched")
	}
	if v.Bookmarked {
		flags = append(flags, "bookmarked")
	}
	if v.Starred {
		flags = append(flags, "starred")
	}
	if v.Disliked {
		flags = append(flags, "disliked")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, ", ")
}

// DetailLines is the full detail pane: metadata, the optional thumbnail and
// the rendered description, indented by margin.
func DetailLines(v feedapi.Video, contentWidth, margin int, thumb ThumbnailState) []string {
	lines := DetailMetaLines(v, contentWidth)
	if thumbLines := thumbnailLines(thumb, contentWidth); len(thumbLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, thumbLines...)
	}
	if desc := description.Lines(v, contentWidth); len(desc) > 0 {
		lines = append(lines, "")
		lines = append(lines, desc...)
	}
	return leftPadLines(lines, margin)
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	return max(0, linesLen-bodyHeight)
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	top = min(max(top, 0), len(lines)-1)
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

func thumbnailLines(thumb ThumbnailState, width int) []string {
	if !thumb.Enabled {
		return nil
	}
	if thumb.Loading {
		return []string{"Loading thumbnail..."}
	}
	if raw := strings.TrimRight(thumb.Raw, "\r\n"); strings.TrimSpace(raw) != "" {
		return centerLines(strings.Split(raw, "\n"), width)
	}
	if msg := strings.TrimSpace(thumb.Err); msg != "" {
		return []string{"Thumbnail unavailable: " + msg}
	}
	return nil
}

func leftPadLines(lines []string, padding int) []string {
	if padding <= 0 || len(lines) == 0 {
		return lines
	}
	prefix := strings.Repeat(" ", padding)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		out[i] = prefix + line
	}
	return out
}

func centerLines(lines []string, width int) []string {
	if width <= 0 || len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		visible := visibleLen(line)
		if visible >= width {
			out[i] = line
			continue
		}
		out[i] = strings.Repeat(" ", (width-visible)/2) + line
	}
	return out
}

func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var out []string
	line := ""
	for _, word := range words {
		for len([]rune(word)) > width {
			if line != "" {
				out = append(out, line)
				line = ""
			}
			runes := []rune(word)
			out = append(out, string(runes[:width]))
			word = string(runes[width:])
		}
		switch {
		case line == "":
			line = word
		case len([]rune(line))+1+len([]rune(word)) <= width:
			line += " " + word
		default:
			out = append(out, line)
			line = word
		}
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}

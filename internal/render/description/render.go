package description

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"

	"github.com/glabrego/vidfeed/internal/feedapi"
)

var reHTTPURL = regexp.MustCompile(`https?://[^\s)]+`)

var (
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Faint(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b4befe"))
)

type Options struct {
	StyleLinks bool
}

var DefaultOptions = Options{StyleLinks: true}

// Lines renders the description of v wrapped to width.
func Lines(v feedapi.Video, width int) []string {
	return LinesWithOptions(v, width, DefaultOptions)
}

func LinesWithOptions(v feedapi.Video, width int, opts Options) []string {
	raw := strings.TrimSpace(v.Description)
	if raw == "" {
		return nil
	}
	width = max(1, width)

	var lines []string
	if looksLikeHTML(raw) {
		lines = renderHTML(raw, width)
	}
	if len(lines) == 0 {
		lines = wrapText(html.UnescapeString(raw), width)
	}
	lines = trimBlankLines(lines)
	if opts.StyleLinks {
		for i, line := range lines {
			lines[i] = reHTTPURL.ReplaceAllStringFunc(line, func(u string) string {
				return linkStyle.Render(u)
			})
		}
	}
	return lines
}

// Text returns the plain description, without styling or wrapping.
func Text(v feedapi.Video) string {
	return strings.Join(LinesWithOptions(v, 1<<16, Options{}), "\n")
}

// URLs lists the distinct http(s) links mentioned in the description.
func URLs(v feedapi.Video) []string {
	text := Text(v)
	matches := reHTTPURL.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func looksLikeHTML(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}

func renderHTML(raw string, width int) []string {
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return nil
	}
	body := findBody(doc)
	if body == nil {
		return nil
	}
	r := renderer{width: width}
	r.walk(body)
	r.flush()
	return r.lines
}

type renderer struct {
	width  int
	lines  []string
	inline strings.Builder
}

func (r *renderer) flush() {
	text := normalize(r.inline.String())
	r.inline.Reset()
	if text == "" {
		return
	}
	if len(r.lines) > 0 && r.lines[len(r.lines)-1] != "" {
		r.lines = append(r.lines, "")
	}
	r.lines = append(r.lines, wrapText(text, r.width)...)
}

func (r *renderer) walk(node *nethtml.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case nethtml.TextNode:
			r.inline.WriteString(child.Data)
		case nethtml.ElementNode:
			r.element(child)
		}
	}
}

func (r *renderer) element(node *nethtml.Node) {
	switch tag := strings.ToLower(node.Data); tag {
	case "script", "style", "noscript", "img":
	case "br":
		r.inline.WriteString("\n")
	case "a":
		text := normalize(collectText(node))
		href := attr(node, "href")
		switch {
		case href == "" || strings.EqualFold(text, href):
			r.inline.WriteString(" " + text + " ")
		case text == "":
			r.inline.WriteString(" " + href + " ")
		default:
			r.inline.WriteString(" " + text + " (" + href + ") ")
		}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		r.flush()
		if text := normalize(collectText(node)); text != "" {
			if len(r.lines) > 0 {
				r.lines = append(r.lines, "")
			}
			for _, line := range wrapText(text, r.width) {
				r.lines = append(r.lines, headingStyle.Render(line))
			}
		}
	case "li":
		r.flush()
		if text := normalize(collectText(node)); text != "" {
			r.lines = append(r.lines, wrapText("• "+text, r.width)...)
		}
	case "ul", "ol":
		r.flush()
		if len(r.lines) > 0 && r.lines[len(r.lines)-1] != "" {
			r.lines = append(r.lines, "")
		}
		r.walk(node)
		r.flush()
	case "p", "div", "blockquote", "pre", "section", "article":
		r.flush()
		r.walk(node)
		r.flush()
	default:
		r.walk(node)
	}
}

func normalize(s string) string {
	s = html.UnescapeString(s)
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return strings.NewReplacer(" .", ".", " ,", ",", " !", "!", " ?", "?").Replace(strings.Join(out, "\n"))
}

func findBody(node *nethtml.Node) *nethtml.Node {
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBody(child); found != nil {
			return found
		}
	}
	return nil
}

func collectText(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && strings.EqualFold(child.Data, "br") {
			b.WriteString("\n")
			continue
		}
		b.WriteString(collectText(child))
	}
	return b.String()
}

func attr(node *nethtml.Node, name string) string {
	for _, a := range node.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func trimBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := true
	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

func wrapText(text string, width int) []string {
	var out []string
	for _, p := range strings.Split(text, "\n") {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
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
	}
	return out
}

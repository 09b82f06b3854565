package feedapi

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
}

// Video is one feed item as served by /api/feeds.
type Video struct {
	ID           string    `json:"video_id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Link         string    `json:"link"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Description  string    `json:"content"`
	PublishedAt  time.Time `json:"-"`

	Watched    bool `json:"watched"`
	Bookmarked bool `json:"bookmarked"`
	Starred    bool `json:"starred"`
	Disliked   bool `json:"disliked"`
}

// Key identifies the video inside the local store. Items whose link carries no
// recognizable id fall back to the link itself.
func (v Video) Key() string {
	if v.ID != "" {
		return v.ID
	}
	return strings.TrimSpace(v.Link)
}

func (v *Video) UnmarshalJSON(data []byte) error {
	type plain Video
	var wire struct {
		plain
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*v = Video(wire.plain)
	v.PublishedAt = parseEpoch(wire.Timestamp)
	if id := ExtractVideoID(v.Link); id != "" {
		v.ID = id
	}
	return nil
}

func (v Video) MarshalJSON() ([]byte, error) {
	type plain Video
	wire := struct {
		plain
		Timestamp string `json:"timestamp,omitempty"`
	}{plain: plain(v)}
	if !v.PublishedAt.IsZero() {
		wire.Timestamp = strconv.FormatInt(v.PublishedAt.Unix(), 10)
	}
	return json.Marshal(wire)
}

// ExtractVideoID returns the YouTube id embedded in link, or "" when the link
// matches none of the known URL shapes.
func ExtractVideoID(link string) string {
	if link == "" {
		return ""
	}
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(link); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// ThumbnailFor builds the default thumbnail URL for a video id.
func ThumbnailFor(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + videoID + "/hqdefault.jpg"
}

func parseEpoch(raw json.RawMessage) time.Time {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return time.Time{}
		}
		secs = int64(f)
	}
	return time.Unix(secs, 0).UTC()
}

package feedapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnsuccessful is returned when the backend answers 2xx but reports
// success=false in the body.
var ErrUnsuccessful = errors.New("backend reported failure")

// FeedQuery selects one page of the remote collection.
type FeedQuery struct {
	Page   int
	View   string
	Search string
	SortBy string
}

// FeedPage is the /api/feeds response.
type FeedPage struct {
	Feeds   []Video `json:"feeds"`
	HasMore bool    `json:"has_more"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}

// VideoRef carries the identifying fields every mutation endpoint expects.
type VideoRef struct {
	URL     string
	VideoID string
	Title   string
	Author  string
}

// RefFor builds a VideoRef from a feed item.
func RefFor(v Video) VideoRef {
	return VideoRef{URL: v.Link, VideoID: v.ID, Title: v.Title, Author: v.Author}
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) ListFeeds(ctx context.Context, q FeedQuery) (FeedPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	params := make(url.Values)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("view", q.View)
	params.Set("search", q.Search)
	params.Set("sort_by", q.SortBy)

	var page FeedPage
	if err := c.getJSON(ctx, "/api/feeds?"+params.Encode(), "feeds", &page); err != nil {
		return FeedPage{}, err
	}
	return page, nil
}

func (c *Client) SetBookmark(ctx context.Context, link string, add bool) error {
	action := "remove"
	if add {
		action = "add"
	}
	body := map[string]string{"url": link, "action": action}
	return c.postAction(ctx, "/bookmark", "bookmark", body)
}

// MarkWatched flips the watched flag. interactionType is "clicked" when the
// user opened the video and "marked" for an explicit toggle.
func (c *Client) MarkWatched(ctx context.Context, ref VideoRef, watched bool, interactionType string) error {
	action := "unread"
	if watched {
		action = "read"
	}
	body := map[string]string{
		"url":              ref.URL,
		"action":           action,
		"video_id":         ref.VideoID,
		"title":            ref.Title,
		"author":           ref.Author,
		"interaction_type": interactionType,
	}
	return c.postAction(ctx, "/mark_watched", "mark watched", body)
}

func (c *Client) SetStar(ctx context.Context, ref VideoRef, star bool) error {
	action := "unstar"
	if star {
		action = "star"
	}
	return c.postAction(ctx, "/star", "star", refBody(ref, action))
}

func (c *Client) SetDislike(ctx context.Context, ref VideoRef, dislike bool) error {
	action := "undislike"
	if dislike {
		action = "dislike"
	}
	return c.postAction(ctx, "/dislike", "dislike", refBody(ref, action))
}

// TrackInteraction reports one engagement signal. The response body carries
// nothing the client needs.
func (c *Client) TrackInteraction(ctx context.Context, kind string, ref VideoRef) error {
	body := map[string]string{
		"type":     kind,
		"video_id": ref.VideoID,
		"title":    ref.Title,
		"author":   ref.Author,
	}
	return c.postJSON(ctx, "/api/track_interaction", "track interaction", body, nil)
}

func refBody(ref VideoRef, action string) map[string]string {
	return map[string]string{
		"url":      ref.URL,
		"action":   action,
		"video_id": ref.VideoID,
		"title":    ref.Title,
		"author":   ref.Author,
	}
}

type actionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) postAction(ctx context.Context, path, resource string, body any) error {
	var out actionResponse
	if err := c.postJSON(ctx, path, resource, body, &out); err != nil {
		return err
	}
	if !out.Success {
		if out.Error != "" {
			return fmt.Errorf("%s: %w: %s", resource, ErrUnsuccessful, out.Error)
		}
		return fmt.Errorf("%s: %w", resource, ErrUnsuccessful)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path, resource string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, resource, out)
}

func (c *Client) postJSON(ctx context.Context, path, resource string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", resource, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return c.do(req, resource, out)
}

func (c *Client) do(req *http.Request, resource string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s failed with status %d: %s", resource, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

package view

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestThumbnailRenderer_MissingChafa(t *testing.T) {
	r := NewThumbnailRenderer()
	r.LookPath = func(string) (string, error) { return "", errors.New("not found") }
	_, err := r.Render(context.Background(), "https://i.ytimg.com/vi/abc/hqdefault.jpg", 40)
	if err == nil || !strings.Contains(err.Error(), "chafa is not installed") {
		t.Fatalf("expected missing chafa error, got %v", err)
	}
}

func TestThumbnailRenderer_EmptyURL(t *testing.T) {
	_, err := NewThumbnailRenderer().Render(context.Background(), " ", 40)
	if err == nil {
		t.Fatal("expected error for empty thumbnail url")
	}
}

func TestThumbnailRenderer_DownloadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	r := &ThumbnailRenderer{
		HTTPClient: ts.Client(),
		LookPath:   func(string) (string, error) { return "/usr/bin/chafa", nil },
	}
	_, err := r.Render(context.Background(), ts.URL+"/thumb.jpg", 40)
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

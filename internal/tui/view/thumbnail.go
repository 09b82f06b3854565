package view

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"
)

const (
	thumbnailRows     = 14
	maxThumbnailBytes = 5 * 1024 * 1024
)

// ThumbnailRenderer downloads a thumbnail and converts it to terminal
// symbols with chafa.
type ThumbnailRenderer struct {
	HTTPClient *http.Client
	// LookPath finds the chafa binary. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

func NewThumbnailRenderer() *ThumbnailRenderer {
	return &ThumbnailRenderer{
		HTTPClient: &http.Client{Timeout: 8 * time.Second},
		LookPath:   exec.LookPath,
	}
}

func (r *ThumbnailRenderer) Render(ctx context.Context, imageURL string, width int) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", fmt.Errorf("no thumbnail for this video")
	}
	if width < 30 {
		width = 40
	}
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	chafaPath, err := lookPath("chafa")
	if err != nil {
		return "", fmt.Errorf("chafa is not installed")
	}

	imageData, err := r.download(ctx, imageURL)
	if err != nil {
		return "", err
	}

	size := fmt.Sprintf("%dx%d", width, thumbnailRows)
	cmd := exec.CommandContext(ctx, chafaPath, "--size", size, "--view-size", size, "--align", "top,center", "--format", "symbols", "-")
	cmd.Stdin = bytes.NewReader(imageData)
	output, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(output))
	if err != nil {
		return "", fmt.Errorf("render thumbnail via chafa: %w: %s", err, trimmed)
	}
	if trimmed == "" {
		return "", fmt.Errorf("empty output")
	}
	return trimmed, nil
}

func (r *ThumbnailRenderer) download(ctx context.Context, imageURL string) ([]byte, error) {
	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build thumbnail request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download thumbnail: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download thumbnail: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes))
	if err != nil {
		return nil, fmt.Errorf("read thumbnail: %w", err)
	}
	return data, nil
}

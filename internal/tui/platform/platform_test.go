package platform

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidateVideoURL(t *testing.T) {
	got, err := ValidateVideoURL("  https://www.youtube.com/watch?v=abc123  ")
	if err != nil {
		t.Fatalf("ValidateVideoURL returned error: %v", err)
	}
	if got != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("expected trimmed link, got %q", got)
	}

	rejected := map[string]string{
		"":                         "video has no URL",
		"javascript:alert(1)":      "unsupported URL scheme",
		"file:///etc/passwd":       "unsupported URL scheme",
		"https:///watch?v=abc123":  "invalid URL host",
		"http://[::1]:namedport/x": "invalid URL format",
	}
	for raw, want := range rejected {
		if _, err := ValidateVideoURL(raw); err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("ValidateVideoURL(%q) error = %v, want it to mention %q", raw, err, want)
		}
	}
}

func TestBrowserCommand_PerPlatform(t *testing.T) {
	const link = "https://youtu.be/abc123"
	want := map[string][]string{
		"darwin":  {"open", link},
		"windows": {"rundll32", "url.dll,FileProtocolHandler", link},
		"linux":   {"xdg-open", link},
		"freebsd": {"xdg-open", link},
	}
	for goos, cmd := range want {
		name, args := browserCommand(goos, link)
		if got := append([]string{name}, args...); !reflect.DeepEqual(got, cmd) {
			t.Errorf("browserCommand(%q) = %v, want %v", goos, got, cmd)
		}
	}
}

func TestSelectClipboardCommand_PrefersListOrder(t *testing.T) {
	installed := func(bins ...string) func(string) (string, error) {
		return func(bin string) (string, error) {
			for _, b := range bins {
				if b == bin {
					return "/usr/bin/" + bin, nil
				}
			}
			return "", errors.New("not found")
		}
	}

	got, err := selectClipboardCommand(installed("xsel", "xclip"))
	if err != nil {
		t.Fatalf("selectClipboardCommand returned error: %v", err)
	}
	if want := []string{"xclip", "-selection", "clipboard"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected xclip before xsel, got %v", got)
	}

	if got, _ := selectClipboardCommand(installed("xclip", "wl-copy")); got[0] != "wl-copy" {
		t.Fatalf("expected wl-copy before xclip, got %v", got)
	}

	if _, err := selectClipboardCommand(installed()); err == nil {
		t.Fatal("expected an error when no clipboard tool is installed")
	}
}

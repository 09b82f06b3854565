package engagement

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func kinds(events []Event) []Kind {
	out := make([]Kind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestCollector_SkipAfterDwell(t *testing.T) {
	c := NewCollector()
	target := Target{VideoID: "abc", Title: "T", Author: "A"}

	if got := kinds(c.Enter(target, 0.6, t0)); len(got) != 1 || got[0] != KindView {
		t.Fatalf("expected view on enter, got %v", got)
	}
	got := c.Leave("abc", t0.Add(2500*time.Millisecond))
	if len(got) != 1 || got[0].Kind != KindSkip {
		t.Fatalf("expected skip, got %v", kinds(got))
	}
	if got[0].VideoID != "abc" || got[0].Title != "T" || got[0].ID == "" {
		t.Fatalf("unexpected skip event: %+v", got[0])
	}
}

func TestCollector_ShortDwellIsNotSkip(t *testing.T) {
	c := NewCollector()
	c.Enter(Target{VideoID: "abc"}, 1, t0)
	if got := c.Leave("abc", t0.Add(1999*time.Millisecond)); len(got) != 0 {
		t.Fatalf("expected no events, got %v", kinds(got))
	}
}

func TestCollector_ClickSuppressesSkip(t *testing.T) {
	c := NewCollector()
	target := Target{VideoID: "abc"}
	c.Enter(target, 0.9, t0)

	if got := kinds(c.Click(target, t0.Add(time.Second))); len(got) != 1 || got[0] != KindClick {
		t.Fatalf("expected click, got %v", got)
	}
	if got := c.Leave("abc", t0.Add(5*time.Second)); len(got) != 0 {
		t.Fatalf("expected no skip after click, got %v", kinds(got))
	}
}

func TestCollector_OneClassificationPerEpisode(t *testing.T) {
	c := NewCollector()
	target := Target{VideoID: "abc"}
	c.Enter(target, 1, t0)

	if got := kinds(c.Click(target, t0.Add(time.Second))); len(got) != 1 || got[0] != KindClick {
		t.Fatalf("expected first click, got %v", got)
	}
	if got := c.Click(target, t0.Add(2*time.Second)); len(got) != 0 {
		t.Fatalf("expected repeated click to be dropped, got %v", kinds(got))
	}
	if got := c.Mark(target, t0.Add(3*time.Second)); len(got) != 0 {
		t.Fatalf("expected mark after click to be dropped, got %v", kinds(got))
	}

	c.Leave("abc", t0.Add(4*time.Second))
	c.Enter(target, 1, t0.Add(5*time.Second))
	if got := kinds(c.Mark(target, t0.Add(6*time.Second))); len(got) != 1 || got[0] != KindMark {
		t.Fatalf("expected mark in a new episode, got %v", got)
	}
}

func TestCollector_ClickWithoutEpisodeIsReported(t *testing.T) {
	c := NewCollector()
	target := Target{VideoID: "abc"}
	for i := 0; i < 2; i++ {
		if got := c.Click(target, t0); len(got) != 1 {
			t.Fatalf("click %d: expected event without open episode, got %v", i, kinds(got))
		}
	}
}

func TestCollector_MarkSuppressesSkip(t *testing.T) {
	c := NewCollector()
	target := Target{VideoID: "abc"}
	c.Enter(target, 0.9, t0)
	c.Mark(target, t0.Add(time.Second))
	if got := c.Leave("abc", t0.Add(5*time.Second)); len(got) != 0 {
		t.Fatalf("expected no skip after mark, got %v", kinds(got))
	}
}

func TestCollector_BelowRatioAndNullIDAreIgnored(t *testing.T) {
	c := NewCollector()
	if got := c.Enter(Target{VideoID: "abc"}, 0.4, t0); len(got) != 0 {
		t.Fatalf("expected no episode below ratio, got %v", kinds(got))
	}
	if c.Open("abc") {
		t.Fatal("expected no open episode")
	}
	if got := c.Enter(Target{}, 1, t0); len(got) != 0 {
		t.Fatal("expected null id to be ignored")
	}
	if got := c.Click(Target{}, t0); len(got) != 0 {
		t.Fatal("expected click on null id to be ignored")
	}
}

func TestCollector_ReattachDoesNotDuplicateEpisodes(t *testing.T) {
	c := NewCollector()
	a := Target{VideoID: "a"}
	b := Target{VideoID: "b"}
	c.Enter(a, 1, t0)

	got := c.Reattach([]Visibility{{Target: a, Ratio: 1}, {Target: b, Ratio: 1}}, t0.Add(time.Second))
	if len(got) != 1 || got[0].Kind != KindView || got[0].VideoID != "b" {
		t.Fatalf("expected only a view for b, got %+v", got)
	}

	got = c.Reattach([]Visibility{{Target: b, Ratio: 1}}, t0.Add(3*time.Second))
	if len(got) != 1 || got[0].Kind != KindSkip || got[0].VideoID != "a" {
		t.Fatalf("expected skip for a, got %+v", got)
	}
	if !c.Open("b") || c.Open("a") {
		t.Fatal("unexpected open episodes after reattach")
	}
}

func TestCollector_CloseEndsAllEpisodes(t *testing.T) {
	c := NewCollector()
	c.Enter(Target{VideoID: "a"}, 1, t0)
	c.Enter(Target{VideoID: "b"}, 1, t0.Add(time.Second))

	got := c.Close(t0.Add(2500 * time.Millisecond))
	if len(got) != 1 || got[0].VideoID != "a" {
		t.Fatalf("expected skip for a only, got %+v", got)
	}
	if c.Open("a") || c.Open("b") {
		t.Fatal("expected no open episodes")
	}
}

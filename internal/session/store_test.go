package session

import (
	"testing"

	"github.com/glabrego/vidfeed/internal/feedapi"
)

func TestStore_MergeSkipsIneligibleAndDuplicates(t *testing.T) {
	s := NewStore()
	s.SetView(MainList, ViewUnwatched)

	items := []feedapi.Video{
		{ID: "a", Link: "https://youtu.be/a"},
		{ID: "b", Link: "https://youtu.be/b", Watched: true},
		{ID: "a", Link: "https://youtu.be/a"},
		{Link: "https://example.com/no-id"},
		{},
	}
	if got := s.Merge(MainList, items); got != 2 {
		t.Fatalf("expected 2 items added, got %d", got)
	}
	if _, ok := s.Get("b"); ok {
		t.Fatal("expected unreferenced ineligible entity to be dropped")
	}
	if _, ok := s.Get("https://example.com/no-id"); !ok {
		t.Fatal("expected link-keyed entity to be stored")
	}
}

func TestStore_PruneRemovesOnlyIneligibleProjections(t *testing.T) {
	s := NewStore()
	s.Replace(MainList, ViewBookmarked, []feedapi.Video{
		{ID: "a", Bookmarked: true},
		{ID: "b", Bookmarked: true},
	})
	s.Replace("discover", ViewDiscover, []feedapi.Video{{ID: "c"}, {ID: "b"}})

	s.Update("b", func(v *feedapi.Video) { v.Bookmarked = false })
	removed := s.Prune("b")
	if len(removed) != 1 || removed[0] != (Projection{List: MainList, Index: 1}) {
		t.Fatalf("unexpected removals: %+v", removed)
	}
	got := s.Projections("b")
	if len(got) != 1 || got[0].List != "discover" {
		t.Fatalf("expected discover projection to remain, got %+v", got)
	}
	if v, _ := s.Get("b"); v.Bookmarked {
		t.Fatal("expected shared entity to carry the new flag")
	}
}

func TestStore_PinnedEntitySurvivesClear(t *testing.T) {
	s := NewStore()
	s.Merge(MainList, []feedapi.Video{{ID: "a", Link: "https://youtu.be/a"}})
	s.Update("a", func(v *feedapi.Video) { v.Starred = true })
	s.Pin("a")

	s.Clear(MainList)
	s.Merge(MainList, []feedapi.Video{{ID: "a", Link: "https://youtu.be/a"}})
	if v, _ := s.Get("a"); !v.Starred {
		t.Fatal("expected pinned flags to win over the refetched copy")
	}

	s.Clear(MainList)
	s.Unpin("a")
	if _, ok := s.Get("a"); ok {
		t.Fatal("expected entity to be collected after unpin")
	}
}

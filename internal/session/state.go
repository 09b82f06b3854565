package session

import (
	"fmt"
	"strings"
)

type View string

const (
	ViewUnwatched  View = "unwatched"
	ViewWatched    View = "watched"
	ViewBookmarked View = "bookmarked"
	ViewStarred    View = "starred"
	ViewDiscover   View = "discover"
	ViewAll        View = "all"
)

// Views lists the views in navigation order.
var Views = []View{ViewUnwatched, ViewDiscover, ViewBookmarked, ViewStarred, ViewWatched, ViewAll}

func ParseView(raw string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", raw)
}

type Sort string

const (
	SortDateDesc  Sort = "date-desc"
	SortDateAsc   Sort = "date-asc"
	SortTitleAsc  Sort = "title-asc"
	SortAuthorAsc Sort = "author-asc"
)

var Sorts = []Sort{SortDateDesc, SortDateAsc, SortTitleAsc, SortAuthorAsc}

func ParseSort(raw string) (Sort, error) {
	s := Sort(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Sorts {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q", raw)
}

// Condition is what the renderer should say about the result list besides
// the items themselves.
type Condition int

const (
	ConditionNone Condition = iota
	// ConditionEmpty: page 1 came back with no items.
	ConditionEmpty
	// ConditionExhausted: items were loaded and the backend has no more.
	ConditionExhausted
	// ConditionFetchFailed: the last fetch of this generation failed.
	ConditionFetchFailed
)

func (c Condition) String() string {
	switch c {
	case ConditionEmpty:
		return "empty"
	case ConditionExhausted:
		return "exhausted"
	case ConditionFetchFailed:
		return "fetch-failed"
	default:
		return "none"
	}
}

// State is the pagination and filter state of one session generation.
type State struct {
	View       View
	SortBy     Sort
	Search     string
	Page       int
	HasMore    bool
	Loading    bool
	Generation uint64
	Condition  Condition
	// FetchErr is set while Condition is ConditionFetchFailed.
	FetchErr error
}

// FetchRequest is one page fetch issued by the engine. Generation ties the
// response back to the session identity it was issued under.
type FetchRequest struct {
	Page       int
	View       View
	Search     string
	SortBy     Sort
	Generation uint64
	Reset      bool
}

package session

import (
	"errors"
	"fmt"

	"github.com/glabrego/vidfeed/internal/feedapi"
)

var (
	ErrActionInFlight = errors.New("action already in flight")
	ErrUnknownEntity  = errors.New("unknown entity")
)

type ActionKind string

const (
	ActionWatched  ActionKind = "watched"
	ActionBookmark ActionKind = "bookmark"
	ActionStar     ActionKind = "star"
	ActionDislike  ActionKind = "dislike"
)

// Interaction types reported with watched changes.
const (
	InteractionClicked = "clicked"
	InteractionMarked  = "marked"
)

func ParseActionKind(raw string) (ActionKind, error) {
	switch k := ActionKind(raw); k {
	case ActionWatched, ActionBookmark, ActionStar, ActionDislike:
		return k, nil
	}
	return "", fmt.Errorf("unknown action %q", raw)
}

func (k ActionKind) flag(v *feedapi.Video) *bool {
	switch k {
	case ActionWatched:
		return &v.Watched
	case ActionBookmark:
		return &v.Bookmarked
	case ActionStar:
		return &v.Starred
	case ActionDislike:
		return &v.Disliked
	default:
		return nil
	}
}

// Value reads the flag k controls.
func (k ActionKind) Value(v feedapi.Video) bool {
	if p := k.flag(&v); p != nil {
		return *p
	}
	return false
}

// ActionRequest is one optimistic mutation waiting for its remote call.
type ActionRequest struct {
	Key      string
	Kind     ActionKind
	Value    bool
	Previous bool
	// Video is the entity as it looked right after the optimistic change.
	Video feedapi.Video
	// Interaction is set for watched changes: clicked or marked.
	Interaction string
}

// ActionOutcome is what settling an ActionRequest did to the session.
type ActionOutcome struct {
	Removed    []Projection
	RolledBack bool
	// Backfill is set when removals left too few visible items.
	Backfill *FetchRequest
}

type inflightKey struct {
	key  string
	kind ActionKind
}

package engagement

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindView  Kind = "view"
	KindClick Kind = "click"
	KindMark  Kind = "mark"
	KindSkip  Kind = "skip"
)

// Target is the part of a video the recommendation backend needs.
type Target struct {
	VideoID string
	Title   string
	Author  string
}

// Event is one engagement signal. ID is unique per event so a resent outbox
// row can be recognised.
type Event struct {
	ID      string
	Kind    Kind
	VideoID string
	Title   string
	Author  string
	At      time.Time
}

func newEvent(kind Kind, t Target, at time.Time) Event {
	return Event{
		ID:      uuid.NewString(),
		Kind:    kind,
		VideoID: t.VideoID,
		Title:   t.Title,
		Author:  t.Author,
		At:      at,
	}
}

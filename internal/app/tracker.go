package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/glabrego/vidfeed/internal/engagement"
	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/storage"
)

const flushBatch = 50

type InteractionPoster interface {
	TrackInteraction(ctx context.Context, kind string, ref feedapi.VideoRef) error
}

type Outbox interface {
	AppendEvents(ctx context.Context, events []engagement.Event) error
	PendingEvents(ctx context.Context, limit int) ([]storage.PendingEvent, error)
	MarkEventSent(ctx context.Context, id string, at time.Time) error
	MarkEventFailed(ctx context.Context, id string, cause error) error
}

// FlushResult counts what one flush did.
type FlushResult struct {
	Sent   int
	Failed int
}

// Tracker persists engagement events and posts them at a bounded rate.
// Posting failures leave rows pending for the next flush.
type Tracker struct {
	poster  InteractionPoster
	outbox  Outbox
	limiter *rate.Limiter
	log     *slog.Logger
	now     func() time.Time

	flushMu sync.Mutex
}

func NewTracker(poster InteractionPoster, outbox Outbox, perSecond float64, burst int, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if burst < 1 {
		burst = 1
	}
	return &Tracker{
		poster:  poster,
		outbox:  outbox,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		log:     logger.With("component", "tracker"),
		now:     time.Now,
	}
}

// Record appends events to the outbox.
func (t *Tracker) Record(ctx context.Context, events []engagement.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := t.outbox.AppendEvents(ctx, events); err != nil {
		return fmt.Errorf("record %d events: %w", len(events), err)
	}
	return nil
}

// Flush posts pending events until the outbox is drained or a post fails.
// Only one flush runs at a time.
func (t *Tracker) Flush(ctx context.Context) (FlushResult, error) {
	t.flushMu.Lock()
	defer t.flushMu.Unlock()

	var res FlushResult
	for {
		pending, err := t.outbox.PendingEvents(ctx, flushBatch)
		if err != nil {
			return res, fmt.Errorf("load pending events: %w", err)
		}
		if len(pending) == 0 {
			return res, nil
		}
		for _, ev := range pending {
			if err := t.limiter.Wait(ctx); err != nil {
				return res, fmt.Errorf("wait for rate limiter: %w", err)
			}
			ref := feedapi.VideoRef{VideoID: ev.VideoID, Title: ev.Title, Author: ev.Author}
			if err := t.poster.TrackInteraction(ctx, string(ev.Kind), ref); err != nil {
				res.Failed++
				t.log.Warn("track interaction failed", "event_id", ev.ID, "kind", ev.Kind, "video_id", ev.VideoID, "error", err)
				if markErr := t.outbox.MarkEventFailed(ctx, ev.ID, err); markErr != nil {
					return res, markErr
				}
				// The backend is likely unreachable; leave the rest for later.
				return res, nil
			}
			if err := t.outbox.MarkEventSent(ctx, ev.ID, t.now()); err != nil {
				return res, err
			}
			res.Sent++
		}
	}
}

// RecordAndFlush is the fire-and-forget path used by the UI.
func (t *Tracker) RecordAndFlush(ctx context.Context, events []engagement.Event) (FlushResult, error) {
	if err := t.Record(ctx, events); err != nil {
		return FlushResult{}, err
	}
	return t.Flush(ctx)
}

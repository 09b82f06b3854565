package session

import (
	"io"
	"log/slog"
)

const (
	DefaultMinVisible      = 6
	DefaultScrollProximity = 500
)

type Options struct {
	// MinVisible is the backfill threshold.
	MinVisible int
	// ScrollProximity is the distance from the bottom, in the caller's
	// scroll units, that triggers the next page.
	ScrollProximity int
	// RollbackOnFailure reverts an optimistic flag when its remote call fails.
	RollbackOnFailure bool
	Logger            *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		MinVisible:      DefaultMinVisible,
		ScrollProximity: DefaultScrollProximity,
	}
}

func (o Options) withDefaults() Options {
	out := o
	if out.MinVisible <= 0 {
		out.MinVisible = DefaultMinVisible
	}
	if out.ScrollProximity <= 0 {
		out.ScrollProximity = DefaultScrollProximity
	}
	if out.Logger == nil {
		out.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return out
}

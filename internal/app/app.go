package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/session"
	"github.com/glabrego/vidfeed/internal/storage"
)

const (
	cacheTTL      = 30 * time.Second
	statsCacheKey = "stats"
	subsCacheKey  = "subscriptions"
)

type FeedClient interface {
	ListFeeds(ctx context.Context, q feedapi.FeedQuery) (feedapi.FeedPage, error)
	SetBookmark(ctx context.Context, link string, add bool) error
	MarkWatched(ctx context.Context, ref feedapi.VideoRef, watched bool, interactionType string) error
	SetStar(ctx context.Context, ref feedapi.VideoRef, star bool) error
	SetDislike(ctx context.Context, ref feedapi.VideoRef, dislike bool) error
	ListSubscriptions(ctx context.Context) ([]feedapi.Subscription, error)
	SaveSubscriptions(ctx context.Context, subs []feedapi.Subscription) error
	RecommendationStats(ctx context.Context) (feedapi.Stats, error)
}

type Repository interface {
	SaveViewPage(ctx context.Context, view string, page int, videos []feedapi.Video) error
	SaveFlags(ctx context.Context, v feedapi.Video) error
	ListView(ctx context.Context, view string, limit int) ([]feedapi.Video, error)
	SaveUIPreferences(ctx context.Context, prefs storage.UIPreferences) error
	LoadUIPreferences(ctx context.Context) (storage.UIPreferences, bool, error)
}

type Service struct {
	client FeedClient
	repo   Repository
	cache  *cache.Cache
	log    *slog.Logger
}

func NewService(client FeedClient, repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		client: client,
		repo:   repo,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
		log:    logger.With("component", "app"),
	}
}

// FetchPage loads one page for the session and caches it for offline start.
// A cache write failure is logged, never returned.
func (s *Service) FetchPage(ctx context.Context, req session.FetchRequest) (feedapi.FeedPage, error) {
	page, err := s.client.ListFeeds(ctx, feedapi.FeedQuery{
		Page:   req.Page,
		View:   string(req.View),
		Search: req.Search,
		SortBy: string(req.SortBy),
	})
	if err != nil {
		return feedapi.FeedPage{}, fmt.Errorf("fetch %s page %d: %w", req.View, req.Page, err)
	}
	if req.Search == "" {
		if err := s.repo.SaveViewPage(ctx, string(req.View), req.Page, page.Feeds); err != nil {
			s.log.Warn("cache page failed", "view", req.View, "page", req.Page, "error", err)
		}
	}
	return page, nil
}

// FetchDiscover loads the first page of the discover view for the side panel.
func (s *Service) FetchDiscover(ctx context.Context, sortBy session.Sort) ([]feedapi.Video, error) {
	page, err := s.client.ListFeeds(ctx, feedapi.FeedQuery{Page: 1, View: string(session.ViewDiscover), SortBy: string(sortBy)})
	if err != nil {
		return nil, fmt.Errorf("fetch discover: %w", err)
	}
	return page.Feeds, nil
}

func (s *Service) ListCached(ctx context.Context, view session.View, limit int) ([]feedapi.Video, error) {
	videos, err := s.repo.ListView(ctx, string(view), limit)
	if err != nil {
		return nil, fmt.Errorf("load %s from cache: %w", view, err)
	}
	return videos, nil
}

// PerformAction issues the remote call for an optimistic mutation.
func (s *Service) PerformAction(ctx context.Context, req session.ActionRequest) error {
	ref := feedapi.RefFor(req.Video)
	var err error
	switch req.Kind {
	case session.ActionWatched:
		interaction := req.Interaction
		if interaction == "" {
			interaction = session.InteractionMarked
		}
		err = s.client.MarkWatched(ctx, ref, req.Value, interaction)
	case session.ActionBookmark:
		err = s.client.SetBookmark(ctx, ref.URL, req.Value)
	case session.ActionStar:
		err = s.client.SetStar(ctx, ref, req.Value)
	case session.ActionDislike:
		err = s.client.SetDislike(ctx, ref, req.Value)
	default:
		return fmt.Errorf("unsupported action %q", req.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Kind, req.Key, err)
	}

	s.cache.Delete(statsCacheKey)
	if err := s.repo.SaveFlags(ctx, req.Video); err != nil {
		s.log.Warn("cache flags failed", "video_id", req.Key, "error", err)
	}
	return nil
}

// Stats returns recommendation stats, cached for a short while.
func (s *Service) Stats(ctx context.Context) (feedapi.Stats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(feedapi.Stats), nil
	}
	stats, err := s.client.RecommendationStats(ctx)
	if err != nil {
		return feedapi.Stats{}, fmt.Errorf("fetch stats: %w", err)
	}
	s.cache.SetDefault(statsCacheKey, stats)
	return stats, nil
}

func (s *Service) LoadUIPreferences(ctx context.Context) (storage.UIPreferences, bool, error) {
	prefs, found, err := s.repo.LoadUIPreferences(ctx)
	if err != nil {
		return storage.UIPreferences{}, false, fmt.Errorf("load ui preferences: %w", err)
	}
	return prefs, found, nil
}

func (s *Service) SaveUIPreferences(ctx context.Context, prefs storage.UIPreferences) error {
	if err := s.repo.SaveUIPreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	return nil
}

// IsUnsuccessful reports whether err came from the backend refusing an
// action rather than from the transport.
func IsUnsuccessful(err error) bool {
	return errors.Is(err, feedapi.ErrUnsuccessful)
}

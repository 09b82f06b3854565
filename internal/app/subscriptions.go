package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glabrego/vidfeed/internal/feedapi"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type subscriptionFile struct {
	Subscriptions []feedapi.Subscription `yaml:"subscriptions"`
}

func (s *Service) Subscriptions(ctx context.Context) ([]feedapi.Subscription, error) {
	if cached, ok := s.cache.Get(subsCacheKey); ok {
		return append([]feedapi.Subscription(nil), cached.([]feedapi.Subscription)...), nil
	}
	subs, err := s.client.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch subscriptions: %w", err)
	}
	s.cache.SetDefault(subsCacheKey, subs)
	return append([]feedapi.Subscription(nil), subs...), nil
}

// ReplaceSubscriptions stores the full list; the backend has no partial
// update.
func (s *Service) ReplaceSubscriptions(ctx context.Context, subs []feedapi.Subscription) error {
	s.cache.Delete(subsCacheKey)
	if err := s.client.SaveSubscriptions(ctx, subs); err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	return nil
}

// AddSubscription appends sub unless a subscription with the same URL
// exists. It reports whether the list changed.
func (s *Service) AddSubscription(ctx context.Context, sub feedapi.Subscription) (bool, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.URL = strings.TrimSpace(sub.URL)
	if sub.URL == "" {
		return false, errors.New("subscription url is required")
	}
	subs, err := s.Subscriptions(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range subs {
		if existing.URL == sub.URL {
			return false, nil
		}
	}
	if sub.Name == "" {
		sub.Name = sub.URL
	}
	return true, s.ReplaceSubscriptions(ctx, append(subs, sub))
}

// RemoveSubscription drops the subscription whose URL or name matches.
func (s *Service) RemoveSubscription(ctx context.Context, nameOrURL string) error {
	nameOrURL = strings.TrimSpace(nameOrURL)
	subs, err := s.Subscriptions(ctx)
	if err != nil {
		return err
	}
	kept := make([]feedapi.Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.URL == nameOrURL || strings.EqualFold(sub.Name, nameOrURL) {
			continue
		}
		kept = append(kept, sub)
	}
	if len(kept) == len(subs) {
		return fmt.Errorf("remove %q: %w", nameOrURL, ErrSubscriptionNotFound)
	}
	return s.ReplaceSubscriptions(ctx, kept)
}

func (s *Service) ExportSubscriptions(ctx context.Context, w io.Writer) error {
	subs, err := s.Subscriptions(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(subscriptionFile{Subscriptions: subs}); err != nil {
		return fmt.Errorf("encode subscriptions: %w", err)
	}
	return enc.Close()
}

// ImportSubscriptions reads a YAML export. With replace the file becomes the
// whole list; otherwise new URLs are appended. It returns the resulting count.
func (s *Service) ImportSubscriptions(ctx context.Context, r io.Reader, replace bool) (int, error) {
	var file subscriptionFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("decode subscriptions: %w", err)
	}

	var merged []feedapi.Subscription
	seen := make(map[string]struct{})
	if !replace {
		current, err := s.Subscriptions(ctx)
		if err != nil {
			return 0, err
		}
		for _, sub := range current {
			seen[sub.URL] = struct{}{}
			merged = append(merged, sub)
		}
	}
	for _, sub := range file.Subscriptions {
		sub.URL = strings.TrimSpace(sub.URL)
		if sub.URL == "" {
			continue
		}
		if _, ok := seen[sub.URL]; ok {
			continue
		}
		seen[sub.URL] = struct{}{}
		merged = append(merged, sub)
	}
	if err := s.ReplaceSubscriptions(ctx, merged); err != nil {
		return 0, err
	}
	return len(merged), nil
}

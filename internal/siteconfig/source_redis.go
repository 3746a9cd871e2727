package siteconfig

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"formprefill/pkg/platform/sentinel"
)

const defaultSitesKey = "formprefill:sites"

// RedisSource keeps site documents as YAML strings in a Redis hash keyed by
// site identifier, so several service instances share one configuration.
type RedisSource struct {
	client *redis.Client
	key    string
}

// RedisSourceOption configures a RedisSource.
type RedisSourceOption func(*RedisSource)

// WithKey overrides the hash key.
func WithKey(key string) RedisSourceOption {
	return func(s *RedisSource) {
		s.key = key
	}
}

func NewRedisSource(client *redis.Client, opts ...RedisSourceOption) *RedisSource {
	s := &RedisSource{client: client, key: defaultSitesKey}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisSource) Load(ctx context.Context) ([]*Site, error) {
	docs, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load site configs: %w: %w", sentinel.ErrUnavailable, err)
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sites := make([]*Site, 0, len(ids))
	for _, id := range ids {
		site, err := Parse([]byte(docs[id]))
		if err != nil {
			return nil, fmt.Errorf("parse site config %s: %w", id, err)
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// Save stores a validated site document under its identifier.
func (s *RedisSource) Save(ctx context.Context, site *Site) error {
	if err := site.Validate(); err != nil {
		return err
	}
	data, err := Marshal(site)
	if err != nil {
		return fmt.Errorf("encode site config: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, site.Identifier, string(data)).Err(); err != nil {
		return fmt.Errorf("save site config %s: %w", site.Identifier, err)
	}
	return nil
}

// Delete removes a site document.
func (s *RedisSource) Delete(ctx context.Context, identifier string) error {
	removed, err := s.client.HDel(ctx, s.key, identifier).Result()
	if err != nil {
		return fmt.Errorf("delete site config %s: %w", identifier, err)
	}
	if removed == 0 {
		return fmt.Errorf("delete site config %s: %w", identifier, sentinel.ErrNotFound)
	}
	return nil
}

// Package cache persists the most recent recommendation batch so it can be
// shown on cold start before a fresh generation finishes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/metrics"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/Veraticus/fanplan/internal/service"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Keys under which the two recommendation lists are stored.
const (
	EntityKey  = "recommendations/entities"
	ContentKey = "recommendations/content"
)

// SchemaVersion is the envelope version written by Save. Entries with any
// other version are ignored on Load.
const SchemaVersion = 1

// DefaultMaxAge is how long a cached batch stays usable.
const DefaultMaxAge = 24 * time.Hour

// envelope is the stored form of one recommendation list.
type envelope[T any] struct {
	GeneratedAt time.Time `json:"generated_at"`
	UserID      uuid.UUID `json:"user_id"`
	Items       []T       `json:"items"`
	Version     int       `json:"version"`
}

// Snapshot is the last saved recommendation batch. Either list is nil when
// its entry was missing or unusable.
type Snapshot struct {
	GeneratedAt time.Time
	Entities    []model.EntityRecommendation
	Content     []model.ContentRecommendation
	UserID      uuid.UUID
}

// Cache reads and writes recommendation snapshots through a KeyValueStore.
type Cache struct {
	store  service.KeyValueStore
	now    func() time.Time
	maxAge time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxAge sets how long entries stay valid. Zero disables expiry.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) { c.maxAge = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache over store.
func New(store service.KeyValueStore, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		now:    time.Now,
		maxAge: DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save writes both lists. Both writes are attempted even if the first fails.
func (c *Cache) Save(ctx context.Context, userID uuid.UUID, entities []model.EntityRecommendation, content []model.ContentRecommendation) error {
	generatedAt := c.now().UTC()

	entityErr := put(ctx, c.store, EntityKey, envelope[model.EntityRecommendation]{
		Version:     SchemaVersion,
		GeneratedAt: generatedAt,
		UserID:      userID,
		Items:       nonNil(entities),
	})
	contentErr := put(ctx, c.store, ContentKey, envelope[model.ContentRecommendation]{
		Version:     SchemaVersion,
		GeneratedAt: generatedAt,
		UserID:      userID,
		Items:       nonNil(content),
	})

	if err := errors.Join(entityErr, contentErr); err != nil {
		metrics.CacheOperations.WithLabelValues("save", "error").Inc()
		return err
	}
	metrics.CacheOperations.WithLabelValues("save", "ok").Inc()
	return nil
}

// Load returns the last saved snapshot, or nil when nothing usable is cached.
// Missing, corrupt, foreign-version and expired entries are treated as absent.
func (c *Cache) Load(ctx context.Context) *Snapshot {
	entities, entityMeta := get[model.EntityRecommendation](ctx, c, EntityKey)
	content, contentMeta := get[model.ContentRecommendation](ctx, c, ContentKey)

	if entityMeta == nil && contentMeta == nil {
		return nil
	}

	// Lists from different Save calls are never mixed; the older one is dropped.
	if entityMeta != nil && contentMeta != nil && !entityMeta.sameSave(*contentMeta) {
		slog.Warn("Recommendation cache entries come from different saves",
			"entities_generated_at", entityMeta.generatedAt,
			"content_generated_at", contentMeta.generatedAt)
		if contentMeta.generatedAt.After(entityMeta.generatedAt) {
			entities, entityMeta = nil, nil
		} else {
			content, contentMeta = nil, nil
		}
	}

	meta := entityMeta
	if meta == nil {
		meta = contentMeta
	}
	return &Snapshot{
		GeneratedAt: meta.generatedAt,
		UserID:      meta.userID,
		Entities:    entities,
		Content:     content,
	}
}

// Clear removes both entries.
func (c *Cache) Clear(ctx context.Context) error {
	return errors.Join(
		c.store.Delete(ctx, EntityKey),
		c.store.Delete(ctx, ContentKey),
	)
}

type envelopeMeta struct {
	generatedAt time.Time
	userID      uuid.UUID
}

func (m envelopeMeta) sameSave(o envelopeMeta) bool {
	return m.userID == o.userID && m.generatedAt.Equal(o.generatedAt)
}

func put[T any](ctx context.Context, store service.KeyValueStore, key string, env envelope[T]) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func get[T any](ctx context.Context, c *Cache, key string) ([]T, *envelopeMeta) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			slog.Warn("Failed to read recommendation cache", "key", key, "error", err)
		}
		metrics.CacheOperations.WithLabelValues("load", "miss").Inc()
		return nil, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("Ignoring corrupt recommendation cache entry",
			"key", key,
			"error", fmt.Errorf("%w: %v", common.ErrCacheCorrupted, err))
		metrics.CacheOperations.WithLabelValues("load", "corrupt").Inc()
		return nil, nil
	}

	if env.Version != SchemaVersion {
		slog.Info("Ignoring recommendation cache entry with unknown version",
			"key", key,
			"version", env.Version)
		metrics.CacheOperations.WithLabelValues("load", "corrupt").Inc()
		return nil, nil
	}

	if c.maxAge > 0 && c.now().Sub(env.GeneratedAt) > c.maxAge {
		slog.Debug("Recommendation cache entry expired",
			"key", key,
			"generated_at", env.GeneratedAt)
		metrics.CacheOperations.WithLabelValues("load", "expired").Inc()
		return nil, nil
	}

	metrics.CacheOperations.WithLabelValues("load", "hit").Inc()
	return nonNil(env.Items), &envelopeMeta{generatedAt: env.GeneratedAt, userID: env.UserID}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

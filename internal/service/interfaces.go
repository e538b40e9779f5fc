// Package service defines the contracts between the recommendation core and
// the collaborators that feed it.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/google/uuid"
)

// ProfileSource provides user profile snapshots.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error)
}

// PurchaseSource provides purchase history, most recent first.
type PurchaseSource interface {
	GetRecentPurchases(ctx context.Context, userID uuid.UUID, limit int) ([]model.PurchaseRecord, error)
}

// InteractionSource provides the optional interaction log.
type InteractionSource interface {
	GetInteractions(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.UserInteractionEvent, error)
}

// SimilarityLookup returns the entities favored by users that behave like userID.
// Implementations may fail; callers treat a failure as an empty set.
type SimilarityLookup interface {
	FetchSimilarUserEntities(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
}

// SimilarityLookupFunc adapts a function to SimilarityLookup.
type SimilarityLookupFunc func(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)

// FetchSimilarUserEntities calls f.
func (f SimilarityLookupFunc) FetchSimilarUserEntities(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	return f(ctx, userID)
}

// KeyValueStore is the narrow persistence contract used by the recommendation cache.
// Get returns common.ErrNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

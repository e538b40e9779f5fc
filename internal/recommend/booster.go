package recommend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/metrics"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/Veraticus/fanplan/internal/service"
	"github.com/google/uuid"
)

// PopularitySuffix is appended to the justification of boosted recommendations.
const PopularitySuffix = " • Popular with users who have similar tastes"

// CollaborativeBooster raises the score of recommendations that similar
// users favor.
type CollaborativeBooster struct {
	lookup  service.SimilarityLookup
	amount  float64
	timeout time.Duration
}

// NewCollaborativeBooster creates a booster. A nil lookup disables boosting.
func NewCollaborativeBooster(lookup service.SimilarityLookup, amount float64, timeout time.Duration) *CollaborativeBooster {
	return &CollaborativeBooster{
		lookup:  lookup,
		amount:  amount,
		timeout: timeout,
	}
}

// Boost fetches the similar-user set for userID and applies it. A failed or
// timed-out lookup leaves recs unchanged.
func (b *CollaborativeBooster) Boost(ctx context.Context, recs []model.EntityRecommendation, userID uuid.UUID) []model.EntityRecommendation {
	similar := b.fetch(ctx, userID)
	boosted := BoostWith(recs, similar, b.amount)

	if n := countBoosted(boosted) - countBoosted(recs); n > 0 {
		metrics.BoostedRecommendations.Add(float64(n))
	}
	return boosted
}

// fetch calls the lookup under the configured timeout. A lookup that
// ignores its context is abandoned once the timeout fires.
func (b *CollaborativeBooster) fetch(ctx context.Context, userID uuid.UUID) map[string]struct{} {
	if b.lookup == nil {
		metrics.SimilarityLookups.WithLabelValues(metrics.LookupDisabled).Inc()
		return nil
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	type result struct {
		set map[string]struct{}
		err error
	}
	done := make(chan result, 1)
	go func() {
		set, err := b.lookup.FetchSimilarUserEntities(ctx, userID)
		done <- result{set: set, err: err}
	}()

	select {
	case <-ctx.Done():
		metrics.SimilarityLookups.WithLabelValues(metrics.LookupTimeout).Inc()
		slog.Warn("Similar-user lookup timed out, skipping boost",
			"user_id", userID,
			"timeout", b.timeout,
			"error", ctx.Err())
		return nil
	case r := <-done:
		if r.err != nil {
			outcome := metrics.LookupError
			if errors.Is(r.err, context.DeadlineExceeded) {
				outcome = metrics.LookupTimeout
			}
			metrics.SimilarityLookups.WithLabelValues(outcome).Inc()
			common.LogWarn(ctx, r.err, "Similar-user lookup failed, skipping boost", common.Fields{"user_id": userID})
			return nil
		}
		metrics.SimilarityLookups.WithLabelValues(metrics.LookupSuccess).Inc()
		slog.Debug("Fetched similar-user entities", "user_id", userID, "count", len(r.set))
		return r.set
	}
}

// BoostWith adds amount to every recommendation whose entity is in similar,
// clamping at 1.0, and appends PopularitySuffix to its justification.
// Order is preserved. A recommendation is boosted at most once, so applying
// BoostWith again with the same set returns the same result.
func BoostWith(recs []model.EntityRecommendation, similar map[string]struct{}, amount float64) []model.EntityRecommendation {
	out := make([]model.EntityRecommendation, len(recs))
	copy(out, recs)
	if len(similar) == 0 {
		return out
	}

	ids := make(map[model.EntityID]bool, len(similar))
	for name := range similar {
		ids[model.IDFromName(name)] = true
	}

	for i := range out {
		if out[i].Boosted || !ids[model.IDFromName(out[i].EntityName)] {
			continue
		}
		out[i].Score = clamp(out[i].Score + amount)
		out[i].Justification += PopularitySuffix
		out[i].Boosted = true
	}
	return out
}

func countBoosted(recs []model.EntityRecommendation) int {
	n := 0
	for _, r := range recs {
		if r.Boosted {
			n++
		}
	}
	return n
}

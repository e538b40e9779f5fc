package recommend

import (
	"context"
	"math"

	"github.com/Veraticus/fanplan/internal/model"
)

// Strategy is an independent heuristic that proposes candidate entities.
// Implementations must be pure functions of their Input: they may run
// concurrently and must not retain or mutate it.
type Strategy interface {
	Tag() model.StrategyTag
	Score(ctx context.Context, in Input) []model.EntityRecommendation
}

// Input is the immutable snapshot handed to every strategy.
type Input struct {
	weights   map[model.EntityID]float64
	Followed  []model.FollowedEntity
	Purchases []model.PurchaseRecord
}

// NewInput builds a strategy input. Each followed entity's engagement
// weight is its spent percentage.
func NewInput(followed []model.FollowedEntity, purchases []model.PurchaseRecord) Input {
	in := Input{
		Followed:  followed,
		Purchases: purchases,
		weights:   make(map[model.EntityID]float64, len(followed)),
	}
	for _, f := range followed {
		in.weights[model.IDFromName(f.Name)] = f.SpentPercentage()
	}
	return in
}

// withEngagementFloor raises the weight of followed entities that have no
// spend yet but show engagement in the interaction log.
func (in Input) withEngagementFloor(interactions []model.UserInteractionEvent, floor float64) Input {
	if floor <= 0 || len(interactions) == 0 {
		return in
	}

	engaged := make(map[model.EntityID]bool)
	for _, ev := range interactions {
		if ev.Kind.IsEngagement() {
			engaged[model.IDFromName(ev.EntityName)] = true
		}
	}

	weights := make(map[model.EntityID]float64, len(in.weights))
	for id, w := range in.weights {
		if w <= 0 && engaged[id] {
			w = floor
		}
		weights[id] = w
	}
	in.weights = weights
	return in
}

// Weight returns the engagement weight of f as a percentage.
func (in Input) Weight(f model.FollowedEntity) float64 {
	if w, ok := in.weights[model.IDFromName(f.Name)]; ok {
		return w
	}
	return f.SpentPercentage()
}

// clamp bounds a score to [0, 1]. NaN scores become 0.
func clamp(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

func sameEntity(a, b string) bool {
	return model.IDFromName(a) == model.IDFromName(b)
}

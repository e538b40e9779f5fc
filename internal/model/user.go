package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// UserProfile is the snapshot of a user handed to the recommendation engine.
type UserProfile struct {
	CreatedAt   time.Time
	DisplayName string
	Followed    []FollowedEntity
	ID          uuid.UUID
	TotalBudget float64
	TotalSpent  float64
}

// AvailableBudget returns the budget not yet spent. It may be negative
// when the user has overspent.
func (u UserProfile) AvailableBudget() float64 {
	return u.TotalBudget - u.TotalSpent
}

// FollowedSet builds a name set from followed entities.
func FollowedSet(followed []FollowedEntity) map[string]struct{} {
	set := make(map[string]struct{}, len(followed))
	for _, f := range followed {
		set[f.Name] = struct{}{}
	}
	return set
}

// SortByRank returns a copy of followed ordered by rank, lowest rank first.
// Ties keep their input order.
func SortByRank(followed []FollowedEntity) []FollowedEntity {
	sorted := make([]FollowedEntity, len(followed))
	copy(sorted, followed)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})
	return sorted
}

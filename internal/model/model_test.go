package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowedEntity_SpentPercentage(t *testing.T) {
	tests := []struct {
		name   string
		entity FollowedEntity
		want   float64
	}{
		{"half spent", FollowedEntity{Allocated: 200, Spent: 100}, 50},
		{"nothing allocated", FollowedEntity{Allocated: 0, Spent: 40}, 0},
		{"overspent", FollowedEntity{Allocated: 100, Spent: 150}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.entity.SpentPercentage(), 1e-9)
		})
	}
}

func TestFollowedEntity_Remaining(t *testing.T) {
	assert.InDelta(t, 60.0, FollowedEntity{Allocated: 100, Spent: 40}.Remaining(), 1e-9)
	assert.Zero(t, FollowedEntity{Allocated: 100, Spent: 140}.Remaining())
}

func TestSortByRank(t *testing.T) {
	in := []FollowedEntity{
		{Name: "C", Rank: 3},
		{Name: "A", Rank: 1},
		{Name: "B1", Rank: 2},
		{Name: "B2", Rank: 2},
	}

	got := SortByRank(in)

	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"A", "B1", "B2", "C"}, names)
	assert.Equal(t, "C", in[0].Name, "input must not be reordered")
}

func TestParsePurchaseCategory(t *testing.T) {
	got, err := ParsePurchaseCategory(" Concerts ")
	require.NoError(t, err)
	assert.Equal(t, CategoryConcerts, got)

	_, err = ParsePurchaseCategory("vinyl")
	assert.Error(t, err)
}

func TestUserProfile_AvailableBudget(t *testing.T) {
	u := UserProfile{TotalBudget: 300, TotalSpent: 120}
	assert.InDelta(t, 180.0, u.AvailableBudget(), 1e-9)
}

func TestEntityRecommendation_ScoreText(t *testing.T) {
	assert.Equal(t, "70% match", EntityRecommendation{Score: 0.708}.ScoreText())
}

func TestIDFromName(t *testing.T) {
	assert.Equal(t, EntityID("red-velvet"), IDFromName("Red  Velvet"))
}

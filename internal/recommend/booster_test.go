package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/Veraticus/fanplan/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boostInput() []model.EntityRecommendation {
	return []model.EntityRecommendation{
		{EntityName: "D", Score: 0.7084, Justification: "Same organization as A (X)"},
		{EntityName: "B", Score: 0.1626, Justification: "Similar genre to your favorite artists (G1)"},
		{EntityName: "C", Score: 0.1626, Justification: "Similar genre to your favorite artists (G1)"},
	}
}

func TestBoostWith(t *testing.T) {
	in := boostInput()
	got := BoostWith(in, map[string]struct{}{"B": {}}, 0.2)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"D", "B", "C"}, names(got), "boosting must not reorder")

	assert.InDelta(t, 0.3626, got[1].Score, 1e-9)
	assert.Equal(t, "Similar genre to your favorite artists (G1)"+PopularitySuffix, got[1].Justification)
	assert.True(t, got[1].Boosted)

	assert.Equal(t, in[0], got[0])
	assert.Equal(t, in[2], got[2])
	assert.InDelta(t, 0.1626, in[1].Score, 1e-9, "input must not be modified")
}

func TestBoostWith_ClampsAtOne(t *testing.T) {
	got := BoostWith([]model.EntityRecommendation{{EntityName: "D", Score: 0.9}}, map[string]struct{}{"d": {}}, 0.2)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
}

func TestBoostWith_Idempotent(t *testing.T) {
	similar := map[string]struct{}{"B": {}, "D": {}}

	once := BoostWith(boostInput(), similar, 0.2)
	twice := BoostWith(once, similar, 0.2)

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice[1].Justification, PopularitySuffix))
}

func TestBoostWith_EmptySet(t *testing.T) {
	in := boostInput()
	assert.Equal(t, in, BoostWith(in, nil, 0.2))
}

func TestCollaborativeBooster_Boost(t *testing.T) {
	userID := uuid.New()
	var gotUser uuid.UUID
	lookup := service.SimilarityLookupFunc(func(_ context.Context, id uuid.UUID) (map[string]struct{}, error) {
		gotUser = id
		return map[string]struct{}{"C": {}}, nil
	})

	got := NewCollaborativeBooster(lookup, 0.2, time.Second).Boost(context.Background(), boostInput(), userID)

	assert.Equal(t, userID, gotUser)
	assert.InDelta(t, 0.3626, got[2].Score, 1e-9)
	assert.False(t, got[1].Boosted)
}

func TestCollaborativeBooster_Degrades(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	tests := []struct {
		name   string
		lookup service.SimilarityLookup
	}{
		{"nil lookup", nil},
		{
			name: "lookup error",
			lookup: service.SimilarityLookupFunc(func(context.Context, uuid.UUID) (map[string]struct{}, error) {
				return nil, errors.New("backend unavailable")
			}),
		},
		{
			name: "lookup ignores its context",
			lookup: service.SimilarityLookupFunc(func(context.Context, uuid.UUID) (map[string]struct{}, error) {
				<-block
				return map[string]struct{}{"B": {}}, nil
			}),
		},
		{
			name: "lookup honors its context",
			lookup: service.SimilarityLookupFunc(func(ctx context.Context, _ uuid.UUID) (map[string]struct{}, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCollaborativeBooster(tt.lookup, 0.2, 20*time.Millisecond)

			start := time.Now()
			got := b.Boost(context.Background(), boostInput(), uuid.New())

			assert.Equal(t, boostInput(), got)
			assert.Less(t, time.Since(start), time.Second)
		})
	}
}

package recommend

import (
	"context"
	"testing"

	"github.com/Veraticus/fanplan/internal/cache"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/Veraticus/fanplan/internal/similarity"
	"github.com/Veraticus/fanplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_GenerateFor_SQLite(t *testing.T) {
	db := testutil.SetupTestDB(t)

	me := db.CreateUser("me", 100, model.FollowedEntity{Name: "A", Rank: 1, Allocated: 100})
	db.AddPurchases(me, model.PurchaseRecord{
		EntityName:  "A",
		Category:    model.CategoryMerch,
		Amount:      54.2,
		PurchasedAt: testNow.AddDate(0, 0, -3),
	})
	db.CreateUser("neighbor", 50,
		model.FollowedEntity{Name: "A", Rank: 1},
		model.FollowedEntity{Name: "B", Rank: 2},
	)

	rc := cache.New(db.Storage, cache.WithClock(clockAt(testNow)))
	e := New(exampleKB(t), similarity.NewLocalLookup(db.Storage, 0.2, 20), rc,
		WithClock(clockAt(testNow)), WithIDGenerator(sequentialIDs()))

	src := Sources{
		Profiles:     db.Storage,
		Purchases:    db.Storage,
		Interactions: db.Storage,
	}
	res, err := e.GenerateFor(context.Background(), src, me)
	require.NoError(t, err)

	// The neighbor shares A and also follows B, so B is boosted in place.
	assert.Equal(t, []string{"D", "E", "B", "C"}, names(res.Entities))
	assert.InDelta(t, 0.7084, res.Entities[0].Score, 1e-9)
	assert.InDelta(t, 0.3626, res.Entities[2].Score, 1e-9)
	assert.True(t, res.Entities[2].Boosted)
	assert.False(t, res.Entities[3].Boosted)

	require.Len(t, res.Content, 1)
	assert.Equal(t, "A Latest Album", res.Content[0].Title)

	snap := e.LoadCached(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, me, snap.UserID)
	assert.Equal(t, res.Entities, snap.Entities)
	assert.Equal(t, res.Content, snap.Content)
}

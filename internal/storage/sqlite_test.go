package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func createTestUser(t *testing.T, store *SQLiteStorage, budget float64) *model.UserProfile {
	t.Helper()
	p := &model.UserProfile{DisplayName: "tester", TotalBudget: budget}
	require.NoError(t, store.CreateUser(context.Background(), p))
	return p
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	var tables int
	err = store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('users', 'followed_entities', 'purchases', 'interactions', 'cache_entries')
	`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 5, tables)
}

func TestNewSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestUsers(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	p := createTestUser(t, store, 300)
	assert.NotEqual(t, uuid.Nil, p.ID)

	got, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "tester", got.DisplayName)
	assert.InDelta(t, 300.0, got.TotalBudget, 1e-9)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Second)
	assert.Empty(t, got.Followed)

	require.NoError(t, store.UpdateBudget(ctx, p.ID, 450))
	got, err = store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 450.0, got.TotalBudget, 1e-9)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	assert.ErrorIs(t, store.CreateUser(ctx, p), common.ErrDuplicateEntry)
	assert.ErrorIs(t, store.UpdateBudget(ctx, uuid.New(), 10), common.ErrNotFound)

	_, err = store.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.CreateUser(ctx, &model.UserProfile{}), ErrInvalidProfile)
}

func TestFollows(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	p := createTestUser(t, store, 300)

	require.NoError(t, store.Follow(ctx, p.ID, model.FollowedEntity{Name: "IVE", Rank: 2, Allocated: 80}))
	require.NoError(t, store.Follow(ctx, p.ID, model.FollowedEntity{Name: "BTS", Rank: 1, Allocated: 120}))

	// Re-following updates rank and allocation in place.
	require.NoError(t, store.Follow(ctx, p.ID, model.FollowedEntity{Name: "ive", Rank: 3, Allocated: 60}))

	followed, err := store.GetFollowed(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, followed, 2)
	assert.Equal(t, "BTS", followed[0].Name)
	assert.Equal(t, "ive", followed[1].Name)
	assert.Equal(t, 3, followed[1].Rank)
	assert.InDelta(t, 60.0, followed[1].Allocated, 1e-9)

	require.NoError(t, store.Unfollow(ctx, p.ID, "IVE"))
	assert.ErrorIs(t, store.Unfollow(ctx, p.ID, "IVE"), common.ErrNotFound)

	assert.ErrorIs(t, store.Follow(ctx, uuid.New(), model.FollowedEntity{Name: "BTS", Rank: 1}), common.ErrNotFound)
	assert.ErrorIs(t, store.Follow(ctx, p.ID, model.FollowedEntity{Name: "BTS", Rank: 0}), ErrInvalidFollow)
}

func TestGetFollowSets(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	a := createTestUser(t, store, 100)
	b := createTestUser(t, store, 100)

	require.NoError(t, store.Follow(ctx, a.ID, model.FollowedEntity{Name: "BTS", Rank: 1}))
	require.NoError(t, store.Follow(ctx, a.ID, model.FollowedEntity{Name: "IVE", Rank: 2}))
	require.NoError(t, store.Follow(ctx, b.ID, model.FollowedEntity{Name: "ITZY", Rank: 1}))

	sets, err := store.GetFollowSets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTS", "IVE"}, sets[a.ID])
	assert.Equal(t, []string{"ITZY"}, sets[b.ID])
}

func TestRecordPurchases(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	p := createTestUser(t, store, 300)
	require.NoError(t, store.Follow(ctx, p.ID, model.FollowedEntity{Name: "BTS", Rank: 1, Allocated: 100}))

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	purchases := []model.PurchaseRecord{
		{ID: "p1", EntityName: "BTS", Category: model.CategoryAlbums, Amount: 30, PurchasedAt: now.AddDate(0, 0, -10)},
		{ID: "p2", EntityName: "bts", Category: "Concerts", Amount: 120, PurchasedAt: now.AddDate(0, 0, -1)},
		{ID: "p3", EntityName: "ITZY", Category: model.CategoryMerch, Amount: 20, PurchasedAt: now.AddDate(0, 0, -5), Notes: "lightstick"},
	}

	n, err := store.RecordPurchases(ctx, p.ID, purchases)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Re-importing the same IDs changes nothing.
	n, err = store.RecordPurchases(ctx, p.ID, purchases[:2])
	require.NoError(t, err)
	assert.Zero(t, n)

	profile, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 170.0, profile.TotalSpent, 1e-9)
	require.Len(t, profile.Followed, 1)
	assert.InDelta(t, 150.0, profile.Followed[0].Spent, 1e-9)

	recent, err := store.GetRecentPurchases(ctx, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "p2", recent[0].ID)
	assert.Equal(t, model.CategoryConcerts, recent[0].Category)
	assert.Equal(t, "p3", recent[1].ID)
	assert.Equal(t, "lightstick", recent[1].Notes)
	assert.True(t, recent[0].PurchasedAt.Equal(now.AddDate(0, 0, -1)))

	all, err := store.GetRecentPurchases(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordPurchases_Invalid(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	p := createTestUser(t, store, 300)

	_, err := store.RecordPurchases(ctx, p.ID, []model.PurchaseRecord{
		{ID: "p1", EntityName: "BTS", Category: "vinyl", Amount: 30, PurchasedAt: time.Now()},
	})
	assert.ErrorIs(t, err, ErrInvalidPurchase)

	_, err = store.RecordPurchases(ctx, uuid.New(), []model.PurchaseRecord{
		{ID: "p1", EntityName: "BTS", Category: model.CategoryAlbums, Amount: 30, PurchasedAt: time.Now()},
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInteractions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	p := createTestUser(t, store, 300)

	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	rating := 4.5
	require.NoError(t, store.RecordInteraction(ctx, p.ID, model.UserInteractionEvent{
		EntityName: "BTS", Kind: model.InteractionView, OccurredAt: base,
	}))
	require.NoError(t, store.RecordInteraction(ctx, p.ID, model.UserInteractionEvent{
		EntityName: "IVE", Kind: model.InteractionLike, OccurredAt: base.Add(48 * time.Hour), Value: &rating,
	}))

	all, err := store.GetInteractions(ctx, p.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Nil(t, all[0].Value)
	require.NotNil(t, all[1].Value)
	assert.InDelta(t, 4.5, *all[1].Value, 1e-9)

	recent, err := store.GetInteractions(ctx, p.ID, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, model.InteractionLike, recent[0].Kind)

	err = store.RecordInteraction(ctx, p.ID, model.UserInteractionEvent{EntityName: "BTS", Kind: "poke", OccurredAt: base})
	assert.ErrorIs(t, err, ErrInvalidInteraction)
}

func TestCacheEntries(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.Put(ctx, "k", []byte("one")))
	require.NoError(t, store.Put(ctx, "k", []byte("two")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	putErr error
	getErr error
	// failKey limits putErr to one key; empty fails every key.
	failKey string
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	if f.putErr != nil && (f.failKey == "" || f.failKey == key) {
		return f.putErr
	}
	return f.MemoryStore.Put(ctx, key, value)
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sampleRecs() ([]model.EntityRecommendation, []model.ContentRecommendation) {
	entities := []model.EntityRecommendation{
		{ID: "e1", EntityName: "TXT", Score: 0.708, Justification: "Same organization as BTS (HYBE)", Strategy: model.StrategyOrganizationConnection},
	}
	content := []model.ContentRecommendation{
		{ID: "c1", Title: "BTS Latest Album", ContentType: model.ContentAlbum, EntityName: "BTS", EstimatedPrice: 25, Priority: 0.8},
	}
	return entities, content
}

func TestCache_SaveLoad(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(NewMemoryStore(), WithClock(fixedClock(now)))
	userID := uuid.New()
	entities, content := sampleRecs()

	require.NoError(t, c.Save(ctx, userID, entities, content))

	snap := c.Load(ctx)
	require.NotNil(t, snap)
	assert.Equal(t, entities, snap.Entities)
	assert.Equal(t, content, snap.Content)
	assert.Equal(t, userID, snap.UserID)
	assert.True(t, snap.GeneratedAt.Equal(now))
}

func TestCache_LoadEmpty(t *testing.T) {
	c := New(NewMemoryStore())
	assert.Nil(t, c.Load(context.Background()))
}

func TestCache_SaveEmptyListsLoadAsEmpty(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())

	require.NoError(t, c.Save(ctx, uuid.New(), nil, nil))

	snap := c.Load(ctx)
	require.NotNil(t, snap)
	assert.NotNil(t, snap.Entities)
	assert.Empty(t, snap.Entities)
	assert.Empty(t, snap.Content)
}

func TestCache_CorruptEntryIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store)
	entities, content := sampleRecs()
	require.NoError(t, c.Save(ctx, uuid.New(), entities, content))

	require.NoError(t, store.Put(ctx, EntityKey, []byte("{not json")))

	snap := c.Load(ctx)
	require.NotNil(t, snap)
	assert.Nil(t, snap.Entities)
	assert.Equal(t, content, snap.Content)
}

func TestCache_UnknownVersionIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, EntityKey, []byte(`{"version":99,"items":[]}`)))
	require.NoError(t, store.Put(ctx, ContentKey, []byte(`{"version":0}`)))

	assert.Nil(t, New(store).Load(ctx))
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	saved := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entities, content := sampleRecs()
	require.NoError(t, New(store, WithClock(fixedClock(saved))).Save(ctx, uuid.New(), entities, content))

	later := saved.Add(25 * time.Hour)
	assert.Nil(t, New(store, WithClock(fixedClock(later))).Load(ctx))
	assert.NotNil(t, New(store, WithClock(fixedClock(later)), WithMaxAge(0)).Load(ctx))
	assert.NotNil(t, New(store, WithClock(fixedClock(saved.Add(time.Hour)))).Load(ctx))
}

func TestCache_StoreFailures(t *testing.T) {
	ctx := context.Background()
	entities, content := sampleRecs()

	t.Run("save reports write errors", func(t *testing.T) {
		boom := errors.New("disk full")
		c := New(&failingStore{MemoryStore: NewMemoryStore(), putErr: boom})
		err := c.Save(ctx, uuid.New(), entities, content)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("load degrades read errors to no cache", func(t *testing.T) {
		store := &failingStore{MemoryStore: NewMemoryStore()}
		c := New(store)
		require.NoError(t, c.Save(ctx, uuid.New(), entities, content))

		store.getErr = errors.New("io error")
		assert.Nil(t, c.Load(ctx))
	})
}

func TestCache_PartialSaveDoesNotMixUsers(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore()}
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	alice, bob := uuid.New(), uuid.New()
	entities, content := sampleRecs()
	require.NoError(t, New(store, WithClock(fixedClock(first))).Save(ctx, alice, entities, content))

	store.putErr = errors.New("disk full")
	store.failKey = ContentKey
	bobEntities := []model.EntityRecommendation{{ID: "e9", EntityName: "ITZY", Score: 0.5}}
	err := New(store, WithClock(fixedClock(first.Add(time.Hour)))).Save(ctx, bob, bobEntities, nil)
	require.Error(t, err)

	snap := New(store, WithClock(fixedClock(first.Add(2*time.Hour)))).Load(ctx)
	require.NotNil(t, snap)
	assert.Equal(t, bob, snap.UserID)
	assert.Equal(t, bobEntities, snap.Entities)
	assert.Nil(t, snap.Content)
	assert.True(t, snap.GeneratedAt.Equal(first.Add(time.Hour)))
}

func TestCache_NewerContentWinsOverStaleEntities(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore()}
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	alice, bob := uuid.New(), uuid.New()
	entities, content := sampleRecs()
	require.NoError(t, New(store, WithClock(fixedClock(first))).Save(ctx, alice, entities, content))

	store.putErr = errors.New("disk full")
	store.failKey = EntityKey
	require.Error(t, New(store, WithClock(fixedClock(first.Add(time.Minute)))).Save(ctx, bob, nil, content))

	snap := New(store, WithClock(fixedClock(first.Add(time.Hour)))).Load(ctx)
	require.NotNil(t, snap)
	assert.Equal(t, bob, snap.UserID)
	assert.Nil(t, snap.Entities)
	assert.Equal(t, content, snap.Content)
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())
	entities, content := sampleRecs()
	require.NoError(t, c.Save(ctx, uuid.New(), entities, content))

	require.NoError(t, c.Clear(ctx))
	assert.Nil(t, c.Load(ctx))
}

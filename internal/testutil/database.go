// Package testutil provides test utilities for fanplan: migrated SQLite
// databases seeded with users, follows and purchases.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/Veraticus/fanplan/internal/storage"
	"github.com/google/uuid"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	user := db.CreateUser("mina", 300,
//		model.FollowedEntity{Name: "BTS", Rank: 1, Allocated: 150})
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// CreateUser stores a profile with the given follows and returns its ID.
func (db *TestDB) CreateUser(name string, budget float64, followed ...model.FollowedEntity) uuid.UUID {
	db.t.Helper()
	ctx := context.Background()

	p := &model.UserProfile{DisplayName: name, TotalBudget: budget}
	if err := db.Storage.CreateUser(ctx, p); err != nil {
		db.t.Fatalf("failed to seed user %q: %v", name, err)
	}
	for _, f := range followed {
		if err := db.Storage.Follow(ctx, p.ID, f); err != nil {
			db.t.Fatalf("failed to seed follow %q: %v", f.Name, err)
		}
	}
	return p.ID
}

// AddPurchases records purchases for a user. IDs are generated for records
// that have none and dates default to now.
func (db *TestDB) AddPurchases(userID uuid.UUID, purchases ...model.PurchaseRecord) {
	db.t.Helper()

	for i := range purchases {
		if purchases[i].ID == "" {
			purchases[i].ID = uuid.NewString()
		}
		if purchases[i].PurchasedAt.IsZero() {
			purchases[i].PurchasedAt = time.Now().UTC()
		}
	}
	if _, err := db.Storage.RecordPurchases(context.Background(), userID, purchases); err != nil {
		db.t.Fatalf("failed to seed purchases: %v", err)
	}
}

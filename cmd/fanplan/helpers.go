package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/fanplan/internal/cache"
	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/config"
	"github.com/Veraticus/fanplan/internal/knowledge"
	"github.com/Veraticus/fanplan/internal/recommend"
	"github.com/Veraticus/fanplan/internal/service"
	"github.com/Veraticus/fanplan/internal/similarity"
	"github.com/Veraticus/fanplan/internal/storage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := cfg.Database.Path
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newLookup builds the similar-user lookup selected by similarity.mode.
// A nil lookup disables the collaborative boost.
func newLookup(store *storage.SQLiteStorage) (service.SimilarityLookup, error) {
	sc := cfg.Similarity
	switch sc.Mode {
	case config.SimilarityLocal:
		return similarity.NewLocalLookup(store, sc.MinOverlap, sc.Neighbors), nil
	case config.SimilarityHTTP:
		client, err := similarity.NewHTTPClient(sc.Endpoint, sc.APIKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.SimilarityStatic:
		if len(sc.Entities) == 0 {
			return similarity.Static(similarity.DefaultStaticEntities), nil
		}
		return similarity.Static(sc.Entities), nil
	default:
		return nil, nil
	}
}

func newCache(store *storage.SQLiteStorage) *cache.Cache {
	return cache.New(store, cache.WithMaxAge(cfg.Recommend.CacheMaxAge))
}

func newEngine(store *storage.SQLiteStorage) (*recommend.Engine, error) {
	kb, err := knowledge.Load(cfg.Knowledge.Path)
	if err != nil {
		return nil, err
	}

	lookup, err := newLookup(store)
	if err != nil {
		return nil, err
	}

	rc := cfg.Recommend
	engineCfg := recommend.Config{
		MaxRecommendations: rc.MaxRecommendations,
		BoostAmount:        rc.BoostAmount,
		LookupTimeout:      rc.LookupTimeout,
		EngagementFloor:    rc.EngagementFloor,
	}
	return recommend.NewWithConfig(kb, lookup, newCache(store), engineCfg)
}

func sources(store *storage.SQLiteStorage) recommend.Sources {
	return recommend.Sources{
		Profiles:          store,
		Purchases:         store,
		Interactions:      store,
		RecentPurchases:   cfg.Recommend.RecentPurchases,
		InteractionWindow: cfg.Recommend.InteractionWindow,
	}
}

// resolveUser reads --user, falling back to the only user in the database.
func resolveUser(ctx context.Context, cmd *cobra.Command, store *storage.SQLiteStorage) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("user")
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, common.NewUserError(fmt.Sprintf("invalid user id %q", raw), err)
		}
		return id, nil
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	switch len(users) {
	case 0:
		return uuid.Nil, common.NewUserError("no users yet; create one with `fanplan user create`", nil)
	case 1:
		slog.Debug("Defaulting to the only user", "user", users[0].ID)
		return users[0].ID, nil
	default:
		return uuid.Nil, common.NewUserError(fmt.Sprintf("%d users exist; pass --user", len(users)), nil)
	}
}

func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("user", "u", "", "user id (default: the only user)")
}

// parseDate accepts YYYY-MM-DD; empty means now.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

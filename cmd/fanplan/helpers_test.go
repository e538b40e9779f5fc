package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/fanplan/internal/config"
	"github.com/Veraticus/fanplan/internal/similarity"
	"github.com/Veraticus/fanplan/internal/storage"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-02-29")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)))

	now, err := parseDate("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Minute)

	_, err = parseDate("02/29/2024")
	assert.Error(t, err)
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"jan.qfx", "feb.qfx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	files := expandFiles([]string{filepath.Join(dir, "*.qfx"), filepath.Join(dir, "missing.ofx")})
	assert.Len(t, files, 2)

	files = expandFiles([]string{filepath.Join(dir, "notes.txt")})
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, files)
}

func TestNewLookup(t *testing.T) {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tests := []struct {
		name   string
		sc     config.SimilarityConfig
		check  func(t *testing.T, lookup any)
		isNone bool
	}{
		{
			name: "local",
			sc:   config.SimilarityConfig{Mode: config.SimilarityLocal, MinOverlap: 0.2, Neighbors: 5},
			check: func(t *testing.T, lookup any) {
				assert.IsType(t, &similarity.LocalLookup{}, lookup)
			},
		},
		{
			name: "http",
			sc:   config.SimilarityConfig{Mode: config.SimilarityHTTP, Endpoint: "https://similar.example.com"},
			check: func(t *testing.T, lookup any) {
				assert.IsType(t, &similarity.HTTPClient{}, lookup)
			},
		},
		{
			name: "static defaults",
			sc:   config.SimilarityConfig{Mode: config.SimilarityStatic},
			check: func(t *testing.T, lookup any) {
				assert.Equal(t, similarity.Static(similarity.DefaultStaticEntities), lookup)
			},
		},
		{
			name: "static configured",
			sc:   config.SimilarityConfig{Mode: config.SimilarityStatic, Entities: []string{"IVE"}},
			check: func(t *testing.T, lookup any) {
				assert.Equal(t, similarity.Static{"IVE"}, lookup)
			},
		},
		{
			name:   "none",
			sc:     config.SimilarityConfig{Mode: config.SimilarityNone},
			isNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = &config.Config{Similarity: tt.sc}
			t.Cleanup(func() { cfg = nil })

			lookup, err := newLookup(store)
			require.NoError(t, err)
			if tt.isNone {
				assert.Nil(t, lookup)
				return
			}
			tt.check(t, lookup)
		})
	}
}

func TestResolveUser(t *testing.T) {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	newCmd := func() *cobra.Command {
		c := &cobra.Command{}
		addUserFlag(c)
		return c
	}

	_, err = resolveUser(ctx, newCmd(), store)
	assert.ErrorContains(t, err, "no users yet")

	c := newCmd()
	require.NoError(t, c.Flags().Set("user", "not-a-uuid"))
	_, err = resolveUser(ctx, c, store)
	assert.ErrorContains(t, err, "invalid user id")
}

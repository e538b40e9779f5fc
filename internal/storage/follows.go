package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/google/uuid"
)

// Follow adds f to the user's follows, or updates rank and allocation when
// the entity is already followed. Spend recorded so far is kept.
func (s *SQLiteStorage) Follow(ctx context.Context, userID uuid.UUID, f model.FollowedEntity) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFollow(f); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := userExists(ctx, tx, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO followed_entities (user_id, entity_id, name, rank, allocated, spent)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, entity_id) DO UPDATE SET
				name = excluded.name,
				rank = excluded.rank,
				allocated = excluded.allocated
		`, userID.String(), string(model.IDFromName(f.Name)), strings.TrimSpace(f.Name), f.Rank, f.Allocated, f.Spent)
		if err != nil {
			return fmt.Errorf("failed to save follow: %w", err)
		}
		return nil
	})
}

// Unfollow removes an entity from the user's follows.
func (s *SQLiteStorage) Unfollow(ctx context.Context, userID uuid.UUID, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM followed_entities WHERE user_id = ? AND entity_id = ?
	`, userID.String(), string(model.IDFromName(name)))
	if err != nil {
		return fmt.Errorf("failed to remove follow: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("follow %q", name))
}

// GetFollowed returns the user's follows in rank order.
func (s *SQLiteStorage) GetFollowed(ctx context.Context, userID uuid.UUID) ([]model.FollowedEntity, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getFollowedTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) getFollowedTx(ctx context.Context, q queryable, userID uuid.UUID) ([]model.FollowedEntity, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT name, rank, allocated, spent
		FROM followed_entities
		WHERE user_id = ?
		ORDER BY rank, followed_at, name
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query follows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var followed []model.FollowedEntity
	for rows.Next() {
		var f model.FollowedEntity
		if err := rows.Scan(&f.Name, &f.Rank, &f.Allocated, &f.Spent); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		followed = append(followed, f)
	}
	return followed, rows.Err()
}

// GetFollowSets returns every user's followed entity names, for the local
// similar-user lookup.
func (s *SQLiteStorage) GetFollowSets(ctx context.Context) (map[uuid.UUID][]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, name FROM followed_entities ORDER BY user_id, rank, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query follow sets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sets := make(map[uuid.UUID][]string)
	for rows.Next() {
		var rawID, name string
		if err := rows.Scan(&rawID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad user id %q", common.ErrDatabaseCorrupted, rawID)
		}
		sets[id] = append(sets[id], name)
	}
	return sets, rows.Err()
}

func userExists(ctx context.Context, q queryable, userID uuid.UUID) error {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID.String()).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}
	return nil
}

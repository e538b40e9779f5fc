package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// CreateUser stores a new profile. A zero ID is replaced with a fresh one
// and a zero CreatedAt with the current time; both are written back to p.
func (s *SQLiteStorage) CreateUser(ctx context.Context, p *model.UserProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(p); err != nil {
		return err
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, total_budget, total_spent, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID.String(), strings.TrimSpace(p.DisplayName), p.TotalBudget, p.TotalSpent, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", p.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetProfile implements service.ProfileSource. Followed entities are
// returned in rank order.
func (s *SQLiteStorage) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var p model.UserProfile
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, total_budget, total_spent, created_at
		FROM users
		WHERE id = ?
	`, userID.String()).Scan(&id, &p.DisplayName, &p.TotalBudget, &p.TotalSpent, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: bad user id %q", common.ErrDatabaseCorrupted, id)
	}

	p.Followed, err = s.getFollowedTx(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListUsers returns every profile without follows, oldest first.
func (s *SQLiteStorage) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, total_budget, total_spent, created_at
		FROM users
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.UserProfile
	for rows.Next() {
		var p model.UserProfile
		var id string
		if err := rows.Scan(&id, &p.DisplayName, &p.TotalBudget, &p.TotalSpent, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: bad user id %q", common.ErrDatabaseCorrupted, id)
		}
		users = append(users, p)
	}
	return users, rows.Err()
}

// UpdateBudget sets a user's total budget.
func (s *SQLiteStorage) UpdateBudget(ctx context.Context, userID uuid.UUID, budget float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if !validAmount(budget) {
		return fmt.Errorf("%w: budget must be non-negative", ErrInvalidProfile)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE users SET total_budget = ? WHERE id = ?`, budget, userID.String())
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("user %s", userID))
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

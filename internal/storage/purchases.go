package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/google/uuid"
)

// RecordPurchases stores purchases for a user and rolls their amounts into
// the user's total spend and, for followed entities, the entity's spend.
// Purchases whose ID is already stored are skipped. It returns how many
// were new.
func (s *SQLiteStorage) RecordPurchases(ctx context.Context, userID uuid.UUID, purchases []model.PurchaseRecord) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	for i, p := range purchases {
		if err := validatePurchase(p); err != nil {
			return 0, fmt.Errorf("purchase at index %d: %w", i, err)
		}
	}

	inserted := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := userExists(ctx, tx, userID); err != nil {
			return err
		}

		insert, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO purchases
				(id, user_id, entity_id, entity_name, category, amount, purchased_at, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare purchase insert: %w", err)
		}
		defer func() { _ = insert.Close() }()

		var total float64
		for _, p := range purchases {
			category, _ := model.ParsePurchaseCategory(string(p.Category))
			entityID := string(model.IDFromName(p.EntityName))

			res, err := insert.ExecContext(ctx,
				p.ID, userID.String(), entityID, strings.TrimSpace(p.EntityName),
				string(category), p.Amount, p.PurchasedAt.UTC(), p.Notes)
			if err != nil {
				return fmt.Errorf("failed to insert purchase %s: %w", p.ID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				continue
			}
			inserted++
			total += p.Amount

			if _, err := tx.ExecContext(ctx, `
				UPDATE followed_entities SET spent = spent + ?
				WHERE user_id = ? AND entity_id = ?
			`, p.Amount, userID.String(), entityID); err != nil {
				return fmt.Errorf("failed to update entity spend: %w", err)
			}
		}

		if total > 0 {
			if _, err := tx.ExecContext(ctx, `
				UPDATE users SET total_spent = total_spent + ? WHERE id = ?
			`, total, userID.String()); err != nil {
				return fmt.Errorf("failed to update total spend: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetRecentPurchases implements service.PurchaseSource.
func (s *SQLiteStorage) GetRecentPurchases(ctx context.Context, userID uuid.UUID, limit int) ([]model.PurchaseRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_name, category, amount, purchased_at, COALESCE(notes, '')
		FROM purchases
		WHERE user_id = ?
		ORDER BY purchased_at DESC, id
		LIMIT ?
	`, userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var purchases []model.PurchaseRecord
	for rows.Next() {
		var p model.PurchaseRecord
		var category string
		if err := rows.Scan(&p.ID, &p.EntityName, &category, &p.Amount, &p.PurchasedAt, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.Category = model.PurchaseCategory(category)
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

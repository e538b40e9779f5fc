package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/google/uuid"
)

// RecordInteraction appends an event to the user's interaction log.
func (s *SQLiteStorage) RecordInteraction(ctx context.Context, userID uuid.UUID, ev model.UserInteractionEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInteraction(ev); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := userExists(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO interactions (user_id, entity_name, kind, value, occurred_at)
			VALUES (?, ?, ?, ?, ?)
		`, userID.String(), strings.TrimSpace(ev.EntityName), string(ev.Kind), ev.Value, ev.OccurredAt.UTC()); err != nil {
			return fmt.Errorf("failed to record interaction: %w", err)
		}
		return nil
	})
}

// GetInteractions implements service.InteractionSource. Events are returned
// oldest first; a zero since returns the whole log.
func (s *SQLiteStorage) GetInteractions(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.UserInteractionEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT entity_name, kind, value, occurred_at
		FROM interactions
		WHERE user_id = ? AND occurred_at >= ?
		ORDER BY occurred_at, id
	`, userID.String(), since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.UserInteractionEvent
	for rows.Next() {
		var ev model.UserInteractionEvent
		var kind string
		var value sql.NullFloat64
		if err := rows.Scan(&ev.EntityName, &kind, &value, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		ev.Kind = model.InteractionKind(kind)
		if value.Valid {
			v := value.Float64
			ev.Value = &v
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

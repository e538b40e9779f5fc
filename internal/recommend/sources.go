package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/fanplan/internal/service"
	"github.com/google/uuid"
)

// Sources gathers a user's snapshot from the collaborators that own it.
type Sources struct {
	Profiles     service.ProfileSource
	Purchases    service.PurchaseSource
	Interactions service.InteractionSource // optional
	// RecentPurchases caps how much purchase history is read.
	RecentPurchases int
	// InteractionWindow bounds how far back interactions are read.
	InteractionWindow time.Duration
}

// GenerateFor loads userID's snapshot from src and runs Generate over it.
// A failing interaction source is logged and treated as an empty log.
func (e *Engine) GenerateFor(ctx context.Context, src Sources, userID uuid.UUID) (*Result, error) {
	profile, err := src.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", userID, err)
	}

	limit := src.RecentPurchases
	if limit <= 0 {
		limit = 100
	}
	purchases, err := src.Purchases.GetRecentPurchases(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases for %s: %w", userID, err)
	}

	req := GenerateRequest{
		User:      *profile,
		Followed:  profile.Followed,
		Purchases: purchases,
	}

	if src.Interactions != nil {
		var since time.Time
		if src.InteractionWindow > 0 {
			since = e.now().Add(-src.InteractionWindow)
		}
		events, err := src.Interactions.GetInteractions(ctx, userID, since)
		if err != nil {
			slog.Warn("Failed to load interactions, continuing without them",
				"user_id", userID,
				"error", err)
		} else {
			req.Interactions = events
		}
	}

	return e.Generate(ctx, req)
}

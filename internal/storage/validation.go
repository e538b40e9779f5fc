package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/fanplan/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidProfile     = errors.New("invalid user profile")
	ErrInvalidFollow      = errors.New("invalid followed entity")
	ErrInvalidPurchase    = errors.New("invalid purchase")
	ErrInvalidInteraction = errors.New("invalid interaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validateProfile(p *model.UserProfile) error {
	if p == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("%w: missing display name", ErrInvalidProfile)
	}
	if !validAmount(p.TotalBudget) || !validAmount(p.TotalSpent) {
		return fmt.Errorf("%w: budget and spend must be non-negative", ErrInvalidProfile)
	}
	return nil
}

func validateFollow(f model.FollowedEntity) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidFollow)
	}
	if f.Rank < 1 {
		return fmt.Errorf("%w: rank must be at least 1, got %d", ErrInvalidFollow, f.Rank)
	}
	if !validAmount(f.Allocated) || !validAmount(f.Spent) {
		return fmt.Errorf("%w: allocation and spend must be non-negative", ErrInvalidFollow)
	}
	return nil
}

func validatePurchase(p model.PurchaseRecord) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPurchase)
	}
	if strings.TrimSpace(p.EntityName) == "" {
		return fmt.Errorf("%w: missing entity name", ErrInvalidPurchase)
	}
	if _, err := model.ParsePurchaseCategory(string(p.Category)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPurchase, err)
	}
	if !validAmount(p.Amount) {
		return fmt.Errorf("%w: amount must be non-negative", ErrInvalidPurchase)
	}
	if p.PurchasedAt.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidPurchase)
	}
	return nil
}

func validateInteraction(ev model.UserInteractionEvent) error {
	if strings.TrimSpace(ev.EntityName) == "" {
		return fmt.Errorf("%w: missing entity name", ErrInvalidInteraction)
	}
	if _, err := model.ParseInteractionKind(string(ev.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInteraction, err)
	}
	if ev.OccurredAt.IsZero() {
		return fmt.Errorf("%w: missing time", ErrInvalidInteraction)
	}
	return nil
}

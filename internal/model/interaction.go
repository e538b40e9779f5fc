package model

import (
	"fmt"
	"time"
)

// InteractionKind classifies a user interaction event.
type InteractionKind string

const (
	InteractionView     InteractionKind = "view"
	InteractionLike     InteractionKind = "like"
	InteractionPurchase InteractionKind = "purchase"
	InteractionFollow   InteractionKind = "follow"
	InteractionSearch   InteractionKind = "search"
)

// ParseInteractionKind validates an interaction kind string.
func ParseInteractionKind(s string) (InteractionKind, error) {
	switch k := InteractionKind(s); k {
	case InteractionView, InteractionLike, InteractionPurchase, InteractionFollow, InteractionSearch:
		return k, nil
	default:
		return "", fmt.Errorf("unknown interaction kind %q", s)
	}
}

// IsEngagement reports whether the kind signals real interest in an entity.
func (k InteractionKind) IsEngagement() bool {
	return k == InteractionLike || k == InteractionPurchase
}

// UserInteractionEvent is a read-only behavioral signal.
type UserInteractionEvent struct {
	OccurredAt time.Time
	Value      *float64 // ratings, purchase amounts, etc.
	EntityName string
	Kind       InteractionKind
}

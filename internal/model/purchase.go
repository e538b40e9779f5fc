package model

import (
	"fmt"
	"strings"
	"time"
)

// PurchaseCategory groups purchases for spend-share analysis.
type PurchaseCategory string

const (
	// CategoryAlbums covers physical and digital album purchases.
	CategoryAlbums PurchaseCategory = "albums"
	// CategoryConcerts covers concert tickets.
	CategoryConcerts PurchaseCategory = "concerts"
	// CategoryMerch covers merchandise.
	CategoryMerch PurchaseCategory = "merch"
	// CategoryDigital covers streaming, downloads and in-app content.
	CategoryDigital PurchaseCategory = "digital"
	// CategoryEvents covers fanmeets and other in-person events.
	CategoryEvents PurchaseCategory = "events"
	// CategorySubscriptions covers recurring memberships.
	CategorySubscriptions PurchaseCategory = "subscriptions"
	// CategoryOther is the fallback category.
	CategoryOther PurchaseCategory = "other"
)

// PurchaseCategories lists every category in canonical order.
var PurchaseCategories = []PurchaseCategory{
	CategoryAlbums,
	CategoryConcerts,
	CategoryMerch,
	CategoryDigital,
	CategoryEvents,
	CategorySubscriptions,
	CategoryOther,
}

// DisplayName returns a human-readable category name.
func (c PurchaseCategory) DisplayName() string {
	switch c {
	case CategoryAlbums:
		return "Albums"
	case CategoryConcerts:
		return "Concerts"
	case CategoryMerch:
		return "Merchandise"
	case CategoryDigital:
		return "Digital Content"
	case CategoryEvents:
		return "Events"
	case CategorySubscriptions:
		return "Subscriptions"
	default:
		return "Other"
	}
}

// ParsePurchaseCategory converts user input into a PurchaseCategory.
func ParsePurchaseCategory(s string) (PurchaseCategory, error) {
	want := PurchaseCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range PurchaseCategories {
		if c == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown purchase category %q", s)
}

// PurchaseRecord is an immutable historical purchase.
type PurchaseRecord struct {
	PurchasedAt time.Time
	ID          string
	EntityName  string
	Category    PurchaseCategory
	Notes       string
	Amount      float64
}

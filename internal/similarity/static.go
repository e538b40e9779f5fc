package similarity

import (
	"context"

	"github.com/Veraticus/fanplan/internal/service"
	"github.com/google/uuid"
)

// DefaultStaticEntities is the fixed set returned by the static lookup when
// none is configured.
var DefaultStaticEntities = []string{"ITZY", "Red Velvet", "SEVENTEEN", "i-dle"}

var _ service.SimilarityLookup = Static(nil)

// Static is a lookup that returns the same entities for every user.
type Static []string

// FetchSimilarUserEntities implements service.SimilarityLookup.
func (s Static) FetchSimilarUserEntities(context.Context, uuid.UUID) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(s))
	for _, name := range s {
		set[name] = struct{}{}
	}
	return set, nil
}

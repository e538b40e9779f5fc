package similarity

import (
	"context"
	"fmt"
	"sort"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/Veraticus/fanplan/internal/service"
	"github.com/google/uuid"
)

// FollowSetSource provides every user's followed entity names.
type FollowSetSource interface {
	GetFollowSets(ctx context.Context) (map[uuid.UUID][]string, error)
}

var _ service.SimilarityLookup = (*LocalLookup)(nil)

// LocalLookup finds similar users by Jaccard overlap of follow sets and
// returns what those neighbors follow that the user does not.
type LocalLookup struct {
	source     FollowSetSource
	minOverlap float64
	neighbors  int
}

// NewLocalLookup creates a lookup over source. Users whose overlap is below
// minOverlap are ignored and at most neighbors users contribute.
func NewLocalLookup(source FollowSetSource, minOverlap float64, neighbors int) *LocalLookup {
	return &LocalLookup{
		source:     source,
		minOverlap: minOverlap,
		neighbors:  neighbors,
	}
}

type neighbor struct {
	id      uuid.UUID
	follows []string
	overlap float64
}

// FetchSimilarUserEntities implements service.SimilarityLookup.
func (l *LocalLookup) FetchSimilarUserEntities(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	sets, err := l.source.GetFollowSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load follow sets: %w", err)
	}

	own := idSet(sets[userID])
	if len(own) == 0 {
		return map[string]struct{}{}, nil
	}

	var candidates []neighbor
	for id, follows := range sets {
		if id == userID {
			continue
		}
		overlap := jaccard(own, idSet(follows))
		if overlap > 0 && overlap >= l.minOverlap {
			candidates = append(candidates, neighbor{id: id, follows: follows, overlap: overlap})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].id.String() < candidates[j].id.String()
	})
	if l.neighbors > 0 && len(candidates) > l.neighbors {
		candidates = candidates[:l.neighbors]
	}

	out := make(map[string]struct{})
	for _, n := range candidates {
		for _, name := range n.follows {
			if !own[model.IDFromName(name)] {
				out[name] = struct{}{}
			}
		}
	}
	return out, nil
}

func idSet(names []string) map[model.EntityID]bool {
	set := make(map[model.EntityID]bool, len(names))
	for _, name := range names {
		set[model.IDFromName(name)] = true
	}
	return set
}

func jaccard(a, b map[model.EntityID]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for id := range a {
		if b[id] {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

package recommend

import (
	"context"
	"fmt"

	"github.com/Veraticus/fanplan/internal/knowledge"
	"github.com/Veraticus/fanplan/internal/model"
)

const genreWeight = 0.3

var _ Strategy = (*GenreSimilarity)(nil)

// GenreSimilarity recommends entities that share a genre with followed
// entities. Contributions from several followed entities or genres add up.
type GenreSimilarity struct {
	kb *knowledge.KnowledgeBase
}

// NewGenreSimilarity creates the strategy over kb.
func NewGenreSimilarity(kb *knowledge.KnowledgeBase) *GenreSimilarity {
	return &GenreSimilarity{kb: kb}
}

// Tag implements Strategy.
func (s *GenreSimilarity) Tag() model.StrategyTag { return model.StrategyGenreSimilarity }

// Score implements Strategy.
func (s *GenreSimilarity) Score(_ context.Context, in Input) []model.EntityRecommendation {
	type accumulated struct {
		name  string
		genre string
		score float64
	}

	byID := make(map[model.EntityID]*accumulated)
	var order []model.EntityID

	for _, f := range in.Followed {
		attrs, ok := s.kb.Lookup(f.Name)
		if !ok {
			continue
		}
		contribution := in.Weight(f) / 100 * genreWeight

		for _, genre := range attrs.Genres {
			for _, candidate := range s.kb.GenreMembers(genre) {
				if sameEntity(candidate, f.Name) {
					continue
				}
				id := model.IDFromName(candidate)
				acc, seen := byID[id]
				if !seen {
					acc = &accumulated{name: candidate, genre: genre}
					byID[id] = acc
					order = append(order, id)
				}
				acc.score += contribution
			}
		}
	}

	recs := make([]model.EntityRecommendation, 0, len(order))
	for _, id := range order {
		acc := byID[id]
		recs = append(recs, model.EntityRecommendation{
			EntityName:    acc.name,
			Score:         clamp(acc.score),
			Justification: fmt.Sprintf("Similar genre to your favorite artists (%s)", acc.genre),
			Strategy:      model.StrategyGenreSimilarity,
		})
	}
	return recs
}

package recommend

import (
	"context"
	"fmt"

	"github.com/Veraticus/fanplan/internal/knowledge"
	"github.com/Veraticus/fanplan/internal/model"
)

const collaborationScore = 0.5

var _ Strategy = (*CollaborationLink)(nil)

// CollaborationLink recommends known collaborators of followed entities at
// a fixed score, regardless of spend.
type CollaborationLink struct {
	kb *knowledge.KnowledgeBase
}

// NewCollaborationLink creates the strategy over kb.
func NewCollaborationLink(kb *knowledge.KnowledgeBase) *CollaborationLink {
	return &CollaborationLink{kb: kb}
}

// Tag implements Strategy.
func (s *CollaborationLink) Tag() model.StrategyTag { return model.StrategyCollaboration }

// Score implements Strategy.
func (s *CollaborationLink) Score(_ context.Context, in Input) []model.EntityRecommendation {
	var recs []model.EntityRecommendation
	for _, f := range in.Followed {
		attrs, ok := s.kb.Lookup(f.Name)
		if !ok {
			continue
		}
		for _, collaborator := range attrs.Collaborators {
			recs = append(recs, model.EntityRecommendation{
				EntityName:    collaborator,
				Score:         collaborationScore,
				Justification: fmt.Sprintf("Has collaborated with %s", f.Name),
				Strategy:      model.StrategyCollaboration,
			})
		}
	}
	return recs
}

package recommend

import (
	"context"
	"fmt"

	"github.com/Veraticus/fanplan/internal/knowledge"
	"github.com/Veraticus/fanplan/internal/model"
)

const (
	organizationBase   = 0.6
	organizationWeight = 0.2
)

var _ Strategy = (*OrganizationConnection)(nil)

// OrganizationConnection recommends entities under the same organization
// (label, agency) as a followed entity. Each organization is expanded once
// per run, by the first followed entity that reaches it.
type OrganizationConnection struct {
	kb *knowledge.KnowledgeBase
}

// NewOrganizationConnection creates the strategy over kb.
func NewOrganizationConnection(kb *knowledge.KnowledgeBase) *OrganizationConnection {
	return &OrganizationConnection{kb: kb}
}

// Tag implements Strategy.
func (s *OrganizationConnection) Tag() model.StrategyTag {
	return model.StrategyOrganizationConnection
}

// Score implements Strategy.
func (s *OrganizationConnection) Score(_ context.Context, in Input) []model.EntityRecommendation {
	var recs []model.EntityRecommendation
	processed := make(map[string]bool)

	for _, f := range in.Followed {
		attrs, ok := s.kb.Lookup(f.Name)
		if !ok || attrs.Organization == "" || processed[attrs.Organization] {
			continue
		}
		processed[attrs.Organization] = true

		score := clamp(organizationBase + in.Weight(f)/100*organizationWeight)
		for _, sibling := range s.kb.OrganizationMembers(attrs.Organization) {
			if sameEntity(sibling, f.Name) {
				continue
			}
			recs = append(recs, model.EntityRecommendation{
				EntityName:    sibling,
				Score:         score,
				Justification: fmt.Sprintf("Same organization as %s (%s)", f.Name, attrs.Organization),
				Strategy:      model.StrategyOrganizationConnection,
			})
		}
	}

	return recs
}

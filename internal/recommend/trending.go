package recommend

import (
	"context"
	"fmt"

	"github.com/Veraticus/fanplan/internal/knowledge"
	"github.com/Veraticus/fanplan/internal/model"
)

const (
	trendingBase   = 0.4
	trendingWeight = 0.3
)

var _ Strategy = (*TrendingByCategory)(nil)

// TrendingByCategory recommends entities trending in the categories the user
// spends on, weighted by each category's share of total spend.
type TrendingByCategory struct {
	kb *knowledge.KnowledgeBase
}

// NewTrendingByCategory creates the strategy over kb.
func NewTrendingByCategory(kb *knowledge.KnowledgeBase) *TrendingByCategory {
	return &TrendingByCategory{kb: kb}
}

// Tag implements Strategy.
func (s *TrendingByCategory) Tag() model.StrategyTag { return model.StrategyTrending }

// Score implements Strategy. It emits nothing when total spend is not positive.
func (s *TrendingByCategory) Score(_ context.Context, in Input) []model.EntityRecommendation {
	spend := make(map[model.PurchaseCategory]float64)
	var total float64
	for _, p := range in.Purchases {
		spend[p.Category] += p.Amount
		total += p.Amount
	}
	if total <= 0 {
		return nil
	}

	var recs []model.EntityRecommendation
	for _, category := range model.PurchaseCategories {
		amount, spent := spend[category]
		if !spent {
			continue
		}
		share := amount / total
		score := clamp(trendingBase + share*trendingWeight)

		for _, name := range s.kb.Trending(category) {
			recs = append(recs, model.EntityRecommendation{
				EntityName:    name,
				Score:         score,
				Justification: fmt.Sprintf("Trending in %s - %.0f%% of your spending", category.DisplayName(), share*100),
				Strategy:      model.StrategyTrending,
			})
		}
	}
	return recs
}

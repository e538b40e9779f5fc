package recommend

import (
	"sort"

	"github.com/Veraticus/fanplan/internal/model"
)

// Aggregate merges candidates from every strategy into a ranked list.
//
// Candidates named in excluding are dropped. When the same entity appears
// more than once, the highest score wins and equal scores keep the earlier
// candidate, so callers must pass candidates in strategy evaluation order.
// The result is sorted by score descending, stable on input order, and holds
// at most max entries. Scores are clamped to [0, 1].
func Aggregate(candidates []model.EntityRecommendation, excluding map[string]struct{}, max int) []model.EntityRecommendation {
	if max <= 0 {
		return nil
	}

	excluded := make(map[model.EntityID]bool, len(excluding))
	for name := range excluding {
		excluded[model.IDFromName(name)] = true
	}

	type ranked struct {
		rec model.EntityRecommendation
		seq int
	}

	best := make(map[model.EntityID]int)
	merged := make([]ranked, 0, len(candidates))

	for seq, c := range candidates {
		id := model.IDFromName(c.EntityName)
		if excluded[id] {
			continue
		}
		c.Score = clamp(c.Score)

		if i, ok := best[id]; ok {
			if c.Score > merged[i].rec.Score {
				merged[i] = ranked{rec: c, seq: seq}
			}
			continue
		}
		best[id] = len(merged)
		merged = append(merged, ranked{rec: c, seq: seq})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].rec.Score != merged[j].rec.Score {
			return merged[i].rec.Score > merged[j].rec.Score
		}
		return merged[i].seq < merged[j].seq
	})

	if len(merged) > max {
		merged = merged[:max]
	}

	out := make([]model.EntityRecommendation, len(merged))
	for i, r := range merged {
		out[i] = r.rec
	}
	return out
}

package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/fanplan/internal/model"
)

const (
	albumPrice           = 25.0
	albumPriorityTop     = 0.8
	albumPriorityDefault = 0.6
	albumTopRank         = 2
	albumLookbackMonths  = 6

	seasonalPriority = 0.7
	seasonalTopN     = 2

	experienceMinBudget = 100.0
	experiencePriority  = 0.6
	experienceTopN      = 3
)

type seasonalItem struct {
	name  string
	price float64
}

var seasonalItems = map[time.Month][]seasonalItem{
	time.December: {{"Holiday Sweater", 45}, {"Winter Scarf", 25}},
	time.June:     {{"Summer T-Shirt", 30}, {"Concert Towel", 15}},
	time.March:    {{"Spring Hoodie", 55}, {"Light Jacket", 65}},
}

type experience struct {
	name        string
	description string
	price       float64
}

var experiences = []experience{
	{"Virtual Fanmeet", "Join an intimate online fanmeet", 50},
	{"Concert Livestream", "Watch the concert from home", 25},
	{"Fan Cafe Membership", "Get exclusive access to fan content", 15},
}

// ContentRecommender suggests things to buy for entities the user already
// follows: albums they have not bought lately, seasonal merchandise and
// affordable experiences.
type ContentRecommender struct {
	now func() time.Time
	max int
}

// NewContentRecommender creates a recommender returning at most max items.
// A nil clock uses time.Now.
func NewContentRecommender(now func() time.Time, max int) *ContentRecommender {
	if now == nil {
		now = time.Now
	}
	return &ContentRecommender{now: now, max: max}
}

// Recommend builds content suggestions for followed, ordered by priority
// descending. Generators contribute in a fixed order and equal priorities
// keep that order.
func (c *ContentRecommender) Recommend(followed []model.FollowedEntity, purchases []model.PurchaseRecord, availableBudget float64) []model.ContentRecommendation {
	if c.max <= 0 || len(followed) == 0 {
		return nil
	}

	byRank := model.SortByRank(followed)
	now := c.now()

	var recs []model.ContentRecommendation
	recs = append(recs, c.albumGaps(byRank, purchases, now)...)
	recs = append(recs, c.seasonal(byRank, now)...)
	recs = append(recs, c.experiences(byRank, availableBudget)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	if len(recs) > c.max {
		recs = recs[:c.max]
	}
	return recs
}

func (c *ContentRecommender) albumGaps(followed []model.FollowedEntity, purchases []model.PurchaseRecord, now time.Time) []model.ContentRecommendation {
	cutoff := now.AddDate(0, -albumLookbackMonths, 0)

	recent := make(map[model.EntityID]bool)
	for _, p := range purchases {
		if p.Category == model.CategoryAlbums && p.PurchasedAt.After(cutoff) {
			recent[model.IDFromName(p.EntityName)] = true
		}
	}

	var recs []model.ContentRecommendation
	for _, f := range followed {
		if recent[model.IDFromName(f.Name)] {
			continue
		}
		priority := albumPriorityDefault
		if f.Rank <= albumTopRank {
			priority = albumPriorityTop
		}
		recs = append(recs, model.ContentRecommendation{
			Title:          f.Name + " Latest Album",
			Description:    fmt.Sprintf("You haven't purchased any %s albums recently. Check out their latest release!", f.Name),
			ContentType:    model.ContentAlbum,
			EntityName:     f.Name,
			EstimatedPrice: albumPrice,
			Priority:       priority,
			Justification:  "Low recent album activity for high-priority artist",
		})
	}
	return recs
}

func (c *ContentRecommender) seasonal(followed []model.FollowedEntity, now time.Time) []model.ContentRecommendation {
	items, ok := seasonalItems[now.Month()]
	if !ok {
		return nil
	}

	var recs []model.ContentRecommendation
	for _, f := range topN(followed, seasonalTopN) {
		for _, item := range items {
			recs = append(recs, model.ContentRecommendation{
				Title:          f.Name + " " + item.name,
				Description:    "Perfect for the season! Limited time availability.",
				ContentType:    model.ContentMerchandise,
				EntityName:     f.Name,
				EstimatedPrice: item.price,
				Priority:       seasonalPriority,
				Justification:  fmt.Sprintf("Seasonal merchandise for %s", strings.ToLower(now.Month().String())),
			})
		}
	}
	return recs
}

func (c *ContentRecommender) experiences(followed []model.FollowedEntity, available float64) []model.ContentRecommendation {
	if available < experienceMinBudget {
		return nil
	}

	var recs []model.ContentRecommendation
	for _, f := range topN(followed, experienceTopN) {
		for _, e := range experiences {
			if e.price > available {
				continue
			}
			recs = append(recs, model.ContentRecommendation{
				Title:          f.Name + " " + e.name,
				Description:    e.description,
				ContentType:    model.ContentExperience,
				EntityName:     f.Name,
				EstimatedPrice: e.price,
				Priority:       experiencePriority,
				Justification:  "Experience within your planned spending for favorite artist",
			})
		}
	}
	return recs
}

func topN(followed []model.FollowedEntity, n int) []model.FollowedEntity {
	if len(followed) > n {
		return followed[:n]
	}
	return followed
}

package model

import "fmt"

// StrategyTag identifies the scoring strategy that produced a recommendation.
type StrategyTag string

const (
	// StrategyGenreSimilarity recommends entities sharing a genre.
	StrategyGenreSimilarity StrategyTag = "genre_similarity"
	// StrategyOrganizationConnection recommends entities under the same organization.
	StrategyOrganizationConnection StrategyTag = "organization_connection"
	// StrategyCollaboration recommends known collaborators.
	StrategyCollaboration StrategyTag = "collaboration"
	// StrategyTrending recommends entities trending in the user's spending categories.
	StrategyTrending StrategyTag = "trending"
)

// EntityRecommendation suggests a new entity to follow.
type EntityRecommendation struct {
	ID            string      `json:"id"`
	EntityName    string      `json:"entity_name"`
	Justification string      `json:"justification"`
	Strategy      StrategyTag `json:"strategy"`
	ImageURL      string      `json:"image_url,omitempty"`
	ReferenceURL  string      `json:"reference_url,omitempty"`
	Score         float64     `json:"score"` // always within [0, 1]
	Boosted       bool        `json:"boosted,omitempty"`
}

// ScoreText renders the score as a match percentage.
func (r EntityRecommendation) ScoreText() string {
	return fmt.Sprintf("%d%% match", int(r.Score*100))
}

// ContentType classifies a content recommendation.
type ContentType string

const (
	ContentAlbum       ContentType = "album"
	ContentMerchandise ContentType = "merchandise"
	ContentExperience  ContentType = "experience"
	ContentDigital     ContentType = "digital"
)

// ContentRecommendation suggests something to spend on for a followed entity.
type ContentRecommendation struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	ContentType    ContentType `json:"content_type"`
	EntityName     string      `json:"entity_name"`
	Justification  string      `json:"justification"`
	ImageURL       string      `json:"image_url,omitempty"`
	PurchaseURL    string      `json:"purchase_url,omitempty"`
	EstimatedPrice float64     `json:"estimated_price"`
	Priority       float64     `json:"priority"`
}

package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/fanplan/internal/cache"
	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/knowledge"
	"github.com/Veraticus/fanplan/internal/metrics"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/Veraticus/fanplan/internal/service"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration options for the recommendation engine.
type Config struct {
	MaxRecommendations int
	BoostAmount        float64
	LookupTimeout      time.Duration
	// EngagementFloor is the weight, in percent, given to followed entities
	// with no spend but liked or purchased in the interaction log.
	EngagementFloor float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxRecommendations: 10,
		BoostAmount:        0.2,
		LookupTimeout:      2 * time.Second,
		EngagementFloor:    10,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.MaxRecommendations <= 0:
		return fmt.Errorf("%w: max recommendations must be positive, got %d", common.ErrInvalidConfig, c.MaxRecommendations)
	case c.BoostAmount < 0 || c.BoostAmount > 1:
		return fmt.Errorf("%w: boost amount must be within [0, 1], got %g", common.ErrInvalidConfig, c.BoostAmount)
	case c.LookupTimeout < 0:
		return fmt.Errorf("%w: lookup timeout must not be negative, got %s", common.ErrInvalidConfig, c.LookupTimeout)
	case c.EngagementFloor < 0 || c.EngagementFloor > 100:
		return fmt.Errorf("%w: engagement floor must be within [0, 100], got %g", common.ErrInvalidConfig, c.EngagementFloor)
	}
	return nil
}

// GenerateRequest is the snapshot a single generation runs over.
type GenerateRequest struct {
	User         model.UserProfile
	Followed     []model.FollowedEntity // defaults to User.Followed
	Purchases    []model.PurchaseRecord
	Interactions []model.UserInteractionEvent
}

// Result is one generated recommendation batch.
type Result struct {
	GeneratedAt time.Time
	Entities    []model.EntityRecommendation
	Content     []model.ContentRecommendation
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for content and timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how recommendation IDs are assigned.
func WithIDGenerator(next func() string) Option {
	return func(e *Engine) { e.nextID = next }
}

// Engine produces entity and content recommendations for a user. It keeps
// no per-user state between calls.
type Engine struct {
	booster    *CollaborativeBooster
	cache      *cache.Cache
	now        func() time.Time
	nextID     func() string
	strategies []Strategy
	config     Config
}

// New creates an engine with the default configuration. lookup and rc may
// be nil to disable boosting and caching respectively.
func New(kb *knowledge.KnowledgeBase, lookup service.SimilarityLookup, rc *cache.Cache, opts ...Option) *Engine {
	e, err := NewWithConfig(kb, lookup, rc, DefaultConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default recommendation config rejected: %v", err))
	}
	return e
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(kb *knowledge.KnowledgeBase, lookup service.SimilarityLookup, rc *cache.Cache, config Config, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if kb == nil {
		return nil, fmt.Errorf("%w: knowledge base is required", common.ErrMissingConfig)
	}

	e := &Engine{
		// Evaluation order decides which candidate survives a score tie.
		strategies: []Strategy{
			NewGenreSimilarity(kb),
			NewOrganizationConnection(kb),
			NewCollaborationLink(kb),
			NewTrendingByCategory(kb),
		},
		booster: NewCollaborativeBooster(lookup, config.BoostAmount, config.LookupTimeout),
		cache:   rc,
		config:  config,
		now:     time.Now,
		nextID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Generate runs every strategy over req, aggregates and boosts the entity
// candidates, builds content suggestions and saves the batch to the cache.
// The only error it returns is the context's.
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	followed := req.Followed
	if followed == nil {
		followed = req.User.Followed
	}

	slog.Info("Generating recommendations",
		"user_id", req.User.ID,
		"followed", len(followed),
		"purchases", len(req.Purchases),
		"interactions", len(req.Interactions))

	in := NewInput(followed, req.Purchases).withEngagementFloor(req.Interactions, e.config.EngagementFloor)

	candidates, err := e.score(ctx, in)
	if err != nil {
		return nil, err
	}

	entities := Aggregate(candidates, model.FollowedSet(followed), e.config.MaxRecommendations)
	entities = e.booster.Boost(ctx, entities, req.User.ID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := NewContentRecommender(e.now, e.config.MaxRecommendations).
		Recommend(followed, req.Purchases, req.User.AvailableBudget())

	for i := range entities {
		entities[i].ID = e.nextID()
	}
	for i := range content {
		content[i].ID = e.nextID()
	}

	metrics.RecommendationsReturned.WithLabelValues("entity").Add(float64(len(entities)))
	metrics.RecommendationsReturned.WithLabelValues("content").Add(float64(len(content)))

	if e.cache != nil {
		if err := e.cache.Save(ctx, req.User.ID, entities, content); err != nil {
			common.LogError(ctx, err, "Failed to cache recommendations", common.Fields{"user_id": req.User.ID})
		}
	}

	slog.Info("Generated recommendations",
		"user_id", req.User.ID,
		"entities", len(entities),
		"content", len(content))

	return &Result{
		GeneratedAt: e.now(),
		Entities:    entities,
		Content:     content,
	}, nil
}

// score fans the strategies out concurrently. Each writes only its own slot
// and slots are concatenated in evaluation order, so the result does not
// depend on scheduling.
func (e *Engine) score(ctx context.Context, in Input) ([]model.EntityRecommendation, error) {
	slots := make([][]model.EntityRecommendation, len(e.strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range e.strategies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = s.Score(gctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var candidates []model.EntityRecommendation
	for i, s := range e.strategies {
		metrics.StrategyCandidates.WithLabelValues(string(s.Tag())).Add(float64(len(slots[i])))
		slog.Debug("Strategy scored", "strategy", s.Tag(), "candidates", len(slots[i]))
		candidates = append(candidates, slots[i]...)
	}
	return candidates, nil
}

// LoadCached returns the last saved batch, or nil when nothing usable is
// cached.
func (e *Engine) LoadCached(ctx context.Context) *cache.Snapshot {
	if e.cache == nil {
		return nil
	}
	return e.cache.Load(ctx)
}

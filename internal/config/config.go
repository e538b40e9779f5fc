package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/spf13/viper"
)

// Similarity lookup modes.
const (
	SimilarityLocal  = "local"
	SimilarityHTTP   = "http"
	SimilarityStatic = "static"
	SimilarityNone   = "none"
)

// Config is the typed application configuration.
type Config struct {
	Logging    LoggingConfig
	Database   DatabaseConfig
	Knowledge  KnowledgeConfig
	Similarity SimilarityConfig
	Recommend  RecommendConfig
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string
	Format string
}

// DatabaseConfig locates the local SQLite database.
type DatabaseConfig struct {
	Path string
}

// KnowledgeConfig locates an optional knowledge base file. An empty path
// selects the built-in data.
type KnowledgeConfig struct {
	Path string
}

// SimilarityConfig selects and configures the similar-user lookup.
type SimilarityConfig struct {
	Mode       string
	Endpoint   string
	APIKey     string
	Entities   []string
	MinOverlap float64
	Neighbors  int
}

// RecommendConfig tunes recommendation generation.
type RecommendConfig struct {
	MaxRecommendations int
	BoostAmount        float64
	LookupTimeout      time.Duration
	CacheMaxAge        time.Duration
	RecentPurchases    int
	InteractionWindow  time.Duration
	EngagementFloor    float64
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("knowledge.path", "")
	v.SetDefault("similarity.mode", SimilarityLocal)
	v.SetDefault("similarity.min_overlap", 0.2)
	v.SetDefault("similarity.neighbors", 20)
	v.SetDefault("recommend.max_recommendations", 10)
	v.SetDefault("recommend.boost_amount", 0.2)
	v.SetDefault("recommend.lookup_timeout", 2*time.Second)
	v.SetDefault("recommend.cache_max_age", 24*time.Hour)
	v.SetDefault("recommend.recent_purchases", 100)
	v.SetDefault("recommend.interaction_window", 90*24*time.Hour)
	v.SetDefault("recommend.engagement_floor", 10.0)
}

// FromViper builds a Config from v. Paths are expanded.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Knowledge: KnowledgeConfig{
			Path: ExpandPath(v.GetString("knowledge.path")),
		},
		Similarity: SimilarityConfig{
			Mode:       v.GetString("similarity.mode"),
			Endpoint:   v.GetString("similarity.endpoint"),
			APIKey:     v.GetString("similarity.api_key"),
			Entities:   v.GetStringSlice("similarity.entities"),
			MinOverlap: v.GetFloat64("similarity.min_overlap"),
			Neighbors:  v.GetInt("similarity.neighbors"),
		},
		Recommend: RecommendConfig{
			MaxRecommendations: v.GetInt("recommend.max_recommendations"),
			BoostAmount:        v.GetFloat64("recommend.boost_amount"),
			LookupTimeout:      v.GetDuration("recommend.lookup_timeout"),
			CacheMaxAge:        v.GetDuration("recommend.cache_max_age"),
			RecentPurchases:    v.GetInt("recommend.recent_purchases"),
			InteractionWindow:  v.GetDuration("recommend.interaction_window"),
			EngagementFloor:    v.GetFloat64("recommend.engagement_floor"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be checked where they are used.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: logging.format must be console or json, got %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}

	switch c.Similarity.Mode {
	case SimilarityLocal, SimilarityStatic, SimilarityNone:
	case SimilarityHTTP:
		if c.Similarity.Endpoint == "" {
			return fmt.Errorf("%w: similarity.endpoint is required in http mode", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown similarity.mode %q", common.ErrInvalidConfig, c.Similarity.Mode)
	}
	if c.Similarity.MinOverlap < 0 || c.Similarity.MinOverlap > 1 {
		return fmt.Errorf("%w: similarity.min_overlap must be within [0, 1]", common.ErrInvalidConfig)
	}

	if c.Recommend.CacheMaxAge < 0 {
		return fmt.Errorf("%w: recommend.cache_max_age must not be negative", common.ErrInvalidConfig)
	}
	if c.Recommend.RecentPurchases < 0 {
		return fmt.Errorf("%w: recommend.recent_purchases must not be negative", common.ErrInvalidConfig)
	}
	return nil
}

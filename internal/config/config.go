package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cloo-solutions/hackscout/internal/openai"
	"github.com/cloo-solutions/hackscout/internal/profile"
	"github.com/cloo-solutions/hackscout/internal/service"
	"github.com/cloo-solutions/hackscout/internal/telemetry"
)

const envPrefix = "HACKSCOUT"

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	SerpAPIKey          string `envconfig:"SERPAPI_API_KEY"`
	LinkedInAccessToken string `envconfig:"LINKEDIN_ACCESS_TOKEN"`
	LinkedInAPIURL      string `envconfig:"LINKEDIN_API_URL" default:"https://api.linkedin.com/v2"`

	ProfileCacheTTL  time.Duration `envconfig:"PROFILE_CACHE_TTL" default:"1h"`
	ProfileRateLimit float64       `envconfig:"PROFILE_RATE_LIMIT" default:"5"`

	TalkingPointsLimit   int           `envconfig:"TALKING_POINTS_LIMIT" default:"10"`
	TalkingPointsTimeout time.Duration `envconfig:"TALKING_POINTS_TIMEOUT" default:"30s"`
	SimilarityThreshold  float64       `envconfig:"SIMILARITY_THRESHOLD" default:"0.3"`
	TeamSize             int           `envconfig:"TEAM_SIZE" default:"4"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("failed to process config: SIMILARITY_THRESHOLD must be within [0,1], got %v", c.SimilarityThreshold)
	}
	if c.TeamSize < 0 {
		return fmt.Errorf("failed to process config: TEAM_SIZE must not be negative, got %d", c.TeamSize)
	}
	if c.ProfileRateLimit < 0 {
		return fmt.Errorf("failed to process config: PROFILE_RATE_LIMIT must not be negative, got %v", c.ProfileRateLimit)
	}
	return nil
}

// isSet treats blank values and copied .env.example placeholders as unset.
func isSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.HasPrefix(v, "your_")
}

func (c *Config) HasOpenAI() bool {
	return isSet(c.OpenAIAPIKey)
}

func (c *Config) HasSearchLookup() bool {
	return isSet(c.SerpAPIKey)
}

func (c *Config) HasOfficialAPI() bool {
	return isSet(c.LinkedInAccessToken)
}

// ResolverConfig returns the strategy selection for profile.NewResolver.
func (c *Config) ResolverConfig() profile.Config {
	return profile.Config{
		SearchLookupEnabled: c.HasSearchLookup(),
		SerpAPIKey:          c.SerpAPIKey,
		OfficialAPIEnabled:  c.HasOfficialAPI(),
		LinkedInAccessToken: c.LinkedInAccessToken,
		LinkedInAPIURL:      c.LinkedInAPIURL,
		CacheTTL:            c.ProfileCacheTTL,
		RequestsPerSecond:   c.ProfileRateLimit,
	}
}

func (c *Config) OpenAIConfig() openai.Config {
	return openai.Config{
		APIKey:  c.OpenAIAPIKey,
		Model:   c.OpenAIModel,
		BaseURL: c.OpenAIBaseURL,
	}
}

func (c *Config) PipelineConfig() service.PipelineConfig {
	return service.PipelineConfig{
		TalkingPointsLimit:   c.TalkingPointsLimit,
		TalkingPointsTimeout: c.TalkingPointsTimeout,
		TeamSize:             c.TeamSize,
	}
}

func (c *Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		DSN:         c.SentryDSN,
		Environment: c.Environment,
		Debug:       c.Debug,
	}
}

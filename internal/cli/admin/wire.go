// Package admin holds the hackscoutd subcommands.
package admin

import (
	"context"
	"log"

	"github.com/cloo-solutions/hackscout/internal/config"
	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/cloo-solutions/hackscout/internal/openai"
	"github.com/cloo-solutions/hackscout/internal/profile"
	"github.com/cloo-solutions/hackscout/internal/service"
)

// Pipeline is what the subcommands need from the service layer.
type Pipeline interface {
	Run(ctx context.Context, in service.RunInput) (*domain.AnalysisResult, error)
	GeneratePost(ctx context.Context, eventName string, top []domain.Participant, userExperience string) (string, error)
}

// newPipeline is swapped out in tests.
var newPipeline = func(cfg *config.Config) Pipeline {
	return buildService(cfg)
}

func buildService(cfg *config.Config) *service.ParticipantService {
	var generator service.TextGenerator
	if cfg.HasOpenAI() {
		generator = openai.NewClientWithConfig(cfg.OpenAIConfig())
	} else {
		log.Println("openai: no API key configured, analysis will use placeholders")
	}

	resolverCfg := cfg.ResolverConfig()
	if !resolverCfg.HasAnyStrategy() {
		log.Println("profile: no lookup strategy configured, only inline profile data will be used")
	}
	resolver := profile.NewResolver(resolverCfg)

	analyzer := service.NewAnalyzer(generator, service.WithSimilarityThreshold(cfg.SimilarityThreshold))
	return service.NewParticipantService(resolver, analyzer, cfg.PipelineConfig())
}

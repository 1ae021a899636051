package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/cloo-solutions/hackscout/internal/openai"
	"github.com/cloo-solutions/hackscout/internal/similarity"
	"github.com/cloo-solutions/hackscout/internal/telemetry"
)

const (
	DefaultTeamSize  = 4
	maxTalkingPoints = 5
)

// Placeholder texts returned in place of generated content.
const (
	PostFailureMessage          = "Error generating post."
	TalkingPointsFailureMessage = "Error generating talking points."
	NoProfileMessage            = "No profile data available for this participant."
)

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, opts openai.CompleteOptions) (string, error)
}

// Analyzer ranks participants, drafts talking points, groups teams and
// writes the event post. Every method returns a safe default when the
// generator is missing or its output is unusable.
type Analyzer struct {
	generator TextGenerator
	matcher   NameMatcher
	threshold float64
}

type AnalyzerOption func(*Analyzer)

// WithNameMatcher replaces exact name matching for ranking and teams.
func WithNameMatcher(m NameMatcher) AnalyzerOption {
	return func(a *Analyzer) {
		if m != nil {
			a.matcher = m
		}
	}
}

// WithSimilarityThreshold overrides similarity.DefaultThreshold.
func WithSimilarityThreshold(t float64) AnalyzerOption {
	return func(a *Analyzer) {
		if t > 0 {
			a.threshold = t
		}
	}
}

// NewAnalyzer creates an Analyzer. A nil generator is allowed.
func NewAnalyzer(generator TextGenerator, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		generator: generator,
		matcher:   ExactNameMatch,
		threshold: similarity.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type rankingResponse struct {
	Rankings []struct {
		Name      string   `json:"name"`
		Reasoning string   `json:"reasoning"`
		Score     *float64 `json:"score"`
	} `json:"rankings"`
}

type talkingPointsResponse struct {
	TalkingPoints []string `json:"talkingPoints"`
}

type teamsResponse struct {
	Teams []struct {
		Participants        []string `json:"participants"`
		Reasoning           string   `json:"reasoning"`
		ComplementarySkills []string `json:"complementarySkills"`
	} `json:"teams"`
}

// IdentifyHeavyHitters returns participants in the order the model ranked
// them, each carrying its score and reasoning. Names that do not match a
// participant are dropped and a participant appears at most once.
func (a *Analyzer) IdentifyHeavyHitters(ctx context.Context, participants []domain.Participant) []domain.Participant {
	if len(participants) == 0 {
		return []domain.Participant{}
	}

	ctx, span := telemetry.StartSpan(ctx, "Analyzer.IdentifyHeavyHitters", telemetry.SpanAttributes{
		Participants: len(participants),
	})
	defer span.End()

	var resp rankingResponse
	if err := a.completeJSON(ctx, buildRankingPrompt(participants), "rankings", &resp); err != nil {
		span.SetError(err)
		return []domain.Participant{}
	}

	ranked := make([]domain.Participant, 0, len(resp.Rankings))
	seen := make(map[string]bool, len(resp.Rankings))
	for _, r := range resp.Rankings {
		p, ok := a.matcher(r.Name, participants)
		if !ok || seen[p.ID] {
			continue
		}
		seen[p.ID] = true

		score := 0.5
		if r.Score != nil {
			score = clamp01(*r.Score)
		}
		ranked = append(ranked, p.WithScore(score, r.Reasoning))
	}
	return ranked
}

// GenerateTalkingPoints returns up to five openers for a participant.
func (a *Analyzer) GenerateTalkingPoints(ctx context.Context, participant domain.Participant) []string {
	if !participant.HasProfile() {
		return []string{NoProfileMessage}
	}

	var resp talkingPointsResponse
	if err := a.completeJSON(ctx, buildTalkingPointsPrompt(participant), "talkingPoints", &resp); err != nil {
		if errors.Is(err, errMissingKey) {
			return []string{}
		}
		return []string{TalkingPointsFailureMessage}
	}

	points := make([]string, 0, len(resp.TalkingPoints))
	for _, p := range resp.TalkingPoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
		if len(points) == maxTalkingPoints {
			break
		}
	}
	return points
}

// FindSimilarBackgrounds scores every participant against the user.
func (a *Analyzer) FindSimilarBackgrounds(participants []domain.Participant, user domain.Participant) []domain.SimilarityMatch {
	return similarity.FindSimilar(user, participants, a.threshold)
}

// SuggestTeams asks the model for teams of roughly teamSize members.
// Members are resolved against participants by name; unknown names are
// omitted and teams left empty are dropped.
func (a *Analyzer) SuggestTeams(ctx context.Context, participants []domain.Participant, teamSize int) []domain.TeamSuggestion {
	if len(participants) == 0 {
		return []domain.TeamSuggestion{}
	}
	if teamSize <= 0 {
		teamSize = DefaultTeamSize
	}

	ctx, span := telemetry.StartSpan(ctx, "Analyzer.SuggestTeams", telemetry.SpanAttributes{
		Participants: len(participants),
	})
	defer span.End()

	var resp teamsResponse
	if err := a.completeJSON(ctx, buildTeamsPrompt(participants, teamSize), "teams", &resp); err != nil {
		span.SetError(err)
		return []domain.TeamSuggestion{}
	}

	teams := make([]domain.TeamSuggestion, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		members := make([]domain.Participant, 0, len(t.Participants))
		inTeam := make(map[string]bool, len(t.Participants))
		for _, name := range t.Participants {
			p, ok := a.matcher(name, participants)
			if !ok || inTeam[p.ID] {
				continue
			}
			inTeam[p.ID] = true
			members = append(members, p)
		}
		if len(members) == 0 {
			continue
		}

		skills := t.ComplementarySkills
		if skills == nil {
			skills = []string{}
		}
		teams = append(teams, domain.TeamSuggestion{
			Participants:        members,
			Reasoning:           t.Reasoning,
			ComplementarySkills: skills,
		})
	}
	return teams
}

// GeneratePost drafts a social post about the event. Failures yield
// PostFailureMessage.
func (a *Analyzer) GeneratePost(ctx context.Context, eventName string, top []domain.Participant, userExperience string) string {
	if a.generator == nil {
		return PostFailureMessage
	}

	ctx, span := telemetry.StartSpan(ctx, "Analyzer.GeneratePost", telemetry.SpanAttributes{
		Participants: len(top),
	})
	defer span.End()

	out, err := a.generator.Complete(ctx, buildPostPrompt(eventName, top, userExperience), openai.CompleteOptions{})
	if err != nil {
		log.Printf("analyzer: post generation failed: %v", err)
		span.SetError(err)
		return PostFailureMessage
	}
	if out = strings.TrimSpace(out); out == "" {
		return PostFailureMessage
	}
	return out
}

var errMissingKey = errors.New("response missing expected key")

// completeJSON requests structured output and decodes it into out. The
// response must be a JSON object holding key; errMissingKey is returned
// when it is well formed but lacks that key.
func (a *Analyzer) completeJSON(ctx context.Context, prompt, key string, out any) error {
	if a.generator == nil {
		return domain.ErrAnalyzerUnavailable
	}

	raw, err := a.generator.Complete(ctx, prompt, openai.CompleteOptions{StructuredOutput: true})
	if err != nil {
		log.Printf("analyzer: %s request failed: %v", key, err)
		return err
	}

	body := []byte(stripFences(raw))
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		log.Printf("analyzer: %s response is not a JSON object: %v", key, err)
		return fmt.Errorf("decode %s response: %w", key, err)
	}
	if v, ok := probe[key]; !ok || string(v) == "null" {
		log.Printf("analyzer: %s response missing key", key)
		return fmt.Errorf("%s: %w", key, errMissingKey)
	}
	if err := json.Unmarshal(body, out); err != nil {
		log.Printf("analyzer: %s response has unexpected shape: %v", key, err)
		return fmt.Errorf("decode %s response: %w", key, err)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

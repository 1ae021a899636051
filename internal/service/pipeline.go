package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/cloo-solutions/hackscout/internal/profile"
	"github.com/cloo-solutions/hackscout/internal/telemetry"
)

const (
	DefaultTalkingPointsLimit   = 10
	DefaultTalkingPointsTimeout = 30 * time.Second
)

// TalkingPointsTimeoutMessage replaces the points of a candidate whose
// generation timed out or failed.
const TalkingPointsTimeoutMessage = "Could not generate talking points - try again later."

// Stage labels reported through ProgressFunc.
const (
	StageProcessing    = "Processing participant data"
	StageFetching      = "Fetching profile data"
	StageAnalyzing     = "Analyzing participants"
	StageTalkingPoints = "Generating talking points"
	StageConnections   = "Finding connections"
	StageComplete      = "Complete"
)

// ProfileResolver looks up a profile for one participant.
type ProfileResolver interface {
	Resolve(ctx context.Context, req profile.Request) (*domain.Profile, error)
}

// ParticipantAnalyzer is the text-generation backed analysis used by the
// pipeline. Implementations return safe defaults instead of errors.
type ParticipantAnalyzer interface {
	IdentifyHeavyHitters(ctx context.Context, participants []domain.Participant) []domain.Participant
	GenerateTalkingPoints(ctx context.Context, participant domain.Participant) []string
	FindSimilarBackgrounds(participants []domain.Participant, user domain.Participant) []domain.SimilarityMatch
	SuggestTeams(ctx context.Context, participants []domain.Participant, teamSize int) []domain.TeamSuggestion
	GeneratePost(ctx context.Context, eventName string, top []domain.Participant, userExperience string) string
}

// ProgressFunc receives stage updates during a run.
type ProgressFunc func(domain.AnalysisProgress)

// PipelineConfig tunes the talking-point and team stages. Zero values
// select the defaults.
type PipelineConfig struct {
	TalkingPointsLimit   int
	TalkingPointsTimeout time.Duration
	TeamSize             int
}

func (c PipelineConfig) withDefaults() PipelineConfig {
	if c.TalkingPointsLimit <= 0 {
		c.TalkingPointsLimit = DefaultTalkingPointsLimit
	}
	if c.TalkingPointsTimeout <= 0 {
		c.TalkingPointsTimeout = DefaultTalkingPointsTimeout
	}
	if c.TeamSize <= 0 {
		c.TeamSize = DefaultTeamSize
	}
	return c
}

// ParticipantService turns a raw attendee list into an AnalysisResult.
type ParticipantService struct {
	resolver ProfileResolver
	analyzer ParticipantAnalyzer
	cfg      PipelineConfig
	now      func() time.Time
}

func NewParticipantService(resolver ProfileResolver, analyzer ParticipantAnalyzer, cfg PipelineConfig) *ParticipantService {
	return &ParticipantService{
		resolver: resolver,
		analyzer: analyzer,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
}

// RunInput is the input to Run. UserProfile and OnProgress are optional;
// TeamSize overrides the configured team size when positive.
type RunInput struct {
	Participants []domain.RawParticipant
	UserProfile  *domain.Participant
	TeamSize     int
	OnProgress   ProgressFunc
}

// Run executes every stage in order. It fails only when the input list is
// empty or a record has no name; resolver and analyzer failures degrade
// the result instead.
func (s *ParticipantService) Run(ctx context.Context, in RunInput) (*domain.AnalysisResult, error) {
	if err := domain.ValidateRawParticipants(in.Participants); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx, span := telemetry.StartSpan(ctx, "ParticipantService.Run", telemetry.SpanAttributes{
		RunID:        runID,
		Participants: len(in.Participants),
	})
	defer span.End()

	progress := newProgressEmitter(in.OnProgress)
	total := len(in.Participants)

	stage := func(name string, value float64, message string) {
		telemetry.AddBreadcrumb(ctx, "pipeline", name)
		progress.emit(name, value, message)
	}

	stage(StageProcessing, 0.2, "Organizing participant information...")
	stage(StageFetching, 0.3, "Looking up profile data...")

	participants := s.enrich(ctx, runID, in.Participants, progress)

	withProfile := make([]domain.Participant, 0, len(participants))
	for _, p := range participants {
		if p.HasProfile() {
			withProfile = append(withProfile, p)
		}
	}

	stage(StageAnalyzing, 0.7, "Identifying key participants...")
	heavyHitters := s.rank(ctx, runID, participants, withProfile)
	participants = applyScores(participants, heavyHitters)

	stage(StageTalkingPoints, 0.8, "Creating personalized conversation starters...")
	talkingPoints := s.talkingPoints(ctx, runID, withProfile)

	stage(StageConnections, 0.9, "Matching similar backgrounds...")
	teamSize := s.cfg.TeamSize
	if in.TeamSize > 0 {
		teamSize = in.TeamSize
	}
	similar, teams := s.connections(ctx, runID, participants, in.UserProfile, teamSize)

	msg := "No profile data found. Analysis based on names only."
	if len(withProfile) > 0 {
		msg = fmt.Sprintf("Found profile data for %d of %d participants", len(withProfile), total)
	}
	span.SetCount("resolved", len(withProfile))
	span.SetCount("heavy_hitters", len(heavyHitters))
	log.Printf("pipeline: run %s finished, %d of %d participants enriched", runID, len(withProfile), total)
	stage(StageComplete, 1.0, "Analysis complete! "+msg)

	return &domain.AnalysisResult{
		Participants:       participants,
		HeavyHitters:       heavyHitters,
		TalkingPoints:      talkingPoints,
		SimilarBackgrounds: similar,
		TeamSuggestions:    teams,
	}, nil
}

// GeneratePost drafts an event post highlighting the given participants.
func (s *ParticipantService) GeneratePost(ctx context.Context, eventName string, top []domain.Participant, userExperience string) (string, error) {
	if strings.TrimSpace(eventName) == "" {
		return "", domain.ErrEmptyEventName
	}
	return s.analyzer.GeneratePost(ctx, strings.TrimSpace(eventName), top, userExperience), nil
}

// enrich builds one Participant per raw record, in input order. Inline
// profile data is normalized; other records go through the resolver.
func (s *ParticipantService) enrich(ctx context.Context, runID string, raw []domain.RawParticipant, progress *progressEmitter) []domain.Participant {
	ctx, span := telemetry.StartSpan(ctx, "pipeline.enrich", telemetry.SpanAttributes{
		RunID:        runID,
		Stage:        StageFetching,
		Participants: len(raw),
	})
	defer span.End()

	ids := newIDGenerator(s.now)
	out := make([]domain.Participant, len(raw))
	for i, r := range raw {
		out[i] = domain.Participant{
			ID:          ids.next(r.Name),
			Name:        strings.TrimSpace(r.Name),
			Email:       r.Email,
			Company:     r.Company,
			LinkedInURL: r.LinkedInURL,
		}
	}

	var g errgroup.Group
	for i := range raw {
		g.Go(func() error {
			progress.step(StageFetching, 0.3, 0.3, len(raw), fmt.Sprintf("Searching for %s's profile...", out[i].Name))

			prof := s.resolveOne(ctx, raw[i])
			out[i].Profile = prof
			out[i].Background = ExtractBackground(prof)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (s *ParticipantService) resolveOne(ctx context.Context, r domain.RawParticipant) *domain.Profile {
	if r.HasInlineProfile() {
		prof, err := profile.NormalizeInline(r.ProfileData)
		if err != nil {
			log.Printf("pipeline: inline profile for %q rejected: %v", r.Name, err)
			return nil
		}
		return prof
	}

	if s.resolver == nil {
		return nil
	}
	prof, err := s.resolver.Resolve(ctx, profile.Request{
		Name:    strings.TrimSpace(r.Name),
		Company: r.Company,
		URL:     r.LinkedInURL,
	})
	switch {
	case err == nil:
		return prof
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrNoResolverConfigured):
		return nil
	default:
		log.Printf("pipeline: resolve %q failed: %v", r.Name, err)
		return nil
	}
}

// rank asks the analyzer for heavy hitters among the profiled participants,
// or among everyone when nobody was resolved.
func (s *ParticipantService) rank(ctx context.Context, runID string, all, withProfile []domain.Participant) []domain.Participant {
	ctx, span := telemetry.StartSpan(ctx, "pipeline.rank", telemetry.SpanAttributes{
		RunID: runID,
		Stage: StageAnalyzing,
	})
	defer span.End()

	pool := withProfile
	if len(pool) == 0 {
		pool = all
	}
	ranked := s.analyzer.IdentifyHeavyHitters(ctx, pool)
	if ranked == nil {
		return []domain.Participant{}
	}
	return ranked
}

// talkingPoints generates points for the first candidates in input order.
// Each candidate gets its own deadline; a timeout or empty answer yields a
// single placeholder.
func (s *ParticipantService) talkingPoints(ctx context.Context, runID string, withProfile []domain.Participant) []domain.TalkingPoint {
	candidates := withProfile
	if len(candidates) > s.cfg.TalkingPointsLimit {
		candidates = candidates[:s.cfg.TalkingPointsLimit]
	}

	ctx, span := telemetry.StartSpan(ctx, "pipeline.talking_points", telemetry.SpanAttributes{
		RunID:        runID,
		Stage:        StageTalkingPoints,
		Participants: len(candidates),
	})
	defer span.End()

	out := make([]domain.TalkingPoint, len(candidates))
	if len(candidates) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(len(candidates))
	for i, p := range candidates {
		g.Go(func() error {
			out[i] = domain.TalkingPoint{
				ParticipantID:   p.ID,
				ParticipantName: p.Name,
				Points:          s.pointsWithDeadline(ctx, p),
				Source:          p.Profile.Source,
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (s *ParticipantService) pointsWithDeadline(ctx context.Context, p domain.Participant) []string {
	tctx, cancel := context.WithTimeout(ctx, s.cfg.TalkingPointsTimeout)
	defer cancel()

	done := make(chan []string, 1)
	go func() {
		done <- s.analyzer.GenerateTalkingPoints(tctx, p)
	}()

	select {
	case points := <-done:
		if tctx.Err() != nil || len(points) == 0 {
			return []string{TalkingPointsTimeoutMessage}
		}
		return points
	case <-tctx.Done():
		log.Printf("pipeline: talking points for %q timed out", p.Name)
		return []string{TalkingPointsTimeoutMessage}
	}
}

// connections runs similarity matching and team suggestion side by side.
func (s *ParticipantService) connections(ctx context.Context, runID string, participants []domain.Participant, user *domain.Participant, teamSize int) ([]domain.SimilarityMatch, []domain.TeamSuggestion) {
	similar := []domain.SimilarityMatch{}
	teams := []domain.TeamSuggestion{}

	g, gctx := errgroup.WithContext(ctx)
	if user != nil {
		g.Go(func() error {
			_, span := telemetry.StartSpan(gctx, "pipeline.similarity", telemetry.SpanAttributes{RunID: runID, Stage: StageConnections})
			defer span.End()

			u := *user
			if u.Background == nil {
				u.Background = ExtractBackground(u.Profile)
			}
			if matches := s.analyzer.FindSimilarBackgrounds(participants, u); matches != nil {
				similar = matches
			}
			return nil
		})
	}
	g.Go(func() error {
		tctx, span := telemetry.StartSpan(gctx, "pipeline.teams", telemetry.SpanAttributes{RunID: runID, Stage: StageConnections})
		defer span.End()

		if suggested := s.analyzer.SuggestTeams(tctx, participants, teamSize); suggested != nil {
			teams = suggested
		}
		return nil
	})
	_ = g.Wait()

	return similar, teams
}

// applyScores copies ranking scores onto the participant list so that a
// participant carries a score exactly when it is a heavy hitter.
func applyScores(participants, ranked []domain.Participant) []domain.Participant {
	byID := make(map[string]domain.Participant, len(ranked))
	for _, r := range ranked {
		byID[r.ID] = r
	}

	out := make([]domain.Participant, len(participants))
	for i, p := range participants {
		p.Score, p.Reasoning = nil, ""
		if r, ok := byID[p.ID]; ok && r.Score != nil {
			p = p.WithScore(*r.Score, r.Reasoning)
		}
		out[i] = p
	}
	return out
}

// progressEmitter serializes callbacks and never reports a lower value
// than one already sent.
type progressEmitter struct {
	mu      sync.Mutex
	fn      ProgressFunc
	last    float64
	started int
}

func newProgressEmitter(fn ProgressFunc) *progressEmitter {
	return &progressEmitter{fn: fn}
}

func (e *progressEmitter) emit(stage string, value float64, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.send(stage, value, message)
}

// step reports one more unit of a stage spanning [base, base+width].
func (e *progressEmitter) step(stage string, base, width float64, total int, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value := base + float64(e.started)/float64(total)*width
	e.started++
	e.send(stage, value, message)
}

func (e *progressEmitter) send(stage string, value float64, message string) {
	if e.fn == nil {
		return
	}
	if value < e.last {
		value = e.last
	}
	e.last = value
	e.fn(domain.AnalysisProgress{Stage: stage, Progress: value, Message: message})
}

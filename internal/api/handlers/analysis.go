package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/cloo-solutions/hackscout/internal/api"
	"github.com/cloo-solutions/hackscout/internal/api/middleware"
	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/cloo-solutions/hackscout/internal/service"
	"github.com/cloo-solutions/hackscout/internal/similarity"
)

type AnalysisService interface {
	Run(ctx context.Context, in service.RunInput) (*domain.AnalysisResult, error)
	GeneratePost(ctx context.Context, eventName string, top []domain.Participant, userExperience string) (string, error)
}

type AnalysisHandler struct {
	svc       AnalysisService
	threshold float64
}

func NewAnalysisHandler(svc AnalysisService, threshold float64) *AnalysisHandler {
	if threshold <= 0 {
		threshold = similarity.DefaultThreshold
	}
	return &AnalysisHandler{svc: svc, threshold: threshold}
}

type AnalyzeRequest struct {
	Participants []domain.RawParticipant `json:"participants"`
	UserProfile  *domain.Participant     `json:"user_profile,omitempty"`
	TeamSize     int                     `json:"team_size,omitempty"`
}

type PostRequest struct {
	EventName      string               `json:"event_name"`
	Participants   []domain.Participant `json:"participants"`
	UserExperience string               `json:"user_experience,omitempty"`
}

type PostResponse struct {
	Post string `json:"post"`
}

type SimilarityRequest struct {
	User         *domain.Participant  `json:"user"`
	Participants []domain.Participant `json:"participants"`
}

func (req AnalyzeRequest) validate() error {
	if req.TeamSize < 0 {
		return domain.ErrInvalidTeamSize
	}
	return domain.ValidateRawParticipants(req.Participants)
}

func (req AnalyzeRequest) runInput(onProgress service.ProgressFunc) service.RunInput {
	return service.RunInput{
		Participants: req.Participants,
		UserProfile:  req.UserProfile,
		TeamSize:     req.TeamSize,
		OnProgress:   onProgress,
	}
}

// Analyze runs the full pipeline and returns the aggregate result.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		api.HandleError(w, err)
		return
	}

	result, err := h.svc.Run(r.Context(), req.runInput(nil))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// Stream runs the pipeline and reports each progress update as a
// server-sent event, followed by a final result event.
func (h *AnalysisHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	stream := &eventStream{w: w, rc: http.NewResponseController(w), requestID: middleware.GetRequestID(r.Context())}

	result, err := h.svc.Run(r.Context(), req.runInput(func(p domain.AnalysisProgress) {
		stream.send("progress", p)
	}))
	if err != nil {
		stream.send("error", api.ErrorResponse{Error: err.Error()})
		return
	}
	stream.send("result", result)
}

// GeneratePost drafts a social post for the given event.
func (h *AnalysisHandler) GeneratePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.svc.GeneratePost(r.Context(), req.EventName, req.Participants, req.UserExperience)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, PostResponse{Post: post})
}

// Similarity compares the user against participants without any external call.
func (h *AnalysisHandler) Similarity(w http.ResponseWriter, r *http.Request) {
	var req SimilarityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.User == nil {
		api.Error(w, http.StatusBadRequest, "user is required")
		return
	}

	user := withBackground(*req.User)
	participants := make([]domain.Participant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = withBackground(p)
	}

	api.Success(w, http.StatusOK, similarity.FindSimilar(user, participants, h.threshold))
}

func withBackground(p domain.Participant) domain.Participant {
	if p.Background == nil {
		p.Background = service.ExtractBackground(p.Profile)
	}
	return p
}

// eventStream writes text/event-stream frames. Callers serialize sends.
type eventStream struct {
	w         http.ResponseWriter
	rc        *http.ResponseController
	requestID string
	broken    bool
}

func (s *eventStream) send(event string, payload interface{}) {
	if s.broken {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("stream: marshal %s event: %v", event, err)
		return
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		log.Printf("stream: request %s: client went away: %v", s.requestID, err)
		s.broken = true
		return
	}
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Printf("stream: request %s: flush failed: %v", s.requestID, err)
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/cloo-solutions/hackscout/internal/service"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Run(ctx context.Context, in service.RunInput) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisService) GeneratePost(ctx context.Context, eventName string, top []domain.Participant, userExperience string) (string, error) {
	args := m.Called(ctx, eventName, top, userExperience)
	return args.String(0), args.Error(1)
}

func newTestResult() *domain.AnalysisResult {
	score := 0.9
	ann := domain.Participant{ID: "ann-1", Name: "Ann", Score: &score}
	return &domain.AnalysisResult{
		Participants:       []domain.Participant{ann, {ID: "bo-1", Name: "Bo"}},
		HeavyHitters:       []domain.Participant{ann},
		TalkingPoints:      []domain.TalkingPoint{{ParticipantID: "ann-1", ParticipantName: "Ann", Points: []string{"hi"}}},
		SimilarBackgrounds: []domain.SimilarityMatch{},
		TeamSuggestions:    []domain.TeamSuggestion{},
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	svc := new(MockAnalysisService)
	handler := NewAnalysisHandler(svc, 0)

	svc.On("Run", mock.Anything, mock.MatchedBy(func(in service.RunInput) bool {
		return len(in.Participants) == 2 && in.Participants[0].Name == "Ann" && in.TeamSize == 3 && in.OnProgress == nil
	})).Return(newTestResult(), nil)

	w := postJSON(t, handler.Analyze, AnalyzeRequest{
		Participants: []domain.RawParticipant{{Name: "Ann", Company: "Acme"}, {Name: "Bo"}},
		TeamSize:     3,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.AnalysisResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Participants, 2)
	require.Len(t, resp.Data.HeavyHitters, 1)
	assert.Equal(t, "ann-1", resp.Data.HeavyHitters[0].ID)
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_Analyze_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{name: "invalid json", body: "{", message: "invalid request body"},
		{name: "empty list", body: AnalyzeRequest{}, message: "participant list cannot be empty"},
		{name: "blank name", body: AnalyzeRequest{Participants: []domain.RawParticipant{{Name: " "}}}, message: "participant name is required"},
		{name: "negative team size", body: AnalyzeRequest{Participants: []domain.RawParticipant{{Name: "Ann"}}, TeamSize: -1}, message: "team size must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			w := postJSON(t, NewAnalysisHandler(svc, 0).Analyze, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			svc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestAnalysisHandler_Stream(t *testing.T) {
	svc := new(MockAnalysisService)
	handler := NewAnalysisHandler(svc, 0)

	svc.On("Run", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		in := args.Get(1).(service.RunInput)
		require.NotNil(t, in.OnProgress)
		in.OnProgress(domain.AnalysisProgress{Stage: service.StageProcessing, Progress: 0.2, Message: "Organizing participant information..."})
		in.OnProgress(domain.AnalysisProgress{Stage: service.StageComplete, Progress: 1, Message: "Analysis complete!"})
	}).Return(newTestResult(), nil)

	w := postJSON(t, handler.Stream, AnalyzeRequest{Participants: []domain.RawParticipant{{Name: "Ann"}}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.True(t, w.Flushed)

	frames := strings.Split(strings.TrimSpace(w.Body.String()), "\n\n")
	require.Len(t, frames, 3)
	assert.True(t, strings.HasPrefix(frames[0], "event: progress\ndata: "))
	assert.Contains(t, frames[0], `"progress":0.2`)
	assert.True(t, strings.HasPrefix(frames[2], "event: result\ndata: "))

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frames[2], "event: result\ndata: ")), &result))
	assert.Len(t, result.Participants, 2)
}

func TestAnalysisHandler_Stream_ValidatesBeforeStreaming(t *testing.T) {
	svc := new(MockAnalysisService)

	w := postJSON(t, NewAnalysisHandler(svc, 0).Stream, AnalyzeRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestAnalysisHandler_GeneratePost(t *testing.T) {
	svc := new(MockAnalysisService)
	handler := NewAnalysisHandler(svc, 0)

	top := []domain.Participant{{ID: "ann-1", Name: "Ann"}}
	svc.On("GeneratePost", mock.Anything, "HackMIT", top, "built a drone").Return("Great weekend!", nil)

	w := postJSON(t, handler.GeneratePost, PostRequest{EventName: "HackMIT", Participants: top, UserExperience: "built a drone"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data PostResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Great weekend!", resp.Data.Post)
}

func TestAnalysisHandler_GeneratePost_MissingEvent(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("GeneratePost", mock.Anything, "", mock.Anything, "").Return("", domain.ErrEmptyEventName)

	w := postJSON(t, NewAnalysisHandler(svc, 0).GeneratePost, PostRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "event name is required")
}

func TestAnalysisHandler_Similarity(t *testing.T) {
	handler := NewAnalysisHandler(new(MockAnalysisService), 0)

	w := postJSON(t, handler.Similarity, SimilarityRequest{
		User: &domain.Participant{ID: "me", Name: "Me", Profile: &domain.Profile{Education: []domain.Education{{School: "MIT"}}}},
		Participants: []domain.Participant{
			{ID: "ann-1", Name: "Ann", Profile: &domain.Profile{Education: []domain.Education{{School: "MIT"}}}},
			{ID: "bo-1", Name: "Bo"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []domain.SimilarityMatch `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "ann-1", resp.Data[0].Participant2)
	assert.InDelta(t, 0.4, resp.Data[0].SimilarityScore, 1e-9)
}

func TestAnalysisHandler_Similarity_RequiresUser(t *testing.T) {
	w := postJSON(t, NewAnalysisHandler(new(MockAnalysisService), 0).Similarity, SimilarityRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user is required")
}

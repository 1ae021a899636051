package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Profile sources record which strategy produced a profile.
const (
	ProfileSourceSearch   = "search"
	ProfileSourceOfficial = "official"
	ProfileSourceManual   = "manual"
)

// Education is one entry of a profile's education history.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
}

// Experience is one position held by the profile owner.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Profile is the structured professional record of a participant.
type Profile struct {
	Name            string       `json:"name,omitempty"`
	Headline        string       `json:"headline,omitempty"`
	About           string       `json:"about,omitempty"`
	CurrentPosition string       `json:"current_position,omitempty"`
	Company         string       `json:"company,omitempty"`
	Location        string       `json:"location,omitempty"`
	Education       []Education  `json:"education,omitempty"`
	Experience      []Experience `json:"experience,omitempty"`
	Skills          []string     `json:"skills,omitempty"`
	ProfileURL      string       `json:"profile_url,omitempty"`
	ImageURL        string       `json:"image_url,omitempty"`
	Source          string       `json:"source,omitempty"`
}

// Background holds the summary sets derived from a Profile.
type Background struct {
	Schools     []string `json:"schools"`
	Companies   []string `json:"companies"`
	Internships []string `json:"internships"`
	Research    []string `json:"research"`
	Skills      []string `json:"skills"`
}

// RawParticipant is one record of the attendee list as supplied by the caller.
// ProfileData optionally carries inline profile data, either an already
// resolved Profile or a free-form manual object.
type RawParticipant struct {
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Company     string          `json:"company,omitempty"`
	LinkedInURL string          `json:"linkedin_url,omitempty"`
	ProfileData json.RawMessage `json:"profile_data,omitempty"`
}

// HasInlineProfile reports whether the record carries non-null inline data.
func (r RawParticipant) HasInlineProfile() bool {
	data := strings.TrimSpace(string(r.ProfileData))
	return data != "" && data != "null"
}

// Participant is an enriched attendee.
type Participant struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email,omitempty"`
	Company     string      `json:"company,omitempty"`
	LinkedInURL string      `json:"linkedin_url,omitempty"`
	Profile     *Profile    `json:"profile,omitempty"`
	Background  *Background `json:"background,omitempty"`
	Score       *float64    `json:"score,omitempty"`
	Reasoning   string      `json:"reasoning,omitempty"`
}

// HasProfile reports whether a resolver produced a profile for p.
func (p Participant) HasProfile() bool {
	return p.Profile != nil
}

// WithScore returns a copy of p carrying the given heavy-hitter score.
func (p Participant) WithScore(score float64, reasoning string) Participant {
	p.Score = &score
	p.Reasoning = reasoning
	return p
}

// TalkingPoint holds the conversation starters generated for one participant.
type TalkingPoint struct {
	ParticipantID   string   `json:"participant_id"`
	ParticipantName string   `json:"participant_name"`
	Points          []string `json:"points"`
	Source          string   `json:"source"`
}

// Commonalities lists the overlapping facts behind a similarity score.
type Commonalities struct {
	Schools   []string `json:"schools"`
	Companies []string `json:"companies"`
	Skills    []string `json:"skills"`
}

// SimilarityMatch is a scored comparison between two participants.
type SimilarityMatch struct {
	Participant1     string        `json:"participant1"`
	Participant2     string        `json:"participant2"`
	Participant1Name string        `json:"participant1_name"`
	Participant2Name string        `json:"participant2_name"`
	SimilarityScore  float64       `json:"similarity_score"`
	Commonalities    Commonalities `json:"commonalities"`
}

// TeamSuggestion is a proposed group of participants.
type TeamSuggestion struct {
	Participants        []Participant `json:"participants"`
	Reasoning           string        `json:"reasoning"`
	ComplementarySkills []string      `json:"complementary_skills"`
}

// AnalysisProgress is a transient status notification emitted during a run.
type AnalysisProgress struct {
	Stage    string  `json:"stage"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
}

// AnalysisResult is the aggregate output of one pipeline run.
type AnalysisResult struct {
	Participants       []Participant     `json:"participants"`
	HeavyHitters       []Participant     `json:"heavy_hitters"`
	TalkingPoints      []TalkingPoint    `json:"talking_points"`
	SimilarBackgrounds []SimilarityMatch `json:"similar_backgrounds"`
	TeamSuggestions    []TeamSuggestion  `json:"team_suggestions"`
}

// ValidateRawParticipants checks the caller-supplied attendee list.
func ValidateRawParticipants(list []RawParticipant) error {
	if len(list) == 0 {
		return ErrEmptyParticipantList
	}

	for i, p := range list {
		if strings.TrimSpace(p.Name) == "" {
			return NewDomainErrorWithCause(ErrCodeValidation, ErrMissingParticipantName.Message,
				fmt.Errorf("record %d", i))
		}
	}

	return nil
}

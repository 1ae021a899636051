package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloo-solutions/hackscout/internal/domain"
)

// NormalizeInline turns inline profile data into a Profile. Data that already
// carries a profile URL is taken as a resolved profile; anything else is
// parsed as free-form manual input.
func NormalizeInline(data json.RawMessage) (*domain.Profile, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "inline profile must be a JSON object", err)
	}
	if raw == nil {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "inline profile must be a JSON object")
	}

	if str(raw, "profile_url") != "" {
		var p domain.Profile
		if err := json.Unmarshal(data, &p); err == nil {
			if p.Source == "" {
				p.Source = domain.ProfileSourceManual
			}
			return &p, nil
		}
	}

	return ParseManualInput(raw), nil
}

// ParseManualInput builds a Profile from a loosely shaped object. Both
// snake_case and camelCase keys are accepted, list fields may be given as
// arrays or comma-separated strings.
func ParseManualInput(raw map[string]interface{}) *domain.Profile {
	p := &domain.Profile{
		Name:            str(raw, "name"),
		Headline:        str(raw, "headline"),
		About:           str(raw, "about", "summary", "bio"),
		CurrentPosition: str(raw, "current_position", "currentPosition", "position", "title"),
		Company:         str(raw, "company"),
		Location:        str(raw, "location"),
		ProfileURL:      str(raw, "profile_url", "profileUrl", "linkedin_url", "linkedinUrl", "url"),
		ImageURL:        str(raw, "image_url", "profileImage", "imageUrl"),
		Skills:          strList(raw["skills"]),
		Source:          domain.ProfileSourceManual,
	}

	for _, item := range list(raw["education"]) {
		switch v := item.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				p.Education = append(p.Education, domain.Education{School: s})
			}
		case map[string]interface{}:
			e := domain.Education{
				School: str(v, "school", "schoolName", "institution"),
				Degree: str(v, "degree", "degreeName"),
				Field:  str(v, "field", "fieldOfStudy", "major"),
			}
			if e.School != "" {
				p.Education = append(p.Education, e)
			}
		}
	}

	for _, item := range list(raw["experience"]) {
		switch v := item.(type) {
		case string:
			if e, ok := parseExperienceLine(v); ok {
				p.Experience = append(p.Experience, e)
			}
		case map[string]interface{}:
			e := domain.Experience{
				Title:       str(v, "title", "position", "role"),
				Company:     str(v, "company", "companyName", "organization"),
				Duration:    str(v, "duration", "dates", "timePeriod"),
				Description: str(v, "description"),
			}
			if e.Title != "" || e.Company != "" {
				p.Experience = append(p.Experience, e)
			}
		}
	}

	if len(p.Experience) > 0 {
		if p.CurrentPosition == "" {
			p.CurrentPosition = p.Experience[0].Title
		}
		if p.Company == "" {
			p.Company = p.Experience[0].Company
		}
	}
	if p.Headline == "" && p.CurrentPosition != "" {
		p.Headline = p.CurrentPosition
		if p.Company != "" {
			p.Headline = fmt.Sprintf("%s at %s", p.CurrentPosition, p.Company)
		}
	}

	return p
}

// parseExperienceLine accepts "Title at Company" or a bare company name.
func parseExperienceLine(line string) (domain.Experience, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return domain.Experience{}, false
	}
	if title, company, ok := strings.Cut(line, " at "); ok {
		return domain.Experience{Title: strings.TrimSpace(title), Company: strings.TrimSpace(company)}, true
	}
	return domain.Experience{Company: line}, true
}

func str(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func list(v interface{}) []interface{} {
	items, _ := v.([]interface{})
	return items
}

func strList(v interface{}) []string {
	var out []string
	switch val := v.(type) {
	case string:
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

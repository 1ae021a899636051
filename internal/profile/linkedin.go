package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cloo-solutions/hackscout/internal/domain"
)

const defaultLinkedInAPIURL = "https://api.linkedin.com/v2"

// LinkedInLookup fetches profiles from the partner API by vanity name.
type LinkedInLookup struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewLinkedInLookup(token, baseURL string, client *http.Client) *LinkedInLookup {
	if baseURL == "" {
		baseURL = defaultLinkedInAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &LinkedInLookup{token: token, baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type linkedInPerson struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Headline       string `json:"headline"`
	Summary        string `json:"summary"`
	Location       string `json:"location"`
	VanityName     string `json:"vanityName"`
	ProfilePicture string `json:"profilePicture"`
	Positions      []struct {
		Title       string `json:"title"`
		CompanyName string `json:"companyName"`
		TimePeriod  string `json:"timePeriod"`
		Description string `json:"description"`
		Current     bool   `json:"current"`
	} `json:"positions"`
	Educations []struct {
		SchoolName   string `json:"schoolName"`
		DegreeName   string `json:"degreeName"`
		FieldOfStudy string `json:"fieldOfStudy"`
	} `json:"educations"`
	Skills []struct {
		Name string `json:"name"`
	} `json:"skills"`
}

// ResolveByURL extracts the vanity name from profileURL and fetches it.
func (l *LinkedInLookup) ResolveByURL(ctx context.Context, profileURL string) (*domain.Profile, error) {
	vanity, err := vanityName(profileURL)
	if err != nil {
		return nil, err
	}

	var person linkedInPerson
	err = getJSON(ctx, l.client, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/people/"+url.PathEscape(vanity), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+l.token)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &person)
	if err != nil {
		return nil, err
	}

	return person.toProfile(profileURL), nil
}

func (p linkedInPerson) toProfile(profileURL string) *domain.Profile {
	out := &domain.Profile{
		Name:       strings.TrimSpace(p.FirstName + " " + p.LastName),
		Headline:   p.Headline,
		About:      p.Summary,
		Location:   p.Location,
		ProfileURL: profileURL,
		ImageURL:   p.ProfilePicture,
		Source:     domain.ProfileSourceOfficial,
	}

	current := 0
	for i, pos := range p.Positions {
		out.Experience = append(out.Experience, domain.Experience{
			Title:       pos.Title,
			Company:     pos.CompanyName,
			Duration:    pos.TimePeriod,
			Description: pos.Description,
		})
		if pos.Current && !p.Positions[current].Current {
			current = i
		}
	}
	if len(p.Positions) > 0 {
		out.CurrentPosition = p.Positions[current].Title
		out.Company = p.Positions[current].CompanyName
	}
	for _, e := range p.Educations {
		out.Education = append(out.Education, domain.Education{School: e.SchoolName, Degree: e.DegreeName, Field: e.FieldOfStudy})
	}
	for _, s := range p.Skills {
		if s.Name != "" {
			out.Skills = append(out.Skills, s.Name)
		}
	}

	return out
}

func vanityName(profileURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil {
		return "", fmt.Errorf("invalid profile url: %w", err)
	}
	segments := splitTrim(u.Path, "/")
	for i, seg := range segments {
		if seg == "in" && i+1 < len(segments) {
			return segments[i+1], nil
		}
	}
	return "", fmt.Errorf("invalid profile url: %q has no /in/ segment", profileURL)
}

package profile

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/cloo-solutions/hackscout/internal/domain"
)

const defaultSerpAPIURL = "https://serpapi.com/search.json"

// SerpAPILookup finds public profiles through a Google search restricted to
// profile pages.
type SerpAPILookup struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSerpAPILookup(apiKey, baseURL string, client *http.Client) *SerpAPILookup {
	if baseURL == "" {
		baseURL = defaultSerpAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &SerpAPILookup{apiKey: apiKey, baseURL: baseURL, client: client}
}

type serpResponse struct {
	OrganicResults []serpResult `json:"organic_results"`
}

type serpResult struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Snippet   string `json:"snippet"`
	Thumbnail string `json:"thumbnail"`
}

// ResolveByNameCompany runs the search and parses the first profile hit.
func (s *SerpAPILookup) ResolveByNameCompany(ctx context.Context, name, company string) (*domain.Profile, error) {
	query := searchQuery(name, company)

	var resp serpResponse
	err := getJSON(ctx, s.client, func(ctx context.Context) (*http.Request, error) {
		u, err := url.Parse(s.baseURL)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("engine", "google")
		q.Set("q", query)
		q.Set("num", "5")
		q.Set("api_key", s.apiKey)
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}, &resp)
	if err != nil {
		return nil, err
	}

	for _, r := range resp.OrganicResults {
		if !isProfileLink(r.Link) {
			continue
		}
		return profileFromSearchResult(name, r), nil
	}

	return nil, domain.ErrProfileNotFound
}

func searchQuery(name, company string) string {
	q := `"` + strings.TrimSpace(name) + `"`
	if c := strings.TrimSpace(company); c != "" {
		q += " " + c
	}
	return q + " site:linkedin.com/in"
}

func isProfileLink(link string) bool {
	return strings.Contains(link, "linkedin.com/in/")
}

// profileFromSearchResult parses titles shaped like
// "Name - Position - Company | LinkedIn" and snippets carrying
// "Experience: X · Education: Y · Location: Z" facets.
func profileFromSearchResult(name string, r serpResult) *domain.Profile {
	p := &domain.Profile{
		Name:       name,
		ProfileURL: r.Link,
		ImageURL:   r.Thumbnail,
		About:      r.Snippet,
		Source:     domain.ProfileSourceSearch,
	}

	title := r.Title
	if i := strings.LastIndex(title, "|"); i >= 0 {
		title = title[:i]
	}
	parts := splitTrim(title, " - ")
	if len(parts) > 0 && parts[0] != "" {
		p.Name = parts[0]
	}
	if len(parts) > 1 {
		p.CurrentPosition = parts[1]
		p.Headline = strings.Join(parts[1:], " - ")
	}
	if len(parts) > 2 {
		p.Company = parts[2]
	}

	for _, facet := range splitTrim(r.Snippet, "·") {
		key, value, ok := strings.Cut(facet, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "experience":
			if p.Company == "" {
				p.Company = value
			}
		case "education":
			p.Education = append(p.Education, domain.Education{School: value})
		case "location":
			p.Location = value
		}
	}

	if p.Company != "" {
		p.Experience = append(p.Experience, domain.Experience{Title: p.CurrentPosition, Company: p.Company})
	}

	return p
}

func splitTrim(s, sep string) []string {
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

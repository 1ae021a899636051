package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cloo-solutions/hackscout/internal/domain"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractBackground derives the summary sets used for similarity matching.
// It returns nil when no profile is present.
func ExtractBackground(p *domain.Profile) *domain.Background {
	if p == nil {
		return nil
	}

	bg := &domain.Background{
		Schools:     []string{},
		Companies:   []string{},
		Internships: []string{},
		Research:    []string{},
		Skills:      append([]string{}, p.Skills...),
	}

	for _, e := range p.Education {
		if e.School != "" {
			bg.Schools = append(bg.Schools, e.School)
		}
	}

	for _, e := range p.Experience {
		if e.Company == "" {
			continue
		}
		bg.Companies = append(bg.Companies, e.Company)

		title := strings.ToLower(e.Title)
		if strings.Contains(title, "intern") {
			bg.Internships = append(bg.Internships, e.Company)
		}
		if strings.Contains(title, "research") {
			bg.Research = append(bg.Research, e.Company)
		}
	}

	return bg
}

// idGenerator hands out participant ids that are unique within one run.
type idGenerator struct {
	now  func() time.Time
	seen map[string]int
}

func newIDGenerator(now func() time.Time) *idGenerator {
	return &idGenerator{now: now, seen: make(map[string]int)}
}

// next returns "<slug>-<unix millis>", suffixed with a counter when the same
// name appears twice in one millisecond.
func (g *idGenerator) next(name string) string {
	slug := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	id := fmt.Sprintf("%s-%d", slug, g.now().UnixMilli())

	g.seen[id]++
	if n := g.seen[id]; n > 1 {
		return fmt.Sprintf("%s-%d", id, n)
	}
	return id
}

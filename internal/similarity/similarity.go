// Package similarity scores background overlap between participants.
package similarity

import (
	"sort"

	"github.com/cloo-solutions/hackscout/internal/domain"
)

// DefaultThreshold is the score a match must exceed to be reported.
const DefaultThreshold = 0.3

// Weights are expressed in tenths so the capped total is exact.
const (
	schoolPoints    = 4
	companyPoints   = 3
	skillPoints     = 2
	manySkillPoints = 1
	maxPoints       = 10

	skillOverlapMin     = 2
	manySkillOverlapMin = 5
)

// Result is the outcome of comparing two participants.
type Result struct {
	Score         float64
	Commonalities domain.Commonalities
}

// Compare scores the background overlap of a and b. Missing backgrounds are
// treated as empty. The score is symmetric in its arguments; the overlap
// lists follow a's ordering.
func Compare(a, b domain.Participant) Result {
	bgA := backgroundOf(a)
	bgB := backgroundOf(b)

	schools := intersect(bgA.Schools, bgB.Schools)
	companies := intersect(bgA.Companies, bgB.Companies)
	skills := intersect(bgA.Skills, bgB.Skills)

	points := 0
	if len(schools) > 0 {
		points += schoolPoints
	}
	if len(companies) > 0 {
		points += companyPoints
	}
	if len(skills) > skillOverlapMin {
		points += skillPoints
	}
	if len(skills) > manySkillOverlapMin {
		points += manySkillPoints
	}
	if points > maxPoints {
		points = maxPoints
	}

	return Result{
		Score: float64(points) / maxPoints,
		Commonalities: domain.Commonalities{
			Schools:   schools,
			Companies: companies,
			Skills:    skills,
		},
	}
}

// FindSimilar compares user against every other participant and returns the
// matches scoring above threshold, highest first. Participants sharing the
// user's id are skipped.
func FindSimilar(user domain.Participant, participants []domain.Participant, threshold float64) []domain.SimilarityMatch {
	matches := []domain.SimilarityMatch{}

	for _, p := range participants {
		if p.ID == user.ID {
			continue
		}

		result := Compare(user, p)
		if result.Score <= threshold {
			continue
		}

		matches = append(matches, domain.SimilarityMatch{
			Participant1:     user.ID,
			Participant2:     p.ID,
			Participant1Name: user.Name,
			Participant2Name: p.Name,
			SimilarityScore:  result.Score,
			Commonalities:    result.Commonalities,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	return matches
}

func backgroundOf(p domain.Participant) domain.Background {
	if p.Background == nil {
		return domain.Background{}
	}
	return *p.Background
}

// intersect returns the distinct values of a that also appear in b.
func intersect(a, b []string) []string {
	out := []string{}
	if len(a) == 0 || len(b) == 0 {
		return out
	}

	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}

	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

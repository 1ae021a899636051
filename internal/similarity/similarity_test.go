package similarity

import (
	"testing"

	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participant(id string, bg *domain.Background) domain.Participant {
	return domain.Participant{ID: id, Name: id, Background: bg}
}

func TestCompare_FullOverlapIsExactlyOne(t *testing.T) {
	skills := []string{"go", "rust", "k8s", "sql", "grpc", "react"}
	a := participant("ann", &domain.Background{Schools: []string{"MIT"}, Companies: []string{"Acme"}, Skills: skills})
	b := participant("bo", &domain.Background{Schools: []string{"MIT"}, Companies: []string{"Acme"}, Skills: skills})

	result := Compare(a, b)

	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, []string{"MIT"}, result.Commonalities.Schools)
	assert.Equal(t, []string{"Acme"}, result.Commonalities.Companies)
	assert.Len(t, result.Commonalities.Skills, 6)
}

func TestCompare_SingleSkillScoresZero(t *testing.T) {
	a := participant("ann", &domain.Background{Schools: []string{"MIT"}, Skills: []string{"go", "rust"}})
	b := participant("bo", &domain.Background{Schools: []string{"CMU"}, Skills: []string{"go"}})

	result := Compare(a, b)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, []string{"go"}, result.Commonalities.Skills)
	assert.Empty(t, result.Commonalities.Schools)
}

func TestCompare_Weights(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Background
		want float64
	}{
		{
			name: "school only",
			a:    domain.Background{Schools: []string{"MIT"}},
			b:    domain.Background{Schools: []string{"MIT"}},
			want: 0.4,
		},
		{
			name: "company only",
			a:    domain.Background{Companies: []string{"Acme"}},
			b:    domain.Background{Companies: []string{"Acme"}},
			want: 0.3,
		},
		{
			name: "three skills",
			a:    domain.Background{Skills: []string{"a", "b", "c"}},
			b:    domain.Background{Skills: []string{"c", "b", "a"}},
			want: 0.2,
		},
		{
			name: "two skills is not enough",
			a:    domain.Background{Skills: []string{"a", "b"}},
			b:    domain.Background{Skills: []string{"a", "b"}},
			want: 0.0,
		},
		{
			name: "six skills and a company",
			a:    domain.Background{Companies: []string{"Acme"}, Skills: []string{"a", "b", "c", "d", "e", "f"}},
			b:    domain.Background{Companies: []string{"Acme"}, Skills: []string{"a", "b", "c", "d", "e", "f"}},
			want: 0.6,
		},
		{
			name: "duplicates count once",
			a:    domain.Background{Skills: []string{"a", "a", "a"}},
			b:    domain.Background{Skills: []string{"a"}},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a, tt.b
			got := Compare(participant("x", &a), participant("y", &b))
			assert.InDelta(t, tt.want, got.Score, 1e-9)
		})
	}
}

func TestCompare_Symmetric(t *testing.T) {
	a := participant("ann", &domain.Background{
		Schools:   []string{"MIT", "Stanford"},
		Companies: []string{"Acme", "Globex"},
		Skills:    []string{"go", "rust", "sql", "k8s"},
	})
	b := participant("bo", &domain.Background{
		Schools:   []string{"Stanford"},
		Companies: []string{"Initech"},
		Skills:    []string{"sql", "go", "k8s", "go"},
	})

	ab := Compare(a, b)
	ba := Compare(b, a)

	assert.Equal(t, ab.Score, ba.Score)
	assert.ElementsMatch(t, ab.Commonalities.Skills, ba.Commonalities.Skills)
	assert.ElementsMatch(t, ab.Commonalities.Schools, ba.Commonalities.Schools)
}

func TestCompare_MissingBackground(t *testing.T) {
	a := participant("ann", nil)
	b := participant("bo", &domain.Background{Schools: []string{"MIT"}})

	result := Compare(a, b)

	assert.Equal(t, 0.0, result.Score)
	assert.NotNil(t, result.Commonalities.Schools)
}

func TestFindSimilar_SkipsSelfAndSortsDescending(t *testing.T) {
	user := participant("me", &domain.Background{
		Schools:   []string{"MIT"},
		Companies: []string{"Acme"},
		Skills:    []string{"go", "rust", "sql"},
	})
	participants := []domain.Participant{
		user,
		participant("school", &domain.Background{Schools: []string{"MIT"}}),
		participant("company", &domain.Background{Companies: []string{"Acme"}}),
		participant("all", &domain.Background{Schools: []string{"MIT"}, Companies: []string{"Acme"}, Skills: []string{"go", "rust", "sql"}}),
		participant("none", nil),
	}

	matches := FindSimilar(user, participants, DefaultThreshold)

	require.Len(t, matches, 2)
	assert.Equal(t, "all", matches[0].Participant2)
	assert.InDelta(t, 0.9, matches[0].SimilarityScore, 1e-9)
	assert.Equal(t, "school", matches[1].Participant2)
	for _, m := range matches {
		assert.Equal(t, "me", m.Participant1)
		assert.NotEqual(t, m.Participant1, m.Participant2)
	}
}

func TestFindSimilar_NoMatches(t *testing.T) {
	user := participant("me", nil)

	matches := FindSimilar(user, []domain.Participant{participant("bo", nil)}, DefaultThreshold)

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/hackscout/internal/domain"
)

const (
	rankingSkillLimit = 10
	aboutLimit        = 200
	postHighlights    = 5
)

const rankingPrompt = `Analyze these hackathon participants and rank them by job prestige, industry influence, and career achievements.

Participants:
%s
Return a JSON object with a "rankings" array of participant names ranked from most prestigious/influential to least, with a brief reasoning for each top 10. Format:
{
  "rankings": [
    {"name": "Name", "reasoning": "Why they're influential", "score": 0.95}
  ]
}`

const talkingPointsPrompt = `You're at a hackathon and want to network with this person. Generate 5 SHORT, punchy conversation openers that will actually work in a loud, busy hackathon environment.

THEIR INFO:
- Name: %s
- Role: %s
- Company: %s
- Bio: %s

RULES:
1. Each opener should be 1-2 sentences MAX
2. Be casual and genuine, NOT corporate or cringe
3. Reference something specific about them (company, role, or background)
4. Include a question to get them talking
5. Avoid generic compliments like "I love your work"

EXAMPLES OF GOOD OPENERS:
- "Hey! I saw you're at %s - what's the tech stack like there?"
- "Quick question - as someone in %s, what's the biggest problem you'd want to solve this weekend?"

Return as JSON: {"talkingPoints": ["opener 1", "opener 2", ...]}`

const teamsPrompt = `Analyze these hackathon participants and suggest %d-person teams with complementary skills:

Participants:
%s
Suggest 3-5 teams with:
- Complementary technical skills
- Diverse backgrounds
- Good collaboration potential

Return JSON format:
{
  "teams": [
    {
      "participants": ["Name1", "Name2", ...],
      "reasoning": "Why this team works well",
      "complementarySkills": ["skill1", "skill2", ...]
    }
  ]
}`

const postPrompt = `Generate a professional LinkedIn post about attending %s.

Notable participants (mention subtly, not by name unless very appropriate):
%s
%s
Make it:
- Professional and engaging
- Highlight networking opportunities
- Mention the quality of participants
- Include relevant hashtags
- 2-3 paragraphs, LinkedIn-appropriate length`

func buildRankingPrompt(participants []domain.Participant) string {
	var sb strings.Builder
	for i, p := range participants {
		prof := profileOrEmpty(p)

		company := orDefault(prof.Company, p.Company, "Unknown")
		education := make([]string, 0, len(prof.Education))
		for _, e := range prof.Education {
			education = append(education, fmt.Sprintf("%s at %s", e.Degree, e.School))
		}
		skills := prof.Skills
		if len(skills) > rankingSkillLimit {
			skills = skills[:rankingSkillLimit]
		}

		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, p.Name)
		fmt.Fprintf(&sb, "   - Position: %s\n", orDefault(prof.CurrentPosition, "Unknown"))
		fmt.Fprintf(&sb, "   - Company: %s\n", company)
		fmt.Fprintf(&sb, "   - Education: %s\n", joinOr(education, "Unknown"))
		fmt.Fprintf(&sb, "   - Experience: %d positions\n", len(prof.Experience))
		fmt.Fprintf(&sb, "   - Skills: %s\n", joinOr(skills, "None"))
	}
	return fmt.Sprintf(rankingPrompt, sb.String())
}

func buildTalkingPointsPrompt(p domain.Participant) string {
	prof := profileOrEmpty(p)

	bio := prof.About
	if runes := []rune(bio); len(runes) > aboutLimit {
		bio = string(runes[:aboutLimit])
	}

	return fmt.Sprintf(talkingPointsPrompt,
		p.Name,
		orDefault(prof.CurrentPosition, "Unknown"),
		orDefault(prof.Company, "Unknown"),
		orDefault(bio, prof.Headline, "None"),
		orDefault(prof.Company, "a cool company"),
		orDefault(prof.CurrentPosition, "your field"),
	)
}

func buildTeamsPrompt(participants []domain.Participant, teamSize int) string {
	var sb strings.Builder
	for i, p := range participants {
		prof := profileOrEmpty(p)

		titles := make([]string, 0, len(prof.Experience))
		for _, e := range prof.Experience {
			titles = append(titles, e.Title)
		}
		education := make([]string, 0, len(prof.Education))
		for _, e := range prof.Education {
			education = append(education, orDefault(e.Field, e.Degree))
		}

		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, p.Name)
		fmt.Fprintf(&sb, "   - Skills: %s\n", joinOr(prof.Skills, "Unknown"))
		fmt.Fprintf(&sb, "   - Experience: %s\n", joinOr(titles, "None"))
		fmt.Fprintf(&sb, "   - Education: %s\n", joinOr(education, "None"))
	}
	return fmt.Sprintf(teamsPrompt, teamSize, sb.String())
}

func buildPostPrompt(eventName string, top []domain.Participant, userExperience string) string {
	if len(top) > postHighlights {
		top = top[:postHighlights]
	}

	var sb strings.Builder
	for _, p := range top {
		prof := profileOrEmpty(p)
		fmt.Fprintf(&sb, "- %s at %s\n", orDefault(prof.CurrentPosition, "Participant"), orDefault(prof.Company, p.Company, "a notable company"))
	}

	experience := ""
	if strings.TrimSpace(userExperience) != "" {
		experience = "User's experience: " + strings.TrimSpace(userExperience) + "\n"
	}

	return fmt.Sprintf(postPrompt, eventName, sb.String(), experience)
}

func profileOrEmpty(p domain.Participant) domain.Profile {
	if p.Profile == nil {
		return domain.Profile{}
	}
	return *p.Profile
}

func orDefault(values ...string) string {
	for _, v := range values[:len(values)-1] {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return values[len(values)-1]
}

func joinOr(values []string, fallback string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}

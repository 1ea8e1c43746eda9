package matching

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxRecommendations = 10

	commonSkillWeight        = 2.0
	complementarySkillWeight = 3.0
	teamSizeWeight           = 5.0

	MessageNoSkills = "Add skills to your profile to get better team recommendations"
)

type Member struct {
	UserID uuid.UUID
	Skills []string
}

type Team struct {
	ID          uuid.UUID
	MaxTeamSize int
	Members     []Member
}

type ScoredTeam struct {
	TeamID              uuid.UUID
	MatchScore          float64
	CommonSkills        []string
	ComplementarySkills []string
	TeamSkills          []string
}

type Result struct {
	Message    string
	UserSkills []string
	Teams      []ScoredTeam
}

// Recommend ranks candidate teams for a user. Eligibility (open registration,
// requester not a member) is expected to be applied by the caller.
func Recommend(userSkills []string, teams []Team) Result {
	if len(userSkills) == 0 {
		return Result{
			Message:    MessageNoSkills,
			UserSkills: []string{},
			Teams:      []ScoredTeam{},
		}
	}

	scored := make([]ScoredTeam, 0, len(teams))
	for _, t := range teams {
		if !hasOpenSlot(t) {
			continue
		}
		scored = append(scored, Score(userSkills, t))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchScore != scored[j].MatchScore {
			return scored[i].MatchScore > scored[j].MatchScore
		}
		return bytes.Compare(scored[i].TeamID[:], scored[j].TeamID[:]) < 0
	})

	if len(scored) > MaxRecommendations {
		scored = scored[:MaxRecommendations]
	}

	return Result{
		Message:    fmt.Sprintf("Found %d recommended teams based on your skills", len(scored)),
		UserSkills: userSkills,
		Teams:      scored,
	}
}

// Score computes the match features of a single team without applying the
// capacity filter.
func Score(userSkills []string, t Team) ScoredTeam {
	teamSkills := UnionSkills(t.Members)

	lowered := make([]string, len(teamSkills))
	for i, s := range teamSkills {
		lowered[i] = strings.ToLower(s)
	}

	common := make([]string, 0, len(userSkills))
	complementary := make([]string, 0, len(userSkills))
	for _, us := range userSkills {
		if overlaps(strings.ToLower(us), lowered) {
			common = append(common, us)
		} else {
			complementary = append(complementary, us)
		}
	}

	score := commonSkillWeight*float64(len(common)) +
		complementarySkillWeight*float64(len(complementary)) +
		teamSizeWeight*TeamSizeScore(len(t.Members), t.MaxTeamSize)

	return ScoredTeam{
		TeamID:              t.ID,
		MatchScore:          score,
		CommonSkills:        common,
		ComplementarySkills: complementary,
		TeamSkills:          teamSkills,
	}
}

func TeamSizeScore(memberCount, maxTeamSize int) float64 {
	if maxTeamSize <= 0 {
		return 0
	}
	return float64(maxTeamSize-memberCount) / float64(maxTeamSize)
}

// UnionSkills returns the member skills deduplicated by exact value, in first
// seen order. Nil skill lists contribute nothing.
func UnionSkills(members []Member) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, m := range members {
		for _, s := range m.Skills {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func overlaps(userSkill string, teamSkills []string) bool {
	for _, ts := range teamSkills {
		if strings.Contains(ts, userSkill) || strings.Contains(userSkill, ts) {
			return true
		}
	}
	return false
}

func hasOpenSlot(t Team) bool {
	if t.MaxTeamSize <= 0 {
		return false
	}
	return len(t.Members) < t.MaxTeamSize
}

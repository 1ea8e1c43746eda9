package dto

import ucmatchmaking "hackmap/internal/usecase/matchmaking"

type RecommendedTeamResponse struct {
	TeamResponse
	MatchScore          float64  `json:"matchScore"`
	CommonSkills        []string `json:"commonSkills"`
	ComplementarySkills []string `json:"complementarySkills"`
	TeamSkills          []string `json:"teamSkills"`
}

type MatchmakingResponse struct {
	Message    string                    `json:"message"`
	UserSkills []string                  `json:"userSkills"`
	Teams      []RecommendedTeamResponse `json:"teams"`
}

func NewMatchmakingResponse(r ucmatchmaking.Result) MatchmakingResponse {
	teams := make([]RecommendedTeamResponse, 0, len(r.Teams))
	for _, t := range r.Teams {
		teams = append(teams, RecommendedTeamResponse{
			TeamResponse:        newRecommendedTeam(t),
			MatchScore:          t.MatchScore,
			CommonSkills:        orEmpty(t.CommonSkills),
			ComplementarySkills: orEmpty(t.ComplementarySkills),
			TeamSkills:          orEmpty(t.TeamSkills),
		})
	}
	return MatchmakingResponse{
		Message:    r.Message,
		UserSkills: orEmpty(r.UserSkills),
		Teams:      teams,
	}
}

// Recommendations go to users outside the team, so member contact details
// stay hidden.
func newRecommendedTeam(r ucmatchmaking.Recommendation) TeamResponse {
	out := NewPublicTeamResponse(r.Team)
	for i := range out.Members {
		out.Members[i].User.Email = ""
	}
	return out
}

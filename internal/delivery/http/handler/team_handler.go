package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"hackmap/internal/delivery/http/dto"
	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/response"
	"hackmap/internal/repository"
	ucmatchmaking "hackmap/internal/usecase/matchmaking"
	ucteam "hackmap/internal/usecase/team"
)

const msgTeamNotFound = "Team not found"

type TeamHandler struct {
	teams       ucteam.Usecase
	matchmaking ucmatchmaking.Usecase
}

func NewTeamHandler(teams ucteam.Usecase, matchmaking ucmatchmaking.Usecase) *TeamHandler {
	return &TeamHandler{teams: teams, matchmaking: matchmaking}
}

// RegisterRoutes mounts every team route on an authenticated router. Static
// paths go first so they are not captured by /:id.
func (h *TeamHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/my-teams", h.MyTeams)
	r.Get("/invite-info", h.InviteInfo)
	r.Get("/matchmaking", h.Matchmaking)
	r.Post("/join", h.Join)
	r.Post("/:id/invite", h.Invite)
	r.Post("/:id/join-request", h.RequestToJoin)
}

func (h *TeamHandler) List(c fiber.Ctx) error {
	f := repository.TeamFilter{Search: c.Query("search")}
	if raw := c.Query("hackathonId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid hackathonId", nil, err)
		}
		f.HackathonID = id
	}

	teams, err := h.teams.List(c.Context(), f)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTeamResponses(teams))
}

func (h *TeamHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateTeamRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	t, err := h.teams.Create(c.Context(), userID, ucteam.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		HackathonID: req.HackathonID,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Team created successfully", dto.NewTeamResponse(t))
}

func (h *TeamHandler) MyTeams(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	teams, err := h.teams.MyTeams(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMyTeamResponses(teams))
}

func (h *TeamHandler) InviteInfo(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	t, err := h.teams.InviteInfo(c.Context(), userID, c.Query("code"))
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPublicTeamResponse(t))
}

func (h *TeamHandler) Matchmaking(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	res, err := h.matchmaking.Recommend(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, res.Message, dto.NewMatchmakingResponse(res))
}

func (h *TeamHandler) Join(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.JoinTeamRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.teams.Join(c.Context(), userID, req.InviteCode)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Joined team successfully", dto.JoinTeamResponse{
		TeamMemberResponse: dto.NewTeamMemberResponse(res.Member),
		Team:               dto.NewTeamResponse(res.Team),
	})
}

func (h *TeamHandler) Invite(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	teamID, err := paramUUID(c, "id", msgTeamNotFound)
	if err != nil {
		return err
	}

	var req dto.InviteRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.teams.Invite(c.Context(), userID, teamID, req.Email); err != nil {
		return err
	}
	const msg = "Invitation sent successfully"
	return response.Success(c, fiber.StatusOK, msg, dto.SuccessResponse{Success: true, Message: msg})
}

func (h *TeamHandler) RequestToJoin(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	teamID, err := paramUUID(c, "id", msgTeamNotFound)
	if err != nil {
		return err
	}

	n, err := h.teams.RequestToJoin(c.Context(), userID, teamID)
	if err != nil {
		return err
	}
	const msg = "Join request sent successfully"
	return response.Success(c, fiber.StatusCreated, msg, dto.JoinRequestResponse{
		Success:      true,
		Message:      msg,
		Notification: dto.NewNotificationResponse(n),
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/stride-league-api/internal/dto"
	apierrors "github.com/yukikurage/stride-league-api/internal/errors"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/services"
)

// MatchmakingHandler serves waiting room, league and team endpoints.
type MatchmakingHandler struct {
	matchmakingService *services.MatchmakingService
}

// NewMatchmakingHandler creates a new MatchmakingHandler.
func NewMatchmakingHandler(matchmakingService *services.MatchmakingService) *MatchmakingHandler {
	return &MatchmakingHandler{
		matchmakingService: matchmakingService,
	}
}

// CreateWaitingRoom opens a waiting room for the user.
func (h *MatchmakingHandler) CreateWaitingRoom(c *gin.Context) {
	type CreateWaitingRoomRequest struct {
		UserID *uint64 `json:"userId"`
	}

	var req CreateWaitingRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("userId", req.UserID)
	if errs.respond(c) {
		return
	}

	entry, err := h.matchmakingService.CreateWaitingRoom(c.Request.Context(), *req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WaitingRoomResponse{
		Message:       "Waiting room created successfully",
		WaitingRoomID: entry.WaitingRoomID,
		CreatedAt:     entry.CreatedAt,
	})
}

// JoinWaitingRoom adds the user to an existing waiting room.
func (h *MatchmakingHandler) JoinWaitingRoom(c *gin.Context) {
	type JoinWaitingRoomRequest struct {
		UserID        *uint64 `json:"userId"`
		WaitingRoomID *uint64 `json:"waitingRoomId"`
	}

	var req JoinWaitingRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("userId", req.UserID)
	errs.requireID("waitingRoomId", req.WaitingRoomID)
	if errs.respond(c) {
		return
	}

	entry, err := h.matchmakingService.JoinWaitingRoom(c.Request.Context(), *req.UserID, *req.WaitingRoomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WaitingRoomResponse{
		Message:       "Successfully joined waiting room",
		WaitingRoomID: entry.WaitingRoomID,
		CreatedAt:     entry.CreatedAt,
	})
}

// GetWaitingRoomID returns the user's current or most recent waiting room.
func (h *MatchmakingHandler) GetWaitingRoomID(c *gin.Context) {
	type GetWaitingRoomIDRequest struct {
		UserID *uint64 `json:"userId"`
	}

	var req GetWaitingRoomIDRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("userId", req.UserID)
	if errs.respond(c) {
		return
	}

	id, err := h.matchmakingService.GetWaitingRoomID(c.Request.Context(), *req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"waiting_room_id": id})
}

// GetWaitingRoomUsers lists the users in a waiting room.
func (h *MatchmakingHandler) GetWaitingRoomUsers(c *gin.Context) {
	type GetWaitingRoomUsersRequest struct {
		WaitingRoomID *uint64 `json:"waiting_room_id"`
	}

	var req GetWaitingRoomUsersRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("waiting_room_id", req.WaitingRoomID)
	if errs.respond(c) {
		return
	}

	users, err := h.matchmakingService.GetWaitingRoomUsers(c.Request.Context(), *req.WaitingRoomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := make([]dto.UserDTO, len(users))
	for i, u := range users {
		result[i] = dto.ToMemberDTO(u)
	}
	c.JSON(http.StatusOK, result)
}

// CreateLeagueRoom forms a league from the user's waiting room.
func (h *MatchmakingHandler) CreateLeagueRoom(c *gin.Context) {
	type CreateLeagueRoomRequest struct {
		UserID         *uint64 `json:"user_id"`
		LeagueRoomName string  `json:"league_room_name"`
	}

	var req CreateLeagueRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("user_id", req.UserID)
	if errs.respond(c) {
		return
	}

	formation, err := h.matchmakingService.FormLeague(c.Request.Context(), services.FormLeagueInput{
		UserID: *req.UserID,
		Name:   req.LeagueRoomName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.LeagueFormationResponse{
		LeagueRoomID:   formation.League.ID,
		LeagueRoomName: formation.League.Name,
		TeamCount:      len(formation.Teams),
		Teams:          dto.ToTeamDTOs(formation.Teams),
	})
}

// CreateTeam creates a team in a league.
func (h *MatchmakingHandler) CreateTeam(c *gin.Context) {
	type CreateTeamRequest struct {
		UserIDs      []uint64 `json:"user_ids"`
		LeagueRoomID *uint64  `json:"league_room_id"`
	}

	var req CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	if len(req.UserIDs) == 0 {
		errs.add("user_ids must be a non-empty array of numbers")
	}
	errs.requireID("league_room_id", req.LeagueRoomID)
	if errs.respond(c) {
		return
	}

	team, err := h.matchmakingService.CreateTeam(c.Request.Context(), services.CreateTeamInput{
		UserIDs:      req.UserIDs,
		LeagueRoomID: *req.LeagueRoomID,
	})
	if err != nil {
		if errors.Is(err, services.ErrLeagueNotFound) {
			apierrors.BadRequest(c, "Invalid league_room_id. League room not found.")
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// EndLeagueRoom ends a league and closes its memberships.
func (h *MatchmakingHandler) EndLeagueRoom(c *gin.Context) {
	type EndLeagueRoomRequest struct {
		LeagueRoomID *uint64 `json:"league_room_id"`
	}

	var req EndLeagueRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("league_room_id", req.LeagueRoomID)
	if errs.respond(c) {
		return
	}

	result, err := h.matchmakingService.EndLeague(c.Request.Context(), *req.LeagueRoomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.AlreadyEnded {
		c.JSON(http.StatusOK, gin.H{
			"message":        "League room has already ended",
			"league_room_id": result.League.ID,
			"ended_at":       result.League.EndedAt,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "League room ended successfully",
		"league_room_id":     result.League.ID,
		"ended_at":           result.League.EndedAt,
		"memberships_closed": result.MembershipsClosed,
	})
}

// GetActiveLeagueRoomID returns the league the user is currently playing in.
func (h *MatchmakingHandler) GetActiveLeagueRoomID(c *gin.Context) {
	type GetActiveLeagueRoomIDRequest struct {
		UserID *uint64 `json:"user_id"`
	}

	var req GetActiveLeagueRoomIDRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("user_id", req.UserID)
	if errs.respond(c) {
		return
	}

	entry, err := h.matchmakingService.GetActiveLeague(c.Request.Context(), *req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toActiveLeagueResponse(entry))
}

func toActiveLeagueResponse(entry *models.WaitingRoomEntry) dto.ActiveLeagueResponse {
	if entry == nil || entry.LeagueRoomID == nil {
		return dto.ActiveLeagueResponse{}
	}
	resp := dto.ActiveLeagueResponse{
		LeagueRoomID:  entry.LeagueRoomID,
		WaitingRoomID: &entry.WaitingRoomID,
	}
	if entry.LeagueRoom != nil {
		resp.CreatedAt = &entry.LeagueRoom.CreatedAt
	}
	return resp
}

// GetLeagueTeams lists the teams of a league.
func (h *MatchmakingHandler) GetLeagueTeams(c *gin.Context) {
	type GetLeagueTeamsRequest struct {
		LeagueRoomID *uint64 `json:"league_room_id"`
	}

	var req GetLeagueTeamsRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("league_room_id", req.LeagueRoomID)
	if errs.respond(c) {
		return
	}

	result, err := h.matchmakingService.GetLeagueTeams(c.Request.Context(), *req.LeagueRoomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LeagueTeamsResponse{
		Teams:   dto.ToTeamDTOs(result.Teams),
		OwnerID: result.OwnerID,
	})
}

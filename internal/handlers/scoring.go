package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/stride-league-api/internal/dto"
	"github.com/yukikurage/stride-league-api/internal/services"
)

// ScoringHandler serves points and streak endpoints.
type ScoringHandler struct {
	scoringService *services.ScoringService
	streakService  *services.StreakService
}

// NewScoringHandler creates a new ScoringHandler.
func NewScoringHandler(scoringService *services.ScoringService, streakService *services.StreakService) *ScoringHandler {
	return &ScoringHandler{
		scoringService: scoringService,
		streakService:  streakService,
	}
}

// GetTeamPoints returns the standings of a league.
func (h *ScoringHandler) GetTeamPoints(c *gin.Context) {
	type GetTeamPointsRequest struct {
		LeagueRoomID *uint64 `json:"league_room_id"`
	}

	var req GetTeamPointsRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("league_room_id", req.LeagueRoomID)
	if errs.respond(c) {
		return
	}

	points, err := h.scoringService.LeaguePoints(c.Request.Context(), *req.LeagueRoomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

// UpdateTeamStreak records today's completion for a team.
func (h *ScoringHandler) UpdateTeamStreak(c *gin.Context) {
	type UpdateTeamStreakRequest struct {
		TeamID *uint64 `json:"team_id"`
	}

	var req UpdateTeamStreakRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("team_id", req.TeamID)
	if errs.respond(c) {
		return
	}

	update, err := h.streakService.RecordCompletion(c.Request.Context(), *req.TeamID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStreakUpdateResponse(*update))
}

// ResetStreak runs the streak sweep.
func (h *ScoringHandler) ResetStreak(c *gin.Context) {
	updated, err := h.streakService.Sweep(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Streaks reset successfully",
		"teamsUpdated": updated,
	})
}

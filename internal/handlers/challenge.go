package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/services"
)

// ChallengeHandler serves the challenge catalog and assignment endpoints.
type ChallengeHandler struct {
	challengeService  *services.ChallengeService
	assignmentService *services.AssignmentService
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challengeService *services.ChallengeService, assignmentService *services.AssignmentService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService:  challengeService,
		assignmentService: assignmentService,
	}
}

// AddChallenge inserts a hand-written challenge.
func (h *ChallengeHandler) AddChallenge(c *gin.Context) {
	type AddChallengeRequest struct {
		Title         string     `json:"title"`
		StartTime     *time.Time `json:"start_time"`
		Duration      *int       `json:"duration"`
		EarningPoints *int       `json:"earning_points"`
		Difficulty    *string    `json:"difficulty"`
		Length        *float64   `json:"length"`
	}

	var req AddChallengeRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	if req.StartTime == nil {
		errs.add("start_time is required and must be an RFC 3339 timestamp")
	}
	if req.Duration == nil || *req.Duration <= 0 {
		errs.add("duration is required and must be a positive number of minutes")
	}
	if req.EarningPoints == nil || *req.EarningPoints < 0 {
		errs.add("earning_points is required and must be a non-negative integer")
	}
	if req.Difficulty == nil || !models.Difficulty(*req.Difficulty).Valid() {
		errs.add("difficulty is required and must be one of easy, medium, hard")
	}
	if req.Length == nil || *req.Length <= 0 {
		errs.add("length is required and must be a positive number of kilometres")
	}
	if errs.respond(c) {
		return
	}

	challenge, err := h.challengeService.AddChallenge(c.Request.Context(), services.AddChallengeInput{
		Title:         req.Title,
		StartTime:     *req.StartTime,
		Duration:      *req.Duration,
		EarningPoints: *req.EarningPoints,
		Difficulty:    models.Difficulty(*req.Difficulty),
		Length:        *req.Length,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": challenge})
}

// CreateDailyChallenges generates the daily challenge mix.
func (h *ChallengeHandler) CreateDailyChallenges(c *gin.Context) {
	challenges, err := h.challengeService.CreateDailyChallenges(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": challenges})
}

// AssignChallengeToTeam assigns a challenge to the user's active team.
func (h *ChallengeHandler) AssignChallengeToTeam(c *gin.Context) {
	type AssignChallengeRequest struct {
		UserID      *uint64 `json:"user_id"`
		ChallengeID *uint64 `json:"challenge_id"`
	}

	var req AssignChallengeRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("user_id", req.UserID)
	errs.requireID("challenge_id", req.ChallengeID)
	if errs.respond(c) {
		return
	}

	tc, err := h.assignmentService.AssignToUserTeam(c.Request.Context(), *req.UserID, *req.ChallengeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Challenge assigned to team successfully",
		"team_challenge_id": tc.ID,
	})
}

// CreateTeamChallenge assigns a challenge to a team by ID.
func (h *ChallengeHandler) CreateTeamChallenge(c *gin.Context) {
	type CreateTeamChallengeRequest struct {
		TeamID      *uint64 `json:"team_id"`
		ChallengeID *uint64 `json:"challenge_id"`
	}

	var req CreateTeamChallengeRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("team_id", req.TeamID)
	errs.requireID("challenge_id", req.ChallengeID)
	if errs.respond(c) {
		return
	}

	tc, err := h.assignmentService.AssignToTeam(c.Request.Context(), *req.TeamID, *req.ChallengeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": tc})
}

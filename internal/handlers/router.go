package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/stride-league-api/internal/errors"
	"github.com/yukikurage/stride-league-api/internal/middleware"
)

// Handlers bundles every endpoint group.
type Handlers struct {
	Auth         *AuthHandler
	Matchmaking  *MatchmakingHandler
	Challenge    *ChallengeHandler
	Contribution *ContributionHandler
	Scoring      *ScoringHandler
}

// RegisterRoutes mounts all endpoints under /api/v1 as POST routes and answers other
// methods on known paths with 405.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		apierrors.MethodNotAllowed(c)
	})
	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Endpoint not found")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/user_signup", h.Auth.Signup)
		api.POST("/user_login", h.Auth.Login)
		api.POST("/user_logout", h.Auth.Logout)
		api.POST("/current_user", middleware.RequireAuth(), h.Auth.GetCurrentUser)

		api.POST("/create_waiting_room", h.Matchmaking.CreateWaitingRoom)
		api.POST("/join_waiting_room", h.Matchmaking.JoinWaitingRoom)
		api.POST("/get_waiting_room_id", h.Matchmaking.GetWaitingRoomID)
		api.POST("/get_waiting_room_users", h.Matchmaking.GetWaitingRoomUsers)
		api.POST("/create_league_room", h.Matchmaking.CreateLeagueRoom)
		api.POST("/create_team", h.Matchmaking.CreateTeam)
		api.POST("/end_league_room", h.Matchmaking.EndLeagueRoom)
		api.POST("/get_active_league_room_id", h.Matchmaking.GetActiveLeagueRoomID)
		api.POST("/get_league_teams", h.Matchmaking.GetLeagueTeams)

		api.POST("/add_challenge", h.Challenge.AddChallenge)
		api.POST("/create_daily_challenges", h.Challenge.CreateDailyChallenges)
		api.POST("/assign_challenge_to_team", h.Challenge.AssignChallengeToTeam)
		api.POST("/create_team_challenge", h.Challenge.CreateTeamChallenge)

		api.POST("/create_user_contribution", h.Contribution.CreateUserContribution)
		api.POST("/complete_team_challenge", h.Contribution.CompleteTeamChallenge)
		api.POST("/get_contribution_route", h.Contribution.GetContributionRoute)

		api.POST("/get_team_points", h.Scoring.GetTeamPoints)
		api.POST("/update_team_streak", h.Scoring.UpdateTeamStreak)
		api.POST("/reset_streak", h.Scoring.ResetStreak)
	}
}

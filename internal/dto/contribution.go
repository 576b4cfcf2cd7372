package dto

import (
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/services"
)

// ContributionDTO is a recorded contribution plus the team challenge progress after it
type ContributionDTO struct {
	models.UserContribution
	ChallengeCompleted bool    `json:"challenge_completed"`
	NewlyCompleted     bool    `json:"newly_completed"`
	TotalDistanceKm    float64 `json:"total_distance_km"`
	RequiredDistanceKm float64 `json:"required_distance_km"`
	DuoDistanceKm      float64 `json:"duo_distance_km"`
	Multiplier         int     `json:"multiplier"`
}

// CompletionSummaryDTO is returned by complete_team_challenge
type CompletionSummaryDTO struct {
	Message            string                  `json:"message"`
	TeamChallengeID    uint64                  `json:"team_challenge_id"`
	TeamID             uint64                  `json:"team_id"`
	ChallengeCompleted bool                    `json:"challenge_completed"`
	NewlyCompleted     bool                    `json:"newly_completed"`
	TotalDistanceKm    float64                 `json:"total_distance_km"`
	RequiredDistanceKm float64                 `json:"required_distance_km"`
	Multiplier         int                     `json:"multiplier"`
	Contribution       models.UserContribution `json:"contribution"`
	Streak             *StreakChangeDTO        `json:"streak,omitempty"`
}

// ToContributionDTO converts a contribution result to DTO
func ToContributionDTO(result services.ContributionResult) ContributionDTO {
	return ContributionDTO{
		UserContribution:   result.Contribution,
		ChallengeCompleted: result.ChallengeCompleted,
		NewlyCompleted:     result.NewlyCompleted,
		TotalDistanceKm:    result.TotalDistanceKm,
		RequiredDistanceKm: result.RequiredDistanceKm,
		DuoDistanceKm:      result.DuoDistanceKm,
		Multiplier:         result.Multiplier,
	}
}

// ToCompletionSummaryDTO converts a contribution result to the completion summary
func ToCompletionSummaryDTO(result services.ContributionResult) CompletionSummaryDTO {
	message := "Progress recorded"
	switch {
	case result.NewlyCompleted:
		message = "Team challenge completed"
	case result.ChallengeCompleted:
		message = "Team challenge already completed"
	}

	summary := CompletionSummaryDTO{
		Message:            message,
		TeamChallengeID:    result.TeamChallenge.ID,
		TeamID:             result.TeamChallenge.TeamID,
		ChallengeCompleted: result.ChallengeCompleted,
		NewlyCompleted:     result.NewlyCompleted,
		TotalDistanceKm:    result.TotalDistanceKm,
		RequiredDistanceKm: result.RequiredDistanceKm,
		Multiplier:         result.Multiplier,
		Contribution:       result.Contribution,
	}
	if result.Streak != nil {
		change := ToStreakChangeDTO(*result.Streak)
		summary.Streak = &change
	}
	return summary
}

package dto

import (
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/services"
)

// StreakChangeDTO describes one streak transition
type StreakChangeDTO struct {
	PreviousStreak int  `json:"previous_streak"`
	NewStreak      int  `json:"new_streak"`
	DaysDifference int  `json:"days_difference"`
	BonusAwarded   int  `json:"bonus_awarded"`
	Unchanged      bool `json:"unchanged"`
}

// StreakUpdateResponse is returned by update_team_streak
type StreakUpdateResponse struct {
	Message      string          `json:"message"`
	Data         models.Team     `json:"data"`
	StreakChange StreakChangeDTO `json:"streak_change"`
}

// ToStreakChangeDTO converts a streak update to DTO
func ToStreakChangeDTO(update services.StreakUpdate) StreakChangeDTO {
	return StreakChangeDTO{
		PreviousStreak: update.Outcome.Previous.Current,
		NewStreak:      update.Outcome.Next.Current,
		DaysDifference: update.Outcome.DaysDifference,
		BonusAwarded:   update.Outcome.BonusAwarded,
		Unchanged:      update.Outcome.Unchanged,
	}
}

// ToStreakUpdateResponse converts a streak update to the endpoint response
func ToStreakUpdateResponse(update services.StreakUpdate) StreakUpdateResponse {
	message := "Team streak updated"
	if update.Outcome.Unchanged {
		message = "Team already completed a challenge today"
	}
	return StreakUpdateResponse{
		Message:      message,
		Data:         update.Team,
		StreakChange: ToStreakChangeDTO(update),
	}
}

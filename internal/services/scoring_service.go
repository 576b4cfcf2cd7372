package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/stride-league-api/internal/repository"
)

// TeamPoints is one team's score in a league.
type TeamPoints struct {
	TeamID              uint64 `json:"team_id"`
	TeamName            string `json:"team_name"`
	CurrentStreak       int    `json:"current_streak"`
	CompletedChallenges int    `json:"completed_challenges"`
	ChallengePoints     int    `json:"challenge_points"`
	StreakBonus         int    `json:"streak_bonus"`
	TotalPoints         int    `json:"total_points"`
}

// ScoringService computes league standings.
type ScoringService struct {
	store repository.Store
}

// NewScoringService creates a new ScoringService.
func NewScoringService(store repository.Store) *ScoringService {
	return &ScoringService{store: store}
}

// LeaguePoints totals earning_points x multiplier over each team's completed challenges and
// adds its streak bonus. Teams without completions are included with zero challenge points.
func (s *ScoringService) LeaguePoints(ctx context.Context, leagueRoomID uint64) ([]TeamPoints, error) {
	teams, err := s.store.Teams().ListByLeague(ctx, leagueRoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league teams: %w", err)
	}
	tcs, err := s.store.Challenges().ListByLeague(ctx, leagueRoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team challenges: %w", err)
	}

	points := make([]TeamPoints, len(teams))
	index := make(map[uint64]int, len(teams))
	for i, t := range teams {
		index[t.ID] = i
		points[i] = TeamPoints{
			TeamID:        t.ID,
			TeamName:      t.Name,
			CurrentStreak: t.CurrentStreak,
			StreakBonus:   t.StreakBonusPoints,
		}
	}

	for _, tc := range tcs {
		i, ok := index[tc.TeamID]
		if !ok || !tc.IsCompleted {
			continue
		}
		points[i].CompletedChallenges++
		points[i].ChallengePoints += tc.Points()
	}

	for i := range points {
		points[i].TotalPoints = points[i].ChallengePoints + points[i].StreakBonus
	}
	return points, nil
}

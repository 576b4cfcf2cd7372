package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/repository"
	"github.com/yukikurage/stride-league-api/internal/streak"
)

// StreakService advances team streaks on completions and expires them on the daily sweep.
type StreakService struct {
	store  repository.Store
	policy streak.Policy
	now    Clock
}

// NewStreakService creates a new StreakService.
func NewStreakService(store repository.Store, policy streak.Policy, now Clock) *StreakService {
	return &StreakService{
		store:  store,
		policy: policy,
		now:    clockOrDefault(now),
	}
}

// StreakUpdate is the result of recording a completion day for a team.
type StreakUpdate struct {
	Team    models.Team
	Outcome streak.Outcome
}

func stateOf(team *models.Team) streak.State {
	return streak.State{
		Current:            team.CurrentStreak,
		LastCompletionDate: team.LastCompletionDate,
		BonusPoints:        team.StreakBonusPoints,
	}
}

// RecordCompletion applies today's completion to the team's streak.
func (s *StreakService) RecordCompletion(ctx context.Context, teamID uint64) (*StreakUpdate, error) {
	var update *StreakUpdate
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		team, err := tx.Teams().FindByIDForUpdate(ctx, teamID)
		if err != nil {
			if isNotFound(err) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to find team: %w", err)
		}

		outcome := s.policy.Advance(stateOf(team), s.now())
		if !outcome.Unchanged {
			next := outcome.Next
			if err := tx.Teams().UpdateStreak(ctx, team.ID, next.Current, next.LastCompletionDate, next.BonusPoints); err != nil {
				return fmt.Errorf("failed to update team streak: %w", err)
			}
			team.CurrentStreak = next.Current
			team.LastCompletionDate = next.LastCompletionDate
			team.StreakBonusPoints = next.BonusPoints
		}

		update = &StreakUpdate{Team: *team, Outcome: outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !update.Outcome.Unchanged {
		log.Ctx(ctx).Info().
			Uint64("team_id", teamID).
			Int("previous_streak", update.Outcome.Previous.Current).
			Int("new_streak", update.Outcome.Next.Current).
			Int("bonus_awarded", update.Outcome.BonusAwarded).
			Msg("team streak updated")
	}
	return update, nil
}

// Sweep zeroes the streak of every team whose last completion is more than a day old.
func (s *StreakService) Sweep(ctx context.Context) (int, error) {
	teams, err := s.store.Teams().ListWithStreak(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list teams: %w", err)
	}

	today := s.now()
	cutoff := streak.ExpiryCutoff(today)
	updated := 0
	for i := range teams {
		if !streak.Expired(stateOf(&teams[i]), today) {
			continue
		}
		changed, err := s.store.Teams().ResetStreak(ctx, teams[i].ID, cutoff)
		if err != nil {
			return updated, fmt.Errorf("failed to reset streak for team %d: %w", teams[i].ID, err)
		}
		if changed {
			updated++
		}
	}

	log.Ctx(ctx).Info().Int("teams_updated", updated).Msg("streak sweep finished")
	return updated, nil
}

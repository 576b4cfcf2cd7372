package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/stride-league-api/internal/constants"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/repository"
	"github.com/yukikurage/stride-league-api/internal/streak"
)

var (
	ErrChallengeAlreadyAssigned = errors.New("challenge is already assigned to an active team challenge")
	ErrTeamHasActiveChallenge   = errors.New("team already has an active challenge assigned today")
)

// AssignmentService binds challenges to teams.
type AssignmentService struct {
	store repository.Store
	now   Clock
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(store repository.Store, now Clock) *AssignmentService {
	return &AssignmentService{
		store: store,
		now:   clockOrDefault(now),
	}
}

// AssignToUserTeam assigns a challenge to the user's active team.
func (s *AssignmentService) AssignToUserTeam(ctx context.Context, userID, challengeID uint64) (*models.TeamChallenge, error) {
	var tc *models.TeamChallenge
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		ch, err := lockChallenge(ctx, tx, challengeID)
		if err != nil {
			return err
		}
		membership, err := tx.Teams().FindActiveMembership(ctx, userID)
		if err != nil {
			if isNotFound(err) {
				return ErrNoActiveTeam
			}
			return fmt.Errorf("failed to find team membership: %w", err)
		}
		tc, err = s.assign(ctx, tx, membership.TeamID, ch)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Uint64("user_id", userID).
		Uint64("team_id", tc.TeamID).
		Uint64("team_challenge_id", tc.ID).
		Msg("challenge assigned")
	return tc, nil
}

// AssignToTeam assigns a challenge to a team by ID.
func (s *AssignmentService) AssignToTeam(ctx context.Context, teamID, challengeID uint64) (*models.TeamChallenge, error) {
	var tc *models.TeamChallenge
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		ch, err := lockChallenge(ctx, tx, challengeID)
		if err != nil {
			return err
		}
		tc, err = s.assign(ctx, tx, teamID, ch)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint64("team_id", teamID).Uint64("team_challenge_id", tc.ID).Msg("challenge assigned")
	return tc, nil
}

func lockChallenge(ctx context.Context, tx repository.Store, challengeID uint64) (*models.Challenge, error) {
	ch, err := tx.Challenges().FindByIDForUpdate(ctx, challengeID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to find challenge: %w", err)
	}
	return ch, nil
}

// assign runs the conflict checks with the challenge and team rows locked.
func (s *AssignmentService) assign(ctx context.Context, tx repository.Store, teamID uint64, ch *models.Challenge) (*models.TeamChallenge, error) {
	if _, err := tx.Teams().FindByIDForUpdate(ctx, teamID); err != nil {
		if isNotFound(err) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if _, err := tx.Challenges().FindActiveByChallenge(ctx, ch.ID); err == nil {
		return nil, ErrChallengeAlreadyAssigned
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check challenge assignment: %w", err)
	}

	now := s.now()
	today := streak.Day(now)
	if _, err := tx.Challenges().FindActiveForTeamBetween(ctx, teamID, today, today.AddDate(0, 0, 1)); err == nil {
		return nil, ErrTeamHasActiveChallenge
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check team challenges: %w", err)
	}

	tc := &models.TeamChallenge{
		TeamID:      teamID,
		ChallengeID: ch.ID,
		Multiplier:  constants.DefaultMultiplier,
		IsCompleted: false,
		CreatedAt:   now,
	}
	if err := tx.Challenges().CreateTeamChallenge(ctx, tc); err != nil {
		return nil, fmt.Errorf("failed to assign challenge: %w", err)
	}
	tc.Challenge = *ch
	return tc, nil
}

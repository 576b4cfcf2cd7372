package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/stride-league-api/internal/constants"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/repository"
	"gorm.io/datatypes"
)

// ContributionService appends to the distance ledger and settles completion.
type ContributionService struct {
	store   repository.Store
	streaks *StreakService
	now     Clock
}

// NewContributionService creates a new ContributionService.
func NewContributionService(store repository.Store, streaks *StreakService, now Clock) *ContributionService {
	return &ContributionService{
		store:   store,
		streaks: streaks,
		now:     clockOrDefault(now),
	}
}

// ContributionInput is one recorded movement segment.
type ContributionInput struct {
	UserID          uint64
	StartTime       time.Time
	EndTime         *time.Time
	StartLatitude   *float64
	StartLongitude  *float64
	EndLatitude     *float64
	EndLongitude    *float64
	DistanceCovered float64
	Route           []models.RoutePoint
	JourneyType     models.JourneyType
	Details         string
}

// ContributionResult reports the contribution and the challenge progress after it.
type ContributionResult struct {
	Contribution       models.UserContribution
	TeamChallenge      models.TeamChallenge
	ChallengeCompleted bool
	NewlyCompleted     bool
	TotalDistanceKm    float64
	RequiredDistanceKm float64
	DuoDistanceKm      float64
	Multiplier         int
	// Streak is set only when this contribution completed the challenge and the streak
	// update succeeded.
	Streak *StreakUpdate
}

// Record stores a contribution toward the user's team's active challenge.
func (s *ContributionService) Record(ctx context.Context, input ContributionInput) (*ContributionResult, error) {
	journey := input.JourneyType
	if journey == "" {
		journey = models.JourneySolo
	}
	route := input.Route
	if route == nil {
		route = []models.RoutePoint{}
	}
	routeJSON, err := json.Marshal(route)
	if err != nil {
		return nil, fmt.Errorf("failed to encode route: %w", err)
	}

	var result *ContributionResult
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		membership, err := tx.Teams().FindActiveMembership(ctx, input.UserID)
		if err != nil {
			if isNotFound(err) {
				return ErrNoActiveTeam
			}
			return fmt.Errorf("failed to find team membership: %w", err)
		}
		if _, err := tx.Teams().FindByIDForUpdate(ctx, membership.TeamID); err != nil {
			return fmt.Errorf("failed to lock team: %w", err)
		}

		tc, err := tx.Challenges().FindLatestActiveForTeam(ctx, membership.TeamID)
		if err != nil {
			if isNotFound(err) {
				return ErrNoActiveChallenge
			}
			return fmt.Errorf("failed to find active team challenge: %w", err)
		}

		now := s.now()
		endTime := now
		if input.EndTime != nil {
			endTime = input.EndTime.UTC()
		}
		contribution := &models.UserContribution{
			TeamChallengeID:     tc.ID,
			UserID:              input.UserID,
			StartTime:           input.StartTime.UTC(),
			EndTime:             endTime,
			StartLatitude:       input.StartLatitude,
			StartLongitude:      input.StartLongitude,
			EndLatitude:         input.EndLatitude,
			EndLongitude:        input.EndLongitude,
			DistanceCovered:     input.DistanceCovered,
			Route:               datatypes.JSON(routeJSON),
			JourneyType:         journey,
			ContributionDetails: input.Details,
			CreatedAt:           now,
		}
		if err := tx.Contributions().Create(ctx, contribution); err != nil {
			return fmt.Errorf("failed to create contribution: %w", err)
		}

		totals, err := tx.Contributions().SumDistances(ctx, tc.ID)
		if err != nil {
			return fmt.Errorf("failed to sum contributions: %w", err)
		}

		res := &ContributionResult{
			Contribution:       *contribution,
			TotalDistanceKm:    totals.Total / constants.DistanceUnitPerKm,
			DuoDistanceKm:      totals.Duo / constants.DistanceUnitPerKm,
			RequiredDistanceKm: tc.Challenge.Length,
			Multiplier:         tc.Multiplier,
		}

		if res.DuoDistanceKm >= res.RequiredDistanceKm/2 && tc.Multiplier < constants.DuoMultiplier {
			if err := tx.Challenges().SetMultiplier(ctx, tc.ID, constants.DuoMultiplier); err != nil {
				return fmt.Errorf("failed to update multiplier: %w", err)
			}
			tc.Multiplier = constants.DuoMultiplier
			res.Multiplier = constants.DuoMultiplier
		}

		if res.TotalDistanceKm >= res.RequiredDistanceKm {
			newly, err := tx.Challenges().MarkCompleted(ctx, tc.ID, now)
			if err != nil {
				return fmt.Errorf("failed to complete team challenge: %w", err)
			}
			res.ChallengeCompleted = true
			res.NewlyCompleted = newly
			tc.IsCompleted = true
			if newly {
				tc.CompletedAt = &now
			}
		}

		res.TeamChallenge = *tc
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := log.Ctx(ctx)
	logger.Info().
		Uint64("user_contribution_id", result.Contribution.ID).
		Uint64("team_challenge_id", result.TeamChallenge.ID).
		Float64("total_distance_km", result.TotalDistanceKm).
		Bool("newly_completed", result.NewlyCompleted).
		Msg("contribution recorded")

	if result.NewlyCompleted && s.streaks != nil {
		update, err := s.streaks.RecordCompletion(ctx, result.TeamChallenge.TeamID)
		if err != nil {
			logger.Error().Err(err).Uint64("team_id", result.TeamChallenge.TeamID).Msg("failed to update team streak after completion")
		} else {
			result.Streak = update
		}
	}

	return result, nil
}

// Route returns a stored contribution with its route.
func (s *ContributionService) Route(ctx context.Context, contributionID uint64) (*models.UserContribution, []models.RoutePoint, error) {
	contribution, err := s.store.Contributions().FindByID(ctx, contributionID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrContributionMissing
		}
		return nil, nil, fmt.Errorf("failed to find contribution: %w", err)
	}

	var points []models.RoutePoint
	if len(contribution.Route) > 0 {
		if err := json.Unmarshal(contribution.Route, &points); err != nil {
			return nil, nil, fmt.Errorf("failed to decode route: %w", err)
		}
	}
	return contribution, points, nil
}

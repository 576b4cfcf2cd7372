package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/stride-league-api/internal/challenge"
	"github.com/yukikurage/stride-league-api/internal/constants"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/repository"
)

var (
	ErrInvalidDifficulty = errors.New("difficulty must be one of easy, medium, hard")
	ErrInvalidChallenge  = errors.New("duration and length must be positive and earning_points must not be negative")
)

const narratorTimeout = 15 * time.Second

// ChallengeService manages the challenge catalog.
type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	generator     *challenge.Generator
	narrator      ChallengeNarrator
	now           Clock
}

// NewChallengeService creates a new ChallengeService. narrator may be nil.
func NewChallengeService(challengeRepo repository.ChallengeRepository, generator *challenge.Generator, narrator ChallengeNarrator, now Clock) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		generator:     generator,
		narrator:      narrator,
		now:           clockOrDefault(now),
	}
}

// AddChallengeInput represents input for adding a challenge by hand
type AddChallengeInput struct {
	Title         string
	StartTime     time.Time
	Duration      int
	EarningPoints int
	Difficulty    models.Difficulty
	Length        float64
}

// AddChallenge inserts a single challenge.
func (s *ChallengeService) AddChallenge(ctx context.Context, input AddChallengeInput) (*models.Challenge, error) {
	if !input.Difficulty.Valid() {
		return nil, ErrInvalidDifficulty
	}
	if input.Duration <= 0 || input.Length <= 0 || input.EarningPoints < 0 {
		return nil, ErrInvalidChallenge
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = DefaultTitle(input.Difficulty, input.Length)
	}
	c := &models.Challenge{
		Title:         title,
		StartTime:     input.StartTime.UTC(),
		Duration:      input.Duration,
		Length:        input.Length,
		Difficulty:    input.Difficulty,
		EarningPoints: input.EarningPoints,
		CreatedAt:     s.now(),
	}
	if err := s.challengeRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return c, nil
}

// CreateDailyChallenges generates and stores one day's challenge mix.
func (s *ChallengeService) CreateDailyChallenges(ctx context.Context) ([]models.Challenge, error) {
	specs := s.generator.Daily()
	titles := s.titles(ctx, specs)

	now := s.now()
	rows := make([]models.Challenge, len(specs))
	for i, spec := range specs {
		rows[i] = models.Challenge{
			Title:         titles[i],
			StartTime:     now,
			Duration:      constants.DailyChallengeDurationMinutes,
			Length:        float64(spec.Length),
			Difficulty:    spec.Difficulty,
			EarningPoints: spec.EarningPoints,
			CreatedAt:     now,
		}
	}

	if err := s.challengeRepo.CreateBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to create daily challenges: %w", err)
	}

	log.Ctx(ctx).Info().Int("count", len(rows)).Msg("daily challenges created")
	return rows, nil
}

func (s *ChallengeService) titles(ctx context.Context, specs []challenge.Spec) []string {
	titles := make([]string, len(specs))
	for i, spec := range specs {
		titles[i] = DefaultTitle(spec.Difficulty, float64(spec.Length))
	}
	if s.narrator == nil {
		return titles
	}

	nctx, cancel := context.WithTimeout(ctx, narratorTimeout)
	defer cancel()
	named, err := s.narrator.Titles(nctx, specs)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("challenge narrator failed, using default titles")
		return titles
	}
	for i, t := range named {
		if t = strings.TrimSpace(t); t != "" && i < len(titles) {
			titles[i] = t
		}
	}
	return titles
}

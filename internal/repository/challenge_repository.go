package repository

import (
	"context"
	"time"

	"github.com/yukikurage/stride-league-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChallengeRepository is a GORM implementation of ChallengeRepository
type GormChallengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new ChallengeRepository
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &GormChallengeRepository{db: db}
}

// Create creates a challenge
func (r *GormChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

// CreateBatch creates several challenges
func (r *GormChallengeRepository) CreateBatch(ctx context.Context, challenges []models.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&challenges).Error
}

// FindByID finds a challenge by ID
func (r *GormChallengeRepository) FindByID(ctx context.Context, id uint64) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.WithContext(ctx).First(&challenge, id).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FindByIDForUpdate finds a challenge by ID and takes a row lock on it
func (r *GormChallengeRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&challenge, id).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// CreateTeamChallenge binds a challenge to a team
func (r *GormChallengeRepository) CreateTeamChallenge(ctx context.Context, tc *models.TeamChallenge) error {
	if tc.Multiplier == 0 {
		tc.Multiplier = 1
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tc).Error
}

// FindActiveByChallenge finds an uncompleted team challenge for the challenge
func (r *GormChallengeRepository) FindActiveByChallenge(ctx context.Context, challengeID uint64) (*models.TeamChallenge, error) {
	var tc models.TeamChallenge
	err := r.db.WithContext(ctx).
		Where("challenge_id = ? AND iscompleted = ?", challengeID, false).
		First(&tc).Error
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

// FindActiveForTeamBetween finds an uncompleted team challenge assigned to the team in [from, to)
func (r *GormChallengeRepository) FindActiveForTeamBetween(ctx context.Context, teamID uint64, from, to time.Time) (*models.TeamChallenge, error) {
	var tc models.TeamChallenge
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND iscompleted = ?", teamID, false).
		Where("created_at >= ? AND created_at < ?", from, to).
		First(&tc).Error
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

// FindLatestActiveForTeam finds the team's newest uncompleted team challenge
func (r *GormChallengeRepository) FindLatestActiveForTeam(ctx context.Context, teamID uint64) (*models.TeamChallenge, error) {
	var tc models.TeamChallenge
	err := r.db.WithContext(ctx).
		Preload("Challenge").
		Where("team_id = ? AND iscompleted = ?", teamID, false).
		Order("created_at DESC, id DESC").
		First(&tc).Error
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

// SetMultiplier updates a team challenge's multiplier
func (r *GormChallengeRepository) SetMultiplier(ctx context.Context, id uint64, multiplier int) error {
	return r.db.WithContext(ctx).Model(&models.TeamChallenge{}).
		Where("id = ?", id).
		Update("multiplier", multiplier).Error
}

// MarkCompleted completes a team challenge exactly once
func (r *GormChallengeRepository) MarkCompleted(ctx context.Context, id uint64, completedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.TeamChallenge{}).
		Where("id = ? AND iscompleted = ?", id, false).
		Updates(map[string]interface{}{
			"iscompleted":  true,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByLeague lists the team challenges of a league's teams
func (r *GormChallengeRepository) ListByLeague(ctx context.Context, leagueRoomID uint64) ([]models.TeamChallenge, error) {
	var tcs []models.TeamChallenge
	teams := r.db.Model(&models.Team{}).Select("id").Where("league_room_id = ?", leagueRoomID)
	err := r.db.WithContext(ctx).
		Preload("Challenge").
		Where("team_id IN (?)", teams).
		Order("id").
		Find(&tcs).Error
	if err != nil {
		return nil, err
	}
	return tcs, nil
}

package repository

import (
	"context"

	"github.com/yukikurage/stride-league-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContributionRepository is a GORM implementation of ContributionRepository
type GormContributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new ContributionRepository
func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &GormContributionRepository{db: db}
}

// Create appends a contribution
func (r *GormContributionRepository) Create(ctx context.Context, contribution *models.UserContribution) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(contribution).Error
}

// FindByID finds a contribution by ID
func (r *GormContributionRepository) FindByID(ctx context.Context, id uint64) (*models.UserContribution, error) {
	var contribution models.UserContribution
	if err := r.db.WithContext(ctx).First(&contribution, id).Error; err != nil {
		return nil, err
	}
	return &contribution, nil
}

// SumDistances sums the distance ledger of a team challenge
func (r *GormContributionRepository) SumDistances(ctx context.Context, teamChallengeID uint64) (DistanceTotals, error) {
	var totals DistanceTotals
	err := r.db.WithContext(ctx).Model(&models.UserContribution{}).
		Select(
			"COALESCE(SUM(distance_covered), 0) AS total, "+
				"COALESCE(SUM(CASE WHEN journey_type = ? THEN distance_covered ELSE 0 END), 0) AS duo",
			string(models.JourneyDuo),
		).
		Where("team_challenge_id = ?", teamChallengeID).
		Scan(&totals).Error
	return totals, err
}

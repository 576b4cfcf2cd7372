package repository

import (
	"context"
	"time"

	"github.com/yukikurage/stride-league-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeagueRepository is a GORM implementation of LeagueRepository
type GormLeagueRepository struct {
	db *gorm.DB
}

// NewLeagueRepository creates a new LeagueRepository
func NewLeagueRepository(db *gorm.DB) LeagueRepository {
	return &GormLeagueRepository{db: db}
}

// Create creates a new league room
func (r *GormLeagueRepository) Create(ctx context.Context, league *models.LeagueRoom) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(league).Error
}

// FindByID finds a league room by ID
func (r *GormLeagueRepository) FindByID(ctx context.Context, id uint64) (*models.LeagueRoom, error) {
	var league models.LeagueRoom
	if err := r.db.WithContext(ctx).First(&league, id).Error; err != nil {
		return nil, err
	}
	return &league, nil
}

// MarkEnded closes a league that is still open
func (r *GormLeagueRepository) MarkEnded(ctx context.Context, id uint64, endedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.LeagueRoom{}).
		Where("id = ? AND ended_at IS NULL", id).
		Update("ended_at", endedAt)
	return result.RowsAffected == 1, result.Error
}

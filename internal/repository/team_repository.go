package repository

import (
	"context"
	"time"

	"github.com/yukikurage/stride-league-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a team and its memberships
func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team, memberships []models.TeamMembership) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(team).Error; err != nil {
		return err
	}
	if len(memberships) == 0 {
		return nil
	}
	for i := range memberships {
		memberships[i].TeamID = team.ID
	}
	if err := db.Omit(clause.Associations).Create(&memberships).Error; err != nil {
		return err
	}
	team.Memberships = memberships
	return nil
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByIDForUpdate finds a team by ID and takes a row lock on it
func (r *GormTeamRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*models.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&team, id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ListByLeague lists the teams of a league with their members
func (r *GormTeamRepository) ListByLeague(ctx context.Context, leagueRoomID uint64) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Preload("Memberships", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Preload("Memberships.User").
		Where("league_room_id = ?", leagueRoomID).
		Order("id").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// ListWithStreak lists teams whose streak could expire
func (r *GormTeamRepository) ListWithStreak(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Where("current_streak > 0 AND last_completion_date IS NOT NULL").
		Order("id").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// FindActiveMembership finds the user's open membership
func (r *GormTeamRepository) FindActiveMembership(ctx context.Context, userID uint64) (*models.TeamMembership, error) {
	var membership models.TeamMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date_left IS NULL", userID).
		Order("id DESC").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CountActiveMemberships counts open memberships held by the users
func (r *GormTeamRepository) CountActiveMemberships(ctx context.Context, userIDs []uint64) (int64, error) {
	var count int64
	if len(userIDs) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&models.TeamMembership{}).
		Where("user_id IN ? AND date_left IS NULL", userIDs).
		Count(&count).Error
	return count, err
}

// CloseMemberships ends the open memberships of the teams
func (r *GormTeamRepository) CloseMemberships(ctx context.Context, teamIDs []uint64, dateLeft time.Time) (int64, error) {
	if len(teamIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.TeamMembership{}).
		Where("team_id IN ? AND date_left IS NULL", teamIDs).
		Update("date_left", dateLeft)
	return result.RowsAffected, result.Error
}

// UpdateStreak persists a team's streak fields
func (r *GormTeamRepository) UpdateStreak(ctx context.Context, teamID uint64, current int, lastCompletion *time.Time, bonusPoints int) error {
	return r.db.WithContext(ctx).Model(&models.Team{}).
		Where("id = ?", teamID).
		Updates(map[string]interface{}{
			"current_streak":       current,
			"last_completion_date": lastCompletion,
			"streak_bonus_points":  bonusPoints,
		}).Error
}

// ResetStreak zeroes a team's streak unless it completed a challenge on or after before
func (r *GormTeamRepository) ResetStreak(ctx context.Context, teamID uint64, before time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Team{}).
		Where("id = ? AND current_streak <> 0", teamID).
		Where("last_completion_date < ?", before).
		Update("current_streak", 0)
	return result.RowsAffected == 1, result.Error
}

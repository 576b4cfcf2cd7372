package repository

import (
	"context"
	"time"

	"github.com/yukikurage/stride-league-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWaitingRoomRepository is a GORM implementation of WaitingRoomRepository
type GormWaitingRoomRepository struct {
	db *gorm.DB
}

// NewWaitingRoomRepository creates a new WaitingRoomRepository
func NewWaitingRoomRepository(db *gorm.DB) WaitingRoomRepository {
	return &GormWaitingRoomRepository{db: db}
}

// CreateRoom creates a new waiting room
func (r *GormWaitingRoomRepository) CreateRoom(ctx context.Context, room *models.WaitingRoom) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(room).Error
}

// FindRoom finds a waiting room by ID
func (r *GormWaitingRoomRepository) FindRoom(ctx context.Context, id uint64) (*models.WaitingRoom, error) {
	var room models.WaitingRoom
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// AddEntry adds a user to a waiting room
func (r *GormWaitingRoomRepository) AddEntry(ctx context.Context, entry *models.WaitingRoomEntry) error {
	if entry.Status == "" {
		entry.Status = models.WaitingRoomUnassigned
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

// FindUnassignedEntry finds the user's unassigned entry
func (r *GormWaitingRoomRepository) FindUnassignedEntry(ctx context.Context, userID uint64) (*models.WaitingRoomEntry, error) {
	var entry models.WaitingRoomEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(models.WaitingRoomUnassigned)).
		Order("id DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindLatestEntry finds the user's most recent entry
func (r *GormWaitingRoomRepository) FindLatestEntry(ctx context.Context, userID uint64) (*models.WaitingRoomEntry, error) {
	var entry models.WaitingRoomEntry
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// CountUnassigned counts the unassigned entries of a waiting room
func (r *GormWaitingRoomRepository) CountUnassigned(ctx context.Context, roomID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WaitingRoomEntry{}).
		Where("waiting_room_id = ? AND status = ?", roomID, string(models.WaitingRoomUnassigned)).
		Count(&count).Error
	return count, err
}

// ListUnassigned lists the unassigned entries of a waiting room in join order
func (r *GormWaitingRoomRepository) ListUnassigned(ctx context.Context, roomID uint64) ([]models.WaitingRoomEntry, error) {
	var entries []models.WaitingRoomEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("waiting_room_id = ? AND status = ?", roomID, string(models.WaitingRoomUnassigned)).
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListUsers lists the users that joined a waiting room
func (r *GormWaitingRoomRepository) ListUsers(ctx context.Context, roomID uint64) ([]models.User, error) {
	var users []models.User
	members := r.db.Model(&models.WaitingRoomEntry{}).Select("user_id").Where("waiting_room_id = ?", roomID)
	if err := r.db.WithContext(ctx).Where("id IN (?)", members).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// AssignEntries moves still-unassigned entries into a league
func (r *GormWaitingRoomRepository) AssignEntries(ctx context.Context, entryIDs []uint64, leagueRoomID uint64) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.WaitingRoomEntry{}).
		Where("id IN ? AND status = ?", entryIDs, string(models.WaitingRoomUnassigned)).
		Updates(map[string]interface{}{
			"status":         string(models.WaitingRoomAssigned),
			"league_room_id": leagueRoomID,
		})
	return result.RowsAffected, result.Error
}

// FindActiveLeagueEntry finds the user's newest entry in a league that is still running
func (r *GormWaitingRoomRepository) FindActiveLeagueEntry(ctx context.Context, userID uint64, since time.Time) (*models.WaitingRoomEntry, error) {
	var entry models.WaitingRoomEntry
	leagues := r.db.Model(&models.LeagueRoom{}).Select("id").Where("created_at >= ? AND ended_at IS NULL", since)
	err := r.db.WithContext(ctx).
		Preload("LeagueRoom").
		Where("user_id = ? AND status = ?", userID, string(models.WaitingRoomAssigned)).
		Where("league_room_id IN (?)", leagues).
		Order("id DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindLeagueOwner finds the earliest entry placed in a league
func (r *GormWaitingRoomRepository) FindLeagueOwner(ctx context.Context, leagueRoomID uint64) (*models.WaitingRoomEntry, error) {
	var entry models.WaitingRoomEntry
	err := r.db.WithContext(ctx).
		Where("league_room_id = ?", leagueRoomID).
		Order("created_at, id").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

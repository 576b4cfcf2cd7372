package models

import "time"

type Team struct {
	ID                 uint64     `gorm:"primarykey" json:"team_id"`
	Name               string     `gorm:"type:varchar(255);not null" json:"team_name"`
	Slug               string     `gorm:"type:varchar(255)" json:"slug"`
	LeagueRoomID       uint64     `gorm:"not null;index" json:"league_room_id"`
	CurrentStreak      int        `gorm:"not null;default:0" json:"current_streak"`
	LastCompletionDate *time.Time `gorm:"type:date" json:"last_completion_date"`
	StreakBonusPoints  int        `gorm:"not null;default:0" json:"streak_bonus_points"`
	CreatedAt          time.Time  `json:"created_at"`

	// Relations
	LeagueRoom  LeagueRoom       `gorm:"foreignKey:LeagueRoomID" json:"-"`
	Memberships []TeamMembership `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMembership links a user to a team. A membership is active while DateLeft is nil.
type TeamMembership struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	TeamID     uint64     `gorm:"not null;index" json:"team_id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"`
	DateJoined time.Time  `gorm:"type:date;not null" json:"date_joined"`
	DateLeft   *time.Time `gorm:"type:date" json:"date_left"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

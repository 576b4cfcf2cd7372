package models

import "time"

type LeagueRoom struct {
	ID        uint64     `gorm:"primarykey" json:"league_room_id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"league_room_name"`
	Slug      string     `gorm:"type:varchar(255);index" json:"slug"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at"`

	// Relations
	Teams []Team `gorm:"foreignKey:LeagueRoomID" json:"teams,omitempty"`
}

// IsEnded reports whether the league has been closed.
func (l LeagueRoom) IsEnded() bool {
	return l.EndedAt != nil
}

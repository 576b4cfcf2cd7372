package models

import "time"

// WaitingRoomStatus tracks whether a waiting room entry has been placed into a league.
type WaitingRoomStatus string

const (
	WaitingRoomUnassigned WaitingRoomStatus = "UNASSIGNED"
	WaitingRoomAssigned   WaitingRoomStatus = "ASSIGNED"
)

type WaitingRoom struct {
	ID        uint64    `gorm:"primarykey" json:"waiting_room_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Entries []WaitingRoomEntry `gorm:"foreignKey:WaitingRoomID" json:"entries,omitempty"`
}

// WaitingRoomEntry is one user's place in a waiting room. It is immutable once assigned.
type WaitingRoomEntry struct {
	ID            uint64            `gorm:"primarykey" json:"id"`
	WaitingRoomID uint64            `gorm:"not null;index" json:"waiting_room_id"`
	UserID        uint64            `gorm:"not null;index" json:"user_id"`
	LeagueRoomID  *uint64           `gorm:"index" json:"league_room_id"`
	Status        WaitingRoomStatus `gorm:"type:varchar(20);not null;default:'UNASSIGNED'" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`

	// Relations
	User       User        `gorm:"foreignKey:UserID" json:"-"`
	LeagueRoom *LeagueRoom `gorm:"foreignKey:LeagueRoomID" json:"league_room,omitempty"`
}

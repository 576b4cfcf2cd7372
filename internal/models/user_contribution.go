package models

import (
	"time"

	"gorm.io/datatypes"
)

type JourneyType string

const (
	JourneySolo JourneyType = "solo"
	JourneyDuo  JourneyType = "duo"
)

// RoutePoint is one recorded GPS fix on a contribution's route.
type RoutePoint struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// UserContribution is an append-only ledger entry of distance covered toward a team challenge.
type UserContribution struct {
	ID                  uint64         `gorm:"primarykey" json:"user_contribution_id"`
	TeamChallengeID     uint64         `gorm:"not null;index" json:"team_challenge_id"`
	UserID              uint64         `gorm:"not null;index" json:"user_id"`
	StartTime           time.Time      `gorm:"not null" json:"start_time"`
	EndTime             time.Time      `gorm:"not null" json:"end_time"`
	StartLatitude       *float64       `json:"start_latitude"`
	StartLongitude      *float64       `json:"start_longitude"`
	EndLatitude         *float64       `json:"end_latitude"`
	EndLongitude        *float64       `json:"end_longitude"`
	DistanceCovered     float64        `gorm:"not null" json:"distance_covered"`
	Route               datatypes.JSON `json:"route"`
	JourneyType         JourneyType    `gorm:"type:varchar(10);not null;default:'solo'" json:"journey_type"`
	Active              bool           `gorm:"not null;default:false" json:"active"`
	ContributionDetails string         `gorm:"type:text" json:"contribution_details"`
	CreatedAt           time.Time      `json:"created_at"`

	// Relations
	TeamChallenge TeamChallenge `gorm:"foreignKey:TeamChallengeID" json:"-"`
	User          User          `gorm:"foreignKey:UserID" json:"-"`
}

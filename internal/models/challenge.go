package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Challenge struct {
	ID            uint64     `gorm:"primarykey" json:"challenge_id"`
	Title         string     `gorm:"type:varchar(255)" json:"title"`
	StartTime     time.Time  `gorm:"not null" json:"start_time"`
	Duration      int        `gorm:"not null" json:"duration"`
	Length        float64    `gorm:"not null" json:"length"`
	Difficulty    Difficulty `gorm:"type:varchar(20);not null" json:"difficulty"`
	EarningPoints int        `gorm:"not null" json:"earning_points"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TeamChallenge binds one challenge to one team until it is completed.
type TeamChallenge struct {
	ID          uint64     `gorm:"primarykey" json:"team_challenge_id"`
	TeamID      uint64     `gorm:"not null;index" json:"team_id"`
	ChallengeID uint64     `gorm:"not null;index" json:"challenge_id"`
	Multiplier  int        `gorm:"not null;default:1" json:"multiplier"`
	IsCompleted bool       `gorm:"column:iscompleted;not null;default:false;index" json:"iscompleted"`
	BonusPoints int        `gorm:"not null;default:0" json:"bonus_points"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	Team      Team      `gorm:"foreignKey:TeamID" json:"-"`
	Challenge Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
}

// Points is the score a completed team challenge contributes.
func (tc TeamChallenge) Points() int {
	if !tc.IsCompleted {
		return 0
	}
	multiplier := tc.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	return tc.Challenge.EarningPoints*multiplier + tc.BonusPoints
}

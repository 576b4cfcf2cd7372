package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrLeagueNotFound      = errors.New("league room not found")
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrNoActiveTeam        = errors.New("user is not a member of an active team")
	ErrNoActiveChallenge   = errors.New("no active team challenge found for the team")
	ErrContributionMissing = errors.New("contribution not found")
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// UTCNow is the production Clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(now Clock) Clock {
	if now == nil {
		return UTCNow
	}
	return func() time.Time {
		return now().UTC()
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

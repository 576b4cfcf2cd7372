package constants

const (
	// ContextKeyUserID is the session and gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"

	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "stride_session"

	MinPasswordLength = 1

	// DistanceUnitPerKm converts contributed metres into challenge kilometres.
	DistanceUnitPerKm = 1000.0

	// DuoMultiplier applies when duo distance reaches half the challenge target.
	DuoMultiplier = 2
	// DefaultMultiplier is the multiplier of a freshly assigned team challenge.
	DefaultMultiplier = 1

	// TeamSize is the number of users paired into one team during league formation.
	TeamSize = 2

	// ActiveLeagueWindowDays bounds how old a league may be and still count as active.
	ActiveLeagueWindowDays = 7

	// DailyChallengeDurationMinutes is the duration of generated daily challenges.
	DailyChallengeDurationMinutes = 24 * 60

	DefaultStreakBonusPoints   = 25
	DefaultStreakBonusInterval = 3
)

// Package streak holds the consecutive-day completion rules shared by the completion path,
// the update_team_streak endpoint and the daily sweep.
package streak

import "time"

// Policy configures periodic streak bonuses.
type Policy struct {
	// BonusPoints is added to a team's bonus total each time the streak lands on a multiple
	// of BonusInterval.
	BonusPoints int
	// BonusInterval of zero or less disables bonuses.
	BonusInterval int
}

// State is the streak bookkeeping stored on a team.
type State struct {
	Current            int
	LastCompletionDate *time.Time
	BonusPoints        int
}

// Outcome describes a streak transition.
type Outcome struct {
	Previous       State
	Next           State
	DaysDifference int
	// FirstCompletion is true when the team had never completed a challenge before.
	FirstCompletion bool
	// Unchanged is true when the team already completed a challenge on the same day.
	Unchanged    bool
	BonusAwarded int
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from last to today.
func DaysBetween(last, today time.Time) int {
	return int(Day(today).Sub(Day(last)).Hours() / 24)
}

// Advance applies a completion on today to s.
//
//	gap 0            -> unchanged
//	gap 1            -> +1
//	gap > 1 or never -> reset to 1
func (p Policy) Advance(s State, today time.Time) Outcome {
	out := Outcome{Previous: s, Next: s}
	day := Day(today)

	if s.LastCompletionDate == nil {
		out.FirstCompletion = true
		out.Next.Current = 1
	} else {
		out.DaysDifference = DaysBetween(*s.LastCompletionDate, day)
		switch {
		case out.DaysDifference <= 0:
			out.Unchanged = true
			return out
		case out.DaysDifference == 1:
			out.Next.Current = s.Current + 1
		default:
			out.Next.Current = 1
		}
	}

	out.Next.LastCompletionDate = &day
	if p.BonusInterval > 0 && out.Next.Current%p.BonusInterval == 0 {
		out.BonusAwarded = p.BonusPoints
		out.Next.BonusPoints = s.BonusPoints + p.BonusPoints
	}
	return out
}

// Expired reports whether the daily sweep should zero the streak: the last completion is
// more than one day before today and the streak is not already zero.
func Expired(s State, today time.Time) bool {
	if s.LastCompletionDate == nil || s.Current == 0 {
		return false
	}
	return DaysBetween(*s.LastCompletionDate, today) > 1
}

// ExpiryCutoff is the first day whose completion keeps a streak alive on today.
// Expired is true exactly when the last completion falls before it.
func ExpiryCutoff(today time.Time) time.Time {
	return Day(today).AddDate(0, 0, -1)
}

package repository

import (
	"context"
	"time"

	"github.com/yukikurage/stride-league-api/internal/models"
)

// Store groups the repositories and runs multi-step workflows atomically.
type Store interface {
	Users() UserRepository
	WaitingRooms() WaitingRoomRepository
	Leagues() LeagueRepository
	Teams() TeamRepository
	Challenges() ChallengeRepository
	Contributions() ContributionRepository

	// Transaction runs fn with a Store bound to a single database transaction.
	// The transaction is rolled back when fn returns an error.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByIDs returns the users that exist among ids, ordered by ID
	FindByIDs(ctx context.Context, ids []uint64) ([]models.User, error)

	// FindByIDForUpdate finds a user by ID and holds a row lock until the transaction ends.
	// Queue and team membership checks for a user serialize on this lock.
	FindByIDForUpdate(ctx context.Context, id uint64) (*models.User, error)

	// FindByIDsForUpdate locks the users that exist among ids, in ID order
	FindByIDsForUpdate(ctx context.Context, ids []uint64) ([]models.User, error)
}

// WaitingRoomRepository defines the interface for waiting room data access
type WaitingRoomRepository interface {
	// CreateRoom creates a new, empty waiting room
	CreateRoom(ctx context.Context, room *models.WaitingRoom) error

	// FindRoom finds a waiting room by ID
	FindRoom(ctx context.Context, id uint64) (*models.WaitingRoom, error)

	// AddEntry adds a user to a waiting room
	AddEntry(ctx context.Context, entry *models.WaitingRoomEntry) error

	// FindUnassignedEntry finds the user's entry that has not yet been placed in a league
	FindUnassignedEntry(ctx context.Context, userID uint64) (*models.WaitingRoomEntry, error)

	// FindLatestEntry finds the user's most recent entry regardless of status
	FindLatestEntry(ctx context.Context, userID uint64) (*models.WaitingRoomEntry, error)

	// CountUnassigned counts the unassigned entries of a waiting room
	CountUnassigned(ctx context.Context, roomID uint64) (int64, error)

	// ListUnassigned lists the unassigned entries of a waiting room with their users
	ListUnassigned(ctx context.Context, roomID uint64) ([]models.WaitingRoomEntry, error)

	// ListUsers lists every user that has an entry in the waiting room
	ListUsers(ctx context.Context, roomID uint64) ([]models.User, error)

	// AssignEntries moves unassigned entries into a league and returns how many moved
	AssignEntries(ctx context.Context, entryIDs []uint64, leagueRoomID uint64) (int64, error)

	// FindActiveLeagueEntry finds the user's assigned entry whose league was created at or
	// after since and has not ended
	FindActiveLeagueEntry(ctx context.Context, userID uint64, since time.Time) (*models.WaitingRoomEntry, error)

	// FindLeagueOwner finds the earliest entry assigned to a league
	FindLeagueOwner(ctx context.Context, leagueRoomID uint64) (*models.WaitingRoomEntry, error)
}

// LeagueRepository defines the interface for league room data access
type LeagueRepository interface {
	// Create creates a new league room
	Create(ctx context.Context, league *models.LeagueRoom) error

	// FindByID finds a league room by ID
	FindByID(ctx context.Context, id uint64) (*models.LeagueRoom, error)

	// MarkEnded stamps ended_at if the league is still open and reports whether it did
	MarkEnded(ctx context.Context, id uint64, endedAt time.Time) (bool, error)
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	// Create creates a team together with its memberships
	Create(ctx context.Context, team *models.Team, memberships []models.TeamMembership) error

	// FindByID finds a team by ID
	FindByID(ctx context.Context, id uint64) (*models.Team, error)

	// FindByIDForUpdate finds a team by ID and locks its row for the current transaction
	FindByIDForUpdate(ctx context.Context, id uint64) (*models.Team, error)

	// ListByLeague lists the teams of a league with their members and users
	ListByLeague(ctx context.Context, leagueRoomID uint64) ([]models.Team, error)

	// ListWithStreak lists teams carrying a non-zero streak and a completion date
	ListWithStreak(ctx context.Context) ([]models.Team, error)

	// FindActiveMembership finds the user's membership that has not been closed
	FindActiveMembership(ctx context.Context, userID uint64) (*models.TeamMembership, error)

	// CountActiveMemberships counts open memberships held by any of the users
	CountActiveMemberships(ctx context.Context, userIDs []uint64) (int64, error)

	// CloseMemberships sets date_left on the open memberships of the teams
	CloseMemberships(ctx context.Context, teamIDs []uint64, dateLeft time.Time) (int64, error)

	// UpdateStreak persists a team's streak bookkeeping
	UpdateStreak(ctx context.Context, teamID uint64, current int, lastCompletion *time.Time, bonusPoints int) error

	// ResetStreak zeroes a team's streak if its last completion is before the given day,
	// and reports whether it changed
	ResetStreak(ctx context.Context, teamID uint64, before time.Time) (bool, error)
}

// ChallengeRepository defines the interface for challenge and team challenge data access
type ChallengeRepository interface {
	// Create creates a challenge
	Create(ctx context.Context, challenge *models.Challenge) error

	// CreateBatch creates several challenges in one statement
	CreateBatch(ctx context.Context, challenges []models.Challenge) error

	// FindByID finds a challenge by ID
	FindByID(ctx context.Context, id uint64) (*models.Challenge, error)

	// FindByIDForUpdate finds a challenge by ID and locks its row for the current transaction
	FindByIDForUpdate(ctx context.Context, id uint64) (*models.Challenge, error)

	// CreateTeamChallenge binds a challenge to a team
	CreateTeamChallenge(ctx context.Context, tc *models.TeamChallenge) error

	// FindActiveByChallenge finds any uncompleted team challenge bound to the challenge
	FindActiveByChallenge(ctx context.Context, challengeID uint64) (*models.TeamChallenge, error)

	// FindActiveForTeamBetween finds an uncompleted team challenge assigned to the team in [from, to)
	FindActiveForTeamBetween(ctx context.Context, teamID uint64, from, to time.Time) (*models.TeamChallenge, error)

	// FindLatestActiveForTeam finds the team's most recently assigned uncompleted challenge
	FindLatestActiveForTeam(ctx context.Context, teamID uint64) (*models.TeamChallenge, error)

	// SetMultiplier updates a team challenge's multiplier
	SetMultiplier(ctx context.Context, id uint64, multiplier int) error

	// MarkCompleted flips an uncompleted team challenge to completed and reports whether
	// this call performed the transition
	MarkCompleted(ctx context.Context, id uint64, completedAt time.Time) (bool, error)

	// ListByLeague lists every team challenge of the league's teams with their challenges
	ListByLeague(ctx context.Context, leagueRoomID uint64) ([]models.TeamChallenge, error)
}

// DistanceTotals are the summed contribution distances of a team challenge, in metres.
type DistanceTotals struct {
	Total float64
	Duo   float64
}

// ContributionRepository defines the interface for contribution ledger access
type ContributionRepository interface {
	// Create appends a contribution
	Create(ctx context.Context, contribution *models.UserContribution) error

	// FindByID finds a contribution by ID
	FindByID(ctx context.Context, id uint64) (*models.UserContribution, error)

	// SumDistances sums all and duo-only distances of a team challenge
	SumDistances(ctx context.Context, teamChallengeID uint64) (DistanceTotals, error)
}

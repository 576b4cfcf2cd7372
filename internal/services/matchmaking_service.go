package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/stride-league-api/internal/constants"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/repository"
	"github.com/yukikurage/stride-league-api/internal/streak"
)

var (
	ErrWaitingRoomNotFound   = errors.New("active waiting room not found")
	ErrAlreadyInWaitingRoom  = errors.New("user is already in a waiting room")
	ErrNotInWaitingRoom      = errors.New("user is not in an active waiting room")
	ErrNotEnoughParticipants = errors.New("at least two participants are required to form a league")
	ErrOddParticipants       = errors.New("an even number of participants is required to form a league")
	ErrWaitingRoomChanged    = errors.New("waiting room changed while forming the league")
	ErrInvalidTeamMembers    = errors.New("one or more user_ids are invalid")
	ErrUserAlreadyInTeam     = errors.New("one or more users already belong to an active team")
	ErrLeagueEnded           = errors.New("league room has already ended")
)

// WaitingRoomConflictError reports the room a user is already queued in.
type WaitingRoomConflictError struct {
	WaitingRoomID uint64
}

func (e *WaitingRoomConflictError) Error() string {
	return fmt.Sprintf("%s (waiting room %d)", ErrAlreadyInWaitingRoom, e.WaitingRoomID)
}

func (e *WaitingRoomConflictError) Unwrap() error {
	return ErrAlreadyInWaitingRoom
}

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// MatchmakingService handles waiting rooms, league formation, teams and league lifecycle.
type MatchmakingService struct {
	store   repository.Store
	now     Clock
	shuffle Shuffler
}

// NewMatchmakingService creates a new MatchmakingService. A nil shuffle uses math/rand.
func NewMatchmakingService(store repository.Store, now Clock, shuffle Shuffler) *MatchmakingService {
	if shuffle == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		shuffle = rng.Shuffle
	}
	return &MatchmakingService{
		store:   store,
		now:     clockOrDefault(now),
		shuffle: shuffle,
	}
}

func requireUser(ctx context.Context, tx repository.Store, userID uint64) (*models.User, error) {
	user, err := tx.Users().FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// lockUser is requireUser holding the user's row lock, so queue and membership checks
// for that user cannot interleave across transactions.
func lockUser(ctx context.Context, tx repository.Store, userID uint64) error {
	if _, err := tx.Users().FindByIDForUpdate(ctx, userID); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to lock user: %w", err)
	}
	return nil
}

// CreateWaitingRoom opens a new waiting room with the user as its first entry.
func (s *MatchmakingService) CreateWaitingRoom(ctx context.Context, userID uint64) (*models.WaitingRoomEntry, error) {
	var created *models.WaitingRoomEntry
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := ensureNotQueued(ctx, tx, userID); err != nil {
			return err
		}

		now := s.now()
		room := &models.WaitingRoom{CreatedAt: now}
		if err := tx.WaitingRooms().CreateRoom(ctx, room); err != nil {
			return fmt.Errorf("failed to create waiting room: %w", err)
		}
		entry := &models.WaitingRoomEntry{
			WaitingRoomID: room.ID,
			UserID:        userID,
			Status:        models.WaitingRoomUnassigned,
			CreatedAt:     now,
		}
		if err := tx.WaitingRooms().AddEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to add waiting room entry: %w", err)
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint64("user_id", userID).Uint64("waiting_room_id", created.WaitingRoomID).Msg("waiting room created")
	return created, nil
}

// JoinWaitingRoom adds the user to an open waiting room.
func (s *MatchmakingService) JoinWaitingRoom(ctx context.Context, userID, waitingRoomID uint64) (*models.WaitingRoomEntry, error) {
	var joined *models.WaitingRoomEntry
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.WaitingRooms().FindRoom(ctx, waitingRoomID); err != nil {
			if isNotFound(err) {
				return ErrWaitingRoomNotFound
			}
			return fmt.Errorf("failed to find waiting room: %w", err)
		}
		open, err := tx.WaitingRooms().CountUnassigned(ctx, waitingRoomID)
		if err != nil {
			return fmt.Errorf("failed to check waiting room: %w", err)
		}
		if open == 0 {
			return ErrWaitingRoomNotFound
		}
		if err := ensureNotQueued(ctx, tx, userID); err != nil {
			return err
		}

		entry := &models.WaitingRoomEntry{
			WaitingRoomID: waitingRoomID,
			UserID:        userID,
			Status:        models.WaitingRoomUnassigned,
			CreatedAt:     s.now(),
		}
		if err := tx.WaitingRooms().AddEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to join waiting room: %w", err)
		}
		joined = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint64("user_id", userID).Uint64("waiting_room_id", waitingRoomID).Msg("user joined waiting room")
	return joined, nil
}

func ensureNotQueued(ctx context.Context, tx repository.Store, userID uint64) error {
	existing, err := tx.WaitingRooms().FindUnassignedEntry(ctx, userID)
	if err == nil {
		return &WaitingRoomConflictError{WaitingRoomID: existing.WaitingRoomID}
	}
	if !isNotFound(err) {
		return fmt.Errorf("failed to check waiting room entry: %w", err)
	}
	return nil
}

// GetWaitingRoomID returns the user's open waiting room, else their latest one, else nil.
func (s *MatchmakingService) GetWaitingRoomID(ctx context.Context, userID uint64) (*uint64, error) {
	if _, err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	entry, err := s.store.WaitingRooms().FindUnassignedEntry(ctx, userID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to find waiting room entry: %w", err)
	}
	if entry == nil {
		entry, err = s.store.WaitingRooms().FindLatestEntry(ctx, userID)
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to find waiting room entry: %w", err)
		}
	}

	id := entry.WaitingRoomID
	return &id, nil
}

// GetWaitingRoomUsers lists the users that joined a waiting room.
func (s *MatchmakingService) GetWaitingRoomUsers(ctx context.Context, waitingRoomID uint64) ([]models.User, error) {
	users, err := s.store.WaitingRooms().ListUsers(ctx, waitingRoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting room users: %w", err)
	}
	return users, nil
}

// FormLeagueInput identifies the waiting room through one of its queued users.
type FormLeagueInput struct {
	UserID uint64
	Name   string
}

// LeagueFormation is the outcome of turning a waiting room into a league.
type LeagueFormation struct {
	League models.LeagueRoom
	Teams  []models.Team
}

// FormLeague creates a league from the user's waiting room and pairs its participants into teams.
func (s *MatchmakingService) FormLeague(ctx context.Context, input FormLeagueInput) (*LeagueFormation, error) {
	var formation *LeagueFormation
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := requireUser(ctx, tx, input.UserID); err != nil {
			return err
		}
		entry, err := tx.WaitingRooms().FindUnassignedEntry(ctx, input.UserID)
		if err != nil {
			if isNotFound(err) {
				return ErrNotInWaitingRoom
			}
			return fmt.Errorf("failed to find waiting room entry: %w", err)
		}

		entries, err := tx.WaitingRooms().ListUnassigned(ctx, entry.WaitingRoomID)
		if err != nil {
			return fmt.Errorf("failed to list waiting room entries: %w", err)
		}
		if len(entries) < constants.TeamSize {
			return ErrNotEnoughParticipants
		}
		if len(entries)%constants.TeamSize != 0 {
			return ErrOddParticipants
		}

		now := s.now()
		name := strings.TrimSpace(input.Name)
		if name == "" {
			name = fmt.Sprintf("League %d %s", entry.WaitingRoomID, now.Format("2006-01-02"))
		}
		league := &models.LeagueRoom{
			Name:      name,
			Slug:      slug.Make(name),
			CreatedAt: now,
		}
		if err := tx.Leagues().Create(ctx, league); err != nil {
			return fmt.Errorf("failed to create league room: %w", err)
		}

		s.shuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})

		teams := make([]models.Team, 0, len(entries)/constants.TeamSize)
		for i := 0; i < len(entries); i += constants.TeamSize {
			userIDs := make([]uint64, 0, constants.TeamSize)
			for _, e := range entries[i : i+constants.TeamSize] {
				userIDs = append(userIDs, e.UserID)
			}
			team, err := createTeamTx(ctx, tx, league, userIDs, now)
			if err != nil {
				return err
			}
			teams = append(teams, *team)
		}

		entryIDs := make([]uint64, len(entries))
		for i, e := range entries {
			entryIDs[i] = e.ID
		}
		moved, err := tx.WaitingRooms().AssignEntries(ctx, entryIDs, league.ID)
		if err != nil {
			return fmt.Errorf("failed to assign waiting room entries: %w", err)
		}
		if moved != int64(len(entryIDs)) {
			return ErrWaitingRoomChanged
		}

		formation = &LeagueFormation{League: *league, Teams: teams}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Uint64("league_room_id", formation.League.ID).
		Int("team_count", len(formation.Teams)).
		Msg("league room formed")
	return formation, nil
}

// CreateTeamInput lists the members of a new team.
type CreateTeamInput struct {
	UserIDs      []uint64
	LeagueRoomID uint64
}

// CreateTeam creates a team in an existing league.
func (s *MatchmakingService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	var team *models.Team
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		league, err := tx.Leagues().FindByID(ctx, input.LeagueRoomID)
		if err != nil {
			if isNotFound(err) {
				return ErrLeagueNotFound
			}
			return fmt.Errorf("failed to find league room: %w", err)
		}
		if league.IsEnded() {
			return ErrLeagueEnded
		}
		team, err = createTeamTx(ctx, tx, league, input.UserIDs, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint64("team_id", team.ID).Uint64("league_room_id", team.LeagueRoomID).Msg("team created")
	return team, nil
}

func createTeamTx(ctx context.Context, tx repository.Store, league *models.LeagueRoom, userIDs []uint64, now time.Time) (*models.Team, error) {
	if len(userIDs) == 0 {
		return nil, ErrInvalidTeamMembers
	}
	seen := make(map[uint64]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup || id == 0 {
			return nil, ErrInvalidTeamMembers
		}
		seen[id] = struct{}{}
	}

	users, err := tx.Users().FindByIDsForUpdate(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	if len(users) != len(userIDs) {
		return nil, ErrInvalidTeamMembers
	}

	active, err := tx.Teams().CountActiveMemberships(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check memberships: %w", err)
	}
	if active > 0 {
		return nil, ErrUserAlreadyInTeam
	}

	byID := make(map[uint64]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	names := make([]string, len(userIDs))
	for i, id := range userIDs {
		names[i] = byID[id].Name
	}
	name := strings.Join(names, " & ")

	team := &models.Team{
		Name:         name,
		Slug:         slug.Make(name),
		LeagueRoomID: league.ID,
		CreatedAt:    now,
	}
	joined := streak.Day(now)
	memberships := make([]models.TeamMembership, len(userIDs))
	for i, id := range userIDs {
		memberships[i] = models.TeamMembership{UserID: id, DateJoined: joined}
	}
	if err := tx.Teams().Create(ctx, team, memberships); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	for i := range team.Memberships {
		team.Memberships[i].User = byID[team.Memberships[i].UserID]
	}
	return team, nil
}

// EndLeagueResult describes what ending a league changed.
type EndLeagueResult struct {
	League            models.LeagueRoom
	AlreadyEnded      bool
	MembershipsClosed int64
}

// EndLeague stamps ended_at and closes every active membership of the league's teams.
func (s *MatchmakingService) EndLeague(ctx context.Context, leagueRoomID uint64) (*EndLeagueResult, error) {
	result := &EndLeagueResult{}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		league, err := tx.Leagues().FindByID(ctx, leagueRoomID)
		if err != nil {
			if isNotFound(err) {
				return ErrLeagueNotFound
			}
			return fmt.Errorf("failed to find league room: %w", err)
		}
		if league.IsEnded() {
			result.League = *league
			result.AlreadyEnded = true
			return nil
		}

		now := s.now()
		ended, err := tx.Leagues().MarkEnded(ctx, leagueRoomID, now)
		if err != nil {
			return fmt.Errorf("failed to end league room: %w", err)
		}
		if !ended {
			result.League = *league
			result.AlreadyEnded = true
			return nil
		}
		league.EndedAt = &now

		teams, err := tx.Teams().ListByLeague(ctx, leagueRoomID)
		if err != nil {
			return fmt.Errorf("failed to list league teams: %w", err)
		}
		teamIDs := make([]uint64, len(teams))
		for i, t := range teams {
			teamIDs[i] = t.ID
		}
		closed, err := tx.Teams().CloseMemberships(ctx, teamIDs, streak.Day(now))
		if err != nil {
			return fmt.Errorf("failed to close team memberships: %w", err)
		}

		result.League = *league
		result.MembershipsClosed = closed
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyEnded {
		log.Ctx(ctx).Info().
			Uint64("league_room_id", leagueRoomID).
			Int64("memberships_closed", result.MembershipsClosed).
			Msg("league room ended")
	}
	return result, nil
}

// GetActiveLeague returns the user's assigned entry in a league created within the active
// window that has not ended, or nil when there is none.
func (s *MatchmakingService) GetActiveLeague(ctx context.Context, userID uint64) (*models.WaitingRoomEntry, error) {
	if _, err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	since := s.now().AddDate(0, 0, -constants.ActiveLeagueWindowDays)
	entry, err := s.store.WaitingRooms().FindActiveLeagueEntry(ctx, userID, since)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active league: %w", err)
	}
	return entry, nil
}

// LeagueTeams is the roster of a league and the user who owns it.
type LeagueTeams struct {
	Teams   []models.Team
	OwnerID *uint64
}

// GetLeagueTeams lists a league's teams and its owner, the earliest queued participant.
func (s *MatchmakingService) GetLeagueTeams(ctx context.Context, leagueRoomID uint64) (*LeagueTeams, error) {
	teams, err := s.store.Teams().ListByLeague(ctx, leagueRoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league teams: %w", err)
	}

	result := &LeagueTeams{Teams: teams}
	owner, err := s.store.WaitingRooms().FindLeagueOwner(ctx, leagueRoomID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to find league owner: %w", err)
	}
	if owner != nil {
		id := owner.UserID
		result.OwnerID = &id
	}
	return result, nil
}

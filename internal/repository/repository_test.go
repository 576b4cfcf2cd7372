package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/stride-league-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type StoreSuite struct {
	suite.Suite
	db    *gorm.DB
	store Store
	ctx   context.Context
	now   time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.LeagueRoom{},
		&models.WaitingRoom{},
		&models.WaitingRoomEntry{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Challenge{},
		&models.TeamChallenge{},
		&models.UserContribution{},
	))

	s.db = db
	s.store = NewStore(db)
	s.ctx = context.Background()
	s.now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *StoreSuite) createUser(name string) *models.User {
	user := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "hash"}
	s.Require().NoError(s.store.Users().Create(s.ctx, user))
	return user
}

func (s *StoreSuite) createTeamChallenge(length float64) *models.TeamChallenge {
	league := &models.LeagueRoom{Name: "League", CreatedAt: s.now}
	s.Require().NoError(s.store.Leagues().Create(s.ctx, league))
	team := &models.Team{Name: "Team", LeagueRoomID: league.ID}
	s.Require().NoError(s.store.Teams().Create(s.ctx, team, nil))
	ch := &models.Challenge{StartTime: s.now, Duration: 1440, Length: length, Difficulty: models.DifficultyEasy, EarningPoints: 22}
	s.Require().NoError(s.store.Challenges().Create(s.ctx, ch))
	tc := &models.TeamChallenge{TeamID: team.ID, ChallengeID: ch.ID, CreatedAt: s.now}
	s.Require().NoError(s.store.Challenges().CreateTeamChallenge(s.ctx, tc))
	return tc
}

func (s *StoreSuite) TestTransactionRollsBack() {
	boom := errors.New("boom")
	err := s.store.Transaction(s.ctx, func(tx Store) error {
		user := &models.User{Name: "ghost", Email: "ghost@example.com", PasswordHash: "hash"}
		s.Require().NoError(tx.Users().Create(s.ctx, user))
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.Users().FindByEmail(s.ctx, "ghost@example.com")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *StoreSuite) TestAssignEntriesOnlyMovesUnassigned() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	room := &models.WaitingRoom{}
	s.Require().NoError(s.store.WaitingRooms().CreateRoom(s.ctx, room))

	var ids []uint64
	for _, u := range []*models.User{alice, bob} {
		entry := &models.WaitingRoomEntry{WaitingRoomID: room.ID, UserID: u.ID, Status: models.WaitingRoomUnassigned}
		s.Require().NoError(s.store.WaitingRooms().AddEntry(s.ctx, entry))
		ids = append(ids, entry.ID)
	}

	league := &models.LeagueRoom{Name: "League", CreatedAt: s.now}
	s.Require().NoError(s.store.Leagues().Create(s.ctx, league))

	moved, err := s.store.WaitingRooms().AssignEntries(s.ctx, ids, league.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), moved)

	moved, err = s.store.WaitingRooms().AssignEntries(s.ctx, ids, league.ID)
	s.Require().NoError(err)
	s.Zero(moved)

	count, err := s.store.WaitingRooms().CountUnassigned(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Zero(count)

	users, err := s.store.WaitingRooms().ListUsers(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Len(users, 2)

	entry, err := s.store.WaitingRooms().FindActiveLeagueEntry(s.ctx, alice.ID, s.now.AddDate(0, 0, -7))
	s.Require().NoError(err)
	s.Require().NotNil(entry.LeagueRoom)
	s.Equal(league.ID, entry.LeagueRoom.ID)
}

func (s *StoreSuite) TestMarkCompletedOnce() {
	tc := s.createTeamChallenge(5)

	first, err := s.store.Challenges().MarkCompleted(s.ctx, tc.ID, s.now)
	s.Require().NoError(err)
	s.True(first)

	second, err := s.store.Challenges().MarkCompleted(s.ctx, tc.ID, s.now)
	s.Require().NoError(err)
	s.False(second)

	_, err = s.store.Challenges().FindLatestActiveForTeam(s.ctx, tc.TeamID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *StoreSuite) TestSumDistancesSplitsDuo() {
	tc := s.createTeamChallenge(5)
	user := s.createUser("carol")

	for _, c := range []struct {
		distance float64
		journey  models.JourneyType
	}{
		{2000, models.JourneySolo},
		{3500, models.JourneyDuo},
	} {
		s.Require().NoError(s.store.Contributions().Create(s.ctx, &models.UserContribution{
			TeamChallengeID: tc.ID,
			UserID:          user.ID,
			StartTime:       s.now,
			EndTime:         s.now,
			DistanceCovered: c.distance,
			JourneyType:     c.journey,
		}))
	}

	totals, err := s.store.Contributions().SumDistances(s.ctx, tc.ID)
	s.Require().NoError(err)
	s.InDelta(5500, totals.Total, 1e-9)
	s.InDelta(3500, totals.Duo, 1e-9)

	empty, err := s.store.Contributions().SumDistances(s.ctx, tc.ID+100)
	s.Require().NoError(err)
	s.Zero(empty.Total)
}

func (s *StoreSuite) TestFindActiveForTeamBetween() {
	tc := s.createTeamChallenge(5)
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	found, err := s.store.Challenges().FindActiveForTeamBetween(s.ctx, tc.TeamID, day, day.AddDate(0, 0, 1))
	s.Require().NoError(err)
	s.Equal(tc.ID, found.ID)

	_, err = s.store.Challenges().FindActiveForTeamBetween(s.ctx, tc.TeamID, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *StoreSuite) TestResetStreakHonorsCutoff() {
	league := &models.LeagueRoom{Name: "League", CreatedAt: s.now}
	s.Require().NoError(s.store.Leagues().Create(s.ctx, league))
	team := &models.Team{Name: "Team", LeagueRoomID: league.ID}
	s.Require().NoError(s.store.Teams().Create(s.ctx, team, nil))

	today := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	s.Require().NoError(s.store.Teams().UpdateStreak(s.ctx, team.ID, 4, &today, 0))

	changed, err := s.store.Teams().ResetStreak(s.ctx, team.ID, yesterday)
	s.Require().NoError(err)
	s.False(changed)

	stored, err := s.store.Teams().FindByID(s.ctx, team.ID)
	s.Require().NoError(err)
	s.Equal(4, stored.CurrentStreak)

	twoDaysAgo := today.AddDate(0, 0, -2)
	s.Require().NoError(s.store.Teams().UpdateStreak(s.ctx, team.ID, 4, &twoDaysAgo, 0))

	changed, err = s.store.Teams().ResetStreak(s.ctx, team.ID, yesterday)
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.store.Teams().ResetStreak(s.ctx, team.ID, yesterday)
	s.Require().NoError(err)
	s.False(changed)
}

func (s *StoreSuite) TestFindByIDsForUpdate() {
	bob := s.createUser("bob")
	ann := s.createUser("ann")

	var users []models.User
	err := s.store.Transaction(s.ctx, func(tx Store) error {
		var err error
		users, err = tx.Users().FindByIDsForUpdate(s.ctx, []uint64{ann.ID, bob.ID, 999})
		return err
	})
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal(bob.ID, users[0].ID)
	s.Equal(ann.ID, users[1].ID)

	_, err = s.store.Users().FindByIDForUpdate(s.ctx, 999)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func TestFindByIDs_Empty(t *testing.T) {
	repo := NewUserRepository(nil)
	users, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

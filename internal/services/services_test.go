package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/stride-league-api/internal/database"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testClock is a Clock whose time only moves when a test says so.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) AddDays(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

func newTestStore(t *testing.T) repository.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig("release"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return repository.NewStore(db)
}

func createUsers(t *testing.T, store repository.Store, n int) []models.User {
	t.Helper()

	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			Name:         fmt.Sprintf("runner%d", i+1),
			Email:        fmt.Sprintf("runner%d@example.com", i+1),
			PasswordHash: "hashedpassword",
		}
		require.NoError(t, store.Users().Create(context.Background(), &users[i]))
	}
	return users
}

func identityShuffle(int, func(i, j int)) {}

// createTeam forms a league holding a single team of the given users.
func createTeam(t *testing.T, store repository.Store, clock *testClock, users ...models.User) *models.Team {
	t.Helper()
	ctx := context.Background()

	league := &models.LeagueRoom{Name: "Test League", CreatedAt: clock.Now()}
	require.NoError(t, store.Leagues().Create(ctx, league))

	ids := make([]uint64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	team, err := NewMatchmakingService(store, clock.Now, identityShuffle).CreateTeam(ctx, CreateTeamInput{
		UserIDs:      ids,
		LeagueRoomID: league.ID,
	})
	require.NoError(t, err)
	return team
}

func createChallenge(t *testing.T, store repository.Store, clock *testClock, length float64, points int) *models.Challenge {
	t.Helper()

	ch := &models.Challenge{
		Title:         "Test Challenge",
		StartTime:     clock.Now(),
		Duration:      1440,
		Length:        length,
		Difficulty:    models.DifficultyMedium,
		EarningPoints: points,
		CreatedAt:     clock.Now(),
	}
	require.NoError(t, store.Challenges().Create(context.Background(), ch))
	return ch
}

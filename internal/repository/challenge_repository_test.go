package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		mockDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormChallengeRepository_MarkCompletedIsConditional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChallengeRepository(db)

	update := regexp.QuoteMeta(`UPDATE "team_challenges" SET`) + `.*WHERE id = \$\d+ AND iscompleted = \$\d+`
	mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	first, err := repo.MarkCompleted(ctx, 7, now)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.MarkCompleted(ctx, 7, now)
	require.NoError(t, err)
	assert.False(t, second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTeamRepository_FindByIDForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "teams" WHERE "teams"."id" = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "league_room_id", "current_streak"}).
			AddRow(3, "Ann & Bob", 1, 2))

	team, err := repo.FindByIDForUpdate(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), team.ID)
	assert.Equal(t, 2, team.CurrentStreak)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormContributionRepository_SumDistances(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContributionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(distance_covered), 0) AS total`)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "duo"}).AddRow(5500.0, 3500.0))

	totals, err := repo.SumDistances(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 5500.0, totals.Total)
	assert.Equal(t, 3500.0, totals.Duo)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_ForUpdateLocksRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(4, "Ann", "ann@example.com"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(4, "Ann", "ann@example.com").
			AddRow(5, "Bob", "bob@example.com"))

	ctx := context.Background()

	user, err := repo.FindByIDForUpdate(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	users, err := repo.FindByIDsForUpdate(ctx, []uint64{5, 4})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTeamRepository_ResetStreakChecksLastCompletion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "teams" SET "current_streak"=`) + `.*current_streak <> 0.*last_completion_date < \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.ResetStreak(context.Background(), 3, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, mock.ExpectationsWereMet())
}

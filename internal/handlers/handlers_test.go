package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/stride-league-api/internal/challenge"
	"github.com/yukikurage/stride-league-api/internal/constants"
	"github.com/yukikurage/stride-league-api/internal/database"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/repository"
	"github.com/yukikurage/stride-league-api/internal/services"
	"github.com/yukikurage/stride-league-api/internal/streak"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	store  repository.Store
}

func identityShuffle(int, func(i, j int)) {}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig("release"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(database.Models()...))

	store := repository.NewStore(db)
	authService := services.NewAuthService(store.Users())
	streakService := services.NewStreakService(store, streak.Policy{BonusPoints: 25, BonusInterval: 3}, nil)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, Handlers{
		Auth:        NewAuthHandler(authService),
		Matchmaking: NewMatchmakingHandler(services.NewMatchmakingService(store, nil, identityShuffle)),
		Challenge: NewChallengeHandler(
			services.NewChallengeService(store.Challenges(), challenge.NewGenerator(rand.New(rand.NewSource(1))), nil, nil),
			services.NewAssignmentService(store, nil),
		),
		Contribution: NewContributionHandler(services.NewContributionService(store, streakService, nil)),
		Scoring:      NewScoringHandler(services.NewScoringService(store), streakService),
	})

	return testEnv{router: r, store: store}
}

func (e testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e testEnv) post(t *testing.T, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/api/v1"+path, body, cookies...)
}

func (e testEnv) createUsers(t *testing.T, n int) []models.User {
	t.Helper()

	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			Name:         string(rune('A' + i)),
			Email:        string(rune('a'+i)) + "@example.com",
			PasswordHash: "hashedpassword",
		}
		require.NoError(t, e.store.Users().Create(context.Background(), &users[i]))
	}
	return users
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func jsonDecode(w *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_SignupLoginLogout(t *testing.T) {
	env := setupTestEnv(t)

	w := env.post(t, "/user_signup", map[string]string{
		"email":    "a@x.com",
		"password": "p",
		"username": "A",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	signup := decode(t, w)
	assert.Equal(t, "User created successfully", signup["message"])
	assert.Equal(t, "a@x.com", signup["email"])
	assert.Equal(t, "A", signup["username"])
	userID := signup["id"].(float64)
	assert.NotZero(t, userID)

	w = env.post(t, "/user_login", map[string]string{"email": "a@x.com", "password": "p"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode(t, w)
	assert.Equal(t, "Login successful", login["message"])
	assert.Equal(t, userID, login["id"])
	assert.Equal(t, "A", login["name"])
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = env.post(t, "/current_user", map[string]string{}, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, userID, decode(t, w)["user_id"])

	w = env.post(t, "/user_logout", map[string]interface{}{"user_id": userID}, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Logged out successfully", decode(t, w)["message"])
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupTestEnv(t)

	w := env.post(t, "/user_signup", map[string]string{"email": "a@x.com", "password": "p", "username": "A"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.post(t, "/user_login", map[string]string{"email": "a@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = env.post(t, "/user_login", map[string]string{"email": "missing@x.com", "password": "p"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)

	w := env.post(t, "/user_signup", map[string]string{"email": "a@x.com", "password": "p", "username": "A"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.post(t, "/user_signup", map[string]string{"email": "A@X.com", "password": "q", "username": "B"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_EXISTS", decode(t, w)["code"])
}

func TestAuthHandler_Validation(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name    string
		body    interface{}
		message string
		details int
	}{
		{"empty body", "", "Request body cannot be empty", 0},
		{"malformed json", "{", "Invalid JSON body", 0},
		{"missing fields", map[string]string{}, "Validation failed", 3},
		{"empty password", map[string]string{"email": "a@x.com", "password": "", "username": "A"}, "Validation failed", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.post(t, "/user_signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.message, body["error"])
			if tt.details > 0 {
				assert.Len(t, body["details"], tt.details)
			} else {
				assert.Nil(t, body["details"])
			}
		})
	}
}

func TestAuthHandler_CurrentUserRequiresSession(t *testing.T) {
	env := setupTestEnv(t)

	w := env.post(t, "/current_user", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_MethodNotAllowedAndNotFound(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/user_login", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", decode(t, w)["error"])

	w = env.do(t, http.MethodPost, "/api/v1/unknown", map[string]string{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

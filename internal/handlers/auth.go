package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/stride-league-api/internal/constants"
	"github.com/yukikurage/stride-league-api/internal/dto"
	apierrors "github.com/yukikurage/stride-league-api/internal/errors"
	"github.com/yukikurage/stride-league-api/internal/middleware"
	"github.com/yukikurage/stride-league-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Username *string `json:"username"`
	}

	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireString("email", req.Email)
	errs.requireString("password", req.Password)
	errs.requireString("username", req.Username)
	if errs.respond(c) {
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:    *req.Email,
		Password: *req.Password,
		Username: *req.Username,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		Message:  "User created successfully",
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Name,
	})
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireString("email", req.Email)
	errs.requireString("password", req.Password)
	if errs.respond(c) {
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    *req.Email,
		Password: *req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	type LogoutRequest struct {
		UserID *uint64 `json:"user_id"`
	}

	var req LogoutRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("user_id", req.UserID)
	if errs.respond(c) {
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

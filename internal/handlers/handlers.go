package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	apierrors "github.com/yukikurage/stride-league-api/internal/errors"
	"github.com/yukikurage/stride-league-api/internal/services"
)

// bindJSON decodes the request body and writes a 400 when it is missing or malformed.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			apierrors.BadRequest(c, "Request body cannot be empty")
			return false
		}
		apierrors.BadRequest(c, "Invalid JSON body")
		return false
	}
	return true
}

// fieldErrors collects validation failures so they can be reported together.
type fieldErrors []string

func (f *fieldErrors) add(msg string) {
	*f = append(*f, msg)
}

func (f *fieldErrors) requireID(name string, v *uint64) {
	if v == nil || *v == 0 {
		f.add(name + " is required and must be a positive integer")
	}
}

func (f *fieldErrors) requireString(name string, v *string) {
	if v == nil || *v == "" {
		f.add(name + " is required and must be a non-empty string")
	}
}

// respond writes a 400 with details and reports whether any failures were collected.
func (f fieldErrors) respond(c *gin.Context) bool {
	if len(f) == 0 {
		return false
	}
	apierrors.BadRequestWithDetails(c, "Validation failed", []string(f))
	return true
}

func respondServiceError(c *gin.Context, err error) {
	var roomConflict *services.WaitingRoomConflictError
	switch {
	case errors.As(err, &roomConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":           "User is already in a waiting room",
			"code":            apierrors.ErrCodeAlreadyInWaitingRoom,
			"waiting_room_id": roomConflict.WaitingRoomID,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, apierrors.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, services.ErrWaitingRoomChanged):
		apierrors.Conflict(c, "", err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrLeagueNotFound),
		errors.Is(err, services.ErrChallengeNotFound),
		errors.Is(err, services.ErrWaitingRoomNotFound),
		errors.Is(err, services.ErrNotInWaitingRoom),
		errors.Is(err, services.ErrContributionMissing):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrNotEnoughParticipants),
		errors.Is(err, services.ErrOddParticipants),
		errors.Is(err, services.ErrInvalidTeamMembers),
		errors.Is(err, services.ErrUserAlreadyInTeam),
		errors.Is(err, services.ErrLeagueEnded),
		errors.Is(err, services.ErrNoActiveTeam),
		errors.Is(err, services.ErrNoActiveChallenge),
		errors.Is(err, services.ErrChallengeAlreadyAssigned),
		errors.Is(err, services.ErrTeamHasActiveChallenge),
		errors.Is(err, services.ErrInvalidDifficulty),
		errors.Is(err, services.ErrInvalidChallenge):
		apierrors.BadRequest(c, err.Error())
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		apierrors.InternalError(c, "")
	}
}

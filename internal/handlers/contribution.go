package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/stride-league-api/internal/dto"
	apierrors "github.com/yukikurage/stride-league-api/internal/errors"
	"github.com/yukikurage/stride-league-api/internal/gpx"
	"github.com/yukikurage/stride-league-api/internal/models"
	"github.com/yukikurage/stride-league-api/internal/services"
)

// ContributionHandler serves the contribution ledger endpoints.
type ContributionHandler struct {
	contributionService *services.ContributionService
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(contributionService *services.ContributionService) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
	}
}

type segmentRequest struct {
	UserID              *uint64             `json:"user_id"`
	StartTime           *time.Time          `json:"start_time"`
	EndTime             *time.Time          `json:"end_time"`
	StartLatitude       *float64            `json:"start_latitude"`
	StartLongitude      *float64            `json:"start_longitude"`
	EndLatitude         *float64            `json:"end_latitude"`
	EndLongitude        *float64            `json:"end_longitude"`
	DistanceCovered     *float64            `json:"distance_covered"`
	Route               []models.RoutePoint `json:"route"`
	JourneyType         *string             `json:"journey_type"`
	ContributionDetails string              `json:"contribution_details"`
}

func (r segmentRequest) validate(requireCoordinates bool) fieldErrors {
	var errs fieldErrors
	errs.requireID("user_id", r.UserID)
	if r.StartTime == nil {
		errs.add("start_time is required and must be an RFC 3339 timestamp")
	}
	if r.StartTime != nil && r.EndTime != nil && r.EndTime.Before(*r.StartTime) {
		errs.add("end_time must not be before start_time")
	}
	if r.DistanceCovered == nil || *r.DistanceCovered < 0 {
		errs.add("distance_covered is required and must be a non-negative number of metres")
	}
	coords := []struct {
		name  string
		value *float64
		limit float64
	}{
		{"start_latitude", r.StartLatitude, 90},
		{"start_longitude", r.StartLongitude, 180},
		{"end_latitude", r.EndLatitude, 90},
		{"end_longitude", r.EndLongitude, 180},
	}
	for _, coord := range coords {
		if coord.value == nil {
			if requireCoordinates {
				errs.add(coord.name + " is required")
			}
			continue
		}
		if *coord.value < -coord.limit || *coord.value > coord.limit {
			errs.add(fmt.Sprintf("%s must be between -%g and %g", coord.name, coord.limit, coord.limit))
		}
	}
	if r.JourneyType != nil {
		switch models.JourneyType(*r.JourneyType) {
		case models.JourneySolo, models.JourneyDuo:
		default:
			errs.add("journey_type must be one of solo, duo")
		}
	}
	return errs
}

func (r segmentRequest) input() services.ContributionInput {
	in := services.ContributionInput{
		UserID:          *r.UserID,
		StartTime:       *r.StartTime,
		EndTime:         r.EndTime,
		StartLatitude:   r.StartLatitude,
		StartLongitude:  r.StartLongitude,
		EndLatitude:     r.EndLatitude,
		EndLongitude:    r.EndLongitude,
		DistanceCovered: *r.DistanceCovered,
		Route:           r.Route,
		Details:         r.ContributionDetails,
	}
	if r.JourneyType != nil {
		in.JourneyType = models.JourneyType(*r.JourneyType)
	}
	return in
}

// CreateUserContribution records a movement segment for the user's team.
func (h *ContributionHandler) CreateUserContribution(c *gin.Context) {
	var req segmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.validate(false).respond(c) {
		return
	}

	result, err := h.contributionService.Record(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.ToContributionDTO(*result)})
}

// CompleteTeamChallenge records the final solo segment of a challenge and settles completion.
func (h *ContributionHandler) CompleteTeamChallenge(c *gin.Context) {
	var req segmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.validate(true).respond(c) {
		return
	}

	input := req.input()
	input.JourneyType = models.JourneySolo
	input.Route = nil

	result, err := h.contributionService.Record(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompletionSummaryDTO(*result))
}

// GetContributionRoute exports a contribution's route as GPX.
func (h *ContributionHandler) GetContributionRoute(c *gin.Context) {
	type GetContributionRouteRequest struct {
		ContributionID *uint64 `json:"contribution_id"`
	}

	var req GetContributionRouteRequest
	if !bindJSON(c, &req) {
		return
	}
	var errs fieldErrors
	errs.requireID("contribution_id", req.ContributionID)
	if errs.respond(c) {
		return
	}

	contribution, points, err := h.contributionService.Route(c.Request.Context(), *req.ContributionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	name := fmt.Sprintf("Contribution %d", contribution.ID)
	data, err := gpx.Encode(name, points)
	if err != nil {
		apierrors.InternalError(c, "Failed to encode route")
		return
	}

	c.Header("X-Route-Length-Meters", strconv.FormatFloat(gpx.Length2D(points), 'f', 1, 64))
	c.Data(http.StatusOK, "application/gpx+xml", data)
}

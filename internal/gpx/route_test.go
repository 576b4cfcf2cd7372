package gpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkrajina/gpxgo/gpx"
	"github.com/yukikurage/stride-league-api/internal/models"
)

func TestEncode_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 10, 16, 7, 30, 0, 0, time.UTC)
	points := []models.RoutePoint{
		{Latitude: 51.5007, Longitude: -0.1246, Timestamp: &ts},
		{Latitude: 51.5014, Longitude: -0.1419},
	}

	data, err := Encode("Morning run", points)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Morning run")

	parsed, err := gpx.ParseBytes(data)
	require.NoError(t, err)
	require.Len(t, parsed.Tracks, 1)
	require.Len(t, parsed.Tracks[0].Segments, 1)
	got := parsed.Tracks[0].Segments[0].Points
	require.Len(t, got, 2)
	assert.InDelta(t, 51.5007, got[0].Latitude, 1e-9)
	assert.InDelta(t, -0.1419, got[1].Longitude, 1e-9)
	assert.True(t, got[0].Timestamp.Equal(ts))
}

func TestEncode_EmptyRoute(t *testing.T) {
	data, err := Encode("empty", nil)
	require.NoError(t, err)

	parsed, err := gpx.ParseBytes(data)
	require.NoError(t, err)
	require.Len(t, parsed.Tracks, 1)
	assert.Empty(t, parsed.Tracks[0].Segments)
}

func TestLength2D(t *testing.T) {
	points := []models.RoutePoint{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 0.01},
	}
	// 0.01 degrees of longitude at the equator is roughly 1.11 km.
	assert.InDelta(t, 1113, Length2D(points), 15)
	assert.Zero(t, Length2D(nil))
}

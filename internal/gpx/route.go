// Package gpx exports recorded contribution routes as GPX 1.1 tracks.
package gpx

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
	"github.com/yukikurage/stride-league-api/internal/models"
)

const creator = "stride-league-api"

// Build converts route points into a single-track GPX document. Points without a timestamp
// are written without a <time> element.
func Build(name string, points []models.RoutePoint) *gpx.GPX {
	segment := gpx.GPXTrackSegment{}
	for _, p := range points {
		point := gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
			},
		}
		if p.Timestamp != nil {
			point.Timestamp = p.Timestamp.UTC()
		}
		segment.Points = append(segment.Points, point)
	}

	track := gpx.GPXTrack{Name: name}
	if len(segment.Points) > 0 {
		track.Segments = append(track.Segments, segment)
	}

	return &gpx.GPX{
		Version: "1.1",
		Creator: creator,
		Name:    name,
		Tracks:  []gpx.GPXTrack{track},
	}
}

// Encode renders the route as indented GPX 1.1 XML.
func Encode(name string, points []models.RoutePoint) ([]byte, error) {
	data, err := Build(name, points).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode gpx: %w", err)
	}
	return data, nil
}

// Length2D returns the route's horizontal length in metres.
func Length2D(points []models.RoutePoint) float64 {
	return Build("", points).Length2D()
}

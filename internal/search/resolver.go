// Package search turns free-text queries into a coordinate or a station.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/i474232898/cwa-station-overlay/internal/common"
	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

// ErrInvalidCoordinate is returned for a well-formed "lat, lon" query whose
// values are outside the valid ranges.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

var coordinatePattern = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)\s*,\s*([+-]?\d+(?:\.\d+)?)$`)

// Kind tags a Result.
type Kind string

const (
	KindCoordinate   Kind = "coordinate"
	KindStationMatch Kind = "station"
	KindNotFound     Kind = "notFound"
)

// Result is the outcome of a query. Position is set for coordinates,
// Station for station matches.
type Result struct {
	Kind     Kind                   `json:"kind"`
	Position *weather.Position      `json:"position,omitempty"`
	Station  *weather.StationRecord `json:"station,omitempty"`
}

// Stations lists records in registry iteration order.
type Stations interface {
	All() []weather.StationRecord
}

// Resolver reads the registry; it never writes.
type Resolver struct {
	stations Stations
}

func NewResolver(stations Stations) *Resolver {
	return &Resolver{stations: stations}
}

// Resolve parses query as "lat, lon" first and falls back to a case-insensitive
// substring match on station name and id. The first station in registry order
// wins.
func (r *Resolver) Resolve(query string) (Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Result{Kind: KindNotFound}, nil
	}

	if m := coordinatePattern.FindStringSubmatch(q); m != nil {
		pos, err := parseCoordinate(m[1], m[2])
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: KindCoordinate, Position: &pos}, nil
	}

	for _, rec := range r.stations.All() {
		if common.AnyContainsFold(q, rec.Name, rec.ID) {
			return Result{Kind: KindStationMatch, Station: &rec}, nil
		}
	}
	return Result{Kind: KindNotFound}, nil
}

func parseCoordinate(latText, lonText string) (weather.Position, error) {
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil {
		return weather.Position{}, fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}
	lon, err := strconv.ParseFloat(lonText, 64)
	if err != nil {
		return weather.Position{}, fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}
	if lat < -90 || lat > 90 {
		return weather.Position{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, lat)
	}
	if lon < -180 || lon > 180 {
		return weather.Position{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, lon)
	}
	return weather.Position{Lat: lat, Lon: lon}, nil
}

// Package measure describes shapes drawn on the map: circle radius, path
// length and polygon area on the WGS-84 sphere.
package measure

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

var (
	ErrTooFewPoints = errors.New("shape has too few points")
	ErrUnknownKind  = errors.New("unknown shape kind")
)

// Shape is one of Circle, Path or Polygon.
type Shape interface {
	// Describe returns the popup text for the shape.
	Describe() (string, error)
	shape()
}

type Circle struct {
	Center weather.Position
	Radius float64 // meters
}

type Path struct {
	Points []weather.Position
}

// Polygon holds an outer ring followed by optional holes. Only the outer ring
// is measured, as the drawing tool produces no holes.
type Polygon struct {
	Rings [][]weather.Position
}

func (Circle) shape()  {}
func (Path) shape()    {}
func (Polygon) shape() {}

func (c Circle) Describe() (string, error) {
	return fmt.Sprintf("Center: (%s, %s), radius: %.0f m",
		strconv.FormatFloat(c.Center.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Center.Lon, 'f', -1, 64),
		c.Radius,
	), nil
}

func (p Path) Describe() (string, error) {
	d, err := p.Length()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Distance: %.2f m", d), nil
}

func (p Polygon) Describe() (string, error) {
	a, err := p.Area()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Area: %.2f km²", a/1e6), nil
}

// Length is the sum of haversine distances between consecutive points, in meters.
func (p Path) Length() (float64, error) {
	if len(p.Points) < 2 {
		return 0, fmt.Errorf("%w: path needs 2, got %d", ErrTooFewPoints, len(p.Points))
	}
	ls := lineString(p.Points)
	var total float64
	for i := 1; i < len(ls); i++ {
		total += geo.DistanceHaversine(ls[i-1], ls[i])
	}
	return total, nil
}

// Area is the geodesic area of the outer ring in square meters.
func (p Polygon) Area() (float64, error) {
	if len(p.Rings) == 0 || len(p.Rings[0]) < 3 {
		return 0, fmt.Errorf("%w: polygon needs an outer ring of 3", ErrTooFewPoints)
	}
	ring := orb.Ring(lineString(p.Rings[0]))
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return math.Abs(geo.Area(ring)), nil
}

// orb points are (lon, lat).
func lineString(ps []weather.Position) orb.LineString {
	ls := make(orb.LineString, 0, len(ps))
	for _, p := range ps {
		ls = append(ls, orb.Point{p.Lon, p.Lat})
	}
	return ls
}

// Request is the wire form of a shape.
type Request struct {
	Kind   string               `json:"kind" validate:"required,oneof=circle path polygon"`
	Center *weather.Position    `json:"center,omitempty" validate:"required_if=Kind circle"`
	Radius float64              `json:"radius,omitempty" validate:"gte=0"`
	Points []weather.Position   `json:"points,omitempty" validate:"required_if=Kind path"`
	Rings  [][]weather.Position `json:"rings,omitempty" validate:"required_if=Kind polygon"`
}

// Shape converts the request into its variant.
func (r Request) Shape() (Shape, error) {
	switch r.Kind {
	case "circle":
		if r.Center == nil {
			return nil, fmt.Errorf("%w: circle needs a center", ErrTooFewPoints)
		}
		return Circle{Center: *r.Center, Radius: r.Radius}, nil
	case "path":
		return Path{Points: r.Points}, nil
	case "polygon":
		return Polygon{Rings: r.Rings}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
}

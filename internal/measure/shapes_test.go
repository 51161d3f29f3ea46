package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

func TestCircle_Describe(t *testing.T) {
	got, err := Circle{Center: weather.Position{Lat: 25.0376, Lon: 121.5148}, Radius: 249.6}.Describe()
	require.NoError(t, err)
	assert.Equal(t, "Center: (25.0376, 121.5148), radius: 250 m", got)
}

func TestPath_Length(t *testing.T) {
	p := Path{Points: []weather.Position{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}}}

	d, err := p.Length()
	require.NoError(t, err)
	// One degree of longitude on the equator of a 6378137 m sphere.
	assert.InDelta(t, 2*111319.49, d, 1)

	_, err = Path{Points: []weather.Position{{}}}.Length()
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestPolygon_Area(t *testing.T) {
	square := []weather.Position{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.01},
		{Lat: 0.01, Lon: 0.01},
		{Lat: 0.01, Lon: 0},
	}

	a, err := Polygon{Rings: [][]weather.Position{square}}.Area()
	require.NoError(t, err)
	assert.InDelta(t, 1.239e6, a, 5e3)

	desc, err := Polygon{Rings: [][]weather.Position{square}}.Describe()
	require.NoError(t, err)
	assert.Equal(t, "Area: 1.24 km²", desc)

	_, err = Polygon{}.Area()
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestRequest_Shape(t *testing.T) {
	s, err := Request{Kind: "circle", Center: &weather.Position{Lat: 1, Lon: 2}, Radius: 10}.Shape()
	require.NoError(t, err)
	assert.Equal(t, Circle{Center: weather.Position{Lat: 1, Lon: 2}, Radius: 10}, s)

	s, err = Request{Kind: "path", Points: []weather.Position{{}, {Lat: 1}}}.Shape()
	require.NoError(t, err)
	assert.IsType(t, Path{}, s)

	_, err = Request{Kind: "hexagon"}.Shape()
	assert.ErrorIs(t, err, ErrUnknownKind)
}

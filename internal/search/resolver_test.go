package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

type fakeStations []weather.StationRecord

func (f fakeStations) All() []weather.StationRecord { return f }

func newTestResolver() *Resolver {
	return NewResolver(fakeStations{
		{ID: "466920", Name: "Taipei"},
		{ID: "C0A520", Name: "Shanjia"},
		{ID: "C0AC70", Name: "Xinyi"},
		{ID: "A0A010", Name: "Taipei Zoo"},
	})
}

func TestResolve_Coordinate(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		query    string
		lat, lon float64
	}{
		{" 25.05 , 121.52 ", 25.05, 121.52},
		{"25,121", 25, 121},
		{"-33.8688,+151.2093", -33.8688, 151.2093},
		{"90, -180", 90, -180},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res, err := r.Resolve(tt.query)
			require.NoError(t, err)
			assert.Equal(t, KindCoordinate, res.Kind)
			require.NotNil(t, res.Position)
			assert.Equal(t, weather.Position{Lat: tt.lat, Lon: tt.lon}, *res.Position)
		})
	}
}

func TestResolve_InvalidCoordinate(t *testing.T) {
	r := newTestResolver()

	for _, q := range []string{"95,120", "-90.5, 0", "10, 180.01"} {
		t.Run(q, func(t *testing.T) {
			_, err := r.Resolve(q)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestResolve_StationMatch(t *testing.T) {
	r := newTestResolver()

	t.Run("first match in registry order wins", func(t *testing.T) {
		res, err := r.Resolve("taipei")
		require.NoError(t, err)
		assert.Equal(t, KindStationMatch, res.Kind)
		require.NotNil(t, res.Station)
		assert.Equal(t, "466920", res.Station.ID)
	})

	t.Run("matches id case-insensitively", func(t *testing.T) {
		res, err := r.Resolve("c0ac")
		require.NoError(t, err)
		require.NotNil(t, res.Station)
		assert.Equal(t, "Xinyi", res.Station.Name)
	})

	t.Run("malformed coordinate falls back to text search", func(t *testing.T) {
		res, err := r.Resolve("25.05,")
		require.NoError(t, err)
		assert.Equal(t, KindNotFound, res.Kind)
	})
}

func TestResolve_NotFound(t *testing.T) {
	r := newTestResolver()

	for _, q := range []string{"", "   ", "Hualien"} {
		res, err := r.Resolve(q)
		require.NoError(t, err)
		assert.Equal(t, KindNotFound, res.Kind, "query %q", q)
	}
}

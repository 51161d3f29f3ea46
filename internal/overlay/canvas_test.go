package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

func TestCanvas_LayerVisibility(t *testing.T) {
	c := NewCanvas(weather.Position{}, 10)

	a := c.AddMarker(weather.Position{Lat: 1, Lon: 1}, IconRed)
	require.NoError(t, c.AddToLayer(a, LayerAutomatic))
	r := c.AddMarker(weather.Position{Lat: 2, Lon: 2}, IconBlue)
	require.NoError(t, c.AddToLayer(r, LayerRainfall))

	require.NoError(t, c.SetLayerVisible(LayerRainfall, false))

	snap := c.Snapshot()
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, a, snap.Markers[0].ID)
	assert.Equal(t, []LayerView{
		{Name: LayerAutomatic, Visible: true, Markers: 1},
		{Name: LayerMesoscale, Visible: true, Markers: 0},
		{Name: LayerRainfall, Visible: false, Markers: 1},
	}, snap.Layers)

	require.NoError(t, c.SetLayerVisible(LayerRainfall, true))
	assert.Len(t, c.Snapshot().Markers, 2)
}

func TestCanvas_UnknownTargets(t *testing.T) {
	c := NewCanvas(weather.Position{}, 10)

	assert.ErrorIs(t, c.SetLayerVisible("satellite", true), ErrUnknownLayer)
	assert.ErrorIs(t, c.BindPopup("missing", "x"), ErrUnknownMarker)
	assert.ErrorIs(t, c.RemoveMarker("missing"), ErrUnknownMarker)

	id := c.AddMarker(weather.Position{}, IconDefault)
	assert.ErrorIs(t, c.AddToLayer(id, "satellite"), ErrUnknownLayer)
}

func TestCanvas_SinglePopupOpen(t *testing.T) {
	c := NewCanvas(weather.Position{}, 10)
	a := c.AddMarker(weather.Position{Lat: 1}, IconRed)
	b := c.AddMarker(weather.Position{Lat: 2}, IconRed)

	require.NoError(t, c.OpenPopup(a))
	require.NoError(t, c.OpenPopup(b))

	snap := c.Snapshot()
	assert.False(t, snap.Markers[0].PopupOpen)
	assert.True(t, snap.Markers[1].PopupOpen)
}

func TestNavigator(t *testing.T) {
	f := newFixture(t)
	nav := NewNavigator(f.canvas, f.markers, 15)

	t.Run("coordinate places one transient marker", func(t *testing.T) {
		_, err := nav.FocusCoordinate(weather.Position{Lat: 25.05, Lon: 121.52})
		require.NoError(t, err)
		id, err := nav.FocusCoordinate(weather.Position{Lat: 23.5, Lon: 120.123456})
		require.NoError(t, err)

		snap := f.canvas.Snapshot()
		require.Len(t, snap.Markers, 1)
		assert.Equal(t, id, snap.Markers[0].ID)
		assert.Equal(t, IconDefault, snap.Markers[0].Icon)
		assert.True(t, snap.Markers[0].PopupOpen)
		assert.Equal(t, "<b>Custom location</b><br>Lat: 23.5000, Lon: 120.1235", snap.Markers[0].Popup)
		assert.Equal(t, weather.Position{Lat: 23.5, Lon: 120.123456}, snap.Center)
		assert.Equal(t, 15, snap.Zoom)
	})

	t.Run("station opens its popup and clears the transient marker", func(t *testing.T) {
		f.ingest(weather.OriginFixedStation, fixedObs("S1", 28))
		rec, ok := f.registry.Get("S1")
		require.True(t, ok)

		id, err := nav.FocusStation(rec)
		require.NoError(t, err)

		snap := f.canvas.Snapshot()
		require.Len(t, snap.Markers, 1)
		assert.Equal(t, id, snap.Markers[0].ID)
		assert.True(t, snap.Markers[0].PopupOpen)
		assert.Equal(t, *rec.Position, snap.Center)
	})

	t.Run("clear removes only the transient marker", func(t *testing.T) {
		_, err := nav.FocusCoordinate(weather.Position{Lat: 22.6, Lon: 120.3})
		require.NoError(t, err)
		require.Len(t, f.canvas.Snapshot().Markers, 2)

		nav.Clear()
		nav.Clear()
		snap := f.canvas.Snapshot()
		require.Len(t, snap.Markers, 1)
		assert.Equal(t, IconRed, snap.Markers[0].Icon)
	})

	t.Run("station without marker", func(t *testing.T) {
		_, err := nav.FocusStation(weather.StationRecord{ID: "nowhere"})
		assert.ErrorIs(t, err, ErrNoMarker)
	})
}

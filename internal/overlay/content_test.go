package overlay

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

func TestLoadTemplates_failureParse(t *testing.T) {
	prev := content
	t.Cleanup(func() { content = prev })

	badFS := fstest.MapFS{
		"templates/popup.html": {Data: []byte("{{ .")},
	}
	assert.Error(t, loadTemplatesFromFS(badFS, "templates"))
}

func TestRender_notLoaded(t *testing.T) {
	prev := content
	content = nil
	t.Cleanup(func() { content = prev })

	_, err := CustomLocationHTML(weather.Position{Lat: 25, Lon: 121})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not loaded")
}

func TestCustomLocationHTML(t *testing.T) {
	require.NoError(t, LoadTemplates())

	html, err := CustomLocationHTML(weather.Position{Lat: 25.05, Lon: 121.52})
	require.NoError(t, err)
	assert.Equal(t, "<b>Custom location</b><br>Lat: 25.0500, Lon: 121.5200", html)
}

package overlay

import (
	"errors"
	"sync"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

// ErrNoMarker is returned when focusing a station that has no marker yet.
var ErrNoMarker = errors.New("station has no marker")

// Navigator moves the view to search results. It owns the single transient
// marker placed for coordinate searches.
type Navigator struct {
	surface Surface
	markers *Synchronizer
	zoom    int

	mu        sync.Mutex
	transient MarkerID
}

// NewNavigator creates a Navigator that focuses results at zoom.
func NewNavigator(surface Surface, markers *Synchronizer, zoom int) *Navigator {
	return &Navigator{surface: surface, markers: markers, zoom: zoom}
}

// FocusCoordinate pans to pos and drops a transient marker there, replacing
// the previous one.
func (n *Navigator) FocusCoordinate(pos weather.Position) (MarkerID, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.clearLocked()
	popup, err := CustomLocationHTML(pos)
	if err != nil {
		return "", err
	}

	n.surface.SetView(pos, n.zoom)
	id := n.surface.AddMarker(pos, IconDefault)
	if err := n.surface.BindPopup(id, popup); err != nil {
		return "", err
	}
	if err := n.surface.OpenPopup(id); err != nil {
		return "", err
	}
	n.transient = id
	return id, nil
}

// FocusStation pans to a station and opens its popup.
func (n *Navigator) FocusStation(rec weather.StationRecord) (MarkerID, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.clearLocked()
	id, ok := n.markers.MarkerFor(rec.ID)
	if !ok || rec.Position == nil {
		return "", ErrNoMarker
	}
	n.surface.SetView(*rec.Position, n.zoom)
	return id, n.surface.OpenPopup(id)
}

// Clear removes the transient marker, if any.
func (n *Navigator) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearLocked()
}

func (n *Navigator) clearLocked() {
	if n.transient == "" {
		return
	}
	_ = n.surface.RemoveMarker(n.transient)
	n.transient = ""
}

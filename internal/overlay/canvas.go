package overlay

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

type tooltip struct {
	HTML    string         `json:"html"`
	Options TooltipOptions `json:"options"`
}

type marker struct {
	position  weather.Position
	icon      Icon
	popup     string
	popupOpen bool
	tooltip   *tooltip
	layer     Layer
}

// Canvas is an in-memory Surface. A browser map mirrors it through Snapshot.
type Canvas struct {
	mu sync.RWMutex

	markers map[MarkerID]*marker
	order   []MarkerID
	hidden  map[Layer]bool
	center  weather.Position
	zoom    int
}

// NewCanvas creates a canvas with every station layer visible and the view at
// center/zoom.
func NewCanvas(center weather.Position, zoom int) *Canvas {
	return &Canvas{
		markers: make(map[MarkerID]*marker),
		hidden:  make(map[Layer]bool),
		center:  center,
		zoom:    zoom,
	}
}

func (c *Canvas) AddMarker(pos weather.Position, icon Icon) MarkerID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := MarkerID(uuid.NewString())
	c.markers[id] = &marker{position: pos, icon: icon}
	c.order = append(c.order, id)
	return id
}

func (c *Canvas) MoveMarker(id MarkerID, pos weather.Position) error {
	return c.update(id, func(m *marker) error {
		m.position = pos
		return nil
	})
}

func (c *Canvas) SetIcon(id MarkerID, icon Icon) error {
	return c.update(id, func(m *marker) error {
		m.icon = icon
		return nil
	})
}

func (c *Canvas) RemoveMarker(id MarkerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.markers[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMarker, id)
	}
	delete(c.markers, id)
	c.order = slices.DeleteFunc(c.order, func(m MarkerID) bool { return m == id })
	return nil
}

// BindPopup sets the popup content. An open popup stays open.
func (c *Canvas) BindPopup(id MarkerID, html string) error {
	return c.update(id, func(m *marker) error {
		m.popup = html
		return nil
	})
}

// OpenPopup opens id's popup and closes any other; maps show one popup at a time.
func (c *Canvas) OpenPopup(id MarkerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok := c.markers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMarker, id)
	}
	for _, m := range c.markers {
		m.popupOpen = false
	}
	target.popupOpen = true
	return nil
}

func (c *Canvas) BindTooltip(id MarkerID, html string, opts TooltipOptions) error {
	return c.update(id, func(m *marker) error {
		m.tooltip = &tooltip{HTML: html, Options: opts}
		return nil
	})
}

func (c *Canvas) UnbindTooltip(id MarkerID) error {
	return c.update(id, func(m *marker) error {
		m.tooltip = nil
		return nil
	})
}

func (c *Canvas) AddToLayer(id MarkerID, layer Layer) error {
	if !slices.Contains(Layers, layer) {
		return fmt.Errorf("%w: %s", ErrUnknownLayer, layer)
	}
	return c.update(id, func(m *marker) error {
		m.layer = layer
		return nil
	})
}

func (c *Canvas) SetView(center weather.Position, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.center, c.zoom = center, zoom
}

// SetLayerVisible shows or hides every marker in a station layer.
func (c *Canvas) SetLayerVisible(layer Layer, visible bool) error {
	if !slices.Contains(Layers, layer) {
		return fmt.Errorf("%w: %s", ErrUnknownLayer, layer)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden[layer] = !visible
	return nil
}

func (c *Canvas) update(id MarkerID, fn func(*marker) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.markers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMarker, id)
	}
	return fn(m)
}

// MarkerView is one rendered marker in a Snapshot.
type MarkerView struct {
	ID        MarkerID         `json:"id"`
	Position  weather.Position `json:"position"`
	Icon      Icon             `json:"icon"`
	Layer     Layer            `json:"layer,omitempty"`
	Popup     string           `json:"popup,omitempty"`
	PopupOpen bool             `json:"popupOpen"`
	Tooltip   *tooltip         `json:"tooltip,omitempty"`
}

// LayerView reports a station layer's visibility and size.
type LayerView struct {
	Name    Layer `json:"name"`
	Visible bool  `json:"visible"`
	Markers int   `json:"markers"`
}

// Snapshot is the visible state of the canvas. Markers in hidden layers are
// left out; markers outside any layer are always shown.
type Snapshot struct {
	Center  weather.Position `json:"center"`
	Zoom    int              `json:"zoom"`
	Layers  []LayerView      `json:"layers"`
	Markers []MarkerView     `json:"markers"`
}

// Snapshot copies the current state in marker creation order.
func (c *Canvas) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[Layer]int, len(Layers))
	s := Snapshot{Center: c.center, Zoom: c.zoom, Markers: []MarkerView{}}
	for _, id := range c.order {
		m := c.markers[id]
		if m.layer != "" {
			counts[m.layer]++
			if c.hidden[m.layer] {
				continue
			}
		}
		v := MarkerView{
			ID:        id,
			Position:  m.position,
			Icon:      m.icon,
			Layer:     m.layer,
			Popup:     m.popup,
			PopupOpen: m.popupOpen,
		}
		if m.tooltip != nil {
			tt := *m.tooltip
			v.Tooltip = &tt
		}
		s.Markers = append(s.Markers, v)
	}
	for _, l := range Layers {
		s.Layers = append(s.Layers, LayerView{Name: l, Visible: !c.hidden[l], Markers: counts[l]})
	}
	return s
}

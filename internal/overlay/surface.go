package overlay

import (
	"errors"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

// MarkerID is the surface's handle for one point marker.
type MarkerID string

// Icon names a marker pin style.
type Icon string

const (
	IconRed     Icon = "red"
	IconOrange  Icon = "orange"
	IconBlue    Icon = "blue"
	IconDefault Icon = "default"
)

// Layer names a toggleable overlay group.
type Layer string

const (
	LayerAutomatic Layer = "automatic"
	LayerMesoscale Layer = "mesoscale"
	LayerRainfall  Layer = "rainfall"
)

// Layers lists the station layers in display order.
var Layers = []Layer{LayerAutomatic, LayerMesoscale, LayerRainfall}

var (
	ErrUnknownMarker = errors.New("unknown marker")
	ErrUnknownLayer  = errors.New("unknown layer")
)

// TooltipOptions mirror the options a map library takes when binding a tooltip.
type TooltipOptions struct {
	Permanent bool   `json:"permanent"`
	Direction string `json:"direction"`
	OffsetX   int    `json:"offsetX"`
	OffsetY   int    `json:"offsetY"`
	ClassName string `json:"className"`
}

// labelTooltip is how station labels are bound: always shown, above the pin.
var labelTooltip = TooltipOptions{
	Permanent: true,
	Direction: "top",
	OffsetY:   -20,
	ClassName: "label-tooltip",
}

// Surface is the rendering contract the overlay drives. Implementations are
// expected to be safe for concurrent use.
type Surface interface {
	AddMarker(pos weather.Position, icon Icon) MarkerID
	MoveMarker(id MarkerID, pos weather.Position) error
	SetIcon(id MarkerID, icon Icon) error
	RemoveMarker(id MarkerID) error

	BindPopup(id MarkerID, html string) error
	OpenPopup(id MarkerID) error
	BindTooltip(id MarkerID, html string, opts TooltipOptions) error
	UnbindTooltip(id MarkerID) error

	AddToLayer(id MarkerID, layer Layer) error
	SetView(center weather.Position, zoom int)
}

// IconFor returns the pin style of a record's origin.
func IconFor(o weather.Origin) Icon {
	switch o {
	case weather.OriginFixedStation:
		return IconRed
	case weather.OriginMesoscale:
		return IconOrange
	case weather.OriginRainfallOnly:
		return IconBlue
	default:
		return IconDefault
	}
}

// LayerFor returns the layer a record's marker belongs to.
func LayerFor(o weather.Origin) Layer {
	switch o {
	case weather.OriginMesoscale:
		return LayerMesoscale
	case weather.OriginRainfallOnly:
		return LayerRainfall
	default:
		return LayerAutomatic
	}
}

package overlay

import (
	"sync"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

// RecordSource reads merged station records.
type RecordSource interface {
	Get(id string) (weather.StationRecord, bool)
}

// LabelController binds or removes a permanent label on every station marker.
// Labels are always built from the current registry entry.
type LabelController struct {
	markers *Synchronizer
	records RecordSource

	mu      sync.Mutex
	visible bool
}

// NewLabelController creates a controller with the persisted visibility flag.
// Nothing is bound until SetVisible or Reapply runs.
func NewLabelController(markers *Synchronizer, records RecordSource, visible bool) *LabelController {
	return &LabelController{markers: markers, records: records, visible: visible}
}

// SetVisible stores the flag and applies it to every indexed marker.
func (c *LabelController) SetVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = visible
	c.apply()
}

// Visible returns the stored flag.
func (c *LabelController) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Reapply applies the stored flag again, picking up markers created since.
func (c *LabelController) Reapply() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply()
}

func (c *LabelController) apply() {
	for _, id := range c.markers.StationIDs() {
		if !c.visible {
			c.markers.unbindLabel(id)
			continue
		}
		rec, ok := c.records.Get(id)
		if !ok {
			continue
		}
		c.markers.bindLabel(rec)
	}
}

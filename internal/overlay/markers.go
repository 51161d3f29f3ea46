package overlay

import (
	"log/slog"
	"sync"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

// Synchronizer keeps exactly one marker per station id on the surface and
// refreshes it from merged registry records.
type Synchronizer struct {
	surface Surface
	logger  *slog.Logger

	mu sync.RWMutex
	// key: station id
	index   map[string]MarkerID
	order   []string
	labeled map[string]bool
}

// NewSynchronizer creates a Synchronizer drawing on surface.
func NewSynchronizer(surface Surface, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		surface: surface,
		logger:  logger,
		index:   make(map[string]MarkerID),
		labeled: make(map[string]bool),
	}
}

// Upsert creates the record's marker on first sighting, otherwise moves it,
// resets its icon and refreshes its popup and any bound label. Records
// without a position are skipped.
func (s *Synchronizer) Upsert(rec weather.StationRecord) {
	if rec.Position == nil {
		return
	}

	popup, err := PopupHTML(rec)
	if err != nil {
		s.logger.Error("render popup", "station", rec.ID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	icon := IconFor(rec.Origin)
	id, ok := s.index[rec.ID]
	if !ok {
		id = s.surface.AddMarker(*rec.Position, icon)
		s.index[rec.ID] = id
		s.order = append(s.order, rec.ID)
		s.check(rec.ID, s.surface.AddToLayer(id, LayerFor(rec.Origin)))
	} else {
		s.check(rec.ID, s.surface.MoveMarker(id, *rec.Position))
		s.check(rec.ID, s.surface.SetIcon(id, icon))
	}
	s.check(rec.ID, s.surface.BindPopup(id, popup))

	if s.labeled[rec.ID] {
		s.bindLabelLocked(rec)
	}
}

// MarkerFor returns the marker of a station id.
func (s *Synchronizer) MarkerFor(stationID string) (MarkerID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.index[stationID]
	return id, ok
}

// StationIDs returns every indexed station in marker creation order.
func (s *Synchronizer) StationIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len returns the number of station markers.
func (s *Synchronizer) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *Synchronizer) bindLabel(rec weather.StationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindLabelLocked(rec)
}

func (s *Synchronizer) bindLabelLocked(rec weather.StationRecord) {
	id, ok := s.index[rec.ID]
	if !ok {
		return
	}
	label, err := LabelHTML(rec)
	if err != nil {
		s.logger.Error("render label", "station", rec.ID, "error", err)
		return
	}
	s.check(rec.ID, s.surface.BindTooltip(id, label, labelTooltip))
	s.labeled[rec.ID] = true
}

func (s *Synchronizer) unbindLabel(stationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.index[stationID]
	if !ok || !s.labeled[stationID] {
		return
	}
	s.check(stationID, s.surface.UnbindTooltip(id))
	delete(s.labeled, stationID)
}

func (s *Synchronizer) check(stationID string, err error) {
	if err != nil {
		s.logger.Warn("surface update failed", "station", stationID, "error", err)
	}
}

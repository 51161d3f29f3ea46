package store

import (
	"sync"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

// Registry is the authoritative in-memory map from station id to merged record.
// Iteration follows first-seen order so that search ties resolve predictably.
// Readers may run concurrently with the single refresh pipeline that writes.
type Registry struct {
	mu sync.RWMutex

	// key: station id
	records map[string]*weather.StationRecord
	order   []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*weather.StationRecord),
	}
}

// Upsert creates the record for obs.StationID or merges obs into it, and
// returns a copy of the merged record.
//
// Only fields the observation carries are written; a feed that does not carry
// temperature can never clear it. Coordinates from fill-only feeds are used
// only when the record has none. Origin is fixed at creation.
func (r *Registry) Upsert(origin weather.Origin, obs weather.Observation) weather.StationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[obs.StationID]
	if !ok {
		rec = &weather.StationRecord{ID: obs.StationID, Origin: origin}
		r.records[obs.StationID] = rec
		r.order = append(r.order, obs.StationID)
	}

	if obs.StationName != "" {
		rec.Name = obs.StationName
	}
	if obs.ObservedAt != "" {
		rec.ObservedAt = obs.ObservedAt
	}
	if obs.Position != nil && (rec.Position == nil || !obs.PositionFillOnly) {
		pos := *obs.Position
		rec.Position = &pos
	}

	mergeField(&rec.AirTemperature, obs.AirTemperature)
	mergeField(&rec.RelativeHumidity, obs.RelativeHumidity)
	mergeField(&rec.DailyPrecipitation, obs.DailyPrecipitation)
	mergeField(&rec.HourPrecipitation, obs.HourPrecipitation)

	return copyRecord(rec)
}

func mergeField(dst *weather.Measurement, incoming *weather.Measurement) {
	if incoming != nil {
		*dst = *incoming
	}
}

// Get returns the record for id.
func (r *Registry) Get(id string) (weather.StationRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return weather.StationRecord{}, false
	}
	return copyRecord(rec), true
}

// All returns every record in first-seen order.
func (r *Registry) All() []weather.StationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]weather.StationRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyRecord(r.records[id]))
	}
	return out
}

// Len returns the number of stations held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func copyRecord(rec *weather.StationRecord) weather.StationRecord {
	out := *rec
	if rec.Position != nil {
		pos := *rec.Position
		out.Position = &pos
	}
	return out
}

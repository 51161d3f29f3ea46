package weather

import (
	"context"
)

// Feed abstracts one upstream station dataset (fixed-station, mesoscale or rainfall).
// Fetch returns every record of the current payload already mapped and
// normalized, or an error without any partial result.
type Feed interface {
	Name() string
	Origin() Origin
	// Fields lists the measurements this feed carries and summarizes.
	Fields() []Field
	Fetch(ctx context.Context) ([]Observation, error)
}

// Registry is the contract the station registry must satisfy.
type Registry interface {
	Upsert(origin Origin, obs Observation) StationRecord
	Get(id string) (StationRecord, bool)
	All() []StationRecord
	Len() int
}

// MarkerSink keeps visual markers in step with merged records.
type MarkerSink interface {
	Upsert(rec StationRecord)
	Len() int
}

// LabelApplier re-applies the persisted label visibility after a refresh.
type LabelApplier interface {
	Reapply()
}

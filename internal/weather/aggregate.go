package weather

// Sample is one station's value for a tracked field.
type Sample struct {
	Value   Measurement
	Station string
	Time    string
}

// Extremes is the result of reducing a sequence of samples.
type Extremes struct {
	Max Extreme
	Min Extreme
}

// Tracker keeps the running maximum and minimum of a field during ingestion.
// Absent samples are ignored. A sample equal to the current extreme appends its
// station; a strictly better one resets the station list and time.
type Tracker struct {
	max, min         float64
	maxSeen, minSeen bool
	maxStations      []string
	minStations      []string
	maxTime, minTime string
}

// Observe folds one sample into the running extremes.
func (t *Tracker) Observe(s Sample) {
	if !s.Value.Valid {
		return
	}
	v := s.Value.Value

	switch {
	case !t.maxSeen || v > t.max:
		t.max, t.maxSeen = v, true
		t.maxStations = []string{s.Station}
		t.maxTime = s.Time
	case v == t.max:
		t.maxStations = append(t.maxStations, s.Station)
	}

	switch {
	case !t.minSeen || v < t.min:
		t.min, t.minSeen = v, true
		t.minStations = []string{s.Station}
		t.minTime = s.Time
	case v == t.min:
		t.minStations = append(t.minStations, s.Station)
	}
}

// Result returns the extremes seen so far. An end with no present samples is
// reported as not applicable with a placeholder station list and an empty time.
func (t *Tracker) Result() Extremes {
	return Extremes{
		Max: extremeOf(t.max, t.maxSeen, t.maxStations, t.maxTime),
		Min: extremeOf(t.min, t.minSeen, t.minStations, t.minTime),
	}
}

func extremeOf(v float64, seen bool, stations []string, at string) Extreme {
	if !seen {
		return Extreme{Value: Absent, Stations: []string{NotApplicable}}
	}
	return Extreme{
		Value:    Measured(v),
		Stations: append([]string(nil), stations...),
		Time:     at,
	}
}

// Reduce computes the extremes of samples in one pass.
func Reduce(samples []Sample) Extremes {
	var t Tracker
	for _, s := range samples {
		t.Observe(s)
	}
	return t.Result()
}

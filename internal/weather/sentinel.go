package weather

import (
	"math"
	"slices"
)

// Sentinels lists out-of-band raw codes that mean "instrument fault" or "no data".
type Sentinels []float64

// Normalizer maps raw feed values to Measurements using per-field sentinel sets.
type Normalizer struct {
	Temperature   Sentinels
	Humidity      Sentinels
	Precipitation Sentinels
}

// WeatherStationSentinels apply to the fixed-station and mesoscale feeds.
var WeatherStationSentinels = Normalizer{
	Temperature: Sentinels{-99},
	Humidity:    Sentinels{-99},
}

// RainfallSentinels apply to the rainfall feed. -99 is also accepted since the
// upstream uses it interchangeably for "no data" on some gauges.
var RainfallSentinels = Normalizer{
	Precipitation: Sentinels{-998, -999, -99},
}

// Normalize returns Absent for a nil raw value, a non-finite value or a sentinel
// of the field's kind, and the value itself otherwise.
func (n Normalizer) Normalize(f Field, raw *float64) Measurement {
	if raw == nil || math.IsNaN(*raw) || math.IsInf(*raw, 0) {
		return Absent
	}
	if slices.Contains(n.sentinelsFor(f), *raw) {
		return Absent
	}
	return Measured(*raw)
}

func (n Normalizer) sentinelsFor(f Field) Sentinels {
	switch f {
	case FieldAirTemperature:
		return n.Temperature
	case FieldRelativeHumidity:
		return n.Humidity
	case FieldDailyPrecipitation, FieldHourPrecipitation:
		return n.Precipitation
	default:
		return nil
	}
}

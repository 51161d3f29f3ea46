package weather

import (
	"encoding/json"
	"strconv"
	"time"
)

// NotApplicable is rendered wherever a value, station list or time is unknown.
const NotApplicable = "N/A"

// Origin identifies the feed that first created a station record.
type Origin string

const (
	OriginFixedStation Origin = "fixed"
	OriginMesoscale    Origin = "mesoscale"
	OriginRainfallOnly Origin = "rainfall"
)

// Position is a WGS-84 latitude/longitude pair.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Measurement is a normalized reading that is either present or absent.
// Absent readings come from sentinel codes or missing raw values.
type Measurement struct {
	Value float64
	Valid bool
}

// Measured returns a present Measurement.
func Measured(v float64) Measurement {
	return Measurement{Value: v, Valid: true}
}

// Absent is the canonical missing reading.
var Absent = Measurement{}

// String formats the value the way popups and tables show it.
func (m Measurement) String() string {
	if !m.Valid {
		return NotApplicable
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func (m Measurement) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Measurement) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Absent
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Measured(v)
	return nil
}

// StationRecord is the reconciled view of one physical station across all feeds.
type StationRecord struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	ObservedAt         string      `json:"observedAt"`
	Position           *Position   `json:"position,omitempty"`
	AirTemperature     Measurement `json:"airTemperature"`
	RelativeHumidity   Measurement `json:"relativeHumidity"`
	DailyPrecipitation Measurement `json:"dailyPrecipitation"`
	HourPrecipitation  Measurement `json:"hourPrecipitation"`
	Origin             Origin      `json:"origin"`
}

// RainfallOnly reports whether the record should still use the rainfall-only
// presentation: created by the rainfall feed and never merged with a weather reading.
func (r StationRecord) RainfallOnly() bool {
	return r.Origin == OriginRainfallOnly && !r.AirTemperature.Valid && !r.RelativeHumidity.Valid
}

// Observation is one feed's normalized report for a station. Nil measurement
// pointers mean the feed does not carry that field at all.
type Observation struct {
	StationID   string
	StationName string
	ObservedAt  string

	Position *Position
	// PositionFillOnly marks feeds whose coordinates only seed stations that
	// have none yet.
	PositionFillOnly bool

	AirTemperature     *Measurement
	RelativeHumidity   *Measurement
	DailyPrecipitation *Measurement
	HourPrecipitation  *Measurement
}

// Field selects one tracked measurement.
type Field string

const (
	FieldAirTemperature     Field = "airTemperature"
	FieldRelativeHumidity   Field = "relativeHumidity"
	FieldDailyPrecipitation Field = "dailyPrecipitation"
	FieldHourPrecipitation  Field = "hourPrecipitation"
)

// From returns the field's value in an observation. ok is false when the
// observation's feed does not carry the field.
func (f Field) From(o Observation) (m Measurement, ok bool) {
	var p *Measurement
	switch f {
	case FieldAirTemperature:
		p = o.AirTemperature
	case FieldRelativeHumidity:
		p = o.RelativeHumidity
	case FieldDailyPrecipitation:
		p = o.DailyPrecipitation
	case FieldHourPrecipitation:
		p = o.HourPrecipitation
	}
	if p == nil {
		return Absent, false
	}
	return *p, true
}

// Unit is the display unit of the field.
func (f Field) Unit() string {
	switch f {
	case FieldAirTemperature:
		return "°C"
	case FieldRelativeHumidity:
		return "%"
	default:
		return "mm"
	}
}

// Label is the human-readable field name used in summary tables.
func (f Field) Label() string {
	switch f {
	case FieldAirTemperature:
		return "temperature"
	case FieldRelativeHumidity:
		return "humidity"
	case FieldDailyPrecipitation:
		return "daily precipitation"
	case FieldHourPrecipitation:
		return "past hour precipitation"
	default:
		return string(f)
	}
}

// ReportsMinimum is false for precipitation, where the minimum is almost always
// a long list of dry stations.
func (f Field) ReportsMinimum() bool {
	return f == FieldAirTemperature || f == FieldRelativeHumidity
}

// Extreme is one end of a field's range with every station tied at it.
type Extreme struct {
	Value    Measurement `json:"value"`
	Stations []string    `json:"stations"`
	Time     string      `json:"time"`
}

// FieldStats holds both extremes of one tracked field.
type FieldStats struct {
	Field Field   `json:"field"`
	Max   Extreme `json:"max"`
	Min   Extreme `json:"min"`
}

// FeedSummary is derived from one successful ingestion of a feed.
type FeedSummary struct {
	Feed            string       `json:"feed"`
	Origin          Origin       `json:"origin"`
	StationCount    int          `json:"stationCount"`
	Fields          []FieldStats `json:"fields"`
	MissingStations []string     `json:"missingStations"`
	ObservationTime string       `json:"observationTime"`
	RefreshedAt     time.Time    `json:"refreshedAt"`
}

// Stats returns the statistics for one field, if the feed tracks it.
func (s FeedSummary) Stats(f Field) (FieldStats, bool) {
	for _, fs := range s.Fields {
		if fs.Field == f {
			return fs, true
		}
	}
	return FieldStats{}, false
}

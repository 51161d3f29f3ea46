package weather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		n    Normalizer
		f    Field
		raw  *float64
		want Measurement
	}{
		{"temperature value", WeatherStationSentinels, FieldAirTemperature, f64(28.3), Measured(28.3)},
		{"temperature sentinel", WeatherStationSentinels, FieldAirTemperature, f64(-99), Absent},
		{"humidity sentinel", WeatherStationSentinels, FieldRelativeHumidity, f64(-99), Absent},
		{"negative temperature is valid", WeatherStationSentinels, FieldAirTemperature, f64(-5), Measured(-5)},
		{"missing", WeatherStationSentinels, FieldAirTemperature, nil, Absent},
		{"nan", WeatherStationSentinels, FieldRelativeHumidity, f64(math.NaN()), Absent},
		{"inf", RainfallSentinels, FieldDailyPrecipitation, f64(math.Inf(1)), Absent},
		{"precipitation -998", RainfallSentinels, FieldDailyPrecipitation, f64(-998), Absent},
		{"precipitation -999", RainfallSentinels, FieldHourPrecipitation, f64(-999), Absent},
		{"precipitation -99", RainfallSentinels, FieldHourPrecipitation, f64(-99), Absent},
		{"zero rain is a reading", RainfallSentinels, FieldDailyPrecipitation, f64(0), Measured(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.Normalize(tt.f, tt.raw))
		})
	}
}

package feeds

import (
	"log/slog"
	"net/http"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

const (
	rainfallDataset         = "O-A0002-001"
	rainfallCoordinateIndex = 1
)

type precipitation struct {
	Precipitation flexFloat `json:"Precipitation"`
}

// rainfallRecord is one rain gauge in O-A0002-001. "Now" is the accumulation
// since midnight, "Past1hr" the last hour.
type rainfallRecord struct {
	stationHeader
	RainfallElement struct {
		Now     precipitation `json:"Now"`
		Past1hr precipitation `json:"Past1hr"`
	} `json:"RainfallElement"`
}

func (r rainfallRecord) observation() (weather.Observation, error) {
	obs, err := r.base(rainfallCoordinateIndex)
	if err != nil {
		return obs, err
	}
	// Rain gauges often share ids with weather stations; their coordinates only
	// seed stations nobody else has located.
	obs.PositionFillOnly = true

	n := weather.RainfallSentinels
	obs.DailyPrecipitation = measure(n, weather.FieldDailyPrecipitation, r.RainfallElement.Now.Precipitation)
	obs.HourPrecipitation = measure(n, weather.FieldHourPrecipitation, r.RainfallElement.Past1hr.Precipitation)
	return obs, nil
}

// NewRainfallFeed returns the rainfall-only station feed.
func NewRainfallFeed(client *http.Client, ep Endpoint, logger *slog.Logger) weather.Feed {
	return newStationFeed[rainfallRecord](
		"rainfall",
		weather.OriginRainfallOnly,
		rainfallDataset,
		[]weather.Field{weather.FieldDailyPrecipitation, weather.FieldHourPrecipitation},
		client, ep, logger,
	)
}

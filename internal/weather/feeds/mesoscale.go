package feeds

import (
	"log/slog"
	"net/http"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

const (
	mesoscaleDataset         = "O-A0003-001"
	mesoscaleCoordinateIndex = 1
)

// mesoscaleRecord is one unmanned mesoscale station in O-A0003-001.
type mesoscaleRecord struct {
	stationHeader
	WeatherElement struct {
		AirTemperature   flexFloat `json:"AirTemperature"`
		RelativeHumidity flexFloat `json:"RelativeHumidity"`
	} `json:"WeatherElement"`
}

func (r mesoscaleRecord) observation() (weather.Observation, error) {
	obs, err := r.base(mesoscaleCoordinateIndex)
	if err != nil {
		return obs, err
	}
	n := weather.WeatherStationSentinels
	obs.AirTemperature = measure(n, weather.FieldAirTemperature, r.WeatherElement.AirTemperature)
	obs.RelativeHumidity = measure(n, weather.FieldRelativeHumidity, r.WeatherElement.RelativeHumidity)
	return obs, nil
}

// NewMesoscaleFeed returns the mesoscale (unmanned) station feed.
func NewMesoscaleFeed(client *http.Client, ep Endpoint, logger *slog.Logger) weather.Feed {
	return newStationFeed[mesoscaleRecord](
		"mesoscale",
		weather.OriginMesoscale,
		mesoscaleDataset,
		[]weather.Field{weather.FieldAirTemperature, weather.FieldRelativeHumidity},
		client, ep, logger,
	)
}

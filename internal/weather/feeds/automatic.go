package feeds

import (
	"log/slog"
	"net/http"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

const (
	automaticDataset = "O-A0001-001"

	// automaticCoordinateIndex selects the WGS84 pair in GeoInfo.Coordinates.
	automaticCoordinateIndex = 1
)

// automaticRecord is one fixed automatic weather station in O-A0001-001.
type automaticRecord struct {
	stationHeader
	WeatherElement struct {
		AirTemperature   flexFloat `json:"AirTemperature"`
		RelativeHumidity flexFloat `json:"RelativeHumidity"`
	} `json:"WeatherElement"`
}

func (r automaticRecord) observation() (weather.Observation, error) {
	obs, err := r.base(automaticCoordinateIndex)
	if err != nil {
		return obs, err
	}
	n := weather.WeatherStationSentinels
	obs.AirTemperature = measure(n, weather.FieldAirTemperature, r.WeatherElement.AirTemperature)
	obs.RelativeHumidity = measure(n, weather.FieldRelativeHumidity, r.WeatherElement.RelativeHumidity)
	return obs, nil
}

// NewAutomaticFeed returns the fixed-station feed.
func NewAutomaticFeed(client *http.Client, ep Endpoint, logger *slog.Logger) weather.Feed {
	return newStationFeed[automaticRecord](
		"automatic",
		weather.OriginFixedStation,
		automaticDataset,
		[]weather.Field{weather.FieldAirTemperature, weather.FieldRelativeHumidity},
		client, ep, logger,
	)
}

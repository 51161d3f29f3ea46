package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

// DefaultBaseURL is the CWA open-data datastore root.
const DefaultBaseURL = "https://opendata.cwa.gov.tw/api/v1/rest/datastore"

// Endpoint locates the CWA datastore and carries the API key.
type Endpoint struct {
	BaseURL string
	APIKey  string
}

var errMissingStationID = errors.New("station record has no StationId")

// record is implemented by each dataset's raw station schema.
type record interface {
	observation() (weather.Observation, error)
}

// envelope is the response wrapper shared by every CWA dataset.
type envelope[R record] struct {
	Success string `json:"success"`
	Records struct {
		Station []R `json:"Station"`
	} `json:"records"`
}

// stationFeed fetches one CWA dataset and maps its records with R's schema.
type stationFeed[R record] struct {
	name     string
	origin   weather.Origin
	dataset  string
	fields   []weather.Field
	endpoint Endpoint
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

func newStationFeed[R record](name string, origin weather.Origin, dataset string, fields []weather.Field, client *http.Client, ep Endpoint, logger *slog.Logger) *stationFeed[R] {
	if ep.BaseURL == "" {
		ep.BaseURL = DefaultBaseURL
	}
	return &stationFeed[R]{
		name:     name,
		origin:   origin,
		dataset:  dataset,
		fields:   fields,
		endpoint: ep,
		httpCfg:  defaultHTTPConfig(client),
		circuit:  newBreaker(name),
		logger:   logger.With("feed", name),
	}
}

func (f *stationFeed[R]) Name() string {
	return f.name
}

func (f *stationFeed[R]) Origin() weather.Origin {
	return f.origin
}

func (f *stationFeed[R]) Fields() []weather.Field {
	return f.fields
}

// Fetch downloads and decodes the whole payload before returning anything, so a
// failure leaves callers with nothing to merge.
func (f *stationFeed[R]) Fetch(ctx context.Context) ([]weather.Observation, error) {
	if f.endpoint.APIKey == "" {
		return nil, errMissingAPIKey
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("Authorization", f.endpoint.APIKey)
		values.Set("format", "JSON")

		u := fmt.Sprintf("%s/%s?%s", strings.TrimRight(f.endpoint.BaseURL, "/"), f.dataset, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, f.httpCfg, f.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload envelope[R]
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", f.dataset, err)
	}
	if payload.Success != "true" {
		return nil, fmt.Errorf("%w: %s success=%q", ErrUpstreamFailure, f.dataset, payload.Success)
	}

	out := make([]weather.Observation, 0, len(payload.Records.Station))
	for i, r := range payload.Records.Station {
		obs, err := r.observation()
		if err != nil {
			f.logger.Warn("skipping station record", "index", i, "error", err)
			continue
		}
		out = append(out, obs)
	}
	return out, nil
}

// flexFloat accepts a JSON number, a numeric string, an empty string or null.
// Anything that does not parse as a number is treated as missing.
type flexFloat struct {
	value float64
	ok    bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = flexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	f.value, f.ok = v, true
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.ok {
		return nil
	}
	v := f.value
	return &v
}

type obsTime struct {
	DateTime string `json:"DateTime"`
}

type coordinate struct {
	CoordinateName   string    `json:"CoordinateName"`
	StationLatitude  flexFloat `json:"StationLatitude"`
	StationLongitude flexFloat `json:"StationLongitude"`
}

type geoInfo struct {
	Coordinates []coordinate `json:"Coordinates"`
	CountyName  string       `json:"CountyName"`
	TownName    string       `json:"TownName"`
}

// positionAt reads the coordinate pair at a fixed index. Each dataset passes
// its own index; the upstream schemas are not guaranteed to agree.
func (g geoInfo) positionAt(i int) *weather.Position {
	if i < 0 || i >= len(g.Coordinates) {
		return nil
	}
	c := g.Coordinates[i]
	if !c.StationLatitude.ok || !c.StationLongitude.ok {
		return nil
	}
	lat, lon := c.StationLatitude.value, c.StationLongitude.value
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil
	}
	return &weather.Position{Lat: lat, Lon: lon}
}

// stationHeader holds the identity fields every dataset shares.
type stationHeader struct {
	StationName string  `json:"StationName"`
	StationID   string  `json:"StationId"`
	ObsTime     obsTime `json:"ObsTime"`
	GeoInfo     geoInfo `json:"GeoInfo"`
}

func (h stationHeader) base(coordinateIndex int) (weather.Observation, error) {
	id := strings.TrimSpace(h.StationID)
	if id == "" {
		return weather.Observation{}, fmt.Errorf("%w (name %q)", errMissingStationID, h.StationName)
	}
	return weather.Observation{
		StationID:   id,
		StationName: strings.TrimSpace(h.StationName),
		ObservedAt:  h.ObsTime.DateTime,
		Position:    h.GeoInfo.positionAt(coordinateIndex),
	}, nil
}

func measure(n weather.Normalizer, f weather.Field, raw flexFloat) *weather.Measurement {
	m := n.Normalize(f, raw.ptr())
	return &m
}

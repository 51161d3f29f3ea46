package views

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

func TestLoadTemplates_success(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() = %v; want nil", err)
	}
	if summaryTmpl == nil {
		t.Fatal("LoadTemplates() left summaryTmpl nil")
	}
}

func TestLoadTemplates_failure_parse(t *testing.T) {
	prev := summaryTmpl
	t.Cleanup(func() { summaryTmpl = prev })

	badFS := fstest.MapFS{
		"templates/summary.html": {Data: []byte("{{ .")},
	}
	if err := loadTemplatesFromFS(badFS, "templates"); err == nil {
		t.Fatal("loadTemplatesFromFS(badFS) = nil; want error")
	}
}

func TestRenderSummaries_notLoaded(t *testing.T) {
	prev := summaryTmpl
	summaryTmpl = nil
	t.Cleanup(func() { summaryTmpl = prev })

	var buf bytes.Buffer
	err := RenderSummaries(&buf, &SummaryPage{})
	if err == nil || !strings.Contains(err.Error(), "not loaded") {
		t.Fatalf("RenderSummaries() = %v; want not loaded error", err)
	}
}

func TestRenderSummaries(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() = %v", err)
	}

	summary := &weather.FeedSummary{
		Feed:            "automatic",
		StationCount:    4,
		ObservationTime: "2024-06-01T10:00:00+08:00",
		MissingStations: []string{"Gamma"},
		Fields: []weather.FieldStats{
			{
				Field: weather.FieldAirTemperature,
				Max:   weather.Extreme{Value: weather.Measured(30.5), Stations: []string{"Alpha", "Beta"}, Time: "2024-06-01T10:00:00+08:00"},
				Min:   weather.Extreme{Value: weather.Measured(25), Stations: []string{"Delta"}, Time: "2024-06-01T10:00:00+08:00"},
			},
		},
	}
	rain := &weather.FeedSummary{
		Feed: "rainfall",
		Fields: []weather.FieldStats{
			{
				Field: weather.FieldDailyPrecipitation,
				Max:   weather.Extreme{Value: weather.Absent, Stations: []string{weather.NotApplicable}, Time: weather.NotApplicable},
				Min:   weather.Extreme{Value: weather.Absent, Stations: []string{weather.NotApplicable}, Time: weather.NotApplicable},
			},
		},
	}
	page := NewSummaryPage([]weather.FeedStatus{
		{Name: "automatic", Summary: summary},
		{Name: "mesoscale"},
		{Name: "rainfall", Summary: rain},
	})

	var buf bytes.Buffer
	if err := RenderSummaries(&buf, page); err != nil {
		t.Fatalf("RenderSummaries() = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Automatic weather stations",
		"Highest temperature",
		"30.5 °C",
		"Alpha, Beta",
		"Lowest temperature",
		"Delta",
		"Gamma",
		"Loading Mesoscale stations...",
		"Highest daily precipitation",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "Lowest daily precipitation") {
		t.Error("precipitation minimum should not be rendered")
	}
	if strings.Contains(out, "N/A mm") {
		t.Error("absent value should be rendered without a unit")
	}
}

package overlay

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"strings"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

//go:embed templates/*.html
var templatesFS embed.FS

var content *template.Template

func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	content, err = template.New("overlay").
		Funcs(template.FuncMap{"withUnit": withUnit}).
		ParseFS(sub, "*.html")
	return err
}

// LoadTemplates parses the embedded popup and label templates. Call it once
// at startup before any marker is synchronized.
func LoadTemplates() error {
	return loadTemplatesFromFS(templatesFS, "templates")
}

// withUnit renders "28°C" for a present value and "N/A" for an absent one.
func withUnit(m weather.Measurement, unit string) string {
	if !m.Valid {
		return weather.NotApplicable
	}
	return m.String() + unit
}

// PopupHTML renders the popup of a merged record. Stations that only ever
// reported rainfall get the short rainfall popup.
func PopupHTML(rec weather.StationRecord) (string, error) {
	if rec.RainfallOnly() {
		return render("popup_rainfall.html", rec)
	}
	return render("popup.html", rec)
}

// LabelHTML renders the permanent label of a merged record.
func LabelHTML(rec weather.StationRecord) (string, error) {
	if rec.RainfallOnly() {
		return render("label_rainfall.html", rec)
	}
	return render("label.html", rec)
}

// CustomLocationHTML renders the popup of a transient search marker.
func CustomLocationHTML(pos weather.Position) (string, error) {
	return render("custom_location.html", pos)
}

func render(name string, data any) (string, error) {
	if content == nil {
		return "", errors.New("overlay templates not loaded: call overlay.LoadTemplates during startup")
	}
	var buf bytes.Buffer
	if err := content.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

var summaryTmpl *template.Template

func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	summaryTmpl, err = template.New("views").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(sub, "*.html")
	return err
}

// LoadTemplates parses the embedded templates. Call it once at startup and do
// not serve if it fails.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

var feedTitles = map[string]string{
	"automatic": "Automatic weather stations",
	"mesoscale": "Mesoscale stations",
	"rainfall":  "Rainfall stations",
}

// Row is one extreme line of a summary table.
type Row struct {
	Label    string
	Value    string
	Valid    bool
	Unit     string
	Stations []string
	Time     string
}

// FeedView is one feed's table. Loaded is false until the feed has produced
// its first summary.
type FeedView struct {
	Name    string
	Title   string
	Loaded  bool
	Summary weather.FeedSummary
	Rows    []Row
}

type SummaryPage struct {
	Feeds []FeedView
}

// NewSummaryPage builds the page model from the pipeline status in stage order.
func NewSummaryPage(status []weather.FeedStatus) *SummaryPage {
	page := &SummaryPage{}
	for _, st := range status {
		v := FeedView{Name: st.Name, Title: feedTitles[st.Name]}
		if v.Title == "" {
			v.Title = st.Name
		}
		if st.Summary != nil {
			v.Loaded = true
			v.Summary = *st.Summary
			v.Rows = rows(*st.Summary)
		}
		page.Feeds = append(page.Feeds, v)
	}
	return page
}

func rows(s weather.FeedSummary) []Row {
	var out []Row
	for _, st := range s.Fields {
		out = append(out, row("Highest "+st.Field.Label(), st.Field, st.Max))
		if st.Field.ReportsMinimum() {
			out = append(out, row("Lowest "+st.Field.Label(), st.Field, st.Min))
		}
	}
	return out
}

func row(label string, f weather.Field, e weather.Extreme) Row {
	return Row{
		Label:    label,
		Value:    e.Value.String(),
		Valid:    e.Value.Valid,
		Unit:     f.Unit(),
		Stations: e.Stations,
		Time:     e.Time,
	}
}

func RenderSummaries(w io.Writer, page *SummaryPage) error {
	if summaryTmpl == nil {
		return errors.New("summary template not loaded: call views.LoadTemplates during startup")
	}
	return summaryTmpl.ExecuteTemplate(w, "summary.html", page)
}

package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"snookerviz/internal/dashboard"
	"snookerviz/internal/filter"
	"snookerviz/internal/predict"
	"snookerviz/internal/session"
	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"
)

//go:embed templates/*.html
var templatesFS embed.FS

type pages struct {
	templates *template.Template
}

func newPages() *pages {
	funcs := template.FuncMap{
		"day":     formatDay,
		"signed":  func(v float64) string { return fmt.Sprintf("%+.2f", v) },
		"history": func(h session.HistoryEntry) string { return "/?" + encodeQuery(h.PlayerA, h.PlayerB, h.Criteria) },
	}
	return &pages{
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")),
	}
}

func (p *pages) render(w http.ResponseWriter, name string, code int, data any) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Unable to render page", "page", name, "error", err)
		http.Error(w, "unable to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

type option struct {
	Value   string
	Checked bool
}

type thresholdInput struct {
	Ball  snooker.Ball
	Param string
	Value float64
}

type dashboardView struct {
	FileName    string
	Skipped     int
	Players     []string
	A, B        string
	Tournaments []option
	Presets     []option
	Custom      bool
	From, To    string
	Thresholds  []thresholdInput
	Comparison  *dashboard.Comparison
	ChartA      string
	ChartB      string
	History     []session.HistoryEntry
	Predictions bool
	Error       string
}

type uploadView struct {
	Error string
}

// dashboardHandler renders the main page. Without a workbook it shows the
// upload form instead.
func (ar *Router) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	token := ar.token(w, r)
	ds, cmp, err := ar.compare(token, r)
	if ds == nil {
		ar.pages.render(w, "upload.html", http.StatusOK, uploadView{})
		return
	}

	view := newDashboardView(ds, r, ar.opts.Thresholds)
	view.FileName = ds.Source
	view.Predictions = ar.predictor != nil
	code := http.StatusOK
	if err != nil {
		code = status(err)
		slog.Warn("Dashboard rejected", "status", code, "error", err)
		view.Error = err.Error()
	} else {
		ar.remember(token, cmp)
		view.Comparison = cmp
		view.A, view.B = cmp.A.Summary.Player, cmp.B.Summary.Player
		view.From, view.To = formatDay(cmp.Criteria.From), formatDay(cmp.Criteria.To)
		view.ChartA = chartURL("a", r)
		view.ChartB = chartURL("b", r)
		view.Tournaments = tournamentOptions(ds.Tournaments(), cmp.Criteria.Tournaments)
	}
	view.History = reverse(ar.sessions.History(token))
	ar.pages.render(w, "dashboard.html", code, view)
}

// newDashboardView fills the form state from the raw request, which keeps
// the inputs intact when the query is rejected.
func newDashboardView(ds *snooker.Dataset, r *http.Request, defaults stats.Thresholds) dashboardView {
	values := r.URL.Query()
	view := dashboardView{
		Skipped: ds.Skipped,
		Players: ds.PlayerNames(),
		Custom:  values.Get(paramRange) == rangeCustom,
		From:    values.Get(paramFrom),
		To:      values.Get(paramTo),
	}
	view.A, view.B = dashboard.DefaultPlayers(view.Players, values.Get(paramPlayerA), values.Get(paramPlayerB))

	var selected []string
	if _, found := values[paramTournament]; found || values.Get(paramFiltered) != "" {
		selected = values[paramTournament]
	} else {
		selected = ds.Tournaments()
	}
	view.Tournaments = tournamentOptions(ds.Tournaments(), selected)

	preset := values.Get(paramPreset)
	if preset == "" {
		preset = string(filter.Last3Months)
	}
	for _, p := range filter.Presets {
		view.Presets = append(view.Presets, option{Value: string(p), Checked: string(p) == preset})
	}

	q, err := parseQuery(values, defaults)
	thresholds := q.Thresholds
	if err != nil {
		thresholds = defaults
	}
	for _, ball := range snooker.Balls {
		view.Thresholds = append(view.Thresholds, thresholdInput{
			Ball:  ball,
			Param: thresholdPrefix + string(ball),
			Value: thresholds[ball],
		})
	}
	return view
}

func tournamentOptions(all, selected []string) []option {
	checked := make(map[string]bool, len(selected))
	for _, t := range selected {
		checked[t] = true
	}
	options := make([]option, 0, len(all))
	for _, t := range all {
		options = append(options, option{Value: t, Checked: checked[t]})
	}
	return options
}

func chartURL(slot string, r *http.Request) string {
	u := "/charts/" + slot + ".svg"
	if r.URL.RawQuery != "" {
		u += "?" + r.URL.RawQuery
	}
	return u
}

func reverse(history []session.HistoryEntry) []session.HistoryEntry {
	out := make([]session.HistoryEntry, len(history))
	for i, h := range history {
		out[len(history)-1-i] = h
	}
	return out
}

type predictionRow struct {
	predict.Prediction
	Signals []signal
}

type signal struct {
	Key     string
	Value   float64
	Leaning string
}

type matchupsView struct {
	Event       string
	Tournaments []option
	Rows        []predictionRow
	Warnings    []string
	Error       string
}

func (ar *Router) matchupsPageHandler(w http.ResponseWriter, r *http.Request) {
	if ar.predictor == nil {
		http.NotFound(w, r)
		return
	}
	token := ar.token(w, r)
	report, err := ar.predict(token, r)
	if err != nil {
		if errors.Is(err, errNoDataset) {
			ar.pages.render(w, "upload.html", http.StatusConflict, uploadView{Error: "Upload a workbook to see predictions."})
			return
		}
		ar.pages.render(w, "matchups.html", status(err), matchupsView{Error: err.Error()})
		return
	}

	event := strings.TrimSpace(r.URL.Query().Get(paramEvent))
	view := matchupsView{
		Event:    event,
		Warnings: report.Warnings,
		Error:    report.Error,
	}
	for _, t := range report.Tournaments {
		view.Tournaments = append(view.Tournaments, option{Value: t, Checked: t == event})
	}
	for _, p := range report.Predictions {
		row := predictionRow{Prediction: p}
		for _, k := range p.Bias.Keys() {
			row.Signals = append(row.Signals, signal{Key: k, Value: p.Bias[k], Leaning: p.Leanings[k]})
		}
		view.Rows = append(view.Rows, row)
	}
	ar.pages.render(w, "matchups.html", http.StatusOK, view)
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"snookerviz/internal/chart"
	"snookerviz/internal/clock"
	"snookerviz/internal/dashboard"
	"snookerviz/internal/predict"
	"snookerviz/internal/session"
	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"
)

var errNoDataset = errors.New("no workbook loaded")

// Options configures a Router.
type Options struct {
	// Static is a directory served under /static/; empty disables it.
	Static string
	// Cookie names the session cookie.
	Cookie string
	// UploadLimit caps the upload body in bytes.
	UploadLimit int64
	// Thresholds are used for balls without a t_<Ball> parameter.
	Thresholds stats.Thresholds
	Chart      chart.Options
}

// Router serves the dashboard pages and the JSON API.
type Router struct {
	opts      Options
	sessions  *session.Store
	predictor *predict.Service
	clock     clock.Clock
	pages     *pages
}

// NewRouter creates a router. predictor may be nil, which disables the
// matchups pages.
func NewRouter(opts Options, sessions *session.Store, predictor *predict.Service, c clock.Clock) *Router {
	if opts.Thresholds == nil {
		opts.Thresholds = stats.DefaultThresholds()
	}
	return &Router{
		opts:      opts,
		sessions:  sessions,
		predictor: predictor,
		clock:     c,
		pages:     newPages(),
	}
}

// Mux returns a configured *http.ServeMux with registered handlers:
// - GET /: dashboard, or the upload form when no workbook is loaded
// - POST /upload: workbook upload
// - GET /charts/{slot}: player chart as SVG, slot a.svg or b.svg
// - GET /matchups: upcoming matchups with predictions
// - GET /api/v1/players, /api/v1/tournaments, /api/v1/compare, /api/v1/matchups
// - GET /static/...: serves static files (if enabled)
func (ar *Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ar.dashboardHandler)
	mux.HandleFunc("POST /upload", ar.uploadHandler)
	mux.HandleFunc("GET /charts/{slot}", ar.chartHandler)
	mux.HandleFunc("GET /matchups", ar.matchupsPageHandler)
	mux.HandleFunc("GET /api/v1/players", ar.playersHandler)
	mux.HandleFunc("GET /api/v1/tournaments", ar.tournamentsHandler)
	mux.HandleFunc("GET /api/v1/compare", ar.compareHandler)
	mux.HandleFunc("GET /api/v1/matchups", ar.matchupsHandler)

	if len(ar.opts.Static) != 0 {
		fs := http.FileServer(http.Dir(ar.opts.Static))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	}

	return mux
}

// token returns the session token of the request, issuing a new cookie
// when the request carries none or a malformed one.
func (ar *Router) token(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(ar.opts.Cookie); err == nil && session.ValidToken(cookie.Value) {
		return cookie.Value
	}
	token := session.NewToken()
	http.SetCookie(w, &http.Cookie{
		Name:     ar.opts.Cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (ar *Router) dataset(token string) (*snooker.Dataset, error) {
	ds := ar.sessions.Dataset(token)
	if ds == nil {
		return nil, errNoDataset
	}
	return ds, nil
}

// compare resolves the dashboard comparison for the request.
func (ar *Router) compare(token string, r *http.Request) (*snooker.Dataset, *dashboard.Comparison, error) {
	ds, err := ar.dataset(token)
	if err != nil {
		return nil, nil, err
	}
	q, err := parseQuery(r.URL.Query(), ar.opts.Thresholds)
	if err != nil {
		return ds, nil, err
	}
	cmp, err := dashboard.Build(ds, q, ar.clock.Now(), ar.opts.Chart)
	if err != nil {
		return ds, nil, err
	}
	return ds, cmp, nil
}

func (ar *Router) remember(token string, cmp *dashboard.Comparison) {
	ar.sessions.Remember(token, session.HistoryEntry{
		At:       ar.clock.Now(),
		PlayerA:  cmp.A.Summary.Player,
		PlayerB:  cmp.B.Summary.Player,
		Criteria: cmp.Criteria,
		Games:    cmp.Games,
	})
}

func (ar *Router) playersHandler(w http.ResponseWriter, r *http.Request) {
	ds, err := ar.dataset(ar.token(w, r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ds.PlayerNames())
}

func (ar *Router) tournamentsHandler(w http.ResponseWriter, r *http.Request) {
	ds, err := ar.dataset(ar.token(w, r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ds.Tournaments())
}

func (ar *Router) compareHandler(w http.ResponseWriter, r *http.Request) {
	token := ar.token(w, r)
	_, cmp, err := ar.compare(token, r)
	if err != nil {
		writeError(w, err)
		return
	}
	ar.remember(token, cmp)
	writeJSON(w, cmp)
}

func (ar *Router) chartHandler(w http.ResponseWriter, r *http.Request) {
	slot, ok := strings.CutSuffix(r.PathValue("slot"), ".svg")
	if !ok || (slot != "a" && slot != "b") {
		http.NotFound(w, r)
		return
	}

	_, cmp, err := ar.compare(ar.token(w, r), r)
	if err != nil {
		writeError(w, err)
		return
	}

	panel := cmp.A
	if slot == "b" {
		panel = cmp.B
	}
	writeSVG(w, panel.Chart)
}

// writeSVG renders the whole chart before sending any of it, so a failed
// render still reaches the client as an error status.
func writeSVG(w http.ResponseWriter, spec chart.Spec) {
	var buf bytes.Buffer
	if err := chart.RenderSVG(&buf, spec); err != nil {
		writeError(w, fmt.Errorf("render chart: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (ar *Router) predict(token string, r *http.Request) (predict.Report, error) {
	ds, err := ar.dataset(token)
	if err != nil {
		return predict.Report{}, err
	}
	values := r.URL.Query()
	q, err := parseQuery(values, ar.opts.Thresholds)
	if err != nil {
		return predict.Report{}, err
	}
	today := ar.clock.Now()
	return ar.predictor.Predict(r.Context(), predict.Request{
		Dataset:    ds,
		Criteria:   dashboard.Criteria(ds, q, today),
		Thresholds: q.Thresholds,
		Tournament: strings.TrimSpace(values.Get(paramEvent)),
	}), nil
}

func (ar *Router) matchupsHandler(w http.ResponseWriter, r *http.Request) {
	if ar.predictor == nil {
		http.NotFound(w, r)
		return
	}
	report, err := ar.predict(ar.token(w, r), r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

// status maps handler errors to HTTP status codes.
func status(err error) int {
	var paramErr *ParamError
	switch {
	case errors.As(err, &paramErr):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, errNoDataset), errors.Is(err, dashboard.ErrNoPlayers):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := status(err)
	if code >= http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	} else {
		slog.Warn("Request rejected", "status", code, "error", err)
	}
	body, _ := json.Marshal(errorBody{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Unable to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

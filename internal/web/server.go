package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pterm/pterm"

	"github.com/sysconf-tracker/sysconf/internal/loader"
	"github.com/sysconf-tracker/sysconf/internal/models"
	"github.com/sysconf-tracker/sysconf/internal/render"
	"github.com/sysconf-tracker/sysconf/internal/view"
)

// Config is the board server setup. Data is shared read-only by every
// request
type Config struct {
	Addr     string
	Title    string
	Data     *loader.Datasets
	LoadedAt time.Time
	Log      *pterm.Logger
}

// Server holds the handlers for one set of loaded datasets
type Server struct {
	cfg Config
}

// NewHTTPServer wires the board routes into an http.Server
func NewHTTPServer(cfg Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewHandler(cfg),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

// NewHandler returns the board's routes
func NewHandler(cfg Config) http.Handler {
	if cfg.Data == nil {
		cfg.Data = &loader.Datasets{}
	}
	s := &Server{cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/content", s.handleContent)
	mux.HandleFunc("/generated/cfp.json", s.handleDataset(func() models.Dataset { return s.cfg.Data.CFP }))
	mux.HandleFunc("/generated/confdates.json", s.handleDataset(func() models.Dataset { return s.cfg.Data.Dates }))
	mux.HandleFunc("/health", s.handleHealth)

	return s.logRequests(mux)
}

// boardFor applies the request's tab, rank and sort selectors. A missing
// tab keeps the CFP tab; a missing sort is ascending
func (s *Server) boardFor(r *http.Request) *view.Board {
	b := view.NewBoard(s.cfg.Data.CFP, s.cfg.Data.Dates)
	q := r.URL.Query()
	if tab := q.Get("tab"); tab != "" {
		b.SetTab(models.TabMode(tab))
	}
	b.SetRank(q.Get("rank"))
	b.SetSortOrder(models.ParseSortOrder(q.Get("sort")))
	return b
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	b := s.boardFor(r)
	table := b.Table()

	data := render.PageData{
		Title:    s.cfg.Title,
		Tab:      b.Tab(),
		Tabs:     tabLinks(b),
		Rank:     b.Rank(),
		Ranks:    b.Ranks(),
		Sort:     b.SortOrder(),
		ShowSort: b.Tab() == models.TabCFP,
		Table:    table,
		RowCount: len(table.Rows),
	}
	if !s.cfg.LoadedAt.IsZero() {
		data.Generated = "loaded " + s.cfg.LoadedAt.Format("January 2, 2006 at 3:04 PM")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.Page(w, data); err != nil {
		s.logError("render page", err)
	}
}

func tabLinks(b *view.Board) []render.TabLink {
	link := func(tab models.TabMode) string {
		v := url.Values{}
		v.Set("tab", string(tab))
		v.Set("rank", b.Rank())
		if tab == models.TabCFP {
			v.Set("sort", string(b.SortOrder()))
		}
		return "/?" + v.Encode()
	}
	return []render.TabLink{
		{Label: "Call for Papers", Href: link(models.TabCFP), Active: b.Tab() == models.TabCFP},
		{Label: "Conference Dates", Href: link(models.TabDates), Active: b.Tab() != models.TabCFP},
	}
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.boardFor(r).Render(w); err != nil {
		s.logError("render content", err)
	}
}

func (s *Server) handleDataset(get func() models.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds := get()
		if ds == nil {
			ds = models.Dataset{}
		}
		writeJSON(w, ds)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) logError(msg string, err error) {
	if s.cfg.Log != nil {
		s.cfg.Log.Error(msg, s.cfg.Log.Args("error", err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	if s.cfg.Log == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.cfg.Log.Debug("request", s.cfg.Log.Args(
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		))
	})
}

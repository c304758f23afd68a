// Package httpapi exposes a thin CSV-upload surface over the core
// pipeline. It carries no business logic of its own, mirroring the
// teacher's "Server wraps collaborators, handlers stay thin" shape in
// internal/api/server.go, but without a router framework (bare
// net/http's method-pattern ServeMux is enough for one endpoint).
package httpapi

import (
	"encoding/json"
	"net/http"

	"austaxcgt/internal/config"
	"austaxcgt/internal/corpaction"
	"austaxcgt/internal/ledger"
	"austaxcgt/internal/lp"
	"austaxcgt/internal/orchestrator"
)

// Server wires the core collaborators behind a single upload endpoint.
type Server struct {
	cfg      config.Config
	loader   ledger.Loader
	adjuster corpaction.Adjuster
}

// New returns a Server. adjuster may be corpaction.NoopAdjuster{} when no
// split/rename table applies to this run.
func New(cfg config.Config, loader ledger.Loader, adjuster corpaction.Adjuster) *Server {
	return &Server{cfg: cfg, loader: loader, adjuster: adjuster}
}

// Handler returns the net/http.Handler for this server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/compute", s.handleCompute)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ready"})
}

// handleCompute accepts a multipart-free raw CSV body, runs the full
// pipeline, and returns the per-FY results as JSON. Status codes follow
// spec.md §6/§7: a detected-but-disallowed short sell is reported as 300
// rather than a generic client or server error, since it is neither bad
// input nor a crash — it is a decision the caller needs to make.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader.Load(r.Body)
	if err != nil {
		writeStatusFor(w, err)
		return
	}

	if err := s.adjuster.Adjust(r.Context(), l); err != nil {
		writeStatusFor(w, err)
		return
	}
	l.Freeze()

	o := orchestrator.New(l, s.cfg.AllowShortSelling)
	results, err := o.Run()
	if err != nil {
		writeStatusFor(w, err)
		return
	}

	writeJSON(w, 200, results)
}

func writeStatusFor(w http.ResponseWriter, err error) {
	switch err.(type) {
	case *ledger.ValidationError:
		writeError(w, 400, err.Error())
	case *orchestrator.ShortSellDetectedError:
		writeError(w, 300, err.Error())
	case *lp.FailedError:
		writeError(w, 500, err.Error())
	default:
		writeError(w, 500, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

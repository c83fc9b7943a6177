package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pickstats/rankings/internal/period"
	"pickstats/rankings/internal/rebuild"
)

// Server exposes the on-demand rebuild triggers used for manual backfills.
type Server struct {
	engine  *rebuild.Engine
	leagues map[string]bool
}

// NewServer creates the trigger server for the given supported leagues.
func NewServer(engine *rebuild.Engine, leagues []string) *Server {
	set := make(map[string]bool, len(leagues))
	for _, l := range leagues {
		set[l] = true
	}
	return &Server{engine: engine, leagues: set}
}

// Handler returns the HTTP handler for the trigger endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rebuild/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/rebuild/monthly", s.handleMonthly)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}

type triggerResponse struct {
	OK       bool   `json:"ok"`
	Kind     string `json:"kind,omitempty"`
	League   string `json:"league,omitempty"`
	PeriodID string `json:"periodId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleLeaderboard rebuilds one board on demand. kind defaults to week;
// league is required and must be supported.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind, err := period.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	league := r.URL.Query().Get("league")
	if !s.leagues[league] {
		writeError(w, http.StatusBadRequest, errors.New("unknown league: "+league))
		return
	}

	log.Info().
		Str("kind", string(kind)).
		Str("league", league).
		Msg("On-demand leaderboard rebuild triggered")

	p, err := s.engine.RebuildLeaderboard(r.Context(), kind, league, time.Now())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, rebuild.ErrRebuildInProgress) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, triggerResponse{
		OK:       true,
		Kind:     string(kind),
		League:   league,
		PeriodID: p.ID,
	})
}

// handleMonthly rebuilds last month's user stats and global document.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("On-demand monthly rebuild triggered")

	p, err := s.engine.RebuildMonthly(r.Context(), time.Now())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, rebuild.ErrRebuildInProgress) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, triggerResponse{
		OK:       true,
		Kind:     string(period.Month),
		PeriodID: p.ID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body triggerResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode trigger response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, triggerResponse{OK: false, Error: err.Error()})
}

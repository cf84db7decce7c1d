/* handlers.go
 * HTTP handlers for the serve command: the XML report, standings and matches as JSON, metrics and a health check
 */

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/report"
	"robocup-tournament/tournament/standings"

	"go.mongodb.org/mongo-driver/mongo"
)

const requestTimeout = 10 * time.Second

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/results.xml", s.ResultsXMLHandler)
	mux.HandleFunc("/standings", s.StandingsHandler)
	mux.HandleFunc("/matches", s.MatchesHandler)
	mux.HandleFunc("/healthz", s.HealthHandler)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	return mux
}

// ResultsXMLHandler renders results.xml from the files in the log directory
// Preconditions: Receives HTTP ResponseWriter and Http Request
// Postconditions: Writes the report, 404 before the first result, 500 if the log directory cannot be read
func (s *Server) ResultsXMLHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	st, err := standings.Load(s.logDir)
	if err != nil {
		s.logger.Warn("Failed to load standings", logger.Error(err))
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXML(&buf, st, s.report); err != nil {
		s.logger.Error("Failed to render report", logger.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write(buf.Bytes())
}

// StandingsHandler returns the latest standings snapshot as JSON
func (s *Server) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rec, err := s.store.FetchStandings(ctx)
	if err != nil {
		s.fetchFailed(w, "standings", err)
		return
	}
	s.writeJSON(w, rec)
}

// MatchesHandler returns every recorded match as JSON
func (s *Server) MatchesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	matches, err := s.store.FetchMatches(ctx)
	if err != nil {
		s.fetchFailed(w, "matches", err)
		return
	}
	s.writeJSON(w, matches)
}

// HealthHandler reports that the server is up
func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) fetchFailed(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "no "+what+" recorded yet", http.StatusNotFound)
		return
	}
	s.logger.Warn("Failed to fetch "+what, logger.Error(err))
	http.Error(w, "failed to fetch "+what, http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", logger.Error(err))
	}
}

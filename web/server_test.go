/* server_test.go
 * Contains unit tests for the HTTP handlers
 */

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"robocup-tournament/metrics"
	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/standings"
	"robocup-tournament/tournament/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLogDir creates a log directory holding one played match
func writeLogDir(t *testing.T) string {
	t.Helper()
	logDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(logDir, "match_1"), 0o755))
	require.NoError(t, results.WriteMetadata(results.MetadataPath(logDir, 1), results.Metadata{
		TeamL: results.TeamMetadata{Name: "alpha", TeamDir: "teams/alpha"},
		TeamR: results.TeamMetadata{Name: "beta", TeamDir: "teams/beta"},
	}))
	log := results.NewLog(logDir)
	require.NoError(t, log.WriteHeader(results.Header))
	require.NoError(t, log.Append(`2024-06-01 10:00:00, "alpha", "beta", NULL, NULL, 2, 1, NULL, NULL, NULL, NULL`))
	return logDir
}

func serve(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// region NewServer tests

func TestNewServer_DefaultsToFileStore(t *testing.T) {
	s := NewServer(Config{Addr: ":8080", LogDir: "log"})

	fileStore, ok := s.store.(*store.FileStore)
	require.True(t, ok)
	assert.Equal(t, "log", fileStore.LogDir)
	assert.NotNil(t, s.logger)
}

// endregion

// region ResultsXMLHandler tests

func TestResultsXMLHandler(t *testing.T) {
	s := NewServer(Config{LogDir: writeLogDir(t)})

	w := serve(t, s, http.MethodGet, "/results.xml")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<results>")
	assert.Contains(t, w.Body.String(), "alpha")
}

func TestResultsXMLHandler_NoResults(t *testing.T) {
	s := NewServer(Config{LogDir: t.TempDir()})

	w := serve(t, s, http.MethodGet, "/results.xml")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultsXMLHandler_WrongMethod(t *testing.T) {
	s := NewServer(Config{LogDir: writeLogDir(t)})

	w := serve(t, s, http.MethodPost, "/results.xml")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// endregion

// region StandingsHandler tests

func TestStandingsHandler_FromFiles(t *testing.T) {
	s := NewServer(Config{LogDir: writeLogDir(t)})

	w := serve(t, s, http.MethodGet, "/standings")

	require.Equal(t, http.StatusOK, w.Code)
	var rec store.StandingsRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, 1, rec.Matches)
	require.Len(t, rec.Teams, 2)
	assert.Equal(t, "alpha", rec.Teams[0].Name)
	assert.Equal(t, 1, rec.Teams[0].Won)
}

func TestStandingsHandler_NothingStored(t *testing.T) {
	s := NewServer(Config{Store: store.NewMockStore()})

	w := serve(t, s, http.MethodGet, "/standings")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStandingsHandler_StoreError(t *testing.T) {
	mockStore := store.NewMockStore()
	mockStore.FetchStandingsError = errors.New("no primary")
	s := NewServer(Config{Store: mockStore})

	w := serve(t, s, http.MethodGet, "/standings")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStandingsHandler_FromStore(t *testing.T) {
	mockStore := store.NewMockStore()
	mockStore.Standings = &store.StandingsRecord{
		Tournament: "final",
		UpdatedAt:  time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Matches:    3,
		Teams:      []standings.Team{{Name: "gamma", TeamDir: "teams/gamma", Won: 3}},
	}
	s := NewServer(Config{Store: mockStore})

	w := serve(t, s, http.MethodGet, "/standings")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tournament":"final"`)
	assert.Contains(t, w.Body.String(), `"name":"gamma"`)
}

// endregion

// region MatchesHandler tests

func TestMatchesHandler(t *testing.T) {
	s := NewServer(Config{LogDir: writeLogDir(t)})

	w := serve(t, s, http.MethodGet, "/matches")

	require.Equal(t, http.StatusOK, w.Code)
	var matches []store.MatchRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "teams/alpha", matches[0].LeftDir)
	assert.Equal(t, 2, matches[0].LeftScore)
}

// endregion

// region HealthHandler and metrics tests

func TestHealthHandler(t *testing.T) {
	s := NewServer(Config{})

	w := serve(t, s, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	m.SetScheduled(6)
	s := NewServer(Config{Metrics: m})

	w := serve(t, s, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "robocup_tournament_matches_scheduled 6")
}

func TestMetricsRoute_Disabled(t *testing.T) {
	s := NewServer(Config{})

	w := serve(t, s, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// endregion

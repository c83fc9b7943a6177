package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pickstats/rankings/internal/aggregate"
	"pickstats/rankings/internal/rebuild"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	engine := rebuild.NewEngine(nil, nil, aggregate.NewRuleTableClassifier(), 0)
	return NewServer(engine, []string{"kbo", "mlb"})
}

func doRequest(t *testing.T, path string) (*httptest.ResponseRecorder, triggerResponse) {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)

	var body triggerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestHandleLeaderboard_BadKind(t *testing.T) {
	rec, body := doRequest(t, "/rebuild/leaderboard?kind=day&league=kbo")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.OK)
	assert.Contains(t, body.Error, "day")
}

func TestHandleLeaderboard_UnknownLeague(t *testing.T) {
	rec, body := doRequest(t, "/rebuild/leaderboard?kind=week&league=nfl")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.OK)
	assert.Contains(t, body.Error, "nfl")
}

func TestHandleLeaderboard_MissingLeague(t *testing.T) {
	rec, body := doRequest(t, "/rebuild/leaderboard?kind=week")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.OK)
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

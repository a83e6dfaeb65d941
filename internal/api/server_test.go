package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/redrock/internal/engine"
)

func testServer(t *testing.T, seed int64) (*Server, *httptest.Server) {
	t.Helper()
	srv := &Server{
		Eng:      engine.New(engine.Config{Seed: seed}),
		AdminKey: "test-token",
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestStateEndpoint(t *testing.T) {
	_, ts := testServer(t, 1)

	var summary map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/state", &summary)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Red Rock Territory", summary["settlement"])
	assert.Equal(t, float64(1), summary["day"])
	assert.NotEmpty(t, summary["resources"])
}

func TestCharactersEndpoint(t *testing.T) {
	_, ts := testServer(t, 2)

	var chars []map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/characters", &chars)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, chars, 8)
	for _, c := range chars {
		assert.NotEmpty(t, c["name"])
		assert.Equal(t, true, c["alive"])
	}
}

func TestCharacterDetail(t *testing.T) {
	srv, ts := testServer(t, 3)

	id := srv.Eng.Game().Characters[0].ID
	var char map[string]any
	resp := getJSON(t, fmt.Sprintf("%s/api/v1/characters/%d", ts.URL, id), &char)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, srv.Eng.Game().Characters[0].Name, char["name"])

	resp = getJSON(t, ts.URL+"/api/v1/characters/999999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = getJSON(t, ts.URL+"/api/v1/characters/notanumber", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChronicleFilter(t *testing.T) {
	srv, ts := testServer(t, 4)
	require.NoError(t, srv.Eng.StepDays(30))

	var entries []map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/chronicle?limit=5", &entries)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.LessOrEqual(t, len(entries), 5)

	entries = nil
	getJSON(t, ts.URL+"/api/v1/chronicle?type=milestone", &entries)
	for _, e := range entries {
		assert.Equal(t, "milestone", e["type"])
	}
}

func TestWeatherEndpoints(t *testing.T) {
	_, ts := testServer(t, 5)

	var report map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/weather", &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, report, "current")
	assert.Contains(t, report, "pattern")

	var forecast []map[string]any
	getJSON(t, ts.URL+"/api/v1/weather/forecast?days=3", &forecast)
	assert.Len(t, forecast, 3)
}

func TestMedicalEndpoint(t *testing.T) {
	srv, ts := testServer(t, 6)
	require.NoError(t, srv.Eng.StepDays(20))

	var body map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/medical", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "report")
	assert.Contains(t, body, "patients")
	assert.Contains(t, body, "outbreaks")
}

func TestExportEndpoint(t *testing.T) {
	srv, ts := testServer(t, 7)
	require.NoError(t, srv.Eng.StepDays(5))

	var export map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/export", &export)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(7), export["seed"])
	assert.NotEmpty(t, export["chronicle"])
}

func TestArchiveWithoutDB(t *testing.T) {
	_, ts := testServer(t, 8)
	resp := postJSON(t, ts.URL+"/api/v1/control/archive", "test-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAdminAuth(t *testing.T) {
	_, ts := testServer(t, 9)

	// Wrong token.
	resp := postJSON(t, ts.URL+"/api/v1/control/step", "wrong", map[string]any{"days": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// No token.
	resp = postJSON(t, ts.URL+"/api/v1/control/step", "", map[string]any{"days": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// GET on an admin route.
	resp = getJSON(t, ts.URL+"/api/v1/control/step", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	srv := &Server{Eng: engine.New(engine.Config{Seed: 10})}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/control/step", "anything", map[string]any{"days": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStepEndpoint(t *testing.T) {
	_, ts := testServer(t, 11)

	resp := postJSON(t, ts.URL+"/api/v1/control/step", "test-token", map[string]any{"days": 3})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var summary map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, float64(4), summary["day"])

	resp = postJSON(t, ts.URL+"/api/v1/control/step", "test-token", map[string]any{"days": 100000})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v1/control/step", "test-token", map[string]any{"to_season": "monsoon"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v1/control/step", "test-token", map[string]any{"to_day": 10})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, float64(10), summary["day"])
}

func TestStepConflictWhileRunning(t *testing.T) {
	srv, ts := testServer(t, 12)
	srv.Eng.SetSpeed(time.Hour)
	require.True(t, srv.Eng.Start())
	defer srv.Eng.Stop()

	resp := postJSON(t, ts.URL+"/api/v1/control/step", "test-token", map[string]any{"days": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestStartStopEndpoints(t *testing.T) {
	srv, ts := testServer(t, 13)
	srv.Eng.SetSpeed(time.Hour)

	resp := postJSON(t, ts.URL+"/api/v1/control/start", "test-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["started"])

	resp = postJSON(t, ts.URL+"/api/v1/control/stop", "test-token", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, srv.Eng.Running())
}

func TestSpeedEndpoint(t *testing.T) {
	_, ts := testServer(t, 14)

	resp := postJSON(t, ts.URL+"/api/v1/control/speed", "test-token", map[string]any{"interval_ms": 50})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v1/control/speed", "test-token", map[string]any{"interval_ms": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTreatErrorMapping(t *testing.T) {
	srv, ts := testServer(t, 15)

	// Unknown character.
	resp := postJSON(t, ts.URL+"/api/v1/treat", "test-token", map[string]any{
		"character_id": 999999, "condition_id": "nope", "tier": "folk_remedy",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unknown tier.
	id := srv.Eng.Game().Characters[0].ID
	resp = postJSON(t, ts.URL+"/api/v1/treat", "test-token", map[string]any{
		"character_id": id, "condition_id": "nope", "tier": "leeches",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown condition on a real character.
	resp = postJSON(t, ts.URL+"/api/v1/treat", "test-token", map[string]any{
		"character_id": id, "condition_id": "nope", "tier": "folk_remedy",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Missing fields.
	resp = postJSON(t, ts.URL+"/api/v1/treat", "test-token", map[string]any{"character_id": id})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	_, ts := testServer(t, 16)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/state", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestLiveFeed(t *testing.T) {
	srv, ts := testServer(t, 17)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Catch-up frame arrives before any stepping.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first liveUpdate
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, 1, first.Day)

	require.NoError(t, srv.Eng.StepDays(1))

	var update liveUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, 2, update.Day)
	assert.NotEmpty(t, update.Resources)
	assert.NotEmpty(t, update.Weather)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "limits are per client")
	assert.Greater(t, rl.RetryAfter("1.2.3.4"), 0)
}

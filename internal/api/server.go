// Package api provides the HTTP API for observing and steering a
// session. GET endpoints are public (read-only observation). POST
// endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/engine"
	"github.com/talgya/redrock/internal/medical"
	"github.com/talgya/redrock/internal/persistence"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
	"github.com/talgya/redrock/internal/weather"
)

// Server serves one simulation session over HTTP.
type Server struct {
	Eng      *engine.Engine
	DB       *persistence.DB // nil = archive endpoints disabled
	Addr     string          // listen address, e.g. ":8080"
	AdminKey string          // Bearer token for POST endpoints. Empty = POST disabled.

	hub *liveHub
}

// Handler builds the route table. Split out from Start so tests can
// drive the server through httptest.
func (s *Server) Handler() http.Handler {
	exportLimiter := NewRateLimiter(30, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only — anyone can check in on the settlement).
	mux.HandleFunc("/api/v1/state", s.handleState)
	mux.HandleFunc("/api/v1/characters", s.handleCharacters)
	mux.HandleFunc("/api/v1/characters/", s.handleCharacterDetail)
	mux.HandleFunc("/api/v1/chronicle", s.handleChronicle)
	mux.HandleFunc("/api/v1/weather", s.handleWeather)
	mux.HandleFunc("/api/v1/weather/forecast", s.handleForecast)
	mux.HandleFunc("/api/v1/medical", s.handleMedical)
	mux.HandleFunc("/api/v1/export", RateLimitMiddleware(exportLimiter, s.handleExport))
	mux.HandleFunc("/api/v1/exports", s.handleExports)
	mux.HandleFunc("/api/v1/exports/", s.handleExportDetail)

	// Live feed (websocket).
	mux.HandleFunc("/api/v1/live", s.handleLive)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/control/start", s.adminOnly(s.handleStart))
	mux.HandleFunc("/api/v1/control/stop", s.adminOnly(s.handleStop))
	mux.HandleFunc("/api/v1/control/step", s.adminOnly(s.handleStep))
	mux.HandleFunc("/api/v1/control/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/control/archive", s.adminOnly(s.handleArchive))
	mux.HandleFunc("/api/v1/treat", s.adminOnly(s.handleTreat))

	s.hub = newLiveHub()
	s.Eng.Subscribe(func(g *state.Game) {
		s.hub.broadcast(s.liveUpdate(g))
	})

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	handler := s.Handler()
	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminKey != "", "archive", s.DB != nil)

	go func() {
		if err := http.ListenAndServe(s.Addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set REDROCK_CORS_ORIGINS to a comma-separated list of allowed
// origins. Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("REDROCK_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no REDROCK_ADMIN_TOKEN set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Eng.Summarize())
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	aliveOnly := r.URL.Query().Get("alive") == "true"

	type characterSummary struct {
		ID             settlers.CharacterID `json:"id"`
		Name           string               `json:"name"`
		Age            int                  `json:"age"`
		Gender         string               `json:"gender"`
		Culture        string               `json:"culture"`
		Background     string               `json:"background"`
		Health         float64              `json:"health"`
		Mood           float64              `json:"mood"`
		Energy         float64              `json:"energy"`
		Activity       string               `json:"activity"`
		Injuries       int                  `json:"injuries"`
		Diseases       int                  `json:"diseases"`
		WorkEfficiency float64              `json:"work_efficiency"`
		Bedridden      bool                 `json:"bedridden"`
		Alive          bool                 `json:"alive"`
		CauseOfDeath   string               `json:"cause_of_death,omitempty"`
	}

	var result []characterSummary
	s.Eng.Locked(func(g *state.Game) {
		for _, c := range g.Characters {
			if aliveOnly && !c.IsAlive {
				continue
			}
			result = append(result, characterSummary{
				ID:             c.ID,
				Name:           c.Name,
				Age:            c.Age,
				Gender:         c.Gender.String(),
				Culture:        c.Culture,
				Background:     c.Background,
				Health:         c.Stats.Health,
				Mood:           c.Stats.Mood,
				Energy:         c.Stats.Energy,
				Activity:       c.CurrentActivity,
				Injuries:       len(c.Injuries),
				Diseases:       len(c.Diseases),
				WorkEfficiency: c.MedicalStatus.WorkEfficiency,
				Bedridden:      c.MedicalStatus.RequiresBedrest,
				Alive:          c.IsAlive,
				CauseOfDeath:   c.CauseOfDeath,
			})
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleCharacterDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/characters/:id → parts[0]="" [1]="api" [2]="v1" [3]="characters" [4]=id
	if len(parts) < 5 || parts[4] == "" {
		http.Error(w, "missing character id", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseUint(parts[4], 10, 64)
	if err != nil {
		http.Error(w, "invalid character id", http.StatusBadRequest)
		return
	}

	var payload []byte
	var found bool
	s.Eng.Locked(func(g *state.Game) {
		c, ok := g.Character(settlers.CharacterID(id))
		if !ok {
			return
		}
		found = true
		// Marshal under the lock; the character keeps mutating once released.
		payload, err = json.MarshalIndent(c, "", "  ")
	})
	if !found {
		http.Error(w, "character not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (s *Server) handleChronicle(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	entryType := r.URL.Query().Get("type")
	minSeverity := 0
	if ms := r.URL.Query().Get("min_severity"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil {
			minSeverity = n
		}
	}

	var entries []state.ChronicleEntry
	s.Eng.Locked(func(g *state.Game) {
		for _, entry := range g.Chronicle {
			if entryType != "" && entry.Type != entryType {
				continue
			}
			if entry.Severity < minSeverity {
				continue
			}
			entries = append(entries, entry)
		}
	})

	start := 0
	if len(entries) > limit {
		start = len(entries) - limit
	}
	writeJSON(w, entries[start:])
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	var report weather.Report
	s.Eng.Locked(func(*state.Game) {
		report = s.Eng.Weather().BuildReport(3)
	})
	writeJSON(w, report)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	days := 5
	if d := r.URL.Query().Get("days"); d != "" {
		if n, err := strconv.Atoi(d); err == nil && n > 0 && n <= 7 {
			days = n
		}
	}

	var forecast []weather.Prediction
	s.Eng.Locked(func(*state.Game) {
		forecast = s.Eng.Weather().Forecast(days)
	})
	writeJSON(w, forecast)
}

func (s *Server) handleMedical(w http.ResponseWriter, r *http.Request) {
	type patientEntry struct {
		ID         settlers.CharacterID   `json:"id"`
		Name       string                 `json:"name"`
		Health     float64                `json:"health"`
		Injuries   []*settlers.Injury     `json:"injuries,omitempty"`
		Diseases   []*settlers.Disease    `json:"diseases,omitempty"`
		Status     settlers.MedicalStatus `json:"status"`
		Immunities []string               `json:"immunities,omitempty"`
	}

	var patients []patientEntry
	var report medical.Report
	s.Eng.Locked(func(g *state.Game) {
		for _, c := range g.Alive() {
			if len(c.Injuries) == 0 && len(c.Diseases) == 0 {
				continue
			}
			entry := patientEntry{
				ID:       c.ID,
				Name:     c.Name,
				Health:   c.Stats.Health,
				Injuries: c.Injuries,
				Diseases: c.Diseases,
				Status:   c.MedicalStatus,
			}
			for _, im := range c.Immunities {
				entry.Immunities = append(entry.Immunities, im.String())
			}
			patients = append(patients, entry)
		}
		report = s.Eng.Medical().Report()
	})

	writeJSON(w, map[string]any{
		"report":    report,
		"patients":  patients,
		"outbreaks": report.Outbreaks,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Eng.ExportChronicle())
}

// handleArchive writes the current export into the SQLite archive.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}

	export := s.Eng.ExportChronicle()
	id, err := s.DB.SaveExport(export)
	if err != nil {
		slog.Error("archive failed", "error", err)
		http.Error(w, "archive failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"export_id": id, "day": export.Summary.Day})
}

func (s *Server) handleExports(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	records, err := s.DB.RecentExports(limit)
	if err != nil {
		slog.Error("exports query failed", "error", err)
		writeJSON(w, []persistence.ExportRecord{})
		return
	}
	if records == nil {
		records = []persistence.ExportRecord{}
	}
	writeJSON(w, records)
}

// handleExportDetail serves the archived chronicle of one export:
// GET /api/v1/exports/:id.
func (s *Server) handleExportDetail(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 5 || parts[4] == "" {
		http.Error(w, "missing export id", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		http.Error(w, "invalid export id", http.StatusBadRequest)
		return
	}

	rows, err := s.DB.ChronicleFor(id)
	if err != nil {
		slog.Error("chronicle query failed", "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []persistence.ChronicleRow{}
	}
	writeJSON(w, rows)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	started := s.Eng.Start()
	writeJSON(w, map[string]any{"started": started, "running": s.Eng.Running()})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.Eng.Stop()
	writeJSON(w, map[string]any{"running": s.Eng.Running()})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Days     int    `json:"days"`
		ToDay    int    `json:"to_day,omitempty"`
		ToSeason string `json:"to_season,omitempty"`
	}{Days: 1}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}

	var err error
	switch {
	case req.ToDay > 0:
		if req.ToDay > engine.MaxDays+1 {
			http.Error(w, "target day beyond the session cap", http.StatusBadRequest)
			return
		}
		err = s.Eng.StepToDay(req.ToDay)
	case req.ToSeason != "":
		season, ok := calendar.ParseSeason(req.ToSeason)
		if !ok {
			http.Error(w, "unknown season", http.StatusBadRequest)
			return
		}
		err = s.Eng.StepToSeason(season)
	default:
		if req.Days < 1 || req.Days > engine.MaxDays {
			http.Error(w, fmt.Sprintf("days must be 1-%d", engine.MaxDays), http.StatusBadRequest)
			return
		}
		err = s.Eng.StepDays(req.Days)
	}

	if errors.Is(err, engine.ErrRunning) {
		http.Error(w, "simulation is running; stop it first", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.Eng.Summarize())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IntervalMS int `json:"interval_ms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.IntervalMS < 10 || req.IntervalMS > 60000 {
		http.Error(w, "interval_ms must be 10-60000", http.StatusBadRequest)
		return
	}
	s.Eng.SetSpeed(time.Duration(req.IntervalMS) * time.Millisecond)
	slog.Info("speed changed", "interval_ms", req.IntervalMS)
	writeJSON(w, map[string]int{"interval_ms": req.IntervalMS})
}

func (s *Server) handleTreat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CharacterID uint64 `json:"character_id"`
		ConditionID string `json:"condition_id"`
		Tier        string `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.ConditionID == "" || req.Tier == "" {
		http.Error(w, "condition_id and tier required", http.StatusBadRequest)
		return
	}

	var err error
	s.Eng.Locked(func(*state.Game) {
		err = s.Eng.Medical().Treat(
			settlers.CharacterID(req.CharacterID),
			req.ConditionID,
			medical.TreatmentTier(req.Tier),
		)
	})

	switch {
	case err == nil:
		writeJSON(w, map[string]any{"success": true})
	case errors.Is(err, medical.ErrUnknownCharacter), errors.Is(err, medical.ErrUnknownCondition):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, medical.ErrUnknownTier):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, medical.ErrDeadCharacter):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, medical.ErrTierUnavailable), errors.Is(err, medical.ErrNoMedicine):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

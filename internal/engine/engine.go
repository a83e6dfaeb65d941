// Package engine provides the day-stepped simulation orchestrator. It
// owns the shared aggregate and runs the subsystem phases in a fixed
// order each day.
package engine

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/data"
	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/medical"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
	"github.com/talgya/redrock/internal/weather"
)

// MaxDays is the hard cap on a single session. The year ends whether
// the settlement made it or not.
const MaxDays = 365

// ErrRunning is returned by bulk stepping while the timer loop drives
// the simulation.
var ErrRunning = errors.New("simulation is running")

// Config holds simulation startup knobs.
type Config struct {
	Settlement string
	Seed       int64
	DataDir    string
	Population int
	StartDate  time.Time
}

// Engine is the orchestrator: one instance per session.
type Engine struct {
	mu  sync.Mutex
	gs  *state.Game
	rng *entropy.Source

	weather *weather.Engine
	medical *medical.Engine
	tables  *data.Tables

	running  bool
	stopCh   chan struct{}
	interval time.Duration

	// Called after every completed step, outside the step itself but
	// under the engine lock.
	observers []func(*state.Game)
}

// New assembles a session: roster, stockpiles, prices, and both
// subsystem engines.
func New(cfg Config) *Engine {
	if cfg.Settlement == "" {
		cfg.Settlement = "Red Rock Territory"
	}
	if cfg.Population <= 0 {
		cfg.Population = 8
	}
	if cfg.StartDate.IsZero() {
		cfg.StartDate = time.Date(1849, time.March, 15, 0, 0, 0, 0, time.UTC)
	}

	rng := entropy.NewSource(cfg.Seed)
	tables := data.Load(cfg.DataDir)
	gs := state.NewGame(cfg.Settlement, cfg.StartDate)
	gs.Prices = economy.InitialPrices(rng)

	spawner := settlers.NewSpawner(rng, tables)
	for _, c := range spawner.SpawnPopulation(cfg.Population, cfg.StartDate) {
		gs.AddCharacter(c)
	}

	med := medical.NewEngine(gs, rng)
	wx := weather.NewEngine(gs, rng, med)

	e := &Engine{
		gs:       gs,
		rng:      rng,
		weather:  wx,
		medical:  med,
		tables:   tables,
		interval: time.Second,
	}
	gs.AddChronicle("The wagon train reached Red Rock and the settlers began to unload", "milestone", 5)
	slog.Info("session created",
		"settlement", cfg.Settlement, "population", cfg.Population, "seed", rng.Seed())
	return e
}

// Game exposes the aggregate for the API layer. Callers must hold the
// engine via Locked for any multi-field read.
func (e *Engine) Game() *state.Game { return e.gs }

// Weather exposes the weather engine for reports.
func (e *Engine) Weather() *weather.Engine { return e.weather }

// Medical exposes the medical engine for reports and treatment.
func (e *Engine) Medical() *medical.Engine { return e.medical }

// Locked runs fn under the engine lock, for consistent reads.
func (e *Engine) Locked(fn func(*state.Game)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.gs)
}

// Subscribe registers an observer called after each completed day.
func (e *Engine) Subscribe(fn func(*state.Game)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Finished reports whether the session hit the day cap or lost its
// last settler.
func (e *Engine) Finished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finishedLocked()
}

func (e *Engine) finishedLocked() bool {
	return e.gs.Day > MaxDays || e.gs.Population.Total == 0
}

// Step advances the simulation one day.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stepLocked()
}

// stepLocked runs the daily phases in fixed order: weather, narrative
// events, character upkeep, medical, then economy. The medical pass
// works on post-upkeep stats; events draw participants from the day's
// starting roster.
func (e *Engine) stepLocked() {
	if e.finishedLocked() {
		return
	}
	day := e.gs.Day

	e.weather.ProcessDaily()
	e.generateEvents()
	e.processEvents()
	e.updateCharacters()
	e.medical.ProcessDaily()
	e.updateResources()
	e.gs.Prices.AdjustDaily(e.gs.Resources, e.gs.Population.Total, e.rng)

	e.gs.AdvanceDate()
	slog.Debug("day complete",
		"day", day,
		"population", e.gs.Population.Total,
		"morale", e.gs.Morale,
		"weather", e.weather.Describe())

	if e.finishedLocked() {
		e.closeSession()
	}
	for _, fn := range e.observers {
		fn(e.gs)
	}
}

// StepDays advances n days at once. Refused while the timer loop is
// driving.
func (e *Engine) StepDays(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	for i := 0; i < n && !e.finishedLocked(); i++ {
		e.stepLocked()
	}
	return nil
}

// StepToSeason advances until the season changes to target, capped at
// a year.
func (e *Engine) StepToSeason(target calendar.Season) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	for i := 0; i < MaxDays && e.gs.Season != target && !e.finishedLocked(); i++ {
		e.stepLocked()
	}
	return nil
}

// StepToDay advances until the day counter reaches target.
func (e *Engine) StepToDay(target int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	for e.gs.Day < target && !e.finishedLocked() {
		e.stepLocked()
	}
	return nil
}

// closeSession writes the end-of-year record.
func (e *Engine) closeSession() {
	score := e.survivalScoreLocked()
	if e.gs.Population.Total == 0 {
		e.gs.AddChronicle("The last settler is gone; Red Rock stands empty", "milestone", 10)
	} else {
		e.gs.AddChronicle("A full year on the frontier has passed", "milestone", 6)
	}
	slog.Info("session finished",
		"day", e.gs.Day, "population", e.gs.Population.Total, "score", score)
}

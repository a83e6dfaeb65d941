package engine

import (
	"math"

	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/medical"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
	"github.com/talgya/redrock/internal/weather"
)

// Summary is the settlement-level snapshot the API serves.
type Summary struct {
	Settlement    string              `json:"settlement"`
	Day           int                 `json:"day"`
	Date          string              `json:"date"`
	Season        string              `json:"season"`
	Running       bool                `json:"running"`
	Population    state.Population    `json:"population"`
	Morale        float64             `json:"morale"`
	AverageHealth float64             `json:"average_health"`
	Resources     map[string]float64  `json:"resources"`
	Prices        map[string]float64  `json:"prices"`
	Buildings     []*state.Building   `json:"buildings"`
	SurvivalScore int                 `json:"survival_score"`
	Weather       weather.Conditions  `json:"weather"`
	Outbreaks     []*medical.Outbreak `json:"outbreaks,omitempty"`
}

// SurvivalScore rates the settlement 0-100: heads, stores, spirits,
// health, and the breadth of the community.
func (e *Engine) SurvivalScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.survivalScoreLocked()
}

func (e *Engine) survivalScoreLocked() int {
	gs := e.gs
	score := math.Min(30, float64(gs.Population.Total)*3)
	score += math.Min(25, gs.Resources.Total()/20)
	score += gs.Morale / 100 * 20
	score += gs.AverageHealth() / 100 * 15
	score += math.Min(10, float64(len(gs.Population.CulturalGroups))*2)
	return int(math.Round(score))
}

// Summarize builds the settlement snapshot under the engine lock.
func (e *Engine) Summarize() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	gs := e.gs
	return Summary{
		Settlement:    gs.Settlement,
		Day:           gs.Day,
		Date:          calendar.Format(gs.Date),
		Season:        gs.Season.String(),
		Running:       e.running,
		Population:    gs.Population,
		Morale:        gs.Morale,
		AverageHealth: gs.AverageHealth(),
		Resources:     gs.Resources.Map(),
		Prices:        gs.Prices.Map(),
		Buildings:     gs.Buildings,
		SurvivalScore: e.survivalScoreLocked(),
		Weather:       e.weather.Current(),
		Outbreaks:     e.medical.Outbreaks(),
	}
}

// Export is the full session record for archive and download: the
// summary, the chronicle, the final roster, and both subsystem
// reports.
type Export struct {
	Summary    Summary                `json:"summary"`
	Characters []*settlers.Character  `json:"characters"`
	Chronicle  []state.ChronicleEntry `json:"chronicle"`
	Weather    weather.Report         `json:"weather"`
	Medical    medical.Report         `json:"medical"`
	Seed       int64                  `json:"seed"`
}

// ExportChronicle assembles the complete session record.
func (e *Engine) ExportChronicle() Export {
	summary := e.Summarize()
	e.mu.Lock()
	defer e.mu.Unlock()
	chronicle := make([]state.ChronicleEntry, len(e.gs.Chronicle))
	copy(chronicle, e.gs.Chronicle)
	characters := make([]*settlers.Character, len(e.gs.Characters))
	copy(characters, e.gs.Characters)
	return Export{
		Summary:    summary,
		Characters: characters,
		Chronicle:  chronicle,
		Weather:    e.weather.BuildReport(0),
		Medical:    e.medical.Report(),
		Seed:       e.rng.Seed(),
	}
}

// Package state holds the shared simulation aggregate. The orchestrator
// owns it; the weather and medical engines hold a reference and mutate
// it directly during their phase of the day.
package state

import (
	"log/slog"
	"time"

	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/settlers"
)

// Building is one piece of settlement infrastructure. Condition 0–100;
// a building at 0 is removed.
type Building struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"` // community | storage | water | medical | housing
	Capacity  int     `json:"capacity"`
	Condition float64 `json:"condition"`
	Special   string  `json:"special,omitempty"`
}

// ChronicleEntry is one appended narrative record. The core only
// appends; it never reads the chronicle back for logic.
type ChronicleEntry struct {
	Date         time.Time `json:"date"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Severity     int       `json:"severity"` // 1–10
	Participants []string  `json:"participants,omitempty"`
}

// EventEffect is one resolved effect of a queued event.
type EventEffect struct {
	Type     string  `json:"type"`   // mood | health | resource | skill
	Target   string  `json:"target"` // all | participants
	Resource string  `json:"resource,omitempty"`
	Skill    string  `json:"skill,omitempty"`
	Modifier float64 `json:"modifier"`
}

// Event is one queued occurrence awaiting effect application.
type Event struct {
	ID           string                `json:"id"`
	Type         string                `json:"type"`
	Description  string                `json:"description"`
	Participants []*settlers.Character `json:"-"`
	Effects      []EventEffect         `json:"effects"`
	Severity     int                   `json:"severity"`
	Date         time.Time             `json:"date"`
}

// Population is the demographic summary kept in step with the roster.
type Population struct {
	Total          int            `json:"total"`
	Children       int            `json:"children"` // under 18
	Adults         int            `json:"adults"`
	Elderly        int            `json:"elderly"` // over 60
	CulturalGroups map[string]int `json:"cultural_groups"`
}

// Game is the aggregate simulation state for one session.
type Game struct {
	Settlement string          `json:"settlement"`
	Date       time.Time       `json:"date"`
	Day        int             `json:"day"` // 1-based step counter
	Season     calendar.Season `json:"season"`

	Characters []*settlers.Character `json:"characters"`
	byID       map[settlers.CharacterID]*settlers.Character

	Resources *economy.Pool  `json:"-"`
	Prices    economy.Prices `json:"-"`

	Buildings []*Building `json:"buildings"`

	Morale       float64  `json:"morale"` // 0–100
	MoraleEvents []string `json:"morale_events,omitempty"`

	Population Population `json:"population"`

	Chronicle    []ChronicleEntry `json:"chronicle"`
	EventQueue   []*Event         `json:"-"`
	EventHistory []*Event         `json:"-"`
}

// NewGame creates the aggregate for a fresh session starting on the
// given date.
func NewGame(settlement string, start time.Time) *Game {
	return &Game{
		Settlement: settlement,
		Date:       start,
		Day:        1,
		Season:     calendar.SeasonOf(start),
		byID:       make(map[settlers.CharacterID]*settlers.Character),
		Resources:  economy.StartingPool(),
		Morale:     65,
		Buildings: []*Building{
			{Name: "Main Hall", Type: "community", Capacity: 50, Condition: 100},
			{Name: "Storage Shed", Type: "storage", Capacity: 200, Condition: 85},
			{Name: "Well", Type: "water", Capacity: 100, Condition: 90},
		},
		Population: Population{CulturalGroups: make(map[string]int)},
	}
}

// AddCharacter indexes a settler and updates the population summary.
func (g *Game) AddCharacter(c *settlers.Character) {
	g.Characters = append(g.Characters, c)
	g.byID[c.ID] = c
	if !c.IsAlive {
		return
	}
	g.Population.Total++
	switch {
	case c.IsChild():
		g.Population.Children++
	case c.IsElderly():
		g.Population.Elderly++
	default:
		g.Population.Adults++
	}
	g.Population.CulturalGroups[c.Culture]++
}

// Character looks up a settler by id.
func (g *Game) Character(id settlers.CharacterID) (*settlers.Character, bool) {
	c, ok := g.byID[id]
	return c, ok
}

// Alive returns the living settlers.
func (g *Game) Alive() []*settlers.Character {
	out := make([]*settlers.Character, 0, len(g.Characters))
	for _, c := range g.Characters {
		if c.IsAlive {
			out = append(out, c)
		}
	}
	return out
}

// AdjustMorale applies a delta clamped to [0, 100], optionally noting
// the reason in the recent-events list.
func (g *Game) AdjustMorale(delta float64, reason string) {
	g.Morale += delta
	if g.Morale < 0 {
		g.Morale = 0
	}
	if g.Morale > 100 {
		g.Morale = 100
	}
	if reason != "" {
		g.MoraleEvents = append(g.MoraleEvents, reason)
		if len(g.MoraleEvents) > 20 {
			g.MoraleEvents = g.MoraleEvents[len(g.MoraleEvents)-20:]
		}
	}
}

// AddChronicle appends a narrative record.
func (g *Game) AddChronicle(description, entryType string, severity int, participants ...string) {
	g.Chronicle = append(g.Chronicle, ChronicleEntry{
		Date:         g.Date,
		Description:  description,
		Type:         entryType,
		Severity:     severity,
		Participants: participants,
	})
}

// QueueEvent appends an event for the next processing pass.
func (g *Game) QueueEvent(ev *Event) {
	g.EventQueue = append(g.EventQueue, ev)
}

// ArchiveEvents moves the processed queue into history, keeping the
// last 1000 entries.
func (g *Game) ArchiveEvents() {
	g.EventHistory = append(g.EventHistory, g.EventQueue...)
	g.EventQueue = g.EventQueue[:0]
	if len(g.EventHistory) > 1000 {
		g.EventHistory = g.EventHistory[len(g.EventHistory)-1000:]
	}
}

// RecordDeath marks a settler dead and updates population counts,
// morale, and the chronicle. Calling it twice for the same settler is
// a no-op: the decrement happens only while the settler is alive.
func (g *Game) RecordDeath(c *settlers.Character, cause string) {
	if !c.IsAlive {
		return
	}
	c.IsAlive = false
	c.CauseOfDeath = cause
	died := g.Date
	c.DateOfDeath = &died

	g.Population.Total--
	switch {
	case c.IsChild():
		g.Population.Children--
	case c.IsElderly():
		g.Population.Elderly--
	default:
		g.Population.Adults--
	}
	if g.Population.CulturalGroups[c.Culture] > 0 {
		g.Population.CulturalGroups[c.Culture]--
	}
	// An extinct culture no longer counts toward diversity.
	if g.Population.CulturalGroups[c.Culture] == 0 {
		delete(g.Population.CulturalGroups, c.Culture)
	}

	g.AdjustMorale(-15, c.Name+" has died of "+cause)
	g.AddChronicle(c.Name+" died of "+cause, "death", 8, c.Name)
	slog.Info("settler died", "name", c.Name, "cause", cause, "day", g.Day)
}

// BuildingOfType returns the first building of the given type with
// condition above minCondition.
func (g *Game) BuildingOfType(buildingType string, minCondition float64) *Building {
	for _, b := range g.Buildings {
		if b.Type == buildingType && b.Condition > minCondition {
			return b
		}
	}
	return nil
}

// RemoveBuilding drops a destroyed building from the list.
func (g *Game) RemoveBuilding(target *Building) {
	kept := g.Buildings[:0]
	for _, b := range g.Buildings {
		if b != target {
			kept = append(kept, b)
		}
	}
	g.Buildings = kept
}

// AdvanceDate moves to the next day and recomputes the derived fields.
func (g *Game) AdvanceDate() {
	g.Date = g.Date.AddDate(0, 0, 1)
	g.Day++
	g.Season = calendar.SeasonOf(g.Date)
}

// AverageHealth over living settlers; 0 when nobody is left.
func (g *Game) AverageHealth() float64 {
	alive := g.Alive()
	if len(alive) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range alive {
		total += c.Stats.Health
	}
	return total / float64(len(alive))
}

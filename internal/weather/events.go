package weather

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/talgya/redrock/internal/calendar"
)

// eventDescriptions feed the chronicle when an event strikes.
var eventDescriptions = map[EventType]string{
	EventTornado:       "A twister tore through the territory, flattening everything in its path",
	EventWildfire:      "Wildfire swept across the dry hills, filling the sky with smoke and ash",
	EventEarthquake:    "The ground shook violently; walls cracked and shelves emptied",
	EventLocustSwarm:   "A swarm of locusts descended on the fields and stripped them bare",
	EventSevereDrought: "The rains failed entirely; the creek beds cracked and the wells ran low",
	EventKillingFrost:  "A killing frost settled overnight and blackened the tender crops",
	EventFlashFlood:    "A wall of water roared down the arroyo, sweeping away whatever stood in it",
	EventHailstorm:     "Hailstones the size of hen's eggs battered roofs, crops, and livestock",
	EventDustStorm:     "A choking wall of dust rolled over the settlement and blotted out the sun",
}

// rollExtremeEvents runs the rare daily rolls plus the
// condition-triggered checks. Every definition rolls independently;
// more than one disaster can land on the same day.
func (e *Engine) rollExtremeEvents() {
	for _, def := range extremeEventDefs {
		if !def.inSeason(e.gs.Season) || e.isActive(def.eventType) {
			continue
		}
		if e.rng.Chance(def.chance) {
			e.trigger(def.eventType)
		}
	}
	e.rollConditionalEvents()
}

func (d extremeEventDef) inSeason(s calendar.Season) bool {
	if len(d.seasons) == 0 {
		return true
	}
	for _, allowed := range d.seasons {
		if allowed == s {
			return true
		}
	}
	return false
}

// rollConditionalEvents checks the triggers that depend on today's
// conditions rather than a flat seasonal chance. Each trigger rolls on
// its own; a hot dry gale can bring fire and drought together.
func (e *Engine) rollConditionalEvents() {
	c := e.current
	if c.Temperature > 30 && c.Precipitation == PrecipNone && c.WindSpeed > 20 &&
		!e.isActive(EventWildfire) && e.rng.Chance(0.05) {
		e.trigger(EventWildfire)
	}
	if c.Precipitation == PrecipHeavyRain && c.PrecipIntensity > 0.8 &&
		!e.isActive(EventFlashFlood) && e.rng.Chance(0.15) {
		e.trigger(EventFlashFlood)
	}
	if c.Temperature > 20 && c.WindSpeed > 25 && c.Precipitation == PrecipThunderstorm &&
		!e.isActive(EventTornado) && e.rng.Chance(0.02) {
		e.trigger(EventTornado)
	}
	if e.recentPrecipDays(7) == 0 && c.Temperature > 25 &&
		!e.isActive(EventSevereDrought) && e.rng.Chance(0.08) {
		e.trigger(EventSevereDrought)
	}
}

func (e *Engine) isActive(et EventType) bool {
	for _, ev := range e.activeEvents {
		if ev.Type == et {
			return true
		}
	}
	return false
}

// trigger starts an extreme event: rolls intensity and duration,
// mutates today's conditions, and records the blow to chronicle and
// morale.
func (e *Engine) trigger(et EventType) {
	dur := eventDurations[et]
	if dur.min == 0 {
		dur = durationRange{1, 1}
	}
	ev := &ActiveEvent{
		ID:        uuid.NewString(),
		Type:      et,
		Intensity: e.rng.FloatRange(0.5, 1.0),
		DaysLeft:  e.rng.Int(dur.min, dur.max),
		StartDay:  e.gs.Day,
	}
	e.activeEvents = append(e.activeEvents, ev)

	e.mutateConditions(ev)
	e.current.SpecialCondition = string(et)
	e.current.Hazards = append(e.current.Hazards, string(et))

	desc := eventDescriptions[et]
	if desc == "" {
		desc = fmt.Sprintf("Severe weather struck the territory: %s", et)
	}
	severity := int(math.Round(5 + ev.Intensity*5))
	e.gs.AddChronicle(desc, "weather", severity)
	e.gs.AdjustMorale(-math.Round(ev.Intensity*20), desc)
	e.note(desc)
	slog.Warn("extreme weather event",
		"type", et, "intensity", ev.Intensity, "days", ev.DaysLeft, "day", e.gs.Day)
}

// mutateConditions applies an event's immediate signature to today's
// weather.
func (e *Engine) mutateConditions(ev *ActiveEvent) {
	c := &e.current
	switch ev.Type {
	case EventTornado:
		if w := 60 + int(40*ev.Intensity); c.WindSpeed < w {
			c.WindSpeed = w
		}
		c.Visibility = 0.1
		c.Precipitation = PrecipHeavyRain
		c.PrecipIntensity = 1.0
	case EventWildfire:
		c.Temperature += int(10 * ev.Intensity)
		c.Visibility = 0.3
		c.SpecialCondition = "smoke"
	case EventSevereDrought:
		c.Precipitation = PrecipNone
		c.PrecipIntensity = 0
		c.Humidity = math.Max(0.1, c.Humidity-0.4)
		c.Temperature += int(5 * ev.Intensity)
	case EventDustStorm:
		if c.WindSpeed < 30 {
			c.WindSpeed = 30
		}
		c.Visibility = 0.2
		c.Precipitation = PrecipDustStorm
	case EventHailstorm:
		c.Precipitation = PrecipHail
		c.PrecipIntensity = ev.Intensity
		c.WindSpeed += 15
		c.Temperature -= 5
	case EventFlashFlood:
		c.Precipitation = PrecipTorrentialRain
		c.PrecipIntensity = 1.0
	}
}

// updateActiveEvents counts each running event down, applying its full
// effect table each day it persists.
func (e *Engine) updateActiveEvents() {
	kept := e.activeEvents[:0]
	for _, ev := range e.activeEvents {
		ev.DaysLeft--
		if ev.DaysLeft <= 0 {
			e.note(fmt.Sprintf("the %s has passed", ev.Type))
			slog.Info("weather event ended", "type", ev.Type, "day", e.gs.Day)
			continue
		}
		if table := tableForEvent(ev.Type); table != nil {
			e.applyEffectTable(table, ev.Intensity, string(ev.Type))
		}
		kept = append(kept, ev)
	}
	e.activeEvents = kept
}

// hasBlockingEvent reports whether an active event keeps yesterday's
// restrictions in force.
func (e *Engine) hasBlockingEvent() bool {
	for _, ev := range e.activeEvents {
		switch ev.Type {
		case EventTornado, EventDustStorm, EventFlashFlood:
			return true
		}
	}
	return e.current.Precipitation == PrecipBlizzard
}

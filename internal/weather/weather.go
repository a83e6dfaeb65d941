// Package weather generates daily conditions, multi-day patterns, and
// extreme events for the territory, and applies their effects to the
// settlement each morning.
package weather

import (
	"fmt"
	"log/slog"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
)

// Medic is the narrow surface the weather engine needs for weather
// casualties. The medical engine satisfies it.
type Medic interface {
	AddInjury(c *settlers.Character, it settlers.InjuryType, part settlers.BodyPart, severity float64, cause string) *settlers.Injury
	AddDisease(c *settlers.Character, name settlers.DiseaseName, source string) *settlers.Disease
	RandomInjury(c *settlers.Character, cause string)
}

// Conditions is one day's weather.
type Conditions struct {
	Temperature      int     `json:"temperature"` // degrees Celsius
	Precipitation    Precip  `json:"precipitation"`
	PrecipIntensity  float64 `json:"precip_intensity"` // 0–1
	WindSpeed        int     `json:"wind_speed"`       // km/h
	WindDirection    string  `json:"wind_direction"`
	CloudCover       float64 `json:"cloud_cover"` // 0–1
	Humidity         float64 `json:"humidity"`    // 0–1
	Pressure         float64 `json:"pressure"`    // inches of mercury
	DewPoint         float64 `json:"dew_point"`
	Visibility       float64 `json:"visibility"` // 0–1
	SpecialCondition string  `json:"special_condition,omitempty"`
	Hazards          []string `json:"hazards,omitempty"`
}

// ActiveEvent is an extreme weather event in progress.
type ActiveEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Intensity float64   `json:"intensity"` // 0.5–1.0
	DaysLeft  int       `json:"days_left"`
	StartDay  int       `json:"start_day"`
}

// activePattern is the multi-day regime currently in force.
type activePattern struct {
	Pattern  Pattern `json:"pattern"`
	DaysLeft int     `json:"days_left"`
}

// Restrictions are the current-day movement and work limits derived
// from conditions and active events. Cleared each morning unless a
// blocking event is still running.
type Restrictions struct {
	TravelBanned   bool     `json:"travel_banned"`
	TravelSpeed    float64  `json:"travel_speed"` // 1.0 = normal
	RoadCondition  string   `json:"road_condition,omitempty"`
	OutdoorStopped bool     `json:"outdoor_stopped"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Engine owns the weather substate and applies daily effects to the
// shared aggregate.
type Engine struct {
	gs    *state.Game
	rng   *entropy.Source
	medic Medic

	current      Conditions
	pattern      activePattern
	activeEvents []*ActiveEvent
	restrictions Restrictions

	history []Conditions // ring of the last 30 days
	log     []string     // ring of the last 50 notable lines

	// Smooth day-over-day drift layered on pressure and temperature.
	noise opensimplex.Noise
}

// NewEngine creates the weather engine. The medic may be nil during
// early wiring; casualty rolls are skipped without one.
func NewEngine(gs *state.Game, rng *entropy.Source, medic Medic) *Engine {
	e := &Engine{
		gs:    gs,
		rng:   rng,
		medic: medic,
		noise: opensimplex.NewNormalized(rng.Seed()),
	}
	e.pattern = e.rollPattern()
	e.current = e.generateDaily()
	return e
}

// SetMedic wires the medical engine after construction.
func (e *Engine) SetMedic(m Medic) { e.medic = m }

// Current returns today's conditions.
func (e *Engine) Current() Conditions { return e.current }

// ActiveEvents returns the events in progress.
func (e *Engine) ActiveEvents() []*ActiveEvent { return e.activeEvents }

// CurrentPattern returns the regime in force and its remaining days.
func (e *Engine) CurrentPattern() (Pattern, int) {
	return e.pattern.Pattern, e.pattern.DaysLeft
}

// CurrentRestrictions returns today's movement and work limits.
func (e *Engine) CurrentRestrictions() Restrictions { return e.restrictions }

// History returns up to the last 30 days of conditions, oldest first.
func (e *Engine) History() []Conditions { return e.history }

// Log returns the recent notable-weather lines, oldest first.
func (e *Engine) Log() []string { return e.log }

// ProcessDaily runs the weather phase of one simulation day: generate
// conditions, advance events, apply effects, and surface warnings.
func (e *Engine) ProcessDaily() {
	e.advancePattern()
	e.current = e.generateDaily()
	e.rollExtremeEvents()
	e.updateActiveEvents()

	if !e.hasBlockingEvent() {
		e.restrictions = Restrictions{TravelSpeed: 1.0}
	}

	e.applyTemperatureEffects()
	e.applyPrecipitationEffects()
	e.applyActivityEffects()
	e.driftResistance()
	e.checkWarnings()
	e.rollNarrativeEvents()

	e.history = append(e.history, e.current)
	if len(e.history) > 30 {
		e.history = e.history[len(e.history)-30:]
	}
}

// advancePattern counts the regime down and rolls a replacement when it
// expires.
func (e *Engine) advancePattern() {
	e.pattern.DaysLeft--
	if e.pattern.DaysLeft > 0 {
		return
	}
	prev := e.pattern.Pattern
	e.pattern = e.rollPattern()
	if e.pattern.Pattern != prev {
		e.note(fmt.Sprintf("the weather turned: %s gave way to %s", prev, e.pattern.Pattern))
	}
	slog.Debug("weather pattern change", "from", prev, "to", e.pattern.Pattern, "days", e.pattern.DaysLeft)
}

func (e *Engine) rollPattern() activePattern {
	patterns, weights := patternWeights(e.gs.Season)
	p := patterns[e.rng.WeightedIndex(weights)]
	def := patternDefs[p]
	return activePattern{
		Pattern:  p,
		DaysLeft: e.rng.Int(def.duration.min, def.duration.max),
	}
}

// generateDaily rolls today's conditions from the seasonal climate,
// shifted by the active pattern.
func (e *Engine) generateDaily() Conditions {
	season := e.gs.Season
	sc := climate[season]
	def := patternDefs[e.pattern.Pattern]

	temp := e.rng.Int(sc.temp.min, sc.temp.max) + e.rng.Int(-5, 5) + def.tempBonus
	temp += int(math.Round(seasonalTrend(e.gs.Day, season)))

	cond := Conditions{
		Temperature:   temp,
		Precipitation: PrecipNone,
		WindSpeed:     e.rng.Int(windBaseMin, windBaseMax),
		WindDirection: entropy.Choice(e.rng, windDirections),
	}

	chance := sc.precipChance
	if e.pattern.Pattern == PatternRainyPeriod {
		chance += 0.2
	}
	if e.pattern.Pattern == PatternDrySpell {
		chance *= 0.3
	}
	if e.rng.Chance(chance) {
		cond.Precipitation = e.rollPrecipType(sc)
		cond.PrecipIntensity = e.rng.FloatRange(0.3, 1.0) + def.precipBonus
		if cond.PrecipIntensity < 0.1 {
			cond.Precipitation = PrecipNone
			cond.PrecipIntensity = 0
		}
		if cond.PrecipIntensity > 1 {
			cond.PrecipIntensity = 1
		}
	}
	if def.stormChance > 0 && cond.Precipitation != PrecipNone && e.rng.Chance(def.stormChance) {
		cond.WindSpeed = e.rng.Int(30, 80)
	}

	if cond.Precipitation != PrecipNone {
		cond.CloudCover = e.rng.FloatRange(0.7, 1.0)
	} else {
		cond.CloudCover = e.rng.FloatRange(0, 0.6)
	}

	cond.Humidity = e.baseHumidity(season)
	if cond.Precipitation != PrecipNone {
		cond.Humidity += 0.3
	}
	if cond.Temperature > 25 {
		cond.Humidity -= 0.1
	}
	if cond.Temperature < 0 {
		cond.Humidity -= 0.2
	}
	cond.Humidity = clamp(cond.Humidity+e.rng.FloatRange(-0.1, 0.1), 0.1, 1.0)

	cond.Pressure = 30.0 - cond.CloudCover*0.5
	if cond.WindSpeed > 20 {
		cond.Pressure -= 0.3
	}
	cond.Pressure += (e.noise.Eval2(float64(e.gs.Day)*0.1, 0) - 0.5) * 0.4

	cond.DewPoint = float64(cond.Temperature) - (1-cond.Humidity)*25
	cond.Visibility = e.visibility(cond)
	cond.Hazards = e.hazards(cond)
	return cond
}

func (e *Engine) rollPrecipType(sc seasonClimate) Precip {
	weights := make([]float64, len(sc.precipTypes))
	for i, p := range sc.precipTypes {
		weights[i] = p.weight
	}
	return sc.precipTypes[e.rng.WeightedIndex(weights)].kind
}

func (e *Engine) baseHumidity(season calendar.Season) float64 {
	switch season {
	case calendar.Winter:
		return 0.3
	case calendar.Spring:
		return 0.5
	case calendar.Summer:
		return 0.3
	default:
		return 0.4
	}
}

func (e *Engine) visibility(c Conditions) float64 {
	v := 1.0
	switch c.Precipitation {
	case PrecipDustStorm:
		v = 0.2
	case PrecipBlizzard:
		v = 0.1
	case PrecipFog:
		v = 0.3
	case PrecipNone:
	default:
		v = 1.0 - c.PrecipIntensity*0.4
	}
	return clamp(v, 0.05, 1.0)
}

func (e *Engine) hazards(c Conditions) []string {
	var hz []string
	if c.Temperature < extremeColdThreshold {
		hz = append(hz, "extreme_cold")
	}
	if c.Temperature > extremeHeatThreshold {
		hz = append(hz, "extreme_heat")
	}
	if c.WindSpeed > 40 {
		hz = append(hz, "dangerous_winds")
	}
	if c.PrecipIntensity > 0.8 {
		hz = append(hz, "severe_precipitation")
	}
	return hz
}

// applyTemperatureEffects fires the extreme band tables when the day
// crosses a threshold.
func (e *Engine) applyTemperatureEffects() {
	if e.current.Temperature <= extremeColdThreshold {
		e.applyEffectTable(effectTables["extreme_cold"], 1.0, "extreme cold")
	}
	if e.current.Temperature >= extremeHeatThreshold {
		e.applyEffectTable(effectTables["extreme_heat"], 1.0, "extreme heat")
	}
}

// applyPrecipitationEffects fires the table keyed by today's
// precipitation. Unknown kinds are a no-op.
func (e *Engine) applyPrecipitationEffects() {
	if e.current.Precipitation == PrecipNone {
		return
	}
	table := effectTables[string(e.current.Precipitation)]
	if table == nil {
		return
	}
	e.applyEffectTable(table, e.current.PrecipIntensity, string(e.current.Precipitation))
}

// checkWarnings surfaces forecast-style advisories on the day's
// restrictions.
func (e *Engine) checkWarnings() {
	var warnings []string
	if e.current.Temperature < -5 {
		warnings = append(warnings, "cold_warning")
	}
	if e.current.Temperature > 32 {
		warnings = append(warnings, "heat_warning")
	}
	if e.current.WindSpeed > 40 {
		warnings = append(warnings, "wind_warning")
	}
	if e.current.Precipitation == PrecipHeavyRain && e.current.PrecipIntensity > 0.7 {
		warnings = append(warnings, "flood_warning")
	}
	if e.current.Visibility < 0.5 {
		warnings = append(warnings, "visibility_warning")
	}
	e.restrictions.Warnings = warnings
}

// note appends to the bounded weather log.
func (e *Engine) note(line string) {
	e.log = append(e.log, line)
	if len(e.log) > 50 {
		e.log = e.log[len(e.log)-50:]
	}
}

// recentPrecipDays counts days with precipitation in the last n history
// entries.
func (e *Engine) recentPrecipDays(n int) int {
	count := 0
	start := len(e.history) - n
	if start < 0 {
		start = 0
	}
	for _, c := range e.history[start:] {
		if c.Precipitation != PrecipNone {
			count++
		}
	}
	return count
}

// seasonalTrend is a gentle sinusoid over the year scaled per season.
func seasonalTrend(day int, season calendar.Season) float64 {
	return math.Sin(float64(day)/365*2*math.Pi) * seasonalAmplitude(season)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

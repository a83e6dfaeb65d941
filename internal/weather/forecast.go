package weather

import (
	"fmt"
	"math"
)

// Prediction is one day of the forecast. Confidence falls off with
// distance; the territory's weather punishes certainty.
type Prediction struct {
	DaysAhead    int     `json:"days_ahead"`
	Temperature  int     `json:"temperature"`
	PrecipChance float64 `json:"precip_chance"`
	Conditions   string  `json:"conditions"`
	Confidence   float64 `json:"confidence"`
}

// Report is the full weather picture the API serves.
type Report struct {
	Current      Conditions     `json:"current"`
	Pattern      Pattern        `json:"pattern"`
	PatternDays  int            `json:"pattern_days_left"`
	ActiveEvents []*ActiveEvent `json:"active_events,omitempty"`
	Restrictions Restrictions   `json:"restrictions"`
	Forecast     []Prediction   `json:"forecast,omitempty"`
	RecentLog    []string       `json:"recent_log,omitempty"`
}

// Forecast predicts the next days days. Predictions regress toward the
// seasonal average and get vaguer with distance. Reading a forecast
// never draws from the shared random stream: jitter comes off the
// noise field, so reports cannot steer the simulation.
func (e *Engine) Forecast(days int) []Prediction {
	if days <= 0 {
		days = 3
	}
	sc := climate[e.gs.Season]
	out := make([]Prediction, 0, days)

	recentWet := e.recentPrecipDays(3)
	for i := 1; i <= days; i++ {
		confidence := 1.0 - 0.2*float64(i)
		if confidence < 0.3 {
			confidence = 0.3
		}

		temp := e.current.Temperature
		temp += int(float64(sc.temp.avg-temp) * 0.3)
		temp += int(math.Round((e.noise.Eval2(float64(e.gs.Day+i)*0.1, 1) - 0.5) * 10))

		chance := sc.precipChance
		switch {
		case recentWet == 0:
			chance += 0.2
		case recentWet >= 2:
			chance -= 0.15
		}
		chance = clamp(chance, 0.05, 0.9)

		out = append(out, Prediction{
			DaysAhead:    i,
			Temperature:  temp,
			PrecipChance: chance,
			Conditions:   e.outlook(i),
			Confidence:   confidence,
		})
	}
	return out
}

// outlook names the expected regime for a day ahead.
func (e *Engine) outlook(daysAhead int) string {
	if daysAhead < e.pattern.DaysLeft {
		switch e.pattern.Pattern {
		case PatternHotSpell:
			return "continued heat"
		case PatternColdSnap:
			return "bitter cold holding on"
		case PatternRainyPeriod:
			return "more rain likely"
		case PatternDrySpell:
			return "dry and dusty"
		case PatternStormSeason:
			return "unsettled, storms possible"
		default:
			return "seasonable"
		}
	}
	return "changeable"
}

// BuildReport assembles the full weather picture with a forecast of
// the given length.
func (e *Engine) BuildReport(forecastDays int) Report {
	return Report{
		Current:      e.current,
		Pattern:      e.pattern.Pattern,
		PatternDays:  e.pattern.DaysLeft,
		ActiveEvents: e.activeEvents,
		Restrictions: e.restrictions,
		Forecast:     e.Forecast(forecastDays),
		RecentLog:    e.log,
	}
}

// Describe renders the current day as a chronicle-ready line.
func (e *Engine) Describe() string {
	c := e.current
	desc := fmt.Sprintf("%d degrees, wind %d km/h from the %s", c.Temperature, c.WindSpeed, c.WindDirection)
	if c.Precipitation != PrecipNone {
		desc += fmt.Sprintf(", %s", c.Precipitation)
	}
	if c.SpecialCondition != "" {
		desc += fmt.Sprintf(" (%s)", c.SpecialCondition)
	}
	return desc
}

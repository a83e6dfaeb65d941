package weather

import (
	"math"
)

// applyActivityEffects handles the day-to-day toll of working outside:
// forced shelter when conditions make it reckless, and energy drain
// from cold and heat scaled by each settler's hardiness.
func (e *Engine) applyActivityEffects() {
	forceShelter := e.restrictions.TravelBanned || e.current.Visibility < 0.3

	for _, c := range e.gs.Alive() {
		outdoor := doingAny(c, farmingActivities) || doingAny(c, ranchingActivities) ||
			doingAny(c, miningActivities) || doingAny(c, travelActivities) ||
			c.CurrentActivity == "construction" || c.CurrentActivity == "hunting"

		if forceShelter && outdoor {
			c.CurrentActivity = "sheltering indoors"
			c.AdjustMood(-3)
			continue
		}
		if !outdoor {
			continue
		}

		// The least hardy give up the day's work before it hurts them.
		if t := e.current.Temperature; t < 0 {
			if c.Resistance.Cold < 0.85 {
				c.CurrentActivity = "warming by the fire"
				continue
			}
			res := c.Resistance.Cold
			penalty := math.Floor(math.Abs(float64(t)) / 10 / res)
			c.AdjustEnergy(-penalty * 2)
		} else if t > 30 {
			if c.Resistance.Heat < 0.85 {
				c.CurrentActivity = "resting in the shade"
				continue
			}
			res := c.Resistance.Heat
			penalty := math.Floor(float64(t-30) / res)
			c.AdjustEnergy(-penalty * 3)
		}
	}
}

// driftResistance hardens settlers who live through repeated exposure.
// The gain only starts once the exposure-day counter clears its
// threshold, and caps well short of invulnerability.
func (e *Engine) driftResistance() {
	coldDay := e.current.Temperature < 0
	hotDay := e.current.Temperature > 30
	stormDay := e.current.WindSpeed > 30 || e.current.PrecipIntensity > 0.7

	for _, c := range e.gs.Alive() {
		r := &c.Resistance
		if coldDay {
			r.ColdDays++
			if r.ColdDays > 30 && r.Cold < 1.5 {
				r.Cold = math.Min(1.5, r.Cold+0.01)
			}
		}
		if hotDay {
			r.HotDays++
			if r.HotDays > 30 && r.Heat < 1.5 {
				r.Heat = math.Min(1.5, r.Heat+0.01)
			}
		}
		if stormDay {
			r.StormDays++
			if r.StormDays > 20 {
				if r.Wind < 1.4 {
					r.Wind = math.Min(1.4, r.Wind+0.005)
				}
				if r.Wet < 1.4 {
					r.Wet = math.Min(1.4, r.Wet+0.005)
				}
			}
		}
	}
}

package engine

import (
	"math"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/weather"
)

// updateResources runs daily production from whoever is working, then
// consumption for everyone, then the weather's thumb on the scales.
func (e *Engine) updateResources() {
	pool := e.gs.Resources

	for _, c := range e.gs.Alive() {
		switch c.CurrentActivity {
		case "farming", "tending crops", "harvesting":
			pool.Add(economy.Food, math.Floor(float64(c.Stats.Skills.Get(settlers.SkillAgriculture))/20))
		case "hunting", "setting traps":
			pool.Add(economy.Food, math.Floor(float64(c.Stats.Skills.Get(settlers.SkillHunting))/25))
		case "woodworking", "construction":
			pool.Add(economy.Wood, math.Floor(float64(c.Stats.Skills.Get(settlers.SkillConstruction))/25))
		case "trading", "negotiating prices":
			pool.Add(economy.Money, math.Floor(float64(c.Stats.Skills.Get(settlers.SkillSocial))/30))
		case "prospecting", "mining", "panning for gold":
			pool.Add(economy.Money, math.Floor(float64(c.Stats.Skills.Get(settlers.SkillMining))/40))
			if e.rng.Chance(0.1) {
				pool.Add(economy.Metal, 1)
			}
		}
	}

	pop := float64(e.gs.Population.Total)
	pool.Add(economy.Food, -pop*2)
	pool.Add(economy.Water, -pop)
	pool.Add(economy.Wood, -math.Floor(pop/2))

	cond := e.weather.Current()
	if cond.Precipitation == weather.PrecipHeavyRain {
		pool.Add(economy.Water, 10)
	}
	if cond.Temperature < -5 {
		pool.Add(economy.Food, -2)
	}
}

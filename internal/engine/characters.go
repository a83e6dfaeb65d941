package engine

import (
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
)

// activitySkill maps a daily activity to the skill it trains.
var activitySkill = map[string]settlers.Skill{
	"farming":            settlers.SkillAgriculture,
	"tending crops":      settlers.SkillAgriculture,
	"construction":       settlers.SkillConstruction,
	"woodworking":        settlers.SkillConstruction,
	"hunting":            settlers.SkillHunting,
	"setting traps":      settlers.SkillHunting,
	"mining":             settlers.SkillMining,
	"prospecting":        settlers.SkillMining,
	"trading":            settlers.SkillSocial,
	"negotiating prices": settlers.SkillSocial,
	"teaching children":  settlers.SkillSocial,
	"treating patients":  settlers.SkillMedical,
	"preparing medicine": settlers.SkillMedical,
	"leading services":   settlers.SkillLeadership,
	"patrolling":         settlers.SkillLeadership,
	"metalworking":       settlers.SkillMetalwork,
	"tool forging":       settlers.SkillMetalwork,
	"herding cattle":     settlers.SkillSurvival,
	"scouting routes":    settlers.SkillTracking,
}

// updateCharacters runs the daily upkeep: rest, mood drift, activity
// changes, skill practice, and slow natural healing.
func (e *Engine) updateCharacters() {
	temp := e.weather.Current().Temperature

	for _, c := range e.gs.Alive() {
		// Rest recovers unevenly; nobody drops below a working
		// minimum of energy overnight.
		energy := c.Stats.Energy + float64(e.rng.Int(-5, 10))
		if energy < 10 {
			energy = 10
		}
		if energy > 100 {
			energy = 100
		}
		c.Stats.Energy = energy
		if c.MedicalStatus.RequiresBedrest {
			c.CapEnergy(20)
		}

		if c.Stats.Health < 30 {
			c.AdjustMood(-5)
		}
		if c.Stats.Energy < 20 {
			c.AdjustMood(-3)
		}
		if temp < 0 {
			c.AdjustMood(-2)
		}
		if c.HasTrait("optimistic") {
			c.AdjustMood(2)
		}
		if c.HasTrait("resilient") {
			c.AdjustMood(1)
		}

		if !c.MedicalStatus.RequiresBedrest && len(c.Activities) > 0 && e.rng.Chance(0.3) {
			c.RecordActivity(e.gs.Date, entropy.Choice(e.rng, c.Activities))
		}

		if sk, ok := activitySkill[c.CurrentActivity]; ok && e.rng.Chance(0.1) {
			c.Stats.Skills.Add(sk, 1)
		}

		if c.Stats.Health < 100 && e.rng.Chance(0.1) {
			c.AdjustHealth(1)
		}
	}
}

package weather

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
)

var limbs = []settlers.BodyPart{
	settlers.PartLeftArm, settlers.PartRightArm,
	settlers.PartLeftLeg, settlers.PartRightLeg,
}

// Activity groupings used by the work, crops, and livestock appliers.
var (
	farmingActivities  = []string{"farming", "tending crops", "planting", "harvesting"}
	ranchingActivities = []string{"herding cattle", "ranching", "branding cattle"}
	miningActivities   = []string{"mining", "prospecting", "panning for gold"}
	travelActivities   = []string{"scouting routes", "traveling", "patrolling", "hauling freight"}
)

func doingAny(c *settlers.Character, activities []string) bool {
	for _, a := range activities {
		if c.CurrentActivity == a {
			return true
		}
	}
	return false
}

func (e *Engine) countDoing(activities []string) int {
	n := 0
	for _, c := range e.gs.Alive() {
		if doingAny(c, activities) {
			n++
		}
	}
	return n
}

// applyEffectTable runs every populated category of a table at the
// given intensity. cause tags casualties and log lines.
func (e *Engine) applyEffectTable(t *EffectTable, intensity float64, cause string) {
	if t == nil {
		return
	}
	e.applyHealthEffects(t, intensity, cause)
	e.applyResourceEffects(t, intensity, cause)
	e.applyWorkEffects(t, intensity, cause)
	e.applyCropEffects(t, intensity, cause)
	e.applyBuildingEffects(t, intensity, cause)
	e.applyLivestockEffects(t, intensity, cause)
	e.applyMovementEffects(t, intensity)
}

func (e *Engine) applyHealthEffects(t *EffectTable, intensity float64, cause string) {
	h := &t.Health
	for _, c := range e.gs.Alive() {
		if h.FrostbiteChance > 0 && e.rng.Chance(h.FrostbiteChance*intensity) && e.medic != nil {
			limb := entropy.Choice(e.rng, limbs)
			e.medic.AddInjury(c, settlers.InjuryBurn, limb, e.rng.FloatRange(0.4, 0.9), "frostbite")
		}
		if h.HypothermiaChance > 0 && e.rng.Chance(h.HypothermiaChance*intensity) {
			c.AdjustHealth(-15 * intensity)
			c.AdjustEnergy(-20 * intensity)
			e.note(c.Name + " took a dangerous chill")
		}
		if h.HeatstrokeChance > 0 && e.rng.Chance(h.HeatstrokeChance*intensity) {
			c.AdjustHealth(-20 * intensity)
			c.AdjustMood(-10 * intensity)
			e.note(c.Name + " collapsed from the heat")
		}
		if h.DehydrationChance > 0 && e.rng.Chance(h.DehydrationChance*intensity) {
			c.AdjustHealth(-10 * intensity)
			e.gs.Resources.Add(economy.Water, -2)
		}
		if h.RespiratoryChance > 0 && e.rng.Chance(h.RespiratoryChance*intensity) && e.medic != nil {
			e.medic.AddDisease(c, settlers.DiseaseInfluenza, "dust and smoke")
		}
		if h.ColdInjuryChance > 0 && e.rng.Chance(h.ColdInjuryChance*intensity) {
			if e.medic != nil && e.rng.Chance(0.5) {
				limb := entropy.Choice(e.rng, limbs)
				e.medic.AddInjury(c, settlers.InjuryBurn, limb, e.rng.FloatRange(0.4, 0.9), "frostbite")
			} else {
				c.AdjustHealth(-15 * intensity)
				c.AdjustEnergy(-20 * intensity)
			}
		}
		if h.InjuryChance > 0 && e.rng.Chance(h.InjuryChance*intensity) && e.medic != nil {
			e.medic.RandomInjury(c, cause)
		}
		if h.DiseaseSpreadBoost {
			for _, d := range c.Diseases {
				if d.Symptomatic && d.DurationDaysLeft > 1 {
					d.DurationDaysLeft--
				}
			}
		}
	}
}

func (e *Engine) applyResourceEffects(t *EffectTable, intensity float64, cause string) {
	r := &t.Resources
	pool := e.gs.Resources
	pop := e.gs.Population.Total

	if r.WoodConsumption > 0 {
		pool.Add(economy.Wood, -math.Floor(float64(pop)*r.WoodConsumption*intensity))
	}
	if r.WaterConsumption > 0 {
		pool.Add(economy.Water, -math.Floor(float64(pop)*r.WaterConsumption*intensity))
	}
	if r.FoodConsumption > 0 {
		pool.Add(economy.Food, -math.Floor(float64(pop)*r.FoodConsumption*intensity))
	}
	if r.WaterFreezing {
		pool.Add(economy.Water, -math.Floor(pool.Amount(economy.Water)*0.3*intensity))
	}
	if r.FoodSpoilage > 0 {
		spoiled := math.Floor(pool.Amount(economy.Food) * r.FoodSpoilage * intensity)
		if spoiled > 0 {
			pool.Add(economy.Food, -spoiled)
			e.note(fmt.Sprintf("%.0f units of food spoiled in the %s", spoiled, cause))
		}
	}
	if r.WaterGain > 0 {
		pool.Add(economy.Water, math.Floor(r.WaterGain*intensity))
	}
	if r.WoodRot > 0 {
		pool.Add(economy.Wood, -math.Floor(pool.Amount(economy.Wood)*r.WoodRot*intensity))
	}
	if r.EquipmentDamage > 0 && e.rng.Chance(r.EquipmentDamage) {
		pool.Add(economy.Tools, -math.Floor(pool.Amount(economy.Tools)*0.1*intensity))
	}
}

func (e *Engine) applyWorkEffects(t *EffectTable, intensity float64, cause string) {
	w := &t.Work
	for _, c := range e.gs.Alive() {
		outdoor := doingAny(c, farmingActivities) || doingAny(c, ranchingActivities) ||
			doingAny(c, miningActivities) || c.CurrentActivity == "construction" ||
			c.CurrentActivity == "hunting"

		if w.OutdoorPenalty > 0 && outdoor {
			floor := 10.0
			penalized := c.Stats.Energy * (1 - w.OutdoorPenalty*intensity)
			if penalized < floor {
				penalized = floor
			}
			c.Stats.Energy = penalized
		}
		if w.ConstructionImpossible && c.CurrentActivity == "construction" {
			c.CurrentActivity = "taking shelter"
		}
		if w.AllOutdoorStopped && (outdoor || c.CurrentActivity == "prospecting") {
			c.CurrentActivity = "sheltering indoors"
			c.AdjustMood(-5)
		}
		if w.MiningDangerous && doingAny(c, miningActivities) &&
			e.rng.Chance(0.1*intensity) && e.medic != nil {
			e.medic.RandomInjury(c, cause)
		}
	}
}

// applyCropEffects converts crop harm into food-stock losses. The crop
// model is the stored food plus the field hands working it.
func (e *Engine) applyCropEffects(t *EffectTable, intensity float64, cause string) {
	cr := &t.Crops
	pool := e.gs.Resources
	food := pool.Amount(economy.Food)

	loss := 0.0
	if cr.DamageChance > 0 && e.rng.Chance(cr.DamageChance) {
		loss += math.Floor(food * 0.2 * intensity)
	}
	if cr.DeathChance > 0 && e.rng.Chance(cr.DeathChance) {
		loss += math.Floor(food * 0.4 * intensity)
	}
	if cr.DestructionChance > 0 && e.rng.Chance(cr.DestructionChance) {
		loss += math.Floor(food * 0.8 * intensity)
	}
	if cr.MassiveFailure > 0 && e.rng.Chance(cr.MassiveFailure) {
		loss += math.Floor(food * 0.9 * intensity)
	}
	if loss > 0 {
		pool.Add(economy.Food, -loss)
		e.gs.AddChronicle(
			fmt.Sprintf("The %s ruined %.0f units of the settlement's food", cause, loss),
			"weather", 5)
		e.gs.AdjustMorale(-5, "crops ruined by "+cause)
	}

	if cr.GrowthBoost > 1 {
		farmers := e.countDoing(farmingActivities)
		gain := math.Floor(float64(farmers) * cr.GrowthBoost * intensity)
		if gain > 0 {
			pool.Add(economy.Food, gain)
		}
	}
}

func (e *Engine) applyBuildingEffects(t *EffectTable, intensity float64, cause string) {
	b := &t.Buildings
	if len(e.gs.Buildings) == 0 {
		return
	}
	if b.FoundationDamage > 0 && e.rng.Chance(b.FoundationDamage) {
		e.damageBuilding(entropy.Choice(e.rng, e.gs.Buildings), 30*intensity, cause)
	}
	if b.RoofDamage > 0 && e.rng.Chance(b.RoofDamage) {
		e.damageBuilding(entropy.Choice(e.rng, e.gs.Buildings), 20*intensity, cause)
	}
	if b.RoofCollapse > 0 && e.rng.Chance(b.RoofCollapse*intensity) {
		target := entropy.Choice(e.rng, e.gs.Buildings)
		e.damageBuilding(target, 60*intensity, cause)
		e.injureOccupants(target, cause)
	}
	if b.TotalDestruction > 0 && e.rng.Chance(b.TotalDestruction*intensity) {
		target := entropy.Choice(e.rng, e.gs.Buildings)
		e.damageBuilding(target, 100, cause)
		e.injureOccupants(target, cause)
	}
	if b.WoodenDestruction > 0 {
		for _, bld := range append([]*state.Building(nil), e.gs.Buildings...) {
			if bld.Special == "stone" {
				continue
			}
			if e.rng.Chance(b.WoodenDestruction * intensity * 0.3) {
				e.damageBuilding(bld, 90, cause)
			}
		}
	}
}

func (e *Engine) damageBuilding(b *state.Building, amount float64, cause string) {
	if b == nil {
		return
	}
	b.Condition -= amount
	slog.Debug("building damaged", "building", b.Name, "damage", amount, "cause", cause)
	if b.Condition <= 0 {
		e.gs.RemoveBuilding(b)
		e.gs.AddChronicle("The "+b.Name+" was destroyed by the "+cause, "weather", 7)
		e.gs.AdjustMorale(-10, b.Name+" destroyed")
	}
}

// injureOccupants rolls crush injuries for people caught inside a
// failing building. Anyone sheltering counts; others at 30%.
func (e *Engine) injureOccupants(b *state.Building, cause string) {
	if e.medic == nil {
		return
	}
	injuryTypes := []settlers.InjuryType{settlers.InjuryCrush, settlers.InjuryCut, settlers.InjuryFracture}
	parts := []settlers.BodyPart{settlers.PartHead, settlers.PartTorso, settlers.PartLeftArm, settlers.PartRightArm}
	for _, c := range e.gs.Alive() {
		inside := c.CurrentActivity == "taking shelter" || c.CurrentActivity == "sheltering indoors" ||
			e.rng.Chance(0.3)
		if !inside || !e.rng.Chance(0.4) {
			continue
		}
		e.medic.AddInjury(c,
			entropy.Choice(e.rng, injuryTypes),
			entropy.Choice(e.rng, parts),
			1.2, "collapse of the "+b.Name+" in the "+cause)
	}
}

func (e *Engine) applyLivestockEffects(t *EffectTable, intensity float64, cause string) {
	l := &t.Livestock
	ranchers := e.countDoing(ranchingActivities)
	farmers := e.countDoing(farmingActivities)
	herd := ranchers*10 + farmers*3
	if herd == 0 {
		return
	}
	pool := e.gs.Resources

	if l.DeathChance > 0 && e.rng.Chance(l.DeathChance*intensity) {
		deaths := 1 + int(float64(herd)*0.1*intensity)
		pool.Add(economy.Food, -float64(deaths*2))
		e.gs.AdjustMorale(-5, "livestock lost to "+cause)
		e.note(fmt.Sprintf("%d head of livestock died in the %s", deaths, cause))
	}
	if l.PanicStampede > 0 && e.rng.Chance(l.PanicStampede*intensity) && e.medic != nil {
		for _, c := range e.gs.Alive() {
			if doingAny(c, ranchingActivities) && e.rng.Chance(0.3) {
				e.medic.RandomInjury(c, "stampede during the "+cause)
			}
		}
	}
	if l.ProductionPenalty > 0 {
		pool.Add(economy.Food, -math.Floor(float64(herd)*l.ProductionPenalty*intensity*0.5))
	}
}

func (e *Engine) applyMovementEffects(t *EffectTable, intensity float64) {
	m := &t.Movement
	if m.TravelImpossible {
		e.restrictions.TravelBanned = true
		e.restrictions.TravelSpeed = 0
	}
	if m.TravelSpeed > 0 && !e.restrictions.TravelBanned {
		e.restrictions.TravelSpeed = m.TravelSpeed
	}
	if m.RoadCondition != "" {
		e.restrictions.RoadCondition = m.RoadCondition
	}
	if m.TravelDangerous {
		for _, c := range e.gs.Alive() {
			if doingAny(c, travelActivities) && e.rng.Chance(0.15*intensity) && e.medic != nil {
				e.medic.RandomInjury(c, "caught on the road in dangerous weather")
			}
		}
	}
}

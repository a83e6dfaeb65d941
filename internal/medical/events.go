package medical

import (
	"fmt"
	"math"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
)

// activityRisk is the daily accident chance per activity. Anything not
// listed uses the default.
var activityRisk = map[string]float64{
	"fighting":      0.15,
	"mining":        0.05,
	"prospecting":   0.05,
	"hunting":       0.04,
	"construction":  0.03,
	"woodworking":   0.03,
	"farming":       0.01,
	"tending crops": 0.01,
}

const defaultActivityRisk = 0.005

// rollDailyEvents fires the settlement-level medical happenings:
// fresh epidemics, remedy discoveries, work accidents, and the
// medicine supply line.
func (e *Engine) rollDailyEvents() {
	if e.rng.Chance(0.02) {
		e.epidemicEvent()
	}
	if e.rng.Chance(0.01) {
		e.discoveryEvent()
	}
	if e.rng.Chance(0.05) {
		e.accidentEvent()
	}
	if e.rng.Chance(0.03) {
		e.supplyEvent()
	}
}

// epidemicEvent seeds a cluster of exposures all at once, the kind of
// thing a bad water barrel or a sick wagon train brings in.
func (e *Engine) epidemicEvent() {
	alive := e.gs.Alive()
	if len(alive) < 3 {
		return
	}
	maxExposed := int(math.Max(3, float64(len(alive))*0.2))
	exposed := entropy.Sample(e.rng, alive, e.rng.Int(2, maxExposed))

	name := e.seasonalDisease()
	source := "a contaminated water barrel"
	if e.rng.Chance(0.5) {
		source = "a sick traveler passing through"
	}
	for _, c := range exposed {
		e.AddDisease(c, name, source)
	}

	e.gs.AdjustMorale(-20, name.String()+" spreading through the settlement")
	e.gs.Resources.Add(economy.Medicine, -float64(len(exposed)*2))
	e.gs.AddChronicle(
		fmt.Sprintf("Sickness swept in from %s; %d settlers were exposed to %s",
			source, len(exposed), name),
		"medical", 8)
}

// seasonalDisease picks a contagious disease weighted by the season.
func (e *Engine) seasonalDisease() settlers.DiseaseName {
	candidates := []settlers.DiseaseName{
		settlers.DiseaseCholera, settlers.DiseaseInfluenza,
		settlers.DiseaseDysentery, settlers.DiseaseTyphoid,
		settlers.DiseaseTuberculosis,
	}
	weights := make([]float64, len(candidates))
	for i, name := range candidates {
		info := diseases[name]
		weights[i] = info.spreadRate * info.seasonalFactor(e.gs.Season)
	}
	return candidates[e.rng.WeightedIndex(weights)]
}

// discoveryEvent is the rare good news: better remedies, a cache of
// supplies, or a healing spring worth building around.
func (e *Engine) discoveryEvent() {
	switch e.rng.Int(0, 2) {
	case 0:
		e.knowledgeBonus = math.Min(0.2, e.knowledgeBonus+0.1)
		e.gs.AddChronicle("An herbal remedy from a passing healer improved the settlement's medicine", "medical", 3)
		e.gs.AdjustMorale(5, "new remedy learned")
	case 1:
		e.gs.Resources.Add(economy.Medicine, 15)
		e.gs.AddChronicle("A cache of medical supplies was found in an abandoned wagon", "medical", 3)
	case 2:
		if e.gs.BuildingOfType("medical", 0) == nil {
			e.gs.Buildings = append(e.gs.Buildings, &state.Building{
				Name: "Healing Spring", Type: "medical", Capacity: 5,
				Condition: 100, Special: "natural_healing",
			})
			e.gs.AddChronicle("Scouts found a mineral spring said to ease aches and fevers", "medical", 4)
			e.gs.AdjustMorale(8, "healing spring discovered")
		}
	}
}

// accidentEvent rolls one work accident against each settler's
// activity risk. At most one settler gets hurt per day.
func (e *Engine) accidentEvent() {
	for _, c := range e.gs.Alive() {
		risk, ok := activityRisk[c.CurrentActivity]
		if !ok {
			risk = defaultActivityRisk
		}
		if e.rng.Chance(risk) {
			e.RandomInjury(c, "an accident while "+c.CurrentActivity)
			e.gs.AddChronicle(c.Name+" was hurt in an accident while "+c.CurrentActivity,
				"medical", 4, c.Name)
			return
		}
	}
}

// supplyEvent is the medicine supply line: a shipment arrives, or word
// comes that none will.
func (e *Engine) supplyEvent() {
	if e.rng.Chance(0.6) {
		amount := float64(e.rng.Int(5, 15))
		e.gs.Resources.Add(economy.Medicine, amount)
		e.gs.AddChronicle(
			fmt.Sprintf("A supply wagon brought %.0f units of medicine", amount),
			"medical", 3)
	} else {
		stock := e.gs.Resources.Amount(economy.Medicine)
		e.gs.Resources.Add(economy.Medicine, -stock*0.5)
		e.gs.AddChronicle("Word came the medicine shipment was lost; the shelves run bare", "medical", 6)
		e.gs.AdjustMorale(-5, "medicine shortage")
	}
}

package medical

import (
	"log/slog"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
)

// progressDiseases advances every case one day: incubation, symptoms,
// and the recovery-or-death roll when the course runs out.
func (e *Engine) progressDiseases(c *settlers.Character) {
	for _, d := range c.Diseases {
		if d.Resolved || !c.IsAlive {
			continue
		}

		if !d.Symptomatic {
			d.IncubationDaysLeft--
			if d.IncubationDaysLeft <= 0 {
				d.Symptomatic = true
				c.MedicalHistory = append(c.MedicalHistory,
					c.Name+" came down with "+d.Name.String())
				slog.Debug("disease symptomatic", "name", c.Name, "disease", d.Name.String())
			}
			continue
		}

		c.AdjustHealth(-d.Severity * 3)
		c.AdjustMood(-d.Severity * 2)

		e.applyDiseaseEffects(c, d)
		if !c.IsAlive || d.Resolved {
			continue
		}

		d.DurationDaysLeft--
		if d.DurationDaysLeft > 0 {
			continue
		}

		// Course is over: the disease either takes them or leaves
		// them immune.
		if e.rng.Chance(d.Mortality * d.Severity) {
			e.gs.RecordDeath(c, d.Name.String())
			if ob := e.activeOutbreak(d.Name); ob != nil {
				ob.Deaths++
			}
			return
		}
		d.Resolved = true
		c.GrantImmunity(d.Name)
		c.MedicalHistory = append(c.MedicalHistory, c.Name+" recovered from "+d.Name.String())
	}
}

// applyDiseaseEffects layers each disease's signature on the common
// daily toll.
func (e *Engine) applyDiseaseEffects(c *settlers.Character, d *settlers.Disease) {
	switch d.Name {
	case settlers.DiseaseCholera:
		// Severe dehydration; the sick drink the camp dry.
		if e.rng.Chance(0.3) {
			c.AdjustHealth(-5)
			e.gs.Resources.Add(economy.Water, -2)
		}
	case settlers.DiseaseTuberculosis:
		c.AdjustEnergy(-10)
	case settlers.DiseaseScurvy:
		c.AdjustEnergy(-5)
	case settlers.DiseaseTetanus:
		// Lockjaw. No work gets done until it breaks.
		c.CurrentActivity = "bedridden"
		c.Stats.Energy = 0
	case settlers.DiseaseGangrene:
		e.considerAmputation(c, d)
	}
}

// spreadDiseases runs person-to-person transmission: one roll per
// carrier and disease each day, and a hit infects a single random
// susceptible settler. Crowding and bad sanitation both raise the
// odds; quarantine halves them.
func (e *Engine) spreadDiseases() {
	alive := e.gs.Alive()
	if len(alive) < 2 {
		return
	}
	sanitation := e.sanitation()

	for _, carrier := range alive {
		for _, d := range carrier.Diseases {
			if d.Resolved || !d.Symptomatic {
				continue
			}
			info := diseases[d.Name]
			if info.spreadRate == 0 {
				continue
			}
			chance := info.spreadRate * 0.1
			if len(alive) > 50 {
				chance *= 1.5
			}
			chance *= 2 - sanitation
			chance *= info.seasonalFactor(e.gs.Season)
			if e.isQuarantined(d.Name) {
				chance *= 0.5
			}
			if !e.rng.Chance(chance) {
				continue
			}

			var susceptible []*settlers.Character
			for _, other := range alive {
				if other == carrier || other.IsImmune(d.Name) || other.HasDisease(d.Name) {
					continue
				}
				susceptible = append(susceptible, other)
			}
			if len(susceptible) == 0 {
				continue
			}
			e.AddDisease(entropy.Choice(e.rng, susceptible), d.Name, "contact with "+carrier.Name)
		}
	}
}

package medical

import (
	"log/slog"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/settlers"
)

// progressInjuries advances every wound one day: blood loss, infection,
// and healing. Finished wounds are marked and compacted later, never
// spliced mid-iteration.
func (e *Engine) progressInjuries(c *settlers.Character) {
	for _, inj := range c.Injuries {
		if inj.Resolved {
			continue
		}
		inj.DaysOld++

		if inj.Bleeding > 0 {
			c.AdjustHealth(-inj.Bleeding * inj.Severity)
			if inj.IsTreated {
				inj.Bleeding -= 0.02
				if inj.Bleeding < 0 {
					inj.Bleeding = 0
				}
			}
		}

		e.progressInfection(c, inj)

		if inj.IsTreated {
			inj.HealingProgress += 0.05
		} else {
			inj.HealingProgress += 0.02
		}
		if inj.Pain > 0 {
			inj.Pain -= 0.01
			if inj.Pain < 0 {
				inj.Pain = 0
			}
		}

		if inj.HealingProgress >= 1 && !inj.IsInfected {
			inj.Resolved = true
			c.MedicalHistory = append(c.MedicalHistory,
				"the "+inj.Type.String()+" to the "+inj.BodyPart.String()+" healed")
		}
	}
}

// progressInfection handles a wound going bad: onset, growth, sepsis,
// and the two wound-borne diseases.
func (e *Engine) progressInfection(c *settlers.Character, inj *settlers.Injury) {
	info := injuryTypes[inj.Type]

	if !inj.IsInfected {
		if !inj.IsTreated && e.rng.Chance(info.infectionChance*0.05) {
			inj.IsInfected = true
			inj.InfectionSeverity = e.rng.FloatRange(0.1, 0.3)
			c.MedicalHistory = append(c.MedicalHistory,
				"the "+inj.Type.String()+" to the "+inj.BodyPart.String()+" festered")
		}
		return
	}

	if inj.IsTreated {
		inj.InfectionSeverity -= 0.1
	} else {
		inj.InfectionSeverity += e.rng.FloatRange(0.05, 0.15)
	}
	if inj.InfectionSeverity <= 0 {
		inj.InfectionSeverity = 0
		inj.IsInfected = false
		return
	}
	if inj.InfectionSeverity > 1 {
		inj.InfectionSeverity = 1
	}

	if inj.InfectionSeverity > 0.5 {
		c.AdjustHealth(-2)
		c.AdjustMood(-5)
		if e.rng.Chance(0.1) {
			e.AddDisease(c, settlers.DiseaseGangrene, "an infected "+inj.Type.String())
		}
	}
	if inj.Type == settlers.InjuryPuncture && inj.InfectionSeverity > 0.3 && e.rng.Chance(0.05) {
		e.AddDisease(c, settlers.DiseaseTetanus, "a deep puncture wound")
	}
}

// considerAmputation is the last resort once gangrene is nearly done
// with its host. Losing a vital part is not survivable.
func (e *Engine) considerAmputation(c *settlers.Character, gangrene *settlers.Disease) {
	if gangrene.DurationDaysLeft >= 5 || !e.rng.Chance(0.2) {
		return
	}

	part := e.gangrenousPart(c)
	successChance := 0.3
	if e.doctorOnDuty() != nil {
		successChance += 0.3
	}
	if e.medicalFacility() != nil {
		successChance += 0.2
	}
	if e.gs.Resources.Amount(economy.Medicine) > 5 {
		successChance += 0.1
	}

	if part.Vital() {
		e.gs.RecordDeath(c, "gangrene in a vital area")
		return
	}

	if e.rng.Chance(successChance) {
		gangrene.Resolved = true
		c.Amputations = append(c.Amputations, part)
		c.PermanentDisabilities = append(c.PermanentDisabilities, "lost "+part.String())
		for _, inj := range c.Injuries {
			if inj.BodyPart == part {
				inj.Resolved = true
			}
		}
		c.AdjustHealth(-20)
		c.AdjustMood(-25)
		c.MedicalHistory = append(c.MedicalHistory, "survived amputation of the "+part.String())
		e.gs.AddChronicle(c.Name+" lost a "+part.String()+" to gangrene, but lived", "medical", 7, c.Name)
		slog.Info("amputation", "name", c.Name, "part", part.String())
	} else {
		e.gs.RecordDeath(c, "a failed amputation")
	}
}

// gangrenousPart picks where the rot took hold: the worst infected
// wound's location, head and torso included, or a random limb when the
// source was systemic.
func (e *Engine) gangrenousPart(c *settlers.Character) settlers.BodyPart {
	var worst *settlers.Injury
	for _, inj := range c.Injuries {
		if !inj.IsInfected {
			continue
		}
		if worst == nil || inj.InfectionSeverity > worst.InfectionSeverity {
			worst = inj
		}
	}
	if worst != nil {
		return worst.BodyPart
	}
	limbs := []settlers.BodyPart{
		settlers.PartLeftArm, settlers.PartRightArm,
		settlers.PartLeftLeg, settlers.PartRightLeg,
	}
	return limbs[e.rng.Int(0, len(limbs)-1)]
}

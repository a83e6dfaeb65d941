package medical

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
)

// Engine owns the medical substate: active outbreaks, treatment
// bookkeeping, and the daily condition pass.
type Engine struct {
	gs  *state.Game
	rng *entropy.Source

	outbreaks []*Outbreak

	// Effectiveness bonus from remedy discoveries, applied on top of
	// the tier tables, capped so care never becomes certain.
	knowledgeBonus float64

	docsOfficeBuilt bool
}

// NewEngine creates the medical engine over the shared aggregate.
func NewEngine(gs *state.Game, rng *entropy.Source) *Engine {
	return &Engine{gs: gs, rng: rng}
}

// Outbreaks returns current and past epidemics, newest last.
func (e *Engine) Outbreaks() []*Outbreak { return e.outbreaks }

// AddInjury inflicts a wound: immediate damage scaled by the body
// part, pain, bleeding, and a small chance the wound starts dirty.
func (e *Engine) AddInjury(c *settlers.Character, it settlers.InjuryType, part settlers.BodyPart, severity float64, cause string) *settlers.Injury {
	if !c.IsAlive {
		return nil
	}
	ti := injuryTypes[it]
	pi := bodyParts[part]

	inj := &settlers.Injury{
		ID:           uuid.NewString(),
		Type:         it,
		BodyPart:     part,
		Severity:     severity,
		Cause:        cause,
		DateOccurred: e.gs.Date,
		Bleeding:     ti.bleedingRate * severity,
		Pain:         math.Min(1, ti.painLevel*severity),
	}
	if e.rng.Chance(ti.infectionChance * 0.1) {
		inj.IsInfected = true
		inj.InfectionSeverity = e.rng.FloatRange(0.1, 0.3)
	}
	c.Injuries = append(c.Injuries, inj)

	c.AdjustHealth(-severity * pi.critFactor * 20)
	c.AdjustMood(-inj.Pain * 15)
	c.MedicalHistory = append(c.MedicalHistory,
		c.Name+" suffered a "+it.String()+" to the "+part.String()+" ("+cause+")")
	slog.Debug("injury", "name", c.Name, "type", it.String(), "part", part.String(), "cause", cause)
	return inj
}

// AddDisease exposes a character. Immunity and an existing case of the
// same disease both block it. The case starts incubating, not
// symptomatic.
func (e *Engine) AddDisease(c *settlers.Character, name settlers.DiseaseName, source string) *settlers.Disease {
	if !c.IsAlive || c.IsImmune(name) || c.HasDisease(name) {
		return nil
	}
	info := diseases[name]
	d := &settlers.Disease{
		ID:                 uuid.NewString(),
		Name:               name,
		ExposureSource:     source,
		DateExposed:        e.gs.Date,
		IncubationDaysLeft: info.incubationDays,
		DurationDaysLeft:   info.durationDays,
		Severity:           e.rng.FloatRange(0.5, 1.5),
		Mortality:          info.mortality,
	}
	c.Diseases = append(c.Diseases, d)
	slog.Debug("disease exposure", "name", c.Name, "disease", name.String(), "source", source)
	return d
}

// RandomInjury inflicts a plausible accident wound.
func (e *Engine) RandomInjury(c *settlers.Character, cause string) {
	kinds := []settlers.InjuryType{
		settlers.InjuryCut, settlers.InjuryLaceration, settlers.InjuryBruise,
		settlers.InjuryFracture, settlers.InjuryPuncture, settlers.InjuryCrush,
	}
	parts := []settlers.BodyPart{
		settlers.PartTorso, settlers.PartLeftArm, settlers.PartRightArm,
		settlers.PartLeftLeg, settlers.PartRightLeg,
	}
	e.AddInjury(c,
		entropy.Choice(e.rng, kinds),
		entropy.Choice(e.rng, parts),
		e.rng.FloatRange(0.3, 1.0), cause)
}

// ProcessDaily runs the medical phase of one simulation day.
func (e *Engine) ProcessDaily() {
	for _, c := range e.gs.Alive() {
		e.progressInjuries(c)
		e.progressDiseases(c)
	}
	e.spreadDiseases()
	e.updateOutbreaks()
	e.autoCare()

	for _, c := range e.gs.Alive() {
		e.updateStatus(c)
		if c.Stats.Health <= 0 {
			e.gs.RecordDeath(c, e.likelyCauseOfDeath(c))
		}
	}
	for _, c := range e.gs.Characters {
		c.CompactConditions()
	}

	e.rollDailyEvents()
	e.maybeOpenDocsOffice()
}

// likelyCauseOfDeath names the worst active condition for the record.
func (e *Engine) likelyCauseOfDeath(c *settlers.Character) string {
	cause := "failing health"
	worst := 0.0
	for _, d := range c.Diseases {
		if d.Symptomatic && d.Severity*d.Mortality > worst {
			worst = d.Severity * d.Mortality
			cause = d.Name.String()
		}
	}
	for _, inj := range c.Injuries {
		score := inj.Severity + inj.InfectionSeverity
		if score > worst {
			worst = score
			cause = "an untended " + inj.Type.String()
		}
	}
	return cause
}

// sanitation estimates settlement hygiene from the well and the water
// supply, 0.2 at worst and 1.0 at best. Dirty camps spread disease.
func (e *Engine) sanitation() float64 {
	s := 0.3
	if well := e.gs.BuildingOfType("water", 25); well != nil {
		s += well.Condition / 200
	}
	pop := e.gs.Population.Total
	if pop > 0 {
		perHead := e.gs.Resources.Amount(economy.Water) / float64(pop)
		s += math.Min(0.2, perHead*0.05)
	}
	if s > 1 {
		s = 1
	}
	if s < 0.2 {
		s = 0.2
	}
	return s
}

// doctorOnDuty finds a healthy doctor.
func (e *Engine) doctorOnDuty() *settlers.Character {
	for _, c := range e.gs.Alive() {
		if c.Background == "Doctor" && c.Stats.Health > 50 {
			return c
		}
	}
	return nil
}

// nurseOnDuty finds someone fit to staff the ward: a doctor or a
// teacher still on their feet.
func (e *Engine) nurseOnDuty() *settlers.Character {
	for _, c := range e.gs.Alive() {
		if (c.Background == "Doctor" || c.Background == "Teacher") && c.Stats.Health > 30 {
			return c
		}
	}
	return nil
}

// medicalFacility finds a usable medical building.
func (e *Engine) medicalFacility() *state.Building {
	return e.gs.BuildingOfType("medical", 50)
}

// maybeOpenDocsOffice adds a clinic once the settlement grows past a
// frontier camp.
func (e *Engine) maybeOpenDocsOffice() {
	if e.docsOfficeBuilt || e.gs.Population.Total <= 30 {
		return
	}
	e.docsOfficeBuilt = true
	e.gs.Buildings = append(e.gs.Buildings, &state.Building{
		Name: "Doc's Office", Type: "medical", Capacity: 10, Condition: 75,
	})
	e.gs.AddChronicle("The settlement raised a proper Doc's Office", "medical", 3)
}

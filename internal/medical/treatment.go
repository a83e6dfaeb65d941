package medical

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/settlers"
)

var (
	ErrUnknownCharacter = errors.New("unknown character")
	ErrDeadCharacter    = errors.New("character is dead")
	ErrUnknownCondition = errors.New("unknown condition")
	ErrUnknownTier      = errors.New("unknown treatment tier")
	ErrTierUnavailable  = errors.New("treatment tier unavailable")
	ErrNoMedicine       = errors.New("not enough medicine")
)

// tierAvailable checks the fee and prerequisites of a tier against the
// current settlement.
func (e *Engine) tierAvailable(info treatmentInfo) error {
	if e.gs.Resources.Amount(economy.Money) < info.moneyCost {
		return fmt.Errorf("%w: costs $%.0f", ErrTierUnavailable, info.moneyCost)
	}
	if info.needsDoctor && e.doctorOnDuty() == nil {
		return fmt.Errorf("%w: no doctor fit for duty", ErrTierUnavailable)
	}
	if info.needsFacility && e.medicalFacility() == nil {
		return fmt.Errorf("%w: no usable medical building", ErrTierUnavailable)
	}
	if info.needsNurses && e.nurseOnDuty() == nil {
		return fmt.Errorf("%w: nobody fit to nurse the ward", ErrTierUnavailable)
	}
	return nil
}

// Treat applies one tier of care to one condition, charging the fee and
// a unit of medicine where the tier calls for it. The condition id may
// name an injury or a disease.
func (e *Engine) Treat(id settlers.CharacterID, conditionID string, tier TreatmentTier) error {
	c, ok := e.gs.Character(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCharacter, id)
	}
	if !c.IsAlive {
		return fmt.Errorf("%w: %s", ErrDeadCharacter, c.Name)
	}
	info, ok := treatments[tier]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	if err := e.tierAvailable(info); err != nil {
		return err
	}
	if info.needsMedicine && !e.gs.Resources.Spend(economy.Medicine, 1) {
		return fmt.Errorf("%w: the shelves are empty", ErrNoMedicine)
	}
	e.gs.Resources.Spend(economy.Money, info.moneyCost)

	eff := e.effectiveness(info)
	for _, inj := range c.Injuries {
		if inj.ID == conditionID {
			e.treatInjury(c, inj, eff, tier)
			return nil
		}
	}
	for _, d := range c.Diseases {
		if d.ID == conditionID {
			e.treatDisease(c, d, eff, tier)
			return nil
		}
	}
	// Refund: nothing matched.
	e.gs.Resources.Add(economy.Money, info.moneyCost)
	if info.needsMedicine {
		e.gs.Resources.Add(economy.Medicine, 1)
	}
	return fmt.Errorf("%w: %s", ErrUnknownCondition, conditionID)
}

// effectiveness folds remedy discoveries into a tier's base rate.
func (e *Engine) effectiveness(info treatmentInfo) float64 {
	eff := info.effectiveness + e.knowledgeBonus
	if eff > 0.95 {
		eff = 0.95
	}
	return eff
}

func (e *Engine) treatInjury(c *settlers.Character, inj *settlers.Injury, eff float64, tier TreatmentTier) {
	inj.IsTreated = true
	inj.Bleeding *= 1 - eff
	inj.Pain *= 1 - eff
	if inj.IsInfected {
		inj.InfectionSeverity *= 1 - eff
		if inj.InfectionSeverity <= 0 {
			inj.InfectionSeverity = 0
			inj.IsInfected = false
		}
	}
	c.MedicalHistory = append(c.MedicalHistory,
		fmt.Sprintf("the %s to the %s was treated (%s)", inj.Type, inj.BodyPart, tier))
}

// treatDisease shortens the course and eases the symptoms. Duration
// never drops below a day nor severity below 0.1; care helps, it does
// not cure outright.
func (e *Engine) treatDisease(c *settlers.Character, d *settlers.Disease, eff float64, tier TreatmentTier) {
	d.IsTreated = true
	d.DurationDaysLeft = int(math.Max(1, math.Floor(float64(d.DurationDaysLeft)*(1-eff*0.3))))
	d.Severity = math.Max(0.1, d.Severity*(1-eff*0.2))
	c.MedicalHistory = append(c.MedicalHistory,
		fmt.Sprintf("received %s for %s", tier, d.Name))
}

// patient pairs a settler with their worst untreated condition for the
// auto-care queue.
type patient struct {
	character   *settlers.Character
	conditionID string
	urgency     float64
}

// autoCare has the settlement's caregivers work through the sickest
// patients first, spending down the medicine stock from the best
// available tier to the cheapest.
func (e *Engine) autoCare() {
	queue := e.careQueue()
	if len(queue) == 0 {
		return
	}

	for _, p := range queue {
		for _, tier := range tiersBestFirst {
			info := treatments[tier]
			if e.tierAvailable(info) != nil {
				continue
			}
			if info.needsMedicine && e.gs.Resources.Amount(economy.Medicine) < 1 {
				continue
			}
			if err := e.Treat(p.character.ID, p.conditionID, tier); err == nil {
				break
			}
		}
	}
}

// careQueue collects untreated conditions ordered most urgent first.
func (e *Engine) careQueue() []patient {
	var queue []patient
	for _, c := range e.gs.Alive() {
		id, urgency := worstUntreated(c)
		if id == "" {
			continue
		}
		queue = append(queue, patient{character: c, conditionID: id, urgency: urgency})
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].urgency > queue[j].urgency
	})
	return queue
}

// worstUntreated scores a settler's untreated conditions; infection
// outranks raw severity.
func worstUntreated(c *settlers.Character) (string, float64) {
	best := ""
	urgency := 0.0
	for _, inj := range c.Injuries {
		if inj.Resolved || inj.IsTreated {
			continue
		}
		score := inj.Severity + inj.InfectionSeverity*2
		if score > urgency {
			urgency = score
			best = inj.ID
		}
	}
	for _, d := range c.Diseases {
		if d.Resolved || d.IsTreated || !d.Symptomatic {
			continue
		}
		score := d.Severity * (1 + d.Mortality)
		if score > urgency {
			urgency = score
			best = d.ID
		}
	}
	return best, urgency
}

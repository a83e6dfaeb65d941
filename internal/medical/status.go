package medical

import (
	"github.com/talgya/redrock/internal/settlers"
)

// updateStatus recomputes the derived medical summary for one settler:
// how well they can work and move, how much pain they carry, and
// whether they belong in bed.
func (e *Engine) updateStatus(c *settlers.Character) {
	workLoss := 0.0
	mobilityLoss := 0.0
	pain := 0.0
	needsCare := false

	for _, inj := range c.Injuries {
		if inj.Resolved {
			continue
		}
		pi := bodyParts[inj.BodyPart]
		remaining := 1 - inj.HealingProgress
		if remaining < 0 {
			remaining = 0
		}
		workLoss += pi.workImpact * inj.Severity * remaining
		mobilityLoss += pi.mobilityImpact * inj.Severity * remaining
		if inj.Pain > pain {
			pain = inj.Pain
		}
		if !inj.IsTreated {
			needsCare = true
		}
	}
	for _, d := range c.Diseases {
		if d.Resolved || !d.Symptomatic {
			continue
		}
		workLoss += 0.2 * d.Severity
		mobilityLoss += 0.1 * d.Severity
		if !d.IsTreated {
			needsCare = true
		}
	}
	for _, part := range c.Amputations {
		pi := bodyParts[part]
		workLoss += pi.workImpact * 0.5
		mobilityLoss += pi.mobilityImpact * 0.5
	}

	st := &c.MedicalStatus
	st.WorkEfficiency = clamp01(1 - workLoss)
	st.MobilityEfficiency = clamp01(1 - mobilityLoss)
	st.PainLevel = clamp01(pain)
	st.NeedsMedicalAttention = needsCare
	st.RequiresBedrest = st.PainLevel > 0.8 || workLoss > 0.8

	if st.RequiresBedrest {
		c.CurrentActivity = "bedridden"
		c.CapEnergy(20)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

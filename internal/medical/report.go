package medical

// Report is the settlement health summary served by the API and
// embedded in chronicle exports.
type Report struct {
	Healthy           int         `json:"healthy"`
	Injured           int         `json:"injured"`
	Sick              int         `json:"sick"`
	Critical          int         `json:"critical"`
	Bedridden         int         `json:"bedridden"`
	DoctorAvailable   bool        `json:"doctor_available"`
	FacilityAvailable bool        `json:"facility_available"`
	Sanitation        float64     `json:"sanitation"`
	KnowledgeBonus    float64     `json:"knowledge_bonus"`
	Outbreaks         []*Outbreak `json:"outbreaks,omitempty"`
}

// Report tallies the roster's condition. A settler counts in every
// bucket that applies except healthy, which excludes all others.
func (e *Engine) Report() Report {
	r := Report{
		DoctorAvailable:   e.doctorOnDuty() != nil,
		FacilityAvailable: e.medicalFacility() != nil,
		Sanitation:        e.sanitation(),
		KnowledgeBonus:    e.knowledgeBonus,
		Outbreaks:         e.outbreaks,
	}
	for _, c := range e.gs.Alive() {
		injured := len(c.Injuries) > 0
		sick := false
		for _, d := range c.Diseases {
			if d.Symptomatic {
				sick = true
				break
			}
		}
		if injured {
			r.Injured++
		}
		if sick {
			r.Sick++
		}
		if c.Stats.Health < 25 {
			r.Critical++
		}
		if c.MedicalStatus.RequiresBedrest {
			r.Bedridden++
		}
		if !injured && !sick && len(c.Diseases) == 0 {
			r.Healthy++
		}
	}
	return r
}

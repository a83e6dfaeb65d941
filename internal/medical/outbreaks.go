package medical

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/settlers"
)

// Outbreak tracks one epidemic from declaration to burnout.
type Outbreak struct {
	ID          string                `json:"id"`
	Disease     settlers.DiseaseName  `json:"disease"`
	StartDay    int                   `json:"start_day"`
	EndDay      int                   `json:"end_day,omitempty"`
	Cases       int                   `json:"cases"`
	PeakCases   int                   `json:"peak_cases"`
	Deaths      int                   `json:"deaths"`
	Quarantined bool                  `json:"quarantined"`
	Active      bool                  `json:"active"`
}

// outbreakThreshold is the case count that turns scattered sickness
// into a declared epidemic.
func (e *Engine) outbreakThreshold() int {
	pop := e.gs.Population.Total
	return int(math.Max(3, float64(pop)*0.1))
}

// updateOutbreaks declares new epidemics, tracks running ones, and
// stands them down once cases fall far enough below the peak. Only
// symptomatic cases count; incubating infections stay invisible until
// they show.
func (e *Engine) updateOutbreaks() {
	counts := make(map[settlers.DiseaseName]int)
	for _, c := range e.gs.Alive() {
		for _, d := range c.Diseases {
			if !d.Resolved && d.Symptomatic {
				counts[d.Name]++
			}
		}
	}

	threshold := e.outbreakThreshold()
	for name, count := range counts {
		if count < threshold || e.activeOutbreak(name) != nil {
			continue
		}
		e.declareOutbreak(name, count)
	}

	for _, ob := range e.outbreaks {
		if !ob.Active {
			continue
		}
		ob.Cases = counts[ob.Disease]
		if ob.Cases > ob.PeakCases {
			ob.PeakCases = ob.Cases
		}
		endBelow := int(math.Max(1, float64(ob.PeakCases)*0.3))
		if ob.Cases < endBelow {
			ob.Active = false
			ob.EndDay = e.gs.Day
			e.gs.AddChronicle(
				fmt.Sprintf("The %s epidemic has run its course", ob.Disease),
				"medical", 5)
			e.gs.AdjustMorale(10, "the "+ob.Disease.String()+" epidemic ended")
			slog.Info("outbreak ended", "disease", ob.Disease.String(), "peak", ob.PeakCases, "day", e.gs.Day)
		}
	}
}

func (e *Engine) declareOutbreak(name settlers.DiseaseName, cases int) {
	ob := &Outbreak{
		ID:        uuid.NewString(),
		Disease:   name,
		StartDay:  e.gs.Day,
		Cases:     cases,
		PeakCases: cases,
		Active:    true,
	}
	e.outbreaks = append(e.outbreaks, ob)

	e.gs.AddChronicle(
		fmt.Sprintf("A %s epidemic has taken hold: %d settlers are sick", name, cases),
		"medical", 9)
	e.gs.AdjustMorale(-25, name.String()+" epidemic declared")
	slog.Warn("outbreak declared", "disease", name.String(), "cases", cases, "day", e.gs.Day)

	// With a doctor to enforce it, quarantine slows the spread at a
	// cost in spirits and in food carried to the sick.
	if e.doctorOnDuty() != nil {
		ob.Quarantined = true
		e.gs.AdjustMorale(-10, "quarantine imposed")
		e.gs.Resources.Add(economy.Food, -10)
		e.gs.AddChronicle("The doctor ordered the sick confined to quarantine", "medical", 6)
	}
}

// activeOutbreak returns the running epidemic of a disease, if any.
func (e *Engine) activeOutbreak(name settlers.DiseaseName) *Outbreak {
	for _, ob := range e.outbreaks {
		if ob.Active && ob.Disease == name {
			return ob
		}
	}
	return nil
}

// isQuarantined reports whether a quarantine is in force for the
// disease.
func (e *Engine) isQuarantined(name settlers.DiseaseName) bool {
	ob := e.activeOutbreak(name)
	return ob != nil && ob.Quarantined
}

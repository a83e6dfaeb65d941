// Package medical owns injuries, diseases, outbreaks, and treatment.
// It runs once per simulation day after the weather phase and mutates
// the shared aggregate directly.
package medical

import (
	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/settlers"
)

// bodyPartInfo drives how bad an injury to a part is and how it heals.
type bodyPartInfo struct {
	critFactor     float64 // scales immediate damage and death risk
	baseHealDays   int
	workImpact     float64 // efficiency lost per point of severity
	mobilityImpact float64
}

var bodyParts = map[settlers.BodyPart]bodyPartInfo{
	settlers.PartHead:     {critFactor: 0.8, baseHealDays: 30, workImpact: 0.8, mobilityImpact: 0.3},
	settlers.PartTorso:    {critFactor: 0.6, baseHealDays: 20, workImpact: 0.5, mobilityImpact: 0.2},
	settlers.PartLeftArm:  {critFactor: 0.1, baseHealDays: 14, workImpact: 0.4, mobilityImpact: 0},
	settlers.PartRightArm: {critFactor: 0.1, baseHealDays: 14, workImpact: 0.4, mobilityImpact: 0},
	settlers.PartLeftLeg:  {critFactor: 0.2, baseHealDays: 21, workImpact: 0.2, mobilityImpact: 0.4},
	settlers.PartRightLeg: {critFactor: 0.2, baseHealDays: 21, workImpact: 0.2, mobilityImpact: 0.4},
}

// injuryTypeInfo drives bleeding, infection risk, and pain for a wound
// kind.
type injuryTypeInfo struct {
	bleedingRate    float64
	infectionChance float64
	painLevel       float64
}

var injuryTypes = map[settlers.InjuryType]injuryTypeInfo{
	settlers.InjuryCut:        {bleedingRate: 0.3, infectionChance: 0.2, painLevel: 0.3},
	settlers.InjuryLaceration: {bleedingRate: 0.5, infectionChance: 0.3, painLevel: 0.5},
	settlers.InjuryBruise:     {bleedingRate: 0, infectionChance: 0.02, painLevel: 0.2},
	settlers.InjuryFracture:   {bleedingRate: 0.1, infectionChance: 0.1, painLevel: 0.7},
	settlers.InjuryBurn:       {bleedingRate: 0.1, infectionChance: 0.4, painLevel: 0.6},
	settlers.InjuryPuncture:   {bleedingRate: 0.2, infectionChance: 0.5, painLevel: 0.5},
	settlers.InjuryCrush:      {bleedingRate: 0.3, infectionChance: 0.2, painLevel: 0.8},
	settlers.InjuryGunshot:    {bleedingRate: 0.6, infectionChance: 0.4, painLevel: 0.9},
}

// diseaseInfo is the natural history of one disease.
type diseaseInfo struct {
	incubationDays int
	durationDays   int
	mortality      float64
	spreadRate     float64 // 0 = not contagious
	seasonal       map[calendar.Season]float64
}

var diseases = map[settlers.DiseaseName]diseaseInfo{
	settlers.DiseaseCholera: {
		incubationDays: 3, durationDays: 14, mortality: 0.6, spreadRate: 0.3,
		seasonal: map[calendar.Season]float64{calendar.Summer: 1.5, calendar.Fall: 1.2},
	},
	settlers.DiseaseInfluenza: {
		incubationDays: 2, durationDays: 10, mortality: 0.1, spreadRate: 0.4,
		seasonal: map[calendar.Season]float64{calendar.Winter: 2.0, calendar.Spring: 1.2},
	},
	settlers.DiseaseDysentery: {
		incubationDays: 4, durationDays: 12, mortality: 0.3, spreadRate: 0.25,
	},
	settlers.DiseaseTyphoid: {
		incubationDays: 7, durationDays: 21, mortality: 0.4, spreadRate: 0.2,
	},
	settlers.DiseaseTuberculosis: {
		incubationDays: 14, durationDays: 90, mortality: 0.5, spreadRate: 0.15,
	},
	settlers.DiseaseScurvy: {
		incubationDays: 30, durationDays: 45, mortality: 0.2, spreadRate: 0,
	},
	settlers.DiseaseTetanus: {
		incubationDays: 7, durationDays: 21, mortality: 0.8, spreadRate: 0,
	},
	settlers.DiseaseGangrene: {
		incubationDays: 3, durationDays: 14, mortality: 0.7, spreadRate: 0,
	},
}

// seasonalFactor scales transmission for the current season.
func (d diseaseInfo) seasonalFactor(s calendar.Season) float64 {
	if d.seasonal == nil {
		return 1
	}
	if f, ok := d.seasonal[s]; ok {
		return f
	}
	return 1
}

// TreatmentTier orders care from campfire remedy up to hospital bed.
type TreatmentTier string

const (
	TierFolkRemedy   TreatmentTier = "folk_remedy"
	TierBasicCare    TreatmentTier = "basic_medical_care"
	TierDoctor       TreatmentTier = "doctor_treatment"
	TierHospitalCare TreatmentTier = "hospital_care"
)

// treatmentInfo is one tier's effectiveness, fee, and prerequisites.
// Tiers that use medicine consume one unit per treatment on top of the
// money cost.
type treatmentInfo struct {
	effectiveness float64
	moneyCost     float64
	needsMedicine bool
	needsDoctor   bool
	needsFacility bool
	needsNurses   bool
}

var treatments = map[TreatmentTier]treatmentInfo{
	TierFolkRemedy: {effectiveness: 0.3, moneyCost: 1},
	TierBasicCare:  {effectiveness: 0.6, moneyCost: 5, needsMedicine: true},
	TierDoctor:     {effectiveness: 0.8, moneyCost: 15, needsMedicine: true, needsDoctor: true},
	TierHospitalCare: {
		effectiveness: 0.9, moneyCost: 30,
		needsMedicine: true, needsDoctor: true, needsFacility: true, needsNurses: true,
	},
}

// tiersBestFirst is the auto-care preference order.
var tiersBestFirst = []TreatmentTier{
	TierHospitalCare, TierDoctor, TierBasicCare, TierFolkRemedy,
}

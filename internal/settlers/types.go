// Package settlers provides the character data model: stats, skills,
// traits, and the medical and weather substate the engines mutate.
package settlers

import (
	"strings"
	"time"
)

// CharacterID is a unique, stable identifier for a settler.
type CharacterID uint64

// Gender for demographic bookkeeping and name generation.
type Gender uint8

const (
	GenderMale   Gender = 0
	GenderFemale Gender = 1
)

// String returns the table key for the gender.
func (g Gender) String() string {
	if g == GenderFemale {
		return "female"
	}
	return "male"
}

// Skill enumerates the trainable capabilities. The set is closed:
// event tables referencing anything else are rejected at the call
// site.
type Skill uint8

const (
	SkillAgriculture Skill = iota
	SkillConstruction
	SkillHunting
	SkillMining
	SkillSocial
	SkillMedical
	SkillLeadership
	SkillMetalwork
	SkillSurvival
	SkillTracking
	SkillCooking
	SkillCrafting
	SkillCombat
	NumSkills
)

var skillNames = [NumSkills]string{
	"agriculture", "construction", "hunting", "mining", "social",
	"medical", "leadership", "metalwork", "survival", "tracking",
	"cooking", "crafting", "combat",
}

// String returns the table key for the skill.
func (s Skill) String() string {
	if s >= NumSkills {
		return "unknown"
	}
	return skillNames[s]
}

// ParseSkill resolves a table key to a Skill.
func ParseSkill(key string) (Skill, bool) {
	for i, name := range skillNames {
		if name == key {
			return Skill(i), true
		}
	}
	return NumSkills, false
}

// SkillSet holds per-skill levels 0–100 as a fixed array.
type SkillSet [NumSkills]int

// Get returns the level for a skill.
func (ss *SkillSet) Get(s Skill) int {
	if s >= NumSkills {
		return 0
	}
	return ss[s]
}

// Add applies a delta, clamped to [0, 100].
func (ss *SkillSet) Add(s Skill, delta int) {
	if s >= NumSkills {
		return
	}
	ss[s] = clampInt(ss[s]+delta, 0, 100)
}

// Map returns a name-keyed snapshot for reports and export.
func (ss *SkillSet) Map() map[string]int {
	m := make(map[string]int, NumSkills)
	for i := Skill(0); i < NumSkills; i++ {
		m[i.String()] = ss[i]
	}
	return m
}

// BodyPart locates an injury.
type BodyPart uint8

const (
	PartHead BodyPart = iota
	PartTorso
	PartLeftArm
	PartRightArm
	PartLeftLeg
	PartRightLeg
	NumBodyParts
)

var bodyPartNames = [NumBodyParts]string{
	"head", "torso", "left_arm", "right_arm", "left_leg", "right_leg",
}

// String returns the table key for the body part.
func (b BodyPart) String() string {
	if b >= NumBodyParts {
		return "unknown"
	}
	return bodyPartNames[b]
}

// ParseBodyPart resolves a table key to a BodyPart. camelCase keys from
// older data files ("leftArm") are accepted.
func ParseBodyPart(key string) (BodyPart, bool) {
	switch key {
	case "leftArm":
		return PartLeftArm, true
	case "rightArm":
		return PartRightArm, true
	case "leftLeg":
		return PartLeftLeg, true
	case "rightLeg":
		return PartRightLeg, true
	}
	for i, name := range bodyPartNames {
		if name == key {
			return BodyPart(i), true
		}
	}
	return NumBodyParts, false
}

// Vital reports whether losing the part is unsurvivable (amputation
// impossible).
func (b BodyPart) Vital() bool {
	return b == PartHead || b == PartTorso
}

// InjuryType enumerates wound kinds.
type InjuryType uint8

const (
	InjuryCut InjuryType = iota
	InjuryLaceration
	InjuryBruise
	InjuryFracture
	InjuryBurn
	InjuryPuncture
	InjuryCrush
	InjuryGunshot
	NumInjuryTypes
)

var injuryTypeNames = [NumInjuryTypes]string{
	"cut", "laceration", "bruise", "fracture", "burn", "puncture", "crush", "gunshot",
}

// String returns the table key for the injury type.
func (it InjuryType) String() string {
	if it >= NumInjuryTypes {
		return "unknown"
	}
	return injuryTypeNames[it]
}

// ParseInjuryType resolves a table key to an InjuryType.
func ParseInjuryType(key string) (InjuryType, bool) {
	for i, name := range injuryTypeNames {
		if name == key {
			return InjuryType(i), true
		}
	}
	return NumInjuryTypes, false
}

// DiseaseName enumerates the modeled diseases.
type DiseaseName uint8

const (
	DiseaseCholera DiseaseName = iota
	DiseaseInfluenza
	DiseaseDysentery
	DiseaseTyphoid
	DiseaseTuberculosis
	DiseaseScurvy
	DiseaseTetanus
	DiseaseGangrene
	NumDiseases
)

var diseaseNames = [NumDiseases]string{
	"cholera", "influenza", "dysentery", "typhoid",
	"tuberculosis", "scurvy", "tetanus", "gangrene",
}

// String returns the table key for the disease.
func (d DiseaseName) String() string {
	if d >= NumDiseases {
		return "unknown"
	}
	return diseaseNames[d]
}

// ParseDisease resolves a table key to a DiseaseName.
func ParseDisease(key string) (DiseaseName, bool) {
	for i, name := range diseaseNames {
		if name == strings.ToLower(key) {
			return DiseaseName(i), true
		}
	}
	return NumDiseases, false
}

// Injury is one wound on a character. Progressed daily by the medical
// engine; removed only when HealingProgress reaches 1.0 while
// uninfected.
type Injury struct {
	ID                string     `json:"id"`
	Type              InjuryType `json:"type"`
	BodyPart          BodyPart   `json:"body_part"`
	Severity          float64    `json:"severity"` // typically 0.5–1.5
	Cause             string     `json:"cause"`
	DateOccurred      time.Time  `json:"date_occurred"`
	DaysOld           int        `json:"days_old"`
	IsInfected        bool       `json:"is_infected"`
	InfectionSeverity float64    `json:"infection_severity"`
	IsTreated         bool       `json:"is_treated"`
	Bleeding          float64    `json:"bleeding"`
	Pain              float64    `json:"pain"`
	HealingProgress   float64    `json:"healing_progress"`

	// Marked during the daily pass, compacted afterwards.
	Resolved bool `json:"-"`
}

// Disease is one infection on a character. IncubationDaysLeft counts
// to 0 (symptoms begin), then DurationDaysLeft counts to 0 (recovery
// or death roll).
type Disease struct {
	ID                 string      `json:"id"`
	Name               DiseaseName `json:"name"`
	ExposureSource     string      `json:"exposure_source"`
	DateExposed        time.Time   `json:"date_exposed"`
	IncubationDaysLeft int         `json:"incubation_days_left"`
	DurationDaysLeft   int         `json:"duration_days_left"`
	Severity           float64     `json:"severity"` // 0.5–1.5
	Symptomatic        bool        `json:"symptomatic"`
	IsTreated          bool        `json:"is_treated"`
	Mortality          float64     `json:"mortality"`

	Resolved bool `json:"-"`
}

// MedicalStatus is the derived daily summary written by the medical
// engine.
type MedicalStatus struct {
	WorkEfficiency        float64 `json:"work_efficiency"`     // 0–1
	MobilityEfficiency    float64 `json:"mobility_efficiency"` // 0–1
	PainLevel             float64 `json:"pain_level"`          // 0–1
	RequiresBedrest       bool    `json:"requires_bedrest"`
	NeedsMedicalAttention bool    `json:"needs_medical_attention"`
}

// WeatherResistance holds per-hazard tolerance, roughly 0.7–1.5.
// Higher is hardier. Slowly drifts up with exposure.
type WeatherResistance struct {
	Cold float64 `json:"cold"`
	Heat float64 `json:"heat"`
	Wet  float64 `json:"wet"`
	Wind float64 `json:"wind"`

	// Cumulative exposure-day counters driving the drift.
	ColdDays  int `json:"cold_days"`
	HotDays   int `json:"hot_days"`
	StormDays int `json:"storm_days"`
}

// Stats are the core clamped vitals plus skills.
type Stats struct {
	Health float64  `json:"health"` // 0–100
	Mood   float64  `json:"mood"`   // 0–100
	Energy float64  `json:"energy"` // 0–100
	Skills SkillSet `json:"skills"`
}

// ActivityRecord is one entry of a character's activity history.
type ActivityRecord struct {
	Date     time.Time `json:"date"`
	Activity string    `json:"activity"`
}

// Character is a settler. Created at simulation start, mutated daily,
// never removed from the roster: death marks IsAlive false and the
// engines skip it thereafter.
type Character struct {
	ID         CharacterID `json:"id"`
	Name       string      `json:"name"`
	Age        int         `json:"age"`
	Gender     Gender      `json:"gender"`
	Culture    string      `json:"culture"`
	Background string      `json:"background"`

	Stats           Stats            `json:"stats"`
	CurrentActivity string           `json:"current_activity"`
	ActivityHistory []ActivityRecord `json:"activity_history,omitempty"`
	Traits          []string         `json:"traits"`
	Inventory       map[string]int   `json:"inventory,omitempty"`

	Injuries       []*Injury     `json:"injuries"`
	Diseases       []*Disease    `json:"diseases"`
	Immunities     []DiseaseName `json:"immunities"`
	MedicalStatus  MedicalStatus `json:"medical_status"`
	MedicalHistory []string      `json:"medical_history,omitempty"`

	Resistance WeatherResistance `json:"weather_resistance"`

	IsAlive               bool       `json:"is_alive"`
	CauseOfDeath          string     `json:"cause_of_death,omitempty"`
	DateOfDeath           *time.Time `json:"date_of_death,omitempty"`
	Amputations           []BodyPart `json:"amputations,omitempty"`
	PermanentDisabilities []string   `json:"permanent_disabilities,omitempty"`

	// Daily activity list supplied by the background table.
	Activities []string `json:"-"`
}

// AdjustHealth applies a delta, clamped to [0, 100].
func (c *Character) AdjustHealth(delta float64) {
	c.Stats.Health = clampFloat(c.Stats.Health+delta, 0, 100)
}

// AdjustMood applies a delta, clamped to [0, 100].
func (c *Character) AdjustMood(delta float64) {
	c.Stats.Mood = clampFloat(c.Stats.Mood+delta, 0, 100)
}

// AdjustEnergy applies a delta, clamped to [0, 100].
func (c *Character) AdjustEnergy(delta float64) {
	c.Stats.Energy = clampFloat(c.Stats.Energy+delta, 0, 100)
}

// CapEnergy lowers energy to at most limit.
func (c *Character) CapEnergy(limit float64) {
	if c.Stats.Energy > limit {
		c.Stats.Energy = limit
	}
}

// HasTrait reports whether the character carries the named trait.
func (c *Character) HasTrait(name string) bool {
	for _, t := range c.Traits {
		if t == name {
			return true
		}
	}
	return false
}

// IsImmune reports permanent immunity to a disease.
func (c *Character) IsImmune(d DiseaseName) bool {
	for _, im := range c.Immunities {
		if im == d {
			return true
		}
	}
	return false
}

// GrantImmunity records permanent immunity, once.
func (c *Character) GrantImmunity(d DiseaseName) {
	if !c.IsImmune(d) {
		c.Immunities = append(c.Immunities, d)
	}
}

// HasDisease reports an active (unresolved) case of the disease.
func (c *Character) HasDisease(d DiseaseName) bool {
	for _, ds := range c.Diseases {
		if ds.Name == d && !ds.Resolved {
			return true
		}
	}
	return false
}

// HasAmputation reports whether the part has been removed.
func (c *Character) HasAmputation(p BodyPart) bool {
	for _, a := range c.Amputations {
		if a == p {
			return true
		}
	}
	return false
}

// CompactConditions removes injuries and diseases marked Resolved
// during the daily pass. Iteration never splices in place.
func (c *Character) CompactConditions() {
	injuries := c.Injuries[:0]
	for _, inj := range c.Injuries {
		if !inj.Resolved {
			injuries = append(injuries, inj)
		}
	}
	c.Injuries = injuries

	diseases := c.Diseases[:0]
	for _, d := range c.Diseases {
		if !d.Resolved {
			diseases = append(diseases, d)
		}
	}
	c.Diseases = diseases
}

// RecordActivity appends to the bounded activity history.
func (c *Character) RecordActivity(date time.Time, activity string) {
	c.CurrentActivity = activity
	c.ActivityHistory = append(c.ActivityHistory, ActivityRecord{Date: date, Activity: activity})
	if len(c.ActivityHistory) > 60 {
		c.ActivityHistory = c.ActivityHistory[len(c.ActivityHistory)-60:]
	}
}

// IsChild reports demographic bucket membership.
func (c *Character) IsChild() bool { return c.Age < 18 }

// IsElderly reports demographic bucket membership.
func (c *Character) IsElderly() bool { return c.Age > 60 }

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

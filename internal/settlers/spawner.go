// Settler spawning — creates the starting roster from the culture and
// background tables.
package settlers

import (
	"time"

	"github.com/talgya/redrock/internal/data"
	"github.com/talgya/redrock/internal/entropy"
)

var allTraits = []string{
	"hardworking", "optimistic", "cautious", "brave", "sociable",
	"independent", "resourceful", "stubborn", "generous", "practical",
	"religious", "ambitious", "resilient", "quick-tempered", "loyal",
}

// Spawner creates settlers for the simulation.
type Spawner struct {
	rng    *entropy.Source
	tables *data.Tables
	nextID CharacterID
}

// NewSpawner creates a spawner drawing from the given tables.
func NewSpawner(rng *entropy.Source, tables *data.Tables) *Spawner {
	return &Spawner{
		rng:    rng,
		tables: tables,
		nextID: 1,
	}
}

// SpawnPopulation creates the starting roster.
func (s *Spawner) SpawnPopulation(count int, arrival time.Time) []*Character {
	roster := make([]*Character, 0, count)
	for i := 0; i < count; i++ {
		roster = append(roster, s.spawnOne(arrival))
	}
	return roster
}

func (s *Spawner) spawnOne(arrival time.Time) *Character {
	id := s.nextID
	s.nextID++

	gender := GenderMale
	if s.rng.Chance(0.5) {
		gender = GenderFemale
	}

	culture := s.pickCulture()
	background := s.pickBackground()

	c := &Character{
		ID:         id,
		Name:       s.generateName(gender, culture),
		Age:        s.rng.Int(18, 65),
		Gender:     gender,
		Culture:    culture.Name,
		Background: background.Name,
		Stats:      s.generateStats(background),
		Traits:     s.pickTraits(),
		Inventory:  map[string]int{"tools": 1},
		Injuries:   []*Injury{},
		Diseases:   []*Disease{},
		MedicalStatus: MedicalStatus{
			WorkEfficiency:     1.0,
			MobilityEfficiency: 1.0,
		},
		Resistance: WeatherResistance{
			Cold: s.rng.FloatRange(0.7, 1.3),
			Heat: s.rng.FloatRange(0.7, 1.3),
			Wet:  s.rng.FloatRange(0.7, 1.3),
			Wind: s.rng.FloatRange(0.7, 1.3),
		},
		IsAlive:    true,
		Activities: background.Activities,
	}

	if len(background.Activities) > 0 {
		c.RecordActivity(arrival, entropy.Choice(s.rng, background.Activities))
	} else {
		c.CurrentActivity = "general work"
	}
	return c
}

func (s *Spawner) pickCulture() data.Culture {
	weights := make([]float64, len(s.tables.Cultures))
	for i, cu := range s.tables.Cultures {
		weights[i] = cu.Weight
	}
	return s.tables.Cultures[s.rng.WeightedIndex(weights)]
}

func (s *Spawner) pickBackground() data.Background {
	weights := make([]float64, len(s.tables.Backgrounds))
	for i, b := range s.tables.Backgrounds {
		w := b.Rarity
		if w <= 0 {
			w = 0.5
		}
		weights[i] = w
	}
	return s.tables.Backgrounds[s.rng.WeightedIndex(weights)]
}

func (s *Spawner) generateName(gender Gender, culture data.Culture) string {
	var pool []string
	if gender == GenderFemale {
		pool = culture.FemaleNames
	} else {
		pool = culture.MaleNames
	}
	first := "Unknown"
	if len(pool) > 0 {
		first = entropy.Choice(s.rng, pool)
	}
	last := "Settler"
	if len(culture.Surnames) > 0 {
		last = entropy.Choice(s.rng, culture.Surnames)
	}
	return first + " " + last
}

// generateStats rolls base vitals and skills, then applies the
// background's skill bonuses.
func (s *Spawner) generateStats(background data.Background) Stats {
	stats := Stats{
		Health: float64(s.rng.Int(70, 100)),
		Mood:   float64(s.rng.Int(40, 80)),
		Energy: float64(s.rng.Int(60, 100)),
	}

	broad := []Skill{
		SkillAgriculture, SkillConstruction, SkillHunting, SkillSocial,
		SkillSurvival, SkillCooking, SkillCrafting,
	}
	for _, sk := range broad {
		stats.Skills[sk] = s.rng.Int(20, 50)
	}
	narrow := []Skill{
		SkillMedical, SkillLeadership, SkillMining, SkillMetalwork,
		SkillTracking, SkillCombat,
	}
	for _, sk := range narrow {
		stats.Skills[sk] = s.rng.Int(10, 30)
	}

	for name, value := range background.Skills {
		sk, ok := ParseSkill(name)
		if !ok {
			continue
		}
		stats.Skills[sk] = clampInt(value+s.rng.Int(-10, 10), 0, 100)
	}
	return stats
}

func (s *Spawner) pickTraits() []string {
	n := s.rng.Int(2, 4)
	return entropy.Sample(s.rng, allTraits, n)
}

// Climate profile for the Red Rock high-desert territory: seasonal
// temperature and precipitation tables, extreme event definitions, and
// the per-condition effect tables consumed by the daily pass.
package weather

import (
	"github.com/talgya/redrock/internal/calendar"
)

// Precip is a precipitation kind. The set is open-ended on purpose:
// effect lookup for an unknown kind is a no-op, never a failure.
type Precip string

const (
	PrecipNone           Precip = "none"
	PrecipLightRain      Precip = "light_rain"
	PrecipHeavyRain      Precip = "heavy_rain"
	PrecipThunderstorm   Precip = "thunderstorm"
	PrecipFlashFlood     Precip = "flash_flood"
	PrecipLightSnow      Precip = "light_snow"
	PrecipHeavySnow      Precip = "heavy_snow"
	PrecipBlizzard       Precip = "blizzard"
	PrecipIceStorm       Precip = "ice_storm"
	PrecipEarlySnow      Precip = "early_snow"
	PrecipFog            Precip = "fog"
	PrecipHailstorm      Precip = "hailstorm"
	PrecipHail           Precip = "hail"
	PrecipDustStorm      Precip = "dust_storm"
	PrecipDrought        Precip = "drought"
	PrecipTorrentialRain Precip = "torrential_rain"
)

// EventType is an extreme weather event kind.
type EventType string

const (
	EventTornado       EventType = "tornado"
	EventWildfire      EventType = "wildfire"
	EventEarthquake    EventType = "earthquake"
	EventLocustSwarm   EventType = "locust_swarm"
	EventSevereDrought EventType = "severe_drought"
	EventKillingFrost  EventType = "killing_frost"
	EventFlashFlood    EventType = "flash_flood"
	EventHailstorm     EventType = "hailstorm"
	EventDustStorm     EventType = "dust_storm"
)

type tempRange struct {
	min, max, avg int
}

type precipOption struct {
	kind   Precip
	weight float64
}

type seasonClimate struct {
	temp         tempRange
	precipChance float64
	precipTypes  []precipOption
}

var climate = map[calendar.Season]seasonClimate{
	calendar.Winter: {
		temp:         tempRange{min: -15, max: 5, avg: -5},
		precipChance: 0.4,
		precipTypes: []precipOption{
			{PrecipLightSnow, 0.4}, {PrecipHeavySnow, 0.3}, {PrecipBlizzard, 0.2}, {PrecipIceStorm, 0.1},
		},
	},
	calendar.Spring: {
		temp:         tempRange{min: 0, max: 20, avg: 10},
		precipChance: 0.35,
		precipTypes: []precipOption{
			{PrecipLightRain, 0.4}, {PrecipHeavyRain, 0.3}, {PrecipThunderstorm, 0.2}, {PrecipFlashFlood, 0.1},
		},
	},
	calendar.Summer: {
		temp:         tempRange{min: 15, max: 40, avg: 27},
		precipChance: 0.15,
		precipTypes: []precipOption{
			{PrecipThunderstorm, 0.4}, {PrecipHailstorm, 0.2}, {PrecipDustStorm, 0.2}, {PrecipDrought, 0.2},
		},
	},
	calendar.Fall: {
		temp:         tempRange{min: -5, max: 15, avg: 5},
		precipChance: 0.25,
		precipTypes: []precipOption{
			{PrecipLightRain, 0.4}, {PrecipHeavyRain, 0.3}, {PrecipEarlySnow, 0.2}, {PrecipFog, 0.1},
		},
	},
}

const (
	windBaseMin = 5
	windBaseMax = 25
)

var windDirections = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// extremeEventDef is a rare daily-roll event gated by season.
type extremeEventDef struct {
	eventType EventType
	chance    float64
	seasons   []calendar.Season // empty = any season
}

var extremeEventDefs = []extremeEventDef{
	{EventTornado, 0.001, []calendar.Season{calendar.Spring, calendar.Summer}},
	{EventWildfire, 0.002, []calendar.Season{calendar.Summer, calendar.Fall}},
	{EventEarthquake, 0.0005, nil},
	{EventLocustSwarm, 0.001, []calendar.Season{calendar.Summer}},
	{EventSevereDrought, 0.005, []calendar.Season{calendar.Summer}},
	{EventKillingFrost, 0.01, []calendar.Season{calendar.Fall, calendar.Spring}},
}

// eventDuration rolls how many days an event lasts. Instantaneous
// events get 1.
type durationRange struct {
	min, max int
}

var eventDurations = map[EventType]durationRange{
	EventTornado:       {1, 1},
	EventWildfire:      {3, 14},
	EventEarthquake:    {1, 1},
	EventLocustSwarm:   {5, 12},
	EventSevereDrought: {21, 60},
	EventKillingFrost:  {1, 3},
	EventFlashFlood:    {1, 3},
	EventHailstorm:     {1, 1},
	EventDustStorm:     {1, 3},
}

// Pattern is a multi-day weather regime biasing daily generation.
type Pattern string

const (
	PatternNormal      Pattern = "normal"
	PatternHotSpell    Pattern = "hot_spell"
	PatternColdSnap    Pattern = "cold_snap"
	PatternRainyPeriod Pattern = "rainy_period"
	PatternDrySpell    Pattern = "dry_spell"
	PatternStormSeason Pattern = "storm_season"
)

type patternDef struct {
	duration     durationRange
	tempBonus    int     // additive temperature shift
	precipBonus  float64 // additive precipitation intensity shift
	stormChance  float64
}

var patternDefs = map[Pattern]patternDef{
	PatternNormal:      {duration: durationRange{10, 20}},
	PatternHotSpell:    {duration: durationRange{5, 15}, tempBonus: 8},
	PatternColdSnap:    {duration: durationRange{3, 12}, tempBonus: -12},
	PatternRainyPeriod: {duration: durationRange{4, 10}, precipBonus: 0.4},
	PatternDrySpell:    {duration: durationRange{7, 21}, precipBonus: -0.6},
	PatternStormSeason: {duration: durationRange{5, 14}, stormChance: 0.3},
}

// patternWeights returns the season-conditioned selection weights.
func patternWeights(season calendar.Season) ([]Pattern, []float64) {
	pick := func(s calendar.Season, table map[calendar.Season]float64, fallback float64) float64 {
		if w, ok := table[s]; ok {
			return w
		}
		return fallback
	}
	patterns := []Pattern{
		PatternNormal, PatternHotSpell, PatternColdSnap,
		PatternRainyPeriod, PatternDrySpell, PatternStormSeason,
	}
	weights := []float64{
		0.4,
		pick(season, map[calendar.Season]float64{calendar.Summer: 0.2, calendar.Spring: 0.1}, 0.05),
		pick(season, map[calendar.Season]float64{calendar.Winter: 0.2, calendar.Fall: 0.15}, 0.05),
		pick(season, map[calendar.Season]float64{calendar.Spring: 0.2, calendar.Fall: 0.15}, 0.1),
		pick(season, map[calendar.Season]float64{calendar.Summer: 0.25, calendar.Fall: 0.1}, 0.05),
		pick(season, map[calendar.Season]float64{calendar.Spring: 0.15, calendar.Summer: 0.1}, 0.05),
	}
	return patterns, weights
}

// EffectTable holds the per-category coefficients for one weather
// condition or extreme event. Zero values mean "no such effect".
type EffectTable struct {
	Health struct {
		FrostbiteChance    float64
		HypothermiaChance  float64
		HeatstrokeChance   float64
		DehydrationChance  float64
		RespiratoryChance  float64
		ColdInjuryChance   float64
		InjuryChance       float64
		DiseaseSpreadBoost bool
	}
	Resources struct {
		WoodConsumption float64 // per-capita multiplier
		WaterConsumption float64
		WaterGain        float64
		WaterFreezing    bool
		FoodSpoilage     float64 // fraction of stock
		FoodConsumption  float64 // per-capita multiplier
		WoodRot          float64 // fraction of stock
		EquipmentDamage  float64
	}
	Work struct {
		OutdoorPenalty         float64
		ConstructionImpossible bool
		AllOutdoorStopped      bool
		MiningDangerous        bool
	}
	Crops struct {
		DamageChance      float64
		DeathChance       float64
		DestructionChance float64
		MassiveFailure    float64
		GrowthBoost       float64
	}
	Livestock struct {
		DeathChance       float64
		InjuryChance      float64
		PanicStampede     float64
		ProductionPenalty float64
	}
	Buildings struct {
		FoundationDamage  float64
		RoofDamage        float64
		RoofCollapse      float64
		TotalDestruction  float64
		WoodenDestruction float64
	}
	Movement struct {
		TravelImpossible bool
		TravelSpeed      float64 // multiplier on travel speed when >0
		RoadCondition    string
		TravelDangerous  bool
	}
}

// Thresholds for the instantaneous temperature-driven tables.
const (
	extremeColdThreshold = -10
	extremeHeatThreshold = 35
)

// effectTables maps a condition key (precipitation kind, temperature
// band, or extreme event type) to its effect table. Missing keys are
// no-ops.
var effectTables = map[string]*EffectTable{
	"extreme_cold": func() *EffectTable {
		t := &EffectTable{}
		t.Health.FrostbiteChance = 0.1
		t.Health.HypothermiaChance = 0.05
		t.Resources.WoodConsumption = 3.0
		t.Resources.WaterFreezing = true
		t.Work.OutdoorPenalty = 0.7
		t.Work.ConstructionImpossible = true
		t.Crops.DamageChance = 0.8
		t.Crops.DeathChance = 0.3
		t.Livestock.DeathChance = 0.2
		t.Livestock.ProductionPenalty = 0.6
		return t
	}(),
	"extreme_heat": func() *EffectTable {
		t := &EffectTable{}
		t.Health.HeatstrokeChance = 0.08
		t.Health.DehydrationChance = 0.15
		t.Resources.WaterConsumption = 2.5
		t.Resources.FoodSpoilage = 0.3
		t.Work.OutdoorPenalty = 0.5
		t.Work.MiningDangerous = true
		t.Crops.DamageChance = 0.4
		t.Livestock.ProductionPenalty = 0.4
		return t
	}(),
	string(PrecipHeavyRain): func() *EffectTable {
		t := &EffectTable{}
		t.Movement.TravelSpeed = 0.3
		t.Movement.RoadCondition = "muddy"
		t.Health.DiseaseSpreadBoost = true
		t.Health.RespiratoryChance = 0.05
		t.Resources.WaterGain = 20
		t.Resources.WoodRot = 0.05
		t.Crops.GrowthBoost = 1.2
		t.Crops.DamageChance = 0.2
		return t
	}(),
	string(PrecipBlizzard): func() *EffectTable {
		t := &EffectTable{}
		t.Movement.TravelImpossible = true
		t.Resources.FoodConsumption = 2.0
		t.Resources.WoodConsumption = 4.0
		t.Health.ColdInjuryChance = 0.3
		t.Work.AllOutdoorStopped = true
		t.Buildings.RoofCollapse = 0.05
		return t
	}(),
	string(PrecipDrought): func() *EffectTable {
		t := &EffectTable{}
		t.Health.DehydrationChance = 0.2
		t.Health.DiseaseSpreadBoost = true
		t.Crops.MassiveFailure = 0.9
		t.Resources.WaterConsumption = 0.8
		return t
	}(),
	string(PrecipFlashFlood): func() *EffectTable {
		t := &EffectTable{}
		t.Buildings.FoundationDamage = 0.4
		t.Resources.FoodSpoilage = 0.3
		t.Resources.EquipmentDamage = 0.2
		t.Health.InjuryChance = 0.1
		t.Health.RespiratoryChance = 0.1
		t.Movement.TravelDangerous = true
		t.Movement.RoadCondition = "washed_out"
		return t
	}(),
	string(PrecipHailstorm): func() *EffectTable {
		t := &EffectTable{}
		t.Crops.DestructionChance = 0.7
		t.Buildings.RoofDamage = 0.3
		t.Health.InjuryChance = 0.15
		t.Livestock.InjuryChance = 0.25
		t.Livestock.PanicStampede = 0.1
		return t
	}(),
	string(PrecipDustStorm): func() *EffectTable {
		t := &EffectTable{}
		t.Health.RespiratoryChance = 0.2
		t.Movement.TravelDangerous = true
		t.Resources.EquipmentDamage = 0.1
		t.Crops.DamageChance = 0.3
		return t
	}(),
	string(EventTornado): func() *EffectTable {
		t := &EffectTable{}
		t.Buildings.TotalDestruction = 0.6
		t.Health.InjuryChance = 0.7
		t.Resources.EquipmentDamage = 0.8
		t.Movement.TravelImpossible = true
		return t
	}(),
	string(EventWildfire): func() *EffectTable {
		t := &EffectTable{}
		t.Buildings.WoodenDestruction = 0.9
		t.Health.RespiratoryChance = 0.6
		t.Health.InjuryChance = 0.4
		t.Resources.FoodSpoilage = 0.2
		t.Work.AllOutdoorStopped = true
		return t
	}(),
	string(EventEarthquake): func() *EffectTable {
		t := &EffectTable{}
		t.Buildings.FoundationDamage = 0.3
		t.Buildings.RoofCollapse = 0.1
		t.Health.InjuryChance = 0.2
		return t
	}(),
	string(EventLocustSwarm): func() *EffectTable {
		t := &EffectTable{}
		t.Crops.DestructionChance = 0.8
		return t
	}(),
	string(EventKillingFrost): func() *EffectTable {
		t := &EffectTable{}
		t.Crops.DeathChance = 0.6
		t.Livestock.ProductionPenalty = 0.3
		return t
	}(),
}

// tableForEvent maps an extreme event to its effect table. Severe
// drought shares the drought table.
func tableForEvent(eventType EventType) *EffectTable {
	if eventType == EventSevereDrought {
		return effectTables[string(PrecipDrought)]
	}
	if eventType == EventFlashFlood {
		return effectTables[string(PrecipFlashFlood)]
	}
	if eventType == EventHailstorm {
		return effectTables[string(PrecipHailstorm)]
	}
	if eventType == EventDustStorm {
		return effectTables[string(PrecipDustStorm)]
	}
	return effectTables[string(eventType)]
}

// seasonalTrend is a small day-of-year sinusoid layered on the base
// temperature, amplitude 1-4 degrees depending on season.
func seasonalAmplitude(season calendar.Season) float64 {
	switch season {
	case calendar.Winter:
		return -3
	case calendar.Spring:
		return 2
	case calendar.Summer:
		return 4
	case calendar.Fall:
		return -1
	default:
		return 0
	}
}

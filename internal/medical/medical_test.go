package medical

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
)

func testWorld(t *testing.T, seed int64, pop int) (*state.Game, *Engine) {
	t.Helper()
	start := time.Date(1849, time.March, 15, 0, 0, 0, 0, time.UTC)
	gs := state.NewGame("Red Rock Territory", start)
	for i := 0; i < pop; i++ {
		c := &settlers.Character{
			ID:              settlers.CharacterID(i + 1),
			Name:            "Settler",
			Age:             30,
			IsAlive:         true,
			CurrentActivity: "farming",
		}
		c.Stats.Health = 90
		c.Stats.Mood = 60
		c.Stats.Energy = 80
		gs.AddCharacter(c)
	}
	return gs, NewEngine(gs, entropy.NewSource(seed))
}

func TestAddInjuryDamageScalesWithBodyPart(t *testing.T) {
	gs, eng := testWorld(t, 1, 2)
	head := gs.Alive()[0]
	leg := gs.Alive()[1]

	inj := eng.AddInjury(head, settlers.InjuryFracture, settlers.PartHead, 1.0, "a fall")
	require.NotNil(t, inj)
	eng.AddInjury(leg, settlers.InjuryFracture, settlers.PartLeftLeg, 1.0, "a fall")

	// Head crit factor 0.8 vs leg 0.2 at equal severity.
	assert.Equal(t, 90.0-0.8*20, head.Stats.Health)
	assert.Equal(t, 90.0-0.2*20, leg.Stats.Health)
	assert.NotEmpty(t, head.MedicalHistory)
}

func TestAddInjuryToDeadIsNil(t *testing.T) {
	gs, eng := testWorld(t, 1, 1)
	c := gs.Alive()[0]
	gs.RecordDeath(c, "test")
	assert.Nil(t, eng.AddInjury(c, settlers.InjuryCut, settlers.PartTorso, 0.5, "x"))
}

func TestTreatedInjuryHealsWithinTwentyDays(t *testing.T) {
	gs, eng := testWorld(t, 2, 1)
	c := gs.Alive()[0]

	inj := eng.AddInjury(c, settlers.InjuryBruise, settlers.PartTorso, 0.5, "a kick from a mule")
	require.NotNil(t, inj)
	inj.IsTreated = true
	inj.IsInfected = false
	inj.InfectionSeverity = 0

	days := 0
	for !inj.Resolved && days < 25 {
		eng.progressInjuries(c)
		days++
	}
	assert.True(t, inj.Resolved)
	assert.LessOrEqual(t, days, 20, "treated wound heals at 0.05/day")
}

func TestTreatedInfectionRecedes(t *testing.T) {
	gs, eng := testWorld(t, 3, 1)
	c := gs.Alive()[0]
	inj := eng.AddInjury(c, settlers.InjuryCut, settlers.PartLeftArm, 0.8, "barbed wire")
	require.NotNil(t, inj)
	inj.IsInfected = true
	inj.InfectionSeverity = 0.25
	inj.IsTreated = true
	inj.Bleeding = 0

	for i := 0; i < 5 && inj.IsInfected; i++ {
		eng.progressInfection(c, inj)
	}
	assert.False(t, inj.IsInfected)
	assert.Zero(t, inj.InfectionSeverity)
}

func TestDiseaseIncubatesThenSymptoms(t *testing.T) {
	gs, eng := testWorld(t, 4, 1)
	c := gs.Alive()[0]
	d := eng.AddDisease(c, settlers.DiseaseInfluenza, "a sick traveler")
	require.NotNil(t, d)
	assert.False(t, d.Symptomatic)
	assert.Equal(t, 2, d.IncubationDaysLeft)

	healthBefore := c.Stats.Health
	eng.progressDiseases(c)
	eng.progressDiseases(c)
	assert.True(t, d.Symptomatic)
	assert.Equal(t, healthBefore, c.Stats.Health, "no damage while incubating")

	eng.progressDiseases(c)
	assert.Less(t, c.Stats.Health, healthBefore)
}

func TestRecoveryGrantsImmunity(t *testing.T) {
	gs, eng := testWorld(t, 5, 1)
	c := gs.Alive()[0]
	d := eng.AddDisease(c, settlers.DiseaseInfluenza, "test")
	require.NotNil(t, d)
	d.Symptomatic = true
	d.IncubationDaysLeft = 0
	d.DurationDaysLeft = 1
	d.Mortality = 0 // force recovery

	eng.progressDiseases(c)
	assert.True(t, d.Resolved)
	assert.True(t, c.IsImmune(settlers.DiseaseInfluenza))

	assert.Nil(t, eng.AddDisease(c, settlers.DiseaseInfluenza, "again"),
		"immune settlers cannot be reinfected")
}

func TestCertainDeathAtEndOfCourse(t *testing.T) {
	gs, eng := testWorld(t, 6, 1)
	c := gs.Alive()[0]
	d := eng.AddDisease(c, settlers.DiseaseCholera, "bad water")
	require.NotNil(t, d)
	d.Symptomatic = true
	d.DurationDaysLeft = 1
	d.Mortality = 1.0
	d.Severity = 1.0

	eng.progressDiseases(c)
	assert.False(t, c.IsAlive)
	assert.Equal(t, "cholera", c.CauseOfDeath)
}

func TestDuplicateDiseaseBlocked(t *testing.T) {
	gs, eng := testWorld(t, 7, 1)
	c := gs.Alive()[0]
	require.NotNil(t, eng.AddDisease(c, settlers.DiseaseTyphoid, "well water"))
	assert.Nil(t, eng.AddDisease(c, settlers.DiseaseTyphoid, "well water"))
	assert.Len(t, c.Diseases, 1)
}

func TestOutbreakDeclaredAtThreshold(t *testing.T) {
	gs, eng := testWorld(t, 8, 10)
	// Threshold for 10 settlers is max(3, 1) = 3.
	require.Equal(t, 3, eng.outbreakThreshold())

	for _, c := range gs.Alive()[:3] {
		d := eng.AddDisease(c, settlers.DiseaseDysentery, "camp conditions")
		require.NotNil(t, d)
		d.Symptomatic = true
	}
	moraleBefore := gs.Morale
	eng.updateOutbreaks()

	ob := eng.activeOutbreak(settlers.DiseaseDysentery)
	require.NotNil(t, ob)
	assert.Equal(t, 3, ob.Cases)
	assert.Equal(t, moraleBefore-25, gs.Morale)
	assert.False(t, ob.Quarantined, "no doctor, no quarantine")

	// Second pass must not declare a duplicate.
	eng.updateOutbreaks()
	assert.Len(t, eng.Outbreaks(), 1)
}

func TestQuarantineNeedsDoctor(t *testing.T) {
	gs, eng := testWorld(t, 9, 10)
	doc := gs.Alive()[0]
	doc.Background = "Doctor"
	doc.Stats.Health = 80

	for _, c := range gs.Alive()[1:4] {
		d := eng.AddDisease(c, settlers.DiseaseCholera, "bad water")
		require.NotNil(t, d)
		d.Symptomatic = true
	}
	eng.updateOutbreaks()

	ob := eng.activeOutbreak(settlers.DiseaseCholera)
	require.NotNil(t, ob)
	assert.True(t, ob.Quarantined)
	assert.True(t, eng.isQuarantined(settlers.DiseaseCholera))
}

func TestOutbreakEndsBelowPeak(t *testing.T) {
	gs, eng := testWorld(t, 10, 12)
	sick := gs.Alive()[:4]
	for _, c := range sick {
		d := eng.AddDisease(c, settlers.DiseaseInfluenza, "winter air")
		require.NotNil(t, d)
		d.Symptomatic = true
	}
	eng.updateOutbreaks()
	ob := eng.activeOutbreak(settlers.DiseaseInfluenza)
	require.NotNil(t, ob)

	// Everyone recovers; cases fall to zero.
	for _, c := range sick {
		for _, d := range c.Diseases {
			d.Resolved = true
		}
		c.CompactConditions()
	}
	eng.updateOutbreaks()
	assert.False(t, ob.Active)
	assert.Equal(t, gs.Day, ob.EndDay)
}

func TestTreatChargesMoneyAndMedicine(t *testing.T) {
	gs, eng := testWorld(t, 11, 2)
	c := gs.Alive()[0]
	inj := eng.AddInjury(c, settlers.InjuryGunshot, settlers.PartLeftLeg, 1.0, "a dispute over cards")
	require.NotNil(t, inj)

	err := eng.Treat(c.ID, inj.ID, TierDoctor)
	assert.ErrorIs(t, err, ErrTierUnavailable, "no doctor in camp")

	moneyBefore := gs.Resources.Amount(economy.Money)
	medicineBefore := gs.Resources.Amount(economy.Medicine)
	painBefore := inj.Pain
	require.NoError(t, eng.Treat(c.ID, inj.ID, TierFolkRemedy))
	assert.True(t, inj.IsTreated)
	assert.Equal(t, moneyBefore-1, gs.Resources.Amount(economy.Money))
	assert.Equal(t, medicineBefore, gs.Resources.Amount(economy.Medicine),
		"folk remedies need no medicine")
	assert.Less(t, inj.Pain, painBefore)

	gs.Resources.Set(economy.Medicine, 0)
	err = eng.Treat(c.ID, inj.ID, TierBasicCare)
	assert.ErrorIs(t, err, ErrNoMedicine)
	assert.Equal(t, moneyBefore-1, gs.Resources.Amount(economy.Money),
		"a failed treat charges nothing")

	gs.Resources.Set(economy.Money, 0)
	err = eng.Treat(c.ID, inj.ID, TierFolkRemedy)
	assert.ErrorIs(t, err, ErrTierUnavailable, "no money, no care")

	gs.Resources.Set(economy.Money, 50)
	gs.Resources.Set(economy.Medicine, 10)
	err = eng.Treat(c.ID, "no-such-condition", TierBasicCare)
	assert.ErrorIs(t, err, ErrUnknownCondition)
	assert.Equal(t, 50.0, gs.Resources.Amount(economy.Money), "unmatched condition refunds the fee")
	assert.Equal(t, 10.0, gs.Resources.Amount(economy.Medicine))

	err = eng.Treat(999, inj.ID, TierFolkRemedy)
	assert.ErrorIs(t, err, ErrUnknownCharacter)
}

func TestTreatmentShortensDiseaseCourse(t *testing.T) {
	gs, eng := testWorld(t, 27, 1)
	c := gs.Alive()[0]
	d := eng.AddDisease(c, settlers.DiseaseTyphoid, "well water")
	require.NotNil(t, d)
	d.Symptomatic = true
	d.DurationDaysLeft = 21
	d.Severity = 1.0

	require.NoError(t, eng.Treat(c.ID, d.ID, TierBasicCare))
	assert.True(t, d.IsTreated)
	assert.Equal(t, int(math.Floor(21*(1-0.6*0.3))), d.DurationDaysLeft)
	assert.InDelta(t, 1-0.6*0.2, d.Severity, 1e-9)

	// Floors hold under repeated care.
	for i := 0; i < 50; i++ {
		gs.Resources.Set(economy.Money, 100)
		gs.Resources.Set(economy.Medicine, 10)
		require.NoError(t, eng.Treat(c.ID, d.ID, TierBasicCare))
	}
	assert.GreaterOrEqual(t, d.DurationDaysLeft, 1)
	assert.GreaterOrEqual(t, d.Severity, 0.1)
}

func TestNurseOnDuty(t *testing.T) {
	gs, eng := testWorld(t, 28, 2)
	assert.Nil(t, eng.nurseOnDuty())

	teacher := gs.Alive()[0]
	teacher.Background = "Teacher"
	teacher.Stats.Health = 40
	require.NotNil(t, eng.nurseOnDuty())

	teacher.Stats.Health = 25
	assert.Nil(t, eng.nurseOnDuty(), "a sick teacher cannot staff the ward")
}

func TestHospitalCareNeedsFullStaffAndWard(t *testing.T) {
	gs, eng := testWorld(t, 29, 2)
	c := gs.Alive()[1]
	inj := eng.AddInjury(c, settlers.InjuryFracture, settlers.PartLeftLeg, 1.0, "thrown from a horse")
	require.NotNil(t, inj)
	gs.Resources.Set(economy.Money, 100)

	err := eng.Treat(c.ID, inj.ID, TierHospitalCare)
	assert.ErrorIs(t, err, ErrTierUnavailable)

	doc := gs.Alive()[0]
	doc.Background = "Doctor"
	doc.Stats.Health = 80
	err = eng.Treat(c.ID, inj.ID, TierHospitalCare)
	assert.ErrorIs(t, err, ErrTierUnavailable, "no ward yet")

	gs.Buildings = append(gs.Buildings, &state.Building{
		Name: "Doc's Office", Type: "medical", Capacity: 10, Condition: 80,
	})
	require.NoError(t, eng.Treat(c.ID, inj.ID, TierHospitalCare))
	assert.Equal(t, 70.0, gs.Resources.Amount(economy.Money))
}

func TestBedrestStatus(t *testing.T) {
	gs, eng := testWorld(t, 12, 1)
	c := gs.Alive()[0]
	inj := eng.AddInjury(c, settlers.InjuryCrush, settlers.PartHead, 1.2, "a collapsing beam")
	require.NotNil(t, inj)
	inj.Pain = 0.9
	c.Stats.Energy = 70

	eng.updateStatus(c)
	assert.True(t, c.MedicalStatus.RequiresBedrest)
	assert.Equal(t, "bedridden", c.CurrentActivity)
	assert.LessOrEqual(t, c.Stats.Energy, 20.0)
	assert.True(t, c.MedicalStatus.NeedsMedicalAttention)
	assert.Less(t, c.MedicalStatus.WorkEfficiency, 0.5)
}

func TestAutoCareTreatsWorstFirst(t *testing.T) {
	gs, eng := testWorld(t, 13, 2)
	gs.Resources.Set(economy.Money, 1) // one folk remedy's fee

	mild := gs.Alive()[0]
	grave := gs.Alive()[1]
	mildInj := eng.AddInjury(mild, settlers.InjuryBruise, settlers.PartLeftArm, 0.3, "a stumble")
	graveInj := eng.AddInjury(grave, settlers.InjuryGunshot, settlers.PartTorso, 1.4, "an ambush")
	require.NotNil(t, mildInj)
	require.NotNil(t, graveInj)
	mildInj.IsInfected = false
	graveInj.IsInfected = false

	eng.autoCare()
	assert.True(t, graveInj.IsTreated, "worst patient first")
	assert.False(t, mildInj.IsTreated, "money ran out")
}

func TestGangrenousPartPrefersInfectedLimb(t *testing.T) {
	gs, eng := testWorld(t, 14, 1)
	c := gs.Alive()[0]
	inj := eng.AddInjury(c, settlers.InjuryPuncture, settlers.PartRightLeg, 1.0, "a nail")
	require.NotNil(t, inj)
	inj.IsInfected = true
	inj.InfectionSeverity = 0.9

	assert.Equal(t, settlers.PartRightLeg, eng.gangrenousPart(c))
}

func TestProcessDailySurvivesEmptyRoster(t *testing.T) {
	gs, eng := testWorld(t, 15, 1)
	gs.RecordDeath(gs.Alive()[0], "test")
	assert.NotPanics(t, func() {
		for i := 0; i < 10; i++ {
			eng.ProcessDaily()
			gs.AdvanceDate()
		}
	})
}

func TestTransmissionOneCasePerCarrierPerDay(t *testing.T) {
	gs, eng := testWorld(t, 30, 40)
	carrier := gs.Alive()[0]
	d := eng.AddDisease(carrier, settlers.DiseaseInfluenza, "a passing wagon")
	require.NotNil(t, d)
	d.Symptomatic = true

	for i := 0; i < 500; i++ {
		for _, c := range gs.Alive()[1:] {
			c.Diseases = nil
		}
		eng.spreadDiseases()
		infected := 0
		for _, c := range gs.Alive()[1:] {
			infected += len(c.Diseases)
		}
		require.LessOrEqual(t, infected, 1, "one roll, one target per carrier")
	}
}

func TestIncubatingCasesDoNotDeclareOutbreak(t *testing.T) {
	gs, eng := testWorld(t, 31, 10)
	for _, c := range gs.Alive()[:3] {
		require.NotNil(t, eng.AddDisease(c, settlers.DiseaseTyphoid, "well water"))
	}
	eng.updateOutbreaks()
	assert.Nil(t, eng.activeOutbreak(settlers.DiseaseTyphoid),
		"nobody has shown symptoms yet")

	for _, c := range gs.Alive()[:3] {
		c.Diseases[0].Symptomatic = true
	}
	eng.updateOutbreaks()
	assert.NotNil(t, eng.activeOutbreak(settlers.DiseaseTyphoid))
}

func TestCholeraDrainsWater(t *testing.T) {
	gs, eng := testWorld(t, 32, 1)
	c := gs.Alive()[0]
	d := eng.AddDisease(c, settlers.DiseaseCholera, "bad water")
	require.NotNil(t, d)
	d.Symptomatic = true
	d.DurationDaysLeft = 1000
	d.Mortality = 0

	waterBefore := gs.Resources.Amount(economy.Water)
	for i := 0; i < 60; i++ {
		c.Stats.Health = 90
		eng.progressDiseases(c)
	}
	assert.Less(t, gs.Resources.Amount(economy.Water), waterBefore)
}

func TestWastingDiseasesDrainEnergy(t *testing.T) {
	gs, eng := testWorld(t, 33, 3)
	tb, scurvy, lockjaw := gs.Alive()[0], gs.Alive()[1], gs.Alive()[2]
	for _, pair := range []struct {
		c    *settlers.Character
		name settlers.DiseaseName
	}{{tb, settlers.DiseaseTuberculosis}, {scurvy, settlers.DiseaseScurvy}, {lockjaw, settlers.DiseaseTetanus}} {
		d := eng.AddDisease(pair.c, pair.name, "camp conditions")
		require.NotNil(t, d)
		d.Symptomatic = true
		d.DurationDaysLeft = 100
		pair.c.Stats.Energy = 50
	}

	eng.progressDiseases(tb)
	eng.progressDiseases(scurvy)
	eng.progressDiseases(lockjaw)

	assert.Equal(t, 40.0, tb.Stats.Energy)
	assert.Equal(t, 45.0, scurvy.Stats.Energy)
	assert.Zero(t, lockjaw.Stats.Energy)
	assert.Equal(t, "bedridden", lockjaw.CurrentActivity)
}

func TestGangreneInVitalAreaKills(t *testing.T) {
	gs, eng := testWorld(t, 34, 1)
	c := gs.Alive()[0]
	inj := eng.AddInjury(c, settlers.InjuryGunshot, settlers.PartTorso, 1.0, "an ambush")
	require.NotNil(t, inj)
	inj.IsInfected = true
	inj.InfectionSeverity = 0.9

	d := eng.AddDisease(c, settlers.DiseaseGangrene, "an infected gunshot")
	require.NotNil(t, d)
	d.Symptomatic = true
	d.DurationDaysLeft = 2

	for i := 0; i < 200 && c.IsAlive; i++ {
		eng.considerAmputation(c, d)
	}
	assert.False(t, c.IsAlive, "no amputating a torso")
	assert.Contains(t, c.CauseOfDeath, "gangrene")
	assert.Empty(t, c.Amputations)
}

func TestSepsisCanTurnGangrenous(t *testing.T) {
	gs, eng := testWorld(t, 35, 1)
	got := false
	for i := 0; i < 200 && !got; i++ {
		c := &settlers.Character{
			ID:      settlers.CharacterID(1000 + i),
			Name:    "Settler",
			Age:     30,
			IsAlive: true,
		}
		c.Stats.Health = 90
		gs.AddCharacter(c)

		inj := eng.AddInjury(c, settlers.InjuryCut, settlers.PartLeftArm, 1.0, "barbed wire")
		require.NotNil(t, inj)
		inj.IsInfected = true
		inj.InfectionSeverity = 0.6
		eng.progressInfection(c, inj)
		got = c.HasDisease(settlers.DiseaseGangrene)
	}
	assert.True(t, got, "gangrene can set in once sepsis passes 0.5")
}

func TestSanitationBounds(t *testing.T) {
	gs, eng := testWorld(t, 16, 5)
	s := eng.sanitation()
	assert.GreaterOrEqual(t, s, 0.2)
	assert.LessOrEqual(t, s, 1.0)

	gs.Resources.Set(economy.Water, 0)
	gs.Buildings = nil
	assert.GreaterOrEqual(t, eng.sanitation(), 0.2)
}

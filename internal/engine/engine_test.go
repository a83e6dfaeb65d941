package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/data"
	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
)

func testEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	return New(Config{Seed: seed})
}

func TestNewSessionDefaults(t *testing.T) {
	e := testEngine(t, 42)
	g := e.Game()

	assert.Equal(t, "Red Rock Territory", g.Settlement)
	assert.Equal(t, 8, g.Population.Total)
	assert.Equal(t, 1, g.Day)
	assert.Equal(t, calendar.Spring, g.Season)
	assert.Equal(t, 100.0, g.Resources.Amount(economy.Food))
	assert.NotEmpty(t, g.Chronicle, "arrival is chronicled")
}

func TestFullYearRun(t *testing.T) {
	e := testEngine(t, 1849)
	require.NoError(t, e.StepDays(400))

	g := e.Game()
	assert.True(t, e.Finished())
	if g.Population.Total > 0 {
		assert.Equal(t, MaxDays+1, g.Day, "cap holds at one year")
	}

	score := e.SurvivalScore()
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)

	for name, amount := range g.Resources.Map() {
		assert.GreaterOrEqual(t, amount, 0.0, "resource %s must not go negative", name)
	}
	assert.NotEmpty(t, g.Chronicle)
	assert.GreaterOrEqual(t, g.Morale, 0.0)
	assert.LessOrEqual(t, g.Morale, 100.0)
}

func TestDeterministicRuns(t *testing.T) {
	a := testEngine(t, 7)
	b := testEngine(t, 7)
	require.NoError(t, a.StepDays(60))
	require.NoError(t, b.StepDays(60))

	assert.Equal(t, a.Game().Population.Total, b.Game().Population.Total)
	assert.Equal(t, a.Game().Morale, b.Game().Morale)
	assert.Equal(t, a.Game().Resources.Map(), b.Game().Resources.Map())
	assert.Equal(t, len(a.Game().Chronicle), len(b.Game().Chronicle))
}

func TestBulkStepRefusedWhileRunning(t *testing.T) {
	e := testEngine(t, 3)
	e.SetSpeed(time.Hour) // long enough that no step fires during the test
	require.True(t, e.Start())
	defer e.Stop()

	assert.ErrorIs(t, e.StepDays(5), ErrRunning)
	assert.ErrorIs(t, e.StepToSeason(calendar.Winter), ErrRunning)
	assert.ErrorIs(t, e.StepToDay(30), ErrRunning)
	assert.True(t, e.Running())

	e.Stop()
	assert.False(t, e.Running())
	assert.NoError(t, e.StepDays(1))
}

func TestStartTwice(t *testing.T) {
	e := testEngine(t, 4)
	e.SetSpeed(time.Hour)
	require.True(t, e.Start())
	defer e.Stop()
	assert.False(t, e.Start(), "second start is refused")
}

func TestStepToSeason(t *testing.T) {
	e := testEngine(t, 5)
	require.NoError(t, e.StepToSeason(calendar.Summer))
	g := e.Game()
	if g.Population.Total > 0 {
		assert.Equal(t, calendar.Summer, g.Season)
	}
}

func TestStepToDay(t *testing.T) {
	e := testEngine(t, 6)
	require.NoError(t, e.StepToDay(30))
	if e.Game().Population.Total > 0 {
		assert.Equal(t, 30, e.Game().Day)
	}
}

func TestObserverCalledEachDay(t *testing.T) {
	e := testEngine(t, 8)
	calls := 0
	e.Subscribe(func(*state.Game) { calls++ })
	require.NoError(t, e.StepDays(10))
	assert.Equal(t, 10, calls)
}

func TestMedicalPhaseFollowsDailyUpkeep(t *testing.T) {
	e := testEngine(t, 21)
	c := e.Game().Alive()[0]
	d := e.medical.AddDisease(c, settlers.DiseaseTetanus, "a rusty nail")
	require.NotNil(t, d)
	d.Symptomatic = true
	d.DurationDaysLeft = 30
	d.Mortality = 0

	e.Step()
	if c.IsAlive {
		// Upkeep restores some energy every morning; lockjaw, applied
		// in the later medical phase, takes the whole day back.
		assert.Zero(t, c.Stats.Energy)
		assert.Equal(t, "bedridden", c.CurrentActivity)
	}
}

func TestResilientTraitLiftsMood(t *testing.T) {
	e := testEngine(t, 22)
	a := e.Game().Alive()[0]
	b := e.Game().Alive()[1]
	a.Traits = []string{"resilient"}
	b.Traits = nil
	for _, c := range []*settlers.Character{a, b} {
		c.Stats.Health = 90
		c.Stats.Mood = 50
		c.Stats.Energy = 80
	}

	e.updateCharacters()
	assert.Equal(t, b.Stats.Mood+1, a.Stats.Mood)
}

func TestUnknownEffectKeysSkipped(t *testing.T) {
	e := testEngine(t, 9)
	g := e.Game()
	before := g.Resources.Map()

	ev := &state.Event{
		ID:           "x",
		Type:         "economic",
		Participants: g.Alive()[:1],
		Effects: []state.EventEffect{
			{Type: "resource", Resource: "unobtainium", Modifier: 50},
			{Type: "skill", Skill: "alchemy", Modifier: 10},
			{Type: "miracle", Modifier: 1},
		},
	}
	assert.NotPanics(t, func() {
		for _, eff := range ev.Effects {
			e.applyEffect(ev, eff)
		}
	})
	assert.Equal(t, before, g.Resources.Map(), "unknown keys change nothing")
}

func TestInstantiateHonorsRequirements(t *testing.T) {
	e := testEngine(t, 10)
	tmpl := data.EventTemplate{
		Template:     "{name} threw a feast",
		Participants: 1,
		Requirements: map[string]float64{"food": 10000},
	}
	assert.Nil(t, e.instantiate("social", tmpl), "requirements gate the event")

	tmpl.Requirements = map[string]float64{"food": 1}
	ev := e.instantiate("social", tmpl)
	require.NotNil(t, ev)
	assert.NotContains(t, ev.Description, "{name}")
	require.Len(t, ev.Participants, 1)
	assert.Contains(t, ev.Description, ev.Participants[0].Name)
}

func TestInstantiateUnknownRequirementSkipsEvent(t *testing.T) {
	e := testEngine(t, 11)
	tmpl := data.EventTemplate{
		Template:     "{name} found something strange",
		Participants: 1,
		Requirements: map[string]float64{"plutonium": 1},
	}
	assert.Nil(t, e.instantiate("environmental", tmpl))
}

func TestSummarize(t *testing.T) {
	e := testEngine(t, 12)
	require.NoError(t, e.StepDays(5))
	s := e.Summarize()

	assert.Equal(t, "Red Rock Territory", s.Settlement)
	assert.Equal(t, 6, s.Day)
	assert.NotEmpty(t, s.Date)
	assert.NotEmpty(t, s.Season)
	assert.False(t, s.Running)
	assert.NotEmpty(t, s.Resources)
	assert.NotEmpty(t, s.Prices)
	assert.Greater(t, s.SurvivalScore, 0)
}

func TestExportChronicle(t *testing.T) {
	e := testEngine(t, 13)
	require.NoError(t, e.StepDays(20))
	export := e.ExportChronicle()

	assert.Equal(t, int64(13), export.Seed)
	assert.NotEmpty(t, export.Chronicle)
	assert.Equal(t, e.Game().Day, export.Summary.Day)
}

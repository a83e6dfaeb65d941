package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/settlers"
)

func newTestGame() *Game {
	start := time.Date(1849, time.March, 15, 0, 0, 0, 0, time.UTC)
	return NewGame("Red Rock Territory", start)
}

func addSettler(g *Game, id settlers.CharacterID, age int, culture string) *settlers.Character {
	c := &settlers.Character{
		ID:      id,
		Name:    "Settler",
		Age:     age,
		Culture: culture,
		IsAlive: true,
	}
	c.Stats.Health = 80
	g.AddCharacter(c)
	return c
}

func TestPopulationCounts(t *testing.T) {
	g := newTestGame()
	addSettler(g, 1, 30, "irish")
	addSettler(g, 2, 12, "irish")
	addSettler(g, 3, 70, "german")

	assert.Equal(t, 3, g.Population.Total)
	assert.Equal(t, 1, g.Population.Children)
	assert.Equal(t, 1, g.Population.Adults)
	assert.Equal(t, 1, g.Population.Elderly)
	assert.Equal(t, 2, g.Population.CulturalGroups["irish"])
}

func TestRecordDeathOnce(t *testing.T) {
	g := newTestGame()
	c := addSettler(g, 1, 30, "irish")
	addSettler(g, 2, 40, "irish")
	moraleBefore := g.Morale

	g.RecordDeath(c, "cholera")
	require.False(t, c.IsAlive)
	assert.Equal(t, 1, g.Population.Total)
	assert.Equal(t, 1, g.Population.CulturalGroups["irish"])
	assert.Equal(t, moraleBefore-15, g.Morale)
	assert.Equal(t, "cholera", c.CauseOfDeath)
	require.NotNil(t, c.DateOfDeath)

	// Double invocation must not decrement again.
	g.RecordDeath(c, "cholera")
	assert.Equal(t, 1, g.Population.Total)
	assert.Equal(t, moraleBefore-15, g.Morale)

	require.Len(t, g.Chronicle, 1)
	assert.Equal(t, "death", g.Chronicle[0].Type)
	assert.Equal(t, 8, g.Chronicle[0].Severity)
}

func TestExtinctCultureDropsFromCounts(t *testing.T) {
	g := newTestGame()
	c := addSettler(g, 1, 30, "basque")
	addSettler(g, 2, 40, "irish")

	g.RecordDeath(c, "typhoid")
	_, ok := g.Population.CulturalGroups["basque"]
	assert.False(t, ok, "a culture with no living members is removed")
	assert.Equal(t, 1, g.Population.CulturalGroups["irish"])
}

func TestMoraleClamped(t *testing.T) {
	g := newTestGame()
	g.AdjustMorale(-500, "catastrophe")
	assert.Zero(t, g.Morale)
	g.AdjustMorale(500, "miracle")
	assert.Equal(t, 100.0, g.Morale)
}

func TestAdvanceDate(t *testing.T) {
	g := newTestGame()
	assert.Equal(t, calendar.Spring, g.Season)

	for i := 0; i < 100; i++ {
		g.AdvanceDate()
	}
	assert.Equal(t, 101, g.Day)
	assert.Equal(t, calendar.Summer, g.Season)
}

func TestBuildingOfType(t *testing.T) {
	g := newTestGame()
	require.Nil(t, g.BuildingOfType("medical", 50))

	b := &Building{Name: "Doc's Office", Type: "medical", Condition: 75}
	g.Buildings = append(g.Buildings, b)
	assert.Equal(t, b, g.BuildingOfType("medical", 50))
	assert.Nil(t, g.BuildingOfType("medical", 80), "condition gate must hold")

	g.RemoveBuilding(b)
	assert.Nil(t, g.BuildingOfType("medical", 0))
}

func TestArchiveEventsBounded(t *testing.T) {
	g := newTestGame()
	for i := 0; i < 1200; i++ {
		g.QueueEvent(&Event{ID: "e", Type: "social"})
		g.ArchiveEvents()
	}
	assert.Len(t, g.EventHistory, 1000)
	assert.Empty(t, g.EventQueue)
}

func TestAverageHealth(t *testing.T) {
	g := newTestGame()
	assert.Zero(t, g.AverageHealth())

	a := addSettler(g, 1, 30, "irish")
	b := addSettler(g, 2, 30, "irish")
	a.Stats.Health = 100
	b.Stats.Health = 50
	assert.Equal(t, 75.0, g.AverageHealth())

	g.RecordDeath(b, "test")
	assert.Equal(t, 100.0, g.AverageHealth())
}

package weather

import (
	"fmt"

	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
)

// Narrative color layered on the mechanical weather: small chronicle
// entries about how the settlers live with the sky they are given.

var coldLines = []string{
	"%s stuffed rags in the cabin cracks against the biting wind",
	"%s kept the stove burning through the night",
	"frost painted the windows; %s scraped ice from the water barrel",
}

var heatLines = []string{
	"%s worked before dawn to beat the worst of the heat",
	"the dogs lay flat in whatever shade they could find while %s hauled water",
	"%s soaked a kerchief and wore it under a hat brim all day",
}

var rainLines = []string{
	"%s stood in the doorway watching the rain come down",
	"rain drummed on the roofs; %s set out every barrel and bucket",
	"%s tracked mud through the hall and caught an earful for it",
}

var windLines = []string{
	"the wind worried at the shutters until %s nailed them fast",
	"%s chased a hat clear across the square",
}

var preparationLines = []string{
	"%s spent the day laying in firewood against what the sky promised",
	"%s drove the stock into the low pasture before the weather broke",
	"the settlers checked ropes and battened what would batten; %s directed the work",
}

var aftermathLines = []string{
	"%s walked the fence line counting what the storm had taken",
	"the settlement spent the day clearing debris; %s organized the repairs",
	"%s patched the roof where the weather had found its way in",
}

var folkloreLines = []string{
	"%s swore the ring around the moon meant weather coming, and nobody argued",
	"the old-timers read the ants and the geese; %s wrote their verdict in the ledger",
}

// rollNarrativeEvents emits small chronicle entries keyed to the day's
// conditions. Mechanical effects are mild; the point is the record.
func (e *Engine) rollNarrativeEvents() {
	alive := e.gs.Alive()
	if len(alive) == 0 {
		return
	}
	pick := func() *settlers.Character { return entropy.Choice(e.rng, alive) }
	c := e.current

	if c.Temperature < -5 && e.rng.Chance(0.1) {
		who := pick()
		who.AdjustMood(-3)
		e.chronicleLine(coldLines, who, 4)
	}
	if c.Temperature > 30 && e.rng.Chance(0.1) {
		who := pick()
		who.AdjustEnergy(-5)
		e.chronicleLine(heatLines, who, 3)
	}
	if c.Precipitation != PrecipNone && e.rng.Chance(0.15) {
		who := pick()
		if c.Precipitation == PrecipLightRain {
			who.AdjustMood(2)
		} else {
			who.AdjustMood(-1)
		}
		e.chronicleLine(rainLines, who, 2)
	}
	if c.WindSpeed > 25 && e.rng.Chance(0.08) {
		who := pick()
		who.AdjustMood(-2)
		e.chronicleLine(windLines, who, 4)
	}

	// A bad forecast sets people to work; a passed storm leaves a mess.
	if len(e.restrictions.Warnings) > 0 && e.rng.Chance(0.08) {
		e.chronicleLine(preparationLines, pick(), 3)
	}
	for range e.activeEvents {
		if e.rng.Chance(0.2) {
			who := pick()
			who.AdjustMood(-8)
			e.chronicleLine(aftermathLines, who, 8)
		}
	}
	if len(e.activeEvents) == 0 && e.rng.Chance(0.03) {
		e.chronicleLine(folkloreLines, pick(), 1)
	}
}

func (e *Engine) chronicleLine(lines []string, who *settlers.Character, severity int) {
	line := fmt.Sprintf(entropy.Choice(e.rng, lines), who.Name)
	e.gs.AddChronicle(line, "weather", severity, who.Name)
}

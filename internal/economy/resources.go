// Package economy provides the settlement resource pools and market
// price mechanics.
package economy

import (
	"github.com/talgya/redrock/internal/entropy"
)

// Resource identifies one tracked stockpile. The set is closed: event
// tables referencing anything else are rejected at the call site
// instead of silently dropped.
type Resource uint8

const (
	Food Resource = iota
	Water
	Wood
	Stone
	Metal
	Medicine
	Ammunition
	Tools
	Money
	MedicalSupplies
	NumResources
)

var resourceNames = [NumResources]string{
	"food", "water", "wood", "stone", "metal",
	"medicine", "ammunition", "tools", "money", "medical_supplies",
}

// String returns the table key for the resource.
func (r Resource) String() string {
	if r >= NumResources {
		return "unknown"
	}
	return resourceNames[r]
}

// ParseResource resolves a table key to a Resource. "ammo" is accepted
// as an alias for ammunition.
func ParseResource(key string) (Resource, bool) {
	if key == "ammo" {
		return Ammunition, true
	}
	for i, name := range resourceNames {
		if name == key {
			return Resource(i), true
		}
	}
	return NumResources, false
}

// Pool holds the settlement stockpiles. Amounts never go negative:
// every decrement clamps at zero.
type Pool struct {
	amounts [NumResources]float64
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// StartingPool returns the stockpile a new settlement opens with.
func StartingPool() *Pool {
	p := NewPool()
	p.Set(Food, 100)
	p.Set(Water, 100)
	p.Set(Wood, 50)
	p.Set(Stone, 25)
	p.Set(Metal, 10)
	p.Set(Medicine, 20)
	p.Set(Ammunition, 15)
	p.Set(Tools, 30)
	p.Set(Money, 200)
	p.Set(MedicalSupplies, 10)
	return p
}

// Amount returns the current stock of a resource.
func (p *Pool) Amount(r Resource) float64 {
	if r >= NumResources {
		return 0
	}
	return p.amounts[r]
}

// Set overwrites a stock, flooring at zero.
func (p *Pool) Set(r Resource, v float64) {
	if r >= NumResources {
		return
	}
	if v < 0 {
		v = 0
	}
	p.amounts[r] = v
}

// Add applies a delta, flooring at zero.
func (p *Pool) Add(r Resource, delta float64) {
	if r >= NumResources {
		return
	}
	p.amounts[r] += delta
	if p.amounts[r] < 0 {
		p.amounts[r] = 0
	}
}

// Spend removes amount if the full amount is available. Returns false
// and leaves the pool untouched otherwise.
func (p *Pool) Spend(r Resource, amount float64) bool {
	if r >= NumResources || amount < 0 || p.amounts[r] < amount {
		return false
	}
	p.amounts[r] -= amount
	return true
}

// Total sums every stockpile.
func (p *Pool) Total() float64 {
	total := 0.0
	for _, v := range p.amounts {
		total += v
	}
	return total
}

// Map returns a name-keyed snapshot for reports and export.
func (p *Pool) Map() map[string]float64 {
	m := make(map[string]float64, NumResources)
	for i := Resource(0); i < NumResources; i++ {
		m[i.String()] = p.amounts[i]
	}
	return m
}

// Prices holds the per-resource market price in dollars.
type Prices [NumResources]float64

// InitialPrices rolls opening market prices within frontier-plausible
// ranges.
func InitialPrices(rng *entropy.Source) Prices {
	var pr Prices
	ranges := [NumResources][2]float64{
		Food:            {0.5, 2.0},
		Water:           {0.1, 0.5},
		Wood:            {0.3, 1.5},
		Stone:           {0.2, 1.0},
		Metal:           {2.0, 8.0},
		Medicine:        {3.0, 15.0},
		Ammunition:      {1.0, 5.0},
		Tools:           {5.0, 20.0},
		Money:           {1.0, 1.0},
		MedicalSupplies: {2.0, 10.0},
	}
	for i := Resource(0); i < NumResources; i++ {
		pr[i] = rng.FloatRange(ranges[i][0], ranges[i][1])
	}
	return pr
}

// AdjustDaily moves each price by scarcity pressure plus market noise.
// Stock below population head count raises the price 10%; stock above
// twice head count lowers it 5%. Prices never fall under 0.10.
func (pr *Prices) AdjustDaily(pool *Pool, population int, rng *entropy.Source) {
	for i := Resource(0); i < NumResources; i++ {
		mult := 1.0
		stock := pool.Amount(i)
		demand := float64(population)
		if stock < demand {
			mult += 0.1
		} else if stock > demand*2 {
			mult -= 0.05
		}
		mult += rng.FloatRange(-0.05, 0.05)

		pr[i] *= mult
		if pr[i] < 0.1 {
			pr[i] = 0.1
		}
	}
}

// Map returns a name-keyed snapshot of current prices.
func (pr Prices) Map() map[string]float64 {
	m := make(map[string]float64, NumResources)
	for i := Resource(0); i < NumResources; i++ {
		m[i.String()] = pr[i]
	}
	return m
}

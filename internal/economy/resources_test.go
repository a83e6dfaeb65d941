package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/redrock/internal/entropy"
)

func TestParseResource(t *testing.T) {
	r, ok := ParseResource("medicine")
	require.True(t, ok)
	assert.Equal(t, Medicine, r)

	r, ok = ParseResource("ammo")
	require.True(t, ok)
	assert.Equal(t, Ammunition, r)

	_, ok = ParseResource("unobtainium")
	assert.False(t, ok)
}

func TestPoolNeverNegative(t *testing.T) {
	p := NewPool()
	p.Set(Food, 5)
	p.Add(Food, -20)
	assert.Zero(t, p.Amount(Food))

	p.Set(Water, -3)
	assert.Zero(t, p.Amount(Water))
}

func TestPoolSpend(t *testing.T) {
	p := NewPool()
	p.Set(Money, 10)

	assert.False(t, p.Spend(Money, 15))
	assert.Equal(t, 10.0, p.Amount(Money), "failed spend must not change the pool")

	assert.True(t, p.Spend(Money, 10))
	assert.Zero(t, p.Amount(Money))
}

func TestStartingPool(t *testing.T) {
	p := StartingPool()
	assert.Equal(t, 100.0, p.Amount(Food))
	assert.Equal(t, 200.0, p.Amount(Money))
	assert.Equal(t, 10.0, p.Amount(MedicalSupplies))
	assert.Equal(t, 560.0, p.Total())
}

func TestPricesFloor(t *testing.T) {
	rng := entropy.NewSource(9)
	pr := InitialPrices(rng)
	pool := NewPool() // everything scarce

	for i := 0; i < 200; i++ {
		pr.AdjustDaily(pool, 100, rng)
	}
	for r := Resource(0); r < NumResources; r++ {
		assert.GreaterOrEqual(t, pr[r], 0.1, r.String())
	}
}

func TestPricesScarcityRaises(t *testing.T) {
	rng := entropy.NewSource(4)
	pool := NewPool()
	pool.Set(Food, 1000) // surplus for population 10

	scarce := Prices{}
	surplus := Prices{}
	for r := Resource(0); r < NumResources; r++ {
		scarce[r] = 1.0
		surplus[r] = 1.0
	}

	// Average over many adjustments so noise washes out.
	for i := 0; i < 500; i++ {
		scarce.AdjustDaily(NewPool(), 10, rng)
		surplus.AdjustDaily(pool, 10, rng)
	}
	assert.Greater(t, scarce[Food], surplus[Food])
}

func TestPoolMapKeys(t *testing.T) {
	m := StartingPool().Map()
	assert.Len(t, m, int(NumResources))
	assert.Contains(t, m, "medical_supplies")
}

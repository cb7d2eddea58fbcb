package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsDeterministic(t *testing.T) {
	a := Derive(42, 7, SaltAutoDevelop)
	b := Derive(42, 7, SaltAutoDevelop)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestDeriveSaltsAreIndependent(t *testing.T) {
	a := Derive(42, 7, SaltAutoDevelop).Uint64()
	b := Derive(42, 7, SaltFireIncident).Uint64()
	assert.NotEqual(t, a, b)
}

func TestDeriveDaySaltChangesStream(t *testing.T) {
	day1 := Derive(1, 1, SaltAutoDevelop).Uint64()
	day2 := Derive(1, 2, SaltAutoDevelop).Uint64()
	assert.NotEqual(t, day1, day2)
}

func TestFloat64Range(t *testing.T) {
	s := New(12345)
	for i := 0; i < 1000; i++ {
		v := s.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestRangeIntBounds(t *testing.T) {
	s := New(99)
	for i := 0; i < 1000; i++ {
		v := s.RangeInt(5, 9)
		assert.GreaterOrEqual(t, v, 5)
		assert.LessOrEqual(t, v, 9)
	}
}

func TestRangeIntSingleton(t *testing.T) {
	s := New(1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 3, s.RangeInt(3, 3))
	}
}

func TestChanceExtremes(t *testing.T) {
	s := New(7)
	assert.False(t, s.Chance(0))
	assert.True(t, s.Chance(1))
}

func TestChanceIsDeterministicForSameStream(t *testing.T) {
	a := New(555)
	b := New(555)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Chance(0.37), b.Chance(0.37))
	}
}

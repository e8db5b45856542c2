package mutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, 0.0, Clamp(-1.0, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}

func TestSmootherstep(t *testing.T) {
	assert.Equal(t, 0.0, Smootherstep(-1, 0, 1))
	assert.Equal(t, 1.0, Smootherstep(2, 0, 1))
	assert.InDelta(t, 0.5, Smootherstep(0.5, 0, 1), 1e-12)

	// reversed bounds flip the curve
	assert.Equal(t, 1.0, Smootherstep(0, 1, 0))
	assert.Equal(t, 0.0, Smootherstep(1, 1, 0))
}

func TestPowerSum(t *testing.T) {
	assert.InDelta(t, 5.0, PowerSum(2, 3, 4), 1e-12)
	assert.InDelta(t, 7.0, PowerSum(1, 3, 4), 1e-12)
	assert.Zero(t, PowerSum(1.1))
}

func TestFindRootBrent(t *testing.T) {
	root, ok := FindRootBrent(func(x float64) float64 { return x*x - 2 }, 0, 2, 1e-12, 100)
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt2, root, 1e-10)

	root, ok = FindRootBrent(math.Cos, 0, 3, 1e-12, 100)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, root, 1e-10)
}

func TestFindRootBrentRejectsUnbracketed(t *testing.T) {
	_, ok := FindRootBrent(func(x float64) float64 { return x*x + 1 }, -1, 1, 1e-12, 100)
	assert.False(t, ok)
}

func TestFindRootBrentIsDeterministic(t *testing.T) {
	f := func(x float64) float64 { return math.Exp(-x) - x }

	first, _ := FindRootBrent(f, 0, 1, 1e-14, 200)
	for i := 0; i < 10; i++ {
		again, _ := FindRootBrent(f, 0, 1, 1e-14, 200)
		assert.Equal(t, first, again)
	}
}

func TestLogistic(t *testing.T) {
	assert.Equal(t, 0.5, Logistic(80, 80, 0.1, 1))
	assert.Equal(t, 1.5, Logistic(0, 0, 12, 3))
	assert.InDelta(t, 1/(1+math.Exp(-6)), Logistic(1, 0.5, 12, 1), 1e-15)
	assert.Less(t, Logistic(0, 0.5, 12, 1), 0.01)
}

package dewpoint

import (
	"math"
	"testing"

	"github.com/mikesmitty/dew/pkg/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnusReference(t *testing.T) {
	got := Magnus(20, 50)
	assert.InDelta(t, 9.27, got, 0.05)

	// Same formula, log/exp split apart.
	tm := (b - 20/d) * (20 / (c + 20))
	gm := math.Log(0.5) + tm
	assert.InDelta(t, c*gm/(b-gm), got, 1e-9)
}

func TestMagnusBelowTemperature(t *testing.T) {
	for _, tc := range []float64{-20, -5, 0, 5, 12.5, 20, 30, 45} {
		for _, rh := range []float64{5, 20, 50, 80, 99} {
			assert.LessOrEqual(t, Magnus(tc, rh), tc, "T=%v RH=%v", tc, rh)
		}
	}
}

func TestMagnusSaturated(t *testing.T) {
	assert.Equal(t, 0.0, Magnus(0, 100))
	for _, tc := range []float64{-10, 15, 25} {
		assert.InDelta(t, tc, Magnus(tc, 100), 0.25)
	}
}

func TestMagnusZeroHumidity(t *testing.T) {
	assert.Equal(t, -257.14, Magnus(20, 0))
}

func TestMagnusSupersaturated(t *testing.T) {
	assert.Greater(t, Magnus(20, 110), 20.0)
}

func TestCalculate(t *testing.T) {
	dp, err := Calculate(units.Celsius(20), units.Percent(50))
	require.NoError(t, err)
	assert.InDelta(t, Magnus(20, 50), dp.Celsius(), 1e-6)
}

func TestCalculateZeroHumidity(t *testing.T) {
	dp, err := Calculate(units.Celsius(25), 0)
	require.NoError(t, err)
	assert.InDelta(t, -257.14, dp.Celsius(), 1e-6)
}

func TestCalculateNegativeHumidity(t *testing.T) {
	_, err := Calculate(units.Celsius(25), units.Percent(-5))
	assert.ErrorIs(t, err, ErrUndefined)
}

package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/physic"
)

func TestCelsius(t *testing.T) {
	assert.Equal(t, physic.ZeroCelsius, Celsius(0))
	assert.Equal(t, physic.ZeroCelsius+23625*physic.MilliKelvin, Celsius(23.625))
	assert.InDelta(t, -40.5, Celsius(-40.5).Celsius(), 1e-9)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50*physic.PercentRH, Percent(50))
	assert.InDelta(t, 41.25, PercentOf(Percent(41.25)), 1e-9)
	assert.InDelta(t, 0.0, PercentOf(0), 1e-9)
}

// Package dewpoint derives the dew point from temperature and relative
// humidity with the Magnus approximation.
package dewpoint

import (
	"errors"
	"fmt"
	"math"

	"github.com/mikesmitty/dew/pkg/units"
	"periph.io/x/conn/v3/physic"
)

// Magnus constants (Arden Buck, 1981).
const (
	b = 18.678
	c = 257.14 // °C
	d = 234.5  // °C
)

// ErrUndefined is returned when the inputs produce a dew point that is not a
// finite temperature, e.g. negative humidity.
var ErrUndefined = errors.New("dewpoint: undefined for inputs")

// Calculate returns the dew point for temperature t and relative humidity h.
//
// Inputs are not validated. Humidity above 100% flows through the formula
// unchanged and 0% yields the limit of -257.14°C.
func Calculate(t physic.Temperature, h physic.RelativeHumidity) (physic.Temperature, error) {
	dp := Magnus(t.Celsius(), units.PercentOf(h))
	if math.IsNaN(dp) || math.IsInf(dp, 0) {
		return 0, fmt.Errorf("%w: %s, %s", ErrUndefined, t, h)
	}
	return units.Celsius(dp), nil
}

// Magnus returns the dew point in °C for a temperature tc in °C and a
// relative humidity rh in percent.
func Magnus(tc, rh float64) float64 {
	gm := gammaM(tc, rh)
	if math.IsInf(gm, -1) {
		return -c
	}
	return c * gm / (b - gm)
}

func gammaM(tc, rh float64) float64 {
	h := rh / 100
	t := (b - tc/d) * (tc / (c + tc))
	// ln(h·e^t), not ln(h)+t: the two round differently.
	return math.Log(h * math.Exp(t))
}

// Package units converts between the raw floats reported by sensor drivers
// and the unit-tagged periph physic types used everywhere else.
package units

import (
	"math"

	"periph.io/x/conn/v3/physic"
)

// Celsius returns the temperature c degrees Celsius, rounded to the nearest
// nanokelvin.
func Celsius(c float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(math.Round(c*float64(physic.Celsius)))
}

// Percent returns the relative humidity p %rH.
func Percent(p float64) physic.RelativeHumidity {
	return physic.RelativeHumidity(math.Round(p * float64(physic.PercentRH)))
}

// PercentOf returns h as a float percentage.
func PercentOf(h physic.RelativeHumidity) float64 {
	return float64(h) / float64(physic.PercentRH)
}

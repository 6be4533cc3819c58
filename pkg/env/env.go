package env

import (
	"fmt"

	"github.com/mikesmitty/dew/pkg/dewpoint"
	"periph.io/x/conn/v3/physic"
)

// Env is a single temperature/humidity reading and the dew point derived
// from it.
type Env struct {
	Temperature physic.Temperature
	Humidity    physic.RelativeHumidity
	Dewpoint    physic.Temperature
}

func New(temp physic.Temperature, humidity physic.RelativeHumidity) (Env, error) {
	dp, err := dewpoint.Calculate(temp, humidity)
	if err != nil {
		return Env{}, err
	}
	return Env{
		Temperature: temp,
		Humidity:    humidity,
		Dewpoint:    dp,
	}, nil
}

func (e Env) String() string {
	return fmt.Sprintf("temperature=%s humidity=%s dewpoint=%s", e.Temperature, e.Humidity, e.Dewpoint)
}

// Probe is a temperature-only reading from a named thermometer.
type Probe struct {
	Name        string
	Temperature physic.Temperature
}

func (p Probe) String() string {
	return fmt.Sprintf("%s=%s", p.Name, p.Temperature)
}

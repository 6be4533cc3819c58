// Package combined reads a temperature/humidity sensor and derives the dew
// point from each reading pair.
//
// All reads block on a bus transaction and return driver errors unchanged.
// A Sensor is not safe for concurrent use; neither is the bus it shares.
package combined

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikesmitty/dew/pkg/env"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Driver is the vendor driver for a combined sensor. Measurements must
// read both values in a single bus transaction.
type Driver interface {
	Temperature() (physic.Temperature, error)
	RelativeHumidity() (physic.RelativeHumidity, error)
	Measurements() (physic.Temperature, physic.RelativeHumidity, error)
}

type Sensor struct {
	dev Driver
}

// New opens an SHT4x on bus. The bus is borrowed, closing it remains the
// caller's job.
func New(bus i2c.Bus) (*Sensor, error) {
	d, err := NewSHT4x(bus)
	if err != nil {
		return nil, err
	}
	return NewWithDriver(d), nil
}

func NewWithDriver(d Driver) *Sensor {
	return &Sensor{dev: d}
}

func (s *Sensor) Temperature() (physic.Temperature, error) {
	return s.dev.Temperature()
}

func (s *Sensor) Humidity() (physic.RelativeHumidity, error) {
	return s.dev.RelativeHumidity()
}

// Measurements reads temperature and humidity in one transaction and
// returns them with the dew point derived from that same pair.
func (s *Sensor) Measurements() (env.Env, error) {
	t, h, err := s.dev.Measurements()
	if err != nil {
		return env.Env{}, err
	}
	return env.New(t, h)
}

// Dewpoint performs its own read, so it can disagree with a Measurements
// call made a moment earlier.
func (s *Sensor) Dewpoint() (physic.Temperature, error) {
	e, err := s.Measurements()
	if err != nil {
		return 0, err
	}
	return e.Dewpoint, nil
}

func EnvChannel(ctx context.Context, s *Sensor, interval time.Duration) (<-chan env.Env, func() error) {
	c := make(chan env.Env, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	return c, func() error {
		defer close(c)
		defer cancelFunc()
		done := ctx.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				e, err := s.Measurements()
				if err != nil {
					return fmt.Errorf("combined: %w", err)
				}
				slog.Debug("publishing reading", "temp", e.Temperature, "humidity", e.Humidity, "dewpoint", e.Dewpoint, "module", "combined")
				select {
				case c <- e:
				case <-done:
					return nil
				}
			}
		}
	}
}

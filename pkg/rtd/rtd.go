// Package rtd reads a platinum RTD reference probe through a MAX31865.
package rtd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikesmitty/dew/pkg/env"
	"github.com/mikesmitty/max31865"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const Name = "rtd"

type Dev struct {
	dev *max31865.Dev
}

func New(port spi.PortCloser) (*Dev, error) {
	dev, err := max31865.New(port, nil)
	if err != nil {
		return nil, fmt.Errorf("max31865: %w", err)
	}
	return &Dev{dev: dev}, nil
}

func (d *Dev) Temperature() (physic.Temperature, error) {
	var e physic.Env
	if err := d.dev.Sense(&e); err != nil {
		return 0, err
	}
	return e.Temperature, nil
}

func TemperatureChannel(ctx context.Context, dev *Dev, interval time.Duration) (<-chan env.Probe, func() error) {
	c := make(chan env.Probe, 1)
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
				t, err := dev.Temperature()
				if err != nil {
					return fmt.Errorf("max31865: %w", err)
				}
				slog.Debug("publishing reading", "value", t.Celsius(), "module", "max31865")
				select {
				case c <- env.Probe{Name: Name, Temperature: t}:
				case <-done:
					return nil
				}
			}
		}
	}
}

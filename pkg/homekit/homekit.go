package homekit

import (
	"context"
	"log/slog"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/mikesmitty/dew/pkg/env"
	"github.com/mikesmitty/dew/pkg/units"
)

type Opts struct {
	// StorePath is where pairing data is kept between restarts.
	StorePath string
	Pin       string
	Name      string
	Model     string
}

// Bridge exposes the reference sensor as HomeKit temperature, humidity and
// dew point accessories.
type Bridge struct {
	srv         *hap.Server
	thermometer *accessory.Thermometer
	humidifier  *accessory.Humidifier
	dewpoint    *accessory.Thermometer
}

func New(opts Opts) (*Bridge, error) {
	bridge := accessory.NewBridge(accessory.Info{
		Name:         opts.Name,
		Manufacturer: "dew",
		Model:        "bridge",
	})
	thermometer := accessory.NewTemperatureSensor(accessory.Info{
		Name:         "Temperature",
		Manufacturer: "Sensirion",
		Model:        opts.Model,
	})
	humidifier := accessory.NewHumidifier(accessory.Info{
		Name:         "Humidity",
		Manufacturer: "Sensirion",
		Model:        opts.Model,
	})
	dewpoint := accessory.NewTemperatureSensor(accessory.Info{
		Name:         "Dew Point",
		Manufacturer: "dew",
		Model:        "magnus",
	})

	// fixed ids keep pairings stable across restarts
	bridge.A.Id = 1
	thermometer.A.Id = 2
	humidifier.A.Id = 3
	dewpoint.A.Id = 4

	// HomeKit's default floor is 0°C
	thermometer.TempSensor.CurrentTemperature.SetMinValue(-100)
	dewpoint.TempSensor.CurrentTemperature.SetMinValue(-270)

	s, err := hap.NewServer(hap.NewFsStore(opts.StorePath), bridge.A, thermometer.A, humidifier.A, dewpoint.A)
	if err != nil {
		return nil, err
	}
	if opts.Pin != "" {
		s.Pin = opts.Pin
	}

	return &Bridge{
		srv:         s,
		thermometer: thermometer,
		humidifier:  humidifier,
		dewpoint:    dewpoint,
	}, nil
}

func (b *Bridge) Update(e env.Env) {
	b.thermometer.TempSensor.CurrentTemperature.SetValue(e.Temperature.Celsius())
	b.humidifier.Humidifier.CurrentRelativeHumidity.SetValue(units.PercentOf(e.Humidity))
	b.dewpoint.TempSensor.CurrentTemperature.SetValue(e.Dewpoint.Celsius())
}

// GetUpdater pushes every reading from refChan to the accessories.
func (b *Bridge) GetUpdater(ctx context.Context, refChan <-chan env.Env) func() error {
	return func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-refChan:
				if !ok {
					return nil
				}
				slog.Debug("homekit update", "value", e, "module", "homekit")
				b.Update(e)
			}
		}
	}
}

func (b *Bridge) ListenAndServe(ctx context.Context) error {
	slog.Info("starting homekit server")
	return b.srv.ListenAndServe(ctx)
}

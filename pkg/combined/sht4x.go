package combined

import (
	"fmt"
	"log/slog"

	"github.com/mikesmitty/sht4x"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// SHT4x adapts a Sensirion SHT4x to Driver. The chip always measures both
// values in one command, so every method costs one bus transaction.
type SHT4x struct {
	dev *sht4x.Dev
}

func NewSHT4x(bus i2c.Bus) (*SHT4x, error) {
	dev, err := sht4x.New(bus, nil)
	if err != nil {
		return nil, fmt.Errorf("sht4x: %w", err)
	}
	slog.Debug("sht4x found", "serial", dev.Serial, "module", "combined")
	return &SHT4x{dev: dev}, nil
}

func (s *SHT4x) Temperature() (physic.Temperature, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return 0, err
	}
	return e.Temperature, nil
}

func (s *SHT4x) RelativeHumidity() (physic.RelativeHumidity, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return 0, err
	}
	return e.Humidity, nil
}

func (s *SHT4x) Measurements() (physic.Temperature, physic.RelativeHumidity, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return 0, 0, err
	}
	return e.Temperature, e.Humidity, nil
}

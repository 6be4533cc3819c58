// Package board initialises the host drivers and opens the buses the
// sensors hang off. A Board is created once by the command that owns it and
// handed to sensor constructors.
package board

import (
	"errors"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

type Opts struct {
	// I2CBus names the bus, e.g. "1", "/dev/i2c-1" or "FT232H". Empty
	// selects the first bus registered by the host drivers.
	I2CBus string
	// SPIPort is only opened when OpenSPI is set.
	SPIPort string
	OpenSPI bool
}

type Board struct {
	I2C i2c.BusCloser
	SPI spi.PortCloser
}

// Open loads the periph host drivers and then opens the configured buses.
// Drivers must be loaded before any bus lookup, so it is the only way to get
// a bus in this module.
func Open(opts Opts) (*Board, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	for i := range state.Loaded {
		slog.Debug("loaded", "module", state.Loaded[i])
	}
	for i := range state.Failed {
		slog.Error("failed", "module", state.Failed[i])
	}
	for i := range state.Skipped {
		slog.Debug("skipped", "module", state.Skipped[i])
	}

	b := &Board{}
	b.I2C, err = i2creg.Open(opts.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("failed to open I²C bus %q: %w", opts.I2CBus, err)
	}
	slog.Debug("opened i2c bus", "bus", b.I2C, "module", "board")

	if opts.OpenSPI {
		b.SPI, err = spireg.Open(opts.SPIPort)
		if err != nil {
			b.I2C.Close()
			return nil, fmt.Errorf("failed to open SPI port %q: %w", opts.SPIPort, err)
		}
		slog.Debug("opened spi port", "port", b.SPI, "module", "board")
	}
	return b, nil
}

func (b *Board) Close() error {
	var errs []error
	if b.SPI != nil {
		errs = append(errs, b.SPI.Close())
	}
	if b.I2C != nil {
		errs = append(errs, b.I2C.Close())
	}
	return errors.Join(errs...)
}

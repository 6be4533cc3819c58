// Package ds18b20 reads DS18B20 one-wire thermometers through the Linux w1
// sysfs interface.
package ds18b20

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mikesmitty/dew/pkg/env"
	"github.com/mikesmitty/dew/pkg/units"
	"periph.io/x/conn/v3/physic"
)

// DefaultRoot is where the w1 bus driver exposes its devices.
const DefaultRoot = "/sys/bus/w1/devices"

const (
	familyPrefix = "28-"
	slaveFile    = "w1_slave"
)

var (
	ErrDeviceNotFound = errors.New("ds18b20: device not found")
	ErrMalformed      = errors.New("ds18b20: malformed reading")
)

// Dev is a single DS18B20 identified by its w1 device id, e.g.
// 28-00000a1b2c3d.
type Dev struct {
	id   string
	path string
}

// New returns the device id under root. It fails with ErrDeviceNotFound if
// the device's w1_slave file does not exist. The id is not otherwise
// checked.
func New(root, id string) (*Dev, error) {
	path := filepath.Join(root, id, slaveFile)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w at %s, check device id: %w", ErrDeviceNotFound, path, err)
	}
	return &Dev{id: id, path: path}, nil
}

func (d *Dev) ID() string {
	return d.id
}

// Temperature reads the w1_slave file and returns the temperature that
// follows the last '=' in it. Each call opens and reads the file again;
// the kernel driver performs a conversion on every read, which blocks for
// up to 750ms at 12-bit resolution.
func (d *Dev) Temperature() (physic.Temperature, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return 0, err
	}
	return parse(string(raw))
}

func parse(raw string) (physic.Temperature, error) {
	i := strings.LastIndexByte(raw, '=')
	if i < 0 {
		return 0, fmt.Errorf("%w: no '=' in %q", ErrMalformed, raw)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(raw[i+1:]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if math.IsNaN(milli) || math.IsInf(milli, 0) {
		return 0, fmt.Errorf("%w: %q is not a temperature", ErrMalformed, raw[i+1:])
	}
	return units.Celsius(milli / 1000), nil
}

// List returns the ids of the DS18B20 devices present under root.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		// sysfs entries are symlinks, so IsDir can't be used to filter them
		if strings.HasPrefix(e.Name(), familyPrefix) {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
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
					return fmt.Errorf("ds18b20 %s: %w", dev.id, err)
				}
				slog.Debug("publishing reading", "value", t.Celsius(), "id", dev.id, "module", "ds18b20")
				select {
				case c <- env.Probe{Name: dev.id, Temperature: t}:
				case <-done:
					return nil
				}
			}
		}
	}
}

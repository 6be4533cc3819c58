package dew

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/mikesmitty/dew/pkg/board"
	"github.com/mikesmitty/dew/pkg/combined"
	"github.com/mikesmitty/dew/pkg/ds18b20"
	"github.com/mikesmitty/dew/pkg/env"
	"github.com/mikesmitty/dew/pkg/rtd"
	"github.com/mikesmitty/dew/pkg/units"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type runFunc func(cmd *cobra.Command, args []string)

// sensors holds everything a command reads from. Fields are nil when the
// corresponding sensor is disabled.
type sensors struct {
	board    *board.Board
	combined *combined.Sensor
	rtd      *rtd.Dev
	probes   []*ds18b20.Dev
}

func setupLogging() {
	slogOpts := slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if viper.GetBool("debug") {
		slogOpts.Level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slogOpts))
	slog.SetDefault(log)
}

func openSensors() (*sensors, error) {
	s := &sensors{}

	var err error
	s.probes, err = openProbes(viper.GetString("w1-root"), viper.GetStringSlice("w1-devices"))
	if err != nil {
		return nil, err
	}

	useCombined := viper.GetBool("combined")
	useRTD := viper.GetBool("rtd")
	if !useCombined && !useRTD {
		return s, nil
	}

	s.board, err = board.Open(board.Opts{
		I2CBus:  viper.GetString("i2cbus"),
		SPIPort: viper.GetString("spibus"),
		OpenSPI: useRTD,
	})
	if err != nil {
		return nil, err
	}
	if useCombined {
		s.combined, err = combined.New(s.board.I2C)
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	if useRTD {
		s.rtd, err = rtd.New(s.board.SPI)
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// openProbes opens the listed one-wire ids, or every DS18B20 under root
// when ids is empty and the w1 bus is present.
func openProbes(root string, ids []string) ([]*ds18b20.Dev, error) {
	if len(ids) == 0 {
		found, err := ds18b20.List(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("no one-wire bus", "root", root)
				return nil, nil
			}
			return nil, err
		}
		ids = found
	}
	var devs []*ds18b20.Dev
	for _, id := range ids {
		dev, err := ds18b20.New(root, id)
		if err != nil {
			return nil, err
		}
		slog.Debug("one-wire probe", "id", id)
		devs = append(devs, dev)
	}
	return devs, nil
}

func (s *sensors) Close() {
	if s.board == nil {
		return
	}
	if err := s.board.Close(); err != nil {
		slog.Error("closing board", "error", err)
	}
}

func printEnv(w io.Writer, e env.Env) {
	fmt.Fprintf(w, "temperature: %.3f°C\thumidity: %.2f%%\tdewpoint: %.3f°C\n",
		e.Temperature.Celsius(), units.PercentOf(e.Humidity), e.Dewpoint.Celsius())
}

func printProbe(w io.Writer, p env.Probe) {
	fmt.Fprintf(w, "%s: %.3f°C\n", p.Name, p.Temperature.Celsius())
}

func errChk(err error) {
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

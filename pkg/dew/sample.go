package dew

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mikesmitty/dew/pkg/combined"
	"github.com/mikesmitty/dew/pkg/stats"
	"github.com/mikesmitty/dew/pkg/units"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Sample() runFunc {
	return func(cmd *cobra.Command, args []string) {
		setupLogging()
		s, err := openSensors()
		errChk(err)
		defer s.Close()
		if s.combined == nil {
			errChk(errors.New("sample needs the combined sensor"))
		}
		errChk(sample(cmd.OutOrStdout(), s.combined, viper.GetInt("count"), viper.GetDuration("interval")))
	}
}

// sample prints count consecutive readings followed by a summary of each
// quantity.
func sample(w io.Writer, s *combined.Sensor, count int, interval time.Duration) error {
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	temp := stats.NewSeries("temperature", "°C")
	humidity := stats.NewSeries("humidity", "%")
	dewpt := stats.NewSeries("dewpoint", "°C")

	for i := 0; i < count; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		e, err := s.Measurements()
		if err != nil {
			return fmt.Errorf("reading %d: %w", i+1, err)
		}
		printEnv(w, e)
		temp.Add(e.Temperature.Celsius())
		humidity.Add(units.PercentOf(e.Humidity))
		dewpt.Add(e.Dewpoint.Celsius())
	}

	fmt.Fprintln(w)
	for _, series := range []*stats.Series{temp, humidity, dewpt} {
		fmt.Fprintln(w, series)
	}
	return nil
}

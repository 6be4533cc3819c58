package dew

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mikesmitty/dew/pkg/ds18b20"
	"github.com/mikesmitty/dew/pkg/env"
	"github.com/mikesmitty/dew/pkg/rtd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func List() runFunc {
	return func(cmd *cobra.Command, args []string) {
		setupLogging()
		ids, err := ds18b20.List(viper.GetString("w1-root"))
		errChk(err)
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
	}
}

func Read() runFunc {
	return func(cmd *cobra.Command, args []string) {
		setupLogging()
		s, err := openSensors()
		errChk(err)
		defer s.Close()
		errChk(readOnce(cmd.OutOrStdout(), s))
	}
}

// readOnce reads each sensor once, stopping at the first failure.
func readOnce(w io.Writer, s *sensors) error {
	for _, dev := range s.probes {
		t, err := dev.Temperature()
		if err != nil {
			return fmt.Errorf("ds18b20 %s: %w", dev.ID(), err)
		}
		printProbe(w, env.Probe{Name: dev.ID(), Temperature: t})
	}
	if s.rtd != nil {
		t, err := s.rtd.Temperature()
		if err != nil {
			return fmt.Errorf("max31865: %w", err)
		}
		printProbe(w, env.Probe{Name: rtd.Name, Temperature: t})
	}
	if s.combined != nil {
		e, err := s.combined.Measurements()
		if err != nil {
			return fmt.Errorf("combined: %w", err)
		}
		printEnv(w, e)
	}
	if len(s.probes) == 0 && s.rtd == nil && s.combined == nil {
		slog.Warn("no sensors configured")
	}
	return nil
}

package dew

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikesmitty/dew/pkg/combined"
	"github.com/mikesmitty/dew/pkg/ds18b20"
	"github.com/mikesmitty/dew/pkg/env"
	"github.com/mikesmitty/dew/pkg/homekit"
	"github.com/mikesmitty/dew/pkg/mqtt"
	"github.com/mikesmitty/dew/pkg/router"
	"github.com/mikesmitty/dew/pkg/rtd"
	"github.com/mikesmitty/dew/pkg/watchdog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func Monitor() runFunc {
	return func(cmd *cobra.Command, args []string) {
		setupLogging()

		interval := viper.GetDuration("interval")

		s, err := openSensors()
		errChk(err)
		defer s.Close()

		ctx, cancelFunc := context.WithCancel(context.Background())
		defer cancelFunc()
		g, ctx := errgroup.WithContext(ctx)

		// Probes
		var probeChans []<-chan env.Probe
		for _, dev := range s.probes {
			c, fn := ds18b20.TemperatureChannel(ctx, dev, interval)
			slog.Debug("starting ds18b20", "id", dev.ID())
			g.Go(fn)
			probeChans = append(probeChans, c)
		}
		if s.rtd != nil {
			c, fn := rtd.TemperatureChannel(ctx, s.rtd, interval)
			slog.Debug("starting max31865")
			g.Go(fn)
			probeChans = append(probeChans, c)
		}
		probeFan := router.NewFan[env.Probe]("probes", router.Merge(ctx, probeChans...))

		// Combined sensor
		var refCh <-chan env.Env
		if s.combined != nil {
			c, fn := combined.EnvChannel(ctx, s.combined, interval)
			slog.Debug("starting combined sensor")
			g.Go(fn)
			refCh = c
		} else {
			c := make(chan env.Env)
			close(c)
			refCh = c
		}
		refFan := router.NewFan[env.Env]("ref", refCh)

		g.Go(logReadings(refFan.Subscribe("log"), probeFan.Subscribe("log")))

		// MQTT
		if broker := viper.GetString("mqtt-broker"); broker != "" {
			mqttUrl, err := url.Parse(broker)
			errChk(err)
			mc := mqtt.NewClient(mqttUrl, viper.GetInt("mqtt-sample-interval"))
			errChk(mc.Connect())
			defer mc.Disconnect()
			g.Go(mc.GetPublisher(ctx, refFan.Subscribe("mqtt"), probeFan.Subscribe("mqtt")))
			errChk(mc.HomeAssistant())
			g.Go(mc.SwitchFn(ctx, "publish", mc.Enable, mc.Disable, mc.Enabled))
		}

		// HomeKit
		if viper.GetBool("homekit") && s.combined != nil {
			hk, err := homekit.New(homekit.Opts{
				StorePath: viper.GetString("homekit-store"),
				Pin:       viper.GetString("homekit-pin"),
				Name:      "Dew",
				Model:     "SHT4x",
			})
			errChk(err)
			g.Go(hk.GetUpdater(ctx, refFan.Subscribe("homekit")))
			g.Go(func() error {
				err := hk.ListenAndServe(ctx)
				if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			})
		}

		// Watchdog
		if s.combined != nil {
			g.Go(watchdog.NewWatchdog(ctx, "combined", viper.GetDuration("watchdog-timeout"), refFan.Subscribe("watchdog")))
		}

		g.Go(func() error { return probeFan.Run(ctx) })
		g.Go(func() error { return refFan.Run(ctx) })

		// Signal handling
		chanSignal := make(chan os.Signal, 1)
		signal.Notify(chanSignal, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)

		g.Go(func() error {
			defer signal.Stop(chanSignal)
			select {
			case <-ctx.Done():
			case <-chanSignal:
				slog.Info("shutting down...")
				cancelFunc()
			}
			return nil
		})

		slog.Debug("waiting for goroutines to finish")
		errChk(g.Wait())
	}
}

func logReadings(refCh <-chan env.Env, probeCh <-chan env.Probe) func() error {
	return func() error {
		for refCh != nil || probeCh != nil {
			select {
			case e, ok := <-refCh:
				if !ok {
					refCh = nil
					continue
				}
				slog.Info("reading", "temperature", e.Temperature, "humidity", e.Humidity, "dewpoint", e.Dewpoint)
			case p, ok := <-probeCh:
				if !ok {
					probeCh = nil
					continue
				}
				slog.Info("reading", "probe", p.Name, "temperature", p.Temperature)
			}
		}
		return nil
	}
}

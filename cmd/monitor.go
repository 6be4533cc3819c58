package cmd

import (
	"time"

	"github.com/mikesmitty/dew/pkg/dew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll the sensors and publish readings until interrupted",
	Long: `monitor polls every configured sensor at --interval and logs each
reading. With --mqtt-broker set, readings are published to MQTT and
announced to Home Assistant; with --homekit set, the combined sensor is
exposed as a HomeKit bridge.

monitor exits with an error if a sensor read fails or the combined sensor
produces no reading for --watchdog-timeout.`,
	Args: cobra.NoArgs,
	Run:  dew.Monitor(),
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().String("mqtt-broker", "", "mqtt broker url")
	monitorCmd.Flags().Int("mqtt-sample-interval", 1, "publish every nth reading")
	monitorCmd.Flags().Bool("homekit", false, "serve a HomeKit bridge")
	monitorCmd.Flags().String("homekit-pin", "", "HomeKit pairing pin")
	monitorCmd.Flags().String("homekit-store", "./db", "HomeKit pairing data directory")
	monitorCmd.Flags().Duration("watchdog-timeout", 30*time.Second, "exit when the combined sensor stalls this long")

	viper.BindPFlags(monitorCmd.Flags())
}

/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikesmitty/dew/pkg/ds18b20"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dew",
	Short: "Read temperature and humidity sensors and derive the dew point",
	Long: `dew reads DS18B20 one-wire thermometers and a Sensirion SHT4x
temperature/humidity sensor, and derives the dew point from each
temperature/humidity pair with the Magnus formula.

Readings can be printed once, sampled in a burst, or published
continuously to MQTT (with Home Assistant discovery) and HomeKit.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dew.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("i2cbus", "", "name of the i2c bus, e.g. 1 or FT232H (default first available)")
	rootCmd.PersistentFlags().String("spibus", "", "name of the spi port for the RTD probe")
	rootCmd.PersistentFlags().String("w1-root", ds18b20.DefaultRoot, "one-wire devices directory")
	rootCmd.PersistentFlags().StringSlice("w1-devices", nil, "one-wire device ids to read (default all DS18B20s found)")
	rootCmd.PersistentFlags().Bool("combined", true, "read the SHT4x temperature/humidity sensor")
	rootCmd.PersistentFlags().Bool("rtd", false, "read a MAX31865 RTD probe on the spi bus")
	rootCmd.PersistentFlags().Duration("interval", 2*time.Second, "sensor polling interval")

	viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".dew" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dew")
	}

	// DEW_I2CBUS, DEW_MQTT_BROKER, ...
	viper.SetEnvPrefix("dew")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

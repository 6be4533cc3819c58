package cmd

import (
	"github.com/mikesmitty/dew/pkg/dew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the DS18B20 one-wire thermometers present",
	Args:  cobra.NoArgs,
	Run:   dew.List(),
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read every configured sensor once",
	Args:  cobra.NoArgs,
	Run:   dew.Read(),
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Take a burst of combined sensor readings and summarize them",
	Args:  cobra.NoArgs,
	Run:   dew.Sample(),
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().Int("count", 10, "number of readings")
	viper.BindPFlags(sampleCmd.Flags())
}

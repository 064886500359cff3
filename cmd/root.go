package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	reportPath string
)

var rootCmd = &cobra.Command{
	Use:   "contact-sim",
	Short: "Discrete-event simulator for contact centers",
}

var runCmd = &cobra.Command{
	Use:   "run <config.toml>",
	Short: "Run the configured batch of simulations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := LoadConfig(args[0])
		if err != nil {
			return err
		}
		logrus.Infof("Starting %d simulations: tick_size=%s, tick_until=%s, %d clients, %d servers",
			cfg.Simulations, cfg.TickSize, cfg.TickUntil, len(cfg.Clients), len(cfg.Servers))

		aggregators, err := cfg.Runner().Run()
		if err != nil {
			return err
		}

		for _, agg := range aggregators {
			fmt.Print(agg)
		}

		if reportPath != "" {
			if err := writeReport(reportPath, cfg.Seeds, aggregators); err != nil {
				return err
			}
			logrus.Infof("Report written to %s", reportPath)
		}
		return nil
	},
}

// Execute runs the CLI, exiting non-zero on any configuration, I/O, or
// simulation error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&reportPath, "report", "", "Write aggregated metrics to this YAML file")

	rootCmd.AddCommand(runCmd)
}

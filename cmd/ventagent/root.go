// cmd/ventagent/root.go
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/vent-edge/internal/config"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "ventagent",
	Short: "Ventilation unit edge agent",
	Long: `ventagent polls a ventilation controller over Modbus and publishes
its readings to an MQTT broker.

Without a subcommand it runs the agent loop. Configuration comes from the
YAML file given with --config, overridden by VENTAGENT_* environment variables.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runAgent,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
}

// loadConfig reads the file and environment without validating.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	if logLevel != "" {
		if _, err := logrus.ParseLevel(logLevel); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

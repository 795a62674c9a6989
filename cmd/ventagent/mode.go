// cmd/ventagent/mode.go
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tamzrod/vent-edge/internal/config"
	"github.com/tamzrod/vent-edge/internal/fieldbus"
	"github.com/tamzrod/vent-edge/internal/logging"
)

var modeCmd = &cobra.Command{
	Use:   "mode <0-3>",
	Short: "Write the fan operating mode once",
	Long: `Writes the operating mode register and exits.

  0 = off
  1 = reduced
  2 = normal
  3 = auto`,
	Args: cobra.ExactArgs(1),
	RunE: runMode,
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

func runMode(cmd *cobra.Command, args []string) error {
	mode, err := strconv.Atoi(args[0])
	if err != nil || mode < fieldbus.ModeOff || mode > fieldbus.ModeAuto {
		return fmt.Errorf("mode must be 0-3, got %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.ValidateFieldBus(cfg.FieldBus); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logger, closeLog := logging.New(cfg.Log, os.Stderr)
	defer closeLog()

	bus, closeBus, err := fieldbus.Build(cfg.FieldBus, logging.Component(logger, "fieldbus"))
	if err != nil {
		return err
	}
	defer closeBus()

	if err := bus.WriteMode(mode); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "fan mode %d (%s) written\n", mode, fieldbus.ModeName(mode))
	return nil
}

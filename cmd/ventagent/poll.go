// cmd/ventagent/poll.go
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tamzrod/vent-edge/internal/config"
	"github.com/tamzrod/vent-edge/internal/logging"
	"github.com/tamzrod/vent-edge/internal/poller"
	"github.com/tamzrod/vent-edge/internal/status"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Read all registers once and print them",
	Long: `Runs a single acquisition cycle against the field bus and prints the
result as a table. The broker is not contacted.`,
	Args: cobra.NoArgs,
	RunE: runPoll,
}

func init() {
	rootCmd.AddCommand(pollCmd)
}

var (
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

func runPoll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.ValidateFieldBus(cfg.FieldBus); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logger, closeLog := logging.New(cfg.Log, os.Stderr)
	defer closeLog()

	p, _, closeBus, err := poller.Build(cfg.FieldBus, status.NewClock(), logging.Component(logger, "poller"))
	if err != nil {
		return err
	}
	defer closeBus()

	r := p.Poll()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("REG", "FIELD", "VALUE", "RAW").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(r.Samples) && !r.Samples[row].OK {
				return failStyle
			}
			return lipgloss.NewStyle()
		})

	for _, s := range r.Samples {
		value := "-"
		if s.OK {
			value = formatValue(s)
		}
		t.Row(strconv.Itoa(int(s.Spec.Address)), s.Spec.Field, value, strconv.Itoa(int(s.Raw)))
	}

	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	fmt.Fprintf(cmd.OutOrStdout(), "%d/%d registers read, valid=%t\n",
		r.SuccessCount, len(r.Samples), r.Valid)

	if !r.Valid {
		return fmt.Errorf("reading invalid: %d registers failed", r.Failed())
	}
	return nil
}

func formatValue(s poller.Sample) string {
	if s.Spec.Kind == poller.KindRaw {
		return strconv.FormatFloat(s.Value, 'f', 0, 64)
	}
	return strconv.FormatFloat(s.Value, 'f', 1, 64)
}

// cmd/ventagent/run.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/vent-edge/internal/config"
	"github.com/tamzrod/vent-edge/internal/connectivity"
	"github.com/tamzrod/vent-edge/internal/console"
	"github.com/tamzrod/vent-edge/internal/logging"
	"github.com/tamzrod/vent-edge/internal/poller"
	"github.com/tamzrod/vent-edge/internal/publisher"
	"github.com/tamzrod/vent-edge/internal/scheduler"
	"github.com/tamzrod/vent-edge/internal/status"
)

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Operator console (optional)
	// --------------------

	var (
		con    *console.Console
		out    io.Writer = os.Stdout
		logOut io.Writer = os.Stderr
	)
	if *cfg.Console.Enabled && console.Available() {
		con, err = console.New("> ")
		if err != nil {
			return err
		}
		defer con.Close()
		out, logOut = con.Stdout(), con.Stderr()
	}

	logger, closeLog := logging.New(cfg.Log, logOut)
	defer closeLog()

	logger.WithField("version", version).Info("ventagent starting")

	// --------------------
	// Build pipeline
	// --------------------

	clock := status.NewClock()

	p, bus, closeBus, err := poller.Build(cfg.FieldBus, clock, logging.Component(logger, "poller"))
	if err != nil {
		logger.WithError(err).Error("field bus build failed")
		return err
	}
	defer closeBus()

	mgr, err := connectivity.Build(cfg, p.Registers(), clock, logging.Component(logger, "connectivity"))
	if err != nil {
		logger.WithError(err).Error("connectivity build failed")
		return err
	}
	defer mgr.Close()

	pub, err := publisher.New(publisher.Config{
		Topic:    mgr.Topics().Data(),
		DeviceID: cfg.Agent.DeviceID,
		Encoding: cfg.Broker.Encoding,
	}, mgr, logging.Component(logger, "publisher"))
	if err != nil {
		return err
	}

	s := scheduler.New(scheduler.Config{
		Device:      cfg.Agent.DeviceID,
		Interval:    time.Duration(cfg.Agent.PollIntervalS) * time.Second,
		AutoEnabled: *cfg.Agent.AutoPoll,
		Yield:       time.Duration(cfg.Agent.YieldMs) * time.Millisecond,
	}, mgr, p, pub, bus, out, clock, logging.Component(logger, "scheduler"))

	// Remote commands arrive on paho's goroutine; Submit hands them to the loop.
	mgr.OnCommand(
		func(line string) { s.Submit(scheduler.Input{Line: line, Source: "remote"}) },
		func() { s.Submit(scheduler.Input{Rebirth: true, Source: "remote"}) },
	)

	if con != nil {
		go func() {
			err := con.Run(ctx, func(line string) bool {
				return s.Submit(scheduler.Input{Line: line, Source: "console"})
			})
			if err != nil {
				logger.WithError(err).Info("console closed, shutting down")
				stop()
			}
		}()
		fmt.Fprintln(out, status.Render(s.Snapshot()))
	}

	err = s.Run(ctx)
	logger.Info("ventagent stopped")
	return err
}

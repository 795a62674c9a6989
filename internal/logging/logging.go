// internal/logging/logging.go
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tamzrod/vent-edge/internal/config"
)

// New builds the process logger.
// Output goes to stderr (or the console's stderr when given) and,
// if configured, to a size-rotated file.
func New(cfg config.LogConfig, console io.Writer) (*logrus.Logger, func() error) {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var out io.Writer = os.Stderr
	if console != nil {
		out = console
	}

	closer := func() error { return nil }

	if cfg.File != "" {
		rot := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(out, rot)
		closer = rot.Close
	}

	log.SetOutput(out)

	if err != nil {
		log.Warnf("unknown log level %q, using %s", cfg.Level, lvl)
	}

	return log, closer
}

// Component returns a logger entry tagged with the component name.
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}

// Discard returns an entry that drops everything. Used by tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// internal/poller/builder.go
package poller

import (
	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/vent-edge/internal/config"
	"github.com/tamzrod/vent-edge/internal/fieldbus"
	"github.com/tamzrod/vent-edge/internal/status"
)

// Build opens the field bus and wires a DV10 poller onto it.
// The returned client is shared with the command path for mode writes.
// Bus open failures are returned; nothing is retried here.
func Build(c cfg.FieldBusConfig, clock *status.Clock, log *logrus.Entry) (*Poller, *fieldbus.Client, func() error, error) {
	client, closeFn, err := fieldbus.Build(c, log.WithField("component", "fieldbus"))
	if err != nil {
		return nil, nil, nil, err
	}

	p, err := New(DV10, client, clock, log)
	if err != nil {
		_ = closeFn()
		return nil, nil, nil, err
	}

	return p, client, closeFn, nil
}

// internal/connectivity/builder.go
package connectivity

import (
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/vent-edge/internal/config"
	"github.com/tamzrod/vent-edge/internal/poller"
	"github.com/tamzrod/vent-edge/internal/status"
)

// Build wires a Manager onto the host network and a paho session.
// Nothing connects here; the scheduler drives the lifecycle.
func Build(c *cfg.Config, metrics []poller.RegisterSpec, clock *status.Clock, log *logrus.Entry) (*Manager, error) {
	b := c.Broker

	tlsCfg, err := tlsConfig(b.CAFile, b.CertFile, b.KeyFile, b.Host)
	if err != nil {
		return nil, err
	}

	scheme := "tcp"
	if tlsCfg != nil {
		scheme = "ssl"
	}

	topics := Topics{
		Prefix:    b.ProtocolPrefix,
		Group:     c.Agent.GroupID,
		Node:      c.Agent.EdgeNodeID,
		Device:    c.Agent.DeviceID,
		Telemetry: b.TelemetryPrefix,
	}

	if clock == nil {
		clock = status.NewClock()
	}

	session := newPahoSession(SessionConfig{
		Broker:         scheme + "://" + net.JoinHostPort(b.Host, strconv.Itoa(b.Port)),
		ClientPrefix:   c.Agent.EdgeNodeID,
		Username:       b.Username,
		Password:       b.Password,
		TLS:            tlsCfg,
		QoS:            byte(*b.QoS),
		KeepAlive:      time.Duration(b.KeepAliveS) * time.Second,
		ConnectTimeout: time.Duration(b.ConnectTimeoutMs) * time.Millisecond,
		Will: func() (string, []byte) {
			payload, err := encodeNodeDeath(clock.UptimeMs())
			if err != nil {
				log.WithError(err).Warn("NDEATH encode failed, will carries no payload")
			}
			return topics.NodeDeath(), payload
		},
	}, log)

	return New(Config{
		Topics:          topics,
		ConnectAttempts: c.Network.ConnectAttempts,
		LinkRetry:       time.Duration(c.Network.RetryDelayMs) * time.Millisecond,
		SessionRetry:    time.Duration(b.RetryDelayMs) * time.Millisecond,
	}, NewLink(c.Network.Interface), session, metrics, clock, log), nil
}

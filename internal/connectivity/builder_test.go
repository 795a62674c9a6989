// internal/connectivity/builder_test.go
package connectivity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/tamzrod/vent-edge/internal/config"
	"github.com/tamzrod/vent-edge/internal/logging"
	"github.com/tamzrod/vent-edge/internal/poller"
	"github.com/tamzrod/vent-edge/internal/status"
)

func TestBuild(t *testing.T) {
	c := &cfg.Config{}
	c.Broker.Host = "broker.local"
	c.Broker.Port = 1883
	cfg.Normalize(c)

	m, err := Build(c, poller.DV10, nil, logging.Discard())
	require.NoError(t, err)

	s, ok := m.session.(*pahoSession)
	require.True(t, ok)
	assert.Equal(t, "tcp://broker.local:1883", s.cfg.Broker)
	assert.Equal(t, byte(1), s.cfg.QoS)
	assert.Equal(t, 15*time.Second, s.cfg.KeepAlive)

	topic, payload := s.cfg.Will()
	assert.Equal(t, "spBv1.0/Ventilation/NDEATH/OLIMEX_POE", topic)
	assert.Contains(t, string(payload), `"timestamp"`)

	assert.Equal(t, 20, m.cfg.ConnectAttempts)
	assert.Equal(t, time.Second, m.cfg.LinkRetry)
	assert.Equal(t, 5*time.Second, m.cfg.SessionRetry)
	assert.Equal(t, "sensors/OLIMEX_POE", m.Topics().Data())
}

func TestBuild_WillCarriesUptimeTimestamp(t *testing.T) {
	c := &cfg.Config{}
	c.Broker.Host = "broker.local"
	cfg.Normalize(c)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := &status.Clock{Start: start, Now: func() time.Time { return start.Add(90 * time.Second) }}

	m, err := Build(c, poller.DV10, clock, logging.Discard())
	require.NoError(t, err)

	_, payload := m.session.(*pahoSession).cfg.Will()
	require.NotEmpty(t, payload)

	var death struct {
		Timestamp int64 `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(payload, &death))
	assert.Equal(t, int64(90000), death.Timestamp)
}

func TestBuild_TLS(t *testing.T) {
	ca, _ := writeSelfSigned(t, t.TempDir())

	c := &cfg.Config{}
	c.Broker.Host = "broker.local"
	c.Broker.CAFile = ca
	cfg.Normalize(c)

	m, err := Build(c, poller.DV10, nil, logging.Discard())
	require.NoError(t, err)

	s := m.session.(*pahoSession)
	assert.Equal(t, "ssl://broker.local:8883", s.cfg.Broker)
	assert.NotNil(t, s.cfg.TLS)
}

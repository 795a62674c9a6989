// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
agent:
  group_id: Plant
  edge_node_id: EDGE_7
  device_id: DV10
  poll_interval_s: 30
  auto_poll: false
broker:
  host: mqtt.example
  qos: 0
fieldbus:
  mode: tcp
  endpoint: 192.168.1.20:502
  unit_id: 3
`

func TestLoad_FileEnvAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	t.Setenv(EnvPrefix+"BROKER_PASSWORD", "s3cret")
	t.Setenv(EnvPrefix+"BROKER_PORT", "1883")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "Plant", cfg.Agent.GroupID)
	assert.Equal(t, "EDGE_7", cfg.Agent.EdgeNodeID)
	assert.Equal(t, 30, cfg.Agent.PollIntervalS)
	assert.False(t, *cfg.Agent.AutoPoll)
	assert.Equal(t, 0, *cfg.Broker.QoS)
	assert.Equal(t, "s3cret", cfg.Broker.Password)
	assert.Equal(t, 1883, cfg.Broker.Port)
	assert.Equal(t, uint8(3), cfg.FieldBus.UnitID)
	assert.Equal(t, "spBv1.0", cfg.Broker.ProtocolPrefix)
	assert.Equal(t, "json", cfg.Broker.Encoding)
}

func TestLoad_BadPortEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"BROKER_PORT", "eighty")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

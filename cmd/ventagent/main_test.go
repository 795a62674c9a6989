// cmd/ventagent/main_test.go
package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/vent-edge/internal/poller"
)

func TestRunMode_RejectsOutOfRange(t *testing.T) {
	for _, arg := range []string{"4", "-1", "x", "367"} {
		err := runMode(modeCmd, []string{arg})
		require.Error(t, err, arg)
		assert.Contains(t, err.Error(), "mode must be 0-3")
	}
}

func TestLoadConfig_BadLogLevel(t *testing.T) {
	cfgPath, logLevel = "", "loud"
	t.Cleanup(func() { cfgPath, logLevel = "", "" })

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level")
}

func TestLoadConfig_LevelOverride(t *testing.T) {
	cfgPath, logLevel = "", "debug"
	t.Cleanup(func() { cfgPath, logLevel = "", "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFormatValue(t *testing.T) {
	raw := poller.Sample{Spec: poller.RegisterSpec{Kind: poller.KindRaw}, Value: 12000, OK: true}
	scaled := poller.Sample{Spec: poller.RegisterSpec{Kind: poller.KindScaled}, Value: 23.5, OK: true}

	assert.Equal(t, "12000", formatValue(raw))
	assert.Equal(t, "23.5", formatValue(scaled))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["poll"])
	assert.True(t, names["mode"])
}

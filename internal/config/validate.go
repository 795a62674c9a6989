// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Poll interval bounds, in seconds. The operator "i" command uses the same window.
const (
	MinPollIntervalS = 5
	MaxPollIntervalS = 300
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	// ------------------------------------------------------------
	// IDENTITY (topic segments)
	// ------------------------------------------------------------

	ids := []struct {
		name  string
		value string
	}{
		{"agent.group_id", cfg.Agent.GroupID},
		{"agent.edge_node_id", cfg.Agent.EdgeNodeID},
		{"agent.device_id", cfg.Agent.DeviceID},
		{"broker.protocol_prefix", cfg.Broker.ProtocolPrefix},
		{"broker.telemetry_prefix", cfg.Broker.TelemetryPrefix},
	}
	for _, id := range ids {
		if err := topicSegment(id.name, id.value); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// SCHEDULE
	// ------------------------------------------------------------

	if s := cfg.Agent.PollIntervalS; s < MinPollIntervalS || s > MaxPollIntervalS {
		return fmt.Errorf(
			"agent.poll_interval_s %d out of range [%d,%d]",
			s, MinPollIntervalS, MaxPollIntervalS,
		)
	}
	if cfg.Agent.YieldMs < 0 {
		return fmt.Errorf("agent.yield_ms must be >= 0, got %d", cfg.Agent.YieldMs)
	}

	// ------------------------------------------------------------
	// NETWORK + BROKER
	// ------------------------------------------------------------

	if cfg.Network.ConnectAttempts <= 0 {
		return fmt.Errorf("network.connect_attempts must be > 0, got %d", cfg.Network.ConnectAttempts)
	}
	if cfg.Network.RetryDelayMs <= 0 {
		return fmt.Errorf("network.retry_delay_ms must be > 0, got %d", cfg.Network.RetryDelayMs)
	}

	b := cfg.Broker
	if b.Host == "" {
		return errors.New("broker.host required")
	}
	if b.Port <= 0 || b.Port > 65535 {
		return fmt.Errorf("broker.port %d out of range", b.Port)
	}
	if b.QoS == nil || *b.QoS < 0 || *b.QoS > 2 {
		return errors.New("broker.qos must be 0, 1 or 2")
	}

	timings := []struct {
		name  string
		value int
	}{
		{"broker.keepalive_s", b.KeepAliveS},
		{"broker.retry_delay_ms", b.RetryDelayMs},
		{"broker.connect_timeout_ms", b.ConnectTimeoutMs},
	}
	for _, tm := range timings {
		if tm.value <= 0 {
			return fmt.Errorf("%s must be > 0, got %d", tm.name, tm.value)
		}
	}
	if (b.CertFile == "") != (b.KeyFile == "") {
		return errors.New("broker.cert_file and broker.key_file must be set together")
	}
	if b.CertFile != "" && b.CAFile == "" {
		return errors.New("broker.cert_file requires broker.ca_file")
	}
	switch b.Encoding {
	case "json", "cbor":
	default:
		return fmt.Errorf("broker.encoding %q unsupported (json|cbor)", b.Encoding)
	}

	// ------------------------------------------------------------
	// FIELD BUS
	// ------------------------------------------------------------

	return ValidateFieldBus(cfg.FieldBus)
}

// ValidateFieldBus checks the field bus section alone.
// Commands that never touch the broker use it instead of Validate.
func ValidateFieldBus(f FieldBusConfig) error {
	switch f.Mode {
	case "rtu":
		if f.Port == "" {
			return errors.New("fieldbus.port required for rtu mode")
		}
		if f.Baud <= 0 {
			return fmt.Errorf("fieldbus.baud must be > 0, got %d", f.Baud)
		}
		if f.DataBits < 5 || f.DataBits > 8 {
			return fmt.Errorf("fieldbus.data_bits %d out of range [5,8]", f.DataBits)
		}
		if f.StopBits != 1 && f.StopBits != 2 {
			return fmt.Errorf("fieldbus.stop_bits must be 1 or 2, got %d", f.StopBits)
		}
		switch f.Parity {
		case "N", "E", "O":
		default:
			return fmt.Errorf("fieldbus.parity %q unsupported (N|E|O)", f.Parity)
		}
		switch f.Direction {
		case "rts", "none":
		default:
			return fmt.Errorf("fieldbus.direction %q unsupported (rts|none)", f.Direction)
		}
	case "tcp":
		if f.Endpoint == "" {
			return errors.New("fieldbus.endpoint required for tcp mode")
		}
	case "sim":
	default:
		return fmt.Errorf("fieldbus.mode %q unsupported (rtu|tcp|sim)", f.Mode)
	}
	if f.TimeoutMs <= 0 {
		return fmt.Errorf("fieldbus.timeout_ms must be > 0, got %d", f.TimeoutMs)
	}

	return nil
}

func topicSegment(name, v string) error {
	if v == "" {
		return fmt.Errorf("%s required", name)
	}
	if strings.ContainsAny(v, "/+#") {
		return fmt.Errorf("%s %q must not contain '/', '+' or '#'", name, v)
	}
	for i := 0; i < len(v); i++ {
		if v[i] < 0x20 || v[i] > 0x7E {
			return fmt.Errorf("%s must contain printable ASCII characters only", name)
		}
	}
	return nil
}

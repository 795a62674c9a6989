// internal/config/normalize.go
package config

import "strings"

// Defaults mirror the unit's factory wiring (DV10 on an RS-485 edge node).
const (
	DefaultGroupID         = "Ventilation"
	DefaultEdgeNodeID      = "OLIMEX_POE"
	DefaultDeviceID        = "DV10"
	DefaultPollIntervalS   = 10
	DefaultYieldMs         = 1000
	DefaultConnectAttempts = 20
	DefaultLinkRetryMs     = 1000
	DefaultBrokerPort      = 8883
	DefaultProtocolPrefix  = "spBv1.0"
	DefaultTelemetryPrefix = "sensors"
	DefaultQoS             = 1
	DefaultKeepAliveS      = 15
	DefaultSessionRetryMs  = 5000
	DefaultConnectTimeout  = 10000
	DefaultBaud            = 9600
	DefaultUnitID          = 1
	DefaultTimeoutMs       = 1000
)

// Normalize fills unset fields with defaults.
// It is allowed to mutate configuration and runs before Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// AGENT
	// ------------------------------------------------------------

	a := &cfg.Agent
	setStr(&a.GroupID, DefaultGroupID)
	setStr(&a.EdgeNodeID, DefaultEdgeNodeID)
	setStr(&a.DeviceID, DefaultDeviceID)
	setInt(&a.PollIntervalS, DefaultPollIntervalS)
	setInt(&a.YieldMs, DefaultYieldMs)
	if a.AutoPoll == nil {
		on := true
		a.AutoPoll = &on
	}

	// ------------------------------------------------------------
	// NETWORK + BROKER
	// ------------------------------------------------------------

	setInt(&cfg.Network.ConnectAttempts, DefaultConnectAttempts)
	setInt(&cfg.Network.RetryDelayMs, DefaultLinkRetryMs)

	b := &cfg.Broker
	setInt(&b.Port, DefaultBrokerPort)
	setStr(&b.ProtocolPrefix, DefaultProtocolPrefix)
	setStr(&b.TelemetryPrefix, DefaultTelemetryPrefix)
	setInt(&b.KeepAliveS, DefaultKeepAliveS)
	setInt(&b.RetryDelayMs, DefaultSessionRetryMs)
	setInt(&b.ConnectTimeoutMs, DefaultConnectTimeout)
	setStr(&b.Encoding, "json")
	b.Encoding = strings.ToLower(b.Encoding)
	if b.QoS == nil {
		q := DefaultQoS
		b.QoS = &q
	}

	// ------------------------------------------------------------
	// FIELD BUS
	// ------------------------------------------------------------

	f := &cfg.FieldBus
	setStr(&f.Mode, "rtu")
	f.Mode = strings.ToLower(f.Mode)
	setInt(&f.Baud, DefaultBaud)
	setInt(&f.DataBits, 8)
	setInt(&f.StopBits, 1)
	setStr(&f.Parity, "N")
	f.Parity = strings.ToUpper(f.Parity)
	setStr(&f.Direction, "rts")
	f.Direction = strings.ToLower(f.Direction)
	if f.UnitID == 0 {
		f.UnitID = DefaultUnitID
	}
	setInt(&f.TimeoutMs, DefaultTimeoutMs)

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	setStr(&cfg.Log.Level, "info")
	setInt(&cfg.Log.MaxSizeMB, 10)
	setInt(&cfg.Log.MaxBackups, 3)
	setInt(&cfg.Log.MaxAgeDays, 28)

	if cfg.Console.Enabled == nil {
		on := true
		cfg.Console.Enabled = &on
	}
}

func setStr(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

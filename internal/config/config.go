// internal/config/config.go
package config

type Config struct {
	Agent    AgentConfig    `yaml:"agent"`
	Network  NetworkConfig  `yaml:"network"`
	Broker   BrokerConfig   `yaml:"broker"`
	FieldBus FieldBusConfig `yaml:"fieldbus"`
	Log      LogConfig      `yaml:"log"`
	Console  ConsoleConfig  `yaml:"console"`
}

// ---- AGENT ----

type AgentConfig struct {
	GroupID    string `yaml:"group_id"`
	EdgeNodeID string `yaml:"edge_node_id"`
	DeviceID   string `yaml:"device_id"`

	PollIntervalS int   `yaml:"poll_interval_s"`
	AutoPoll      *bool `yaml:"auto_poll"`
	YieldMs       int   `yaml:"yield_ms"`
}

// ---- NETWORK LINK ----

type NetworkConfig struct {
	// Interface is the link to watch. Empty means any non-loopback interface.
	Interface       string `yaml:"interface"`
	ConnectAttempts int    `yaml:"connect_attempts"`
	RetryDelayMs    int    `yaml:"retry_delay_ms"`
}

// ---- BROKER SESSION ----

type BrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Trust anchor + optional client identity (mutual TLS).
	CAFile   string `yaml:"ca_file"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	ProtocolPrefix   string `yaml:"protocol_prefix"`
	TelemetryPrefix  string `yaml:"telemetry_prefix"`
	QoS              *int   `yaml:"qos"`
	KeepAliveS       int    `yaml:"keepalive_s"`
	RetryDelayMs     int    `yaml:"retry_delay_ms"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
	Encoding         string `yaml:"encoding"` // json | cbor
}

// ---- FIELD BUS ----

type FieldBusConfig struct {
	Mode string `yaml:"mode"` // rtu | tcp | sim

	// rtu
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	DataBits  int    `yaml:"data_bits"`
	Parity    string `yaml:"parity"` // N | E | O
	StopBits  int    `yaml:"stop_bits"`
	Direction string `yaml:"direction"` // rts | none

	// tcp
	Endpoint string `yaml:"endpoint"`

	UnitID    uint8 `yaml:"unit_id"`
	TimeoutMs int   `yaml:"timeout_ms"`
}

// ---- LOGGING ----

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ---- OPERATOR CONSOLE ----

type ConsoleConfig struct {
	Enabled *bool `yaml:"enabled"`
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Cueboard Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Cues      CuesConfig      `yaml:"cues"`
	Sequences SequencesConfig `yaml:"sequences"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	OSC       OSCConfig       `yaml:"osc"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DeviceConfig contains connection settings for the relay device.
//
// The device is a DLI-style web power switch reached over its REST API with
// HTTP Digest authentication. Host may include a port (e.g. "192.168.0.100:8080").
type DeviceConfig struct {
	Host      string `yaml:"host"`
	Scheme    string `yaml:"scheme"` // "http" or "https"
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	TimeoutMS int    `yaml:"timeout_ms"` // per-request HTTP timeout
}

// CuesConfig contains settings for the cue table document.
type CuesConfig struct {
	// Path is the XML cue table loaded at startup and rewritten on PUT /cues.
	Path string `yaml:"path"`
}

// SequencesConfig contains settings for the sequence step library.
type SequencesConfig struct {
	// Dir is the directory holding one XML document per named sequence.
	Dir string `yaml:"dir"`

	// Watch enables an fsnotify watcher on Dir so externally edited
	// sequence files take effect without a restart.
	Watch bool `yaml:"watch"`
}

// DispatchConfig contains settings for the selection dispatch coordinator.
type DispatchConfig struct {
	// DebounceMS is the quiet interval after a selection event before the
	// device send fires. Rapid re-selections within the window coalesce.
	DebounceMS int `yaml:"debounce_ms"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
// MQTT is optional; when disabled, status fan-out is API/WebSocket only.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// OSCConfig contains settings for the OSC trigger listener.
// Show-control software and theatre consoles select cues by sending
// /cueboard/select messages to this port.
type OSCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// InfluxDBConfig contains InfluxDB connection settings for send telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default dispatch and device timings. These mirror the behaviour of the
// interactive switchboard this engine was extracted from: a 120ms selection
// debounce and a 5 second per-request device timeout.
const (
	DefaultDebounceMS      = 120
	DefaultDeviceTimeoutMS = 5000
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: CUEBOARD_SECTION_KEY
// For example: CUEBOARD_DEVICE_HOST, CUEBOARD_DATABASE_PATH
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Host:      "192.168.0.100",
			Scheme:    "http",
			Username:  "admin",
			TimeoutMS: DefaultDeviceTimeoutMS,
		},
		Cues: CuesConfig{
			Path: "./data/cues.xml",
		},
		Sequences: SequencesConfig{
			Dir:   "./data/sequences",
			Watch: true,
		},
		Dispatch: DispatchConfig{
			DebounceMS: DefaultDebounceMS,
		},
		Database: DatabaseConfig{
			Path:        "./data/cueboard.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "cueboard-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		OSC: OSCConfig{
			Host: "0.0.0.0",
			Port: 53535,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: CUEBOARD_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device - credentials belong in the environment, not the config file
	if v := os.Getenv("CUEBOARD_DEVICE_HOST"); v != "" {
		cfg.Device.Host = v
	}
	if v := os.Getenv("CUEBOARD_DEVICE_USERNAME"); v != "" {
		cfg.Device.Username = v
	}
	if v := os.Getenv("CUEBOARD_DEVICE_PASSWORD"); v != "" {
		cfg.Device.Password = v
	}
	if v := os.Getenv("CUEBOARD_DEVICE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Device.TimeoutMS = ms
		}
	}

	// Database
	if v := os.Getenv("CUEBOARD_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Sequences
	if v := os.Getenv("CUEBOARD_SEQUENCES_DIR"); v != "" {
		cfg.Sequences.Dir = v
	}

	// MQTT
	if v := os.Getenv("CUEBOARD_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("CUEBOARD_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("CUEBOARD_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("CUEBOARD_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("CUEBOARD_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Device validation
	if c.Device.Host == "" {
		errs = append(errs, "device.host is required")
	}
	switch strings.ToLower(c.Device.Scheme) {
	case "http", "https":
	default:
		errs = append(errs, "device.scheme must be http or https")
	}
	if c.Device.TimeoutMS <= 0 {
		errs = append(errs, "device.timeout_ms must be positive")
	}

	// Dispatch validation
	if c.Dispatch.DebounceMS < 0 {
		errs = append(errs, "dispatch.debounce_ms must not be negative")
	}

	// Storage validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.Sequences.Dir == "" {
		errs = append(errs, "sequences.dir is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// OSC validation
	if c.OSC.Enabled && (c.OSC.Port < 1 || c.OSC.Port > 65535) {
		errs = append(errs, "osc.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// DeviceTimeout returns the per-request device timeout as a Duration.
func (c *Config) DeviceTimeout() time.Duration {
	return time.Duration(c.Device.TimeoutMS) * time.Millisecond
}

// DebounceInterval returns the selection debounce window as a Duration.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Dispatch.DebounceMS) * time.Millisecond
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

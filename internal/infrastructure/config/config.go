package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for edgenode.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Firmware FirmwareConfig `yaml:"firmware"`
	Network  NetworkConfig  `yaml:"network"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	API      APIConfig      `yaml:"api"`
	LED      LEDConfig      `yaml:"led"`
	Settings SettingsConfig `yaml:"settings"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// FirmwareConfig identifies the firmware build this node is running.
// These values appear verbatim in the adoption descriptor.
type FirmwareConfig struct {
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	Maker     string `yaml:"maker"`
	Version   string `yaml:"version"`
	GithubURL string `yaml:"github_url,omitempty"`
}

// NetworkConfig selects the transport variant and its OS interface.
type NetworkConfig struct {
	// Mode is "wifi" or "ethernet".
	Mode string `yaml:"mode"`

	// Interface is the OS network interface name (e.g. "wlan0", "eth0").
	Interface string `yaml:"interface"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Topics    MQTTTopicConfig     `yaml:"topics"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
//
// ClientID is optional: when empty, the orchestrator derives a default
// from the transport MAC address, which the settings store may override.
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

// MQTTTopicConfig controls the device topic structure.
// Topics are built as {prefix}/{type}/{client_id}/{suffix} with the
// prefix and suffix segments omitted when empty.
type MQTTTopicConfig struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LEDConfig contains status indicator settings.
type LEDConfig struct {
	// Enabled switches the visual indicator on. When false a no-op
	// driver is used.
	Enabled bool `yaml:"enabled"`

	// ActivityFlashMs is how long the activity flash overrides the
	// steady connectivity colour, in milliseconds.
	ActivityFlashMs int `yaml:"activity_flash_ms"`

	// TickMs is the orchestrator tick interval in milliseconds.
	TickMs int `yaml:"tick_ms"`
}

// SettingsConfig contains the persistent settings store location.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// InfluxDBConfig contains the optional telemetry mirror settings.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: EDGENODE_SECTION_KEY
// For example: EDGENODE_MQTT_HOST, EDGENODE_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Firmware: FirmwareConfig{
			Name:      "Edgenode",
			ShortName: "edgenode",
			Maker:     "edgenode-io",
			Version:   "dev",
		},
		Network: NetworkConfig{
			Mode:      "ethernet",
			Interface: "eth0",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "localhost",
				Port: 1883,
			},
			QoS: 0,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
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
		LED: LEDConfig{
			Enabled:         true,
			ActivityFlashMs: 200,
			TickMs:          50,
		},
		Settings: SettingsConfig{
			Path: "./data/edgenode.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: EDGENODE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Network
	if v := os.Getenv("EDGENODE_NETWORK_MODE"); v != "" {
		cfg.Network.Mode = v
	}
	if v := os.Getenv("EDGENODE_NETWORK_INTERFACE"); v != "" {
		cfg.Network.Interface = v
	}

	// MQTT
	if v := os.Getenv("EDGENODE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("EDGENODE_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("EDGENODE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("EDGENODE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("EDGENODE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("EDGENODE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// Settings store
	if v := os.Getenv("EDGENODE_SETTINGS_PATH"); v != "" {
		cfg.Settings.Path = v
	}

	// InfluxDB
	if v := os.Getenv("EDGENODE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Firmware validation — adoption is meaningless without an identity.
	if c.Firmware.Name == "" {
		errs = append(errs, "firmware.name is required")
	}
	if c.Firmware.ShortName == "" {
		errs = append(errs, "firmware.short_name is required")
	}

	// Network validation
	switch c.Network.Mode {
	case "wifi", "ethernet":
	default:
		errs = append(errs, `network.mode must be "wifi" or "ethernet"`)
	}
	if c.Network.Interface == "" {
		errs = append(errs, "network.interface is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// LED validation
	if c.LED.ActivityFlashMs < 0 {
		errs = append(errs, "led.activity_flash_ms must not be negative")
	}
	if c.LED.TickMs < 1 {
		errs = append(errs, "led.tick_ms must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ActivityFlashTimeout returns the activity flash duration.
func (c *Config) ActivityFlashTimeout() time.Duration {
	return time.Duration(c.LED.ActivityFlashMs) * time.Millisecond
}

// TickInterval returns the orchestrator tick interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.LED.TickMs) * time.Millisecond
}

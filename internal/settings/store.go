package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/edgenode-io/edgenode/internal/infrastructure/database"
)

// Store keys. Broker overrides take effect on the next start; discovery
// state is applied live and re-applied at boot.
const (
	keyClientID    = "mqtt.client_id"
	keyBrokerHost  = "mqtt.broker_host"
	keyBrokerPort  = "mqtt.broker_port"
	keyUsername    = "mqtt.username"
	keyPassword    = "mqtt.password"
	keyTopicPrefix = "mqtt.topic_prefix"
	keyTopicSuffix = "mqtt.topic_suffix"

	keyDiscoveryEnabled = "hass.discovery_enabled"
	keyDiscoveryPrefix  = "hass.discovery_topic_prefix"
)

// MQTTOverrides are the persisted broker connection overrides. Zero
// values mean "not set"; the orchestrator only applies non-zero fields
// over the configured defaults.
type MQTTOverrides struct {
	ClientID    string
	BrokerHost  string
	BrokerPort  int
	Username    string
	Password    string
	TopicPrefix string
	TopicSuffix string
}

// DiscoveryState is the persisted Home Assistant discovery state.
type DiscoveryState struct {
	Enabled     bool
	TopicPrefix string
}

// Store is the SQLite-backed settings store.
type Store struct {
	db *database.DB
}

// Open opens (or creates) the settings store at the given path and
// bootstraps its schema.
//
// Parameters:
//   - path: Filesystem path to the SQLite database file
//
// Returns:
//   - *Store: Ready store
//   - error: If the database cannot be opened or the schema created
func Open(path string) (*Store, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, err
	}
	return s, nil
}

// ensureSchema creates the settings table. The schema is a single
// key/value table, so CREATE IF NOT EXISTS covers upgrades.
func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS node_settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating settings schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HealthCheck verifies the store is reachable.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// Get reads one value.
//
// Returns:
//   - string: The stored value
//   - bool: false when the key has never been set
//   - error: If the query fails
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM node_settings WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes one value, replacing any previous value for the key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO node_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}

// Delete removes one value. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM node_settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting setting %q: %w", key, err)
	}
	return nil
}

// MQTTOverrides loads the persisted broker overrides. Keys that were
// never set come back as zero values.
func (s *Store) MQTTOverrides(ctx context.Context) (MQTTOverrides, error) {
	var o MQTTOverrides
	var err error

	read := func(key string) string {
		if err != nil {
			return ""
		}
		var value string
		value, _, err = s.Get(ctx, key)
		return value
	}

	o.ClientID = read(keyClientID)
	o.BrokerHost = read(keyBrokerHost)
	o.Username = read(keyUsername)
	o.Password = read(keyPassword)
	o.TopicPrefix = read(keyTopicPrefix)
	o.TopicSuffix = read(keyTopicSuffix)

	if port := read(keyBrokerPort); port != "" && err == nil {
		if n, convErr := strconv.Atoi(port); convErr == nil {
			o.BrokerPort = n
		}
	}

	if err != nil {
		return MQTTOverrides{}, err
	}
	return o, nil
}

// SaveMQTTOverrides persists the broker overrides. Zero-value fields
// are removed so they stop overriding the configured defaults.
func (s *Store) SaveMQTTOverrides(ctx context.Context, o MQTTOverrides) error {
	fields := []struct {
		key   string
		value string
	}{
		{keyClientID, o.ClientID},
		{keyBrokerHost, o.BrokerHost},
		{keyUsername, o.Username},
		{keyPassword, o.Password},
		{keyTopicPrefix, o.TopicPrefix},
		{keyTopicSuffix, o.TopicSuffix},
	}
	for _, f := range fields {
		if err := s.setOrDelete(ctx, f.key, f.value); err != nil {
			return err
		}
	}

	port := ""
	if o.BrokerPort != 0 {
		port = strconv.Itoa(o.BrokerPort)
	}
	return s.setOrDelete(ctx, keyBrokerPort, port)
}

func (s *Store) setOrDelete(ctx context.Context, key, value string) error {
	if value == "" {
		return s.Delete(ctx, key)
	}
	return s.Set(ctx, key, value)
}

// DiscoveryState loads the persisted discovery state.
//
// Returns:
//   - DiscoveryState: The stored state
//   - bool: false when no state has ever been persisted
//   - error: If the query fails
func (s *Store) DiscoveryState(ctx context.Context) (DiscoveryState, bool, error) {
	enabled, enabledOK, err := s.Get(ctx, keyDiscoveryEnabled)
	if err != nil {
		return DiscoveryState{}, false, err
	}
	prefix, prefixOK, err := s.Get(ctx, keyDiscoveryPrefix)
	if err != nil {
		return DiscoveryState{}, false, err
	}
	if !enabledOK && !prefixOK {
		return DiscoveryState{}, false, nil
	}

	return DiscoveryState{
		Enabled:     enabled == "true",
		TopicPrefix: prefix,
	}, true, nil
}

// SaveDiscoveryState persists the discovery state.
func (s *Store) SaveDiscoveryState(ctx context.Context, state DiscoveryState) error {
	if err := s.Set(ctx, keyDiscoveryEnabled, strconv.FormatBool(state.Enabled)); err != nil {
		return err
	}
	return s.setOrDelete(ctx, keyDiscoveryPrefix, state.TopicPrefix)
}

package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the per-attempt connection timeout.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultSubscribeTimeout is the maximum time to wait for subscribe acknowledgment.
	defaultSubscribeTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// Availability payloads published to the LWT topic, retained. Controllers
// match these against the discovery availability template.
const (
	onlinePayload  = `{"online":true}`
	offlinePayload = `{"online":false}`
)

// buildClientOptions creates paho MQTT options from edgenode config and
// the resolved device identity.
//
// This configures:
//   - Broker URL (tcp:// or ssl:// based on TLS setting)
//   - The resolved client id
//   - Authentication credentials (if provided)
//   - Connect retry and auto-reconnect with backoff
//   - LWT on the availability topic for offline detection
func buildClientOptions(cfg config.MQTTConfig, broker config.MQTTBrokerConfig, auth config.MQTTAuthConfig, topics Topics) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if broker.TLS {
		scheme = "ssl"
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, broker.Host, broker.Port))

	opts.SetClientID(topics.ClientID)

	if auth.Username != "" {
		opts.SetUsername(auth.Username)
		opts.SetPassword(auth.Password)
	}

	// Clean session - subscriptions are restored on every connect.
	opts.SetCleanSession(true)

	// Keep trying: a broker that is down at boot or drops mid-run is a
	// steady-state condition for a device node, surfaced via the
	// connectivity indicator rather than an error.
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second)
	opts.SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second)

	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	// LWT: broker publishes the retained offline payload if we vanish.
	opts.SetWill(topics.AvailabilityTopic(), offlinePayload, byte(cfg.QoS), true)

	if broker.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}

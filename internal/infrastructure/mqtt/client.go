package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// Client is the device-side MQTT client.
//
// It wraps paho.mqtt.golang with the edgenode topic structure, LWT-based
// availability, and inbound config/command routing. The client is created
// with New, its identity finalised with the Set* methods, and connected
// with Start. Connection loss is handled by paho's auto-reconnect; the
// lifecycle callbacks fire on every connect and disconnect.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Identity setters must be called before Start.
type Client struct {
	client  pahomqtt.Client
	options *pahomqtt.ClientOptions
	cfg     config.MQTTConfig

	// Resolved identity. Written before Start, read-only afterwards.
	idMu   sync.RWMutex
	topics Topics
	broker config.MQTTBrokerConfig
	auth   config.MQTTAuthConfig

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex

	// Lifecycle and payload callbacks.
	onConnected    func()
	onDisconnected func(reason DisconnectReason)
	onConfig       DocHandler
	onCommand      DocHandler
	onMessage      MessageObserver
	callbackMu     sync.RWMutex

	// logger for error logging (optional, set via SetLogger).
	logger   Logger
	loggerMu sync.RWMutex
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// DocHandler is the callback signature for decoded inbound documents.
// Handlers are invoked from paho goroutines and should not block.
type DocHandler func(doc *jsondoc.Doc)

// MessageObserver is invoked after every inbound message with the topic
// and the classification Receive assigned to it. The orchestrator uses it
// to arm the activity indicator and log receive-side faults.
type MessageObserver func(topic string, code ReceiveCode)

// New creates a client from configuration. No connection is attempted
// until Start is called, so the orchestrator can finalise the identity
// (MAC-derived default, then settings-store override) first.
func New(cfg config.MQTTConfig) *Client {
	return &Client{
		cfg:    cfg,
		broker: cfg.Broker,
		auth:   cfg.Auth,
		topics: Topics{
			Prefix:   cfg.Topics.Prefix,
			Suffix:   cfg.Topics.Suffix,
			ClientID: cfg.Broker.ClientID,
		},
	}
}

// SetClientID sets the client identity. Must be called before Start.
func (c *Client) SetClientID(clientID string) {
	c.idMu.Lock()
	c.topics.ClientID = clientID
	c.idMu.Unlock()
}

// SetBroker overrides the broker address. Must be called before Start.
func (c *Client) SetBroker(host string, port int) {
	c.idMu.Lock()
	c.broker.Host = host
	c.broker.Port = port
	c.idMu.Unlock()
}

// SetAuth overrides the broker credentials. Must be called before Start.
func (c *Client) SetAuth(username, password string) {
	c.idMu.Lock()
	c.auth.Username = username
	c.auth.Password = password
	c.idMu.Unlock()
}

// SetTopicPrefix overrides the topic prefix. Must be called before Start.
func (c *Client) SetTopicPrefix(prefix string) {
	c.idMu.Lock()
	c.topics.Prefix = prefix
	c.idMu.Unlock()
}

// SetTopicSuffix overrides the topic suffix. Must be called before Start.
func (c *Client) SetTopicSuffix(suffix string) {
	c.idMu.Lock()
	c.topics.Suffix = suffix
	c.idMu.Unlock()
}

// ClientID returns the resolved client identity.
func (c *Client) ClientID() string {
	c.idMu.RLock()
	defer c.idMu.RUnlock()
	return c.topics.ClientID
}

// Topics returns the resolved topic builder for this identity.
func (c *Client) Topics() Topics {
	c.idMu.RLock()
	defer c.idMu.RUnlock()
	return c.topics
}

// Start begins connecting to the broker.
//
// It performs the following setup:
//  1. Builds connection options from config and the resolved identity
//  2. Configures the LWT ({"online":false}, retained) on the availability topic
//  3. Enables connect retry and auto-reconnect with backoff
//  4. Initiates the connection without blocking on its outcome
//
// A broker that is down at startup is not an error: the connection is
// retried in the background and OnConnected fires when it succeeds. The
// connectivity indicator reflects the interim state.
//
// Returns:
//   - error: If the identity is unresolved (missing client id)
func (c *Client) Start() error {
	c.idMu.RLock()
	topics := c.topics
	broker := c.broker
	auth := c.auth
	c.idMu.RUnlock()

	if topics.ClientID == "" {
		return ErrMissingClientID
	}

	opts := buildClientOptions(c.cfg, broker, auth, topics)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.options = opts
	c.client = pahomqtt.NewClient(opts)

	// Wait for the initial attempt in the background; with connect retry
	// enabled the token only fails on fatal option errors, which are
	// logged rather than returned.
	token := c.client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Error("mqtt initial connect failed", "error", err)
			}
		}
	}()

	return nil
}

// handleConnect is called by paho on initial connect and every reconnect.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	c.subscribeDeviceTopics()
	c.publishOnline()

	c.callbackMu.RLock()
	callback := c.onConnected
	c.callbackMu.RUnlock()
	if callback != nil {
		callback()
	}
}

// handleDisconnect is called when the connection is lost.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.callbackMu.RLock()
	callback := c.onDisconnected
	c.callbackMu.RUnlock()
	if callback != nil {
		callback(reasonFromError(err))
	}
}

// subscribeDeviceTopics (re)subscribes the config and command topics.
// Called on every connect so subscriptions survive reconnects.
func (c *Client) subscribeDeviceTopics() {
	topics := c.Topics()
	qos := byte(c.cfg.QoS)

	for _, topic := range []string{topics.ConfigTopic(), topics.CommandTopic()} {
		token := c.client.Subscribe(topic, qos, c.inboundHandler)
		if !token.WaitTimeout(defaultSubscribeTimeout) || token.Error() != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Error("mqtt subscribe failed", "topic", topic, "error", token.Error())
			}
		}
	}
}

// inboundHandler routes every inbound message through Receive and reports
// the outcome to the message observer.
func (c *Client) inboundHandler(_ pahomqtt.Client, msg pahomqtt.Message) {
	defer func() {
		if r := recover(); r != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Error("mqtt handler panic recovered",
					"topic", msg.Topic(),
					"panic", r,
				)
			}
		}
	}()

	code := c.Receive(msg.Topic(), msg.Payload())

	c.callbackMu.RLock()
	observer := c.onMessage
	c.callbackMu.RUnlock()
	if observer != nil {
		observer(msg.Topic(), code)
	}
}

// publishOnline publishes the retained online availability payload.
// The LWT replaces it with the offline payload on unexpected disconnect.
func (c *Client) publishOnline() {
	topics := c.Topics()
	c.client.Publish(topics.AvailabilityTopic(), byte(c.cfg.QoS), true, onlinePayload)
}

// Close gracefully disconnects from the MQTT broker.
//
// It publishes the offline availability payload (so a graceful shutdown
// looks the same as the LWT to subscribers), then disconnects with a
// quiesce period for pending operations.
//
// Returns:
//   - error: Always nil; kept for interface symmetry with other components
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		topics := c.Topics()
		token := c.client.Publish(topics.AvailabilityTopic(), byte(c.cfg.QoS), true, offlinePayload)
		token.WaitTimeout(defaultPublishTimeout)
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// HealthCheck verifies the MQTT connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if c.client == nil {
		return ErrNotStarted
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

// OnConnected sets the callback invoked on initial connect and every reconnect.
func (c *Client) OnConnected(callback func()) {
	c.callbackMu.Lock()
	c.onConnected = callback
	c.callbackMu.Unlock()
}

// OnDisconnected sets the callback invoked when the connection is lost,
// with the classified disconnect reason.
func (c *Client) OnDisconnected(callback func(reason DisconnectReason)) {
	c.callbackMu.Lock()
	c.onDisconnected = callback
	c.callbackMu.Unlock()
}

// OnConfig sets the handler for decoded configuration documents.
func (c *Client) OnConfig(handler DocHandler) {
	c.callbackMu.Lock()
	c.onConfig = handler
	c.callbackMu.Unlock()
}

// OnCommand sets the handler for decoded command documents.
func (c *Client) OnCommand(handler DocHandler) {
	c.callbackMu.Lock()
	c.onCommand = handler
	c.callbackMu.Unlock()
}

// OnMessage sets the observer invoked after every inbound message with
// its receive classification.
func (c *Client) OnMessage(observer MessageObserver) {
	c.callbackMu.Lock()
	c.onMessage = observer
	c.callbackMu.Unlock()
}

// SetLogger sets a logger for error logging.
// If not set, transport-level errors are silently ignored.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (c *Client) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

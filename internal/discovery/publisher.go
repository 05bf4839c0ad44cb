package discovery

import (
	"fmt"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/infrastructure/mqtt"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// Broadcaster is the publish capability the publisher needs from the
// MQTT client.
type Broadcaster interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// LinkChecker reports whether the network link is usable.
type LinkChecker interface {
	LinkUp() bool
}

// Logger is the optional logging capability (compatible with
// logging.Logger).
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Publisher sends Home Assistant discovery records over MQTT.
//
// Publishing is gated twice: the runtime State must have discovery
// enabled, and the network link must be up. Both gates failing is
// normal operation, so Publish reports success as a bool instead of an
// error.
type Publisher struct {
	State    *State
	Broker   Broadcaster
	Link     LinkChecker
	Firmware config.FirmwareConfig
	QoS      byte

	// Topics resolves the node's topic builder. A func because the
	// client id may be finalised after the publisher is constructed.
	Topics func() mqtt.Topics

	// OnPublish, when set, fires after each successful publish. The
	// orchestrator uses it to arm the activity flash.
	OnPublish func()

	Logger Logger
}

// Publish sends one discovery record, retained.
//
// Parameters:
//   - component: Home Assistant component type (e.g. "sensor", "switch")
//   - id: Entity id, unique within this node
//   - record: The discovery record; nil publishes an empty object, which
//     clears a previously retained record
//
// Returns:
//   - bool: true if the record reached the broker
func (p *Publisher) Publish(component, id string, record *jsondoc.Doc) bool {
	if !p.State.Enabled() {
		return false
	}
	if p.Link != nil && !p.Link.LinkUp() {
		return false
	}
	if component == "" || id == "" {
		p.warn("discovery publish skipped", "reason", "missing component or id")
		return false
	}

	if record == nil {
		record = jsondoc.NewObject()
	}
	payload, err := record.MarshalJSON()
	if err != nil {
		p.warn("discovery record encoding failed", "id", id, "error", err)
		return false
	}

	topic := p.topicFor(component, id)
	if err := p.Broker.Publish(topic, payload, p.QoS, true); err != nil {
		p.warn("discovery publish failed", "topic", topic, "error", err)
		return false
	}

	if p.OnPublish != nil {
		p.OnPublish()
	}
	return true
}

// Clear removes a previously retained discovery record.
func (p *Publisher) Clear(component, id string) bool {
	return p.Publish(component, id, nil)
}

// topicFor builds the discovery topic for one entity.
func (p *Publisher) topicFor(component, id string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", p.State.TopicPrefix(), component, p.Topics().ClientID, id)
}

func (p *Publisher) warn(msg string, args ...any) {
	if p.Logger != nil {
		p.Logger.Warn(msg, args...)
	}
}

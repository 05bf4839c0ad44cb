package mqtt

import (
	"fmt"

	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// Maximum payload size for MQTT messages (256KB).
// Adoption descriptors and discovery records are far below this; the cap
// prevents a runaway schema from exhausting broker limits.
const maxPayloadSize = 256 << 10

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - topic: The topic to publish to
//   - payload: The message payload (typically JSON)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishDoc encodes a document and publishes it.
func (c *Client) PublishDoc(topic string, doc *jsondoc.Doc, retained bool) error {
	payload, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %w", ErrPublishFailed, err)
	}
	return c.Publish(topic, payload, byte(c.cfg.QoS), retained)
}

// PublishStatus publishes a state document to the status topic.
func (c *Client) PublishStatus(doc *jsondoc.Doc) error {
	return c.PublishDoc(c.Topics().StatusTopic(), doc, false)
}

// PublishTelemetry publishes a telemetry document to the telemetry topic.
func (c *Client) PublishTelemetry(doc *jsondoc.Doc) error {
	return c.PublishDoc(c.Topics().TelemetryTopic(), doc, false)
}

// PublishAdoption publishes the adoption descriptor, retained, so a
// controller can adopt the device at any time after it connects.
func (c *Client) PublishAdoption(doc *jsondoc.Doc) error {
	return c.PublishDoc(c.Topics().AdoptionTopic(), doc, true)
}

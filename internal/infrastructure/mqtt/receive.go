package mqtt

import "github.com/edgenode-io/edgenode/internal/jsondoc"

// ReceiveCode classifies the outcome of processing one inbound message.
// Every non-OK code is a log-only fault: the message is dropped and
// processing continues with the next one.
type ReceiveCode int

// Receive outcomes.
const (
	// ReceiveOK means the payload was decoded and dispatched.
	ReceiveOK ReceiveCode = iota

	// ReceiveZeroLength means the payload was empty.
	ReceiveZeroLength

	// ReceiveDecodeError means the payload was not valid JSON.
	ReceiveDecodeError

	// ReceiveNoConfigHandler means a config payload arrived with no
	// registered config handler.
	ReceiveNoConfigHandler

	// ReceiveNoCommandHandler means a command payload arrived with no
	// registered command handler.
	ReceiveNoCommandHandler
)

// String returns the log message for the receive code.
func (r ReceiveCode) String() string {
	switch r {
	case ReceiveOK:
		return "ok"
	case ReceiveZeroLength:
		return "empty mqtt payload received"
	case ReceiveDecodeError:
		return "failed to deserialise mqtt json payload"
	case ReceiveNoConfigHandler:
		return "no mqtt config handler"
	case ReceiveNoCommandHandler:
		return "no mqtt command handler"
	default:
		return "unknown receive code"
	}
}

// Receive decodes and dispatches one raw inbound message.
//
// Routing is by exact topic match against the device's config and command
// topics. The payload must be non-empty, well-formed JSON; the decoded
// document is handed to the matching handler.
//
// Parameters:
//   - topic: The topic the message arrived on
//   - payload: The raw message payload
//
// Returns:
//   - ReceiveCode: ReceiveOK, or the fault classification
func (c *Client) Receive(topic string, payload []byte) ReceiveCode {
	if len(payload) == 0 {
		return ReceiveZeroLength
	}

	doc, err := jsondoc.Parse(payload)
	if err != nil {
		return ReceiveDecodeError
	}

	c.callbackMu.RLock()
	onConfig := c.onConfig
	onCommand := c.onCommand
	c.callbackMu.RUnlock()

	topics := c.Topics()
	switch topic {
	case topics.ConfigTopic():
		if onConfig == nil {
			return ReceiveNoConfigHandler
		}
		onConfig(doc)
	case topics.CommandTopic():
		if onCommand == nil {
			return ReceiveNoCommandHandler
		}
		onCommand(doc)
	default:
		// Only the two device topics are subscribed; anything else is a
		// broker-side misdelivery and is ignored.
	}

	return ReceiveOK
}

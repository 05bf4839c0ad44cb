package mqtt

import (
	"errors"

	"github.com/eclipse/paho.mqtt.golang/packets"
)

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrNotStarted is returned when the client has not been started yet.
	ErrNotStarted = errors.New("mqtt: client not started")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when a subscribe operation fails.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrInvalidQoS is returned when an invalid QoS level is specified.
	// Valid QoS levels are 0, 1, or 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic is returned when an empty or invalid topic is provided.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")

	// ErrMissingClientID is returned when Start is called before an
	// identity has been resolved.
	ErrMissingClientID = errors.New("mqtt: client id not set")
)

// DisconnectReason is the fixed set of broker disconnect causes.
// Each maps to a distinct human-readable message for logging; no
// reconnect logic hangs off these codes (paho handles reconnection).
type DisconnectReason int

// Disconnect reasons.
const (
	ReasonConnectionLost DisconnectReason = iota
	ReasonTimeout
	ReasonBadProtocol
	ReasonBadClientID
	ReasonServerUnavailable
	ReasonBadCredentials
	ReasonUnauthorised
)

// String returns the log message for the disconnect reason.
func (r DisconnectReason) String() string {
	switch r {
	case ReasonTimeout:
		return "mqtt connection timeout"
	case ReasonBadProtocol:
		return "mqtt bad protocol"
	case ReasonBadClientID:
		return "mqtt bad client id"
	case ReasonServerUnavailable:
		return "mqtt unavailable"
	case ReasonBadCredentials:
		return "mqtt bad credentials"
	case ReasonUnauthorised:
		return "mqtt unauthorised"
	default:
		return "mqtt connection lost"
	}
}

// reasonFromError classifies a paho disconnect error.
func reasonFromError(err error) DisconnectReason {
	switch {
	case errors.Is(err, packets.ErrorRefusedBadProtocolVersion):
		return ReasonBadProtocol
	case errors.Is(err, packets.ErrorRefusedIDRejected):
		return ReasonBadClientID
	case errors.Is(err, packets.ErrorRefusedServerUnavailable):
		return ReasonServerUnavailable
	case errors.Is(err, packets.ErrorRefusedBadUsernameOrPassword):
		return ReasonBadCredentials
	case errors.Is(err, packets.ErrorRefusedNotAuthorised):
		return ReasonUnauthorised
	case errors.Is(err, packets.ErrorNetworkError):
		return ReasonConnectionLost
	default:
		return ReasonConnectionLost
	}
}

package mqtt

import "strings"

// Topic type segments. The device listens on conf/cmnd and publishes on
// stat/tele/log, all scoped by the resolved client id.
const (
	topicConfig    = "conf"
	topicCommand   = "cmnd"
	topicStatus    = "stat"
	topicTelemetry = "tele"
	topicLog       = "log"
)

// Leaf segments under the status topic.
const (
	statusLeafAvailability = "lwt"
	statusLeafAdoption     = "adopt"
)

// Topics builds the device topic structure for a resolved identity.
// Topics are composed as {prefix}/{type}/{clientID}/{suffix} with the
// prefix and suffix segments omitted when empty.
//
//	topics := mqtt.Topics{ClientID: "a1b2c3"}
//	topics.ConfigTopic() // "conf/a1b2c3"
//
//	topics = mqtt.Topics{Prefix: "site", ClientID: "a1b2c3", Suffix: "attic"}
//	topics.StatusTopic() // "site/stat/a1b2c3/attic"
type Topics struct {
	Prefix   string
	Suffix   string
	ClientID string
}

// build assembles a topic of the given type for this identity.
func (t Topics) build(topicType string) string {
	parts := make([]string, 0, 4)
	if t.Prefix != "" {
		parts = append(parts, t.Prefix)
	}
	parts = append(parts, topicType, t.ClientID)
	if t.Suffix != "" {
		parts = append(parts, t.Suffix)
	}
	return strings.Join(parts, "/")
}

// ConfigTopic returns the topic the device receives configuration on.
func (t Topics) ConfigTopic() string {
	return t.build(topicConfig)
}

// CommandTopic returns the topic the device receives commands on.
func (t Topics) CommandTopic() string {
	return t.build(topicCommand)
}

// StatusTopic returns the topic the device publishes state to.
func (t Topics) StatusTopic() string {
	return t.build(topicStatus)
}

// TelemetryTopic returns the topic the device publishes telemetry to.
func (t Topics) TelemetryTopic() string {
	return t.build(topicTelemetry)
}

// LogTopic returns the topic the device mirrors log lines to.
func (t Topics) LogTopic() string {
	return t.build(topicLog)
}

// AvailabilityTopic returns the LWT topic carrying the online/offline
// payload. Retained so controllers learn availability on subscribe.
func (t Topics) AvailabilityTopic() string {
	return t.StatusTopic() + "/" + statusLeafAvailability
}

// AdoptionTopic returns the topic the adoption descriptor is published to
// on every broker connect. Retained so controllers can adopt at any time.
func (t Topics) AdoptionTopic() string {
	return t.StatusTopic() + "/" + statusLeafAdoption
}

package node

import (
	"context"

	"github.com/edgenode-io/edgenode/internal/infrastructure/mqtt"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
	"github.com/edgenode-io/edgenode/internal/schema"
	"github.com/edgenode-io/edgenode/internal/settings"
)

// handleConfig applies the built-in config options, persists the
// resulting discovery state, and forwards the entire original document
// to the firmware callback.
//
// Built-in handling and forwarding are both unconditional: firmware sees
// every config payload, including the keys this core consumed.
func (n *Node) handleConfig(doc *jsondoc.Doc) {
	touched := false

	if enabled, ok := doc.Get(schema.KeyHassDiscoveryEnabled); ok {
		n.disco.SetEnabled(enabled.Bool())
		touched = true
		n.logger.Info("discovery enabled updated", "enabled", enabled.Bool())
	}

	if prefix, ok := doc.Get(schema.KeyHassDiscoveryTopicPrefix); ok {
		if err := n.disco.SetTopicPrefix(prefix.Str()); err != nil {
			// Rejected prefixes leave the stored value unchanged.
			n.logger.Error("discovery topic prefix rejected", "error", err)
		} else {
			touched = true
			n.logger.Info("discovery topic prefix updated", "prefix", prefix.Str())
		}
	}

	if touched {
		n.persistDiscoveryState()
	}

	n.cbMu.RLock()
	callback := n.onConfig
	n.cbMu.RUnlock()
	if callback != nil {
		callback(doc)
	}
}

// handleCommand executes the built-in restart command and forwards
// everything else to the firmware callback.
func (n *Node) handleCommand(doc *jsondoc.Doc) {
	if restart, ok := doc.Get(schema.KeyRestart); ok && restart.Bool() {
		n.Restart()
		return
	}

	n.cbMu.RLock()
	callback := n.onCommand
	n.cbMu.RUnlock()
	if callback != nil {
		callback(doc)
	}
}

// observeReceive runs after every inbound broker message: arm the
// receive flash and log non-OK outcomes. Faults are log-only; the next
// message is processed normally.
func (n *Node) observeReceive(topic string, code mqtt.ReceiveCode) {
	n.light.FlashReceive()

	if code != mqtt.ReceiveOK {
		n.logger.Warn(code.String(), "topic", topic)
	}
}

// handleMQTTSettings persists broker connection overrides posted to the
// REST surface. The full document replaces the stored overrides: absent
// or empty fields are cleared, so they stop overriding the configured
// defaults. Overrides take effect on the next start.
func (n *Node) handleMQTTSettings(doc *jsondoc.Doc) error {
	str := func(key string) string {
		v, _ := doc.Get(key)
		return v.Str()
	}

	o := settings.MQTTOverrides{
		ClientID:    str("clientId"),
		BrokerHost:  str("broker"),
		Username:    str("username"),
		Password:    str("password"),
		TopicPrefix: str("topicPrefix"),
		TopicSuffix: str("topicSuffix"),
	}
	if v, ok := doc.Get("port"); ok {
		if port, err := v.Number().Int64(); err == nil {
			o.BrokerPort = int(port)
		}
	}

	if err := n.store.SaveMQTTOverrides(context.Background(), o); err != nil {
		return err
	}

	n.logger.Info("broker overrides saved, applied on next restart",
		"broker", o.BrokerHost,
		"client_id", o.ClientID,
	)
	return nil
}

// persistDiscoveryState saves the current discovery state so it survives
// a restart. Best-effort: persistence failures are logged, never fatal.
func (n *Node) persistDiscoveryState() {
	if n.store == nil {
		return
	}

	state := settings.DiscoveryState{
		Enabled:     n.disco.Enabled(),
		TopicPrefix: n.disco.TopicPrefix(),
	}
	if err := n.store.SaveDiscoveryState(context.Background(), state); err != nil {
		n.logger.Warn("persisting discovery state failed", "error", err)
	}
}

// SetConfigSchema declares the firmware's config schema fragment,
// replacing any previous declaration.
func (n *Node) SetConfigSchema(doc *jsondoc.Doc) {
	n.schemas.SetConfigSchema(doc)
}

// SetCommandSchema declares the firmware's command schema fragment.
func (n *Node) SetCommandSchema(doc *jsondoc.Doc) {
	n.schemas.SetCommandSchema(doc)
}

// OnConfig registers the firmware config callback. The callback runs on
// broker and API goroutines and should not block.
func (n *Node) OnConfig(callback func(doc *jsondoc.Doc)) {
	n.cbMu.Lock()
	n.onConfig = callback
	n.cbMu.Unlock()
}

// OnCommand registers the firmware command callback.
func (n *Node) OnCommand(callback func(doc *jsondoc.Doc)) {
	n.cbMu.Lock()
	n.onCommand = callback
	n.cbMu.Unlock()
}

// Package mqtt provides the device-side MQTT client for edgenode.
//
// This package manages:
//   - Connection to the broker with auto-reconnect and connect retry
//   - The device topic structure (conf/cmnd/stat/tele/log per client id)
//   - Last Will and Testament on the availability topic for offline detection
//   - Routing of inbound configuration and command payloads
//   - Retained publishing for adoption and discovery records
//
// # Identity
//
// The client id defaults to a MAC-derived value set by the orchestrator
// before Start, and may be overridden by the persisted settings store.
// All device topics embed the resolved client id, so identity must be
// final before the client starts.
//
// # Inbound routing
//
// The client subscribes to its configuration and command topics on every
// (re)connect. Each inbound payload is passed through Receive, which
// classifies it as one of a fixed set of receive codes; faults are
// log-only and never stop subsequent messages.
//
// # Usage
//
//	client := mqtt.New(cfg.MQTT)
//	client.SetClientID("a1b2c3")
//	client.OnConfig(func(doc *jsondoc.Doc) { ... })
//	client.OnCommand(func(doc *jsondoc.Doc) { ... })
//	if err := client.Start(); err != nil {
//	    return err
//	}
//	defer client.Close()
package mqtt

// Package node is the lifecycle orchestrator tying the capability
// providers together into one device-management core.
//
// Begin brings the node up in a fixed order: indicator boot sequence,
// network transport, broker client (MAC-derived identity, then persisted
// overrides), and finally the REST API. Run drives the periodic tick
// that maintains the transport, refreshes the connectivity indicator,
// and mirrors resource snapshots.
//
// Firmware integrates through the node's surface: declare config and
// command schemas, register config/command callbacks, publish status and
// telemetry, and publish Home Assistant discovery records. Inbound
// config documents handled here are also forwarded to the firmware
// callback, so firmware sees every payload including the built-in keys.
package node

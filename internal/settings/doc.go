// Package settings persists the node's runtime-adjustable values across
// restarts: broker connection overrides applied before the MQTT client
// starts, and the Home Assistant discovery state so an enabled node
// comes back enabled after a power cycle.
//
// The store is a single SQLite key/value table. Values the firmware
// never set are simply absent, and absent values leave the configured
// defaults in force.
package settings

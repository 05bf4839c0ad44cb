// Package logging provides structured logging for edgenode.
//
// This package manages:
//   - slog-based structured logging (JSON or text)
//   - Level filtering from configuration
//   - Default fields (service name, version)
//   - A fanout handler so log lines can be mirrored to the broker's
//     log topic once a connection exists
//
// The MQTT mirror is attached at runtime: the node starts logging to
// stdout/stderr only, and the orchestrator adds the broker writer after
// the first successful connect.
package logging

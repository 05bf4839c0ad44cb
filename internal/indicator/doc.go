// Package indicator drives the node's RGBW connectivity light.
//
// The light shows one of three steady connectivity colours (no network,
// network but no broker, fully connected), briefly overridden by an
// activity flash whenever a payload is received or transmitted. The
// orchestrator re-evaluates the colour every tick; the flash expires on
// its own after the configured duration and the steady colour returns.
package indicator

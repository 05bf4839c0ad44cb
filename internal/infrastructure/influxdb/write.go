package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/edgenode-io/edgenode/internal/jsondoc"
	"github.com/edgenode-io/edgenode/internal/sysinfo"
)

// WriteResourceSnapshot mirrors one resource usage snapshot.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - clientID: The node's broker client id, used as the point tag
//   - stats: Resource counters from the system introspector
//   - memoryUsedPct: Device-wide memory usage percent
func (c *Client) WriteResourceSnapshot(clientID string, stats sysinfo.Stats, memoryUsedPct float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"node_resources",
		map[string]string{
			"client_id": clientID,
		},
		map[string]interface{}{
			"heap_used_bytes":        stats.HeapUsed,
			"heap_free_bytes":        stats.HeapFree,
			"filesystem_used_bytes":  stats.FileSystemUsed,
			"filesystem_total_bytes": stats.FileSystemTotal,
			"memory_used_pct":        memoryUsedPct,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteTelemetry mirrors one telemetry document.
//
// Top-level numeric and boolean fields become point fields; nested
// objects, arrays, and strings are skipped since Influx fields are
// scalar. Documents with no mirrorable fields are dropped silently.
//
// Parameters:
//   - clientID: The node's broker client id, used as the point tag
//   - doc: The telemetry document as published over MQTT
func (c *Client) WriteTelemetry(clientID string, doc *jsondoc.Doc) {
	if !c.IsConnected() || !doc.IsObject() {
		return
	}

	fields := make(map[string]interface{})
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		switch value.Kind() {
		case jsondoc.Number:
			fields[key] = value.Float()
		case jsondoc.Bool:
			fields[key] = value.Bool()
		}
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"node_telemetry",
		map[string]string{
			"client_id": clientID,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

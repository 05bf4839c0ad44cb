// Package influxdb mirrors node telemetry into InfluxDB v2.
//
// The mirror is optional and disabled by default; MQTT remains the
// primary telemetry path. When enabled, every telemetry publish and the
// periodic resource snapshot are also written as points, giving a
// fleet-wide history without a broker-side collector.
//
// Writes are non-blocking and batched. A mirror outage never blocks or
// fails the MQTT path; async write errors surface through the error
// callback for logging only.
package influxdb

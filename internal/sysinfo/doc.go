// Package sysinfo reports live resource usage for the adoption descriptor.
//
// The adoption document carries heap, flash, program-space, and filesystem
// counters so a controller can see how loaded the node is. Counters are
// queried at build time, never cached: two adoption builds reflect two
// measurements.
//
// The host implementation combines the Go runtime's own heap statistics
// with gopsutil for device-wide memory and disk figures.
package sysinfo

package sysinfo

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats is one snapshot of resource usage. All values are bytes.
type Stats struct {
	HeapUsed          uint64
	HeapFree          uint64
	FlashChipSize     uint64
	ProgramSpaceUsed  uint64
	ProgramSpaceTotal uint64
	FileSystemUsed    uint64
	FileSystemTotal   uint64
}

// Introspector supplies resource usage snapshots.
//
// The adoption builder takes this as an interface so tests can substitute
// deterministic counters.
type Introspector interface {
	Stats() Stats
}

// Host reads resource usage from the running process and the OS.
//
// Mapping:
//   - Heap: Go runtime heap (alloc vs. reserved-but-unused)
//   - Flash chip size: total bytes of the data filesystem
//   - Program space: binary size vs. free space on the binary's filesystem
//   - Filesystem: used/total bytes of the data filesystem
type Host struct {
	// DataPath is the filesystem the node stores data on. Defaults to "/".
	DataPath string
}

// NewHost returns a host introspector rooted at the given data path.
func NewHost(dataPath string) *Host {
	if dataPath == "" {
		dataPath = "/"
	}
	return &Host{DataPath: dataPath}
}

// Stats queries all counters. Individual probe failures zero the affected
// counters rather than failing the snapshot; adoption must always succeed.
func (h *Host) Stats() Stats {
	var s Stats

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.HeapUsed = ms.HeapAlloc
	s.HeapFree = ms.HeapSys - ms.HeapAlloc

	if usage, err := disk.Usage(h.DataPath); err == nil {
		s.FlashChipSize = usage.Total
		s.FileSystemUsed = usage.Used
		s.FileSystemTotal = usage.Total
	}

	s.ProgramSpaceUsed, s.ProgramSpaceTotal = programSpace()

	return s
}

// programSpace reports the binary's size and the free space where it lives.
func programSpace() (used, total uint64) {
	exe, err := os.Executable()
	if err != nil {
		return 0, 0
	}
	info, err := os.Stat(exe)
	if err != nil {
		return 0, 0
	}
	used = uint64(info.Size())

	total = used
	if usage, err := disk.Usage(exe); err == nil {
		total = used + usage.Free
	}
	return used, total
}

// MemoryPressure reports device-wide memory usage percent, used by the
// telemetry mirror. Returns 0 when the probe fails.
func MemoryPressure() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.UsedPercent
}

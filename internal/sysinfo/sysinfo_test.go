package sysinfo

import "testing"

func TestNewHostDefaultsDataPath(t *testing.T) {
	h := NewHost("")
	if h.DataPath != "/" {
		t.Errorf("DataPath = %q, want %q", h.DataPath, "/")
	}
}

func TestHostStatsHeapCounters(t *testing.T) {
	h := NewHost("/")

	s := h.Stats()
	if s.HeapUsed == 0 {
		t.Error("HeapUsed = 0, want live heap measurement")
	}
}

func TestHostStatsAreLive(t *testing.T) {
	h := NewHost("/")

	first := h.Stats()

	// Allocate between snapshots so the heap counters move.
	ballast := make([]byte, 4<<20)
	for i := range ballast {
		ballast[i] = byte(i)
	}

	second := h.Stats()
	_ = ballast[0]

	if first.HeapUsed == second.HeapUsed {
		t.Error("HeapUsed identical across snapshots with allocation in between; counters appear cached")
	}
}

func TestHostStatsFilesystem(t *testing.T) {
	h := NewHost("/")

	s := h.Stats()
	if s.FileSystemTotal == 0 {
		t.Skip("no filesystem stats available in this environment")
	}
	if s.FileSystemUsed > s.FileSystemTotal {
		t.Errorf("FileSystemUsed = %d > FileSystemTotal = %d", s.FileSystemUsed, s.FileSystemTotal)
	}
	if s.FlashChipSize != s.FileSystemTotal {
		t.Errorf("FlashChipSize = %d, want FileSystemTotal %d", s.FlashChipSize, s.FileSystemTotal)
	}
}

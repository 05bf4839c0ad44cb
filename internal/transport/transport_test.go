package transport

import (
	"errors"
	"net"
	"testing"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
)

// =============================================================================
// Selection Tests
// =============================================================================

func TestNewUnknownMode(t *testing.T) {
	_, err := New(config.NetworkConfig{Mode: "token-ring", Interface: "eth0"})
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("New() error = %v, want ErrUnknownMode", err)
	}
}

func TestNewMissingInterface(t *testing.T) {
	_, err := New(config.NetworkConfig{Mode: "ethernet", Interface: "definitely-not-here0"})
	if !errors.Is(err, ErrInterfaceNotFound) {
		t.Errorf("New() error = %v, want ErrInterfaceNotFound", err)
	}
}

func TestModeTag(t *testing.T) {
	tr := &interfaceTransport{mode: "wifi"}
	if tr.Mode() != "wifi" {
		t.Errorf("Mode() = %q, want %q", tr.Mode(), "wifi")
	}
}

// =============================================================================
// MAC Helper Tests
// =============================================================================

func TestFormatMAC(t *testing.T) {
	mac := net.HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}

	want := "DE:AD:BE:EF:00:01"
	if got := FormatMAC(mac); got != want {
		t.Errorf("FormatMAC() = %q, want %q", got, want)
	}
}

func TestFormatMACUppercase(t *testing.T) {
	mac := net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}

	want := "AA:BB:CC:DD:EE:FF"
	if got := FormatMAC(mac); got != want {
		t.Errorf("FormatMAC() = %q, want %q", got, want)
	}
}

func TestDefaultClientID(t *testing.T) {
	mac := net.HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0x0a, 0x01}

	want := "ef0a01"
	if got := DefaultClientID(mac); got != want {
		t.Errorf("DefaultClientID() = %q, want %q", got, want)
	}
}

func TestDefaultClientIDShortMAC(t *testing.T) {
	if got := DefaultClientID(net.HardwareAddr{0x01}); got != "" {
		t.Errorf("DefaultClientID(short) = %q, want empty", got)
	}
}

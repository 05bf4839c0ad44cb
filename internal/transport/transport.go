package transport

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
)

// Transport errors.
var (
	// ErrUnknownMode is returned for a network mode other than wifi/ethernet.
	ErrUnknownMode = errors.New("transport: unknown network mode")

	// ErrInterfaceNotFound is returned when the configured interface does not exist.
	ErrInterfaceNotFound = errors.New("transport: interface not found")

	// ErrNoHardwareAddr is returned when the interface has no MAC address.
	ErrNoHardwareAddr = errors.New("transport: interface has no hardware address")
)

// Transport is the network capability the core consumes.
//
// Implementations must be cheap to query: LinkUp and LocalAddr are polled
// every orchestrator tick by the connectivity indicator.
type Transport interface {
	// Mode returns the transport variant tag ("wifi" or "ethernet").
	Mode() string

	// LinkUp reports whether the link is up and running.
	LinkUp() bool

	// LocalAddr returns the current IPv4 address, or nil when unassigned.
	LocalAddr() net.IP

	// HardwareAddr returns the interface MAC address.
	HardwareAddr() net.HardwareAddr

	// Maintain refreshes cached link state. DHCP renewal is the OS's
	// job; this only re-reads interface flags.
	Maintain() error
}

// New selects and initialises the transport variant from configuration.
//
// Parameters:
//   - cfg: Network configuration (mode and interface name)
//
// Returns:
//   - Transport: Initialised transport bound to the OS interface
//   - error: If the mode is unknown or the interface is missing
func New(cfg config.NetworkConfig) (Transport, error) {
	switch cfg.Mode {
	case "wifi":
		return newInterfaceTransport("wifi", cfg.Interface)
	case "ethernet":
		return newInterfaceTransport("ethernet", cfg.Interface)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}

// FormatMAC renders a hardware address as six colon-separated uppercase
// hex byte pairs, e.g. "DE:AD:BE:EF:00:01".
func FormatMAC(mac net.HardwareAddr) string {
	parts := make([]string, len(mac))
	for i, b := range mac {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}

// DefaultClientID derives the default broker client id from the last
// three bytes of the MAC address, lowercase hex.
func DefaultClientID(mac net.HardwareAddr) string {
	if len(mac) < 3 {
		return ""
	}
	tail := mac[len(mac)-3:]
	return fmt.Sprintf("%02x%02x%02x", tail[0], tail[1], tail[2])
}

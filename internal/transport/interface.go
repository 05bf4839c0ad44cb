package transport

import (
	"fmt"
	"net"
	"sync"
)

// interfaceTransport binds a transport variant to a named OS interface.
// WiFi and Ethernet differ only in the mode tag reported to adoption;
// link state, addressing, and DHCP all flow through the OS either way.
type interfaceTransport struct {
	mode   string
	ifName string
	hwAddr net.HardwareAddr

	mu     sync.RWMutex
	linkUp bool
	addr   net.IP
}

func newInterfaceTransport(mode, ifName string) (*interfaceTransport, error) {
	iface, err := net.InterfaceByName(ifName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInterfaceNotFound, ifName, err)
	}
	if len(iface.HardwareAddr) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoHardwareAddr, ifName)
	}

	t := &interfaceTransport{
		mode:   mode,
		ifName: ifName,
		hwAddr: iface.HardwareAddr,
	}
	// Populate initial state; a down link at startup is not an error.
	if err := t.Maintain(); err != nil {
		return nil, err
	}
	return t, nil
}

// Mode returns the transport variant tag.
func (t *interfaceTransport) Mode() string {
	return t.mode
}

// LinkUp reports the link state as of the last Maintain call.
func (t *interfaceTransport) LinkUp() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.linkUp
}

// LocalAddr returns the IPv4 address as of the last Maintain call.
func (t *interfaceTransport) LocalAddr() net.IP {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.addr
}

// HardwareAddr returns the interface MAC address.
func (t *interfaceTransport) HardwareAddr() net.HardwareAddr {
	return t.hwAddr
}

// Maintain re-reads interface flags and addresses from the OS.
//
// Returns:
//   - error: If the interface has disappeared entirely
func (t *interfaceTransport) Maintain() error {
	iface, err := net.InterfaceByName(t.ifName)
	if err != nil {
		t.mu.Lock()
		t.linkUp = false
		t.addr = nil
		t.mu.Unlock()
		return fmt.Errorf("%w: %q: %w", ErrInterfaceNotFound, t.ifName, err)
	}

	up := iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagRunning != 0

	var addr net.IP
	if up {
		addrs, err := iface.Addrs()
		if err == nil {
			for _, a := range addrs {
				if ipNet, ok := a.(*net.IPNet); ok {
					if ip4 := ipNet.IP.To4(); ip4 != nil {
						addr = ip4
						break
					}
				}
			}
		}
	}

	t.mu.Lock()
	t.linkUp = up
	t.addr = addr
	t.mu.Unlock()

	return nil
}

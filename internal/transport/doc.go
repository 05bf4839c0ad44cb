// Package transport abstracts the network link the node runs on.
//
// The core only needs four things from the network: whether the link is
// up, the local address, the hardware address, and a periodic maintenance
// hook. Two implementations exist — WiFi and Ethernet — both backed by a
// named OS interface and selected by configuration rather than build tags,
// so a single binary serves both variants.
//
// Address acquisition (DHCP) and link recovery are owned by the operating
// system; Maintain is a cheap state refresh, not a reconnect loop.
package transport

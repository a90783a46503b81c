package tunif

import "inet.af/netaddr"

// Configurator attaches host-side routing and addressing to a named
// interface. Production implementations mutate the host's network
// configuration; tests substitute a fake that records calls.
type Configurator interface {
	// BringUp sets the interface administratively up.
	BringUp(name string) error

	// AssignAddress adds a local address (with prefix length) to the
	// interface.
	AssignAddress(name string, addr netaddr.IPPrefix) error

	// AddRoute routes the destination prefix through the interface.
	AddRoute(name string, dst netaddr.IPPrefix) error

	// SetMTU sets the interface MTU.
	SetMTU(name string, mtu int) error
}

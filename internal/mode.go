package tunif

import (
	"fmt"

	"inet.af/netaddr"
)

// Mode selects how host-side addressing is established for a new
// interface.
type Mode int

const (
	// ModeFixedPeer routes the fixed peer address through the
	// interface. The host keeps LocalAddr, the program answers as
	// PeerAddr.
	ModeFixedPeer Mode = iota

	// ModeRemoteAddr routes a caller-supplied IPv4 host address
	// through the interface.
	ModeRemoteAddr

	// ModeSubnet assigns LocalAddr to the interface and routes the
	// whole TunnelSubnet through it.
	ModeSubnet
)

// Fixed addressing constants shared by every deployment: the host side
// of the tunnel is 10.0.0.1, the program side 10.0.0.2, and subnet
// mode owns the surrounding /24.
var (
	LocalAddr    = netaddr.MustParseIP("10.0.0.1")
	PeerAddr     = netaddr.MustParseIP("10.0.0.2")
	TunnelSubnet = netaddr.MustParseIPPrefix("10.0.0.0/24")
)

const (
	// DefaultMTU matches the kernel default for TUN devices.
	DefaultMTU = 1500

	localPrefixBits = 24
)

func (m Mode) String() string {
	switch m {
	case ModeFixedPeer:
		return "fixed-peer"
	case ModeRemoteAddr:
		return "remote-address"
	case ModeSubnet:
		return "subnet"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps the config-file / CLI spelling of a mode to its value.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "fixed-peer":
		return ModeFixedPeer, nil
	case "remote-address":
		return ModeRemoteAddr, nil
	case "subnet":
		return ModeSubnet, nil
	default:
		return 0, fmt.Errorf("unknown addressing mode %q", s)
	}
}

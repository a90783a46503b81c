package tunif

import (
	"fmt"
	"os"

	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
	"inet.af/netaddr"
)

// NetlinkConfigurator configures the interface with direct rtnetlink
// calls instead of spawning ip(8). Requires CAP_NET_ADMIN. Re-adding
// an address or route that already exists is not an error.
type NetlinkConfigurator struct {
	logger *zap.SugaredLogger
}

func NewNetlinkConfigurator(logger *zap.SugaredLogger) *NetlinkConfigurator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &NetlinkConfigurator{logger: logger}
}

func (c *NetlinkConfigurator) BringUp(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("lookup link %s: %w", name, err)
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("set link %s up: %w", name, err)
	}
	c.logger.Debugf("TUN interface %s is up", name)
	return nil
}

func (c *NetlinkConfigurator) AssignAddress(name string, addr netaddr.IPPrefix) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("lookup link %s: %w", name, err)
	}
	nlAddr := &netlink.Addr{IPNet: addr.IPNet()}
	if err := netlink.AddrAdd(link, nlAddr); err != nil && !os.IsExist(err) {
		return fmt.Errorf("add address %s to %s: %w", addr, name, err)
	}
	c.logger.Debugf("IP address %s assigned to TUN interface %s", addr, name)
	return nil
}

func (c *NetlinkConfigurator) AddRoute(name string, dst netaddr.IPPrefix) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("lookup link %s: %w", name, err)
	}
	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Dst:       dst.IPNet(),
		Scope:     netlink.SCOPE_LINK,
	}
	if err := netlink.RouteAdd(route); err != nil && !os.IsExist(err) {
		return fmt.Errorf("add route %s via %s: %w", dst, name, err)
	}
	c.logger.Debugf("route %s added via TUN interface %s", dst, name)
	return nil
}

func (c *NetlinkConfigurator) SetMTU(name string, mtu int) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("lookup link %s: %w", name, err)
	}
	if err := netlink.LinkSetMTU(link, mtu); err != nil {
		return fmt.Errorf("set MTU on %s: %w", name, err)
	}
	return nil
}

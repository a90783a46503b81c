package tunif

import (
	"fmt"
	"os/exec"
	"strconv"

	"go.uber.org/zap"
	"inet.af/netaddr"
)

// ExecConfigurator configures the interface by shelling out to ip(8).
// Every command's exit status is checked and returned; nothing is
// fire-and-forget.
type ExecConfigurator struct {
	logger *zap.SugaredLogger
}

func NewExecConfigurator(logger *zap.SugaredLogger) *ExecConfigurator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ExecConfigurator{logger: logger}
}

func (c *ExecConfigurator) run(args ...string) error {
	cmd := exec.Command("ip", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ip %v: %v: %s", args, err, out)
	}
	return nil
}

func (c *ExecConfigurator) BringUp(name string) error {
	if err := c.run("link", "set", "dev", name, "up"); err != nil {
		return err
	}
	c.logger.Debugf("TUN interface %s is up", name)
	return nil
}

func (c *ExecConfigurator) AssignAddress(name string, addr netaddr.IPPrefix) error {
	if err := c.run("addr", "add", addr.String(), "dev", name); err != nil {
		return err
	}
	c.logger.Debugf("IP address %s assigned to TUN interface %s", addr, name)
	return nil
}

func (c *ExecConfigurator) AddRoute(name string, dst netaddr.IPPrefix) error {
	if err := c.run("route", "add", dst.String(), "dev", name); err != nil {
		return err
	}
	c.logger.Debugf("route %s added via TUN interface %s", dst, name)
	return nil
}

func (c *ExecConfigurator) SetMTU(name string, mtu int) error {
	return c.run("link", "set", "dev", name, "mtu", strconv.Itoa(mtu))
}

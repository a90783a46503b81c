package tunif

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"inet.af/netaddr"
)

// fakeConfigurator records calls instead of mutating host routing
// tables. failOn makes the first call with that prefix fail.
type fakeConfigurator struct {
	calls  []string
	failOn string
}

func (f *fakeConfigurator) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		return errors.New("configurator failure injected")
	}
	return nil
}

func (f *fakeConfigurator) BringUp(name string) error {
	return f.record("up " + name)
}

func (f *fakeConfigurator) AssignAddress(name string, addr netaddr.IPPrefix) error {
	return f.record(fmt.Sprintf("addr %s %s", name, addr))
}

func (f *fakeConfigurator) AddRoute(name string, dst netaddr.IPPrefix) error {
	return f.record(fmt.Sprintf("route %s %s", name, dst))
}

func (f *fakeConfigurator) SetMTU(name string, mtu int) error {
	return f.record(fmt.Sprintf("mtu %s %d", name, mtu))
}

func testInterfaceNamed(name string) *Interface {
	return &Interface{logger: zap.NewNop().Sugar(), name: name}
}

func TestConfigureCallOrder(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "fixed-peer",
			cfg:  Config{Mode: ModeFixedPeer, MTU: 1500},
			want: []string{
				"up tun9",
				"route tun9 10.0.0.2/32",
				"mtu tun9 1500",
			},
		},
		{
			name: "remote-address",
			cfg: Config{
				Mode:          ModeRemoteAddr,
				RemoteAddress: netaddr.MustParseIP("192.0.2.7"),
				MTU:           1400,
			},
			want: []string{
				"up tun9",
				"route tun9 192.0.2.7/32",
				"mtu tun9 1400",
			},
		},
		{
			name: "subnet",
			cfg:  Config{Mode: ModeSubnet, MTU: 1500},
			want: []string{
				"up tun9",
				"addr tun9 10.0.0.1/24",
				"route tun9 10.0.0.0/24",
				"mtu tun9 1500",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeConfigurator{}
			vi := testInterfaceNamed("tun9")
			require.NoError(t, vi.configure(fake, tc.cfg))
			assert.Equal(t, tc.want, fake.calls)
		})
	}
}

func TestConfigureBringUpFailureIsFatal(t *testing.T) {
	fake := &fakeConfigurator{failOn: "up"}
	vi := testInterfaceNamed("tun9")

	err := vi.configure(fake, Config{Mode: ModeSubnet, MTU: 1500})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, []string{"up tun9"}, fake.calls)
}

func TestConfigureRemoteAddrRequiresIPv4(t *testing.T) {
	vi := testInterfaceNamed("tun9")

	for _, addr := range []netaddr.IP{{}, netaddr.MustParseIP("2001:db8::1")} {
		fake := &fakeConfigurator{}
		err := vi.configure(fake, Config{Mode: ModeRemoteAddr, RemoteAddress: addr, MTU: 1500})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)
		// Nothing beyond bring-up may have run.
		assert.Equal(t, []string{"up tun9"}, fake.calls)
	}
}

func TestConfigureUnknownMode(t *testing.T) {
	vi := testInterfaceNamed("tun9")
	err := vi.configure(&fakeConfigurator{}, Config{Mode: Mode(42), MTU: 1500})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

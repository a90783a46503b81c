package tunif

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"inet.af/netaddr"
)

// Config describes how Initialize acquires and configures a TUN
// interface.
type Config struct {
	// Mode selects how host-side addressing is established.
	Mode Mode

	// RemoteAddress is the host address routed through the interface
	// in ModeRemoteAddr. Must be IPv4; ignored by the other modes.
	RemoteAddress netaddr.IP

	// MTU for the interface. Zero means DefaultMTU.
	MTU int

	// DevicePath overrides the TUN clone device node. Empty means
	// /dev/net/tun.
	DevicePath string

	// Configurator applies host-side routing and addressing. Nil
	// selects the ip(8) exec-based one.
	Configurator Configurator

	// Logger receives lifecycle events. Nil disables logging.
	Logger *zap.SugaredLogger
}

// Interface is an initialized TUN interface: the host routes the
// configured subnet or address through it, inbound packets are read
// with Receive, and written packets appear to the host as arriving
// from the remote side.
//
// Concurrency: access is synchronized internally. Receive is
// serialized by one mutex, Send/SendBatch by another, so one reader
// and one writer may proceed concurrently (the Linux TUN descriptor
// is safe for that pairing). Close may be called at any time and
// unblocks a pending Receive.
type Interface struct {
	logger *zap.SugaredLogger
	name   string

	// file is set once by Initialize and never reassigned; nil only
	// on a zero-value Interface.
	file   *os.File
	closed atomic.Bool

	readMu  sync.Mutex
	writeMu sync.Mutex
}

// Initialize opens the TUN device, registers a new interface with the
// kernel, and configures host-side addressing for cfg.Mode. On success
// the returned interface is ready for Receive/Send; the kernel-assigned
// name is available via Name.
//
// Configuration failures are fatal: the device is released and an
// error matching ErrConfiguration is returned.
func Initialize(cfg Config) (*Interface, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.MTU == 0 {
		cfg.MTU = DefaultMTU
	}
	path := cfg.DevicePath
	if path == "" {
		path = defaultDevicePath
	}

	file, name, err := openDevice(path)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debugf("TUN interface created: %s", name)

	return initialize(file, name, cfg)
}

func initialize(file *os.File, name string, cfg Config) (*Interface, error) {
	vi := &Interface{
		logger: cfg.Logger,
		name:   name,
		file:   file,
	}

	cfgtor := cfg.Configurator
	if cfgtor == nil {
		cfgtor = NewExecConfigurator(cfg.Logger)
	}
	if err := vi.configure(cfgtor, cfg); err != nil {
		file.Close()
		return nil, err
	}

	cfg.Logger.Infof("TUN interface %s is up and running", name)
	return vi, nil
}

func (vi *Interface) configure(c Configurator, cfg Config) error {
	if err := c.BringUp(vi.name); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	switch cfg.Mode {
	case ModeFixedPeer:
		if err := c.AddRoute(vi.name, netaddr.IPPrefixFrom(PeerAddr, 32)); err != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	case ModeRemoteAddr:
		if !cfg.RemoteAddress.Is4() {
			return fmt.Errorf("%w: remote-address mode requires an IPv4 address", ErrConfiguration)
		}
		if err := c.AddRoute(vi.name, netaddr.IPPrefixFrom(cfg.RemoteAddress, 32)); err != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	case ModeSubnet:
		if err := c.AssignAddress(vi.name, netaddr.IPPrefixFrom(LocalAddr, localPrefixBits)); err != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		if err := c.AddRoute(vi.name, TunnelSubnet); err != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	default:
		return fmt.Errorf("%w: unknown addressing mode %v", ErrConfiguration, cfg.Mode)
	}

	if err := c.SetMTU(vi.name, cfg.MTU); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// Name returns the kernel-assigned interface name, e.g. "tun0".
func (vi *Interface) Name() string {
	return vi.name
}

func (vi *Interface) ready() bool {
	return vi.file != nil && !vi.closed.Load()
}

// Receive blocks until one inbound packet is available and copies it
// into buf, returning the byte count. One read corresponds to one
// kernel-delivered packet; a packet larger than buf is silently
// truncated to len(buf) with no error, and the remainder is discarded.
// A zero-length packet is valid and returns (0, nil), so success is
// judged by the error value, never the count alone.
func (vi *Interface) Receive(buf []byte) (int, error) {
	vi.readMu.Lock()
	defer vi.readMu.Unlock()
	if !vi.ready() {
		return 0, ErrNotReady
	}
	n, err := vi.file.Read(buf)
	if n == 0 && errors.Is(err, io.EOF) {
		// The descriptor never reaches end-of-file while the
		// interface is open; a zero-byte read is an empty packet.
		// Teardown surfaces as os.ErrClosed, not io.EOF.
		return 0, nil
	}
	return n, err
}

// Send writes buf to the interface as one outbound packet and returns
// the byte count.
func (vi *Interface) Send(buf []byte) (int, error) {
	vi.writeMu.Lock()
	defer vi.writeMu.Unlock()
	if !vi.ready() {
		return 0, ErrNotReady
	}
	return vi.file.Write(buf)
}

// SendBatch writes the slices, in order, as ONE outbound packet using
// a single scatter/gather kernel call. The result on the wire is
// identical to Send of the concatenated slices, without the
// intermediate copy. At most maxSendVectors (1024) slices are
// accepted. An empty batch writes nothing.
func (vi *Interface) SendBatch(bufs [][]byte) (int, error) {
	vi.writeMu.Lock()
	defer vi.writeMu.Unlock()
	if !vi.ready() {
		return 0, ErrNotReady
	}
	switch {
	case len(bufs) == 0:
		return 0, nil
	case len(bufs) == 1:
		return vi.file.Write(bufs[0])
	case len(bufs) > maxSendVectors:
		return 0, fmt.Errorf("%w: %d slices, limit %d", ErrBatchTooLarge, len(bufs), maxSendVectors)
	}
	return writev(vi.file, bufs)
}

// SetReadDeadline bounds a pending or future Receive; an expired
// deadline surfaces os.ErrDeadlineExceeded. The zero time removes the
// deadline.
func (vi *Interface) SetReadDeadline(t time.Time) error {
	if !vi.ready() {
		return ErrNotReady
	}
	return vi.file.SetReadDeadline(t)
}

// SetWriteDeadline bounds a pending or future Send or SendBatch.
func (vi *Interface) SetWriteDeadline(t time.Time) error {
	if !vi.ready() {
		return ErrNotReady
	}
	return vi.file.SetWriteDeadline(t)
}

// Close releases the device descriptor. The kernel removes the
// interface and its routes. A Receive blocked in the poller returns
// with an error wrapping os.ErrClosed; later calls return ErrNotReady.
func (vi *Interface) Close() error {
	if vi.file == nil {
		return ErrNotReady
	}
	if vi.closed.Swap(true) {
		return os.ErrClosed
	}
	vi.logger.Infof("TUN interface %s closed", vi.name)
	return vi.file.Close()
}

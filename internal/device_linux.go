//go:build linux

package tunif

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// defaultDevicePath is the clone device of the universal TUN/TAP
// driver.
// https://www.kernel.org/doc/Documentation/networking/tuntap.txt
const defaultDevicePath = "/dev/net/tun"

// maxSendVectors is IOV_MAX on Linux.
const maxSendVectors = 1024

// openDevice opens the TUN clone device and registers a TUN-type
// interface with no packet-information header, so reads and writes
// carry raw IP bytes only. The kernel assigns the interface name.
//
// The descriptor is switched to non-blocking mode before it is handed
// to os.NewFile so it lands in the runtime poller: Read still blocks
// until a packet arrives, but honors deadlines and unblocks on Close.
func openDevice(path string) (*os.File, string, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, "", fmt.Errorf("%w: open %s: %v", ErrDeviceOpen, path, err)
	}

	ifr, err := unix.NewIfreq("")
	if err != nil {
		unix.Close(fd)
		return nil, "", fmt.Errorf("%w: %v", ErrRegistration, err)
	}
	ifr.SetUint16(unix.IFF_TUN | unix.IFF_NO_PI)
	if err := unix.IoctlIfreq(fd, unix.TUNSETIFF, ifr); err != nil {
		unix.Close(fd)
		return nil, "", fmt.Errorf("%w: TUNSETIFF: %v", ErrRegistration, err)
	}
	name := ifr.Name()

	_ = unix.SetNonblock(fd, true)
	return os.NewFile(uintptr(fd), name), name, nil
}

// writev writes all slices to the device as one packet in a single
// kernel call.
func writev(f *os.File, bufs [][]byte) (int, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return 0, err
	}
	var (
		n    int
		werr error
	)
	err = rc.Write(func(fd uintptr) (done bool) {
		n, werr = unix.Writev(int(fd), bufs)
		return werr != unix.EAGAIN
	})
	if err != nil {
		return 0, err
	}
	if werr != nil {
		return 0, &os.PathError{Op: "writev", Path: f.Name(), Err: werr}
	}
	return n, nil
}

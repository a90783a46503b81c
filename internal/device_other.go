//go:build !linux

package tunif

import (
	"fmt"
	"os"
)

const defaultDevicePath = "/dev/net/tun"

const maxSendVectors = 1024

func openDevice(path string) (*os.File, string, error) {
	return nil, "", fmt.Errorf("%w: TUN devices are only supported on linux", ErrDeviceOpen)
}

func writev(f *os.File, bufs [][]byte) (int, error) {
	return 0, fmt.Errorf("scatter/gather write is only supported on linux")
}

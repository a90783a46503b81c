package tunif

import "errors"

// Error taxonomy for interface lifecycle failures. Callers match with
// errors.Is; read/write failures pass through as the descriptor's own
// errors (*os.PathError, os.ErrDeadlineExceeded).
var (
	// ErrDeviceOpen means the TUN device node could not be opened,
	// commonly a missing tun kernel module or missing CAP_NET_ADMIN.
	ErrDeviceOpen = errors.New("tun device open failed")

	// ErrRegistration means the kernel rejected the interface
	// registration control call.
	ErrRegistration = errors.New("tun interface registration rejected")

	// ErrConfiguration means bringing the interface up or installing
	// its address/route failed.
	ErrConfiguration = errors.New("tun interface configuration failed")

	// ErrNotReady means the operation was invoked on an interface that
	// was never initialized or has been closed.
	ErrNotReady = errors.New("tun interface not initialized")

	// ErrBatchTooLarge means a SendBatch call carried more slices than
	// one scatter/gather write can cover.
	ErrBatchTooLarge = errors.New("packet batch exceeds vector limit")
)

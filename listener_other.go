//go:build !unix

package tsnet

import (
	"errors"
	"net"
)

// errUnsupportedPlatform is returned by every raw-syscall primitive on
// targets outside the unix build tag. The module's non-blocking accept/
// connect/read/write path is grounded in golang.org/x/sys/unix; a genuine
// port to another platform family needs its own syscall layer, split by
// build tag the same way the asyncio Waiter already is.
var errUnsupportedPlatform = errors.New("tsnet: unsupported platform")

func openListener(addr string, ipv6Enabled bool) (fd int, boundPort int, err error) {
	return -1, 0, errUnsupportedPlatform
}

func acceptOne(listenFD int) (fd int, remote net.Addr, ok bool, err error) {
	return -1, nil, false, errUnsupportedPlatform
}

func dialNonblocking(host string, port int) (fd int, inProgress bool, err error) {
	return -1, false, errUnsupportedPlatform
}

func connectError(fd int) (int, error) {
	return -1, errUnsupportedPlatform
}

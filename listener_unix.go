//go:build unix

package tsnet

import (
	"net"

	nerrors "github.com/orizon-lang/tsnet/internal/errors"
	"golang.org/x/sys/unix"
)

// listenBacklog is the generous backlog the source asks for; large enough
// that a burst of simultaneous inbound connections doesn't get refused while
// this loop is busy servicing the previous pass.
const listenBacklog = 1024

// openListener parses addr, opens a non-blocking, address-reusable listening
// socket bound to it, and reports the port actually bound. The bare string
// "0", which ParseAddress rejects, is handled here as an IPv4 wildcard bind
// on an OS-chosen ephemeral port; the port read back is that ephemeral port.
func openListener(addr string, ipv6Enabled bool) (fd int, boundPort int, err error) {
	pa := parsedAddress{}
	if addr != "0" {
		var perr error
		if pa, perr = ParseAddress(addr, ipv6Enabled); perr != nil {
			return -1, 0, perr
		}
	}

	family := unix.AF_INET
	if pa.ipv6 {
		family = unix.AF_INET6
	}

	fd, err = unix.Socket(family, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, 0, err
	}
	closeOnErr := func() { unix.Close(fd) }

	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		closeOnErr()
		return -1, 0, err
	}

	var sa unix.Sockaddr
	if pa.ipv6 {
		var a6 unix.SockaddrInet6
		a6.Port = pa.port
		if pa.ip != nil {
			copy(a6.Addr[:], pa.ip.To16())
		}
		sa = &a6
	} else {
		var a4 unix.SockaddrInet4
		a4.Port = pa.port
		if pa.ip != nil {
			copy(a4.Addr[:], pa.ip.To4())
		}
		sa = &a4
	}

	if err = unix.Bind(fd, sa); err != nil {
		closeOnErr()
		return -1, 0, err
	}
	if err = unix.Listen(fd, listenBacklog); err != nil {
		closeOnErr()
		return -1, 0, err
	}
	if err = unix.SetNonblock(fd, true); err != nil {
		closeOnErr()
		return -1, 0, err
	}

	bound, err := unix.Getsockname(fd)
	if err != nil {
		closeOnErr()
		return -1, 0, err
	}
	switch b := bound.(type) {
	case *unix.SockaddrInet4:
		boundPort = b.Port
	case *unix.SockaddrInet6:
		boundPort = b.Port
	default:
		closeOnErr()
		return -1, 0, nerrors.InvalidAddress(addr)
	}

	return fd, boundPort, nil
}

// acceptOne accepts exactly one pending connection from the listener and
// makes it non-blocking and close-on-exec, or returns ok=false if there is
// nothing to accept right now (EAGAIN) — the portable way to say "no work".
func acceptOne(listenFD int) (fd int, remote net.Addr, ok bool, err error) {
	nfd, sa, aerr := unix.Accept4(listenFD, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if aerr != nil {
		if aerr == unix.EAGAIN || aerr == unix.EWOULDBLOCK || aerr == unix.EINTR {
			return -1, nil, false, nil
		}
		return -1, nil, false, aerr
	}
	return nfd, sockaddrToNetAddr(sa), true, nil
}

// dialNonblocking creates a non-blocking stream socket and begins an
// asynchronous connect. inProgress=true with a nil err means the connect is
// in progress (EINPROGRESS) and completion will be observed by the poller; a
// non-nil err means the system call reported a hard, synchronous failure and
// no connection should be created.
func dialNonblocking(host string, port int) (fd int, inProgress bool, err error) {
	ip := net.ParseIP(host)
	if ip == nil {
		ips, rerr := net.LookupIP(host)
		if rerr != nil || len(ips) == 0 {
			return -1, false, rerr
		}
		ip = ips[0]
	}

	family := unix.AF_INET
	var sa unix.Sockaddr
	if v4 := ip.To4(); v4 != nil {
		a4 := &unix.SockaddrInet4{Port: port}
		copy(a4.Addr[:], v4)
		sa = a4
	} else {
		family = unix.AF_INET6
		a6 := &unix.SockaddrInet6{Port: port}
		copy(a6.Addr[:], ip.To16())
		sa = a6
	}

	fd, err = unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return -1, false, err
	}

	err = unix.Connect(fd, sa)
	if err == nil {
		return fd, false, nil
	}
	if err == unix.EINPROGRESS {
		return fd, true, nil
	}
	unix.Close(fd)
	return -1, false, err
}

// connectError reads back the pending error on a connecting socket once it
// becomes writable, the standard way to observe non-blocking connect
// completion.
func connectError(fd int) (int, error) {
	errno, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return -1, err
	}
	return errno, nil
}

func sockaddrToNetAddr(sa unix.Sockaddr) net.Addr {
	switch s := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: append(net.IP(nil), s.Addr[:]...), Port: s.Port}
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: append(net.IP(nil), s.Addr[:]...), Port: s.Port}
	default:
		return nil
	}
}

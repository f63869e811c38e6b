//go:build unix

package tsnet

import "golang.org/x/sys/unix"

// rawRead and rawWrite are the default, transport-less I/O path: a direct
// non-blocking read(2)/write(2) on the connection's socket.
func rawRead(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

func rawWrite(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}

func closeFD(fd int) error {
	return unix.Close(fd)
}

// isSoftIOError reports whether err represents a transient, would-block
// class condition that should be retried on the next readiness signal
// rather than tearing the connection down. This backs the hard/soft error
// classification in the receive and send passes.
func isSoftIOError(err error) bool {
	// EAGAIN and EWOULDBLOCK alias to the same errno on most unix targets;
	// compared with == rather than a switch to avoid a duplicate-case build
	// failure on platforms where they do.
	return err == unix.EINTR || err == unix.EINPROGRESS ||
		err == unix.EAGAIN || err == unix.EWOULDBLOCK
}

//go:build unix

package asyncio

import (
	"time"

	"golang.org/x/sys/unix"
)

// unixWaiter backs the readiness wait with a single poll(2) syscall per
// pass, using golang.org/x/sys/unix for descriptor-level event polling, but
// driven synchronously instead of from a background watcher goroutine.
type unixWaiter struct{}

// NewOSWaiter returns the unix poll(2)-backed Waiter.
func NewOSWaiter() Waiter { return unixWaiter{} }

func (unixWaiter) Wait(interests []Interest, timeout time.Duration) ([]Ready, error) {
	if len(interests) == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return nil, nil
	}

	fds := make([]unix.PollFd, len(interests))
	for i, in := range interests {
		var events int16
		if in.Readable {
			events |= unix.POLLIN
		}
		if in.Writable {
			events |= unix.POLLOUT
		}
		fds[i] = unix.PollFd{Fd: int32(in.Fd), Events: events}
	}

	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}
	if timeout < 0 {
		ms = -1
	}

	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}

	ready := make([]Ready, 0, n)
	for i, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}
		ready = append(ready, Ready{
			Fd:       interests[i].Fd,
			Readable: pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0,
			Writable: pfd.Revents&unix.POLLOUT != 0,
			Err:      pfd.Revents&(unix.POLLERR|unix.POLLNVAL) != 0,
		})
	}
	return ready, nil
}

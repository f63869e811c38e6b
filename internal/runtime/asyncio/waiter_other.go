//go:build !unix

package asyncio

import "time"

// portableWaiter is the non-unix fallback. It has no access to a native
// readiness primitive for raw descriptors, so it degrades to reporting every
// interest as ready after a short, bounded sleep; callers still see
// soft-error/EAGAIN semantics on the resulting non-blocking I/O call. This
// exists to keep the build green on platforms without a finished native
// poller rather than to be a production-grade implementation.
type portableWaiter struct{}

// NewOSWaiter returns the portable fallback Waiter.
func NewOSWaiter() Waiter { return portableWaiter{} }

func (portableWaiter) Wait(interests []Interest, timeout time.Duration) ([]Ready, error) {
	if len(interests) == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return nil, nil
	}
	if timeout > 0 {
		const cap = 5 * time.Millisecond
		if timeout > cap {
			timeout = cap
		}
		time.Sleep(timeout)
	}
	ready := make([]Ready, len(interests))
	for i, in := range interests {
		ready[i] = Ready{Fd: in.Fd, Readable: in.Readable, Writable: in.Writable}
	}
	return ready, nil
}

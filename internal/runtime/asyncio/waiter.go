package asyncio

import "time"

// Interest describes the readiness a single descriptor is armed for during
// one poll pass. Unlike a registration-based poller built for long-lived
// async watches, a Waiter takes the whole interest set fresh on every call:
// this mirrors the poll loop rebuilding read/write sets on every pass rather
// than keeping a persistent epoll/kqueue registration alive across passes.
type Interest struct {
	Fd       int
	Readable bool
	Writable bool
}

// Ready reports what became available for one descriptor after a Wait call.
type Ready struct {
	Fd       int
	Readable bool
	Writable bool
	Err      bool
}

// Waiter is the OS readiness primitive: given a set of interests and a
// timeout, it blocks until at least one descriptor is ready or the timeout
// elapses, then returns exactly which became ready. This is the single
// suspension point of the poll loop.
type Waiter interface {
	Wait(interests []Interest, timeout time.Duration) ([]Ready, error)
}

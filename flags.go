package tsnet

// connFlag is the independent, OR-combined bit word driving the per-connection
// state machine described by the poll loop.
type connFlag uint32

const (
	// flagAccepted marks a connection created from an inbound accept.
	flagAccepted connFlag = 1 << iota
	// flagConnecting marks an outbound connect not yet completed.
	flagConnecting
	// flagHandshakeDone marks a transport-wrapper handshake as complete.
	flagHandshakeDone
	// flagFinishedSending marks user-signaled end-of-stream: close once the
	// send buffer drains.
	flagFinishedSending
	// flagBufferDontSend suppresses writable interest while set.
	flagBufferDontSend
	// flagCloseImmediately schedules destruction on the next poll sweep.
	// Monotonic: once set it is never cleared.
	flagCloseImmediately
)

func (c *Connection) hasFlag(f connFlag) bool { return c.flags&f != 0 }
func (c *Connection) setFlag(f connFlag)      { c.flags |= f }
func (c *Connection) clearFlag(f connFlag)    { c.flags &^= f }

// Accepted reports whether this connection was created from an inbound accept.
func (c *Connection) Accepted() bool { return c.hasFlag(flagAccepted) }

// Connecting reports whether an outbound connect is still in progress.
func (c *Connection) Connecting() bool { return c.hasFlag(flagConnecting) }

// HandshakeDone reports whether the attached transport wrapper (if any) has
// completed its handshake.
func (c *Connection) HandshakeDone() bool { return c.hasFlag(flagHandshakeDone) }

// FinishedSending reports whether the user has signaled end-of-stream.
func (c *Connection) FinishedSending() bool { return c.hasFlag(flagFinishedSending) }

// SetFinishedSending signals end-of-stream: once the send buffer drains, the
// poll loop will close the connection.
func (c *Connection) SetFinishedSending() { c.setFlag(flagFinishedSending) }

// BufferButDontSend reports whether writable interest is currently suppressed.
func (c *Connection) BufferButDontSend() bool { return c.hasFlag(flagBufferDontSend) }

// SetBufferButDontSend suppresses (or, when false, re-arms) writable interest
// so the user can hold back output without closing the connection.
func (c *Connection) SetBufferButDontSend(suppress bool) {
	if suppress {
		c.setFlag(flagBufferDontSend)
	} else {
		c.clearFlag(flagBufferDontSend)
	}
}

// CloseImmediately reports whether this connection is scheduled for teardown.
func (c *Connection) CloseImmediately() bool { return c.hasFlag(flagCloseImmediately) }

// Close schedules the connection for teardown on the next poll sweep. This is
// the only cancellation primitive: it does not interrupt in-flight I/O, and
// it is monotonic, so calling it more than once has no additional effect.
func (c *Connection) Close() { c.setFlag(flagCloseImmediately) }

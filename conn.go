package tsnet

import (
	"net"
	"time"

	nerrors "github.com/orizon-lang/tsnet/internal/errors"
	"github.com/orizon-lang/tsnet/internal/transport"
)

// Connection is one active TCP endpoint owned by exactly one Server for its
// entire lifetime. It is mutated only from inside the poll loop, or from
// user code appending to its send buffer via Send.
type Connection struct {
	fd     int
	remote net.Addr

	recv *ByteBuffer
	send *ByteBuffer

	flags connFlag

	lastActivity time.Time

	// UserData is an opaque value carried verbatim through every callback
	// invocation for this connection. The core never inspects it.
	UserData interface{}

	transport transport.Transport

	server *Server
}

func newConnection(srv *Server, fd int, remote net.Addr) *Connection {
	return &Connection{
		fd:           fd,
		remote:       remote,
		recv:         NewByteBufferWithAllocator(srv.opts.scratchSize(), srv.opts.Allocator),
		send:         NewByteBufferWithAllocator(0, srv.opts.Allocator),
		lastActivity: time.Now(),
		server:       srv,
	}
}

// Fd returns the underlying socket descriptor. Exposed for diagnostics; the
// poll loop is the only code that should perform I/O on it directly.
func (c *Connection) Fd() int { return c.fd }

// RemoteAddr returns the peer address captured at accept or connect time.
func (c *Connection) RemoteAddr() net.Addr { return c.remote }

// Recv returns the connection's receive buffer. The RECV event handler
// typically reads Recv().Bytes() and calls Recv().Remove(n) once it has
// consumed n bytes.
func (c *Connection) Recv() *ByteBuffer { return c.recv }

// LastActivity reports the timestamp of the most recent read or write
// readiness serviced for this connection.
func (c *Connection) LastActivity() time.Time { return c.lastActivity }

// Server returns the Connection's owning Server.
func (c *Connection) Server() *Server { return c.server }

// Send appends up to len(buf) bytes to the connection's send buffer and
// returns how many bytes were accepted. Zero means backpressure: the caller
// must retry later, after the send buffer has drained. Queuing data on a
// connection already scheduled for teardown is rejected outright, since the
// reap walk will free its buffers before they could ever be flushed.
func (c *Connection) Send(buf []byte, length int) int {
	if c.CloseImmediately() {
		c.server.trace(c, EventSend, nerrors.InvalidState("Send").Error())
		return 0
	}
	return c.send.Append(buf, length, c.server.opts.growthFactor())
}

func (c *Connection) touch() { c.lastActivity = time.Now() }

package tsnet

import (
	"crypto/tls"

	"github.com/orizon-lang/tsnet/internal/transport"
)

// Server owns the listening socket, the active set of connections, the user
// callback and opaque pointer, and optional transport contexts for outbound
// and inbound TLS. The active set is modeled as an owned slice plus an
// fd-keyed index rather than an intrusive doubly-linked list: ownership
// stays with the Server and the poll loop iterates with a collect-then-
// mutate pattern to handle in-pass removal.
type Server struct {
	listenFD   int
	listenPort int

	handler  Handler
	userData interface{}
	opts     Options

	// ServerTLSConfig, when non-nil, is used to wrap every newly accepted
	// connection in TLS. Ignored when CertWatcher is set.
	ServerTLSConfig *tls.Config
	// ClientTLSConfig, when non-nil, is used by Connect when useSSL is true.
	ClientTLSConfig *tls.Config
	// CertWatcher, when set, supplies a hot-reloadable server-side
	// tls.Config in place of a static ServerTLSConfig: each accepted
	// connection picks up whatever certificate was current as of its own
	// accept, without requiring a server restart on rotation.
	CertWatcher *transport.CertWatcher

	conns []*Connection
	byFD  map[int]*Connection

	statAccepted   uint64
	statHardErrors uint64
	statBytesIn    uint64
	statBytesOut   uint64
}

// NewServer establishes a Server bound to the given callback and opaque user
// pointer. This is the platform network bootstrap point: on unix targets
// there is nothing process-wide to initialize, so construction is cheap and
// idempotent by simply never touching global state.
func NewServer(userData interface{}, handler Handler, opts Options) *Server {
	return &Server{
		listenFD:   -1,
		listenPort: 0,
		handler:    handler,
		userData:   userData,
		opts:       opts,
		byFD:       make(map[int]*Connection),
	}
}

// UserData returns the opaque pointer the Server was constructed with.
func (s *Server) UserData() interface{} { return s.userData }

// Bind parses addr per the endpoint grammar (see ParseAddress) and opens a
// non-blocking, address-reusable listening socket. The bare string "0" binds
// the IPv4 wildcard on an OS-chosen ephemeral port. It returns the bound
// port, or zero on any failure (bad grammar, or a listener syscall error).
func (s *Server) Bind(addr string) int {
	if s.listenFD >= 0 {
		closeFD(s.listenFD)
		s.listenFD = -1
	}
	fd, port, err := openListener(addr, s.opts.IPv6Enabled)
	if err != nil {
		return 0
	}
	s.listenFD = fd
	s.listenPort = port
	return port
}

// Connect initiates a non-blocking outbound connect. It returns false
// immediately on a synchronous failure (bad host, hard connect error); a
// true return means a Connection was created in the connecting state and
// completion will be observed by a later Poll call, which emits the CONNECT
// event with the resolved status.
func (s *Server) Connect(host string, port int, useSSL bool, userData interface{}) bool {
	fd, inProgress, err := dialNonblocking(host, port)
	if err != nil {
		return false
	}

	conn := newConnection(s, fd, nil)
	conn.UserData = userData
	conn.setFlag(flagConnecting)

	if useSSL {
		cfg := transport.TLSConfigFor(s.ClientTLSConfig, host, true)
		tr, terr := transport.NewTLSTransport(fd, cfg, false)
		if terr != nil {
			closeFD(fd)
			return false
		}
		conn.transport = tr
	}

	_ = inProgress // completion is always observed later by Poll, regardless
	s.link(conn)
	return true
}

// link adds a freshly created connection at the head of the active set,
// so the most recently accepted or connected socket is iterated first.
func (s *Server) link(c *Connection) {
	s.conns = append([]*Connection{c}, s.conns...)
	s.byFD[c.fd] = c
}

// unlink removes a connection from the active set. It does not close its
// socket or release its buffers; callers perform teardown before or after.
func (s *Server) unlink(c *Connection) {
	delete(s.byFD, c.fd)
	for i, x := range s.conns {
		if x == c {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			break
		}
	}
}

// closeConn is the sole connection-destruction path: emit CLOSE, unlink,
// close the socket, release both buffers.
func (s *Server) closeConn(c *Connection) {
	s.trace(c, EventClose, "")
	s.emit(c, EventClose, nil)
	s.unlink(c)
	if c.transport != nil {
		_ = c.transport.Close()
	}
	closeFD(c.fd)
	c.recv.Free()
	c.send.Free()
}

// emit invokes the user callback if one was supplied; NewServer permits a
// nil handler for degenerate listener-only test setups.
func (s *Server) emit(c *Connection, event Event, payload interface{}) {
	if s.handler != nil {
		s.handler(c, event, payload)
	}
}

// Free tears the Server down: it polls once with a zero timeout to flush any
// already-set close-immediately connections under normal event semantics,
// then closes every remaining connection and the listener.
func (s *Server) Free() {
	if s.listenFD >= 0 {
		s.Poll(0)
	}
	for _, c := range append([]*Connection(nil), s.conns...) {
		s.closeConn(c)
	}
	if s.listenFD >= 0 {
		closeFD(s.listenFD)
		s.listenFD = -1
	}
}

// hasListener reports whether Bind has successfully established a listener.
func (s *Server) hasListener() bool { return s.listenFD >= 0 }

// acceptTLSConfig resolves which tls.Config a freshly accepted connection
// should be wrapped with, preferring a live CertWatcher over a static
// ServerTLSConfig. A nil result means the accept path leaves the connection
// talking to the raw socket.
func (s *Server) acceptTLSConfig() *tls.Config {
	if s.CertWatcher != nil {
		return s.CertWatcher.Config()
	}
	return s.ServerTLSConfig
}

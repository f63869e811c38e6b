// Package transport provides the optional pluggable capability the poll
// loop uses to wrap reads, writes and handshake progression on a
// connection. When no Transport is attached the core talks to the socket
// directly; this package supplies the one concrete implementation the
// module ships (TLS), built around a try-handshake/read/write three-method
// capability.
package transport

// Transport intercepts a connection's I/O. TryHandshake is polled from the
// connect-completion path until it reports done; the accept path does not
// call it. Read and Write behave like non-blocking syscalls, returning the
// package's would-block sentinel (see IsWouldBlock) for "would block"
// conditions, which the poll loop classifies as a soft error.
type Transport interface {
	// TryHandshake attempts to make progress on the handshake without
	// blocking. done=true, err=nil means the handshake completed.
	TryHandshake() (done bool, err error)
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	// Close releases any resources the transport holds that are distinct
	// from the underlying socket (e.g. the wrapping net.Conn).
	Close() error
}

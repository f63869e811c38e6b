// Package tsnet is an embeddable, single-threaded, non-blocking TCP
// networking skeleton: a reusable poll loop that multiplexes a listening
// socket and an arbitrary set of accepted and outbound connections, driving
// user code through an event callback.
//
// The package owns no goroutines and no locks. A caller drives all network
// work by calling Server.Poll from a single thread of control; every other
// primitive (Bind, Connect, Connection.Send) is non-blocking and safe to
// call only from that same thread, with the documented exception of the
// blocking host-name resolution performed by Connect.
//
// Optional TLS is supplied by the internal/transport package and attached
// through Server.ServerTLSConfig / Server.ClientTLSConfig; application-level
// framing, logging, and metrics collection are left entirely to the
// embedder.
package tsnet

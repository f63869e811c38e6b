package tsnet

import (
	"time"

	nerrors "github.com/orizon-lang/tsnet/internal/errors"
	"github.com/orizon-lang/tsnet/internal/runtime/asyncio"
	"github.com/orizon-lang/tsnet/internal/transport"
)

var osWaiter = asyncio.NewOSWaiter()

// Poll is the single synchronization point of the module: given a time
// budget in milliseconds, it computes interest sets, waits for readiness,
// admits at most one new connection, services ready connections, reaps
// closed ones, and returns the number of connections still active
// afterward. All state transitions happen inside this call.
func (s *Server) Poll(milliseconds int) int {
	if !s.hasListener() {
		return 0
	}

	interests := make([]asyncio.Interest, 0, len(s.conns)+1)
	interests = append(interests, asyncio.Interest{Fd: s.listenFD, Readable: true})

	// Pre-select walk: POLL event, arm interest, reap anything already
	// marked for closure before blocking on the wait.
	pending := make([]*Connection, 0, len(s.conns))
	for _, c := range s.conns {
		s.trace(c, EventPoll, "")
		s.emit(c, EventPoll, nil)

		if s.opts.IdleTimeout > 0 && !c.CloseImmediately() &&
			time.Since(c.lastActivity) > s.opts.IdleTimeout {
			c.Close()
		}

		if c.CloseImmediately() {
			continue
		}

		in := asyncio.Interest{Fd: c.fd, Readable: true}
		if c.Connecting() {
			in.Writable = true
		} else if c.send.Len() > 0 && !c.BufferButDontSend() {
			in.Writable = true
		}
		interests = append(interests, in)
		pending = append(pending, c)
	}
	for _, c := range append([]*Connection(nil), s.conns...) {
		if c.CloseImmediately() {
			s.closeConn(c)
		}
	}

	timeout := time.Duration(milliseconds) * time.Millisecond
	if milliseconds < 0 {
		timeout = -1
	}
	ready, err := osWaiter.Wait(interests, timeout)
	if err != nil || len(ready) == 0 {
		return len(s.conns)
	}

	readyByFD := make(map[int]asyncio.Ready, len(ready))
	for _, r := range ready {
		readyByFD[r.Fd] = r
	}

	// Accept at most one new connection per pass: some embedded stacks spin
	// on a non-blocking listener if the loop tries to drain the queue.
	if lr, ok := readyByFD[s.listenFD]; ok && lr.Readable {
		s.acceptOnePass()
	}

	for _, c := range pending {
		if c.CloseImmediately() {
			continue
		}
		r, ok := readyByFD[c.fd]
		if !ok {
			continue
		}

		if c.Connecting() {
			if r.Writable || r.Err {
				s.completeConnect(c)
			}
			continue
		}

		if r.Readable {
			c.touch()
			s.recvPass(c)
		}
		if c.CloseImmediately() {
			continue
		}
		if r.Writable && !c.BufferButDontSend() {
			c.touch()
			s.sendPass(c)
		}
	}

	// Reap walk: destroy anything marked for closure during this pass.
	for _, c := range append([]*Connection(nil), s.conns...) {
		if c.CloseImmediately() {
			s.closeConn(c)
		}
	}

	return len(s.conns)
}

func (s *Server) acceptOnePass() {
	fd, remote, ok, err := acceptOne(s.listenFD)
	if err != nil || !ok {
		return
	}

	conn := newConnection(s, fd, remote)
	if conn.recv.Cap() == 0 && s.opts.scratchSize() > 0 {
		s.trace(nil, EventAccept, nerrors.AllocFailed("connection receive buffer").Error())
		closeFD(fd)
		return
	}
	conn.setFlag(flagAccepted)

	if cfg := s.acceptTLSConfig(); cfg != nil {
		tr, terr := transport.NewTLSTransport(fd, cfg, true)
		if terr != nil {
			closeFD(fd)
			return
		}
		conn.transport = tr
	}

	conn.touch()
	s.link(conn)
	s.statAccepted++
	s.trace(conn, EventAccept, "")
	s.emit(conn, EventAccept, nil)
}

// completeConnect queries a connecting socket's pending error once it
// becomes writable. If a transport is attached, the handshake is progressed
// here too; while it would block, connecting stays set and the next pass
// retries.
func (s *Server) completeConnect(c *Connection) {
	errno, err := connectError(c.fd)
	if err != nil {
		errno = -1
	}
	if errno != 0 {
		s.trace(c, EventConnect, "connect failed")
		s.emit(c, EventConnect, errno)
		c.Close()
		return
	}

	if c.transport != nil {
		done, herr := c.transport.TryHandshake()
		if herr != nil {
			s.trace(c, EventConnect, nerrors.HandshakeFailed(herr).Error())
			s.emit(c, EventConnect, 1)
			c.Close()
			return
		}
		if !done {
			// Would block: stay in connecting, retry next pass.
			return
		}
		c.setFlag(flagHandshakeDone)
	}

	c.clearFlag(flagConnecting)
	s.trace(c, EventConnect, "")
	s.emit(c, EventConnect, 0)
}

// recvPass reads up to one scratch-sized chunk through the transport (or
// raw socket), classifies the result, and emits RECV exactly once for a
// non-empty read.
func (s *Server) recvPass(c *Connection) {
	scratch := make([]byte, s.opts.scratchSize())

	var n int
	var err error
	if c.transport != nil {
		n, err = c.transport.Read(scratch)
	} else {
		n, err = rawRead(c.fd, scratch)
	}

	if isHardIOError(n, err) {
		s.statHardErrors++
		s.trace(c, EventRecv, nerrors.HardIOError(err).Error())
		c.Close()
		return
	}
	if err != nil {
		// Soft error: retry on next readiness.
		return
	}
	if n <= 0 {
		return
	}

	c.recv.Append(scratch, n, s.opts.growthFactor())
	s.statBytesIn += uint64(n)
	if s.opts.Hexdump != nil {
		s.opts.Hexdump.Dump(c, DirectionIn, scratch[:n])
	}
	s.trace(c, EventRecv, "")
	s.emit(c, EventRecv, nil)
}

// sendPass attempts to write the whole send buffer through the transport
// (or raw socket). A partial write drains only what was accepted; an empty
// send buffer combined with finished-sending schedules closure.
func (s *Server) sendPass(c *Connection) {
	if c.send.Len() == 0 {
		if c.FinishedSending() {
			c.Close()
		}
		return
	}

	buf := c.send.Bytes()
	var n int
	var err error
	if c.transport != nil {
		n, err = c.transport.Write(buf)
	} else {
		n, err = rawWrite(c.fd, buf)
	}

	if isHardIOError(n, err) {
		s.statHardErrors++
		s.trace(c, EventSend, nerrors.HardIOError(err).Error())
		c.Close()
		s.emit(c, EventSend, nil)
		return
	}

	if n > 0 {
		if s.opts.Hexdump != nil {
			s.opts.Hexdump.Dump(c, DirectionOut, buf[:n])
		}
		c.send.Remove(n)
		s.statBytesOut += uint64(n)
	}

	s.trace(c, EventSend, "")
	s.emit(c, EventSend, nil)

	if c.send.Len() == 0 && c.FinishedSending() {
		c.Close()
	}
}

// isHardIOError classifies a read/write result per the module's hard/soft
// error taxonomy: an exact-zero return is always hard (orderly peer close,
// or a write of nothing when asked for more); a negative/error return is
// hard unless the underlying error is one of the would-block class.
func isHardIOError(n int, err error) bool {
	if err != nil {
		if transport.IsWouldBlock(err) || isSoftIOError(err) {
			return false
		}
		return true
	}
	return n == 0
}

//go:build unix

package tsnet

import (
	"net"
	"strconv"
	"testing"
	"time"
)

// pollUntil drives srv.Poll in a loop until cond reports true or the
// deadline elapses, returning whether cond was satisfied.
func pollUntil(t *testing.T, srv *Server, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		srv.Poll(10)
		if cond() {
			return true
		}
	}
	return false
}

func TestEndToEnd_Echo(t *testing.T) {
	var gotEcho []byte
	done := make(chan struct{})

	srv := NewServer(nil, func(conn *Connection, event Event, payload interface{}) int {
		if event == EventRecv {
			n := conn.Recv().Len()
			conn.Send(conn.Recv().Bytes(), n)
			conn.Recv().Remove(n)
		}
		return 0
	}, Options{})

	port := srv.Bind("0")
	if port == 0 {
		t.Fatalf("bind failed")
	}
	defer srv.Free()

	go func() {
		for i := 0; i < 200; i++ {
			srv.Poll(10)
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	client, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	if _, err := client.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	buf := make([]byte, 5)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := readFull(client, buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	gotEcho = buf[:n]
	if string(gotEcho) != "hello" {
		t.Fatalf("expected echo %q, got %q", "hello", gotEcho)
	}
	client.Close()
	<-done

	if srv.Stats().ActiveConns != 0 {
		t.Fatalf("expected zero active connections after client close, got %d", srv.Stats().ActiveConns)
	}
}

func TestEndToEnd_PeerClose(t *testing.T) {
	var accepted, closed int

	srv := NewServer(nil, func(conn *Connection, event Event, payload interface{}) int {
		switch event {
		case EventAccept:
			accepted++
		case EventClose:
			closed++
		case EventRecv:
			t.Errorf("unexpected RECV on an immediately-closed peer")
		}
		return 0
	}, Options{})

	port := srv.Bind("0")
	if port == 0 {
		t.Fatalf("bind failed")
	}
	defer srv.Free()

	client, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	client.Close()

	ok := pollUntil(t, srv, 2*time.Second, func() bool { return accepted == 1 && closed == 1 })
	if !ok {
		t.Fatalf("expected exactly one ACCEPT and one CLOSE, got accepted=%d closed=%d", accepted, closed)
	}
}

func TestEndToEnd_ConnectFailure(t *testing.T) {
	var gotConnect bool
	var status int
	var gotClose bool

	srv := NewServer(nil, func(conn *Connection, event Event, payload interface{}) int {
		switch event {
		case EventConnect:
			gotConnect = true
			status, _ = payload.(int)
		case EventClose:
			gotClose = true
		case EventRecv, EventSend:
			if !gotConnect || gotClose {
				t.Errorf("RECV/SEND observed outside the CONNECT..CLOSE window")
			}
		}
		return 0
	}, Options{})

	// Bind a listener of our own, then immediately free it, to get a port
	// on loopback nothing is listening on.
	probe := NewServer(nil, nil, Options{})
	port := probe.Bind("0")
	probe.Free()

	ok := srv.Connect("127.0.0.1", port, false, nil)
	if !ok {
		t.Fatalf("Connect should accept the request and resolve asynchronously")
	}

	// srv itself has no listener bound, so Poll would short-circuit; bind a
	// throwaway listener purely so Poll proceeds past the no-listener guard.
	if srv.Bind("0") == 0 {
		t.Fatalf("bind failed")
	}

	pollUntil(t, srv, 2*time.Second, func() bool { return gotClose })

	if !gotConnect {
		t.Fatalf("expected a CONNECT event")
	}
	if status == 0 {
		t.Fatalf("expected a non-zero connect status for a refused connection")
	}
	if !gotClose {
		t.Fatalf("expected a CLOSE event following the failed connect")
	}
}

func TestEndToEnd_FinishedSendingOrdering(t *testing.T) {
	srv := NewServer(nil, func(conn *Connection, event Event, payload interface{}) int {
		if event == EventAccept {
			conn.Send([]byte("bye"), 3)
			conn.SetFinishedSending()
		}
		return 0
	}, Options{})

	port := srv.Bind("0")
	if port == 0 {
		t.Fatalf("bind failed")
	}
	defer srv.Free()

	client, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	go func() {
		for i := 0; i < 200; i++ {
			srv.Poll(10)
			time.Sleep(time.Millisecond)
		}
	}()

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 16)
	n, _ := readFull(client, buf[:3])
	if string(buf[:n]) != "bye" {
		t.Fatalf("expected %q before EOF, got %q", "bye", buf[:n])
	}

	n2, err := client.Read(buf)
	if n2 != 0 || err == nil {
		t.Fatalf("expected EOF after \"bye\", got n=%d err=%v", n2, err)
	}
}

func readFull(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

//go:build unix

package tsnet

import (
	"net"
	"strconv"
	"testing"
	"time"
)

func TestServer_BindZeroReturnsEphemeralPort(t *testing.T) {
	srv := NewServer(nil, nil, Options{})
	defer srv.Free()
	port := srv.Bind("0")
	if port == 0 {
		t.Fatalf("expected a nonzero ephemeral port, got 0")
	}
}

func TestServer_BindMalformedAddressReturnsZero(t *testing.T) {
	srv := NewServer(nil, nil, Options{})
	defer srv.Free()
	if port := srv.Bind("65536"); port != 0 {
		t.Fatalf("expected 0 for malformed address, got %d", port)
	}
}

func TestServer_FreeWithoutListenerIsSafe(t *testing.T) {
	srv := NewServer(nil, nil, Options{})
	srv.Free()
}

// TestServer_Backpressure drives a 16KiB client send against an echo server
// while the client does not read, so echoed bytes queue up in the server's
// send buffer and the socket buffers, then verifies that all 16KiB come back
// once the client starts reading.
func TestServer_Backpressure(t *testing.T) {
	const payloadSize = 16 * 1024

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

	addr := "127.0.0.1:" + strconv.Itoa(port)
	client, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				srv.Poll(10)
				time.Sleep(time.Millisecond)
			}
		}
	}()

	payload := make([]byte, payloadSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	client.SetWriteDeadline(time.Now().Add(2 * time.Second))
	_, _ = client.Write(payload)

	time.Sleep(300 * time.Millisecond)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	received := 0
	buf := make([]byte, 4096)
	for received < payloadSize {
		n, rerr := client.Read(buf)
		received += n
		if rerr != nil {
			break
		}
	}

	close(stop)

	if received != payloadSize {
		t.Fatalf("expected to eventually receive all %d bytes once client started reading, got %d", payloadSize, received)
	}
}

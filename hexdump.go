package tsnet

import (
	"encoding/hex"
	"strconv"
	"time"
)

// Direction distinguishes an inbound chunk (as read off the socket) from an
// outbound one (as written to it) in a HexdumpSink call.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
)

func (d Direction) String() string {
	if d == DirectionOut {
		return "OUT"
	}
	return "IN"
}

// HexdumpSink is the optional, implementation-defined sink for the
// hexdump-enabled compile-time option: every chunk the poll loop reads or
// writes is handed to Dump, timestamped, before the connection's normal
// RECV/SEND event fires. The core never formats or logs on its own; this is
// the one hook point.
type HexdumpSink interface {
	Dump(conn *Connection, dir Direction, chunk []byte)
}

// HexWriterSink is a ready-made HexdumpSink that renders each chunk as
// lowercase hex text via encoding/hex and hands the line to a Writer
// callback together with a timestamp.
type HexWriterSink struct {
	Write func(line string)
}

// NewHexWriterSink returns a HexdumpSink that formats each chunk as
// "<RFC3339 timestamp> <IN|OUT> fd=<n> <hex>" and passes it to write.
func NewHexWriterSink(write func(line string)) *HexWriterSink {
	return &HexWriterSink{Write: write}
}

func (h *HexWriterSink) Dump(conn *Connection, dir Direction, chunk []byte) {
	if h.Write == nil || len(chunk) == 0 {
		return
	}
	encoded := make([]byte, hex.EncodedLen(len(chunk)))
	hex.Encode(encoded, chunk)
	line := time.Now().Format(time.RFC3339Nano) + " " + dir.String() + " fd=" +
		strconv.Itoa(conn.Fd()) + " " + string(encoded)
	h.Write(line)
}

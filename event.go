package tsnet

// Event identifies which state transition a Connection's callback is being
// invoked for.
type Event int

const (
	// EventAccept fires just after an inbound connection is linked into the
	// active set. Payload is nil.
	EventAccept Event = iota
	// EventConnect fires just after an outbound connect resolves. Payload is
	// the integer connect status (0 means success).
	EventConnect
	// EventRecv fires after appending fresh bytes to the receive buffer.
	// Payload is nil; the bytes themselves live in Connection.Recv().
	EventRecv
	// EventSend fires after every write attempt, successful or not. Payload
	// is nil.
	EventSend
	// EventPoll fires once per connection at the start of every poll pass,
	// before any I/O for that pass. Payload is nil.
	EventPoll
	// EventClose fires immediately before teardown. Payload is nil.
	EventClose
)

func (e Event) String() string {
	switch e {
	case EventAccept:
		return "ACCEPT"
	case EventConnect:
		return "CONNECT"
	case EventRecv:
		return "RECV"
	case EventSend:
		return "SEND"
	case EventPoll:
		return "POLL"
	case EventClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}

// Handler is the user callback every Server is constructed with. Its return
// value is reserved for future use and presently ignored by the poll loop
// for every event.
type Handler func(conn *Connection, event Event, payload interface{}) int

package tsnet

import (
	"time"

	"github.com/Masterminds/semver/v3"
)

// Options carries the module's compile-time-flavored knobs as runtime
// configuration: growth factor, allocator override, IPv6 support, the
// optional hexdump sink, idle-connection sweeping, and protocol-version
// gating. A zero-value Options is a usable default.
type Options struct {
	// GrowthFactor is the geometric multiplier ByteBuffer.Append grows by.
	// Zero means DefaultGrowthFactor (2.0).
	GrowthFactor float64

	// Allocator redirects buffer growth through a caller-supplied
	// allocator instead of the runtime's bare make([]byte, n). Nil uses
	// the bare allocator; NewPooledAllocator provides a reusable,
	// bucketed pool for high-churn workloads.
	Allocator Allocator

	// IPv6Enabled adds the bracketed-literal grammar to ParseAddress.
	IPv6Enabled bool

	// ScratchSize is the size of the fixed read scratch buffer used by the
	// receive pass. Zero means the reference 2048-byte size.
	ScratchSize int

	// Hexdump, if non-nil, receives a timestamped hex dump of every chunk
	// sent or received, regardless of direction.
	Hexdump HexdumpSink

	// Tracer, if non-nil, is invoked at each connection state transition.
	// The default is a no-op: the core never logs on its own, only the
	// hook point is provided.
	Tracer Tracer

	// IdleTimeout, if non-zero, closes a connection that has had no
	// readable/writable activity for at least this long, checked once per
	// poll pass from inside the POLL event's pre-select walk. Idle
	// enforcement is an optional convenience the loop itself does not
	// impose by default.
	IdleTimeout time.Duration

	// MinProtocolVersion, if set, is the floor MeetsMinProtocolVersion
	// compares a peer-reported version against; a callback can call that
	// on ACCEPT/CONNECT and close connections that report an older
	// version. The core never checks it on its own, so this has no effect
	// unless the callback participates.
	MinProtocolVersion *semver.Version
}

func (o Options) growthFactor() float64 {
	if o.GrowthFactor <= 1 {
		return DefaultGrowthFactor
	}
	return o.GrowthFactor
}

func (o Options) scratchSize() int {
	if o.ScratchSize <= 0 {
		return defaultScratchSize
	}
	return o.ScratchSize
}

// defaultScratchSize is the reference stack-scratch size for one receive
// pass: enough for typical TCP segment sizes without committing to a large
// per-call allocation.
const defaultScratchSize = 2048

// MeetsMinProtocolVersion reports whether peerVersion satisfies
// Options.MinProtocolVersion. With no floor configured, or no version
// reported by the peer, every version passes: gating is opt-in and only
// takes effect once a callback calls this from the ACCEPT/CONNECT handler
// and acts on a false result (typically by calling Connection.Close).
func (s *Server) MeetsMinProtocolVersion(peerVersion *semver.Version) bool {
	if s.opts.MinProtocolVersion == nil || peerVersion == nil {
		return true
	}
	return peerVersion.Compare(s.opts.MinProtocolVersion) >= 0
}

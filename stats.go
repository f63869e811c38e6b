package tsnet

// Stats is a point-in-time snapshot of server-wide counters, modeled on the
// source's lightweight package-level TCP metrics: visible without wiring a
// metrics registry, cheap enough to read every poll pass if an embedder
// wants to.
type Stats struct {
	Accepted    uint64
	HardErrors  uint64
	BytesIn     uint64
	BytesOut    uint64
	ActiveConns int64
}

// Stats returns a snapshot of the server's counters.
func (s *Server) Stats() Stats {
	return Stats{
		Accepted:    s.statAccepted,
		HardErrors:  s.statHardErrors,
		BytesIn:     s.statBytesIn,
		BytesOut:    s.statBytesOut,
		ActiveConns: int64(len(s.conns)),
	}
}

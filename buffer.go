package tsnet

// ByteBuffer is a growable, contiguous byte container backing both the
// receive and send side of every Connection. It favors a shift-on-remove
// discipline over a ring buffer: an O(n) drain on typical TCP read sizes is
// cheap and keeps the storage contiguous for zero-copy handoff to whatever
// framing code the embedder layers on top.
type ByteBuffer struct {
	data  []byte
	alloc Allocator
}

// NewByteBuffer allocates a buffer with the given initial capacity. A
// negative or zero size yields an empty, zero-capacity buffer rather than an
// error: allocation failure degrades silently, matching Init(size)'s
// documented contract.
func NewByteBuffer(size int) *ByteBuffer {
	return NewByteBufferWithAllocator(size, nil)
}

// NewByteBufferWithAllocator is like NewByteBuffer but grows through the
// given Allocator (the compile-time "allocator override" hook) instead of
// the runtime's bare make([]byte, n). A nil Allocator falls back to the
// default Go allocator.
func NewByteBufferWithAllocator(size int, alloc Allocator) *ByteBuffer {
	b := &ByteBuffer{alloc: alloc}
	if size > 0 {
		b.data = b.allocate(size)[:0]
	}
	return b
}

func (b *ByteBuffer) allocate(n int) (buf []byte) {
	if b.alloc != nil {
		return b.alloc.Acquire(n)
	}
	// Degrade to nil instead of crashing the process on extreme requests:
	// allocation failure returns zero, not a panic.
	defer func() {
		if recover() != nil {
			buf = nil
		}
	}()
	return make([]byte, n)
}

// resize grows the buffer's backing storage to at least target bytes,
// preserving existing content. With an Allocator installed this routes
// through Resize instead of a fresh Acquire, so a pooled implementation can
// return an already-populated, larger bucket in place of alloc-then-copy.
func (b *ByteBuffer) resize(target int) (buf []byte) {
	if b.alloc != nil {
		return b.alloc.Resize(b.data, target)
	}
	defer func() {
		if recover() != nil {
			buf = nil
		}
	}()
	grown := make([]byte, target)
	copy(grown, b.data)
	return grown
}

// Len returns the number of valid bytes currently stored.
func (b *ByteBuffer) Len() int { return len(b.data) }

// Cap returns the number of bytes allocated.
func (b *ByteBuffer) Cap() int { return cap(b.data) }

// Bytes returns the valid region of the buffer. The returned slice aliases
// internal storage and is invalidated by the next Append or Remove call.
func (b *ByteBuffer) Bytes() []byte { return b.data }

// Append copies up to n bytes from p onto the end of the buffer, growing
// storage geometrically by growthFactor when the existing capacity is
// insufficient. It returns the number of bytes actually appended: zero means
// either n <= 0 or a backpressure/allocation failure the caller must treat
// as "try again later" rather than a hard error.
func (b *ByteBuffer) Append(p []byte, n int, growthFactor float64) int {
	if n <= 0 {
		return 0
	}
	if n > len(p) {
		n = len(p)
	}

	length := len(b.data)
	if length+n < cap(b.data) {
		b.data = b.data[:length+n]
		copy(b.data[length:], p[:n])
		return n
	}

	if growthFactor <= 1 {
		growthFactor = DefaultGrowthFactor
	}
	target := int(float64(length+n) * growthFactor)
	if target < length+n {
		target = length + n
	}
	grown := b.resize(target)
	if grown == nil || cap(grown) < length+n {
		return 0
	}
	grown = grown[:length+n]
	copy(grown[length:], p[:n])
	b.data = grown
	return n
}

// Remove drops the first n bytes, shifting the remainder to the front. It is
// a no-op when n is out of range ([0, Len()]); removing exactly Len() bytes
// leaves an empty buffer with its capacity unchanged.
func (b *ByteBuffer) Remove(n int) {
	if n <= 0 || n > len(b.data) {
		return
	}
	remaining := copy(b.data, b.data[n:])
	b.data = b.data[:remaining]
}

// Free releases storage and resets the buffer to its zero state. With an
// Allocator installed, the backing slice is handed back via Release so a
// pooled implementation can reuse it for the next connection.
func (b *ByteBuffer) Free() {
	if b.alloc != nil && b.data != nil {
		b.alloc.Release(b.data)
	}
	b.data = nil
}

// DefaultGrowthFactor is the geometric growth multiplier used when no
// explicit factor is supplied. Build-time override is available via
// Options.GrowthFactor.
const DefaultGrowthFactor = 2.0

// Allocator redirects the three allocation primitives the buffer growth path
// needs to a caller-supplied implementation: Acquire for a fresh buffer,
// Resize to grow an existing one in place, and Release to return a buffer's
// storage once a connection is torn down. See NewPooledAllocator for a
// ready-made implementation backed by a bucketed, reusable byte pool.
type Allocator interface {
	Acquire(n int) []byte
	Resize(buf []byte, n int) []byte
	Release(buf []byte)
}

package asyncio

// PooledAllocator adapts a BytePool to the three-primitive allocator shape
// (Acquire/Resize/Release) the buffer growth path in the tsnet package
// expects, so pooled, size-bucketed buffers can back every Connection's
// ByteBuffer instead of the bare Go allocator.
type PooledAllocator struct {
	pool *BytePool
}

// NewPooledAllocator wraps pool as an allocator. A nil pool uses
// DefaultBytePool.
func NewPooledAllocator(pool *BytePool) *PooledAllocator {
	if pool == nil {
		pool = DefaultBytePool()
	}
	return &PooledAllocator{pool: pool}
}

// Acquire returns a zero-length buffer with capacity >= n, drawn from the
// pool's bucket for n (or freshly allocated if n exceeds every bucket).
func (p *PooledAllocator) Acquire(n int) []byte {
	return p.pool.Get(n)
}

// Resize returns a buffer with capacity >= n containing buf's existing
// content. If buf already has enough capacity it is returned unchanged;
// otherwise a new buffer is drawn from the pool, buf's content is copied in,
// and buf itself is returned to the pool.
func (p *PooledAllocator) Resize(buf []byte, n int) []byte {
	if cap(buf) >= n {
		return buf
	}
	next := p.pool.Get(n)
	next = next[:len(buf)]
	copy(next, buf)
	if buf != nil {
		p.pool.Put(buf)
	}
	return next
}

// Release returns buf to the pool for reuse by a later Acquire/Resize.
func (p *PooledAllocator) Release(buf []byte) {
	p.pool.Put(buf)
}

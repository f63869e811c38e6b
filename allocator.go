package tsnet

import "github.com/orizon-lang/tsnet/internal/runtime/asyncio"

// NewPooledAllocator returns an Allocator backed by a bucketed, reusable
// byte pool instead of the bare Go allocator: Acquire/Resize/Release round
// trip through size-bucketed sync.Pool buckets, cutting GC pressure under
// steady per-connection buffer churn. Install it via Options.Allocator.
func NewPooledAllocator() Allocator {
	return asyncio.NewPooledAllocator(asyncio.DefaultBytePool())
}

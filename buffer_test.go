package tsnet

import "testing"

func TestByteBuffer_AppendWithinCapacity(t *testing.T) {
	b := NewByteBuffer(16)
	n := b.Append([]byte("hello"), 5, DefaultGrowthFactor)
	if n != 5 {
		t.Fatalf("expected 5 bytes appended, got %d", n)
	}
	if b.Len() != 5 {
		t.Fatalf("expected length 5, got %d", b.Len())
	}
	if string(b.Bytes()) != "hello" {
		t.Fatalf("unexpected contents: %q", b.Bytes())
	}
}

func TestByteBuffer_AppendZeroOrNegativeIsNoop(t *testing.T) {
	b := NewByteBuffer(4)
	if n := b.Append([]byte("x"), 0, DefaultGrowthFactor); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
	if n := b.Append([]byte("x"), -1, DefaultGrowthFactor); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
	if b.Len() != 0 {
		t.Fatalf("buffer should remain empty, got len %d", b.Len())
	}
}

func TestByteBuffer_GrowthLaw(t *testing.T) {
	b := NewByteBuffer(4)
	b.Append([]byte{1, 2, 3}, 3, 2.0)
	startCap := b.Cap()

	b.Append([]byte{4, 5}, 2, 2.0)
	if got, want := b.Cap(), int(float64(5)*2.0); got < want {
		t.Fatalf("expected capacity >= %d after growth past %d, got %d", want, startCap, got)
	}
}

func TestByteBuffer_RemovePrefix(t *testing.T) {
	b := NewByteBuffer(16)
	b.Append([]byte("abcdef"), 6, DefaultGrowthFactor)
	b.Remove(2)
	if string(b.Bytes()) != "cdef" {
		t.Fatalf("unexpected contents after remove: %q", b.Bytes())
	}
}

func TestByteBuffer_RemoveOutOfRangeIsNoop(t *testing.T) {
	b := NewByteBuffer(16)
	b.Append([]byte("abc"), 3, DefaultGrowthFactor)
	b.Remove(100)
	if string(b.Bytes()) != "abc" {
		t.Fatalf("expected unchanged buffer, got %q", b.Bytes())
	}
}

func TestByteBuffer_RemoveExactLengthEmptiesWithoutShrinking(t *testing.T) {
	b := NewByteBuffer(16)
	b.Append([]byte("abc"), 3, DefaultGrowthFactor)
	capBefore := b.Cap()
	b.Remove(3)
	if b.Len() != 0 {
		t.Fatalf("expected empty buffer, got len %d", b.Len())
	}
	if b.Cap() != capBefore {
		t.Fatalf("expected capacity unchanged at %d, got %d", capBefore, b.Cap())
	}
}

func TestByteBuffer_InvariantLengthNeverExceedsCapacity(t *testing.T) {
	b := NewByteBuffer(0)
	if b.Cap() != 0 {
		t.Fatalf("expected zero capacity for zero-size init, got %d", b.Cap())
	}
	b.Append([]byte("x"), 1, DefaultGrowthFactor)
	if b.Len() > b.Cap() {
		t.Fatalf("length %d exceeds capacity %d", b.Len(), b.Cap())
	}
}

func TestByteBuffer_Free(t *testing.T) {
	b := NewByteBuffer(16)
	b.Append([]byte("abc"), 3, DefaultGrowthFactor)
	b.Free()
	if b.Len() != 0 || b.Cap() != 0 {
		t.Fatalf("expected zeroed buffer after Free, got len=%d cap=%d", b.Len(), b.Cap())
	}
}

// fakeAllocator counts invocations so tests can assert Options.Allocator is
// actually consulted on the growth path rather than merely accepted.
type fakeAllocator struct {
	acquireCalls int
	resizeCalls  int
	releaseCalls int
}

func (f *fakeAllocator) Acquire(n int) []byte {
	f.acquireCalls++
	return make([]byte, n)
}

func (f *fakeAllocator) Resize(buf []byte, n int) []byte {
	f.resizeCalls++
	grown := make([]byte, n)
	copy(grown, buf)
	return grown
}

func (f *fakeAllocator) Release(buf []byte) { f.releaseCalls++ }

func TestByteBuffer_AllocatorOverrideIsInvokedOnGrowth(t *testing.T) {
	fa := &fakeAllocator{}
	b := NewByteBufferWithAllocator(4, fa)
	if fa.acquireCalls != 1 {
		t.Fatalf("expected Acquire called once on initial allocation, got %d", fa.acquireCalls)
	}

	b.Append([]byte("this input is longer than the initial four-byte capacity"), 58, DefaultGrowthFactor)
	if fa.resizeCalls == 0 {
		t.Fatalf("expected Resize to be called when growth exceeds existing capacity")
	}
	if string(b.Bytes()) != "this input is longer than the initial four-byte capacity" {
		t.Fatalf("unexpected contents after allocator-backed growth: %q", b.Bytes())
	}

	b.Free()
	if fa.releaseCalls != 1 {
		t.Fatalf("expected Release called once on Free, got %d", fa.releaseCalls)
	}
}

func TestByteBuffer_PooledAllocatorEndToEnd(t *testing.T) {
	b := NewByteBufferWithAllocator(0, NewPooledAllocator())
	n := b.Append([]byte("hello, pooled world"), 19, DefaultGrowthFactor)
	if n != 19 {
		t.Fatalf("expected 19 bytes appended, got %d", n)
	}
	if string(b.Bytes()) != "hello, pooled world" {
		t.Fatalf("unexpected contents: %q", b.Bytes())
	}
	b.Free()
}

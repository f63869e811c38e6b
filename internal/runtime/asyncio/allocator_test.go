package asyncio

import "testing"

func TestPooledAllocator_AcquireReturnsBucketCapacity(t *testing.T) {
	a := NewPooledAllocator(DefaultBytePool())
	buf := a.Acquire(1500)
	if cap(buf) < 1500 {
		t.Fatalf("expected capacity >= 1500, got %d", cap(buf))
	}
	if len(buf) != 0 {
		t.Fatalf("expected zero-length buffer, got len %d", len(buf))
	}
}

func TestPooledAllocator_ResizePreservesContentAndGrows(t *testing.T) {
	a := NewPooledAllocator(DefaultBytePool())
	buf := a.Acquire(16)
	buf = append(buf, []byte("hello")...)

	grown := a.Resize(buf, 4096)
	if cap(grown) < 4096 {
		t.Fatalf("expected capacity >= 4096, got %d", cap(grown))
	}
	if string(grown) != "hello" {
		t.Fatalf("expected content preserved, got %q", grown)
	}
}

func TestPooledAllocator_ResizeNoopWhenCapacityAlreadySufficient(t *testing.T) {
	a := NewPooledAllocator(DefaultBytePool())
	buf := make([]byte, 0, 100)
	buf = append(buf, []byte("x")...)

	same := a.Resize(buf, 10)
	if &same[0] != &buf[0] {
		t.Fatalf("expected Resize to return the same backing array when capacity already suffices")
	}
}

func TestPooledAllocator_ReleaseIsSafeForUnpooledAndPooledBuffers(t *testing.T) {
	a := NewPooledAllocator(DefaultBytePool())
	a.Release(make([]byte, 0, 1<<20)) // oversize, not a managed bucket
	a.Release(a.Acquire(2048))        // a managed bucket size
}

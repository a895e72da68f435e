package camview

import (
	"fmt"
	"image"
	"sync"
)

// FrameBuffer is one unit of externally owned pixel memory representing a
// single camera or video frame.
//
// The provider locks a frame read-only for the duration of one render pass
// and unlocks it before returning; it never retains a frame across calls.
// Implementations typically wrap a hardware buffer, a decoder output slab, or
// a capture-session sample.
type FrameBuffer interface {
	// Lock pins the frame's pixels and returns a read-only view of them.
	// It returns an error wrapping ErrEmptyFrame if the frame holds no
	// usable pixel data.
	Lock() (image.Image, error)

	// Unlock releases the pinned pixels. The image returned by Lock must
	// not be used after Unlock.
	Unlock()
}

// MemoryFrameBuffer is a FrameBuffer over an in-memory image. It satisfies
// the lock discipline with a plain mutex, making it suitable for tests,
// synthetic sources, and hosts that decode on the CPU.
type MemoryFrameBuffer struct {
	mu  sync.Mutex
	img image.Image
}

// NewMemoryFrameBuffer wraps img as a FrameBuffer. The caller must not
// mutate img while a render pass holds the lock.
func NewMemoryFrameBuffer(img image.Image) *MemoryFrameBuffer {
	return &MemoryFrameBuffer{img: img}
}

// Lock implements FrameBuffer.
func (b *MemoryFrameBuffer) Lock() (image.Image, error) {
	b.mu.Lock()
	if b.img == nil || b.img.Bounds().Empty() {
		b.mu.Unlock()
		return nil, fmt.Errorf("lock memory frame: %w", ErrEmptyFrame)
	}
	return b.img, nil
}

// Unlock implements FrameBuffer.
func (b *MemoryFrameBuffer) Unlock() {
	b.mu.Unlock()
}

// Store replaces the buffered image. Store blocks while a render pass holds
// the lock, so a source can reuse one buffer across deliveries.
func (b *MemoryFrameBuffer) Store(img image.Image) {
	b.mu.Lock()
	b.img = img
	b.mu.Unlock()
}

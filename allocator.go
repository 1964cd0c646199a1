package vitrine

// MemoryRegion is an owned block of process-visible memory usable by both
// the application and the presentation target.
type MemoryRegion interface {
	Data() []byte
	Size() int
	Close() error
}

// MemoryAllocator provides the shared memory backing PixelBuffers.
// Allocation failure must be recoverable, never fatal; the surface responds
// by skipping the frame.
type MemoryAllocator interface {
	Allocate(byteSize int) (MemoryRegion, error)
}

// AllocatorFunc adapts a function to the MemoryAllocator interface.
type AllocatorFunc func(byteSize int) (MemoryRegion, error)

func (self AllocatorFunc) Allocate(byteSize int) (MemoryRegion, error) {
	return self(byteSize)
}

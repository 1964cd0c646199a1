//go:build !linux

package shm

// Without memfd support the platform allocator degrades to heap-backed
// regions.
func createRegion(byteSize int) (*heapRegion, error) {
	return &heapRegion{data: make([]byte, byteSize)}, nil
}

// Package shm allocates the shared memory backing presentation buffers. On
// Linux regions are anonymous memfd-backed mappings whose file descriptors
// can be handed to a display compositor; elsewhere (and for tests) a
// heap-backed allocator stands in.
package shm

import (
	"github.com/pkg/errors"

	"github.com/openpane/vitrine"
)

// NewAllocator returns the platform's shared memory allocator.
func NewAllocator() vitrine.MemoryAllocator {
	return vitrine.AllocatorFunc(func(byteSize int) (vitrine.MemoryRegion, error) {
		if byteSize <= 0 {
			return nil, errors.Errorf("invalid region size [%d]", byteSize)
		}
		region, err := createRegion(byteSize)
		if err != nil {
			return nil, err
		}
		return region, nil
	})
}

// NewHeapAllocator returns an allocator backed by ordinary process memory.
// The regions it produces cannot be shared with an external compositor.
func NewHeapAllocator() vitrine.MemoryAllocator {
	return vitrine.AllocatorFunc(func(byteSize int) (vitrine.MemoryRegion, error) {
		if byteSize <= 0 {
			return nil, errors.Errorf("invalid region size [%d]", byteSize)
		}
		return &heapRegion{data: make([]byte, byteSize)}, nil
	})
}

// AllocatorForName maps a profile's allocator selection to an
// implementation.
func AllocatorForName(name string) (vitrine.MemoryAllocator, error) {
	switch name {
	case "shm":
		return NewAllocator(), nil
	case "heap":
		return NewHeapAllocator(), nil
	default:
		return nil, errors.Errorf("unknown allocator '%s'", name)
	}
}

type heapRegion struct {
	data []byte
}

func (self *heapRegion) Data() []byte {
	return self.data
}

func (self *heapRegion) Size() int {
	return len(self.data)
}

func (self *heapRegion) Close() error {
	self.data = nil
	return nil
}

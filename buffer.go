package vitrine

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type PixelFormat uint8

const (
	ARGB8888 PixelFormat = iota
	XRGB8888
)

func ParsePixelFormat(name string) (PixelFormat, error) {
	switch name {
	case "argb8888":
		return ARGB8888, nil
	case "xrgb8888":
		return XRGB8888, nil
	default:
		return 0, errors.Errorf("unknown pixel format '%s'", name)
	}
}

func (self PixelFormat) BytesPerPixel() int {
	return 4
}

func (self PixelFormat) String() string {
	switch self {
	case ARGB8888:
		return "argb8888"
	case XRGB8888:
		return "xrgb8888"
	default:
		return "unknown"
	}
}

// PixelBuffer couples one shared memory region with the pixel geometry drawn
// into it. The size never changes after creation; resizing means a new
// buffer. The attached flag tracks whether the presentation target currently
// holds the buffer for reading; the target binding flips it from whatever
// thread delivers the release notification, so it is observed atomically
// while the rest of the struct is guarded by the owning surface's mutex.
type PixelBuffer struct {
	id       int32
	region   MemoryRegion
	size     Size
	format   PixelFormat
	age      uint32
	attached int32
}

func newPixelBuffer(id int32, region MemoryRegion, size Size, format PixelFormat) *PixelBuffer {
	return &PixelBuffer{
		id:     id,
		region: region,
		size:   size,
		format: format,
	}
}

func (self *PixelBuffer) Id() int32 {
	return self.id
}

func (self *PixelBuffer) Size() Size {
	return self.size
}

func (self *PixelBuffer) Format() PixelFormat {
	return self.format
}

func (self *PixelBuffer) Stride() int {
	return self.size.Width * self.format.BytesPerPixel()
}

// Data is the buffer's pixel memory, stride*height bytes.
func (self *PixelBuffer) Data() []byte {
	return self.region.Data()[:self.size.Height*self.Stride()]
}

func (self *PixelBuffer) Age() uint32 {
	return self.age
}

// Attach marks the buffer as held by the presentation target for reading.
func (self *PixelBuffer) Attach() {
	atomic.StoreInt32(&self.attached, 1)
}

// Release marks the buffer as no longer held by the presentation target.
// Called by the target binding when the compositor releases the buffer,
// possibly long after commit and from any thread.
func (self *PixelBuffer) Release() {
	atomic.StoreInt32(&self.attached, 0)
}

func (self *PixelBuffer) IsAttached() bool {
	return atomic.LoadInt32(&self.attached) == 1
}

func (self *PixelBuffer) matchesSize(sz Size) bool {
	return self.size == sz
}

func (self *PixelBuffer) incrementAge() {
	self.age++
}

func (self *PixelBuffer) resetAge() {
	self.age = 0
}

func (self *PixelBuffer) destroy() {
	if self.region != nil {
		if err := self.region.Close(); err != nil {
			logrus.Errorf("error releasing region for buffer [#%d] (%v)", self.id, err)
		}
		self.region = nil
	}
}

// copyBufferRegion copies region pixels from src into dst at identical
// coordinates, bit-for-bit. Both buffers must share a format; the region
// must lie within both extents. Returns bytes copied.
func copyBufferRegion(dst, src *PixelBuffer, region Region) int {
	bpp := src.format.BytesPerPixel()
	srcData := src.Data()
	dstData := dst.Data()
	total := 0
	for _, r := range region.Rects() {
		rowBytes := r.Dx() * bpp
		for y := r.Min.Y; y < r.Max.Y; y++ {
			srcOff := y*src.Stride() + r.Min.X*bpp
			dstOff := y*dst.Stride() + r.Min.X*bpp
			total += copy(dstData[dstOff:dstOff+rowBytes], srcData[srcOff:srcOff+rowBytes])
		}
	}
	return total
}

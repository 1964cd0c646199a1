package vitrine

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openpane/vitrine/util"
)

// bufferPool owns every PixelBuffer of one surface across disjoint buckets:
// available (idle, correctly sized), inUse (being painted), pending
// (returned by the painter but still attached to the target), and the single
// front slot (the most recently committed buffer). A buffer is never in more
// than one bucket.
//
// The pool has no lock of its own; every method carries the Locked suffix
// and requires the owning surface's mutex to be held.
type bufferPool struct {
	allocator MemoryAllocator
	format    PixelFormat
	seq       *util.Sequence
	available *arraylist.List
	inUse     *arraylist.List
	pending   *arraylist.List
	front     *PixelBuffer
	ii        InstrumentInstance
}

func newBufferPool(allocator MemoryAllocator, format PixelFormat, ii InstrumentInstance) *bufferPool {
	return &bufferPool{
		allocator: allocator,
		format:    format,
		seq:       util.NewSequence(0),
		available: arraylist.New(),
		inUse:     arraylist.New(),
		pending:   arraylist.New(),
		ii:        ii,
	}
}

// obtainLocked pops the most recently returned available buffer, or
// allocates a new one of the requested size. Either way the buffer moves to
// inUse. Allocation failure is signaled, not fatal; the pool is unchanged.
func (self *bufferPool) obtainLocked(size Size) (*PixelBuffer, error) {
	if !self.available.Empty() {
		last := self.available.Size() - 1
		v, _ := self.available.Get(last)
		self.available.Remove(last)
		buffer := v.(*PixelBuffer)
		self.inUse.Add(buffer)
		self.ii.BufferReused(buffer.Id())
		self.notifySizesLocked()
		return buffer, nil
	}

	byteSize := size.Width * size.Height * self.format.BytesPerPixel()
	region, err := self.allocator.Allocate(byteSize)
	if err != nil {
		err = errors.Wrapf(err, "allocate [%d] bytes", byteSize)
		self.ii.AllocationFailed(err)
		return nil, err
	}
	buffer := newPixelBuffer(self.seq.Next(), region, size, self.format)
	self.inUse.Add(buffer)
	self.ii.Allocated(buffer.Id(), byteSize)
	self.notifySizesLocked()
	return buffer, nil
}

// returnLocked re-buckets a buffer the painter no longer holds. Attached
// buffers park in pending until the target releases them; detached buffers
// of the current size go back to available; stale-sized buffers are evicted.
func (self *bufferPool) returnLocked(buffer *PixelBuffer, targetSize Size) {
	self.removeLocked(buffer)
	if buffer.IsAttached() {
		self.pending.Add(buffer)
	} else if buffer.matchesSize(targetSize) {
		self.available.Add(buffer)
	} else {
		self.evictLocked(buffer)
	}
	self.notifySizesLocked()
}

// reuseFrontLocked moves the front buffer back to inUse for direct repaint,
// skipping the available bucket. Only valid when the front buffer is
// detached.
func (self *bufferPool) reuseFrontLocked() *PixelBuffer {
	buffer := self.front
	self.front = nil
	self.inUse.Add(buffer)
	return buffer
}

// promoteFrontLocked designates the buffer just handed to the target as the
// new front buffer and restarts its age.
func (self *bufferPool) promoteFrontLocked(buffer *PixelBuffer) {
	if idx := self.inUse.IndexOf(buffer); idx != -1 {
		self.inUse.Remove(idx)
	}
	buffer.resetAge()
	self.front = buffer
	self.notifySizesLocked()
}

// reclaimPendingLocked recovers pending buffers the target has released
// since the last frame. Runs before any obtain so reuse is preferred over
// allocation.
func (self *bufferPool) reclaimPendingLocked(targetSize Size) {
	for i := 0; i < self.pending.Size(); {
		v, _ := self.pending.Get(i)
		buffer := v.(*PixelBuffer)
		if buffer.IsAttached() {
			i++
			continue
		}
		self.pending.Remove(i)
		if buffer.matchesSize(targetSize) {
			self.available.Add(buffer)
			self.ii.BufferReclaimed(buffer.Id())
		} else {
			self.evictLocked(buffer)
		}
	}
	self.notifySizesLocked()
}

// enforceSizeLimitLocked trims available to at most limit entries, evicting
// oldest-inserted first.
func (self *bufferPool) enforceSizeLimitLocked(limit int) {
	for self.available.Size() > limit {
		v, _ := self.available.Get(0)
		self.available.Remove(0)
		self.evictLocked(v.(*PixelBuffer))
	}
	if self.pending.Size() > limit {
		logrus.Warnf("pending buffers [%d] exceed pool limit [%d], leaking?", self.pending.Size(), limit)
	}
	self.notifySizesLocked()
}

// clearAvailableLocked evicts every available buffer. Used on window resize,
// when all pooled buffers are stale-sized.
func (self *bufferPool) clearAvailableLocked() {
	for _, v := range self.available.Values() {
		self.evictLocked(v.(*PixelBuffer))
	}
	self.available.Clear()
	self.notifySizesLocked()
}

// incrementAgeLocked ages every pooled buffer by one committed frame. The
// front buffer holds age 0 for as long as it is front; a buffer that left
// front one commit ago therefore carries age 1, which is what the
// partial-update fast path keys on.
func (self *bufferPool) incrementAgeLocked() {
	for _, v := range self.inUse.Values() {
		v.(*PixelBuffer).incrementAge()
	}
	for _, v := range self.pending.Values() {
		v.(*PixelBuffer).incrementAge()
	}
	for _, v := range self.available.Values() {
		v.(*PixelBuffer).incrementAge()
	}
}

// closeLocked destroys every buffer the pool still owns. Buffers the target
// still holds attached are leaked with a warning; their memory must not be
// freed while the compositor reads it.
func (self *bufferPool) closeLocked() {
	for _, v := range self.available.Values() {
		self.evictLocked(v.(*PixelBuffer))
	}
	self.available.Clear()
	for _, v := range self.inUse.Values() {
		self.evictLocked(v.(*PixelBuffer))
	}
	self.inUse.Clear()
	for _, v := range self.pending.Values() {
		buffer := v.(*PixelBuffer)
		if buffer.IsAttached() {
			logrus.Warnf("buffer [#%d] still attached at close, leaking region", buffer.Id())
			continue
		}
		self.evictLocked(buffer)
	}
	self.pending.Clear()
	if self.front != nil {
		if self.front.IsAttached() {
			logrus.Warnf("front buffer [#%d] still attached at close, leaking region", self.front.Id())
		} else {
			self.evictLocked(self.front)
		}
		self.front = nil
	}
}

func (self *bufferPool) removeLocked(buffer *PixelBuffer) {
	if idx := self.inUse.IndexOf(buffer); idx != -1 {
		self.inUse.Remove(idx)
	}
	if self.front == buffer {
		self.front = nil
	}
}

func (self *bufferPool) evictLocked(buffer *PixelBuffer) {
	self.ii.BufferEvicted(buffer.Id())
	buffer.destroy()
}

func (self *bufferPool) notifySizesLocked() {
	self.ii.PoolSzChanged(self.available.Size(), self.inUse.Size(), self.pending.Size())
}

package vitrine

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Surface drives the presentation cycle for one window: Lock begins a frame
// and hands the caller a drawable buffer, Commit hands the painted buffer to
// the presentation target. One Surface draws one window so those are tied
// 1:1.
//
// Lock, Commit and the deferred-commit callback serialize on one mutex. The
// mutex is short-held; it never spans the caller's drawing.
type Surface struct {
	lock                     *sync.Mutex
	window                   Window
	target                   PresentationTarget
	pool                     *bufferPool
	profile                  *Profile
	windowSize               Size
	inProgressBuffer         *PixelBuffer
	frontBuffer              *PixelBuffer
	frontBufferInvalidRegion Region
	deferredCommitRegion     Region
	frameInProcess           bool
	callbackRequested        bool
	ii                       InstrumentInstance
}

func NewSurface(id string, window Window, target PresentationTarget, allocator MemoryAllocator, profile *Profile) (*Surface, error) {
	format, err := ParsePixelFormat(profile.PixelFormat)
	if err != nil {
		return nil, errors.Wrap(err, "pixel format")
	}
	ii := profile.Instrument().NewInstance(id)
	return &Surface{
		lock:    new(sync.Mutex),
		window:  window,
		target:  target,
		pool:    newBufferPool(allocator, format, ii),
		profile: profile,
		ii:      ii,
	}, nil
}

// Lock begins a frame. It returns a draw target bound to a buffer the caller
// may paint into until Commit. A nil target with nil error means the window
// is not presentable and the frame is a no-op; an error means no buffer
// could be obtained and the caller degrades by skipping the frame.
func (self *Surface) Lock(invalidRegion Region) (*DrawTarget, error) {
	self.lock.Lock()
	defer self.lock.Unlock()

	logrus.Debugf("lock %v rects [%d]", invalidRegion.Bounds(), invalidRegion.NumRects())

	if !self.window.Visible() {
		return nil, nil
	}
	self.frameInProcess = true
	self.ii.FrameLocked(invalidRegion)

	self.pool.reclaimPendingLocked(self.windowSize)

	// Size invalidation strictly precedes the front-buffer reuse branch: a
	// resized window never repaints into a stale-sized buffer.
	if self.maybeUpdateWindowSizeLocked() {
		logrus.Debugf("new window size %s", self.windowSize)
		if self.inProgressBuffer != nil {
			self.pool.returnLocked(self.inProgressBuffer, self.windowSize)
			self.inProgressBuffer = nil
		}
		if self.frontBuffer != nil {
			self.pool.returnLocked(self.frontBuffer, self.windowSize)
			self.frontBuffer = nil
		}
		self.pool.clearAvailableLocked()
	}

	if self.inProgressBuffer == nil {
		if self.frontBuffer != nil && !self.frontBuffer.IsAttached() {
			// the target already released last frame's buffer; repaint it
			// directly without a pool round-trip
			self.inProgressBuffer = self.pool.reuseFrontLocked()
		} else {
			buffer, err := self.pool.obtainLocked(self.windowSize)
			if err != nil {
				return nil, errors.Wrap(err, "obtain buffer")
			}
			self.inProgressBuffer = buffer
			if self.frontBuffer != nil {
				self.handlePartialUpdateLocked(invalidRegion)
				self.pool.returnLocked(self.frontBuffer, self.windowSize)
			}
		}
		self.frontBuffer = nil
		self.frontBufferInvalidRegion = Region{}
	}

	return newDrawTarget(self.inProgressBuffer), nil
}

func (self *Surface) maybeUpdateWindowSizeLocked() bool {
	newSize := self.window.ClientSize()
	if newSize != self.windowSize {
		self.windowSize = newSize
		self.ii.WindowSizeChanged(newSize)
		return true
	}
	return false
}

// handlePartialUpdateLocked copies still-valid pixels forward from the
// previous front buffer into the freshly obtained in-progress buffer, so the
// caller only repaints the invalid region.
//
// Age 1 means the in-progress buffer was the front buffer exactly one commit
// ago; only the pixels the intervening frame changed (minus this frame's
// damage) need copying. Any colder buffer trusts nothing but the pixels
// strictly outside this frame's damage.
func (self *Surface) handlePartialUpdateLocked(invalidRegion Region) {
	var copyRegion Region
	if self.inProgressBuffer.Age() == 1 {
		copyRegion = self.frontBufferInvalidRegion.Sub(invalidRegion)
	} else {
		copyRegion = RegionFromSize(self.frontBuffer.Size()).Sub(invalidRegion)
	}
	copyRegion = copyRegion.Clamp(self.frontBuffer.Size()).Clamp(self.inProgressBuffer.Size())
	if copyRegion.IsEmpty() {
		return
	}
	copied := copyBufferRegion(self.inProgressBuffer, self.frontBuffer, copyRegion)
	self.ii.PartialUpdate(copyRegion.NumRects(), copied)
}

// Commit hands the painted buffer to the presentation target. If the target
// is not currently mapped the commit is deferred, not dropped: a one-shot
// ready callback re-enters the commit path with the most recent damage
// region. Only the newest deferred commit survives.
func (self *Surface) Commit(invalidRegion Region) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.commitLocked(invalidRegion)
}

func (self *Surface) commitLocked(invalidRegion Region) {
	logrus.Debugf("commit %v window %s", invalidRegion.Bounds(), self.windowSize)

	if self.inProgressBuffer == nil {
		// lock produced no draw target, nothing to present
		return
	}
	self.frameInProcess = false

	if !self.target.IsMapped() {
		self.deferredCommitRegion = invalidRegion
		if !self.callbackRequested {
			self.target.AddReadyCallback(func() {
				self.lock.Lock()
				defer self.lock.Unlock()
				self.callbackRequested = false
				if self.frameInProcess {
					// a newer frame started; presenting now would clobber it
					self.ii.CommitSuperseded()
					return
				}
				self.commitLocked(self.deferredCommitRegion)
			})
			self.callbackRequested = true
			self.ii.CommitDeferred()
			logrus.Debugf("frame queued: target not mapped")
		}
		return
	}

	damage := invalidRegion.Clamp(self.inProgressBuffer.Size())
	presented := damage
	if self.target.Origin() == OriginBottomLeft {
		presented = damage.FlipY(self.inProgressBuffer.Size().Height)
	}
	self.target.Invalidate(presented)
	self.inProgressBuffer.Attach()
	self.target.Attach(self.inProgressBuffer)
	self.target.Commit(true)

	self.pool.promoteFrontLocked(self.inProgressBuffer)
	self.frontBuffer = self.inProgressBuffer
	self.frontBufferInvalidRegion = damage
	self.inProgressBuffer = nil
	self.ii.FrameCommitted(damage)

	self.pool.enforceSizeLimitLocked(self.profile.PoolSizeLimit)
	self.pool.incrementAgeLocked()
}

// Close releases every buffer the surface still owns and shuts down its
// instrumentation. Buffers the target still holds attached are leaked rather
// than freed out from under the compositor.
func (self *Surface) Close() {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.inProgressBuffer != nil {
		self.pool.returnLocked(self.inProgressBuffer, self.windowSize)
		self.inProgressBuffer = nil
	}
	if self.frontBuffer != nil {
		self.pool.returnLocked(self.frontBuffer, self.windowSize)
		self.frontBuffer = nil
	}
	self.pool.closeLocked()
	self.ii.Closed()
	self.ii.Shutdown()
}

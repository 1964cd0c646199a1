package stress

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openpane/vitrine"
	vitrinecmd "github.com/openpane/vitrine/cmd/vitrine/vitrine"
	"github.com/openpane/vitrine/shm"
)

func stress(_ *cobra.Command, _ []string) {
	p, err := vitrinecmd.LoadProfile()
	if err != nil {
		logrus.Fatalf("error loading profile (%v)", err)
	}
	allocator, err := shm.AllocatorForName(p.Allocator)
	if err != nil {
		logrus.Fatalf("error creating allocator (%v)", err)
	}

	painters, err := ants.NewPool(workers)
	if err != nil {
		logrus.Fatalf("error creating painter pool (%v)", err)
	}
	defer painters.Release()

	start := time.Now()
	wg := new(sync.WaitGroup)
	for i := 0; i < windows; i++ {
		id := i
		wg.Add(1)
		if err := painters.Submit(func() {
			defer wg.Done()
			runWindow(id, p, allocator)
		}); err != nil {
			wg.Done()
			logrus.Errorf("error submitting window [%d] (%v)", id, err)
		}
	}
	wg.Wait()
	logrus.Infof("presented [%d] windows x [%d] frames in %s", windows, frames, time.Since(start))

	if mi, ok := p.Instrument().(*vitrine.MetricsInstrument); ok {
		if err := mi.WriteAllSamples(); err != nil {
			logrus.Errorf("error writing samples (%v)", err)
		}
	}
}

func runWindow(id int, p *vitrine.Profile, allocator vitrine.MemoryAllocator) {
	rng := rand.New(rand.NewSource(int64(id) + 1))
	window := &simWindow{size: vitrine.Size{Width: width, Height: height}}
	target := newSimTarget(time.Duration(releaseMs) * time.Millisecond)

	surface, err := vitrine.NewSurface(fmt.Sprintf("window-%d", id), window, target, allocator, p)
	if err != nil {
		logrus.Errorf("error creating surface (%v)", err)
		return
	}
	defer surface.Close()

	for frame := 0; frame < frames; frame++ {
		if resizeEvery > 0 && frame > 0 && frame%resizeEvery == 0 {
			window.resize(vitrine.Size{
				Width:  width + rng.Intn(256),
				Height: height + rng.Intn(256),
			})
		}
		if unmapEvery > 0 && frame > 0 && frame%unmapEvery == 0 {
			target.unmap(time.Duration(remapMs) * time.Millisecond)
		}

		damage := frameDamage(rng, window.ClientSize(), frame)
		dt, err := surface.Lock(damage)
		if err != nil {
			logrus.Errorf("skipping frame [%d] (%v)", frame, err)
			continue
		}
		if dt == nil {
			continue
		}
		shade := uint8(frame)
		for _, r := range damage.Clamp(window.ClientSize()).Rects() {
			dt.Fill(r, color.RGBA{R: shade, G: uint8(id), B: 0x20, A: 0xff})
		}
		surface.Commit(damage)

		time.Sleep(time.Duration(frameMs) * time.Millisecond)
	}
}

// frameDamage produces a full-window region for the first frame and small
// random dirty rectangles afterwards, approximating incremental repaint.
func frameDamage(rng *rand.Rand, sz vitrine.Size, frame int) vitrine.Region {
	if frame == 0 {
		return vitrine.RegionFromSize(sz)
	}
	n := 1 + rng.Intn(3)
	var damage vitrine.Region
	for i := 0; i < n; i++ {
		w := 16 + rng.Intn(sz.Width/4+1)
		h := 16 + rng.Intn(sz.Height/4+1)
		x := rng.Intn(sz.Width)
		y := rng.Intn(sz.Height)
		damage.Add(image.Rect(x, y, x+w, y+h).Intersect(sz.Bounds()))
	}
	return damage
}

type simWindow struct {
	lock sync.Mutex
	size vitrine.Size
}

func (self *simWindow) ClientSize() vitrine.Size {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.size
}

func (self *simWindow) Visible() bool {
	return true
}

func (self *simWindow) resize(sz vitrine.Size) {
	self.lock.Lock()
	self.size = sz
	self.lock.Unlock()
}

// simTarget imitates a compositor binding: it holds attached buffers for a
// release latency, and can unmap itself for a while to exercise the
// deferred-commit path.
type simTarget struct {
	lock      sync.Mutex
	mapped    bool
	releaseIn time.Duration
	ready     []func()
}

func newSimTarget(releaseIn time.Duration) *simTarget {
	return &simTarget{mapped: true, releaseIn: releaseIn}
}

func (self *simTarget) IsMapped() bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.mapped
}

func (self *simTarget) Origin() vitrine.Origin {
	return vitrine.OriginTopLeft
}

func (self *simTarget) Invalidate(vitrine.Region) {}

func (self *simTarget) Attach(buffer *vitrine.PixelBuffer) {
	time.AfterFunc(self.releaseIn, buffer.Release)
}

func (self *simTarget) Commit(bool) {}

func (self *simTarget) AddReadyCallback(fn func()) {
	self.lock.Lock()
	self.ready = append(self.ready, fn)
	self.lock.Unlock()
}

func (self *simTarget) unmap(remapIn time.Duration) {
	self.lock.Lock()
	self.mapped = false
	self.lock.Unlock()

	time.AfterFunc(remapIn, func() {
		self.lock.Lock()
		self.mapped = true
		ready := self.ready
		self.ready = nil
		self.lock.Unlock()
		for _, fn := range ready {
			fn()
		}
	})
}

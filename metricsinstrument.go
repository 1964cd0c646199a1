package vitrine

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openziti-incubator/cf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openpane/vitrine/util"
)

type MetricsInstrument struct {
	lock      sync.Mutex
	Config    *MetricsInstrumentConfig
	instances []*metricsInstrumentInstance
}

type MetricsInstrumentConfig struct {
	Path       string `cf:"path"`
	SnapshotMs int    `cf:"snapshot_ms"`
	Enabled    bool   `cf:"enabled"`
}

func NewMetricsInstrument(config map[string]interface{}) (Instrument, error) {
	i := &MetricsInstrument{
		Config: &MetricsInstrumentConfig{
			SnapshotMs: 1000,
			Enabled:    true,
		},
	}
	if err := cf.Bind(i.Config, config, cf.DefaultOptions()); err != nil {
		return nil, errors.Wrap(err, "unable to load config")
	}
	if err := addCtrlListener(i); err != nil {
		return nil, err
	}
	logrus.Infof(cf.Dump(i.Config, cf.DefaultOptions()))
	return i, nil
}

func addCtrlListener(i *MetricsInstrument) error {
	cl, err := util.GetCtrlListener(i.Config.Path, "vitrine")
	if err != nil {
		return errors.Wrap(err, "unable to get metrics ctrl listener")
	}
	cl.AddCallback("start", func(string) error {
		i.Config.Enabled = true
		return nil
	})
	cl.AddCallback("stop", func(string) error {
		i.Config.Enabled = false
		return nil
	})
	cl.AddCallback("write", func(string) error {
		if err := i.WriteAllSamples(); err != nil {
			logrus.Errorf("error writing samples (%v)", err)
			return err
		}
		return nil
	})
	cl.AddCallback("clean", func(string) error {
		i.clean()
		return nil
	})
	cl.Start()
	return nil
}

func (self *MetricsInstrument) NewInstance(id string) InstrumentInstance {
	self.lock.Lock()
	defer self.lock.Unlock()
	ii := &metricsInstrumentInstance{
		id:     id,
		config: self.Config,
		close:  make(chan struct{}, 1),
	}
	go ii.snapshotter(self.Config.SnapshotMs)
	self.instances = append(self.instances, ii)
	return ii
}

func (self *MetricsInstrument) WriteAllSamples() error {
	self.lock.Lock()
	defer self.lock.Unlock()

	for _, ii := range self.instances {
		prefix := strings.ReplaceAll(fmt.Sprintf("%s_", ii.id), ":", "-")
		if err := os.MkdirAll(self.Config.Path, os.ModePerm); err != nil {
			return err
		}
		outPath, err := os.MkdirTemp(self.Config.Path, prefix)
		if err != nil {
			return err
		}
		logrus.Infof("writing metrics to: %s", outPath)

		var values map[string]string
		if err := util.WriteMetricsId("vitrine.1", outPath, values); err != nil {
			return err
		}
		for name, samples := range map[string][]*util.Sample{
			"allocations":        ii.allocations,
			"allocation_fails":   ii.allocationFails,
			"reuses":             ii.reuses,
			"reclaims":           ii.reclaims,
			"evictions":          ii.evictions,
			"available_sz":       ii.availableSz,
			"in_use_sz":          ii.inUseSz,
			"pending_sz":         ii.pendingSz,
			"frames_locked":      ii.framesLocked,
			"frames_committed":   ii.framesCommitted,
			"commits_deferred":   ii.commitsDeferred,
			"commits_superseded": ii.commitsSuperseded,
			"copy_rects":         ii.copyRects,
			"copy_bytes":         ii.copyBytes,
			"resizes":            ii.resizes,
		} {
			if err := util.WriteSamples(name, outPath, samples); err != nil {
				return err
			}
		}
	}
	return nil
}

func (self *MetricsInstrument) clean() {
	self.lock.Lock()
	defer self.lock.Unlock()

	idx := self.findClosed()
	for idx != -1 {
		logrus.Infof("removed metricsInstrumentInstance #%p", self.instances[idx])
		self.instances = append(self.instances[:idx], self.instances[idx+1:]...)
		idx = self.findClosed()
	}
}

func (self *MetricsInstrument) findClosed() int {
	for i, ii := range self.instances {
		if ii.closed {
			return i
		}
	}
	return -1
}

type metricsInstrumentInstance struct {
	id     string
	config *MetricsInstrumentConfig
	close  chan struct{}
	closed bool

	allocations           []*util.Sample
	allocationsAccum      int64
	allocationFails       []*util.Sample
	allocationFailsAccum  int64
	reuses                []*util.Sample
	reusesAccum           int64
	reclaims              []*util.Sample
	reclaimsAccum         int64
	evictions             []*util.Sample
	evictionsAccum        int64
	availableSz           []*util.Sample
	availableSzVal        int64
	inUseSz               []*util.Sample
	inUseSzVal            int64
	pendingSz             []*util.Sample
	pendingSzVal          int64
	framesLocked          []*util.Sample
	framesLockedAccum     int64
	framesCommitted       []*util.Sample
	framesCommittedAccum  int64
	commitsDeferred       []*util.Sample
	commitsDeferredAccum  int64
	commitsSuperseded     []*util.Sample
	commitsSupersededAccum int64
	copyRects             []*util.Sample
	copyRectsAccum        int64
	copyBytes             []*util.Sample
	copyBytesAccum        int64
	resizes               []*util.Sample
	resizesAccum          int64
}

/*
 * allocation
 */

func (self *metricsInstrumentInstance) Allocated(int32, int) {
	if self.config.Enabled {
		atomic.AddInt64(&self.allocationsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) AllocationFailed(error) {
	if self.config.Enabled {
		atomic.AddInt64(&self.allocationFailsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) BufferReused(int32) {
	if self.config.Enabled {
		atomic.AddInt64(&self.reusesAccum, 1)
	}
}

func (self *metricsInstrumentInstance) BufferReclaimed(int32) {
	if self.config.Enabled {
		atomic.AddInt64(&self.reclaimsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) BufferEvicted(int32) {
	if self.config.Enabled {
		atomic.AddInt64(&self.evictionsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) PoolSzChanged(available, inUse, pending int) {
	if self.config.Enabled {
		atomic.StoreInt64(&self.availableSzVal, int64(available))
		atomic.StoreInt64(&self.inUseSzVal, int64(inUse))
		atomic.StoreInt64(&self.pendingSzVal, int64(pending))
	}
}

/*
 * frame cycle
 */

func (self *metricsInstrumentInstance) FrameLocked(Region) {
	if self.config.Enabled {
		atomic.AddInt64(&self.framesLockedAccum, 1)
	}
}

func (self *metricsInstrumentInstance) FrameCommitted(Region) {
	if self.config.Enabled {
		atomic.AddInt64(&self.framesCommittedAccum, 1)
	}
}

func (self *metricsInstrumentInstance) CommitDeferred() {
	if self.config.Enabled {
		atomic.AddInt64(&self.commitsDeferredAccum, 1)
	}
}

func (self *metricsInstrumentInstance) CommitSuperseded() {
	if self.config.Enabled {
		atomic.AddInt64(&self.commitsSupersededAccum, 1)
	}
}

func (self *metricsInstrumentInstance) PartialUpdate(rects, bytes int) {
	if self.config.Enabled {
		atomic.AddInt64(&self.copyRectsAccum, int64(rects))
		atomic.AddInt64(&self.copyBytesAccum, int64(bytes))
	}
}

func (self *metricsInstrumentInstance) WindowSizeChanged(Size) {
	if self.config.Enabled {
		atomic.AddInt64(&self.resizesAccum, 1)
	}
}

/*
 * instrument lifecycle
 */

func (self *metricsInstrumentInstance) Closed() {
	logrus.Infof("closing snapshotter")
}

func (self *metricsInstrumentInstance) Shutdown() {
	if !self.closed {
		self.closed = true
		close(self.close)
	}
}

func (self *metricsInstrumentInstance) snapshotter(ms int) {
	logrus.Infof("started")
	defer logrus.Infof("exited")
	for {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		if self.config.Enabled {
			self.snapshot()
		}
		select {
		case <-self.close:
			self.snapshot()
			return
		default:
			//
		}
	}
}

func (self *metricsInstrumentInstance) snapshot() {
	now := time.Now()
	self.allocations = append(self.allocations, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.allocationsAccum, 0)})
	self.allocationFails = append(self.allocationFails, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.allocationFailsAccum, 0)})
	self.reuses = append(self.reuses, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.reusesAccum, 0)})
	self.reclaims = append(self.reclaims, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.reclaimsAccum, 0)})
	self.evictions = append(self.evictions, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.evictionsAccum, 0)})
	self.availableSz = append(self.availableSz, &util.Sample{Ts: now, V: atomic.LoadInt64(&self.availableSzVal)})
	self.inUseSz = append(self.inUseSz, &util.Sample{Ts: now, V: atomic.LoadInt64(&self.inUseSzVal)})
	self.pendingSz = append(self.pendingSz, &util.Sample{Ts: now, V: atomic.LoadInt64(&self.pendingSzVal)})
	self.framesLocked = append(self.framesLocked, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.framesLockedAccum, 0)})
	self.framesCommitted = append(self.framesCommitted, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.framesCommittedAccum, 0)})
	self.commitsDeferred = append(self.commitsDeferred, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.commitsDeferredAccum, 0)})
	self.commitsSuperseded = append(self.commitsSuperseded, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.commitsSupersededAccum, 0)})
	self.copyRects = append(self.copyRects, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.copyRectsAccum, 0)})
	self.copyBytes = append(self.copyBytes, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.copyBytesAccum, 0)})
	self.resizes = append(self.resizes, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.resizesAccum, 0)})
}

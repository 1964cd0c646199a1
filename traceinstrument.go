package vitrine

import (
	"fmt"
	"sync"

	"github.com/openziti-incubator/cf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type traceInstrument struct {
	config *traceInstrumentConfig
}

type traceInstrumentConfig struct {
	Pool  bool `cf:"pool"`
	Frame bool `cf:"frame"`
	Error bool `cf:"error"`
}

type traceInstrumentInstance struct {
	id   string
	lock sync.Mutex
	i    *traceInstrument
}

func NewTraceInstrument(config map[string]interface{}) (Instrument, error) {
	i := &traceInstrument{
		config: &traceInstrumentConfig{Pool: true, Frame: true, Error: true},
	}
	if err := cf.Bind(i.config, config, cf.DefaultOptions()); err != nil {
		return nil, errors.Wrap(err, "unable to load config")
	}
	logrus.Infof(cf.Dump(i.config, cf.DefaultOptions()))
	return i, nil
}

func (self *traceInstrument) NewInstance(id string) InstrumentInstance {
	return &traceInstrumentInstance{
		id: id,
		i:  self,
	}
}

func (self *traceInstrumentInstance) trace(kind, detail string) {
	self.lock.Lock()
	fmt.Println(fmt.Sprintf("&& %-16s %-12s %s", self.id, kind, detail))
	self.lock.Unlock()
}

/*
 * allocation
 */

func (self *traceInstrumentInstance) Allocated(id int32, byteSize int) {
	if self.i.config.Pool {
		self.trace("ALLOC", fmt.Sprintf("#%-6d %d bytes", id, byteSize))
	}
}

func (self *traceInstrumentInstance) AllocationFailed(err error) {
	if self.i.config.Error {
		self.trace("ALLOC_FAIL", fmt.Sprintf("(%v)", err))
	}
}

func (self *traceInstrumentInstance) BufferReused(id int32) {
	if self.i.config.Pool {
		self.trace("REUSE", fmt.Sprintf("#%-6d", id))
	}
}

func (self *traceInstrumentInstance) BufferReclaimed(id int32) {
	if self.i.config.Pool {
		self.trace("RECLAIM", fmt.Sprintf("#%-6d", id))
	}
}

func (self *traceInstrumentInstance) BufferEvicted(id int32) {
	if self.i.config.Pool {
		self.trace("EVICT", fmt.Sprintf("#%-6d", id))
	}
}

func (self *traceInstrumentInstance) PoolSzChanged(available, inUse, pending int) {
	if self.i.config.Pool {
		self.trace("POOL", fmt.Sprintf("available %d, inUse %d, pending %d", available, inUse, pending))
	}
}

/*
 * frame cycle
 */

func (self *traceInstrumentInstance) FrameLocked(damage Region) {
	if self.i.config.Frame {
		self.trace("LOCK", damage.String())
	}
}

func (self *traceInstrumentInstance) FrameCommitted(damage Region) {
	if self.i.config.Frame {
		self.trace("COMMIT", damage.String())
	}
}

func (self *traceInstrumentInstance) CommitDeferred() {
	if self.i.config.Frame {
		self.trace("DEFER", "")
	}
}

func (self *traceInstrumentInstance) CommitSuperseded() {
	if self.i.config.Frame {
		self.trace("SUPERSEDE", "")
	}
}

func (self *traceInstrumentInstance) PartialUpdate(rects, bytes int) {
	if self.i.config.Frame {
		self.trace("COPY_FWD", fmt.Sprintf("%d rects, %d bytes", rects, bytes))
	}
}

func (self *traceInstrumentInstance) WindowSizeChanged(sz Size) {
	if self.i.config.Frame {
		self.trace("RESIZE", sz.String())
	}
}

/*
 * instrument lifecycle
 */

func (self *traceInstrumentInstance) Closed() {
	self.trace("CLOSED", "")
}

func (self *traceInstrumentInstance) Shutdown() {}

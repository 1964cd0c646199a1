package vitrine

import "github.com/pkg/errors"

type Instrument interface {
	NewInstance(id string) InstrumentInstance
}

type InstrumentInstance interface {
	// allocation
	Allocated(id int32, byteSize int)
	AllocationFailed(err error)
	BufferReused(id int32)
	BufferReclaimed(id int32)
	BufferEvicted(id int32)
	PoolSzChanged(available, inUse, pending int)

	// frame cycle
	FrameLocked(damage Region)
	FrameCommitted(damage Region)
	CommitDeferred()
	CommitSuperseded()
	PartialUpdate(rects, bytes int)
	WindowSizeChanged(sz Size)

	// instrument lifecycle
	Closed()
	Shutdown()
}

func NewInstrument(name string, config map[string]interface{}) (i Instrument, err error) {
	switch name {
	case "metrics":
		return NewMetricsInstrument(config)
	case "nil":
		return NewNilInstrument(), nil
	case "trace":
		return NewTraceInstrument(config)
	default:
		return nil, errors.Errorf("unknown instrument '%s'", name)
	}
}

package vitrine

type nilInstrument struct{}

func NewNilInstrument() Instrument {
	return &nilInstrument{}
}

func (self *nilInstrument) NewInstance(_ string) InstrumentInstance {
	return &NilInstrumentInstance{}
}

type NilInstrumentInstance struct{}

func (n NilInstrumentInstance) Allocated(id int32, byteSize int) {}

func (n NilInstrumentInstance) AllocationFailed(err error) {}

func (n NilInstrumentInstance) BufferReused(id int32) {}

func (n NilInstrumentInstance) BufferReclaimed(id int32) {}

func (n NilInstrumentInstance) BufferEvicted(id int32) {}

func (n NilInstrumentInstance) PoolSzChanged(available, inUse, pending int) {}

func (n NilInstrumentInstance) FrameLocked(damage Region) {}

func (n NilInstrumentInstance) FrameCommitted(damage Region) {}

func (n NilInstrumentInstance) CommitDeferred() {}

func (n NilInstrumentInstance) CommitSuperseded() {}

func (n NilInstrumentInstance) PartialUpdate(rects, bytes int) {}

func (n NilInstrumentInstance) WindowSizeChanged(sz Size) {}

func (n NilInstrumentInstance) Closed() {}

func (n NilInstrumentInstance) Shutdown() {}

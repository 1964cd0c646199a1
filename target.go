package vitrine

// Origin names the vertical coordinate convention of a presentation target.
type Origin uint8

const (
	OriginTopLeft Origin = iota
	OriginBottomLeft
)

// PresentationTarget is the native surface handle exposed by the display
// compositor binding. The surface hands damage and buffers across this
// boundary once per commit; damage regions are already clamped to the buffer
// extent and flipped to the target's origin convention.
//
// The surface marks a buffer attached before calling Attach. The target
// binding must call PixelBuffer.Release when the compositor is done reading
// the buffer; until then the buffer's memory is never reused or freed.
type PresentationTarget interface {
	// IsMapped reports whether the target can currently accept a commit.
	IsMapped() bool

	Origin() Origin

	// Invalidate tells the target which region of the next buffer differs
	// from the last presented frame.
	Invalidate(damage Region)

	// Attach hands the buffer to the compositor for one presentation cycle.
	Attach(buffer *PixelBuffer)

	// Commit presents the attached buffer. forceFlush requests a synchronous
	// flush to the compositor.
	Commit(forceFlush bool)

	// AddReadyCallback registers fn to fire at most once, from any thread,
	// when the target transitions to mapped.
	AddReadyCallback(fn func())
}

// Window reports the client geometry a surface renders at. ClientSize is
// polled at the start of every Lock; a change invalidates all pooled
// buffers.
type Window interface {
	ClientSize() Size
	Visible() bool
}

package vitrine

import (
	"fmt"
	"image"
)

// Size is a pixel extent.
type Size struct {
	Width  int
	Height int
}

func (self Size) IsEmpty() bool {
	return self.Width <= 0 || self.Height <= 0
}

func (self Size) Bounds() image.Rectangle {
	return image.Rect(0, 0, self.Width, self.Height)
}

func (self Size) String() string {
	return fmt.Sprintf("[%d x %d]", self.Width, self.Height)
}

// Region is a set of pairwise-disjoint rectangles describing damaged pixels.
// The zero value is the empty region.
type Region struct {
	rects []image.Rectangle
}

func NewRegion(rects ...image.Rectangle) Region {
	var region Region
	for _, rect := range rects {
		region.Add(rect)
	}
	return region
}

func RegionFromSize(sz Size) Region {
	return NewRegion(sz.Bounds())
}

// Add unions rect into the region, keeping the held rectangles disjoint.
func (self *Region) Add(rect image.Rectangle) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	pieces := []image.Rectangle{rect}
	for _, held := range self.rects {
		pieces = subtractFromAll(pieces, held)
	}
	self.rects = append(self.rects, pieces...)
}

func (self Region) Union(other Region) Region {
	result := NewRegion(self.rects...)
	for _, rect := range other.rects {
		result.Add(rect)
	}
	return result
}

// Sub returns the pixels of self not covered by other.
func (self Region) Sub(other Region) Region {
	var result Region
	for _, rect := range self.rects {
		pieces := []image.Rectangle{rect}
		for _, cut := range other.rects {
			pieces = subtractFromAll(pieces, cut)
		}
		result.rects = append(result.rects, pieces...)
	}
	return result
}

func (self Region) Intersect(other Region) Region {
	var result Region
	for _, a := range self.rects {
		for _, b := range other.rects {
			if is := a.Intersect(b); !is.Empty() {
				result.rects = append(result.rects, is)
			}
		}
	}
	return result
}

func (self Region) Overlaps(other Region) bool {
	for _, a := range self.rects {
		for _, b := range other.rects {
			if a.Overlaps(b) {
				return true
			}
		}
	}
	return false
}

func (self Region) Contains(pt image.Point) bool {
	for _, rect := range self.rects {
		if pt.In(rect) {
			return true
		}
	}
	return false
}

// Clamp intersects every rectangle with [0, sz).
func (self Region) Clamp(sz Size) Region {
	var result Region
	bounds := sz.Bounds()
	for _, rect := range self.rects {
		if is := rect.Intersect(bounds); !is.Empty() {
			result.rects = append(result.rects, is)
		}
	}
	return result
}

// FlipY converts the region to a bottom-left origin coordinate convention
// for a target of the given pixel height.
func (self Region) FlipY(height int) Region {
	var result Region
	for _, rect := range self.rects {
		flipped := image.Rect(rect.Min.X, height-rect.Max.Y, rect.Max.X, height-rect.Min.Y)
		result.rects = append(result.rects, flipped)
	}
	return result
}

func (self Region) Bounds() image.Rectangle {
	var bounds image.Rectangle
	for _, rect := range self.rects {
		bounds = bounds.Union(rect)
	}
	return bounds
}

func (self Region) IsEmpty() bool {
	return len(self.rects) == 0
}

func (self Region) NumRects() int {
	return len(self.rects)
}

func (self Region) Rects() []image.Rectangle {
	out := make([]image.Rectangle, len(self.rects))
	copy(out, self.rects)
	return out
}

func (self Region) Area() int {
	area := 0
	for _, rect := range self.rects {
		area += rect.Dx() * rect.Dy()
	}
	return area
}

func (self Region) String() string {
	return fmt.Sprintf("{%v rects [%d]}", self.Bounds(), len(self.rects))
}

func subtractFromAll(pieces []image.Rectangle, cut image.Rectangle) []image.Rectangle {
	var next []image.Rectangle
	for _, piece := range pieces {
		next = append(next, subtractRect(piece, cut)...)
	}
	return next
}

// subtractRect splits r − s into at most four disjoint bands.
func subtractRect(r, s image.Rectangle) []image.Rectangle {
	is := r.Intersect(s)
	if is.Empty() {
		return []image.Rectangle{r}
	}
	var out []image.Rectangle
	if r.Min.Y < is.Min.Y {
		out = append(out, image.Rect(r.Min.X, r.Min.Y, r.Max.X, is.Min.Y))
	}
	if is.Max.Y < r.Max.Y {
		out = append(out, image.Rect(r.Min.X, is.Max.Y, r.Max.X, r.Max.Y))
	}
	if r.Min.X < is.Min.X {
		out = append(out, image.Rect(r.Min.X, is.Min.Y, is.Min.X, is.Max.Y))
	}
	if is.Max.X < r.Max.X {
		out = append(out, image.Rect(is.Max.X, is.Min.Y, r.Max.X, is.Max.Y))
	}
	return out
}

package vitrine

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertDisjoint(t *testing.T, region Region) {
	rects := region.Rects()
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			assert.False(t, rects[i].Overlaps(rects[j]), "rects [%v] and [%v] overlap", rects[i], rects[j])
		}
	}
}

func TestRegionAddKeepsDisjoint(t *testing.T) {
	var region Region
	region.Add(image.Rect(0, 0, 10, 10))
	region.Add(image.Rect(5, 5, 15, 15))
	assertDisjoint(t, region)
	assert.Equal(t, 175, region.Area())
	assert.Equal(t, image.Rect(0, 0, 15, 15), region.Bounds())

	region.Add(image.Rect(2, 2, 4, 4))
	assertDisjoint(t, region)
	assert.Equal(t, 175, region.Area())
}

func TestRegionAddIgnoresEmpty(t *testing.T) {
	var region Region
	region.Add(image.Rect(3, 3, 3, 9))
	assert.True(t, region.IsEmpty())
	assert.Equal(t, 0, region.NumRects())
}

func TestRegionSub(t *testing.T) {
	region := NewRegion(image.Rect(0, 0, 10, 10))

	result := region.Sub(NewRegion(image.Rect(0, 0, 10, 5)))
	assertDisjoint(t, result)
	assert.Equal(t, 50, result.Area())
	assert.Equal(t, image.Rect(0, 5, 10, 10), result.Bounds())

	result = region.Sub(NewRegion(image.Rect(-5, -5, 20, 20)))
	assert.True(t, result.IsEmpty())

	result = region.Sub(NewRegion(image.Rect(4, 4, 6, 6)))
	assertDisjoint(t, result)
	assert.Equal(t, 96, result.Area())
	assert.False(t, result.Contains(image.Pt(5, 5)))
	assert.True(t, result.Contains(image.Pt(0, 0)))
	assert.True(t, result.Contains(image.Pt(9, 9)))
}

func TestRegionIntersect(t *testing.T) {
	a := NewRegion(image.Rect(0, 0, 10, 10), image.Rect(20, 0, 30, 10))
	b := NewRegion(image.Rect(5, 5, 25, 15))

	result := a.Intersect(b)
	assertDisjoint(t, result)
	assert.Equal(t, 50, result.Area())
	assert.True(t, result.Contains(image.Pt(7, 7)))
	assert.True(t, result.Contains(image.Pt(22, 7)))
	assert.False(t, result.Contains(image.Pt(15, 7)))
}

func TestRegionUnion(t *testing.T) {
	a := NewRegion(image.Rect(0, 0, 4, 4))
	b := NewRegion(image.Rect(2, 2, 6, 6))

	result := a.Union(b)
	assertDisjoint(t, result)
	assert.Equal(t, 28, result.Area())
}

func TestRegionClamp(t *testing.T) {
	region := NewRegion(image.Rect(-5, -5, 20, 20))
	result := region.Clamp(Size{Width: 10, Height: 10})
	assert.Equal(t, 100, result.Area())
	assert.Equal(t, image.Rect(0, 0, 10, 10), result.Bounds())

	result = NewRegion(image.Rect(30, 30, 40, 40)).Clamp(Size{Width: 10, Height: 10})
	assert.True(t, result.IsEmpty())
}

func TestRegionFlipY(t *testing.T) {
	region := NewRegion(image.Rect(2, 0, 4, 3))
	result := region.FlipY(10)
	assert.Equal(t, image.Rect(2, 7, 4, 10), result.Bounds())
	assert.Equal(t, region.Area(), result.Area())

	// flipping twice is the identity
	assert.Equal(t, region.Bounds(), result.FlipY(10).Bounds())
}

func TestRegionOverlaps(t *testing.T) {
	a := NewRegion(image.Rect(0, 0, 10, 10))
	assert.True(t, a.Overlaps(NewRegion(image.Rect(9, 9, 12, 12))))
	assert.False(t, a.Overlaps(NewRegion(image.Rect(10, 10, 12, 12))))
}

func TestSubtractRectBands(t *testing.T) {
	out := subtractRect(image.Rect(0, 0, 10, 10), image.Rect(3, 3, 7, 7))
	assert.Equal(t, 4, len(out))
	total := 0
	for _, r := range out {
		total += r.Dx() * r.Dy()
		assert.False(t, r.Overlaps(image.Rect(3, 3, 7, 7)))
	}
	assert.Equal(t, 84, total)
}

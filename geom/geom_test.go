package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func straightLine(length float64) *Polyline {
	return NewPolyline([]Point{{0, 0}, {length, 0}})
}

func TestPolylineLengthAndEndpoints(t *testing.T) {
	pl := straightLine(100)
	assert.Equal(t, 100.0, pl.Length())
	assert.Equal(t, Point{0, 0}, pl.Start())
	assert.Equal(t, Point{100, 0}, pl.End())
}

func TestPolylineAlong(t *testing.T) {
	pl := straightLine(100)
	assert.Equal(t, Point{50, 0}, pl.Along(50))
	assert.Equal(t, Point{0, 0}, pl.Along(-10))
	assert.Equal(t, Point{100, 0}, pl.Along(150))
}

func TestPolylineProject(t *testing.T) {
	pl := straightLine(100)
	s, ok := pl.Project(Point{42, 1})
	assert.True(t, ok)
	assert.InDelta(t, 42, s, 1e-9)

	_, ok = pl.Project(Point{42, 100})
	assert.False(t, ok)
}

func TestPointsRoughlyWithin(t *testing.T) {
	assert.True(t, PointsRoughlyWithin(Point{0, 0}, Point{0.05, 0}, 0.1))
	assert.False(t, PointsRoughlyWithin(Point{0, 0}, Point{0.5, 0}, 0.1))
}

func TestBandOutlineAndDistanceMapping(t *testing.T) {
	pl := straightLine(20)
	band := NewBand(pl, 5)
	outline := band.Outline()
	assert.Greater(t, outline.Perimeter(), 0.0)

	// A point on the outline directly above the centreline's midpoint
	// should map back to roughly the midpoint arc-length.
	d := band.OutlineDistanceToPathDistance(10)
	assert.GreaterOrEqual(t, d, 0.0)
	assert.LessOrEqual(t, d, 20.0)
}

func TestIntersectPerpendicularBands(t *testing.T) {
	horizontal := NewPolyline([]Point{{-20, 0}, {20, 0}})
	vertical := NewPolyline([]Point{{0, -20}, {0, 20}})

	bandA := NewBand(horizontal, 5)
	bandB := NewBand(vertical, 5)

	intersections := Intersect(bandA.Outline(), bandB.Outline())
	assert.GreaterOrEqual(t, len(intersections), 2)
}

func TestIntersectParallelBandsNoCrossing(t *testing.T) {
	a := NewPolyline([]Point{{0, 0}, {50, 0}})
	b := NewPolyline([]Point{{0, 20}, {50, 20}})

	bandA := NewBand(a, 5)
	bandB := NewBand(b, 5)

	intersections := Intersect(bandA.Outline(), bandB.Outline())
	assert.Empty(t, intersections)
}

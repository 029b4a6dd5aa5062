package geom

// sampleStep controls how densely a Band's outline samples its centreline.
// Finer sampling gives more accurate intersection points at the cost of more
// segments to test; this is a prototype-grade tradeoff, not a tuned one.
const sampleStep = 1.0

// Band is the set of points within Width of Path's centreline.
type Band struct {
	Path  Path
	Width float64
}

// NewBand returns a Band around path with the given half-width.
func NewBand(path Path, width float64) Band {
	return Band{Path: path, Width: width}
}

// Outline returns the closed polygon bounding the band: out along the left
// offset of the centreline, then back along the right offset to the start.
func (b Band) Outline() Polygon {
	samples := sampleCenterline(b.Path, sampleStep)

	left := make([]Point, 0, len(samples))
	right := make([]Point, 0, len(samples))
	for i, s := range samples {
		n := normalAt(b.Path, samples, i)
		off := n.Scale(b.Width)
		left = append(left, s.Add(off))
		right = append(right, s.Sub(off))
	}

	// Walk out along the left offset, then back along the right offset,
	// closing the loop at the two end-caps.
	points := make([]Point, 0, len(left)+len(right))
	points = append(points, left...)
	for i := len(right) - 1; i >= 0; i-- {
		points = append(points, right[i])
	}
	return NewPolygon(points, b.Path, samples)
}

// OutlineDistanceToPathDistance maps a perimeter arc-length d (as returned
// in an Intersection) back to the corresponding centreline arc-length, via
// nearest projection of the outline point onto the band's path.
func (b Band) OutlineDistanceToPathDistance(d float64) float64 {
	outline := b.Outline()
	p := outline.PointAt(d)
	if s, ok := b.Path.Project(p); ok {
		return s
	}
	// Fall back to clamping into range; every outline point should project
	// onto its own centreline within tolerance, so this is defensive only.
	length := b.Path.Length()
	if d < 0 {
		return 0
	}
	if d > length {
		return length
	}
	return d
}

func sampleCenterline(path Path, step float64) []Point {
	length := path.Length()
	if length <= 0 {
		return []Point{path.Start(), path.End()}
	}
	n := int(length/step) + 1
	samples := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		s := float64(i) * step
		if s > length {
			s = length
		}
		samples = append(samples, path.Along(s))
		if s == length {
			break
		}
	}
	return samples
}

// normalAt returns the unit normal of the centreline at sample index i,
// estimated from its neighbours.
func normalAt(path Path, samples []Point, i int) Point {
	var tangent Point
	switch {
	case len(samples) < 2:
		tangent = Point{1, 0}
	case i == 0:
		tangent = samples[1].Sub(samples[0])
	case i == len(samples)-1:
		tangent = samples[i].Sub(samples[i-1])
	default:
		tangent = samples[i+1].Sub(samples[i-1])
	}
	return tangent.Normal().Perp()
}

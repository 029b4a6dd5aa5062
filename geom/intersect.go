package geom

// Intersection is a single crossing point between two polygon outlines,
// carrying the perimeter arc-length on each outline at which it occurs. The
// core re-projects these back to centreline arc-length via
// Band.OutlineDistanceToPathDistance; ordering here is unspecified, per
// spec.md §4.1.
type Intersection struct {
	AlongA, AlongB float64
	Point          Point
}

// Intersect returns every point at which the two outlines' edges cross.
func Intersect(a, b Polygon) []Intersection {
	var out []Intersection
	aEdges := a.edges()
	bEdges := b.edges()

	for i, ea := range aEdges {
		for j, eb := range bEdges {
			p, tA, ok := segmentIntersection(ea[0], ea[1], eb[0], eb[1])
			if !ok {
				continue
			}
			alongA := a.edgeArcLength(i) + tA*ea[0].Dist(ea[1])
			tB := paramOnSegment(eb[0], eb[1], p)
			alongB := b.edgeArcLength(j) + tB*eb[0].Dist(eb[1])
			out = append(out, Intersection{AlongA: alongA, AlongB: alongB, Point: p})
		}
	}
	return out
}

// segmentIntersection returns the crossing point of segments [p1,p2] and
// [p3,p4], the parametric position tA along [p1,p2], and whether they
// actually cross within both segments' bounds.
func segmentIntersection(p1, p2, p3, p4 Point) (p Point, tA float64, ok bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	denom := d1.X*d2.Y - d1.Y*d2.X
	if denom == 0 {
		return Point{}, 0, false // parallel or collinear
	}

	diff := p3.Sub(p1)
	t := (diff.X*d2.Y - diff.Y*d2.X) / denom
	u := (diff.X*d1.Y - diff.Y*d1.X) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, 0, false
	}

	return lerp(p1, p2, t), t, true
}

func paramOnSegment(a, b, p Point) float64 {
	segLen := a.Dist(b)
	if segLen == 0 {
		return 0
	}
	return a.Dist(p) / segLen
}

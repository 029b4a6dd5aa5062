package geom

// Path is a finite 2-D curve. Implementations only need to support
// arc-length parameterization, endpoint queries, and nearest-point
// projection; the rest of the core never needs anything richer than that.
type Path interface {
	// Length returns the total arc-length of the path.
	Length() float64
	// Start returns the point at arc-length 0.
	Start() Point
	// End returns the point at arc-length Length().
	End() Point
	// Along returns the point at arc-length s, s clamped to [0, Length()].
	Along(s float64) Point
	// Project returns the arc-length of the closest point on the path to p,
	// and false if p lies further than the path's intrinsic tolerance away.
	Project(p Point) (s float64, ok bool)
}

// projectTolerance bounds how far a point may lie from a path and still be
// considered "on" it for projection purposes.
const projectTolerance = 5.0

// Polyline is a Path backed by an ordered list of points connected by
// straight segments. Curved lanes are expected to be supplied as a dense
// polyline approximation; nothing downstream needs true analytic curvature,
// only arc-length and projection.
type Polyline struct {
	points []Point
	cum    []float64 // cumulative arc-length at each point, cum[0] == 0
}

// NewPolyline builds a Polyline from at least two points.
func NewPolyline(points []Point) *Polyline {
	if len(points) < 2 {
		panic("geom: a polyline needs at least two points")
	}
	pl := &Polyline{
		points: append([]Point(nil), points...),
		cum:    make([]float64, len(points)),
	}
	total := 0.0
	pl.cum[0] = 0
	for i := 1; i < len(points); i++ {
		total += points[i-1].Dist(points[i])
		pl.cum[i] = total
	}
	return pl
}

// Length implements Path.
func (pl *Polyline) Length() float64 { return pl.cum[len(pl.cum)-1] }

// Start implements Path.
func (pl *Polyline) Start() Point { return pl.points[0] }

// End implements Path.
func (pl *Polyline) End() Point { return pl.points[len(pl.points)-1] }

// Along implements Path.
func (pl *Polyline) Along(s float64) Point {
	if s <= 0 {
		return pl.points[0]
	}
	length := pl.Length()
	if s >= length {
		return pl.points[len(pl.points)-1]
	}
	i := pl.segmentAt(s)
	segStart, segEnd := pl.cum[i], pl.cum[i+1]
	t := 0.0
	if segEnd > segStart {
		t = (s - segStart) / (segEnd - segStart)
	}
	return lerp(pl.points[i], pl.points[i+1], t)
}

// segmentAt returns the index i such that cum[i] <= s <= cum[i+1].
func (pl *Polyline) segmentAt(s float64) int {
	lo, hi := 0, len(pl.cum)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if pl.cum[mid] <= s {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Project implements Path. It scans every segment for the closest point,
// which is fine at the scale of an individual lane's polyline.
func (pl *Polyline) Project(p Point) (s float64, ok bool) {
	bestDist := projectTolerance
	bestS := 0.0
	found := false

	for i := 0; i+1 < len(pl.points); i++ {
		a, b := pl.points[i], pl.points[i+1]
		segS, d := closestOnSegment(a, b, p)
		if d <= bestDist {
			bestDist = d
			bestS = pl.cum[i] + segS
			found = true
		}
	}
	return bestS, found
}

// closestOnSegment returns the arc-length along [a,b] of the closest point
// to p, and the distance from p to that point.
func closestOnSegment(a, b, p Point) (s, dist float64) {
	ab := b.Sub(a)
	segLen := ab.Dist(Point{})
	if segLen == 0 {
		return 0, a.Dist(p)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / (segLen * segLen)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := lerp(a, b, t)
	return t * segLen, closest.Dist(p)
}

package geom

// Polygon is a closed point loop forming a band's outline. It keeps only its
// points and their cumulative perimeter lengths; it holds no reference to
// the centre path or its samples.
type Polygon struct {
	Points []Point
	cum    []float64 // cumulative perimeter length at each point
}

// NewPolygon builds a Polygon from an ordered, closed-implied point loop.
// The path and sample arguments are accepted and ignored.
func NewPolygon(points []Point, _ Path, _ []Point) Polygon {
	pg := Polygon{Points: points, cum: make([]float64, len(points))}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i-1].Dist(points[i])
		pg.cum[i] = total
	}
	return pg
}

// Perimeter returns the polygon's total perimeter length (the loop-closing
// segment back to Points[0] is included).
func (pg Polygon) Perimeter() float64 {
	if len(pg.Points) == 0 {
		return 0
	}
	return pg.cum[len(pg.cum)-1] + pg.Points[len(pg.Points)-1].Dist(pg.Points[0])
}

// PointAt returns the point at perimeter arc-length d, wrapping modulo the
// perimeter.
func (pg Polygon) PointAt(d float64) Point {
	if len(pg.Points) == 0 {
		return Point{}
	}
	perim := pg.Perimeter()
	if perim == 0 {
		return pg.Points[0]
	}
	for d < 0 {
		d += perim
	}
	d = mod(d, perim)

	n := len(pg.Points)
	for i := 0; i < n; i++ {
		segStart := pg.cum[i]
		var segEnd float64
		var a, b Point
		if i+1 < n {
			segEnd = pg.cum[i+1]
			a, b = pg.Points[i], pg.Points[i+1]
		} else {
			segEnd = perim
			a, b = pg.Points[n-1], pg.Points[0]
		}
		if d <= segEnd || i == n-1 {
			segLen := segEnd - segStart
			t := 0.0
			if segLen > 0 {
				t = (d - segStart) / segLen
			}
			return lerp(a, b, t)
		}
	}
	return pg.Points[0]
}

func mod(a, b float64) float64 {
	m := a
	for m >= b {
		m -= b
	}
	return m
}

// edges returns the polygon's closed set of segments.
func (pg Polygon) edges() [][2]Point {
	n := len(pg.Points)
	if n < 2 {
		return nil
	}
	segs := make([][2]Point, 0, n)
	for i := 0; i < n; i++ {
		a := pg.Points[i]
		b := pg.Points[(i+1)%n]
		segs = append(segs, [2]Point{a, b})
	}
	return segs
}

// edgeArcLength returns the perimeter arc-length of edges()[i][0].
func (pg Polygon) edgeArcLength(i int) float64 {
	if i < len(pg.cum) {
		return pg.cum[i]
	}
	return pg.Perimeter()
}

package geom

import "math"

// Point is a coordinate pair. Whether it lives in screen or world space is
// up to the caller; Transform is the only bridge between the two.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Near reports whether p and q differ by at most eps on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Transform maps between screen pixels and world units for a canvas whose
// top-left corner sits at Origin on screen.
type Transform struct {
	Origin Point   // canvas element origin in screen space
	Pan    Point   // world-to-screen translation
	Scale  float64 // never zero, see viewport
}

// ScreenToWorld converts a screen point to world coordinates. Every screen
// coordinate that ends up as a node position goes through here.
func (t Transform) ScreenToWorld(s Point) Point {
	return Point{
		X: (s.X - t.Origin.X - t.Pan.X) / t.Scale,
		Y: (s.Y - t.Origin.Y - t.Pan.Y) / t.Scale,
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func (t Transform) WorldToScreen(w Point) Point {
	return Point{
		X: w.X*t.Scale + t.Pan.X + t.Origin.X,
		Y: w.Y*t.Scale + t.Pan.Y + t.Origin.Y,
	}
}

// Rect is an axis-aligned rectangle given by its min corner and size.
type Rect struct {
	Min  Point
	Size Point
}

func (r Rect) Max() Point { return r.Min.Add(r.Size) }

// Contains uses half-open bounds like image.Rectangle.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X < max.X && p.Y >= r.Min.Y && p.Y < max.Y
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	min := Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)}
	rm, om := r.Max(), o.Max()
	max := Point{math.Max(rm.X, om.X), math.Max(rm.Y, om.Y)}
	return Rect{Min: min, Size: max.Sub(min)}
}

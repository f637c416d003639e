// Package edgepath computes the cubic bezier drawn for each connection.
package edgepath

import (
	"math"
	"strconv"
	"strings"

	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
)

const (
	// NodeWidth is the horizontal distance from a node's anchor to its
	// output handle.
	NodeWidth = 240
	// AnchorOffsetY is the handle height below the node's anchor.
	AnchorOffsetY = 40
	// NodeHeight is the full height of a rendered node; its header is
	// AnchorOffsetY tall so handles sit on the header's bottom edge.
	NodeHeight = 104
	curvature  = 0.5
)

// Footprint is the world rectangle a node anchored at pos occupies.
func Footprint(pos geom.Point) geom.Rect {
	return geom.Rect{Min: pos, Size: geom.Pt(NodeWidth, NodeHeight)}
}

// InputHandle and OutputHandle are the world points edges attach to.
func InputHandle(pos geom.Point) geom.Point  { return geom.Pt(pos.X, pos.Y+AnchorOffsetY) }
func OutputHandle(pos geom.Point) geom.Point { return geom.Pt(pos.X+NodeWidth, pos.Y+AnchorOffsetY) }

// Bezier is a cubic curve from Start to End with control points C1, C2.
type Bezier struct {
	Start, C1, C2, End geom.Point
}

// Between routes an edge from the output handle of a node anchored at src to
// the input handle of a node anchored at dst.
func Between(src, dst geom.Point) Bezier {
	return Curve(OutputHandle(src), InputHandle(dst))
}

// Curve is the edge shape between two handle points in any space. Control
// points sit on the endpoints' horizontals, half the horizontal gap away.
func Curve(start, end geom.Point) Bezier {
	h := math.Abs(end.X-start.X) * curvature
	return Bezier{
		Start: start,
		C1:    geom.Pt(start.X+h, start.Y),
		C2:    geom.Pt(end.X-h, end.Y),
		End:   end,
	}
}

// SVGPath renders the curve as "M sx sy C c1x c1y, c2x c2y, ex ey".
func (b Bezier) SVGPath() string {
	var sb strings.Builder
	sb.WriteString("M ")
	writePair(&sb, b.Start)
	sb.WriteString(" C ")
	writePair(&sb, b.C1)
	sb.WriteString(", ")
	writePair(&sb, b.C2)
	sb.WriteString(", ")
	writePair(&sb, b.End)
	return sb.String()
}

func writePair(sb *strings.Builder, p geom.Point) {
	sb.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// At evaluates the curve at t in [0,1].
func (b Bezier) At(t float64) geom.Point {
	u := 1 - t
	a := u * u * u
	c1 := 3 * u * u * t
	c2 := 3 * u * t * t
	d := t * t * t
	return geom.Point{
		X: a*b.Start.X + c1*b.C1.X + c2*b.C2.X + d*b.End.X,
		Y: a*b.Start.Y + c1*b.C1.Y + c2*b.C2.Y + d*b.End.Y,
	}
}

// Flatten samples the curve into n segments (n+1 points, endpoints exact).
func (b Bezier) Flatten(n int) []geom.Point {
	if n < 1 {
		n = 1
	}
	pts := make([]geom.Point, n+1)
	pts[0] = b.Start
	for i := 1; i < n; i++ {
		pts[i] = b.At(float64(i) / float64(n))
	}
	pts[n] = b.End
	return pts
}

// Apply maps every control point through the world-to-screen transform.
// Bezier curves are affine invariant, so this equals transforming the
// rendered curve.
func (b Bezier) Apply(t geom.Transform) Bezier {
	return Bezier{
		Start: t.WorldToScreen(b.Start),
		C1:    t.WorldToScreen(b.C1),
		C2:    t.WorldToScreen(b.C2),
		End:   t.WorldToScreen(b.End),
	}
}

// Tangent is the end direction of the curve, used for arrowheads.
func (b Bezier) Tangent() geom.Point {
	d := b.End.Sub(b.C2)
	if d == (geom.Point{}) {
		d = b.End.Sub(b.Start)
	}
	return d
}

// Route is the path of one connection.
type Route struct {
	ID     model.ConnectionID
	Source model.NodeID
	Target model.NodeID
	Path   Bezier
}

// Routes pairs every connection whose endpoints both resolve with its curve.
// Connections with a missing endpoint are skipped.
func Routes(nodes []model.Node, conns []model.Connection) []Route {
	pos := make(map[model.NodeID]geom.Point, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n.Position
	}
	out := make([]Route, 0, len(conns))
	for _, c := range conns {
		src, ok := pos[c.SourceID]
		if !ok {
			continue
		}
		dst, ok := pos[c.TargetID]
		if !ok {
			continue
		}
		out = append(out, Route{ID: c.ID, Source: c.SourceID, Target: c.TargetID, Path: Between(src, dst)})
	}
	return out
}

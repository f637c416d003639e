package ui

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ingyamilmolinar/flowcanvas/core/edgepath"
	"github.com/ingyamilmolinar/flowcanvas/core/editor"
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
)

// Canvas is the pannable drawing area. It is the editor's Surface.
type Canvas struct {
	Bounds      image.Rectangle
	GridSpacing float64
	ShowGrid    bool
	editor      *editor.Editor
}

func (c *Canvas) CanvasOrigin() geom.Point {
	return geom.Pt(float64(c.Bounds.Min.X), float64(c.Bounds.Min.Y))
}

func (c *Canvas) CanvasSize() geom.Point {
	return geom.Pt(float64(c.Bounds.Dx()), float64(c.Bounds.Dy()))
}

// HitTest finds the top-most node under a screen point. Nodes later in the
// list are drawn on top, so the walk goes backwards.
func (c *Canvas) HitTest(screen geom.Point) (model.NodeID, bool) {
	if c.editor == nil {
		return "", false
	}
	tr := c.editor.Transform()
	nodes := c.editor.Snapshot().Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodeScreenRect(nodes[i].Position, tr).Contains(screen) {
			return nodes[i].ID, true
		}
	}
	return "", false
}

func (c *Canvas) Contains(x, y int) bool { return pt(x, y, c.Bounds) }

// dotOffsets lists the screen positions of grid dots along one axis of the
// canvas, starting at min and phased by pan so dots move with the world.
func dotOffsets(min, length, pan, spacing float64) []float64 {
	if spacing < 4 {
		return nil
	}
	phase := math.Mod(pan, spacing)
	if phase < 0 {
		phase += spacing
	}
	var out []float64
	for v := phase; v < length; v += spacing {
		out = append(out, min+v)
	}
	return out
}

func (c *Canvas) Draw(screen *ebiten.Image, snap editor.Snapshot, link *linkDrag) {
	dst := screen.SubImage(c.Bounds).(*ebiten.Image)
	drawRect(dst, c.Bounds, colCanvas, true)

	tr := c.editor.Transform()
	if c.ShowGrid {
		size := c.CanvasSize()
		spacing := c.GridSpacing * snap.Scale
		ys := dotOffsets(float64(c.Bounds.Min.Y), size.Y, snap.Pan.Y, spacing)
		for _, x := range dotOffsets(float64(c.Bounds.Min.X), size.X, snap.Pan.X, spacing) {
			for _, y := range ys {
				drawRect(dst, image.Rect(int(x), int(y), int(x)+2, int(y)+2), colGridDot, true)
			}
		}
	}

	for _, r := range snap.Routes {
		defaultEdgeStyle.Draw(dst, r.Path.Apply(tr))
	}
	if link != nil && link.active {
		if n, ok := findNode(snap.Nodes, link.from); ok {
			start := tr.WorldToScreen(edgepath.OutputHandle(n.Position))
			linkEdgeStyle.Draw(dst, edgepath.Curve(start, link.to))
		}
	}
	for _, n := range snap.Nodes {
		defaultNodeStyle.Draw(dst, n, tr, n.ID == snap.Selected)
	}
}

func findNode(nodes []model.Node, id model.NodeID) (model.Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Node{}, false
}

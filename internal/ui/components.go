package ui

import (
	"image"
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ingyamilmolinar/flowcanvas/core/edgepath"
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
)

// NodeStyle defines visual appearance for flow nodes.
type NodeStyle struct {
	Body     color.Color
	Border   color.Color
	Selected color.Color
	Handle   color.Color
}

// Draw renders n with the world-to-screen transform tr.
func (s NodeStyle) Draw(dst *ebiten.Image, n model.Node, tr geom.Transform, selected bool) {
	r := nodeScreenRect(n.Position, tr)
	body := image.Rect(int(r.Min.X), int(r.Min.Y), int(r.Max().X), int(r.Max().Y))
	header := body
	header.Max.Y = body.Min.Y + int(math.Round(edgepath.AnchorOffsetY*tr.Scale))

	drawRect(dst, body, s.Body, true)
	drawRect(dst, header, kindColor(n.Kind), true)
	drawRect(dst, body, s.Border, false)
	if selected {
		drawRect(dst, insetRect(body, -2), s.Selected, false)
		drawRect(dst, insetRect(body, -3), s.Selected, false)
	}

	// the debug font does not scale; drop text that would overflow
	maxRunes := (body.Dx() - 16) / debugCharW
	if header.Dy() >= debugCharH && maxRunes > 3 {
		drawText(dst, clip(n.Label, maxRunes), body.Min.X+8, header.Min.Y+(header.Dy()-debugCharH)/2)
	}
	if body.Max.Y-header.Max.Y >= 2*debugCharH && maxRunes > 3 {
		drawText(dst, clip(n.Kind.Description(), maxRunes), body.Min.X+8, header.Max.Y+debugCharH)
	}

	radius := math.Max(3, 6*tr.Scale)
	if n.Kind.HasInput() {
		p := tr.WorldToScreen(edgepath.InputHandle(n.Position))
		drawCircle(dst, p.X, p.Y, radius, s.Body, s.Handle)
	}
	if n.Kind.HasOutput() {
		p := tr.WorldToScreen(edgepath.OutputHandle(n.Position))
		drawCircle(dst, p.X, p.Y, radius, s.Body, s.Handle)
	}
}

// nodeScreenRect is the on-screen footprint of a node anchored at pos.
func nodeScreenRect(pos geom.Point, tr geom.Transform) geom.Rect {
	f := edgepath.Footprint(pos)
	return geom.Rect{Min: tr.WorldToScreen(f.Min), Size: f.Size.Mul(tr.Scale)}
}

// EdgeStyle draws directional bezier edges already mapped to screen space.
type EdgeStyle struct {
	Color     color.Color
	Thickness float64
	ArrowSize float64
	Segments  int
}

func (s EdgeStyle) Draw(dst *ebiten.Image, b edgepath.Bezier) {
	pts := b.Flatten(s.Segments)
	for i := 1; i < len(pts); i++ {
		drawLine(dst, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, s.Color, s.Thickness)
	}
	t := b.Tangent()
	if t == (geom.Point{}) {
		return
	}
	angle := math.Atan2(t.Y, t.X)
	x2, y2 := b.End.X, b.End.Y
	leftX := x2 - s.ArrowSize*math.Cos(angle-math.Pi/6)
	leftY := y2 - s.ArrowSize*math.Sin(angle-math.Pi/6)
	rightX := x2 - s.ArrowSize*math.Cos(angle+math.Pi/6)
	rightY := y2 - s.ArrowSize*math.Sin(angle+math.Pi/6)
	drawLine(dst, x2, y2, leftX, leftY, s.Color, s.Thickness)
	drawLine(dst, x2, y2, rightX, rightY, s.Color, s.Thickness)
}

// ButtonStyle describes rectangular button visuals.
type ButtonStyle struct {
	Fill   color.Color
	Hover  color.Color
	Border color.Color
}

// Draw renders the button rectangle using the global drawButton primitive.
func (s ButtonStyle) Draw(dst *ebiten.Image, r image.Rectangle, pressed, hovered bool) {
	fill := s.Fill
	if hovered && s.Hover != nil {
		fill = s.Hover
	}
	drawButton(dst, r, fill, s.Border, pressed)
}

// TextInputStyle styles a text input box.
type TextInputStyle struct {
	Fill   color.Color
	Border color.Color
	Focus  color.Color
}

// DrawAnimated renders the box; anim fades the focus border in and out.
func (s TextInputStyle) DrawAnimated(dst *ebiten.Image, r image.Rectangle, focused bool, anim float64) {
	drawRect(dst, r, s.Fill, true)
	border := s.Border
	if anim > 0.5 || focused {
		border = s.Focus
	}
	drawRect(dst, r, border, false)
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:max(n, 0)])
	}
	return string(runes[:n-3]) + "..."
}

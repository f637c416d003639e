package ui

import (
	"image"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
)

// DebugPrintAt glyph box.
const (
	debugCharW = 6
	debugCharH = 13
)

// insetRect shrinks r by pad on every side; a negative pad grows it.
func insetRect(r image.Rectangle, pad int) image.Rectangle {
	return image.Rect(r.Min.X+pad, r.Min.Y+pad, r.Max.X-pad, r.Max.Y-pad)
}

// ButtonVisual draws a button body. pressed is true while a press that
// started on the button is held over it.
type ButtonVisual interface {
	Draw(dst *ebiten.Image, r image.Rectangle, pressed, hovered bool)
}

// Button fires OnClick once per press that starts inside it. Hidden
// buttons neither draw nor react.
type Button struct {
	Text    string
	Style   ButtonVisual
	OnClick func()
	Hidden  bool

	r       image.Rectangle
	hovered bool
	pressed bool
	down    bool // mouse held since the last release
	armed   bool // that press began inside r
}

func NewButton(text string, style ButtonVisual, onClick func()) *Button {
	return &Button{Text: text, Style: style, OnClick: onClick}
}

func (b *Button) Rect() image.Rectangle     { return b.r }
func (b *Button) SetRect(r image.Rectangle) { b.r = r }

func (b *Button) Draw(dst *ebiten.Image) {
	if b.Hidden {
		return
	}
	if b.Style != nil {
		b.Style.Draw(dst, b.r, b.pressed, b.hovered)
	}
	at := b.labelAt()
	drawText(dst, b.Text, at.X, at.Y)
}

// labelAt centres the label in the bounds.
func (b *Button) labelAt() image.Point {
	w := debugCharW * utf8.RuneCountInString(b.Text)
	return image.Pt(b.r.Min.X+(b.r.Dx()-w)/2, b.r.Min.Y+(b.r.Dy()-debugCharH)/2)
}

// Handle feeds one frame of mouse state. It reports whether the current
// press belongs to b, so callers can keep it away from the canvas.
func (b *Button) Handle(mx, my int, pressed bool) bool {
	if b.Hidden {
		*b = Button{Text: b.Text, Style: b.Style, OnClick: b.OnClick, Hidden: true, r: b.r}
		return false
	}
	inside := image.Pt(mx, my).In(b.r)
	b.hovered = inside
	if !pressed {
		b.down, b.armed, b.pressed = false, false, false
		return false
	}
	if !b.down {
		b.down, b.armed = true, inside
		if inside && b.OnClick != nil {
			b.OnClick()
		}
	}
	b.pressed = b.armed && inside
	return b.armed
}

// GridLayout cuts a rectangle into weighted columns and rows.
type GridLayout struct {
	cols, rows []int // cut positions, one more than the weights
}

func NewGridLayout(b image.Rectangle, cols, rows []float64) *GridLayout {
	return &GridLayout{
		cols: cuts(b.Min.X, b.Max.X, cols),
		rows: cuts(b.Min.Y, b.Max.Y, rows),
	}
}

// evenly returns n weights of 1.
func evenly(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// cuts splits [lo,hi] by weight. The last cut is pinned to hi so rounding
// never leaves a gap.
func cuts(lo, hi int, weights []float64) []int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	out := make([]int, len(weights)+1)
	out[0] = lo
	acc := 0.0
	for i, w := range weights {
		acc += w
		out[i+1] = lo + int(float64(hi-lo)*acc/total)
	}
	out[len(weights)] = hi
	return out
}

func (g *GridLayout) Cell(col, row int) image.Rectangle {
	return image.Rect(g.cols[col], g.rows[row], g.cols[col+1], g.rows[row+1])
}

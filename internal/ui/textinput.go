package ui

import (
	"image"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	repeatDelay = 15 // frames a key is held before it repeats
	repeatEvery = 3
	textPad     = 4
)

// TextInput is a single-line edit box. OnChange runs after every edit;
// Escape puts back the text the box held when it gained focus.
type TextInput struct {
	Rect     image.Rectangle
	Style    TextInputStyle
	Text     string
	OnChange func(string)

	caret   int // rune offset
	focused bool
	fade    float64
	ticks   int
	held    map[ebiten.Key]int
	initial string
}

func NewTextInput(r image.Rectangle, style TextInputStyle) *TextInput {
	return &TextInput{Rect: r, Style: style, held: make(map[ebiten.Key]int)}
}

func (t *TextInput) Focused() bool { return t.focused }

// Blur drops focus without touching the text.
func (t *TextInput) Blur() { t.focused = false }

// SetText replaces the text and parks the caret at the end.
func (t *TextInput) SetText(s string) {
	t.Text = s
	t.caret = len([]rune(s))
}

func (t *TextInput) Value() string { return t.Text }

// Update reads this frame's input. It reports whether a mouse press landed
// on the box.
func (t *TextInput) Update() bool {
	mx, my := input.cursor()
	hit := false
	if input.mouse(ebiten.MouseButtonLeft) {
		hit = image.Pt(mx, my).In(t.Rect)
		if hit && !t.focused {
			t.initial = t.Text
		}
		t.focused = hit
		if hit {
			t.fade = 1
		}
	}
	if !t.focused {
		t.ticks = 0
		if t.fade *= 0.85; t.fade < 0.01 {
			t.fade = 0
		}
		return hit
	}
	t.ticks = (t.ticks + 1) % 60

	buf := []rune(t.Text)
	t.caret = min(t.caret, len(buf))
	for _, r := range input.chars() {
		if unicode.IsControl(r) {
			continue
		}
		buf = append(buf[:t.caret], append([]rune{r}, buf[t.caret:]...)...)
		t.caret++
	}
	switch {
	case t.repeating(ebiten.KeyBackspace) && t.caret > 0:
		buf = append(buf[:t.caret-1], buf[t.caret:]...)
		t.caret--
	case t.repeating(ebiten.KeyDelete) && t.caret < len(buf):
		buf = append(buf[:t.caret], buf[t.caret+1:]...)
	case t.repeating(ebiten.KeyLeft):
		t.caret = max(t.caret-1, 0)
	case t.repeating(ebiten.KeyRight):
		t.caret = min(t.caret+1, len(buf))
	case input.key(ebiten.KeyHome):
		t.caret = 0
	case input.key(ebiten.KeyEnd):
		t.caret = len(buf)
	}

	switch {
	case input.key(ebiten.KeyEscape):
		buf = []rune(t.initial)
		t.caret = len(buf)
		t.focused = false
	case input.key(ebiten.KeyEnter):
		t.focused = false
	}

	if s := string(buf); s != t.Text {
		t.Text = s
		if t.OnChange != nil {
			t.OnChange(s)
		}
	}
	return hit
}

// repeating is true on the first frame k is down and then every few frames
// once it has been held past the delay.
func (t *TextInput) repeating(k ebiten.Key) bool {
	if !input.key(k) {
		delete(t.held, k)
		return false
	}
	t.held[k]++
	n := t.held[k]
	return n == 1 || n > repeatDelay && (n-repeatDelay)%repeatEvery == 0
}

// visibleText is the slice of the text that fits the box, scrolled so the
// caret stays in view, and the rune offset it starts at.
func (t *TextInput) visibleText() (string, int) {
	buf := []rune(t.Text)
	fit := max((t.Rect.Dx()-2*textPad)/debugCharW, 1)
	start := max(min(t.caret, len(buf))-fit, 0)
	end := min(start+fit, len(buf))
	return string(buf[start:end]), start
}

func (t *TextInput) Draw(dst *ebiten.Image) {
	t.Style.DrawAnimated(dst, t.Rect, t.focused, t.fade)
	txt, start := t.visibleText()
	x, y := t.Rect.Min.X+textPad, t.Rect.Min.Y+textPad
	drawText(dst, txt, x, y)
	if t.focused && t.ticks < 30 {
		cx := float64(x + debugCharW*(t.caret-start))
		drawLine(dst, cx, float64(y), cx, float64(y+debugCharH-2), colNodeLabel, 1)
	}
}

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// drawRect draws a rectangle. It is defined as a variable so tests can
// override it to capture draw calls.
var drawRect = func(dst *ebiten.Image, r image.Rectangle, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	} else {
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
	}
}

// drawButton renders a filled rectangle with a border. It can be overridden in tests.
var drawButton = func(dst *ebiten.Image, r image.Rectangle, fill, border color.Color, pressed bool) {
	fc := fill
	if pressed {
		if c, ok := fill.(color.RGBA); ok {
			fc = color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A}
		}
	}
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), fc, false)
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, border, false)
}

// drawLine strokes a screen-space segment.
var drawLine = func(dst *ebiten.Image, x1, y1, x2, y2 float64, col color.Color, thick float64) {
	if thick <= 0 {
		thick = 1
	}
	vector.StrokeLine(dst, float32(x1), float32(y1), float32(x2), float32(y2), float32(thick), col, true)
}

var drawCircle = func(dst *ebiten.Image, x, y, r float64, fill, border color.Color) {
	vector.DrawFilledCircle(dst, float32(x), float32(y), float32(r), fill, true)
	vector.StrokeCircle(dst, float32(x), float32(y), float32(r), 1.5, border, true)
}

var drawText = ebitenutil.DebugPrintAt

package viewport

import (
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/internal/utils"
)

const (
	MinScale  = 0.2
	MaxScale  = 2.0
	ZoomStep  = 0.1
	baseScale = 1.0
)

// Viewport owns zoom and pan. Scale always stays within [MinScale, MaxScale].
//
// Zoom is anchored at the canvas origin: changing the scale leaves Pan
// alone, so the world point under the cursor drifts while zooming.
type Viewport struct {
	scale float64
	pan   geom.Point
}

func New() *Viewport { return &Viewport{scale: baseScale} }

func (v *Viewport) Scale() float64  { return v.scale }
func (v *Viewport) Pan() geom.Point { return v.pan }

// Set restores a saved view; the scale is clamped into range.
func (v *Viewport) Set(scale float64, pan geom.Point) {
	if scale == 0 {
		scale = baseScale
	}
	v.scale = utils.Clamp(scale, MinScale, MaxScale)
	v.pan = pan
}

// ZoomBy adds delta to the scale and clamps the result.
func (v *Viewport) ZoomBy(delta float64) {
	v.scale = utils.Clamp(v.scale+delta, MinScale, MaxScale)
}

func (v *Viewport) ZoomIn()  { v.ZoomBy(ZoomStep) }
func (v *Viewport) ZoomOut() { v.ZoomBy(-ZoomStep) }

// PanBy shifts the view by a screen-space delta. The delta is not divided
// by scale, so pan speed is the same at every zoom level.
func (v *Viewport) PanBy(delta geom.Point) {
	v.pan = v.pan.Add(delta)
}

// Reset returns to the origin at 100% zoom.
func (v *Viewport) Reset() {
	v.pan = geom.Point{}
	v.scale = baseScale
}

// Transform builds the screen/world transform for a canvas at origin.
func (v *Viewport) Transform(origin geom.Point) geom.Transform {
	return geom.Transform{Origin: origin, Pan: v.pan, Scale: v.scale}
}

// WorldCenter is the world point shown at the middle of a canvas of the
// given screen size.
func (v *Viewport) WorldCenter(origin, size geom.Point) geom.Point {
	return v.Transform(origin).ScreenToWorld(origin.Add(size.Mul(0.5)))
}

// Percent is the zoom level as shown in the toolbar.
func (v *Viewport) Percent() int { return utils.RoundPercent(v.scale) }

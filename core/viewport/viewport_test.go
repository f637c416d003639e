package viewport

import (
	"testing"

	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"pgregory.net/rapid"
)

func TestZoomClampsAtBounds(t *testing.T) {
	v := New()
	for i := 0; i < 50; i++ {
		v.ZoomIn()
		if v.Scale() > MaxScale {
			t.Fatalf("scale=%v above %v after %d zoom-ins", v.Scale(), MaxScale, i+1)
		}
	}
	if v.Scale() != MaxScale {
		t.Fatalf("scale=%v want %v", v.Scale(), MaxScale)
	}
	for i := 0; i < 50; i++ {
		v.ZoomOut()
		if v.Scale() < MinScale {
			t.Fatalf("scale=%v below %v after %d zoom-outs", v.Scale(), MinScale, i+1)
		}
	}
	if v.Scale() != MinScale {
		t.Fatalf("scale=%v want %v", v.Scale(), MinScale)
	}
}

func TestZoomLeavesPanAlone(t *testing.T) {
	v := New()
	v.PanBy(geom.Pt(30, -12))
	v.ZoomIn()
	if v.Pan() != geom.Pt(30, -12) {
		t.Fatalf("pan changed on zoom: %v", v.Pan())
	}
}

func TestPanIsScaleIndependent(t *testing.T) {
	v := New()
	v.ZoomBy(0.5)
	v.PanBy(geom.Pt(10, 10))
	v.PanBy(geom.Pt(-4, 6))
	if v.Pan() != geom.Pt(6, 16) {
		t.Fatalf("pan=%v want (6,16)", v.Pan())
	}
}

func TestResetAfterAnything(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := New()
		n := rapid.IntRange(0, 40).Draw(t, "ops")
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				v.ZoomIn()
			case 1:
				v.ZoomOut()
			case 2:
				v.ZoomBy(rapid.Float64Range(-5, 5).Draw(t, "delta"))
			default:
				v.PanBy(geom.Pt(rapid.Float64Range(-1e4, 1e4).Draw(t, "dx"), rapid.Float64Range(-1e4, 1e4).Draw(t, "dy")))
			}
			if s := v.Scale(); s < MinScale || s > MaxScale {
				t.Fatalf("scale %v out of range", s)
			}
		}
		v.Reset()
		if v.Pan() != (geom.Point{}) || v.Scale() != 1 {
			t.Fatalf("after reset pan=%v scale=%v", v.Pan(), v.Scale())
		}
	})
}

func TestWorldCenter(t *testing.T) {
	v := New()
	v.PanBy(geom.Pt(-200, 100))
	v.ZoomBy(1) // scale 2
	got := v.WorldCenter(geom.Pt(160, 56), geom.Pt(800, 600))
	// (-pan + size/2) / scale
	want := geom.Pt((200+400)/2.0, (-100+300)/2.0)
	if !got.Near(want, 1e-9) {
		t.Fatalf("centre=%v want %v", got, want)
	}
}

func TestSetClamps(t *testing.T) {
	v := New()
	v.Set(9, geom.Pt(1, 2))
	if v.Scale() != MaxScale || v.Pan() != geom.Pt(1, 2) {
		t.Fatalf("scale=%v pan=%v", v.Scale(), v.Pan())
	}
	v.Set(0, geom.Point{})
	if v.Scale() != 1 {
		t.Fatalf("zero scale should restore 1, got %v", v.Scale())
	}
}

func TestPercent(t *testing.T) {
	v := New()
	v.ZoomIn()
	v.ZoomIn()
	if v.Percent() != 120 {
		t.Fatalf("percent=%d want 120", v.Percent())
	}
}

package interaction

import (
	"reflect"
	"testing"

	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
	"pgregory.net/rapid"
)

type fakeEnv struct {
	tr    geom.Transform
	nodes map[model.NodeID]geom.Point
}

func (e fakeEnv) Transform() geom.Transform { return e.tr }
func (e fakeEnv) NodePosition(id model.NodeID) (geom.Point, bool) {
	p, ok := e.nodes[id]
	return p, ok
}

func newEnv() fakeEnv {
	return fakeEnv{
		tr:    geom.Transform{Origin: geom.Pt(100, 50), Pan: geom.Pt(20, -10), Scale: 1.5},
		nodes: map[model.NodeID]geom.Point{"n1": geom.Pt(40, 60)},
	}
}

func TestEmptyPressPansInSelectMode(t *testing.T) {
	s, fx := Reduce(Session{Tool: ToolSelect}, Down(geom.Pt(5, 5), ""), newEnv())
	if s.Drag.Kind != DragPanning || s.Drag.Anchor != geom.Pt(5, 5) {
		t.Fatalf("drag=%+v want panning at (5,5)", s.Drag)
	}
	if len(fx) != 0 {
		t.Fatalf("unexpected effects %v", fx)
	}
}

func TestHandModeAlwaysPans(t *testing.T) {
	env := newEnv()
	for _, hit := range []model.NodeID{"", "n1"} {
		s, fx := Reduce(Session{Tool: ToolHand}, Down(geom.Pt(200, 200), hit), env)
		if s.Drag.Kind != DragPanning {
			t.Fatalf("hit=%q drag=%v want panning", hit, s.Drag.Kind)
		}
		if len(fx) != 0 {
			t.Fatalf("hit=%q effects=%v, hand mode must not select", hit, fx)
		}
	}
}

func TestNodePressStartsDragAndSelects(t *testing.T) {
	env := newEnv()
	press := geom.Pt(200, 140)
	s, fx := Reduce(Session{}, Down(press, "n1"), env)
	if s.Drag.Kind != DragNode || s.Drag.NodeID != "n1" {
		t.Fatalf("drag=%+v", s.Drag)
	}
	wantGrab := env.tr.ScreenToWorld(press).Sub(geom.Pt(40, 60))
	if !s.Drag.Grab.Near(wantGrab, 1e-9) {
		t.Fatalf("grab=%v want %v", s.Drag.Grab, wantGrab)
	}
	if !reflect.DeepEqual(fx, []Effect{Select{ID: "n1"}}) {
		t.Fatalf("effects=%v", fx)
	}
}

func TestStaleHitFallsBackToPan(t *testing.T) {
	s, fx := Reduce(Session{}, Down(geom.Pt(1, 1), "ghost"), newEnv())
	if s.Drag.Kind != DragPanning || len(fx) != 0 {
		t.Fatalf("drag=%v effects=%v", s.Drag.Kind, fx)
	}
}

func TestPanDeltasAreIncremental(t *testing.T) {
	env := newEnv()
	s, _ := Reduce(Session{}, Down(geom.Pt(10, 10), ""), env)
	s, fx := Reduce(s, Move(geom.Pt(15, 12)), env)
	if !reflect.DeepEqual(fx, []Effect{PanBy{Delta: geom.Pt(5, 2)}}) {
		t.Fatalf("first move effects=%v", fx)
	}
	s, fx = Reduce(s, Move(geom.Pt(18, 20)), env)
	if !reflect.DeepEqual(fx, []Effect{PanBy{Delta: geom.Pt(3, 8)}}) {
		t.Fatalf("second move effects=%v, delta should be from last point", fx)
	}
	if s.Drag.Anchor != geom.Pt(18, 20) {
		t.Fatalf("anchor=%v", s.Drag.Anchor)
	}
	_, fx = Reduce(s, Move(geom.Pt(18, 20)), env)
	if len(fx) != 0 {
		t.Fatalf("zero move produced %v", fx)
	}
}

func TestUpAndLeaveReturnToIdle(t *testing.T) {
	env := newEnv()
	for _, end := range []Event{Up(), Leave()} {
		s, _ := Reduce(Session{Tool: ToolHand}, Down(geom.Pt(1, 1), ""), env)
		s, fx := Reduce(s, end, env)
		if !s.Idle() || len(fx) != 0 {
			t.Fatalf("end=%v session=%+v effects=%v", end.Kind, s, fx)
		}
		if s.Tool != ToolHand {
			t.Fatalf("tool reset by pointer up")
		}
	}
}

func TestUpWithoutDownIsNoop(t *testing.T) {
	env := newEnv()
	start := Session{Tool: ToolSelect}
	for _, ev := range []Event{Up(), Leave(), Move(geom.Pt(3, 3))} {
		s, fx := Reduce(start, ev, env)
		if s != start || len(fx) != 0 {
			t.Fatalf("event %v changed idle session: %+v %v", ev.Kind, s, fx)
		}
	}
}

func TestSetToolDoesNotInterrupt(t *testing.T) {
	env := newEnv()
	s, _ := Reduce(Session{}, Down(geom.Pt(200, 140), "n1"), env)
	s = SetTool(s, ToolHand)
	if s.Drag.Kind != DragNode {
		t.Fatalf("tool switch interrupted drag")
	}
	_, fx := Reduce(s, Move(geom.Pt(210, 150)), env)
	if len(fx) != 1 {
		t.Fatalf("drag should keep moving the node, effects=%v", fx)
	}
	if _, ok := fx[0].(MoveNode); !ok {
		t.Fatalf("effect=%T want MoveNode", fx[0])
	}
}

// A dragged node keeps the grab point under the cursor: the node lands at
// world(P') - (world(P) - start).
func TestDragDoesNotJump(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := geom.Pt(rapid.Float64Range(-2000, 2000).Draw(t, "nx"), rapid.Float64Range(-2000, 2000).Draw(t, "ny"))
		env := fakeEnv{
			tr: geom.Transform{
				Origin: geom.Pt(rapid.Float64Range(0, 300).Draw(t, "ox"), rapid.Float64Range(0, 300).Draw(t, "oy")),
				Pan:    geom.Pt(rapid.Float64Range(-500, 500).Draw(t, "px"), rapid.Float64Range(-500, 500).Draw(t, "py")),
				Scale:  rapid.Float64Range(0.2, 2).Draw(t, "scale"),
			},
			nodes: map[model.NodeID]geom.Point{"n": start},
		}
		p := geom.Pt(rapid.Float64Range(0, 1600).Draw(t, "sx"), rapid.Float64Range(0, 1200).Draw(t, "sy"))
		p2 := geom.Pt(rapid.Float64Range(0, 1600).Draw(t, "sx2"), rapid.Float64Range(0, 1200).Draw(t, "sy2"))

		s, _ := Reduce(Session{}, Down(p, "n"), env)
		_, fx := Reduce(s, Move(p2), env)
		mv := fx[0].(MoveNode)
		grab := env.tr.ScreenToWorld(p).Sub(start)
		want := env.tr.ScreenToWorld(p2).Sub(grab)
		if !mv.Position.Near(want, 1e-6) {
			t.Fatalf("node at %v want %v", mv.Position, want)
		}

		// moving back to the press point puts the node back where it was
		_, fx = Reduce(s, Move(p), env)
		if back := fx[0].(MoveNode).Position; !back.Near(start, 1e-6) {
			t.Fatalf("returning to press point moved node to %v, want %v", back, start)
		}
	})
}

func TestSecondDownRestartsClassification(t *testing.T) {
	env := newEnv()
	s, _ := Reduce(Session{}, Down(geom.Pt(1, 1), ""), env)
	s, fx := Reduce(s, Down(geom.Pt(200, 140), "n1"), env)
	if s.Drag.Kind != DragNode || len(fx) != 1 {
		t.Fatalf("session=%+v effects=%v", s, fx)
	}
}

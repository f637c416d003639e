package interaction

import (
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
)

// Effect is a mutation requested by a transition.
type Effect interface{ effect() }

// PanBy shifts the viewport by a screen-space delta.
type PanBy struct{ Delta geom.Point }

// MoveNode sets a node's world position.
type MoveNode struct {
	ID       model.NodeID
	Position geom.Point
}

// Select makes a node the current selection.
type Select struct{ ID model.NodeID }

func (PanBy) effect()    {}
func (MoveNode) effect() {}
func (Select) effect()   {}

// SetTool switches the tool used to classify the next pointer-down. An
// active session is left running.
func SetTool(s Session, m ToolMode) Session {
	s.Tool = m
	return s
}

// Reduce applies one pointer event. Every transition is total: unknown
// combinations leave the session unchanged with no effects.
func Reduce(s Session, ev Event, env Env) (Session, []Effect) {
	switch ev.Kind {
	case PointerDown:
		return pointerDown(s, ev, env)
	case PointerMove:
		return pointerMove(s, ev, env)
	case PointerUp, PointerLeave:
		s.Drag = Drag{}
		return s, nil
	}
	return s, nil
}

func pointerDown(s Session, ev Event, env Env) (Session, []Effect) {
	if s.Tool == ToolHand || ev.Hit == "" {
		s.Drag = Drag{Kind: DragPanning, Anchor: ev.Screen}
		return s, nil
	}
	pos, ok := env.NodePosition(ev.Hit)
	if !ok {
		// stale hit from the renderer; behave as an empty-canvas press
		s.Drag = Drag{Kind: DragPanning, Anchor: ev.Screen}
		return s, nil
	}
	world := env.Transform().ScreenToWorld(ev.Screen)
	s.Drag = Drag{Kind: DragNode, NodeID: ev.Hit, Grab: world.Sub(pos)}
	return s, []Effect{Select{ID: ev.Hit}}
}

func pointerMove(s Session, ev Event, env Env) (Session, []Effect) {
	switch s.Drag.Kind {
	case DragPanning:
		delta := ev.Screen.Sub(s.Drag.Anchor)
		s.Drag.Anchor = ev.Screen
		if delta == (geom.Point{}) {
			return s, nil
		}
		return s, []Effect{PanBy{Delta: delta}}
	case DragNode:
		world := env.Transform().ScreenToWorld(ev.Screen)
		return s, []Effect{MoveNode{ID: s.Drag.NodeID, Position: world.Sub(s.Drag.Grab)}}
	}
	return s, nil
}

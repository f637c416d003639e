// Package interaction classifies pointer events into pan and node-drag
// sessions. Reduce is pure: it returns the next Session and the effects the
// caller must apply to the graph and viewport, so it can be exercised without
// any rendering surface.
package interaction

import (
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
)

type ToolMode int

const (
	ToolSelect ToolMode = iota
	ToolHand
)

func (m ToolMode) String() string {
	if m == ToolHand {
		return "hand"
	}
	return "select"
}

type DragKind int

const (
	DragNone DragKind = iota
	DragPanning
	DragNode
)

func (k DragKind) String() string {
	switch k {
	case DragPanning:
		return "panning"
	case DragNode:
		return "dragging-node"
	default:
		return "idle"
	}
}

// Drag is the active pointer session. Anchor is meaningful while panning,
// NodeID and Grab while dragging a node.
type Drag struct {
	Kind   DragKind
	Anchor geom.Point   // last screen point seen while panning
	NodeID model.NodeID // node being dragged
	Grab   geom.Point   // world offset from node anchor to the grab point
}

type Session struct {
	Tool ToolMode
	Drag Drag
}

func (s Session) Idle() bool { return s.Drag.Kind == DragNone }

type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

type Event struct {
	Kind   EventKind
	Screen geom.Point
	Hit    model.NodeID // node under the pointer on PointerDown, "" for none
}

func Down(p geom.Point, hit model.NodeID) Event {
	return Event{Kind: PointerDown, Screen: p, Hit: hit}
}
func Move(p geom.Point) Event { return Event{Kind: PointerMove, Screen: p} }
func Up() Event               { return Event{Kind: PointerUp} }
func Leave() Event            { return Event{Kind: PointerLeave} }

// Env is the read-only view of the world a transition may consult.
type Env interface {
	Transform() geom.Transform
	NodePosition(id model.NodeID) (geom.Point, bool)
}

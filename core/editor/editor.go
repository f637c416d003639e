// Package editor wires the graph store, the viewport and the pointer session
// into the operations a flow-canvas host calls.
package editor

import (
	"math/rand"

	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/core/edgepath"
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/interaction"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
	"github.com/ingyamilmolinar/flowcanvas/core/viewport"
	game_log "github.com/ingyamilmolinar/flowcanvas/internal/log"
)

// Surface is what the rendering layer knows about the canvas element.
type Surface interface {
	CanvasOrigin() geom.Point
	CanvasSize() geom.Point
	HitTest(screen geom.Point) (model.NodeID, bool)
}

var (
	// fallbackSize is used for placement before the canvas has been laid out.
	fallbackSize = geom.Pt(800, 600)
	// placementOffset centres a new node's body on the placement point.
	placementOffset = geom.Pt(100, 50)
)

const jitterSpread = 50

type Editor struct {
	graph   *model.Graph
	view    *viewport.Viewport
	session interaction.Session
	surface Surface

	logger *game_log.Logger
	ids    model.IDSource
	jitter func() float64
	seed   bool
}

type Option func(*Editor)

func WithLogger(l *game_log.Logger) Option { return func(e *Editor) { e.logger = l } }

func WithIDSource(ids model.IDSource) Option { return func(e *Editor) { e.ids = ids } }

// WithJitter replaces the [0,1) source used to scatter new nodes.
func WithJitter(fn func() float64) Option { return func(e *Editor) { e.jitter = fn } }

// WithSeed starts the editor with the welcome flow instead of an empty graph.
func WithSeed() Option { return func(e *Editor) { e.seed = true } }

func New(surface Surface, opts ...Option) *Editor {
	e := &Editor{
		view:    viewport.New(),
		surface: surface,
		jitter:  rand.Float64,
	}
	for _, o := range opts {
		o(e)
	}
	e.graph = model.NewGraph(e.logger, e.ids)
	if e.seed {
		e.seedWelcome()
	}
	return e
}

func (e *Editor) seedWelcome() {
	start := e.graph.AddNode(model.KindTrigger, geom.Pt(100, 300))
	e.graph.RenameNode(start.ID, "Start Flow")
	welcome := e.graph.AddNode(model.KindMessage, geom.Pt(400, 300))
	e.graph.RenameNode(welcome.ID, "Welcome Message")
	if _, err := e.graph.Connect(start.ID, welcome.ID); err != nil {
		e.logger.Errorf("[GRAPH] Seeding welcome flow: %v", err)
	}
	e.graph.ClearSelection()
}

func (e *Editor) origin() geom.Point {
	if e.surface == nil {
		return geom.Point{}
	}
	return e.surface.CanvasOrigin()
}

func (e *Editor) size() geom.Point {
	if e.surface == nil {
		return fallbackSize
	}
	s := e.surface.CanvasSize()
	if s.X <= 0 || s.Y <= 0 {
		return fallbackSize
	}
	return s
}

// Transform is the current screen/world mapping for the canvas.
func (e *Editor) Transform() geom.Transform { return e.view.Transform(e.origin()) }

func (e *Editor) NodePosition(id model.NodeID) (geom.Point, bool) { return e.graph.Position(id) }

// AddNode drops a node of kind near the middle of the visible canvas and
// selects it. An unknown kind adds nothing.
func (e *Editor) AddNode(kind model.NodeKind) model.Node {
	if !kind.Valid() {
		e.logger.Warnf("[GRAPH] Ignoring add of unknown kind %q", kind)
		return model.Node{}
	}
	centre := e.view.WorldCenter(e.origin(), e.size())
	at := centre.Sub(placementOffset).Add(geom.Pt(e.jitter()*jitterSpread, e.jitter()*jitterSpread))
	return e.graph.AddNode(kind, at)
}

// DeleteSelectedNode removes the selected node and its connections.
func (e *Editor) DeleteSelectedNode() bool {
	id, ok := e.graph.Selected()
	if !ok {
		return false
	}
	if e.session.Drag.Kind == interaction.DragNode && e.session.Drag.NodeID == id {
		e.session.Drag = interaction.Drag{}
	}
	_, ok = e.graph.DeleteNode(id)
	return ok
}

func (e *Editor) Selected() (model.Node, bool) {
	id, ok := e.graph.Selected()
	if !ok {
		return model.Node{}, false
	}
	return e.graph.Node(id)
}

func (e *Editor) Select(id model.NodeID) { e.graph.Select(id) }

func (e *Editor) ClearSelection() { e.graph.ClearSelection() }

// RenameSelected relabels the selected node.
func (e *Editor) RenameSelected(label string) bool {
	id, ok := e.graph.Selected()
	if !ok {
		return false
	}
	return e.graph.RenameNode(id, label)
}

func (e *Editor) Connect(source, target model.NodeID) (model.Connection, error) {
	return e.graph.Connect(source, target)
}

func (e *Editor) Disconnect(id model.ConnectionID) bool { return e.graph.Disconnect(id) }

func (e *Editor) SetToolMode(m interaction.ToolMode) {
	e.session = interaction.SetTool(e.session, m)
	e.logger.Debugf("[INPUT] Tool mode %s", m)
}

func (e *Editor) ToolMode() interaction.ToolMode { return e.session.Tool }

func (e *Editor) ZoomIn() {
	e.view.ZoomIn()
	e.logger.Debugf("[VIEW] Zoom %d%%", e.view.Percent())
}

func (e *Editor) ZoomOut() {
	e.view.ZoomOut()
	e.logger.Debugf("[VIEW] Zoom %d%%", e.view.Percent())
}

func (e *Editor) ResetView() {
	e.view.Reset()
	e.logger.Debugf("[VIEW] Reset")
}

func (e *Editor) OnPointerDown(screen geom.Point) {
	var hit model.NodeID
	if e.surface != nil {
		if id, ok := e.surface.HitTest(screen); ok {
			hit = id
		}
	}
	e.dispatch(interaction.Down(screen, hit))
}

func (e *Editor) OnPointerMove(screen geom.Point) { e.dispatch(interaction.Move(screen)) }

func (e *Editor) OnPointerUp() { e.dispatch(interaction.Up()) }

func (e *Editor) OnPointerLeave() { e.dispatch(interaction.Leave()) }

func (e *Editor) dispatch(ev interaction.Event) {
	prev := e.session.Drag.Kind
	next, effects := interaction.Reduce(e.session, ev, e)
	e.session = next
	for _, fx := range effects {
		switch fx := fx.(type) {
		case interaction.PanBy:
			e.view.PanBy(fx.Delta)
		case interaction.MoveNode:
			e.graph.UpdateNodePosition(fx.ID, fx.Position)
		case interaction.Select:
			e.graph.Select(fx.ID)
		}
	}
	if next.Drag.Kind != prev {
		e.logger.Debugf("[INPUT] %s -> %s", prev, next.Drag.Kind)
	}
}

// Session exposes the pointer session, mainly for the host's cursor choice.
func (e *Editor) Session() interaction.Session { return e.session }

func (e *Editor) Routes() []edgepath.Route {
	return edgepath.Routes(e.graph.Nodes(), e.graph.Connections())
}

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	Nodes       []model.Node
	Connections []model.Connection
	Routes      []edgepath.Route
	Selected    model.NodeID
	Tool        interaction.ToolMode
	Drag        interaction.DragKind
	Scale       float64
	Pan         geom.Point
	Percent     int
}

func (e *Editor) Snapshot() Snapshot {
	nodes := e.graph.Nodes()
	conns := e.graph.Connections()
	sel, _ := e.graph.Selected()
	return Snapshot{
		Nodes:       nodes,
		Connections: conns,
		Routes:      edgepath.Routes(nodes, conns),
		Selected:    sel,
		Tool:        e.session.Tool,
		Drag:        e.session.Drag.Kind,
		Scale:       e.view.Scale(),
		Pan:         e.view.Pan(),
		Percent:     e.view.Percent(),
	}
}

// Load replaces the graph and viewport with a document's contents and
// returns how many invalid entries were dropped. Any pointer session ends.
func (e *Editor) Load(doc document.Document) int {
	dropped := e.graph.Restore(doc.Nodes, doc.Connections)
	e.view.Set(doc.Viewport.Scale, doc.Viewport.Pan)
	e.session.Drag = interaction.Drag{}
	e.logger.Infof("[DOC] Loaded %d node(s)", e.graph.Len())
	return dropped
}

// Document captures the current graph and viewport for saving.
func (e *Editor) Document() document.Document {
	return document.Document{
		Version:     document.Version,
		Nodes:       e.graph.Nodes(),
		Connections: e.graph.Connections(),
		Viewport:    document.ViewState{Scale: e.view.Scale(), Pan: e.view.Pan()},
	}
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	game_log "github.com/ingyamilmolinar/flowcanvas/internal/log"
	"github.com/ingyamilmolinar/flowcanvas/internal/utils"
)

var (
	ErrUnknownNode         = errors.New("unknown node")
	ErrSelfConnection      = errors.New("node cannot connect to itself")
	ErrHandleRole          = errors.New("node kind has no such handle")
	ErrDuplicateConnection = errors.New("connection already exists")
)

// DefaultLabel is the label a freshly added node of kind k receives.
func DefaultLabel(k NodeKind) string { return "New " + utils.Capitalize(string(k)) }

// Graph owns the nodes, the connections between them and the current
// selection. Every mutation keeps connections pointing at live nodes.
type Graph struct {
	nodes    []Node
	index    map[NodeID]int
	conns    []Connection
	selected NodeID
	ids      IDSource
	logger   *game_log.Logger
}

func NewGraph(logger *game_log.Logger, ids IDSource) *Graph {
	if ids == nil {
		ids = UUIDSource{}
	}
	return &Graph{
		index:  map[NodeID]int{},
		ids:    ids,
		logger: logger,
	}
}

func (g *Graph) freshNodeID() NodeID {
	for {
		id := NodeID(g.ids.NextID())
		if _, taken := g.index[id]; !taken && id != "" {
			return id
		}
	}
}

func (g *Graph) freshConnectionID() ConnectionID {
	for {
		id := ConnectionID(g.ids.NextID())
		if id == "" {
			continue
		}
		if _, ok := g.connectionIndex(id); !ok {
			return id
		}
	}
}

func (g *Graph) reindex() {
	g.index = make(map[NodeID]int, len(g.nodes))
	for i, n := range g.nodes {
		g.index[n.ID] = i
	}
}

func (g *Graph) connectionIndex(id ConnectionID) (int, bool) {
	for i, c := range g.conns {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

// AddNode appends a node of kind at the given world position and selects it.
func (g *Graph) AddNode(kind NodeKind, at geom.Point) Node {
	n := Node{
		ID:       g.freshNodeID(),
		Kind:     kind,
		Label:    DefaultLabel(kind),
		Position: at,
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.selected = n.ID
	g.logger.Debugf("[GRAPH] Added %s node %s at (%.1f, %.1f)", kind, n.ID, at.X, at.Y)
	return n
}

// Node looks a node up by id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Position is Node reduced to its anchor.
func (g *Graph) Position(id NodeID) (geom.Point, bool) {
	n, ok := g.Node(id)
	return n.Position, ok
}

// UpdateNodePosition moves a node. Unknown ids are ignored.
func (g *Graph) UpdateNodePosition(id NodeID, p geom.Point) bool {
	i, ok := g.index[id]
	if !ok {
		g.logger.Warnf("[GRAPH] Position update for missing node %s ignored", id)
		return false
	}
	g.nodes[i].Position = p
	return true
}

// RenameNode replaces a node's label. Unknown ids are ignored.
func (g *Graph) RenameNode(id NodeID, label string) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes[i].Label = label
	g.logger.Debugf("[GRAPH] Renamed node %s to %q", id, label)
	return true
}

// SetNodeData stores an opaque payload on a node.
func (g *Graph) SetNodeData(id NodeID, data json.RawMessage) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes[i].Data = append(json.RawMessage(nil), data...)
	return true
}

// DeleteNode removes a node together with every connection touching it and
// returns the connections that went with it.
func (g *Graph) DeleteNode(id NodeID) ([]Connection, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	g.reindex()

	var removed []Connection
	out := g.conns[:0]
	for _, c := range g.conns {
		if c.SourceID == id || c.TargetID == id {
			removed = append(removed, c)
			continue
		}
		out = append(out, c)
	}
	g.conns = out

	if g.selected == id {
		g.selected = ""
	}
	g.logger.Debugf("[GRAPH] Removed node %s and %d connection(s)", id, len(removed))
	return removed, true
}

// Select marks id as the selected node. An unknown id clears the selection.
func (g *Graph) Select(id NodeID) {
	if _, ok := g.index[id]; !ok {
		g.selected = ""
		return
	}
	g.selected = id
}

func (g *Graph) ClearSelection() { g.selected = "" }

// Selected returns the selected node id, if any.
func (g *Graph) Selected() (NodeID, bool) {
	return g.selected, g.selected != ""
}

// Connect adds a directed connection from source's output handle to
// target's input handle.
func (g *Graph) Connect(source, target NodeID) (Connection, error) {
	src, ok := g.Node(source)
	if !ok {
		return Connection{}, fmt.Errorf("connect source %s: %w", source, ErrUnknownNode)
	}
	dst, ok := g.Node(target)
	if !ok {
		return Connection{}, fmt.Errorf("connect target %s: %w", target, ErrUnknownNode)
	}
	if err := g.canConnect(src, dst); err != nil {
		return Connection{}, err
	}
	c := Connection{ID: g.freshConnectionID(), SourceID: source, TargetID: target}
	g.conns = append(g.conns, c)
	g.logger.Debugf("[GRAPH] Connected %s -> %s (%s)", source, target, c.ID)
	return c, nil
}

// canConnect applies the kind and uniqueness rules every stored connection
// obeys, whether added by Connect or loaded by Restore.
func (g *Graph) canConnect(src, dst Node) error {
	if src.ID == dst.ID {
		return fmt.Errorf("connect %s: %w", src.ID, ErrSelfConnection)
	}
	if !src.Kind.HasOutput() {
		return fmt.Errorf("%s node %s has no output: %w", src.Kind, src.ID, ErrHandleRole)
	}
	if !dst.Kind.HasInput() {
		return fmt.Errorf("%s node %s has no input: %w", dst.Kind, dst.ID, ErrHandleRole)
	}
	for _, c := range g.conns {
		if c.SourceID == src.ID && c.TargetID == dst.ID {
			return fmt.Errorf("connect %s -> %s: %w", src.ID, dst.ID, ErrDuplicateConnection)
		}
	}
	return nil
}

// Disconnect removes a single connection.
func (g *Graph) Disconnect(id ConnectionID) bool {
	i, ok := g.connectionIndex(id)
	if !ok {
		return false
	}
	g.conns = append(g.conns[:i], g.conns[i+1:]...)
	g.logger.Debugf("[GRAPH] Removed connection %s", id)
	return true
}

// Nodes returns a copy of the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Connections returns a copy of the connections in insertion order.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, len(g.conns))
	copy(out, g.conns)
	return out
}

func (g *Graph) Len() int { return len(g.nodes) }

// Restore replaces the whole graph. Nodes with a repeated id or an invalid
// kind are dropped, as are connections with an endpoint that does not
// resolve or that Connect would refuse. The number of dropped entries is
// returned.
func (g *Graph) Restore(nodes []Node, conns []Connection) int {
	dropped := 0
	g.nodes = g.nodes[:0]
	g.conns = g.conns[:0]
	g.index = make(map[NodeID]int, len(nodes))
	for _, n := range nodes {
		if _, dup := g.index[n.ID]; dup || n.ID == "" || !n.Kind.Valid() {
			g.logger.Warnf("[GRAPH] Restore skipped node %q (%s)", n.ID, n.Kind)
			dropped++
			continue
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	seen := map[ConnectionID]bool{}
	for _, c := range conns {
		src, srcOK := g.Node(c.SourceID)
		dst, dstOK := g.Node(c.TargetID)
		if !srcOK || !dstOK || c.ID == "" || seen[c.ID] {
			g.logger.Warnf("[GRAPH] Restore skipped connection %q (%s -> %s)", c.ID, c.SourceID, c.TargetID)
			dropped++
			continue
		}
		if err := g.canConnect(src, dst); err != nil {
			g.logger.Warnf("[GRAPH] Restore skipped connection %q: %v", c.ID, err)
			dropped++
			continue
		}
		seen[c.ID] = true
		g.conns = append(g.conns, c)
	}
	g.selected = ""
	g.logger.Infof("[GRAPH] Restored %d node(s), %d connection(s), dropped %d", len(g.nodes), len(g.conns), dropped)
	return dropped
}

package model

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	game_log "github.com/ingyamilmolinar/flowcanvas/internal/log"
	"pgregory.net/rapid"
)

var testLogger *game_log.Logger

func init() {
	testLogger = game_log.New(io.Discard, game_log.LevelDebug)
}

func newTestGraph() *Graph {
	return NewGraph(testLogger, &SequenceSource{Prefix: "n"})
}

func TestAddNodeDefaultsAndSelects(t *testing.T) {
	g := newTestGraph()
	n := g.AddNode(KindCondition, geom.Pt(10, 20))
	if n.ID != "n1" {
		t.Fatalf("id=%q want n1", n.ID)
	}
	if n.Label != "New Condition" {
		t.Fatalf("label=%q want %q", n.Label, "New Condition")
	}
	if n.Position != geom.Pt(10, 20) {
		t.Fatalf("position=%v", n.Position)
	}
	if sel, ok := g.Selected(); !ok || sel != n.ID {
		t.Fatalf("selected=%q,%v want %q", sel, ok, n.ID)
	}
}

// collidingSource repeats ids to exercise the store's redraw on collision.
type collidingSource struct{ ids []string }

func (c *collidingSource) NextID() string {
	id := c.ids[0]
	c.ids = c.ids[1:]
	return id
}

func TestAddNodeNeverReusesID(t *testing.T) {
	g := NewGraph(testLogger, &collidingSource{ids: []string{"a", "a", "", "b"}})
	first := g.AddNode(KindMessage, geom.Point{})
	second := g.AddNode(KindMessage, geom.Point{})
	if first.ID != "a" || second.ID != "b" {
		t.Fatalf("ids %q,%q want a,b", first.ID, second.ID)
	}
}

func TestUpdateNodePositionUnknownIsNoop(t *testing.T) {
	g := newTestGraph()
	n := g.AddNode(KindAction, geom.Pt(1, 1))
	if g.UpdateNodePosition("ghost", geom.Pt(5, 5)) {
		t.Fatalf("update of unknown node reported success")
	}
	got, _ := g.Node(n.ID)
	if got.Position != geom.Pt(1, 1) {
		t.Fatalf("node moved: %v", got.Position)
	}
	if !g.UpdateNodePosition(n.ID, geom.Pt(7, 8)) {
		t.Fatalf("update of live node failed")
	}
	if p, _ := g.Position(n.ID); p != geom.Pt(7, 8) {
		t.Fatalf("position=%v want (7,8)", p)
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(KindTrigger, geom.Point{})
	b := g.AddNode(KindMessage, geom.Point{})
	c := g.AddNode(KindAction, geom.Point{})
	ab, _ := g.Connect(a.ID, b.ID)
	bc, _ := g.Connect(b.ID, c.ID)
	ac, _ := g.Connect(a.ID, c.ID)

	g.Select(b.ID)
	removed, ok := g.DeleteNode(b.ID)
	if !ok {
		t.Fatalf("delete failed")
	}
	if !reflect.DeepEqual(removed, []Connection{ab, bc}) {
		t.Fatalf("removed=%v want [%v %v]", removed, ab, bc)
	}
	if got := g.Connections(); !reflect.DeepEqual(got, []Connection{ac}) {
		t.Fatalf("remaining=%v want [%v]", got, ac)
	}
	if _, ok := g.Selected(); ok {
		t.Fatalf("selection not cleared after deleting selected node")
	}
	if _, ok := g.Node(b.ID); ok {
		t.Fatalf("node still present")
	}
	// index must still resolve the survivor after the slice shifted
	if n, ok := g.Node(c.ID); !ok || n.ID != c.ID {
		t.Fatalf("lookup of %s after delete = %v,%v", c.ID, n, ok)
	}
}

func TestDeleteNodeKeepsOtherSelection(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(KindMessage, geom.Point{})
	b := g.AddNode(KindMessage, geom.Point{})
	g.Select(a.ID)
	g.DeleteNode(b.ID)
	if sel, ok := g.Selected(); !ok || sel != a.ID {
		t.Fatalf("selection=%q,%v want %q", sel, ok, a.ID)
	}
}

func TestDeleteTriggerScenario(t *testing.T) {
	g := newTestGraph()
	trig := g.AddNode(KindTrigger, geom.Point{})
	msg := g.AddNode(KindMessage, geom.Pt(400, 0))
	if _, err := g.Connect(trig.ID, msg.ID); err != nil {
		t.Fatalf("connect: %v", err)
	}
	g.DeleteNode(trig.ID)
	if len(g.Connections()) != 0 {
		t.Fatalf("connection survived: %v", g.Connections())
	}
	nodes := g.Nodes()
	if len(nodes) != 1 || nodes[0].ID != msg.ID {
		t.Fatalf("nodes=%v want only %s", nodes, msg.ID)
	}
}

func TestConnectValidation(t *testing.T) {
	g := newTestGraph()
	trig := g.AddNode(KindTrigger, geom.Point{})
	msg := g.AddNode(KindMessage, geom.Point{})
	act := g.AddNode(KindAction, geom.Point{})

	cases := []struct {
		name     string
		src, dst NodeID
		want     error
	}{
		{"unknown source", "ghost", msg.ID, ErrUnknownNode},
		{"unknown target", msg.ID, "ghost", ErrUnknownNode},
		{"self", msg.ID, msg.ID, ErrSelfConnection},
		{"into trigger", msg.ID, trig.ID, ErrHandleRole},
		{"out of action", act.ID, msg.ID, ErrHandleRole},
	}
	for _, c := range cases {
		if _, err := g.Connect(c.src, c.dst); !errors.Is(err, c.want) {
			t.Fatalf("%s: err=%v want %v", c.name, err, c.want)
		}
	}

	if _, err := g.Connect(trig.ID, act.ID); err != nil {
		t.Fatalf("valid connect: %v", err)
	}
	if _, err := g.Connect(trig.ID, act.ID); !errors.Is(err, ErrDuplicateConnection) {
		t.Fatalf("duplicate err=%v", err)
	}
}

func TestDisconnect(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(KindTrigger, geom.Point{})
	b := g.AddNode(KindAction, geom.Point{})
	c, _ := g.Connect(a.ID, b.ID)
	if !g.Disconnect(c.ID) || len(g.Connections()) != 0 {
		t.Fatalf("disconnect failed: %v", g.Connections())
	}
	if g.Disconnect(c.ID) {
		t.Fatalf("second disconnect reported success")
	}
}

func TestSelectUnknownClears(t *testing.T) {
	g := newTestGraph()
	g.AddNode(KindMessage, geom.Point{})
	g.Select("ghost")
	if _, ok := g.Selected(); ok {
		t.Fatalf("unknown select kept a selection")
	}
}

func TestRestorePrunesDangling(t *testing.T) {
	g := newTestGraph()
	nodes := []Node{
		{ID: "1", Kind: KindTrigger, Label: "Start Flow"},
		{ID: "2", Kind: KindMessage, Label: "Welcome Message"},
		{ID: "2", Kind: KindMessage, Label: "dup"},
		{ID: "3", Kind: "robot"},
	}
	conns := []Connection{
		{ID: "c1", SourceID: "1", TargetID: "2"},
		{ID: "c2", SourceID: "1", TargetID: "9"},
		{ID: "c1", SourceID: "1", TargetID: "2"},
	}
	dropped := g.Restore(nodes, conns)
	if dropped != 4 {
		t.Fatalf("dropped=%d want 4", dropped)
	}
	if g.Len() != 2 || len(g.Connections()) != 1 {
		t.Fatalf("nodes=%v conns=%v", g.Nodes(), g.Connections())
	}
	if n, _ := g.Node("2"); n.Label != "Welcome Message" {
		t.Fatalf("first duplicate should win, got %q", n.Label)
	}
}

func TestRestoreAppliesConnectRules(t *testing.T) {
	g := newTestGraph()
	nodes := []Node{
		{ID: "t", Kind: KindTrigger, Label: "Start"},
		{ID: "a", Kind: KindAction, Label: "Do"},
	}
	conns := []Connection{
		{ID: "c1", SourceID: "a", TargetID: "t"}, // action has no output, trigger no input
		{ID: "c2", SourceID: "t", TargetID: "t"},
		{ID: "c3", SourceID: "t", TargetID: "a"},
		{ID: "c4", SourceID: "t", TargetID: "a"},
	}
	if dropped := g.Restore(nodes, conns); dropped != 3 {
		t.Fatalf("dropped=%d want 3", dropped)
	}
	got := g.Connections()
	if len(got) != 1 || got[0].ID != "c3" {
		t.Fatalf("kept %v", got)
	}
	// everything kept must still be something Connect would refuse only as a duplicate
	for _, c := range got {
		if _, err := g.Connect(c.SourceID, c.TargetID); !errors.Is(err, ErrDuplicateConnection) {
			t.Fatalf("kept %v: Connect gave %v", c, err)
		}
	}
}

func TestRenameAndData(t *testing.T) {
	g := newTestGraph()
	n := g.AddNode(KindMessage, geom.Point{})
	g.RenameNode(n.ID, "Hello")
	g.SetNodeData(n.ID, []byte(`{"text":"hi"}`))
	got, _ := g.Node(n.ID)
	if got.Label != "Hello" || string(got.Data) != `{"text":"hi"}` {
		t.Fatalf("node=%+v", got)
	}
	if g.RenameNode("ghost", "x") || g.SetNodeData("ghost", nil) {
		t.Fatalf("mutation of unknown node reported success")
	}
}

func TestKindHandles(t *testing.T) {
	if KindTrigger.HasInput() || !KindTrigger.HasOutput() {
		t.Fatalf("trigger handles wrong")
	}
	if !KindAction.HasInput() || KindAction.HasOutput() {
		t.Fatalf("action handles wrong")
	}
	for _, k := range []NodeKind{KindMessage, KindCondition} {
		if !k.HasInput() || !k.HasOutput() {
			t.Fatalf("%s should have both handles", k)
		}
	}
	if _, err := ParseKind("robot"); err == nil {
		t.Fatalf("ParseKind accepted unknown kind")
	}
}

// No sequence of adds, connects and deletes may leave a connection whose
// endpoint is gone.
func TestNoDanglingConnections(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := NewGraph(nil, &SequenceSource{Prefix: "n"})
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			nodes := g.Nodes()
			switch op := rapid.IntRange(0, 2).Draw(t, "op"); {
			case op == 0 || len(nodes) < 2:
				kind := rapid.SampledFrom(Kinds).Draw(t, "kind")
				g.AddNode(kind, geom.Point{})
			case op == 1:
				a := rapid.SampledFrom(nodes).Draw(t, "src")
				b := rapid.SampledFrom(nodes).Draw(t, "dst")
				_, _ = g.Connect(a.ID, b.ID)
			default:
				n := rapid.SampledFrom(nodes).Draw(t, "victim")
				g.DeleteNode(n.ID)
				if _, ok := g.Node(n.ID); ok {
					t.Fatalf("node %s survived delete", n.ID)
				}
			}
			for _, c := range g.Connections() {
				if _, ok := g.Node(c.SourceID); !ok {
					t.Fatalf("dangling source %s in %s", c.SourceID, c.ID)
				}
				if _, ok := g.Node(c.TargetID); !ok {
					t.Fatalf("dangling target %s in %s", c.TargetID, c.ID)
				}
			}
			if sel, ok := g.Selected(); ok {
				if _, live := g.Node(sel); !live {
					t.Fatalf("selection %s points at a deleted node", sel)
				}
			}
		}
	})
}

func TestKindDescriptionsAndHandles(t *testing.T) {
	for _, k := range Kinds {
		if k.Description() == "" {
			t.Fatalf("%s has no description", k)
		}
	}
	if KindTrigger.HasInput() || !KindTrigger.HasOutput() {
		t.Fatalf("trigger handles wrong")
	}
	if !KindAction.HasInput() || KindAction.HasOutput() {
		t.Fatalf("action handles wrong")
	}
	if NodeKind("webhook").Description() != "" {
		t.Fatalf("unknown kind should have no description")
	}
	if _, err := ParseKind("webhook"); err == nil {
		t.Fatalf("ParseKind accepted an unknown kind")
	}
}

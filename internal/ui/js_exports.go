//go:build js

package ui

import (
	"syscall/js"

	"github.com/ingyamilmolinar/flowcanvas/core/model"
)

func init() { registerJS = (*Game).initJS }

// initJS exposes editor actions for browser-based tests.
func (g *Game) initJS() {
	js.Global().Set("addNode", js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		n := g.editor.AddNode(model.NodeKind(args[0].String()))
		return js.ValueOf(string(n.ID))
	}))
	js.Global().Set("deleteSelected", js.FuncOf(func(js.Value, []js.Value) any {
		return js.ValueOf(g.editor.DeleteSelectedNode())
	}))
	js.Global().Set("zoomIn", js.FuncOf(func(js.Value, []js.Value) any {
		g.editor.ZoomIn()
		return nil
	}))
	js.Global().Set("zoomOut", js.FuncOf(func(js.Value, []js.Value) any {
		g.editor.ZoomOut()
		return nil
	}))
	js.Global().Set("resetView", js.FuncOf(func(js.Value, []js.Value) any {
		g.editor.ResetView()
		return nil
	}))
	js.Global().Set("flowState", js.FuncOf(func(js.Value, []js.Value) any {
		snap := g.editor.Snapshot()
		return js.ValueOf(map[string]any{
			"nodes":       len(snap.Nodes),
			"connections": len(snap.Connections),
			"zoom":        snap.Percent,
			"selected":    string(snap.Selected),
		})
	}))
}

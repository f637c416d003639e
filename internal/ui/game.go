package ui

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/core/editor"
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/interaction"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
	game_log "github.com/ingyamilmolinar/flowcanvas/internal/log"
	"github.com/ingyamilmolinar/flowcanvas/internal/utils"
)

const (
	toolbarHeight  = 48 // px
	paletteWidth   = 160
	inspectorWidth = 220
	statusFrames   = 180 // how long a status line stays, in ticks
)

// Config carries what the host needs beyond the editor itself.
type Config struct {
	Store       *document.FileStore // nil disables save and reload
	Changes     <-chan struct{}     // external edits to Store, usually from watch
	Seed        bool                // start with the welcome flow when Store has no file
	GridSpacing float64
	ShowGrid    bool
	Editor      []editor.Option
}

// registerJS publishes editor actions to the page on js builds.
var registerJS = func(*Game) {}

type linkDrag struct {
	from   model.NodeID
	to     geom.Point // screen
	active bool
}

type Game struct {
	/* subsystems */
	editor *editor.Editor
	canvas *Canvas
	logger *game_log.Logger

	/* persistence */
	store     *document.FileStore
	changes   <-chan struct{}
	lastSaved []byte

	/* widgets */
	toolButtons    []*Button // select, hand, zoom out, zoom in, delete, save
	selectBtn      *Button
	handBtn        *Button
	deleteBtn      *Button
	paletteButtons []*Button
	fitBtn         *Button
	inspector      *TextInput
	inspected      model.NodeID

	/* input state */
	leftPrev    bool
	pointerHeld bool // a canvas press is feeding the editor
	link        linkDrag
	keys        keyEdges

	/* misc */
	winW, winH      int
	toolbarRect     image.Rectangle
	paletteRect     image.Rectangle
	inspectorRect   image.Rectangle
	status          string
	statusRemaining int
}

func New(logger *game_log.Logger, cfg Config) *Game {
	if cfg.GridSpacing <= 0 {
		cfg.GridSpacing = 20
	}
	g := &Game{
		canvas:  &Canvas{GridSpacing: cfg.GridSpacing, ShowGrid: cfg.ShowGrid},
		logger:  logger,
		store:   cfg.Store,
		changes: cfg.Changes,
		keys:    keyEdges{},
	}

	opts := append([]editor.Option{editor.WithLogger(logger)}, cfg.Editor...)
	haveFile := g.store != nil && g.store.Exists()
	if cfg.Seed && !haveFile {
		opts = append(opts, editor.WithSeed())
	}
	g.editor = editor.New(g.canvas, opts...)
	g.canvas.editor = g.editor
	if haveFile {
		g.reload(true)
	}

	g.buildWidgets()
	g.Layout(1280, 800)
	registerJS(g)
	return g
}

// Editor exposes the underlying editor, used by the JS bridge and tests.
func (g *Game) Editor() *editor.Editor { return g.editor }

func (g *Game) buildWidgets() {
	g.selectBtn = NewButton("Select (V)", DefaultButtonStyle, func() { g.editor.SetToolMode(interaction.ToolSelect) })
	g.handBtn = NewButton("Hand (H)", DefaultButtonStyle, func() { g.editor.SetToolMode(interaction.ToolHand) })
	zoomOut := NewButton("-", DefaultButtonStyle, g.editor.ZoomOut)
	zoomIn := NewButton("+", DefaultButtonStyle, g.editor.ZoomIn)
	g.deleteBtn = NewButton("Delete", DangerButtonStyle, g.deleteSelected)
	save := NewButton("Save Flow", DefaultButtonStyle, g.save)
	g.toolButtons = []*Button{g.selectBtn, g.handBtn, zoomOut, zoomIn, g.deleteBtn, save}

	g.paletteButtons = g.paletteButtons[:0]
	for _, k := range model.Kinds {
		kind := k
		g.paletteButtons = append(g.paletteButtons, NewButton(utils.Capitalize(string(kind)), paletteStyle(kind), func() {
			n := g.editor.AddNode(kind)
			g.logger.Infof("[UI] Added %s node %s", kind, n.ID)
		}))
	}
	g.fitBtn = NewButton("Fit", DefaultButtonStyle, g.editor.ResetView)
	g.inspector = NewTextInput(image.Rectangle{}, InspectorBoxStyle)
	g.inspector.OnChange = func(s string) { g.editor.RenameSelected(s) }
}

func (g *Game) Layout(w, h int) (int, int) {
	if w == g.winW && h == g.winH {
		return w, h
	}
	g.winW, g.winH = w, h
	var canvas image.Rectangle
	g.toolbarRect, g.paletteRect, canvas, g.inspectorRect = panelRects(w, h)
	g.canvas.Bounds = canvas

	// toolbar: six buttons plus a gap for the zoom readout between - and +
	bar := image.Rect(paletteWidth, 0, paletteWidth+7*96, toolbarHeight)
	cols := NewGridLayout(bar, evenly(7), evenly(1))
	for i, b := range g.toolButtons {
		col := i
		if i >= 3 {
			col++ // leave column 3 for the zoom percentage
		}
		b.SetRect(insetRect(cols.Cell(col, 0), 8))
	}

	n := len(g.paletteButtons)
	list := image.Rect(g.paletteRect.Min.X, g.paletteRect.Min.Y+32, g.paletteRect.Max.X, g.paletteRect.Min.Y+32+48*n)
	grid := NewGridLayout(list, evenly(1), evenly(n))
	for i, b := range g.paletteButtons {
		b.SetRect(insetRect(grid.Cell(0, i), 6))
	}

	g.fitBtn.SetRect(image.Rect(canvas.Max.X-64, canvas.Max.Y-44, canvas.Max.X-12, canvas.Max.Y-12))
	g.inspector.Rect = image.Rect(g.inspectorRect.Min.X+12, g.inspectorRect.Min.Y+56, g.inspectorRect.Max.X-12, g.inspectorRect.Min.Y+78)
	g.logger.Infof("[UI] Layout: win=%dx%d canvas=%v", w, h, canvas)
	return w, h
}

/* ─────────────── actions ─────────────── */

func (g *Game) setStatus(format string, args ...interface{}) {
	g.status = fmt.Sprintf(format, args...)
	g.statusRemaining = statusFrames
}

func (g *Game) deleteSelected() {
	n, ok := g.editor.Selected()
	if !ok {
		return
	}
	if g.editor.DeleteSelectedNode() {
		g.setStatus("Deleted %s", n.Label)
	}
}

func (g *Game) save() {
	if g.store == nil {
		g.setStatus("No flow file to save to")
		return
	}
	data, err := g.store.Save(g.editor.Document())
	if err != nil {
		g.logger.Errorf("[DOC] Save failed: %v", err)
		g.setStatus("Save failed: %v", err)
		return
	}
	g.lastSaved = data
	g.logger.Infof("[DOC] Saved %s (%d bytes)", g.store.Path, len(data))
	g.setStatus("Saved %s", filepath.Base(g.store.Path))
}

// reload replaces the graph with the file contents unless they are what this
// host last wrote itself.
func (g *Game) reload(initial bool) {
	doc, raw, err := g.store.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		g.logger.Errorf("[DOC] Load failed: %v", err)
		g.setStatus("Load failed: %v", err)
		return
	}
	if !initial && bytes.Equal(raw, g.lastSaved) {
		return
	}
	g.lastSaved = raw
	g.pointerHeld = false
	g.link = linkDrag{}
	if dropped := g.editor.Load(doc); dropped > 0 {
		g.setStatus("Loaded %s, dropped %d invalid entries", filepath.Base(g.store.Path), dropped)
	} else if !initial {
		g.setStatus("Reloaded %s", filepath.Base(g.store.Path))
	}
}

/* ─────────────── Update ─────────────── */

func (g *Game) Update() error {
	if g.statusRemaining > 0 {
		g.statusRemaining--
	}
	if g.changes != nil && g.store != nil {
		select {
		case <-g.changes:
			g.reload(false)
		default:
		}
	}

	g.syncInspector()
	g.handleKeys()

	mx, my := input.cursor()
	left := input.mouse(ebiten.MouseButtonLeft)
	_, selected := g.editor.Selected()
	g.deleteBtn.Hidden = !selected

	consumed := false
	if !g.pointerHeld && !g.link.active {
		for _, b := range g.buttons() {
			if b.Handle(mx, my, left) {
				consumed = true
			}
		}
		if selected && g.inspector.Update() {
			consumed = true
		}
	}
	if !consumed {
		g.handleCanvas(mx, my, left)
	}
	g.leftPrev = left
	return nil
}

func (g *Game) buttons() []*Button {
	out := make([]*Button, 0, len(g.toolButtons)+len(g.paletteButtons)+1)
	out = append(out, g.toolButtons...)
	out = append(out, g.paletteButtons...)
	return append(out, g.fitBtn)
}

// syncInspector loads the selected node's label into the text box whenever
// the selection changes.
func (g *Game) syncInspector() {
	n, ok := g.editor.Selected()
	if !ok {
		g.inspected = ""
		g.inspector.Blur()
		return
	}
	if n.ID != g.inspected {
		g.inspected = n.ID
		g.inspector.SetText(n.Label)
	}
}

func (g *Game) handleKeys() {
	ctrl := input.key(ebiten.KeyControl) || input.key(ebiten.KeyMeta)
	if g.keys.pressed(ebiten.KeyS) && ctrl {
		g.save()
	}
	editing := g.inspector.Focused()
	// always sample, so edges stay correct while the inspector has focus
	del := g.keys.pressed(ebiten.KeyDelete)
	back := g.keys.pressed(ebiten.KeyBackspace)
	sel := g.keys.pressed(ebiten.KeyV)
	hand := g.keys.pressed(ebiten.KeyH)
	reset := g.keys.pressed(ebiten.KeyDigit0)
	in := g.keys.pressed(ebiten.KeyEqual) || g.keys.pressed(ebiten.KeyNumpadAdd)
	out := g.keys.pressed(ebiten.KeyMinus) || g.keys.pressed(ebiten.KeyNumpadSubtract)
	if editing || ctrl {
		return
	}
	switch {
	case del || back:
		g.deleteSelected()
	case sel:
		g.editor.SetToolMode(interaction.ToolSelect)
	case hand:
		g.editor.SetToolMode(interaction.ToolHand)
	case reset:
		g.editor.ResetView()
	case in:
		g.editor.ZoomIn()
	case out:
		g.editor.ZoomOut()
	}
}

func (g *Game) handleCanvas(mx, my int, left bool) {
	p := geom.Pt(float64(mx), float64(my))
	inside := g.canvas.Contains(mx, my)

	if inside && !g.pointerHeld {
		if _, wy := input.wheel(); wy > 0 {
			g.editor.ZoomIn()
		} else if wy < 0 {
			g.editor.ZoomOut()
		}
	}

	switch {
	case left && !g.leftPrev:
		if !inside {
			return
		}
		shift := input.key(ebiten.KeyShift)
		if shift {
			if id, ok := g.canvas.HitTest(p); ok {
				g.link = linkDrag{from: id, to: p, active: true}
				g.logger.Debugf("[INPUT] Start link drag from %s", id)
				return
			}
		}
		g.editor.OnPointerDown(p)
		g.pointerHeld = true
	case left && g.leftPrev:
		if g.link.active {
			g.link.to = p
			return
		}
		if !g.pointerHeld {
			return
		}
		if !inside {
			g.editor.OnPointerLeave()
			g.pointerHeld = false
			return
		}
		g.editor.OnPointerMove(p)
	case !left && g.leftPrev:
		if g.link.active {
			g.finishLink(p)
		}
		if g.pointerHeld {
			g.editor.OnPointerUp()
			g.pointerHeld = false
		}
	}
}

func (g *Game) finishLink(p geom.Point) {
	from := g.link.from
	g.link = linkDrag{}
	to, ok := g.canvas.HitTest(p)
	if !ok || to == from {
		return
	}
	if _, err := g.editor.Connect(from, to); err != nil {
		g.logger.Warnf("[UI] Connect %s -> %s: %v", from, to, err)
		g.setStatus("Cannot connect: %v", err)
		return
	}
	g.setStatus("Connected")
}

/* ─────────────── Draw ─────────────── */

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colWindow)
	snap := g.editor.Snapshot()
	g.canvas.Draw(screen, snap, &g.link)

	drawRect(screen, g.toolbarRect, colPanel, true)
	drawRect(screen, g.paletteRect, colPanel, true)
	drawRect(screen, g.inspectorRect, colPanel, true)
	drawLine(screen, 0, toolbarHeight, float64(g.winW), toolbarHeight, colPanelSep, 1)

	drawText(screen, "Flow Canvas", 12, (toolbarHeight-debugCharH)/2)
	g.selectBtn.Style = DefaultButtonStyle
	g.handBtn.Style = DefaultButtonStyle
	if snap.Tool == interaction.ToolHand {
		g.handBtn.Style = ActiveToolStyle
	} else {
		g.selectBtn.Style = ActiveToolStyle
	}
	for _, b := range g.toolButtons {
		b.Draw(screen)
	}
	zoom := g.toolButtons[2].Rect()
	drawText(screen, fmt.Sprintf("%d%%", snap.Percent), zoom.Max.X+30, zoom.Min.Y+(zoom.Dy()-debugCharH)/2)

	drawText(screen, "Nodes", g.paletteRect.Min.X+12, g.paletteRect.Min.Y+12)
	for _, b := range g.paletteButtons {
		b.Draw(screen)
	}
	g.fitBtn.Draw(screen)
	g.drawInspector(screen)

	if g.statusRemaining > 0 {
		drawText(screen, g.status, g.canvas.Bounds.Min.X+12, g.canvas.Bounds.Max.Y-24)
	}
}

func (g *Game) drawInspector(screen *ebiten.Image) {
	x, y := g.inspectorRect.Min.X+12, g.inspectorRect.Min.Y+12
	drawText(screen, "Inspector", x, y)
	n, ok := g.editor.Selected()
	if !ok {
		drawText(screen, "Select a node", x, y+28)
		return
	}
	drawText(screen, "Label", x, y+28)
	g.inspector.Draw(screen)
	drawText(screen, "Type: "+utils.Capitalize(string(n.Kind)), x, y+80)
	drawText(screen, "ID: "+clip(string(n.ID), (inspectorWidth-40)/debugCharW), x, y+100)
}

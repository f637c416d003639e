package ui

import (
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/core/editor"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
	game_log "github.com/ingyamilmolinar/flowcanvas/internal/log"
)

var testLogger = game_log.Discard()

// fakeInput is the mouse and keyboard state seen by the next frame.
type fakeInput struct {
	x, y   int
	left   bool
	keys   map[ebiten.Key]bool
	chars  []rune
	wheelY float64
}

func installInput(t *testing.T) *fakeInput {
	t.Helper()
	in := &fakeInput{keys: map[ebiten.Key]bool{}}
	restore := SetInputForTest(
		func() (int, int) { return in.x, in.y },
		func(b ebiten.MouseButton) bool { return b == ebiten.MouseButtonLeft && in.left },
		func(k ebiten.Key) bool { return in.keys[k] },
		func() []rune {
			c := in.chars
			in.chars = nil
			return c
		},
		func() (float64, float64) { return 0, in.wheelY },
	)
	t.Cleanup(restore)
	return in
}

func newTestGame(t *testing.T, cfg Config) (*Game, *fakeInput) {
	t.Helper()
	in := installInput(t)
	cfg.Editor = append([]editor.Option{
		editor.WithIDSource(&model.SequenceSource{Prefix: "n"}),
		editor.WithJitter(func() float64 { return 0 }),
	}, cfg.Editor...)
	return New(testLogger, cfg), in
}

func update(t *testing.T, g *Game) {
	t.Helper()
	if err := g.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
}

// click presses at (x,y) and releases on the next frame.
func click(t *testing.T, g *Game, in *fakeInput, x, y int) {
	t.Helper()
	in.x, in.y, in.left = x, y, true
	update(t, g)
	in.left = false
	update(t, g)
}

// drag presses at from, moves to to and releases there.
func drag(t *testing.T, g *Game, in *fakeInput, fx, fy, tx, ty int) {
	t.Helper()
	in.x, in.y, in.left = fx, fy, true
	update(t, g)
	in.x, in.y = tx, ty
	update(t, g)
	in.left = false
	update(t, g)
}

// tap holds key for one frame.
func tap(t *testing.T, g *Game, in *fakeInput, keys ...ebiten.Key) {
	t.Helper()
	for _, k := range keys {
		in.keys[k] = true
	}
	update(t, g)
	for _, k := range keys {
		delete(in.keys, k)
	}
	update(t, g)
}

func clickButton(t *testing.T, g *Game, in *fakeInput, b *Button) {
	t.Helper()
	c := b.Rect().Min.Add(b.Rect().Size().Div(2))
	click(t, g, in, c.X, c.Y)
}

func tempStore(t *testing.T) *document.FileStore {
	t.Helper()
	return &document.FileStore{Path: filepath.Join(t.TempDir(), "flow.json")}
}

package ui

import "github.com/hajimehoshi/ebiten/v2"

// inputFuncs is every ebiten poll the host makes. Tests swap the set
// wholesale through SetInputForTest.
type inputFuncs struct {
	cursor func() (int, int)
	mouse  func(ebiten.MouseButton) bool
	key    func(ebiten.Key) bool
	chars  func() []rune
	wheel  func() (float64, float64)
}

var input = inputFuncs{
	cursor: ebiten.CursorPosition,
	mouse:  ebiten.IsMouseButtonPressed,
	key:    ebiten.IsKeyPressed,
	chars:  func() []rune { return ebiten.AppendInputChars(nil) },
	wheel:  ebiten.Wheel,
}

// SetInputForTest installs fake input sources and returns a function that
// puts the previous ones back.
func SetInputForTest(
	cursor func() (int, int),
	mouse func(ebiten.MouseButton) bool,
	key func(ebiten.Key) bool,
	chars func() []rune,
	wh func() (float64, float64),
) func() {
	saved := input
	input = inputFuncs{cursor: cursor, mouse: mouse, key: key, chars: chars, wheel: wh}
	return func() { input = saved }
}

// keyEdges turns level-triggered key state into presses, one per frame the
// key goes down.
type keyEdges map[ebiten.Key]bool

func (k keyEdges) pressed(key ebiten.Key) bool {
	down := input.key(key)
	was := k[key]
	k[key] = down
	return down && !was
}

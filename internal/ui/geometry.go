package ui

import "image"

// pt is a helper function to check if a point is within a rectangle.
func pt(x, y int, r image.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

// panelRects splits a window into toolbar, palette, canvas and inspector.
func panelRects(w, h int) (toolbar, palette, canvas, inspector image.Rectangle) {
	toolbar = image.Rect(0, 0, w, toolbarHeight)
	palette = image.Rect(0, toolbarHeight, paletteWidth, h)
	inspector = image.Rect(max(w-inspectorWidth, paletteWidth), toolbarHeight, w, h)
	canvas = image.Rect(paletteWidth, toolbarHeight, inspector.Min.X, h)
	return
}

package ui

import (
	"image/color"

	"github.com/ingyamilmolinar/flowcanvas/core/model"
	"github.com/ingyamilmolinar/flowcanvas/internal/export"
)

var (
	colWindow   = color.RGBA{15, 23, 42, 255}
	colPanel    = color.RGBA{30, 41, 59, 255}
	colPanelSep = color.RGBA{51, 65, 85, 255}
	colCanvas   = color.RGBA{241, 245, 249, 255}
	colGridDot  = color.RGBA{203, 213, 225, 255}

	colButton       = color.RGBA{51, 65, 85, 255}
	colButtonHover  = color.RGBA{71, 85, 105, 255}
	colButtonBorder = color.RGBA{100, 116, 139, 255}
	colToolActive   = color.RGBA{37, 99, 235, 255}
	colDanger       = color.RGBA{220, 38, 38, 255}

	colNodeBody   = color.RGBA{30, 41, 59, 255} // debug text is always white
	colNodeBorder = color.RGBA{100, 116, 139, 255}
	colSelected   = color.RGBA{37, 99, 235, 255}
	colNodeLabel  = color.RGBA{255, 255, 255, 255}
	colEdge       = color.RGBA{148, 163, 184, 255}
	colLinkDrag   = color.RGBA{37, 99, 235, 255}

	colInputFill   = color.RGBA{15, 23, 42, 255}
	colInputBorder = color.RGBA{100, 116, 139, 255}
	colInputFocus  = color.RGBA{59, 130, 246, 255}
)

// kindColor shares the header palette with the image exporter so exported
// flows look like the canvas.
func kindColor(k model.NodeKind) color.RGBA { return export.KindColor(k) }

var (
	DefaultButtonStyle = ButtonStyle{Fill: colButton, Hover: colButtonHover, Border: colButtonBorder}
	ActiveToolStyle    = ButtonStyle{Fill: colToolActive, Hover: colToolActive, Border: colButtonBorder}
	DangerButtonStyle  = ButtonStyle{Fill: colDanger, Hover: colDanger, Border: colButtonBorder}
	InspectorBoxStyle  = TextInputStyle{Fill: colInputFill, Border: colInputBorder, Focus: colInputFocus}
)

func paletteStyle(k model.NodeKind) ButtonStyle {
	c := kindColor(k)
	return ButtonStyle{Fill: c, Hover: c, Border: colButtonBorder}
}

var (
	defaultNodeStyle = NodeStyle{
		Body:     colNodeBody,
		Border:   colNodeBorder,
		Selected: colSelected,
		Handle:   colEdge,
	}
	defaultEdgeStyle = EdgeStyle{Color: colEdge, Thickness: 2, ArrowSize: 10, Segments: 24}
	linkEdgeStyle    = EdgeStyle{Color: colLinkDrag, Thickness: 2, ArrowSize: 10, Segments: 24}
)

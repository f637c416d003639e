package export

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/core/edgepath"
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// PNG rasterises doc with the same layout as SVG.
func PNG(w io.Writer, doc document.Document, opts Options) error {
	l := buildLayout(doc, opts)
	labelFace, err := loadFace(gobold.TTF, opts.FontSize)
	if err != nil {
		return err
	}
	descFace, err := loadFace(goregular.TTF, math.Max(opts.FontSize-2, 1))
	if err != nil {
		return err
	}

	dc := gg.NewContext(l.width, l.height)
	dc.SetColor(opts.Background)
	dc.Clear()

	for _, r := range l.routes {
		drawRoutePNG(dc, l.path(r.Path))
	}
	for _, n := range l.nodes {
		p := l.at(n.Position)
		dc.SetColor(colorBody)
		dc.DrawRoundedRectangle(p.X, p.Y, edgepath.NodeWidth, edgepath.NodeHeight, 8)
		dc.Fill()

		// header: rounded rect clipped to the top band
		dc.Push()
		dc.DrawRectangle(p.X, p.Y, edgepath.NodeWidth, edgepath.AnchorOffsetY)
		dc.Clip()
		dc.SetColor(KindColor(n.Kind))
		dc.DrawRoundedRectangle(p.X, p.Y, edgepath.NodeWidth, edgepath.NodeHeight, 8)
		dc.Fill()
		dc.Pop()

		dc.SetColor(colorStroke)
		dc.SetLineWidth(1.2)
		dc.DrawRoundedRectangle(p.X, p.Y, edgepath.NodeWidth, edgepath.NodeHeight, 8)
		dc.Stroke()

		dc.SetFontFace(labelFace)
		dc.SetColor(colorHeader)
		dc.DrawStringAnchored(truncate(n.Label, 28), p.X+12, p.Y+edgepath.AnchorOffsetY/2, 0, 0.5)
		dc.SetFontFace(descFace)
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(truncate(n.Kind.Description(), 34), p.X+12, p.Y+edgepath.AnchorOffsetY+24, 0, 0.5)

		if n.Kind.HasInput() {
			drawHandlePNG(dc, l.at(edgepath.InputHandle(n.Position)))
		}
		if n.Kind.HasOutput() {
			drawHandlePNG(dc, l.at(edgepath.OutputHandle(n.Position)))
		}
	}
	return dc.EncodePNG(w)
}

func drawRoutePNG(dc *gg.Context, b edgepath.Bezier) {
	dc.SetColor(colorEdge)
	dc.SetLineWidth(2)
	dc.MoveTo(b.Start.X, b.Start.Y)
	dc.CubicTo(b.C1.X, b.C1.Y, b.C2.X, b.C2.Y, b.End.X, b.End.Y)
	dc.Stroke()
	drawArrowPNG(dc, b.End, b.Tangent())
}

func drawArrowPNG(dc *gg.Context, tip, dir geom.Point) {
	length := math.Hypot(dir.X, dir.Y)
	if length == 0 {
		return
	}
	ux, uy := dir.X/length, dir.Y/length
	const size = 10
	bx, by := tip.X-ux*size, tip.Y-uy*size
	dc.SetColor(colorEdge)
	dc.NewSubPath()
	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(bx-uy*size/2, by+ux*size/2)
	dc.LineTo(bx+uy*size/2, by-ux*size/2)
	dc.ClosePath()
	dc.Fill()
}

func drawHandlePNG(dc *gg.Context, p geom.Point) {
	dc.DrawCircle(p.X, p.Y, 6)
	dc.SetColor(colorBody)
	dc.FillPreserve()
	dc.SetColor(colorEdge)
	dc.SetLineWidth(2)
	dc.Stroke()
}

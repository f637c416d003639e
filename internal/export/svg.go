package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ajstarks/svgo"
	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/core/edgepath"
)

const arrowMarker = "arrow"

// SVG writes doc as a standalone SVG document. Edges use the same bezier
// path strings the interactive canvas draws.
func SVG(w io.Writer, doc document.Document, opts Options) error {
	l := buildLayout(doc, opts)
	// svgo drops write errors; bufio keeps the first one for Flush
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(l.width, l.height)
	canvas.Def()
	canvas.Marker(arrowMarker, 10, 5, 10, 10, `orient="auto"`, `markerUnits="userSpaceOnUse"`)
	canvas.Path("M 0 0 L 10 5 L 0 10 z", fmt.Sprintf("fill:%s", css(colorEdge)))
	canvas.MarkerEnd()
	canvas.DefEnd()
	canvas.Rect(0, 0, l.width, l.height, fmt.Sprintf("fill:%s", css(opts.Background)))

	for _, r := range l.routes {
		canvas.Path(l.path(r.Path).SVGPath(),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(colorEdge)),
			fmt.Sprintf(`marker-end="url(#%s)"`, arrowMarker),
			fmt.Sprintf(`id="%s"`, r.ID))
	}

	labelSize := int(opts.FontSize)
	descSize := max(int(opts.FontSize)-2, 1)
	for _, n := range l.nodes {
		p := l.at(n.Position)
		x, y := int(p.X), int(p.Y)
		canvas.Roundrect(x, y, edgepath.NodeWidth, edgepath.NodeHeight, 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(colorBody), css(colorStroke)))
		canvas.Path(headerPath(x, y), fmt.Sprintf("fill:%s", css(KindColor(n.Kind))))
		canvas.Text(x+12, y+edgepath.AnchorOffsetY/2+labelSize/3, truncate(n.Label, 28),
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;font-weight:bold", css(colorHeader), labelSize))
		canvas.Text(x+12, y+edgepath.AnchorOffsetY+28, truncate(n.Kind.Description(), 34),
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif", css(colorSubtle), descSize))

		handle := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", css(colorBody), css(colorEdge))
		if n.Kind.HasInput() {
			h := l.at(edgepath.InputHandle(n.Position))
			canvas.Circle(int(h.X), int(h.Y), 6, handle)
		}
		if n.Kind.HasOutput() {
			h := l.at(edgepath.OutputHandle(n.Position))
			canvas.Circle(int(h.X), int(h.Y), 6, handle)
		}
	}

	canvas.End()
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// headerPath is the header band: rounded top corners, square bottom.
func headerPath(x, y int) string {
	const r = 8
	w, h := edgepath.NodeWidth, edgepath.AnchorOffsetY
	return fmt.Sprintf("M %d %d Q %d %d %d %d L %d %d Q %d %d %d %d L %d %d L %d %d Z",
		x, y+r, x, y, x+r, y,
		x+w-r, y, x+w, y, x+w, y+r,
		x+w, y+h, x, y+h)
}

// Package export renders a flow document as a static SVG or PNG image.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/core/edgepath"
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
)

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

type Options struct {
	Padding    float64
	FontSize   float64
	Background color.RGBA
}

func DefaultOptions() Options {
	return Options{Padding: 40, FontSize: 14, Background: colorBackdrop}
}

var (
	colorBackdrop = color.RGBA{0xf8, 0xfa, 0xfc, 0xff}
	colorBody     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorStroke   = color.RGBA{0xcb, 0xd5, 0xe1, 0xff}
	colorEdge     = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
	colorText     = color.RGBA{0x1e, 0x29, 0x3b, 0xff}
	colorSubtle   = color.RGBA{0x64, 0x74, 0x8b, 0xff}
	colorHeader   = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// KindColor is the header colour for a node kind.
func KindColor(k model.NodeKind) color.RGBA {
	switch k {
	case model.KindTrigger:
		return color.RGBA{0x22, 0xc5, 0x5e, 0xff}
	case model.KindMessage:
		return color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	case model.KindCondition:
		return color.RGBA{0xf5, 0x9e, 0x0b, 0xff}
	case model.KindAction:
		return color.RGBA{0xa8, 0x55, 0xf7, 0xff}
	}
	return colorSubtle
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want .svg or .png)", filepath.Ext(path))
}

// WriteFile renders doc to path in the format given by its extension.
func WriteFile(path string, doc document.Document, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, format, doc, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func Write(w io.Writer, format Format, doc document.Document, opts Options) error {
	switch format {
	case FormatSVG:
		return SVG(w, doc, opts)
	case FormatPNG:
		return PNG(w, doc, opts)
	}
	return fmt.Errorf("unhandled format %q", format)
}

// ParseHexColor reads a #rrggbb colour.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("colour %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// layout is the document translated so the padded world bounds start at 0,0.
type layout struct {
	width, height int
	offset        geom.Point
	nodes         []model.Node
	routes        []edgepath.Route
}

func buildLayout(doc document.Document, opts Options) layout {
	l := layout{nodes: doc.Nodes, routes: edgepath.Routes(doc.Nodes, doc.Connections)}
	if len(doc.Nodes) == 0 {
		side := int(math.Ceil(2 * opts.Padding))
		l.width, l.height = max(side, 1), max(side, 1)
		return l
	}
	bounds := edgepath.Footprint(doc.Nodes[0].Position)
	for _, n := range doc.Nodes[1:] {
		bounds = bounds.Union(edgepath.Footprint(n.Position))
	}
	// curves bulge past the node boxes when edges run backwards
	for _, r := range l.routes {
		for _, p := range []geom.Point{r.Path.C1, r.Path.C2} {
			bounds = bounds.Union(geom.Rect{Min: p})
		}
	}
	l.offset = geom.Pt(opts.Padding-bounds.Min.X, opts.Padding-bounds.Min.Y)
	l.width = int(math.Ceil(bounds.Size.X + 2*opts.Padding))
	l.height = int(math.Ceil(bounds.Size.Y + 2*opts.Padding))
	return l
}

func (l layout) at(p geom.Point) geom.Point { return p.Add(l.offset) }

func (l layout) path(b edgepath.Bezier) edgepath.Bezier {
	return edgepath.Bezier{Start: l.at(b.Start), C1: l.at(b.C1), C2: l.at(b.C2), End: l.at(b.End)}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

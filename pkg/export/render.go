package export

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

func renderSVG(w io.Writer, sc scene) error {
	canvas := svg.New(w)
	canvas.Start(sc.Width, sc.Height)
	for _, e := range sc.Elements {
		switch e.Kind {
		case elemRect:
			canvas.Rect(int(e.X), int(e.Y), int(e.W), int(e.H), svgStyle(e))
		case elemLine:
			canvas.Line(int(e.X), int(e.Y), int(e.X2), int(e.Y2),
				fmt.Sprintf("stroke:%s;stroke-width:%.1f", css(e.Stroke), e.Width))
		case elemDiamond:
			r := e.W / 2
			canvas.Polygon(
				[]int{int(e.X), int(e.X + r), int(e.X), int(e.X - r)},
				[]int{int(e.Y - r), int(e.Y), int(e.Y + r), int(e.Y)},
				svgStyle(e),
			)
		case elemText:
			style := fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:monospace;dominant-baseline:middle", css(e.Fill), e.Size)
			if e.Bold {
				style += ";font-weight:bold"
			}
			switch e.Anchor {
			case anchorMiddle:
				style += ";text-anchor:middle"
			case anchorEnd:
				style += ";text-anchor:end"
			}
			canvas.Text(int(e.X), int(e.Y), e.Text, style)
		}
	}
	canvas.End()
	return nil
}

func svgStyle(e element) string {
	s := "fill:" + css(e.Fill)
	if e.Width > 0 {
		s += fmt.Sprintf(";stroke:%s;stroke-width:%.1f", css(e.Stroke), e.Width)
	}
	return s
}

func renderPNG(path string, sc scene) error {
	dc := gg.NewContext(max(sc.Width, 1), max(sc.Height, 1))
	dc.SetFontFace(basicfont.Face7x13)
	for _, e := range sc.Elements {
		switch e.Kind {
		case elemRect:
			dc.DrawRectangle(e.X, e.Y, e.W, e.H)
			fillAndStroke(dc, e)
		case elemLine:
			dc.SetColor(e.Stroke)
			dc.SetLineWidth(e.Width)
			dc.DrawLine(e.X, e.Y, e.X2, e.Y2)
			dc.Stroke()
		case elemDiamond:
			r := e.W / 2
			dc.NewSubPath()
			dc.MoveTo(e.X, e.Y-r)
			dc.LineTo(e.X+r, e.Y)
			dc.LineTo(e.X, e.Y+r)
			dc.LineTo(e.X-r, e.Y)
			dc.ClosePath()
			fillAndStroke(dc, e)
		case elemText:
			ax := 0.0
			switch e.Anchor {
			case anchorMiddle:
				ax = 0.5
			case anchorEnd:
				ax = 1
			}
			dc.SetColor(e.Fill)
			dc.DrawStringAnchored(e.Text, e.X, e.Y, ax, 0.5)
		}
	}
	return dc.SavePNG(path)
}

func fillAndStroke(dc *gg.Context, e element) {
	dc.SetColor(e.Fill)
	if e.Width > 0 {
		dc.FillPreserve()
		dc.SetColor(e.Stroke)
		dc.SetLineWidth(e.Width)
		dc.Stroke()
		return
	}
	dc.Fill()
}

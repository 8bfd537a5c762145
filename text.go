// File: text.go
package captcha

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

var shadowColor = color.NRGBA{0, 0, 0, 51} // rgba(0,0,0,0.2)

// GlyphAnchors returns the undistorted centre of every glyph: a baseline
// through the middle of the surface, spaced min(fontSize*0.8, (width-40)/n).
func GlyphAnchors(text string, cfg RenderConfig) []gg.Point {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	spacing := math.Min(cfg.FontSize*0.8, float64(cfg.Width-40)/float64(n))
	cx, cy := float64(cfg.Width)/2, float64(cfg.Height)/2

	pts := make([]gg.Point, n)
	for i := range runes {
		pts[i] = gg.Point{X: cx + (float64(i)-float64(n)/2)*spacing, Y: cy}
	}
	return pts
}

// DrawText draws each glyph with its own jitter, rotation and scale, all
// about the glyph's anchor, shadow first.
func DrawText(dc *gg.Context, text string, cfg RenderConfig, rnd Random, face font.Face) {
	dc.SetFontFace(face)
	level := float64(cfg.DistortionLevel)

	runes := []rune(text)
	for i, p := range GlyphAnchors(text, cfg) {
		s := string(runes[i])
		y := p.Y + spread(rnd, level*2)
		rot := spread(rnd, level/30)
		sx := 1 + spread(rnd, level/50)
		sy := 1 + spread(rnd, level/50)

		dc.Push()
		dc.Translate(p.X, y)
		dc.Rotate(rot)
		dc.Scale(sx, sy)

		dc.SetColor(shadowColor)
		dc.DrawStringAnchored(s, 1, 1, 0.5, 0.5)
		dc.SetColor(randomColor(rnd, 1))
		dc.DrawStringAnchored(s, 0, 0, 0.5, 0.5)

		dc.Pop()
	}
}

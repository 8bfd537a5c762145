// File: noise.go
package captcha

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	underTextOpacity = 0.1
	overTextOpacity  = 0.05
)

// palette is shared by noise and glyphs.
var palette = []color.NRGBA{
	{0x2c, 0x3e, 0x50, 0xff},
	{0x34, 0x49, 0x5e, 0xff},
	{0x7f, 0x8c, 0x8d, 0xff},
	{0x34, 0x98, 0xdb, 0xff},
	{0x27, 0xae, 0x60, 0xff},
	{0xe6, 0x7e, 0x22, 0xff},
	{0x8e, 0x44, 0xad, 0xff},
}

func randomColor(rnd Random, alpha float64) color.NRGBA {
	c := palette[rnd.Intn(len(palette))]
	c.A = uint8(math.Round(alpha * 255))
	return c
}

// DrawBackground fills the surface with a light diagonal gradient.
func DrawBackground(dc *gg.Context, cfg RenderConfig) {
	w, h := float64(cfg.Width), float64(cfg.Height)
	grad := gg.NewLinearGradient(0, 0, w, h)
	grad.AddColorStop(0, color.RGBA{0xf9, 0xf9, 0xf9, 0xff})
	grad.AddColorStop(0.5, color.RGBA{0xff, 0xff, 0xff, 0xff})
	grad.AddColorStop(1, color.RGBA{0xe9, 0xe9, 0xe9, 0xff})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

// AddNoise scatters noiseLevel*20 speckles and ceil(noiseLevel/2) curved
// strokes at the given opacity.
func AddNoise(dc *gg.Context, cfg RenderConfig, rnd Random, opacity float64) {
	w, h := float64(cfg.Width), float64(cfg.Height)

	for i := 0; i < cfg.NoiseLevel*20; i++ {
		dc.SetColor(randomColor(rnd, opacity))
		x, y := rnd.Float64()*w, rnd.Float64()*h
		r := rnd.Float64()*2 + 1
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}

	strokes := int(math.Ceil(float64(cfg.NoiseLevel) / 2))
	for i := 0; i < strokes; i++ {
		dc.SetColor(randomColor(rnd, opacity))
		dc.SetLineWidth(rnd.Float64()*2 + 1)
		dc.MoveTo(rnd.Float64()*w, rnd.Float64()*h)
		dc.QuadraticTo(rnd.Float64()*w, rnd.Float64()*h, rnd.Float64()*w, rnd.Float64()*h)
		dc.Stroke()
	}
}

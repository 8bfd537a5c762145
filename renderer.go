// File: renderer.go
package captcha

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// Surface is the host's drawing target. Context reports false until the
// host has mounted it.
type Surface interface {
	Context() (*gg.Context, bool)
}

// ImageSurface is an in-memory surface that is always ready.
type ImageSurface struct {
	dc *gg.Context
}

// NewImageSurface allocates a width×height RGBA surface.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{dc: gg.NewContext(width, height)}
}

func (s *ImageSurface) Context() (*gg.Context, bool) { return s.dc, true }

// Image returns the backing image.
func (s *ImageSurface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the surface as PNG.
func (s *ImageSurface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// DataURL returns the surface as a base64 PNG data URL.
func (s *ImageSurface) DataURL() (string, error) {
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Renderer composites background, noise and distorted text.
type Renderer struct {
	rnd   Random
	log   *zap.Logger
	fonts *fontCache
}

// NewRenderer builds a renderer. A nil logger discards output.
func NewRenderer(rnd Random, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{rnd: rnd, log: log, fonts: newFontCache(log)}
}

// Render draws ch onto s. It returns false, without drawing, when the
// surface is not mounted yet; the caller is expected to retry.
// The mounted surface's size overrides cfg.Width and cfg.Height.
func (r *Renderer) Render(s Surface, ch Challenge, cfg RenderConfig) bool {
	if s == nil {
		return false
	}
	dc, ok := s.Context()
	if !ok || dc == nil {
		return false
	}
	if w, h := dc.Width(), dc.Height(); w > 0 && h > 0 {
		cfg.Width, cfg.Height = w, h
	}

	dc.Push()
	defer dc.Pop()
	dc.Identity()
	dc.ResetClip()

	// 清空画布
	dc.SetColor(color.Transparent)
	dc.Clear()

	DrawBackground(dc, cfg)
	AddNoise(dc, cfg, r.rnd, underTextOpacity)
	DrawText(dc, ch.DisplayText, cfg, r.rnd, r.fonts.Face(cfg.FontFamily, cfg.FontSize))
	AddNoise(dc, cfg, r.rnd, overTextOpacity)

	r.log.Debug("rendered challenge",
		zap.String("challenge_id", ch.ID),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height))
	return true
}

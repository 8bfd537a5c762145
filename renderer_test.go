package captcha

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type unmountedSurface struct{ calls int }

func (s *unmountedSurface) Context() (*gg.Context, bool) {
	s.calls++
	return nil, false
}

func testRenderConfig() RenderConfig {
	return DefaultConfig().RenderConfig()
}

func TestRenderDrawsOnImageSurface(t *testing.T) {
	cfg := testRenderConfig()
	s := NewImageSurface(cfg.Width, cfg.Height)
	r := NewRenderer(NewRandom(7), nil)

	ok := r.Render(s, Challenge{Kind: KindAlphanumeric, DisplayText: "K4N9QX", Answer: "K4N9QX"}, cfg)
	require.True(t, ok)

	img := s.Image()
	assert.Equal(t, cfg.Width, img.Bounds().Dx())
	assert.Equal(t, cfg.Height, img.Bounds().Dy())
	// the gradient leaves no transparent pixel behind
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	_, _, _, a = img.At(cfg.Width-1, cfg.Height-1).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestRenderDrawsGlyphs(t *testing.T) {
	cfg := testRenderConfig()
	cfg.NoiseLevel = 1
	ch := Challenge{Kind: KindMath, DisplayText: "9 - 3 = ?", Answer: "6"}

	withText := NewImageSurface(cfg.Width, cfg.Height)
	require.True(t, NewRenderer(NewRandom(5), nil).Render(withText, ch, cfg))
	blank := NewImageSurface(cfg.Width, cfg.Height)
	require.True(t, NewRenderer(NewRandom(5), nil).Render(blank, Challenge{}, cfg))

	// count dark pixels around the glyph baseline
	dark := func(s *ImageSurface) int {
		n := 0
		img := s.Image()
		for x := 0; x < cfg.Width; x++ {
			for y := cfg.Height/2 - 10; y < cfg.Height/2+10; y++ {
				r, g, b, _ := img.At(x, y).RGBA()
				if (r+g+b)/3 < 0xa000 {
					n++
				}
			}
		}
		return n
	}
	assert.Greater(t, dark(withText), dark(blank)+50)
}

func TestRenderSurfaceNotReady(t *testing.T) {
	r := NewRenderer(NewRandom(1), nil)
	s := &unmountedSurface{}
	assert.False(t, r.Render(s, Challenge{DisplayText: "AB", Answer: "AB"}, testRenderConfig()))
	assert.Equal(t, 1, s.calls)
	assert.False(t, r.Render(nil, Challenge{DisplayText: "AB", Answer: "AB"}, testRenderConfig()))
}

// countingRandom tallies draws made through it.
type countingRandom struct {
	Random
	ints, floats int
}

func (c *countingRandom) Intn(n int) int {
	c.ints++
	return c.Random.Intn(n)
}

func (c *countingRandom) Float64() float64 {
	c.floats++
	return c.Random.Float64()
}

func TestAddNoiseDrawCounts(t *testing.T) {
	tests := []struct {
		level        int
		ints, floats int
	}{
		// speckle: colour + x, y, radius; stroke: colour + width and 3 points
		{level: 1, ints: 20 + 1, floats: 60 + 7},
		{level: 3, ints: 60 + 2, floats: 180 + 14},
		{level: 4, ints: 80 + 2, floats: 240 + 14},
		{level: 10, ints: 200 + 5, floats: 600 + 35},
	}
	for _, tt := range tests {
		cfg := testRenderConfig()
		cfg.NoiseLevel = tt.level
		rnd := &countingRandom{Random: NewRandom(3)}

		AddNoise(gg.NewContext(cfg.Width, cfg.Height), cfg, rnd, underTextOpacity)
		assert.Equal(t, tt.ints, rnd.ints, "level %d", tt.level)
		assert.Equal(t, tt.floats, rnd.floats, "level %d", tt.level)
	}
}

func TestDrawTextDrawCounts(t *testing.T) {
	face := newFontCache(zap.NewNop()).Face(DefaultFontFamily, DefaultFontSize)
	for _, level := range []int{1, 5, 10} {
		for _, text := range []string{"K", "K4N9QX", "9 - 3 = ?"} {
			cfg := testRenderConfig()
			cfg.DistortionLevel = level
			rnd := &countingRandom{Random: NewRandom(4)}

			DrawText(gg.NewContext(cfg.Width, cfg.Height), text, cfg, rnd, face)
			n := len([]rune(text))
			// per glyph: jitter, rotation, x-scale, y-scale and a colour
			assert.Equal(t, n, rnd.ints, "%q at level %d", text, level)
			assert.Equal(t, 4*n, rnd.floats, "%q at level %d", text, level)
		}
	}
}

func TestRenderDrawCounts(t *testing.T) {
	cfg := testRenderConfig()
	cfg.NoiseLevel = 3
	ch := Challenge{Kind: KindAlphanumeric, DisplayText: "ABCDEF", Answer: "ABCDEF"}
	rnd := &countingRandom{Random: NewRandom(11)}
	r := NewRenderer(rnd, nil)

	require.True(t, r.Render(NewImageSurface(cfg.Width, cfg.Height), ch, cfg))
	// two noise passes around six glyphs
	assert.Equal(t, 2*62+6, rnd.ints)
	assert.Equal(t, 2*194+4*6, rnd.floats)

	ints, floats := rnd.ints, rnd.floats
	require.True(t, r.Render(NewImageSurface(cfg.Width, cfg.Height), ch, cfg))
	assert.Equal(t, 2*ints, rnd.ints)
	assert.Equal(t, 2*floats, rnd.floats)
}

func TestNoiseOpacity(t *testing.T) {
	rnd := &scriptedRandom{}
	assert.Equal(t, uint8(26), randomColor(rnd, underTextOpacity).A)
	assert.Equal(t, uint8(13), randomColor(rnd, overTextOpacity).A)
	assert.Equal(t, uint8(255), randomColor(rnd, 1).A)
}

func TestRenderPlacesGlyphsAtAnchors(t *testing.T) {
	cfg := testRenderConfig()
	cfg.NoiseLevel = 0
	ch := Challenge{Kind: KindAlphanumeric, DisplayText: "II", Answer: "II"}
	s := NewImageSurface(cfg.Width, cfg.Height)

	// mid-range floats cancel every distortion
	require.True(t, NewRenderer(&scriptedRandom{floats: []float64{0.5}}, nil).Render(s, ch, cfg))

	anchors := GlyphAnchors(ch.DisplayText, cfg)
	split := int((anchors[0].X + anchors[1].X) / 2)
	inkCentre := func(x0, x1 int) (cx, cy float64) {
		var n float64
		img := s.Image()
		for x := x0; x < x1; x++ {
			for y := 0; y < cfg.Height; y++ {
				r, g, b, _ := img.At(x, y).RGBA()
				if (r+g+b)/3 < 0x8000 {
					cx += float64(x) + 0.5
					cy += float64(y) + 0.5
					n++
				}
			}
		}
		require.NotZero(t, n)
		return cx / n, cy / n
	}

	lx, ly := inkCentre(0, split)
	rx, ry := inkCentre(split, cfg.Width)
	assert.InDelta(t, anchors[0].X, lx, 2)
	assert.InDelta(t, anchors[1].X, rx, 2)
	assert.InDelta(t, anchors[1].X-anchors[0].X, rx-lx, 1)
	assert.InDelta(t, ly, ry, 0.5)
	assert.InDelta(t, anchors[0].Y, ly, 10)
}

func TestRenderUsesSurfaceSize(t *testing.T) {
	ch := Challenge{Kind: KindAlphanumeric, DisplayText: "K4N9QX", Answer: "K4N9QX"}
	sized := testRenderConfig()
	sized.Width, sized.Height = MinCanvasWidth, MinCanvasHeight

	want := NewImageSurface(MinCanvasWidth, MinCanvasHeight)
	require.True(t, NewRenderer(NewRandom(9), nil).Render(want, ch, sized))
	got := NewImageSurface(MinCanvasWidth, MinCanvasHeight)
	require.True(t, NewRenderer(NewRandom(9), nil).Render(got, ch, testRenderConfig()))

	assert.Equal(t, want.Image().(*image.RGBA).Pix, got.Image().(*image.RGBA).Pix)
}

func TestGlyphAnchors(t *testing.T) {
	cfg := testRenderConfig() // 300x80, font 24

	pts := GlyphAnchors("ABCDEF", cfg)
	require.Len(t, pts, 6)
	// spacing = min(24*0.8, 260/6) = 19.2
	for i, p := range pts {
		assert.InDelta(t, 150+(float64(i)-3)*19.2, p.X, 1e-9)
		assert.Equal(t, 40.0, p.Y)
	}

	cfg.FontSize = 96
	cfg.Width = 200
	pts = GlyphAnchors("ABCDEFGHIJ", cfg)
	// spacing = min(76.8, 160/10) = 16
	assert.InDelta(t, 16, pts[1].X-pts[0].X, 1e-9)

	assert.Nil(t, GlyphAnchors("", cfg))
}

func TestDataURL(t *testing.T) {
	cfg := testRenderConfig()
	s := NewImageSurface(cfg.Width, cfg.Height)
	require.True(t, NewRenderer(NewRandom(2), nil).Render(s, Challenge{DisplayText: "7 + 3 = ?", Answer: "10"}, cfg))

	url, err := s.DataURL()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg.Width, img.Bounds().Dx())
}

func TestFontFamilies(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fonts := newFontCache(zap.New(core))

	assert.NotNil(t, fonts.Face("Arial, gomono", 24))
	assert.NotNil(t, fonts.Face("GoBold", 24))
	assert.Equal(t, 0, logs.Len())

	assert.NotNil(t, fonts.Face("Comic Sans, /nonexistent/font.ttf", 24))
	assert.Equal(t, 1, logs.Len())
}

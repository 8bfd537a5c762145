// File: fonts.go
package captcha

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体，按名字查找
var builtinFonts = map[string][]byte{
	"go":         goregular.TTF,
	"goregular":  goregular.TTF,
	"sans-serif": goregular.TTF,
	"gobold":     gobold.TTF,
	"gomono":     gomono.TTF,
	"monospace":  gomono.TTF,
	"gomonobold": gomonobold.TTF,
}

// fontCache parses each family once. Faces are created per size because
// truetype faces carry a glyph cache and are not safe for concurrent use.
type fontCache struct {
	mu    sync.Mutex
	fonts map[string]*truetype.Font
	log   *zap.Logger
}

func newFontCache(log *zap.Logger) *fontCache {
	return &fontCache{fonts: make(map[string]*truetype.Font), log: log}
}

// Face resolves a CSS-like family list ("Arial, gomono") to a face. Each
// entry is tried as a builtin name, then as a .ttf path. When nothing
// resolves the default family is used.
func (c *fontCache) Face(family string, size float64) font.Face {
	for _, name := range strings.Split(family, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, err := c.load(name)
		if err == nil {
			return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
		}
		c.log.Debug("font family not usable", zap.String("family", name), zap.Error(err))
	}
	c.log.Warn("no usable font family, falling back", zap.String("family", family), zap.String("fallback", DefaultFontFamily))
	f, _ := c.load(DefaultFontFamily)
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

func (c *fontCache) load(name string) (*truetype.Font, error) {
	key := strings.ToLower(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.fonts[key]; ok {
		return f, nil
	}

	data, ok := builtinFonts[key]
	if !ok {
		if !strings.HasSuffix(key, ".ttf") {
			return nil, fmt.Errorf("unknown font family %q", name)
		}
		var err error
		data, err = os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	c.fonts[key] = f
	return f, nil
}

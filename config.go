// File: config.go
package captcha

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDistortionLevel   = 5
	DefaultNoiseLevel        = 3
	DefaultCanvasWidth       = 300
	DefaultCanvasHeight      = 80
	MinCanvasWidth           = 200
	MinCanvasHeight          = 60
	DefaultFontSize          = 24
	DefaultFontFamily        = "gobold"
	DefaultBlankMessage      = "Please enter the captcha answer"
	DefaultRetryDelay        = 100 * time.Millisecond
	DefaultMaxRenderAttempts = 50

	minFontSize = 8
	maxFontSize = 96
)

// Config is the engine's construction-time configuration. Treat it as a
// value: the With* helpers return modified copies.
type Config struct {
	Type          Kind   `yaml:"type" env:"TYPE"`
	Length        int    `yaml:"length" env:"LENGTH"`
	ExcludeChars  string `yaml:"exclude_chars" env:"EXCLUDE_CHARS"`
	CaseSensitive bool   `yaml:"case_sensitive" env:"CASE_SENSITIVE"`
	AllowBlank    bool   `yaml:"allow_blank" env:"ALLOW_BLANK"`
	BlankMessage  string `yaml:"blank_message" env:"BLANK_MESSAGE"`
	EnableAudio   bool   `yaml:"enable_audio" env:"ENABLE_AUDIO"`

	DistortionLevel int `yaml:"distortion_level" env:"DISTORTION_LEVEL"`
	NoiseLevel      int `yaml:"noise_level" env:"NOISE_LEVEL"`
	// Difficulty drives math operand size; 0 follows DistortionLevel.
	Difficulty   int     `yaml:"difficulty" env:"DIFFICULTY"`
	CanvasWidth  int     `yaml:"canvas_width" env:"CANVAS_WIDTH"`
	CanvasHeight int     `yaml:"canvas_height" env:"CANVAS_HEIGHT"`
	FontSize     float64 `yaml:"font_size" env:"FONT_SIZE"`
	FontFamily   string  `yaml:"font_family" env:"FONT_FAMILY"`

	RetryDelay        time.Duration `yaml:"retry_delay" env:"RETRY_DELAY"`
	MaxRenderAttempts int           `yaml:"max_render_attempts" env:"MAX_RENDER_ATTEMPTS"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Type:              KindAlphanumeric,
		Length:            DefaultLength,
		ExcludeChars:      DefaultExcludeChars,
		BlankMessage:      DefaultBlankMessage,
		EnableAudio:       true,
		DistortionLevel:   DefaultDistortionLevel,
		NoiseLevel:        DefaultNoiseLevel,
		CanvasWidth:       DefaultCanvasWidth,
		CanvasHeight:      DefaultCanvasHeight,
		FontSize:          DefaultFontSize,
		FontFamily:        DefaultFontFamily,
		RetryDelay:        DefaultRetryDelay,
		MaxRenderAttempts: DefaultMaxRenderAttempts,
	}
}

// LoadConfig layers an optional YAML file and CAPTCHA_* environment
// variables over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CAPTCHA_"}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Normalized clamps every numeric field. Zero values mean "use the default".
// The kind is left alone; the engine decides how to report an unknown one.
func (c Config) Normalized() Config {
	if c.Length == 0 {
		c.Length = DefaultLength
	}
	c.Length = clamp(c.Length, MinLength, MaxLength)
	if c.DistortionLevel == 0 {
		c.DistortionLevel = DefaultDistortionLevel
	}
	c.DistortionLevel = clamp(c.DistortionLevel, MinLevel, MaxLevel)
	if c.NoiseLevel == 0 {
		c.NoiseLevel = DefaultNoiseLevel
	}
	c.NoiseLevel = clamp(c.NoiseLevel, MinLevel, MaxLevel)
	if c.Difficulty != 0 {
		c.Difficulty = clamp(c.Difficulty, MinLevel, MaxLevel)
	}
	if c.CanvasWidth == 0 {
		c.CanvasWidth = DefaultCanvasWidth
	}
	c.CanvasWidth = max(c.CanvasWidth, MinCanvasWidth)
	if c.CanvasHeight == 0 {
		c.CanvasHeight = DefaultCanvasHeight
	}
	c.CanvasHeight = max(c.CanvasHeight, MinCanvasHeight)
	if c.FontSize == 0 {
		c.FontSize = DefaultFontSize
	}
	c.FontSize = clampFloat(c.FontSize, minFontSize, maxFontSize)
	if c.FontFamily == "" {
		c.FontFamily = DefaultFontFamily
	}
	if c.BlankMessage == "" {
		c.BlankMessage = DefaultBlankMessage
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.MaxRenderAttempts <= 0 {
		c.MaxRenderAttempts = DefaultMaxRenderAttempts
	}
	return c
}

// Params derives generator parameters.
func (c Config) Params() Params {
	d := c.Difficulty
	if d == 0 {
		d = c.DistortionLevel
	}
	return Params{Length: c.Length, ExcludeChars: c.ExcludeChars, Difficulty: d}
}

// Policy derives the validation policy.
func (c Config) Policy() Policy {
	return Policy{CaseSensitive: c.CaseSensitive, AllowBlank: c.AllowBlank, BlankMessage: c.BlankMessage}
}

// RenderConfig derives the clamped render configuration.
func (c Config) RenderConfig() RenderConfig {
	return NewRenderConfig(c.DistortionLevel, c.NoiseLevel, c.CanvasWidth, c.CanvasHeight, c.FontSize, c.FontFamily)
}

func (c Config) WithType(k Kind) Config { c.Type = k; return c }
func (c Config) WithCaseSensitive(v bool) Config { c.CaseSensitive = v; return c }
func (c Config) WithAllowBlank(v bool) Config { c.AllowBlank = v; return c }
func (c Config) WithBlankMessage(msg string) Config { c.BlankMessage = msg; return c }

// RenderConfig controls one render. Build it with NewRenderConfig; the
// renderers trust its fields.
type RenderConfig struct {
	DistortionLevel int
	NoiseLevel      int
	Width, Height   int
	FontSize        float64
	FontFamily      string
}

// NewRenderConfig clamps its inputs: levels to [1,10], width >= 200,
// height >= 60, font size to [8,96].
func NewRenderConfig(distortion, noise, width, height int, fontSize float64, family string) RenderConfig {
	if family == "" {
		family = DefaultFontFamily
	}
	return RenderConfig{
		DistortionLevel: clamp(distortion, MinLevel, MaxLevel),
		NoiseLevel:      clamp(noise, MinLevel, MaxLevel),
		Width:           max(width, MinCanvasWidth),
		Height:          max(height, MinCanvasHeight),
		FontSize:        clampFloat(fontSize, minFontSize, maxFontSize),
		FontFamily:      family,
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

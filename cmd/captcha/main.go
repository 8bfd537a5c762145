// File: main.go
package main

import (
	"fmt"
	"os"

	"captcha"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries global flags and the state built from them.
type app struct {
	configPath string
	verbose    bool
	seed       int64
	kind       string
	length     int
	distortion int
	noise      int
	width      int
	height     int

	cfg captcha.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "captcha",
		Short: "Generate, render and solve distorted CAPTCHA challenges",
		Long: `captcha renders alphanumeric or arithmetic challenges as noisy, per-glyph
distorted PNG images and checks typed answers against them.

Configuration is read from --config (YAML), then CAPTCHA_* environment
variables, then command line flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.Int64Var(&a.seed, "seed", 0, "random seed (0 = time based)")
	pf.StringVar(&a.kind, "type", "", "challenge type: alphanumeric or math")
	pf.IntVar(&a.length, "length", 0, "alphanumeric length (1-10)")
	pf.IntVar(&a.distortion, "distortion", 0, "distortion level (1-10)")
	pf.IntVar(&a.noise, "noise", 0, "noise level (1-10)")
	pf.IntVar(&a.width, "width", 0, "image width (min 200)")
	pf.IntVar(&a.height, "height", 0, "image height (min 60)")

	root.AddCommand(newRenderCmd(a), newPlayCmd(a), newSayCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	zcfg := zap.NewProductionConfig()
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.log = log

	cfg, err := captcha.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("type") {
		cfg.Type = captcha.Kind(a.kind)
	}
	if flags.Changed("length") {
		cfg.Length = a.length
	}
	if flags.Changed("distortion") {
		cfg.DistortionLevel = a.distortion
	}
	if flags.Changed("noise") {
		cfg.NoiseLevel = a.noise
	}
	if flags.Changed("width") {
		cfg.CanvasWidth = a.width
	}
	if flags.Changed("height") {
		cfg.CanvasHeight = a.height
	}
	a.cfg = cfg.Normalized()
	return nil
}

// newEngine builds an engine drawing onto a fresh in-memory surface.
func (a *app) newEngine(opts ...captcha.Option) (*captcha.Engine, *captcha.ImageSurface) {
	surface := captcha.NewImageSurface(a.cfg.CanvasWidth, a.cfg.CanvasHeight)
	base := []captcha.Option{
		captcha.WithSurface(surface),
		captcha.WithLogger(a.log),
		captcha.WithRandom(captcha.NewRandom(a.seed)),
	}
	return captcha.New(a.cfg, append(base, opts...)...), surface
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

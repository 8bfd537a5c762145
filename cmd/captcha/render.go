// File: render.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"captcha"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out        string
		asJSON     bool
		showAnswer bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate one challenge and write it as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, surface := a.newEngine()
			defer e.Close()
			ch := e.Current()

			path := out
			if path == "" && !asJSON {
				path = ch.ID + ".png"
			}
			if path != "" {
				if err := savePNG(surface, path); err != nil {
					return err
				}
				a.log.Info("challenge written", zap.String("challenge_id", ch.ID), zap.String("file", path))
			}

			if asJSON {
				img, err := surface.DataURL()
				if err != nil {
					return fmt.Errorf("encode image: %w", err)
				}
				rsp := renderOutput{UUID: ch.ID, Kind: ch.Kind, Image: img, File: path}
				if showAnswer {
					rsp.Answer = ch.Answer
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(rsp)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			if showAnswer {
				fmt.Fprintln(cmd.OutOrStdout(), ch.Answer)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output PNG (default <uuid>.png)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print uuid, kind and a base64 data URL as JSON")
	cmd.Flags().BoolVar(&showAnswer, "answer", false, "also print the answer")
	return cmd
}

func savePNG(s *captcha.ImageSurface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

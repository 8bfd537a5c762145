// File: play.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"captcha"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const playHelp = "type the answer, :r to refresh, :a for audio, :q to quit"

func newPlayCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Solve challenges interactively",
		Long: `play writes the current challenge to --out and reads answers from stdin:
` + playHelp + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "captcha.png", "PNG file refreshed for every challenge")
	return cmd
}

func (a *app) play(ctx context.Context, in io.Reader, w io.Writer, out string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	field := &captcha.TextField{}
	opts := append([]captcha.Option{captcha.WithInput(field)}, speakerOptions()...)
	e, surface := a.newEngine(opts...)
	defer e.Close()

	var saveErr error
	show := func(ch captcha.Challenge) {
		if err := savePNG(surface, out); err != nil {
			saveErr = err
			return
		}
		a.log.Debug("challenge written", zap.String("challenge_id", ch.ID), zap.String("file", out))
		fmt.Fprintf(w, "new %s challenge written to %s\n", ch.Kind, out)
	}
	e.OnChallengeGenerated(func(ch captcha.Challenge, _ captcha.Kind) { show(ch) })
	e.OnValidationError(func(kind captcha.ErrorKind, msg string) {
		if kind == captcha.ErrorBlank {
			fmt.Fprintf(w, "⚠ %s\n", msg)
		}
	})

	show(e.Current())
	fmt.Fprintln(w, playHelp)

	sc := bufio.NewScanner(in)
	for saveErr == nil {
		fmt.Fprint(w, "> ")
		if !sc.Scan() {
			break
		}
		line := sc.Text()
		switch strings.TrimSpace(line) {
		case ":q":
			return nil
		case ":r":
			e.GenerateChallenge()
			continue
		case ":a":
			if err := e.PlayAudio(ctx); err != nil {
				switch {
				case errors.Is(err, captcha.ErrSpeechUnavailable):
					fmt.Fprintln(w, "Audio not available: no speech synthesis program found.")
				case errors.Is(err, captcha.ErrAudioDisabled):
					fmt.Fprintln(w, "Audio is disabled.")
				default:
					return err
				}
			}
			continue
		}

		field.SetValue(line)
		switch res := e.ValidateInput(); res.Outcome {
		case captcha.OutcomeValid:
			fmt.Fprintln(w, "✓ Correct! Captcha verified successfully.")
			e.GenerateChallenge()
		case captcha.OutcomeIncorrect:
			fmt.Fprintln(w, "✗ Incorrect answer. Please try again.")
		}
	}
	if saveErr != nil {
		return saveErr
	}
	return sc.Err()
}

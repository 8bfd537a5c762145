// File: say.go
package main

import (
	"errors"
	"fmt"

	"captcha"

	"github.com/spf13/cobra"
)

func newSayCmd(a *app) *cobra.Command {
	var mute bool
	cmd := &cobra.Command{
		Use:   "say",
		Short: "Print, and speak if possible, the narration of a fresh challenge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []captcha.Option
			if !mute {
				opts = speakerOptions()
			}
			e, _ := a.newEngine(opts...)
			defer e.Close()

			fmt.Fprintln(cmd.OutOrStdout(), e.SpeechText())
			if mute {
				return nil
			}
			err := e.PlayAudio(cmd.Context())
			if errors.Is(err, captcha.ErrSpeechUnavailable) || errors.Is(err, captcha.ErrAudioDisabled) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Audio not available: %v\n", err)
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&mute, "mute", false, "only print the narration")
	return cmd
}

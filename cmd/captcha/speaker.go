// File: speaker.go
package main

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"captcha"
)

// execSpeaker drives a command line TTS program.
type execSpeaker struct {
	bin  string
	args func(u captcha.Utterance) []string
}

var speechPrograms = []struct {
	name string
	args func(u captcha.Utterance) []string
}{
	{"espeak-ng", espeakArgs},
	{"espeak", espeakArgs},
	{"say", func(u captcha.Utterance) []string {
		return []string{"-r", strconv.Itoa(int(175 * u.Rate)), u.Text}
	}},
	{"spd-say", func(u captcha.Utterance) []string {
		return []string{"-w", "-r", strconv.Itoa(int((u.Rate - 1) * 100)), u.Text}
	}},
}

func espeakArgs(u captcha.Utterance) []string {
	return []string{
		"-s", strconv.Itoa(int(175 * u.Rate)),
		"-p", strconv.Itoa(int(50 * u.Pitch)),
		"-a", strconv.Itoa(int(100 * u.Volume)),
		u.Text,
	}
}

// findSpeaker returns the first TTS program on PATH, or nil.
func findSpeaker() captcha.Speaker {
	for _, p := range speechPrograms {
		if path, err := exec.LookPath(p.name); err == nil {
			return &execSpeaker{bin: path, args: p.args}
		}
	}
	return nil
}

func (s *execSpeaker) Speak(ctx context.Context, u captcha.Utterance) error {
	if err := exec.CommandContext(ctx, s.bin, s.args(u)...).Run(); err != nil {
		return fmt.Errorf("%s: %w", s.bin, err)
	}
	return nil
}

func speakerOptions() []captcha.Option {
	if sp := findSpeaker(); sp != nil {
		return []captcha.Option{captcha.WithSpeaker(sp)}
	}
	return nil
}

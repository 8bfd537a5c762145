// File: audio.go
package captcha

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrSpeechUnavailable means the host has no text-to-speech backend.
	ErrSpeechUnavailable = errors.New("speech synthesis is not available")
	// ErrAudioDisabled means EnableAudio is off.
	ErrAudioDisabled = errors.New("audio is disabled")
)

var mathSpeech = strings.NewReplacer(
	"+", " plus ",
	"-", " minus ",
	"*", " times ",
	"=", " equals ",
	"?", " what",
)

// Utterance is handed to a Speaker.
type Utterance struct {
	Text   string
	Rate   float64
	Pitch  float64
	Volume float64
}

// Speaker is the host's text-to-speech backend.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
}

// SpeechText turns a challenge into something a speech backend reads
// naturally: math symbols become words, codes are spelled out.
func SpeechText(ch Challenge) string {
	if ch.Kind == KindMath {
		return strings.Join(strings.Fields(mathSpeech.Replace(ch.DisplayText)), " ")
	}
	return strings.Join(strings.Split(ch.Answer, ""), " ")
}

func newUtterance(ch Challenge) Utterance {
	return Utterance{Text: SpeechText(ch), Rate: 0.7, Pitch: 1, Volume: 1}
}

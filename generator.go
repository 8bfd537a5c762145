// File: generator.go
package captcha

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	alphabet            = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultExcludeChars = "01IOl" // 易混淆字符
	DefaultLength       = 6
	MinLength           = 1
	MaxLength           = 10
	MinLevel            = 1
	MaxLevel            = 10
)

var mathOperators = []string{"+", "-", "*"}

// Params carries the per-kind generation knobs.
type Params struct {
	Length       int    // alphanumeric only, clamped to [1,10]
	ExcludeChars string // alphanumeric only, removed from the alphabet
	Difficulty   int    // math only, clamped to [1,10]
}

// DefaultParams matches the engine defaults.
func DefaultParams() Params {
	return Params{
		Length:       DefaultLength,
		ExcludeChars: DefaultExcludeChars,
		Difficulty:   DefaultDistortionLevel,
	}
}

// Generator produces challenge/answer pairs.
type Generator struct {
	rnd   Random
	log   *zap.Logger
	newID func() string
}

// NewGenerator builds a generator. A nil logger discards output.
func NewGenerator(rnd Random, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{rnd: rnd, log: log, newID: uuid.NewString}
}

// Generate dispatches on kind. Unknown kinds fall back to alphanumeric.
func (g *Generator) Generate(kind Kind, p Params) Challenge {
	switch kind {
	case KindMath:
		return g.Math(p.Difficulty)
	case KindAlphanumeric:
		return g.Alphanumeric(p.Length, p.ExcludeChars)
	default:
		g.log.Warn("unknown captcha kind, using alphanumeric", zap.String("kind", string(kind)))
		return g.Alphanumeric(p.Length, p.ExcludeChars)
	}
}

// Alphanumeric draws length characters with replacement from A-Z0-9 minus exclude.
func (g *Generator) Alphanumeric(length int, exclude string) Challenge {
	length = clamp(length, MinLength, MaxLength)
	chars := filterAlphabet(exclude)
	if len(chars) == 0 {
		g.log.Warn("exclusions remove every character, using full alphabet", zap.String("exclude", exclude))
		chars = []byte(alphabet)
	}

	buf := make([]byte, length)
	for i := range buf {
		buf[i] = chars[g.rnd.Intn(len(chars))]
	}
	s := string(buf)
	ch := Challenge{ID: g.newID(), Kind: KindAlphanumeric, DisplayText: s, Answer: s}
	g.log.Debug("generated challenge", zap.String("challenge_id", ch.ID), zap.String("kind", string(ch.Kind)))
	return ch
}

func filterAlphabet(exclude string) []byte {
	out := make([]byte, 0, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		if !strings.ContainsRune(exclude, rune(alphabet[i])) {
			out = append(out, alphabet[i])
		}
	}
	return out
}

// Math builds "<a> <op> <b> = ?". Subtraction never goes negative and
// multiplication uses operands in [1, min(10, difficulty)].
func (g *Generator) Math(difficulty int) Challenge {
	difficulty = clamp(difficulty, MinLevel, MaxLevel)
	maxNumber := min(20, difficulty*4)

	a := between(g.rnd, 1, maxNumber)
	b := between(g.rnd, 1, maxNumber)
	op := mathOperators[g.rnd.Intn(len(mathOperators))]

	var result int
	switch op {
	case "+":
		result = a + b
	case "-":
		if a < b {
			a, b = b, a
		}
		result = a - b
	case "*":
		limit := min(10, difficulty)
		a = between(g.rnd, 1, limit)
		b = between(g.rnd, 1, limit)
		result = a * b
	}

	ch := Challenge{
		ID:          g.newID(),
		Kind:        KindMath,
		DisplayText: strconv.Itoa(a) + " " + op + " " + strconv.Itoa(b) + " = ?",
		Answer:      strconv.Itoa(result),
	}
	g.log.Debug("generated challenge", zap.String("challenge_id", ch.ID), zap.String("kind", string(ch.Kind)))
	return ch
}

// File: validate.go
package captcha

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IncorrectMessage marks the bound input after a wrong answer.
const IncorrectMessage = "Incorrect captcha answer"

// Policy governs how submissions are judged.
type Policy struct {
	CaseSensitive bool
	AllowBlank    bool
	BlankMessage  string
}

// InputField is the host's answer input. The engine reads it and toggles
// its invalid marker; it never keeps error state of its own.
type InputField interface {
	Value() string
	SetValue(v string)
	MarkInvalid(msg string)
	ClearInvalid()
}

// Validator compares submissions with the expected answer.
type Validator struct{}

// Validate judges submitted against expected. field may be nil.
func (Validator) Validate(p Policy, expected, submitted string, field InputField) ValidationResult {
	submitted = strings.TrimSpace(submitted)
	res := ValidationResult{Submitted: submitted, Expected: expected}

	if submitted == "" {
		if !p.AllowBlank {
			res.Outcome = OutcomeBlank
			res.Message = p.BlankMessage
			if field != nil {
				field.MarkInvalid(p.BlankMessage)
			}
			return res
		}
		res.Outcome = OutcomeValid
		if field != nil {
			field.ClearInvalid()
		}
		return res
	}

	var match bool
	if p.CaseSensitive {
		match = submitted == expected
	} else {
		// Caser 有状态，不能跨 goroutine 共享
		upper := cases.Upper(language.Und)
		match = upper.String(submitted) == upper.String(expected)
	}

	if match {
		res.Outcome = OutcomeValid
		if field != nil {
			field.ClearInvalid()
		}
		return res
	}
	res.Outcome = OutcomeIncorrect
	res.Message = IncorrectMessage
	if field != nil {
		field.MarkInvalid(IncorrectMessage)
	}
	return res
}

// TextField is an in-memory InputField for hosts without a widget toolkit.
type TextField struct {
	mu      sync.Mutex
	value   string
	invalid string
}

func (f *TextField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *TextField) SetValue(v string) {
	f.mu.Lock()
	f.value = v
	f.mu.Unlock()
}

func (f *TextField) MarkInvalid(msg string) {
	f.mu.Lock()
	f.invalid = msg
	f.mu.Unlock()
}

func (f *TextField) ClearInvalid() {
	f.mu.Lock()
	f.invalid = ""
	f.mu.Unlock()
}

// Invalid returns the current error message, if any.
func (f *TextField) Invalid() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalid, f.invalid != ""
}

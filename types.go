// File: types.go
package captcha

// Kind selects the puzzle family.
type Kind string

const (
	KindAlphanumeric Kind = "alphanumeric"
	KindMath         Kind = "math"
)

// Valid reports whether k is a kind the generator knows.
func (k Kind) Valid() bool {
	return k == KindAlphanumeric || k == KindMath
}

// Challenge holds data for a captcha challenge
type Challenge struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	DisplayText string `json:"challenge"` // 展示给用户的题面
	Answer      string `json:"-"`         // 标准答案，不返回给前端
}

// Outcome is the verdict of one validation call. The zero value is
// OutcomeUnknown and never counts as a pass.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeValid
	OutcomeBlank
	OutcomeIncorrect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeBlank:
		return "blank"
	case OutcomeIncorrect:
		return "incorrect"
	}
	return "unknown"
}

// ErrorKind is reported to validation-error observers.
type ErrorKind string

const (
	ErrorBlank     ErrorKind = "blank"
	ErrorIncorrect ErrorKind = "incorrect"
)

// ValidationResult is produced per validate call and never retained.
type ValidationResult struct {
	Outcome   Outcome
	Submitted string // trimmed
	Expected  string
	Message   string // set for Blank and Incorrect
}

// OK reports whether the submission passed.
func (r ValidationResult) OK() bool {
	return r.Outcome == OutcomeValid
}

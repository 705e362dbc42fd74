// Package question holds the assessment question variants. Only the closed-form
// variants carry an answer key, so nothing else can leak one to a client.
package question

import "encoding/json"

type Kind string

const (
	KindClosedChoice Kind = "mcq"
	KindShortAnswer  Kind = "oneword"
	KindOpenText     Kind = "text"
	KindCoding       Kind = "code"
)

// kindDebug is accepted from providers and stored as a Coding question.
const kindDebug = "debug"

type Question interface {
	Kind() Kind
	Prompt() string
	public() Public
	wire() wireQuestion
}

type TestCase struct {
	Input  json.RawMessage `json:"input,omitempty"`
	Output json.RawMessage `json:"output,omitempty"`
}

type ClosedChoice struct {
	Text      string
	Options   []string
	AnswerKey string
}

type ShortAnswer struct {
	Text      string
	AnswerKey string
}

type OpenText struct {
	Text string
}

type Coding struct {
	Text        string
	Language    string
	StarterCode string
	TestCases   []TestCase
	Debug       bool
}

func (q ClosedChoice) Kind() Kind { return KindClosedChoice }
func (q ShortAnswer) Kind() Kind  { return KindShortAnswer }
func (q OpenText) Kind() Kind     { return KindOpenText }
func (q Coding) Kind() Kind       { return KindCoding }

func (q ClosedChoice) Prompt() string { return q.Text }
func (q ShortAnswer) Prompt() string  { return q.Text }
func (q OpenText) Prompt() string     { return q.Text }
func (q Coding) Prompt() string       { return q.Text }

// AnswerKey returns the canonical answer for closed-form questions.
func AnswerKey(q Question) (string, bool) {
	switch v := q.(type) {
	case ClosedChoice:
		return v.AnswerKey, true
	case ShortAnswer:
		return v.AnswerKey, true
	default:
		return "", false
	}
}

// IsObjective reports whether the question is graded by exact match.
func IsObjective(q Question) bool {
	_, ok := AnswerKey(q)
	return ok
}

// Subjective is the judge-facing view of an open-form question.
type Subjective struct {
	Type      string     `json:"type"`
	Q         string     `json:"q"`
	Language  string     `json:"language,omitempty"`
	TestCases []TestCase `json:"testCases,omitempty"`
}

func ToSubjective(q Question) Subjective {
	pub := q.public()
	view := Subjective{Type: pub.Type, Q: pub.Q}
	if c, ok := q.(Coding); ok {
		view.Language = c.Language
		if view.Language == "" {
			view.Language = "javascript"
		}
		view.TestCases = c.TestCases
	}
	return view
}

package question

// Public is the client-facing question shape. It has no answer key field.
type Public struct {
	Type        string     `json:"type"`
	Q           string     `json:"q"`
	Options     []string   `json:"options,omitempty"`
	Language    string     `json:"language,omitempty"`
	StarterCode string     `json:"starterCode,omitempty"`
	TestCases   []TestCase `json:"testCases,omitempty"`
}

func (q ClosedChoice) public() Public {
	return Public{Type: string(KindClosedChoice), Q: q.Text, Options: q.Options}
}

func (q ShortAnswer) public() Public {
	return Public{Type: string(KindShortAnswer), Q: q.Text}
}

func (q OpenText) public() Public {
	return Public{Type: string(KindOpenText), Q: q.Text}
}

func (q Coding) public() Public {
	w := q.wire()
	return Public{Type: w.Type, Q: q.Text, Language: q.Language, StarterCode: q.StarterCode, TestCases: q.TestCases}
}

func Sanitize(questions []Question) []Public {
	out := make([]Public, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.public())
	}
	return out
}

type Solution struct {
	CorrectAnswer *string `json:"correctAnswer"`
}

// Solutions exposes canonical answers for closed-form questions only.
func Solutions(questions []Question) []Solution {
	out := make([]Solution, 0, len(questions))
	for _, q := range questions {
		key, ok := AnswerKey(q)
		if !ok {
			out = append(out, Solution{})
			continue
		}
		k := key
		out = append(out, Solution{CorrectAnswer: &k})
	}
	return out
}

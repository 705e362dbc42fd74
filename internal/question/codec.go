package question

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

type wireQuestion struct {
	Type        string     `json:"type"`
	Q           string     `json:"q"`
	Options     []string   `json:"options,omitempty"`
	AnswerKey   *string    `json:"answerKey,omitempty"`
	Language    string     `json:"language,omitempty"`
	StarterCode string     `json:"starterCode,omitempty"`
	TestCases   []TestCase `json:"testCases,omitempty"`
}

func (q ClosedChoice) wire() wireQuestion {
	key := q.AnswerKey
	return wireQuestion{Type: string(KindClosedChoice), Q: q.Text, Options: q.Options, AnswerKey: &key}
}

func (q ShortAnswer) wire() wireQuestion {
	key := q.AnswerKey
	return wireQuestion{Type: string(KindShortAnswer), Q: q.Text, AnswerKey: &key}
}

func (q OpenText) wire() wireQuestion {
	return wireQuestion{Type: string(KindOpenText), Q: q.Text}
}

func (q Coding) wire() wireQuestion {
	t := string(KindCoding)
	if q.Debug {
		t = kindDebug
	}
	return wireQuestion{Type: t, Q: q.Text, Language: q.Language, StarterCode: q.StarterCode, TestCases: q.TestCases}
}

// Encode writes the full stored shape, answer keys included. Never send it to a client.
func Encode(questions []Question) ([]byte, error) {
	out := make([]wireQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.wire())
	}
	return json.Marshal(out)
}

// Decode parses a loosely shaped JSON array of questions, as stored or as
// returned by a generation provider. Entries without a prompt are dropped.
func Decode(raw []byte) ([]Question, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid question JSON")
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("question payload is not a JSON array")
	}

	var out []Question
	parsed.ForEach(func(_, item gjson.Result) bool {
		if q, ok := decodeOne(item); ok {
			out = append(out, q)
		}
		return true
	})
	return out, nil
}

func decodeOne(item gjson.Result) (Question, bool) {
	if !item.IsObject() {
		return nil, false
	}
	text := strings.TrimSpace(item.Get("q").String())
	if text == "" {
		text = strings.TrimSpace(item.Get("question").String())
	}
	if text == "" {
		return nil, false
	}

	kind := strings.ToLower(strings.TrimSpace(item.Get("type").String()))
	key := strings.TrimSpace(item.Get("answerKey").String())
	if key == "" && (kind == string(KindClosedChoice) || kind == string(KindShortAnswer)) {
		// A closed form without a canonical answer cannot be auto-graded.
		return OpenText{Text: text}, true
	}

	switch kind {
	case string(KindClosedChoice):
		var options []string
		for _, o := range item.Get("options").Array() {
			options = append(options, o.String())
		}
		return ClosedChoice{Text: text, Options: options, AnswerKey: key}, true
	case string(KindShortAnswer):
		return ShortAnswer{Text: text, AnswerKey: key}, true
	case string(KindCoding), kindDebug:
		c := Coding{
			Text:        text,
			Language:    item.Get("language").String(),
			StarterCode: item.Get("starterCode").String(),
			Debug:       strings.EqualFold(item.Get("type").String(), kindDebug),
		}
		for _, tc := range item.Get("testCases").Array() {
			c.TestCases = append(c.TestCases, TestCase{
				Input:  rawOrNil(tc.Get("input")),
				Output: rawOrNil(tc.Get("output")),
			})
		}
		return c, true
	default:
		return OpenText{Text: text}, true
	}
}

func rawOrNil(r gjson.Result) json.RawMessage {
	if !r.Exists() {
		return nil
	}
	return json.RawMessage(r.Raw)
}

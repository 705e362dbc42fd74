package generator

import (
	"errors"
	"strings"

	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/tidwall/gjson"
)

var errEmptySet = errors.New("provider returned an empty question set")

// parseQuestions accepts raw model output. Markdown fences and chatter around
// the outermost JSON array are ignored, as is a {"questions":[...]} wrapper.
func parseQuestions(text string) ([]question.Question, error) {
	raw := extractArray(text)
	if raw == "" {
		return nil, errors.New("no JSON array in provider output")
	}
	qs, err := question.Decode([]byte(raw))
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, errEmptySet
	}
	return qs, nil
}

func extractArray(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if gjson.Valid(s) {
		parsed := gjson.Parse(s)
		if parsed.IsArray() {
			return s
		}
		if qs := parsed.Get("questions"); qs.IsArray() {
			return qs.Raw
		}
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	candidate := s[start : end+1]
	if !gjson.Valid(candidate) {
		return ""
	}
	return candidate
}

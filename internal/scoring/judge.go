package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/tidwall/gjson"
)

var errNoJudge = errors.New("no judge configured")

// JSONGenerator is the slice of an LLM client the judge needs.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type LLMJudge struct {
	llm JSONGenerator
}

func NewLLMJudge(llm JSONGenerator) *LLMJudge {
	return &LLMJudge{llm: llm}
}

func (j *LLMJudge) Evaluate(ctx context.Context, questions []question.Subjective, answers []string) ([]bool, error) {
	qs, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("marshal questions: %w", err)
	}
	as, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}

	prompt := fmt.Sprintf(`Evaluate if each candidate answer sufficiently solves/answers the corresponding internship-level question.
Return ONLY JSON of the form {"results":[true|false,...]} with one boolean per question, true for correct and false for incorrect.
Questions: %s
Answers: %s`, qs, as)

	text, err := j.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("judge request failed: %w", err)
	}
	return parseVerdicts(text)
}

func parseVerdicts(text string) ([]bool, error) {
	clean := stripFences(text)
	if !gjson.Valid(clean) {
		return nil, fmt.Errorf("judge returned invalid JSON")
	}
	results := gjson.Get(clean, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("judge response has no results array")
	}
	var out []bool
	for _, r := range results.Array() {
		out = append(out, r.Type == gjson.True)
	}
	return out, nil
}

func stripFences(text string) string {
	clean := strings.TrimSpace(text)
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```json")
		clean = strings.TrimPrefix(clean, "```")
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	}
	return strings.TrimSpace(clean)
}

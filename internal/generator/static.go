package generator

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/fadilmartias/talent-assessment/internal/question"
	"gopkg.in/yaml.v3"
)

//go:embed static_questions.yaml
var staticQuestionsYAML []byte

type staticBank struct {
	Questions []map[string]any `yaml:"questions"`
}

// StaticProvider serves the built-in question set.
type StaticProvider struct {
	questions []question.Question
}

func NewStaticProvider() (*StaticProvider, error) {
	qs, err := loadStatic(staticQuestionsYAML)
	if err != nil {
		return nil, err
	}
	return &StaticProvider{questions: qs}, nil
}

func loadStatic(raw []byte) ([]question.Question, error) {
	var bank staticBank
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("parse static questions: %w", err)
	}
	asJSON, err := json.Marshal(bank.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode static questions: %w", err)
	}
	qs, err := question.Decode(asJSON)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("static question bank is empty")
	}
	return qs, nil
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Generate(ctx context.Context, req Request) ([]question.Question, error) {
	out := make([]question.Question, len(p.questions))
	copy(out, p.questions)
	return out, nil
}

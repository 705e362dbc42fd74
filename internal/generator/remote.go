package generator

import (
	"context"
	"errors"

	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/fadilmartias/talent-assessment/internal/service"
)

// RemoteProvider asks Gemini for a structured JSON array.
type RemoteProvider struct {
	llm service.GeminiServiceInterface
}

func NewRemoteProvider(llm service.GeminiServiceInterface) *RemoteProvider {
	return &RemoteProvider{llm: llm}
}

func (p *RemoteProvider) Name() string { return "gemini" }

func (p *RemoteProvider) Generate(ctx context.Context, req Request) ([]question.Question, error) {
	if p.llm == nil {
		return nil, errors.New("gemini is not configured")
	}
	text, err := p.llm.GenerateJSON(ctx, buildPrompt(req, nonce()))
	if err != nil {
		return nil, err
	}
	return parseQuestions(text)
}

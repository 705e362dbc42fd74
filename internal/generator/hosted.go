package generator

import (
	"context"

	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/fadilmartias/talent-assessment/internal/service"
)

// HostedProvider generates through a hosted chat-completions model.
type HostedProvider struct {
	llm service.OpenRouterServiceInterface
}

func NewHostedProvider(llm service.OpenRouterServiceInterface) *HostedProvider {
	return &HostedProvider{llm: llm}
}

func (p *HostedProvider) Name() string { return "hosted-model" }

func (p *HostedProvider) Generate(ctx context.Context, req Request) ([]question.Question, error) {
	text, err := p.llm.Complete(ctx, systemPrompt, buildPrompt(req, nonce()))
	if err != nil {
		return nil, err
	}
	return parseQuestions(text)
}

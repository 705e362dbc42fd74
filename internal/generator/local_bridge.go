package generator

import (
	"context"
	"strconv"

	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/fadilmartias/talent-assessment/internal/service"
)

// LocalBridgeProvider runs the on-host model through the bridge script.
type LocalBridgeProvider struct {
	runner service.LocalModelServiceInterface
}

func NewLocalBridgeProvider(runner service.LocalModelServiceInterface) *LocalBridgeProvider {
	return &LocalBridgeProvider{runner: runner}
}

func (p *LocalBridgeProvider) Name() string { return "local-model" }

func (p *LocalBridgeProvider) Generate(ctx context.Context, req Request) ([]question.Question, error) {
	out, err := p.runner.Run(ctx,
		req.RoleTitle,
		strconv.Itoa(req.Count),
		strconv.Itoa(req.Coding),
		strconv.Itoa(req.Debug),
	)
	if err != nil {
		return nil, err
	}
	return parseQuestions(string(out))
}

package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"github.com/fadilmartias/talent-assessment/internal/question"
)

const DefaultProviderTimeout = 30 * time.Second

// Set is a generated question set and the provider that produced it.
type Set struct {
	Questions []question.Question
	Provider  string
}

type Generator interface {
	Generate(ctx context.Context, req Request) (Set, error)
	Preview(ctx context.Context, req Request) (Set, error)
}

// Chain tries providers in order and returns the first non-empty set.
// The preview provider is used alone by Preview.
type Chain struct {
	providers []Provider
	preview   Provider
	timeout   time.Duration
}

func NewChain(timeout time.Duration, preview Provider, providers ...Provider) *Chain {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Chain{providers: providers, preview: preview, timeout: timeout}
}

func (c *Chain) Generate(ctx context.Context, req Request) (Set, error) {
	var errs []error
	for _, p := range c.providers {
		qs, err := c.try(ctx, p, req)
		if err == nil {
			return Set{Questions: qs, Provider: p.Name()}, nil
		}
		log.Printf("question provider %s failed, falling through: %v", p.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return Set{}, apperror.New(apperror.KindGenerationExhausted, "all question providers failed", errors.Join(errs...))
}

func (c *Chain) Preview(ctx context.Context, req Request) (Set, error) {
	if c.preview == nil {
		return Set{}, apperror.New(apperror.KindGenerationExhausted, "preview provider is not configured", nil)
	}
	qs, err := c.try(ctx, c.preview, req)
	if err != nil {
		log.Printf("preview provider %s failed: %v", c.preview.Name(), err)
		return Set{}, apperror.New(apperror.KindGenerationExhausted, "preview generation failed", err)
	}
	return Set{Questions: qs, Provider: c.preview.Name()}, nil
}

func (c *Chain) try(ctx context.Context, p Provider, req Request) (qs []question.Question, err error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()

	start := time.Now()
	qs, err = p.Generate(timeoutCtx, req)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, errEmptySet
	}
	log.Printf("question provider %s returned %d questions in %v", p.Name(), len(qs), time.Since(start).Round(time.Millisecond))
	return qs, nil
}

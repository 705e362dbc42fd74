// Package generator produces assessment question sets through an ordered
// chain of providers, ending in a built-in set that cannot fail.
package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/question"
)

const (
	DefaultTotal  = 8
	DefaultCoding = 2
	DefaultDebug  = 1
)

type Request struct {
	RoleTitle string
	Skills    []string
	Count     int
	Coding    int
	Debug     int
}

func NewRequest(title string, skills []string) Request {
	if strings.TrimSpace(title) == "" {
		title = "Internship"
	}
	return Request{
		RoleTitle: title,
		Skills:    skills,
		Count:     DefaultTotal,
		Coding:    DefaultCoding,
		Debug:     DefaultDebug,
	}
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) ([]question.Question, error)
}

const systemPrompt = "You write technical assessments for hiring. Reply with JSON only."

func nonce() string {
	return fmt.Sprintf("%d-%06x", time.Now().UnixMilli(), rand.IntN(1<<24))
}

func buildPrompt(req Request, variation string) string {
	var b strings.Builder
	b.WriteString("You are creating an online assessment for an internship.\n")
	fmt.Fprintf(&b, "Role title: %s\n", req.RoleTitle)
	fmt.Fprintf(&b, "Relevant skills: %s\n\n", strings.Join(req.Skills, ", "))
	fmt.Fprintf(&b, "Create exactly %d questions: %d coding task(s), %d debugging task(s), the rest a mix of:\n", req.Count, req.Coding, req.Debug)
	b.WriteString("- mcq: Multiple choice with 4 options and a single correct answer.\n")
	b.WriteString("- oneword: One-word/short answer (store canonical answer).\n")
	b.WriteString("- text: Short explanation question (no answerKey).\n")
	b.WriteString("- code: Coding task with language, starterCode, and 2-4 testCases (input/output pairs).\n")
	b.WriteString("- debug: Buggy code to fix, same shape as code.\n\n")
	b.WriteString("STRICT OUTPUT: Return ONLY a valid JSON array. Each object must match one of these shapes:\n")
	b.WriteString(`{"type":"mcq","q":"...","options":["...","...","...","..."],"answerKey":"exact-option-text"}` + "\n")
	b.WriteString(`{"type":"oneword","q":"...","answerKey":"canonical answer"}` + "\n")
	b.WriteString(`{"type":"text","q":"..."}` + "\n")
	b.WriteString(`{"type":"code","q":"...","language":"javascript","starterCode":"string","testCases":[{"input":[...],"output":any}]}` + "\n\n")
	fmt.Fprintf(&b, "Produce a different set each call; consider this variation token: %s (do not mention it).\n", variation)
	b.WriteString("Do not include markdown fences or any commentary.")
	return b.String()
}

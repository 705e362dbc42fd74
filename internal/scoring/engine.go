package scoring

import (
	"context"
	"log"
	"strings"

	"github.com/fadilmartias/talent-assessment/internal/question"
)

const (
	PointsPerQuestion    = 10
	NominalQuestionCount = 8
	// PassingCorrectCount is 6 of the nominal 8 (60/80) and stays fixed
	// whatever the actual number of questions.
	PassingCorrectCount = 6
)

type Result string

const (
	ResultPassed Result = "Passed"
	ResultFailed Result = "Failed"
)

// Judge decides correctness of open-form answers, one boolean per item.
type Judge interface {
	Evaluate(ctx context.Context, questions []question.Subjective, answers []string) ([]bool, error)
}

type Outcome struct {
	Score        int
	Result       Result
	Correctness  []bool
	CorrectCount int
}

type Engine struct {
	judge Judge
}

func NewEngine(judge Judge) *Engine {
	return &Engine{judge: judge}
}

func (e *Engine) Score(ctx context.Context, questions []question.Question, answers []string) Outcome {
	correctness := make([]bool, len(questions))

	var subjectiveIdx []int
	var subjective []question.Subjective
	var subjectiveAnswers []string
	for i, q := range questions {
		answer := answerAt(answers, i)
		if key, ok := question.AnswerKey(q); ok {
			correctness[i] = normalize(key) != "" && normalize(answer) == normalize(key)
			continue
		}
		subjectiveIdx = append(subjectiveIdx, i)
		subjective = append(subjective, question.ToSubjective(q))
		subjectiveAnswers = append(subjectiveAnswers, answer)
	}

	if len(subjectiveIdx) > 0 {
		verdicts, err := e.judgeSubjective(ctx, subjective, subjectiveAnswers)
		if err != nil {
			log.Printf("scoring: judge unavailable, using non-empty heuristic: %v", err)
			for _, idx := range subjectiveIdx {
				correctness[idx] = normalize(answerAt(answers, idx)) != ""
			}
		} else {
			for n, v := range verdicts {
				if n < len(subjectiveIdx) {
					correctness[subjectiveIdx[n]] = v
				}
			}
		}
	}

	return Tally(correctness)
}

func (e *Engine) judgeSubjective(ctx context.Context, qs []question.Subjective, answers []string) ([]bool, error) {
	if e.judge == nil {
		return nil, errNoJudge
	}
	return e.judge.Evaluate(ctx, qs, answers)
}

// Tally turns a correctness vector into score and verdict.
func Tally(correctness []bool) Outcome {
	count := 0
	for _, ok := range correctness {
		if ok {
			count++
		}
	}
	result := ResultFailed
	if count >= PassingCorrectCount {
		result = ResultPassed
	}
	return Outcome{
		Score:        count * PointsPerQuestion,
		Result:       result,
		Correctness:  correctness,
		CorrectCount: count,
	}
}

func answerAt(answers []string, i int) string {
	if i < len(answers) {
		return answers[i]
	}
	return ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

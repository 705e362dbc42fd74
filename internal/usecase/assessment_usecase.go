package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"github.com/fadilmartias/talent-assessment/internal/generator"
	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/fadilmartias/talent-assessment/internal/notification"
	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/fadilmartias/talent-assessment/internal/repository"
	"github.com/fadilmartias/talent-assessment/internal/scoring"
	"github.com/google/uuid"
)

const (
	maxExpiryHours = 720
	// submittedExpiryOffset moves the deadline into the past on submit.
	submittedExpiryOffset = time.Second
)

type Scorer interface {
	Score(ctx context.Context, qs []question.Question, answers []string) scoring.Outcome
}

type AssignResult struct {
	TestID     uuid.UUID         `json:"testId"`
	Token      string            `json:"token"`
	TestLink   string            `json:"testLink"`
	TestExpiry time.Time         `json:"testExpiry"`
	Provider   string            `json:"provider"`
	Questions  []question.Public `json:"questions"`
}

type PreviewResult struct {
	Provider  string            `json:"provider"`
	Questions []question.Public `json:"questions"`
}

// TestView is what a token holder sees. Solutions, answers and correctness
// are only filled once the test is submitted.
type TestView struct {
	Title       string              `json:"title"`
	TestExpiry  time.Time           `json:"testExpiry"`
	Expired     bool                `json:"expired"`
	Submitted   bool                `json:"submitted"`
	Questions   []question.Public   `json:"questions"`
	Answers     []string            `json:"answers,omitempty"`
	Correctness []bool              `json:"correctness,omitempty"`
	Solutions   []question.Solution `json:"solutions,omitempty"`
	Score       *int                `json:"score"`
	Result      *string             `json:"result"`
	SubmittedAt *time.Time          `json:"submittedAt"`
}

type SubmitResult struct {
	Score       int                 `json:"score"`
	Result      string              `json:"result"`
	Answers     []string            `json:"answers"`
	Correctness []bool              `json:"correctness"`
	Solutions   []question.Solution `json:"solutions"`
}

type AssessmentUsecase struct {
	applications  repository.ApplicationRepositoryInterface
	assessments   repository.AssessmentRepositoryInterface
	uow           repository.UnitOfWork
	generator     generator.Generator
	scorer        Scorer
	notifier      notification.Dispatcher
	frontendURL   string
	defaultExpiry time.Duration
	now           func() time.Time
	newToken      func() string
}

func NewAssessmentUsecase(
	applications repository.ApplicationRepositoryInterface,
	assessments repository.AssessmentRepositoryInterface,
	uow repository.UnitOfWork,
	gen generator.Generator,
	scorer Scorer,
	notifier notification.Dispatcher,
	frontendURL string,
	defaultExpiry time.Duration,
) *AssessmentUsecase {
	if defaultExpiry <= 0 {
		defaultExpiry = 24 * time.Hour
	}
	return &AssessmentUsecase{
		applications:  applications,
		assessments:   assessments,
		uow:           uow,
		generator:     gen,
		scorer:        scorer,
		notifier:      notifier,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		defaultExpiry: defaultExpiry,
		now:           time.Now,
		newToken:      func() string { return uuid.NewString() },
	}
}

func (uc *AssessmentUsecase) Assign(ctx context.Context, employerID, applicationID uuid.UUID, expiresInHours int) (*AssignResult, error) {
	ttl := uc.defaultExpiry
	if expiresInHours != 0 {
		if expiresInHours < 1 || expiresInHours > maxExpiryHours {
			return nil, apperror.NewValidation("invalid expiry", map[string]string{
				"expiresInHours": "must be between 1 and 720",
			})
		}
		ttl = time.Duration(expiresInHours) * time.Hour
	}

	app, err := uc.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.EmployerID != employerID {
		return nil, apperror.Unauthorized("you can only assign tests for your own postings")
	}
	if err := uc.checkAssignable(ctx, app); err != nil {
		return nil, err
	}

	set, err := uc.generator.Generate(ctx, generator.NewRequest(app.PostingTitle, app.Skills))
	if err != nil {
		return nil, err
	}
	stored, err := question.Encode(set.Questions)
	if err != nil {
		return nil, apperror.Internal("failed to encode questions", err)
	}

	now := uc.now()
	token := uc.newToken()
	link := uc.frontendURL + "/test/" + token
	expiry := now.Add(ttl)
	record := &model.Assessment{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		EmployerID:    app.EmployerID,
		PostingID:     app.PostingID,
		Token:         token,
		TestLink:      link,
		TestExpiry:    expiry,
		Questions:     stored,
		Provider:      set.Provider,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.uow.Transaction(ctx, func(repos repository.Repos) error {
		current, err := repos.Applications.FindByID(ctx, app.ID)
		if err != nil {
			return err
		}
		if err := transition(current, model.StatusTestAssigned); err != nil {
			return err
		}
		if err := repos.Assessments.DeleteByApplicationID(ctx, app.ID); err != nil {
			return err
		}
		if err := repos.Assessments.Create(ctx, record); err != nil {
			if apperror.Is(err, apperror.KindInvalidState) {
				return apperror.New(apperror.KindInvalidState, "a test is already assigned to this application", err)
			}
			return err
		}
		current.ClearTest()
		current.TestLink = &link
		current.TestExpiry = &expiry
		current.UpdatedAt = now
		if err := repos.Applications.Save(ctx, current); err != nil {
			return err
		}
		app = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	notify(ctx, uc.notifier, app.CandidateEmail, func() (notification.Message, error) {
		return notification.TestAssigned(link, expiry)
	})

	return &AssignResult{
		TestID:     record.ID,
		Token:      token,
		TestLink:   link,
		TestExpiry: expiry,
		Provider:   set.Provider,
		Questions:  question.Sanitize(set.Questions),
	}, nil
}

// checkAssignable refuses terminal applications and ones with a live test.
// An expired, unsubmitted test may be replaced.
func (uc *AssessmentUsecase) checkAssignable(ctx context.Context, app *model.Application) error {
	if !canTransition(app.Status, model.StatusTestAssigned) {
		return apperror.InvalidState("cannot assign a test to a " + string(app.Status) + " application")
	}
	existing, err := uc.assessments.FindByApplicationID(ctx, app.ID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil
		}
		return err
	}
	if !existing.IsExpired(uc.now()) {
		return apperror.InvalidState("a test is already assigned to this application")
	}
	return nil
}

func (uc *AssessmentUsecase) Preview(ctx context.Context, title string, skills []string) (*PreviewResult, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperror.NewValidation("title is required", map[string]string{"title": "required"})
	}
	set, err := uc.generator.Preview(ctx, generator.NewRequest(title, skills))
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Provider: set.Provider, Questions: question.Sanitize(set.Questions)}, nil
}

func (uc *AssessmentUsecase) Fetch(ctx context.Context, token string) (*TestView, error) {
	record, err := uc.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	qs, err := record.DecodeQuestions()
	if err != nil {
		return nil, apperror.Internal("stored questions are corrupt", err)
	}

	view := &TestView{
		Title:       "Internship",
		TestExpiry:  record.TestExpiry,
		Expired:     record.IsExpired(uc.now()),
		Submitted:   record.IsSubmitted(),
		Questions:   question.Sanitize(qs),
		Score:       record.Score,
		Result:      record.Result,
		SubmittedAt: record.SubmittedAt,
	}
	if app, err := uc.applications.FindByID(ctx, record.ApplicationID); err == nil && app.PostingTitle != "" {
		view.Title = app.PostingTitle
	}
	if record.IsSubmitted() {
		view.Answers = record.Answers
		view.Correctness = record.Correctness
		view.Solutions = question.Solutions(qs)
	}
	return view, nil
}

func (uc *AssessmentUsecase) Submit(ctx context.Context, token string, answers []string) (*SubmitResult, error) {
	record, err := uc.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := checkOpen(record, uc.now()); err != nil {
		return nil, err
	}
	qs, err := record.DecodeQuestions()
	if err != nil {
		return nil, apperror.Internal("stored questions are corrupt", err)
	}

	aligned := alignAnswers(answers, len(qs))
	outcome := uc.scorer.Score(ctx, qs, aligned)

	now := uc.now()
	sub := model.Submission{
		Answers:     aligned,
		Correctness: outcome.Correctness,
		Score:       outcome.Score,
		Result:      string(outcome.Result),
		SubmittedAt: now,
		TestExpiry:  now.Add(-submittedExpiryOffset),
	}

	var app *model.Application
	err = uc.uow.Transaction(ctx, func(repos repository.Repos) error {
		if err := repos.Assessments.CompleteSubmission(ctx, token, sub); err != nil {
			return err
		}
		current, err := repos.Applications.FindByID(ctx, record.ApplicationID)
		if err != nil {
			return err
		}
		to := model.StatusRejected
		reason := "test failed"
		if outcome.Result == scoring.ResultPassed {
			to = model.StatusSelected
			reason = "test passed"
		}
		if err := transition(current, to); err != nil {
			return err
		}
		score := sub.Score
		result := sub.Result
		current.Answers = sub.Answers
		current.Score = &score
		current.Result = &result
		current.Reason = &reason
		current.TestExpiry = &sub.TestExpiry
		current.UpdatedAt = now
		if err := repos.Applications.Save(ctx, current); err != nil {
			return err
		}
		app = current
		return nil
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, uc.classifyConflict(ctx, token)
	}
	if err != nil {
		return nil, err
	}

	data := candidateData(app)
	data.Score = sub.Score
	if outcome.Result == scoring.ResultPassed {
		notify(ctx, uc.notifier, app.CandidateEmail, func() (notification.Message, error) { return notification.TestPassed(data) })
	} else {
		notify(ctx, uc.notifier, app.CandidateEmail, func() (notification.Message, error) { return notification.TestFailed(data) })
	}

	return &SubmitResult{
		Score:       sub.Score,
		Result:      sub.Result,
		Answers:     sub.Answers,
		Correctness: sub.Correctness,
		Solutions:   question.Solutions(qs),
	}, nil
}

// Reset discards a failed test so the employer can assign a new one.
func (uc *AssessmentUsecase) Reset(ctx context.Context, employerID, applicationID uuid.UUID) error {
	app, err := uc.applications.FindByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.EmployerID != employerID {
		return apperror.Unauthorized("you can only reset tests for your own postings")
	}
	if !app.HasFailedTest() {
		return apperror.InvalidState("reset allowed only for failed tests")
	}

	return uc.uow.Transaction(ctx, func(repos repository.Repos) error {
		current, err := repos.Applications.FindByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if !current.HasFailedTest() {
			return apperror.InvalidState("reset allowed only for failed tests")
		}
		if err := repos.Assessments.DeleteByApplicationID(ctx, applicationID); err != nil {
			return err
		}
		current.ClearTest()
		current.Status = model.StatusShortlisted
		current.UpdatedAt = uc.now()
		return repos.Applications.Save(ctx, current)
	})
}

func (uc *AssessmentUsecase) findByToken(ctx context.Context, token string) (*model.Assessment, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperror.NotFound("invalid test link")
	}
	return uc.assessments.FindByToken(ctx, token)
}

// classifyConflict explains why the conditional submit matched nothing.
func (uc *AssessmentUsecase) classifyConflict(ctx context.Context, token string) error {
	record, err := uc.assessments.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := checkOpen(record, uc.now()); err != nil {
		return err
	}
	log.Printf("submit for application %s lost a race without a visible winner", record.ApplicationID)
	return apperror.InvalidState("test already submitted")
}

func checkOpen(record *model.Assessment, now time.Time) error {
	if record.IsSubmitted() {
		return apperror.InvalidState("test already submitted")
	}
	if now.After(record.TestExpiry) {
		return apperror.InvalidState("test link expired")
	}
	return nil
}

// alignAnswers pads or trims answers to one per question.
func alignAnswers(answers []string, n int) []string {
	out := make([]string, n)
	copy(out, answers)
	return out
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"github.com/fadilmartias/talent-assessment/internal/generator"
	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/fadilmartias/talent-assessment/internal/repository"
	"github.com/fadilmartias/talent-assessment/internal/scoring"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memStore
	mail       *recordingDispatcher
	clock      *clock
	apps       *ApplicationUsecase
	tests      *AssessmentUsecase
	employerID uuid.UUID
	posting    model.Posting
	tokens     int
}

// objectiveSet has eight short answers whose keys are "secret-1".."secret-8".
func objectiveSet() []question.Question {
	qs := make([]question.Question, 0, 8)
	for i := 1; i <= 8; i++ {
		qs = append(qs, question.ShortAnswer{Text: fmt.Sprintf("question %d", i), AnswerKey: fmt.Sprintf("secret-%d", i)})
	}
	return qs
}

func answersWithCorrect(n int) []string {
	out := make([]string, 8)
	for i := range out {
		if i < n {
			out[i] = fmt.Sprintf(" SECRET-%d ", i+1)
		} else {
			out[i] = "wrong"
		}
	}
	return out
}

func newFixture(t *testing.T, gen generator.Generator) *fixture {
	t.Helper()
	if gen == nil {
		gen = fixedGenerator{set: generator.Set{Questions: objectiveSet(), Provider: "local-model"}}
	}
	f := &fixture{
		store:      newMemStore(),
		mail:       &recordingDispatcher{},
		clock:      &clock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)},
		employerID: uuid.New(),
	}
	f.posting = model.Posting{
		ID:          uuid.New(),
		EmployerID:  f.employerID,
		Title:       "Backend Intern",
		Type:        "Paid",
		CompanyName: "Acme",
		Skills:      []string{"Go", "SQL", "Docker", "Redis"},
		Status:      "active",
	}
	f.store.postings[f.posting.ID] = f.posting

	f.apps = NewApplicationUsecase(f.store.Applications(), f.store.Postings(), f.mail)
	f.apps.now = f.clock.Now

	f.tests = NewAssessmentUsecase(
		f.store.Applications(),
		f.store.Assessments(),
		f.store,
		gen,
		scoring.NewEngine(nil),
		f.mail,
		"http://localhost:5173/",
		24*time.Hour,
	)
	f.tests.now = f.clock.Now
	f.tests.newToken = func() string {
		f.tokens++
		return fmt.Sprintf("token-%d", f.tokens)
	}
	return f
}

func (f *fixture) apply(t *testing.T) *model.Application {
	t.Helper()
	app, err := f.apps.Apply(context.Background(), ApplyInput{
		PostingID:      f.posting.ID,
		CandidateID:    uuid.New(),
		CandidateName:  "Ayu",
		CandidateEmail: "ayu@example.com",
		Skills:         []string{"go", "sql"},
	})
	require.NoError(t, err)
	return app
}

func TestApplySnapshotsPosting(t *testing.T) {
	f := newFixture(t, nil)

	app := f.apply(t)

	assert.Equal(t, model.StatusPending, app.Status)
	assert.Equal(t, f.employerID, app.EmployerID)
	assert.Equal(t, "Backend Intern", app.PostingTitle)
	assert.Equal(t, "Acme", app.CompanyName)
	assert.Equal(t, float64(50), app.MatchScore)
}

func TestApplyTwiceFails(t *testing.T) {
	f := newFixture(t, nil)
	app := f.apply(t)

	_, err := f.apps.Apply(context.Background(), ApplyInput{PostingID: f.posting.ID, CandidateID: app.CandidateID})

	assert.True(t, apperror.Is(err, apperror.KindInvalidState))
	assert.ErrorContains(t, err, "already applied")
}

func TestApplyAfterWithdrawIsAllowed(t *testing.T) {
	f := newFixture(t, nil)
	app := f.apply(t)
	_, err := f.apps.Withdraw(context.Background(), app.CandidateID, app.ID)
	require.NoError(t, err)

	_, err = f.apps.Apply(context.Background(), ApplyInput{PostingID: f.posting.ID, CandidateID: app.CandidateID})
	assert.NoError(t, err)
}

func TestApplyToClosedPosting(t *testing.T) {
	f := newFixture(t, nil)
	p := f.posting
	p.Status = "closed"
	f.store.postings[p.ID] = p

	_, err := f.apps.Apply(context.Background(), ApplyInput{PostingID: p.ID, CandidateID: uuid.New()})
	assert.True(t, apperror.Is(err, apperror.KindInvalidState))

	_, err = f.apps.Apply(context.Background(), ApplyInput{PostingID: uuid.New(), CandidateID: uuid.New()})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestShortlistRecordsReviewAndNotifies(t *testing.T) {
	f := newFixture(t, nil)
	app := f.apply(t)

	got, err := f.apps.Shortlist(context.Background(), f.employerID, app.ID, "  strong SQL  ")

	require.NoError(t, err)
	assert.Equal(t, model.StatusShortlisted, got.Status)
	assert.Equal(t, "strong SQL", got.EmployerNotes)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, f.employerID, *got.ReviewedBy)
	assert.Equal(t, f.clock.Now(), *got.ReviewedAt)
	assert.Equal(t, []string{"Application Shortlisted"}, f.mail.subjects())
}

func TestEmployerActionsRequireOwnership(t *testing.T) {
	f := newFixture(t, nil)
	app := f.apply(t)
	stranger := uuid.New()

	for name, action := range map[string]func() (*model.Application, error){
		"review":    func() (*model.Application, error) { return f.apps.Review(context.Background(), stranger, app.ID, "") },
		"shortlist": func() (*model.Application, error) { return f.apps.Shortlist(context.Background(), stranger, app.ID, "") },
		"reject":    func() (*model.Application, error) { return f.apps.Reject(context.Background(), stranger, app.ID, "") },
		"accept":    func() (*model.Application, error) { return f.apps.Accept(context.Background(), stranger, app.ID, "") },
	} {
		_, err := action()
		assert.True(t, apperror.Is(err, apperror.KindUnauthorized), name)
	}
	assert.Equal(t, model.StatusPending, f.store.app(app.ID).Status)

	_, err := f.apps.Withdraw(context.Background(), stranger, app.ID)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = f.apps.Get(context.Background(), stranger, app.ID)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestTerminalApplicationsCannotMove(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	rejected := f.apply(t)
	_, err := f.apps.Reject(ctx, f.employerID, rejected.ID, "")
	require.NoError(t, err)

	_, err = f.apps.Shortlist(ctx, f.employerID, rejected.ID, "")
	assert.True(t, apperror.Is(err, apperror.KindInvalidState))
	_, err = f.apps.Withdraw(ctx, rejected.CandidateID, rejected.ID)
	assert.True(t, apperror.Is(err, apperror.KindInvalidState))
	_, err = f.apps.Reject(ctx, f.employerID, rejected.ID, "")
	assert.True(t, apperror.Is(err, apperror.KindInvalidState))

	shortlisted := f.apply(t)
	_, err = f.apps.Shortlist(ctx, f.employerID, shortlisted.ID, "")
	require.NoError(t, err)
	_, err = f.apps.Review(ctx, f.employerID, shortlisted.ID, "")
	assert.True(t, apperror.Is(err, apperror.KindInvalidState), "review only applies to pending")
}

func TestAcceptOverridesSelected(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	app := f.apply(t)

	assigned, err := f.tests.Assign(ctx, f.employerID, app.ID, 0)
	require.NoError(t, err)
	_, err = f.tests.Submit(ctx, assigned.Token, answersWithCorrect(8))
	require.NoError(t, err)
	require.Equal(t, model.StatusSelected, f.store.app(app.ID).Status)

	got, err := f.apps.Accept(ctx, f.employerID, app.ID, "welcome aboard")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, got.Status)
}

func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t, nil)
	f.mail.err = errors.New("smtp down")
	app := f.apply(t)

	got, err := f.apps.Reject(context.Background(), f.employerID, app.ID, "")

	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	assert.Equal(t, model.StatusRejected, f.store.app(app.ID).Status)
}

func TestListsAreScopedToCaller(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	first := f.apply(t)
	f.clock.Advance(time.Minute)
	second := f.apply(t)
	_, err := f.apps.Shortlist(ctx, f.employerID, second.ID, "")
	require.NoError(t, err)

	all, total, err := f.apps.ListForEmployer(ctx, f.employerID, repository.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	shortlisted, _, err := f.apps.ListForEmployer(ctx, f.employerID, repository.ListFilter{Status: model.StatusShortlisted})
	require.NoError(t, err)
	require.Len(t, shortlisted, 1)
	assert.Equal(t, second.ID, shortlisted[0].ID)

	mine, _, err := f.apps.ListForCandidate(ctx, first.CandidateID, repository.ListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	_, _, err = f.apps.ListForEmployer(ctx, f.employerID, repository.ListFilter{Status: "hired"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestMatchScore(t *testing.T) {
	assert.Equal(t, float64(0), matchScore(nil, []string{"go"}))
	assert.Equal(t, float64(100), matchScore([]string{"Go", " SQL"}, []string{"sql", "go", "k8s"}))
	assert.Equal(t, float64(33), matchScore([]string{"a", "b", "c"}, []string{"a"}))
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, canTransition(model.StatusPending, model.StatusShortlisted))
	assert.True(t, canTransition(model.StatusTestAssigned, model.StatusSelected))
	assert.True(t, canTransition(model.StatusSelected, model.StatusAccepted))
	assert.False(t, canTransition(model.StatusSelected, model.StatusRejected))
	assert.False(t, canTransition(model.StatusWithdrawn, model.StatusPending))
	assert.False(t, canTransition(model.StatusRejected, model.StatusShortlisted))
	for _, s := range []model.ApplicationStatus{model.StatusRejected, model.StatusAccepted, model.StatusWithdrawn} {
		assert.Empty(t, transitions[s], s)
	}
}

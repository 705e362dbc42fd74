package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"github.com/fadilmartias/talent-assessment/internal/generator"
	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/fadilmartias/talent-assessment/internal/repository"
	"github.com/google/uuid"
)

// memStore backs every repository interface with maps. Transactions are
// serialized and roll back by restoring a snapshot.
type memStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	apps        map[uuid.UUID]model.Application
	assessments map[string]model.Assessment
	postings    map[uuid.UUID]model.Posting
	failSave    error
}

func newMemStore() *memStore {
	return &memStore{
		apps:        map[uuid.UUID]model.Application{},
		assessments: map[string]model.Assessment{},
		postings:    map[uuid.UUID]model.Posting{},
	}
}

type memApplications struct{ s *memStore }
type memAssessments struct{ s *memStore }
type memPostings struct{ s *memStore }

func (s *memStore) Applications() *memApplications { return &memApplications{s} }
func (s *memStore) Assessments() *memAssessments   { return &memAssessments{s} }
func (s *memStore) Postings() *memPostings         { return &memPostings{s} }

func (s *memStore) Transaction(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	apps := make(map[uuid.UUID]model.Application, len(s.apps))
	for k, v := range s.apps {
		apps[k] = v
	}
	tests := make(map[string]model.Assessment, len(s.assessments))
	for k, v := range s.assessments {
		tests[k] = v
	}
	s.mu.Unlock()

	err := fn(repository.Repos{Applications: s.Applications(), Assessments: s.Assessments()})
	if err != nil {
		s.mu.Lock()
		s.apps, s.assessments = apps, tests
		s.mu.Unlock()
	}
	return err
}

func (s *memStore) app(id uuid.UUID) model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps[id]
}

func (s *memStore) assessmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assessments)
}

func (r *memApplications) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	app, ok := r.s.apps[id]
	if !ok {
		return nil, apperror.NotFound("application not found")
	}
	return &app, nil
}

func (r *memApplications) Create(ctx context.Context, app *model.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.apps {
		if existing.PostingID == app.PostingID && existing.CandidateID == app.CandidateID && existing.Status != model.StatusWithdrawn {
			return apperror.InvalidState("record already exists")
		}
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	r.s.apps[app.ID] = *app
	return nil
}

func (r *memApplications) Save(ctx context.Context, app *model.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSave != nil {
		return r.s.failSave
	}
	r.s.apps[app.ID] = *app
	return nil
}

func (r *memApplications) ListByEmployer(ctx context.Context, employerID uuid.UUID, filter repository.ListFilter) ([]model.Application, int64, error) {
	return r.list(func(a model.Application) bool { return a.EmployerID == employerID }, filter)
}

func (r *memApplications) ListByCandidate(ctx context.Context, candidateID uuid.UUID, filter repository.ListFilter) ([]model.Application, int64, error) {
	return r.list(func(a model.Application) bool { return a.CandidateID == candidateID }, filter)
}

func (r *memApplications) list(match func(model.Application) bool, filter repository.ListFilter) ([]model.Application, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Application
	for _, a := range r.s.apps {
		if match(a) && (filter.Status == "" || a.Status == filter.Status) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memAssessments) Create(ctx context.Context, a *model.Assessment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.assessments {
		if existing.ApplicationID == a.ApplicationID {
			return apperror.InvalidState("record already exists")
		}
	}
	r.s.assessments[a.Token] = *a
	return nil
}

func (r *memAssessments) FindByToken(ctx context.Context, token string) (*model.Assessment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assessments[token]
	if !ok {
		return nil, apperror.NotFound("invalid test link")
	}
	return &a, nil
}

func (r *memAssessments) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.Assessment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.assessments {
		if a.ApplicationID == applicationID {
			return &a, nil
		}
	}
	return nil, apperror.NotFound("test not found")
}

func (r *memAssessments) CompleteSubmission(ctx context.Context, token string, sub model.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assessments[token]
	if !ok || a.SubmittedAt != nil || !a.TestExpiry.After(sub.SubmittedAt) {
		return repository.ErrConflict
	}
	score, result, at := sub.Score, sub.Result, sub.SubmittedAt
	a.Answers = sub.Answers
	a.Correctness = sub.Correctness
	a.Score = &score
	a.Result = &result
	a.SubmittedAt = &at
	a.TestExpiry = sub.TestExpiry
	r.s.assessments[token] = a
	return nil
}

func (r *memAssessments) DeleteByApplicationID(ctx context.Context, applicationID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for token, a := range r.s.assessments {
		if a.ApplicationID == applicationID {
			delete(r.s.assessments, token)
		}
	}
	return nil
}

func (r *memPostings) FindByID(ctx context.Context, id uuid.UUID) (*model.Posting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.postings[id]
	if !ok {
		return nil, apperror.NotFound("posting not found")
	}
	return &p, nil
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (d *recordingDispatcher) Send(ctx context.Context, to, subject, html string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMail{To: to, Subject: subject, HTML: html})
	return d.err
}

func (d *recordingDispatcher) subjects() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, m := range d.sent {
		out = append(out, m.Subject)
	}
	return out
}

type fixedGenerator struct {
	set generator.Set
	err error
}

func (g fixedGenerator) Generate(ctx context.Context, req generator.Request) (generator.Set, error) {
	return g.set, g.err
}

func (g fixedGenerator) Preview(ctx context.Context, req generator.Request) (generator.Set, error) {
	return g.set, g.err
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errDiskFull = errors.New("disk full")

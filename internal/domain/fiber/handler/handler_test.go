package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"github.com/fadilmartias/talent-assessment/internal/middleware"
	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/fadilmartias/talent-assessment/internal/repository"
	"github.com/fadilmartias/talent-assessment/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-secret"

type stubAssessments struct {
	assignErr   error
	submitErr   error
	fetchErr    error
	gotEmployer uuid.UUID
	gotAnswers  []string
	gotHours    int
	resetCalled bool
}

func (s *stubAssessments) Assign(ctx context.Context, employerID, applicationID uuid.UUID, hours int) (*usecase.AssignResult, error) {
	s.gotEmployer, s.gotHours = employerID, hours
	if s.assignErr != nil {
		return nil, s.assignErr
	}
	return &usecase.AssignResult{
		TestID:     uuid.New(),
		Token:      "tok",
		TestLink:   "http://localhost:5173/test/tok",
		TestExpiry: time.Now().Add(24 * time.Hour),
		Provider:   "static",
		Questions:  question.Sanitize([]question.Question{question.ShortAnswer{Text: "SQL?", AnswerKey: "SELECT"}}),
	}, nil
}

func (s *stubAssessments) Preview(ctx context.Context, title string, skills []string) (*usecase.PreviewResult, error) {
	return &usecase.PreviewResult{Provider: "hosted-model"}, nil
}

func (s *stubAssessments) Fetch(ctx context.Context, token string) (*usecase.TestView, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return &usecase.TestView{Title: "Backend Intern"}, nil
}

func (s *stubAssessments) Submit(ctx context.Context, token string, answers []string) (*usecase.SubmitResult, error) {
	s.gotAnswers = answers
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &usecase.SubmitResult{Score: 60, Result: "Passed"}, nil
}

func (s *stubAssessments) Reset(ctx context.Context, employerID, applicationID uuid.UUID) error {
	s.resetCalled = true
	return nil
}

type stubApplications struct {
	listedAs string
	filter   repository.ListFilter
	err      error
}

func (s *stubApplications) app(status model.ApplicationStatus) *model.Application {
	return &model.Application{ID: uuid.New(), Status: status, PostingTitle: "Backend Intern"}
}

func (s *stubApplications) Apply(ctx context.Context, in usecase.ApplyInput) (*model.Application, error) {
	if s.err != nil {
		return nil, s.err
	}
	app := s.app(model.StatusPending)
	app.CandidateName, app.CandidateEmail = in.CandidateName, in.CandidateEmail
	return app, nil
}

func (s *stubApplications) Review(ctx context.Context, employerID, id uuid.UUID, notes string) (*model.Application, error) {
	return s.app(model.StatusReviewed), s.err
}

func (s *stubApplications) Shortlist(ctx context.Context, employerID, id uuid.UUID, notes string) (*model.Application, error) {
	if s.err != nil {
		return nil, s.err
	}
	app := s.app(model.StatusShortlisted)
	app.EmployerNotes = notes
	return app, nil
}

func (s *stubApplications) Reject(ctx context.Context, employerID, id uuid.UUID, notes string) (*model.Application, error) {
	return s.app(model.StatusRejected), s.err
}

func (s *stubApplications) Accept(ctx context.Context, employerID, id uuid.UUID, notes string) (*model.Application, error) {
	return s.app(model.StatusAccepted), s.err
}

func (s *stubApplications) Withdraw(ctx context.Context, candidateID, id uuid.UUID) (*model.Application, error) {
	return s.app(model.StatusWithdrawn), s.err
}

func (s *stubApplications) Get(ctx context.Context, userID, id uuid.UUID) (*model.Application, error) {
	return s.app(model.StatusPending), s.err
}

func (s *stubApplications) ListForEmployer(ctx context.Context, employerID uuid.UUID, filter repository.ListFilter) ([]model.Application, int64, error) {
	s.listedAs, s.filter = "employer", filter
	return []model.Application{*s.app(model.StatusPending)}, 21, nil
}

func (s *stubApplications) ListForCandidate(ctx context.Context, candidateID uuid.UUID, filter repository.ListFilter) ([]model.Application, int64, error) {
	s.listedAs, s.filter = "candidate", filter
	return nil, 0, nil
}

func newTestApp(tests *stubAssessments, apps *stubApplications) *fiber.App {
	app := fiber.New()
	auth := middleware.Auth(testSecret)
	NewAssessmentHandler(tests, auth, func(c *fiber.Ctx) error { return c.Next() }).RegisterRoutes(app)
	NewApplicationHandler(apps, auth).RegisterRoutes(app)
	return app
}

func bearer(t *testing.T, role string) (string, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: id.String(),
		Email:  "user@example.com",
		Name:   "Ayu",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token, id
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Kind       string          `json:"kind"`
	Data       json.RawMessage `json:"data"`
	Details    map[string]any  `json:"details"`
	Pagination map[string]any  `json:"pagination"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestAssignRequiresEmployer(t *testing.T) {
	app := newTestApp(&stubAssessments{}, &stubApplications{})
	body := map[string]any{"applicationId": uuid.NewString()}

	status, _ := call(t, app, fiber.MethodPost, "/api/tests/assign", "", body)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	candidate, _ := bearer(t, middleware.RoleJobseeker)
	status, _ = call(t, app, fiber.MethodPost, "/api/tests/assign", candidate, body)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestAssignReturnsSanitizedQuestions(t *testing.T) {
	tests := &stubAssessments{}
	app := newTestApp(tests, &stubApplications{})
	token, employerID := bearer(t, middleware.RoleEmployer)

	status, env := call(t, app, fiber.MethodPost, "/api/tests/assign", token, map[string]any{
		"applicationId":  uuid.NewString(),
		"expiresInHours": 48,
	})

	require.Equal(t, fiber.StatusCreated, status)
	assert.True(t, env.Success)
	assert.Equal(t, employerID, tests.gotEmployer)
	assert.Equal(t, 48, tests.gotHours)
	assert.Contains(t, string(env.Data), `"token":"tok"`)
	assert.NotContains(t, string(env.Data), "SELECT")
}

func TestAssignValidation(t *testing.T) {
	app := newTestApp(&stubAssessments{}, &stubApplications{})
	token, _ := bearer(t, middleware.RoleCompany)

	status, env := call(t, app, fiber.MethodPost, "/api/tests/assign", token, map[string]any{"applicationId": "abc"})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "validation", env.Kind)
	assert.Equal(t, "must be a UUID", env.Details["applicationId"])
}

func TestErrorKindsMapToStatus(t *testing.T) {
	token, _ := bearer(t, middleware.RoleEmployer)
	cases := []struct {
		err  error
		want int
	}{
		{apperror.NotFound("application not found"), fiber.StatusNotFound},
		{apperror.Unauthorized("not yours"), fiber.StatusForbidden},
		{apperror.InvalidState("already assigned"), fiber.StatusConflict},
		{apperror.New(apperror.KindGenerationExhausted, "all question providers failed", nil), fiber.StatusServiceUnavailable},
		{apperror.Internal("database error", assert.AnError), fiber.StatusInternalServerError},
		{assert.AnError, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := newTestApp(&stubAssessments{assignErr: tc.err}, &stubApplications{})
		status, env := call(t, app, fiber.MethodPost, "/api/tests/assign", token, map[string]any{"applicationId": uuid.NewString()})
		assert.Equal(t, tc.want, status, tc.err.Error())
		assert.False(t, env.Success)
	}
}

func TestSubmitIsPublic(t *testing.T) {
	tests := &stubAssessments{}
	app := newTestApp(tests, &stubApplications{})

	status, env := call(t, app, fiber.MethodPost, "/api/tests/submit", "", map[string]any{
		"token":   "tok",
		"answers": []string{"map", "SELECT"},
	})

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{"map", "SELECT"}, tests.gotAnswers)
	assert.JSONEq(t, `{"score":60,"result":"Passed","answers":null,"correctness":null,"solutions":null}`, string(env.Data))
}

func TestSubmitValidationAndConflict(t *testing.T) {
	app := newTestApp(&stubAssessments{}, &stubApplications{})
	status, env := call(t, app, fiber.MethodPost, "/api/tests/submit", "", map[string]any{"token": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Details, "token")
	assert.Contains(t, env.Details, "answers")

	app = newTestApp(&stubAssessments{submitErr: apperror.InvalidState("test already submitted")}, &stubApplications{})
	status, env = call(t, app, fiber.MethodPost, "/api/tests/submit", "", map[string]any{"token": "tok", "answers": []string{}})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "test already submitted", env.Message)
}

func TestFetch(t *testing.T) {
	app := newTestApp(&stubAssessments{}, &stubApplications{})
	status, env := call(t, app, fiber.MethodGet, "/api/tests/tok", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), "Backend Intern")

	app = newTestApp(&stubAssessments{fetchErr: apperror.NotFound("invalid test link")}, &stubApplications{})
	status, _ = call(t, app, fiber.MethodGet, "/api/tests/unknown", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestReset(t *testing.T) {
	tests := &stubAssessments{}
	app := newTestApp(tests, &stubApplications{})
	token, _ := bearer(t, middleware.RoleEmployer)

	status, _ := call(t, app, fiber.MethodPost, "/api/tests/reset", token, map[string]any{"applicationId": uuid.NewString()})

	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, tests.resetCalled)
}

func TestApplyUsesTokenIdentity(t *testing.T) {
	app := newTestApp(&stubAssessments{}, &stubApplications{})
	candidate, _ := bearer(t, middleware.RoleJobseeker)

	status, env := call(t, app, fiber.MethodPost, "/api/applications", candidate, map[string]any{"postingId": uuid.NewString()})

	require.Equal(t, fiber.StatusCreated, status)
	assert.Contains(t, string(env.Data), `"candidateEmail":"user@example.com"`)

	employer, _ := bearer(t, middleware.RoleEmployer)
	status, _ = call(t, app, fiber.MethodPost, "/api/applications", employer, map[string]any{"postingId": uuid.NewString()})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestListByRole(t *testing.T) {
	apps := &stubApplications{}
	app := newTestApp(&stubAssessments{}, apps)
	employer, _ := bearer(t, middleware.RoleEmployer)

	status, env := call(t, app, fiber.MethodGet, "/api/applications?status=shortlisted&page=2&page_size=10", employer, nil)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "employer", apps.listedAs)
	assert.Equal(t, model.StatusShortlisted, apps.filter.Status)
	assert.EqualValues(t, 3, env.Pagination["total_pages"])
	assert.EqualValues(t, 11, env.Pagination["from"])
	assert.Equal(t, true, env.Pagination["has_more"])

	candidate, _ := bearer(t, middleware.RoleJobseeker)
	status, _ = call(t, app, fiber.MethodGet, "/api/applications", candidate, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "candidate", apps.listedAs)
}

func TestDecisionRoutes(t *testing.T) {
	app := newTestApp(&stubAssessments{}, &stubApplications{})
	employer, _ := bearer(t, middleware.RoleEmployer)
	id := uuid.NewString()

	status, env := call(t, app, fiber.MethodPost, "/api/applications/"+id+"/shortlist", employer, map[string]any{"notes": "good fit"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"employerNotes":"good fit"`)

	status, _ = call(t, app, fiber.MethodPost, "/api/applications/"+id+"/reject", employer, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, fiber.MethodPost, "/api/applications/not-a-uuid/accept", employer, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	candidate, _ := bearer(t, middleware.RoleJobseeker)
	status, _ = call(t, app, fiber.MethodPost, "/api/applications/"+id+"/review", candidate, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, fiber.MethodPost, "/api/applications/"+id+"/withdraw", candidate, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

package usecase

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/fadilmartias/talent-assessment/internal/notification"
	"github.com/fadilmartias/talent-assessment/internal/repository"
	"github.com/google/uuid"
)

type ApplyInput struct {
	PostingID      uuid.UUID
	CandidateID    uuid.UUID
	CandidateName  string
	CandidateEmail string
	Skills         []string
}

type ApplicationUsecase struct {
	applications repository.ApplicationRepositoryInterface
	postings     repository.PostingRepositoryInterface
	notifier     notification.Dispatcher
	now          func() time.Time
}

func NewApplicationUsecase(applications repository.ApplicationRepositoryInterface, postings repository.PostingRepositoryInterface, notifier notification.Dispatcher) *ApplicationUsecase {
	return &ApplicationUsecase{applications: applications, postings: postings, notifier: notifier, now: time.Now}
}

func (uc *ApplicationUsecase) Apply(ctx context.Context, in ApplyInput) (*model.Application, error) {
	posting, err := uc.postings.FindByID(ctx, in.PostingID)
	if err != nil {
		return nil, err
	}
	if !posting.IsOpen() {
		return nil, apperror.InvalidState("posting is not accepting applications")
	}
	if posting.EmployerID == in.CandidateID {
		return nil, apperror.Unauthorized("you cannot apply to your own posting")
	}

	app := &model.Application{
		PostingID:      posting.ID,
		CandidateID:    in.CandidateID,
		EmployerID:     posting.EmployerID,
		PostingTitle:   posting.Title,
		PostingType:    posting.Type,
		CompanyName:    posting.CompanyName,
		CandidateName:  in.CandidateName,
		CandidateEmail: in.CandidateEmail,
		Skills:         in.Skills,
		Status:         model.StatusPending,
		MatchScore:     matchScore(posting.Skills, in.Skills),
	}
	if err := uc.applications.Create(ctx, app); err != nil {
		if apperror.Is(err, apperror.KindInvalidState) {
			return nil, apperror.New(apperror.KindInvalidState, "you have already applied to this posting", err)
		}
		return nil, err
	}
	return app, nil
}

// Review marks a pending application as seen by the employer.
func (uc *ApplicationUsecase) Review(ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error) {
	return uc.decide(ctx, employerID, applicationID, model.StatusReviewed, notes, nil)
}

func (uc *ApplicationUsecase) Shortlist(ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error) {
	return uc.decide(ctx, employerID, applicationID, model.StatusShortlisted, notes, notification.Shortlisted)
}

func (uc *ApplicationUsecase) Reject(ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error) {
	return uc.decide(ctx, employerID, applicationID, model.StatusRejected, notes, notification.Rejected)
}

// Accept is the employer override that skips testing.
func (uc *ApplicationUsecase) Accept(ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error) {
	return uc.decide(ctx, employerID, applicationID, model.StatusAccepted, notes, notification.Accepted)
}

func (uc *ApplicationUsecase) Withdraw(ctx context.Context, candidateID, applicationID uuid.UUID) (*model.Application, error) {
	app, err := uc.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CandidateID != candidateID {
		return nil, apperror.Unauthorized("you can only withdraw your own applications")
	}
	if err := transition(app, model.StatusWithdrawn); err != nil {
		return nil, err
	}
	app.UpdatedAt = uc.now()
	if err := uc.applications.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Get returns the application to its candidate or its employer.
func (uc *ApplicationUsecase) Get(ctx context.Context, userID, applicationID uuid.UUID) (*model.Application, error) {
	app, err := uc.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CandidateID != userID && app.EmployerID != userID {
		return nil, apperror.Unauthorized("you do not have access to this application")
	}
	return app, nil
}

func (uc *ApplicationUsecase) ListForEmployer(ctx context.Context, employerID uuid.UUID, filter repository.ListFilter) ([]model.Application, int64, error) {
	if err := validateStatusFilter(filter.Status); err != nil {
		return nil, 0, err
	}
	return uc.applications.ListByEmployer(ctx, employerID, filter)
}

func (uc *ApplicationUsecase) ListForCandidate(ctx context.Context, candidateID uuid.UUID, filter repository.ListFilter) ([]model.Application, int64, error) {
	if err := validateStatusFilter(filter.Status); err != nil {
		return nil, 0, err
	}
	return uc.applications.ListByCandidate(ctx, candidateID, filter)
}

type messageFunc func(notification.Data) (notification.Message, error)

func (uc *ApplicationUsecase) decide(ctx context.Context, employerID, applicationID uuid.UUID, to model.ApplicationStatus, notes string, msg messageFunc) (*model.Application, error) {
	app, err := uc.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.EmployerID != employerID {
		return nil, apperror.Unauthorized("you can only manage applications for your own postings")
	}
	if err := transition(app, to); err != nil {
		return nil, err
	}

	now := uc.now()
	app.ReviewedBy = &employerID
	app.ReviewedAt = &now
	if notes = strings.TrimSpace(notes); notes != "" {
		app.EmployerNotes = notes
	}
	app.UpdatedAt = now
	if err := uc.applications.Save(ctx, app); err != nil {
		return nil, err
	}

	if msg != nil {
		notify(ctx, uc.notifier, app.CandidateEmail, func() (notification.Message, error) {
			return msg(candidateData(app))
		})
	}
	return app, nil
}

func transition(app *model.Application, to model.ApplicationStatus) error {
	if isTerminal(app.Status) && !canTransition(app.Status, to) {
		return apperror.InvalidState("application is already " + string(app.Status))
	}
	if !canTransition(app.Status, to) {
		return apperror.InvalidState("cannot move application from " + string(app.Status) + " to " + string(to))
	}
	app.Status = to
	return nil
}

func validateStatusFilter(s model.ApplicationStatus) error {
	if s == "" {
		return nil
	}
	if _, known := transitions[s]; known || isTerminal(s) {
		return nil
	}
	return apperror.NewValidation("invalid status filter", map[string]string{"status": "unknown status " + string(s)})
}

func candidateData(app *model.Application) notification.Data {
	return notification.Data{
		Name:    app.CandidateName,
		Title:   app.PostingTitle,
		Company: app.CompanyName,
		Type:    app.PostingType,
		Notes:   app.EmployerNotes,
	}
}

// notify sends best-effort mail. Failures are logged and never returned.
func notify(ctx context.Context, d notification.Dispatcher, to string, build func() (notification.Message, error)) {
	if d == nil || to == "" {
		return
	}
	msg, err := build()
	if err != nil {
		log.Printf("notification render failed for %s: %v", to, err)
		return
	}
	if err := d.Send(ctx, to, msg.Subject, msg.HTML); err != nil {
		log.Printf("notification %q to %s failed: %v", msg.Subject, to, err)
	}
}

// matchScore is the share of posting skills the candidate lists, 0-100.
func matchScore(required, offered []string) float64 {
	if len(required) == 0 {
		return 0
	}
	have := make(map[string]bool, len(offered))
	for _, s := range offered {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	hits := 0
	for _, s := range required {
		if have[strings.ToLower(strings.TrimSpace(s))] {
			hits++
		}
	}
	return math.Round(float64(hits) / float64(len(required)) * 100)
}

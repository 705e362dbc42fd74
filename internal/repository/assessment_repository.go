package repository

import (
	"context"

	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssessmentRepositoryInterface interface {
	Create(ctx context.Context, a *model.Assessment) error
	FindByToken(ctx context.Context, token string) (*model.Assessment, error)
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.Assessment, error)
	// CompleteSubmission writes sub only if the record is still unsubmitted and
	// unexpired at sub.SubmittedAt; otherwise it returns ErrConflict.
	CompleteSubmission(ctx context.Context, token string, sub model.Submission) error
	DeleteByApplicationID(ctx context.Context, applicationID uuid.UUID) error
}

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db}
}

func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(a).Error, "test not found")
}

func (r *AssessmentRepository) FindByToken(ctx context.Context, token string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.db.WithContext(ctx).First(&a, "token = ?", token).Error
	if err != nil {
		return nil, translate(err, "invalid test link")
	}
	return &a, nil
}

func (r *AssessmentRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.Assessment, error) {
	var a model.Assessment
	err := r.db.WithContext(ctx).First(&a, "application_id = ?", applicationID).Error
	if err != nil {
		return nil, translate(err, "test not found")
	}
	return &a, nil
}

func (r *AssessmentRepository) CompleteSubmission(ctx context.Context, token string, sub model.Submission) error {
	res := r.db.WithContext(ctx).
		Model(&model.Assessment{}).
		Where("token = ? AND submitted_at IS NULL AND test_expiry > ?", token, sub.SubmittedAt).
		Updates(map[string]any{
			"answers":      datatypes.NewJSONSlice(sub.Answers),
			"correctness":  datatypes.NewJSONSlice(sub.Correctness),
			"score":        sub.Score,
			"result":       sub.Result,
			"submitted_at": sub.SubmittedAt,
			"test_expiry":  sub.TestExpiry,
			"updated_at":   sub.SubmittedAt,
		})
	if res.Error != nil {
		return translate(res.Error, "invalid test link")
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *AssessmentRepository) DeleteByApplicationID(ctx context.Context, applicationID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).Delete(&model.Assessment{}).Error
	return translate(err, "test not found")
}

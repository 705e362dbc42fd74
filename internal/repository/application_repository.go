package repository

import (
	"context"

	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status   model.ApplicationStatus
	Page     int
	PageSize int
}

// Normalized replaces an out-of-range page with 1 and page size with 10.
func (f ListFilter) Normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 10
	}
	return f
}

type ApplicationRepositoryInterface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Create(ctx context.Context, app *model.Application) error
	Save(ctx context.Context, app *model.Application) error
	ListByEmployer(ctx context.Context, employerID uuid.UUID, filter ListFilter) ([]model.Application, int64, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID, filter ListFilter) ([]model.Application, int64, error)
}

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db}
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "application not found")
	}
	return &app, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(app).Error, "application not found")
}

func (r *ApplicationRepository) Save(ctx context.Context, app *model.Application) error {
	return translate(r.db.WithContext(ctx).Save(app).Error, "application not found")
}

func (r *ApplicationRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID, filter ListFilter) ([]model.Application, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("employer_id = ?", employerID), filter)
}

func (r *ApplicationRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID, filter ListFilter) ([]model.Application, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("candidate_id = ?", candidateID), filter)
}

func (r *ApplicationRepository) list(ctx context.Context, q *gorm.DB, filter ListFilter) ([]model.Application, int64, error) {
	filter = filter.Normalized()
	q = q.Model(&model.Application{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "application not found")
	}

	var apps []model.Application
	err := q.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&apps).Error
	if err != nil {
		return nil, 0, translate(err, "application not found")
	}
	return apps, total, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos is the set of repositories bound to one transaction.
type Repos struct {
	Applications ApplicationRepositoryInterface
	Assessments  AssessmentRepositoryInterface
}

type UnitOfWork interface {
	Transaction(ctx context.Context, fn func(repos Repos) error) error
}

type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db}
}

func (u *GormUnitOfWork) Transaction(ctx context.Context, fn func(repos Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Applications: NewApplicationRepository(tx),
			Assessments:  NewAssessmentRepository(tx),
		})
	})
}

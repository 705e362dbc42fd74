package repository

import (
	"context"

	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostingRepositoryInterface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Posting, error)
}

type PostingRepository struct {
	db *gorm.DB
}

func NewPostingRepository(db *gorm.DB) *PostingRepository {
	return &PostingRepository{db}
}

func (r *PostingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Posting, error) {
	var p model.Posting
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "posting not found")
	}
	return &p, nil
}

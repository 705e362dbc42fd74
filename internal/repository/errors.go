package repository

import (
	"errors"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"gorm.io/gorm"
)

// ErrConflict is returned by conditional updates that matched no row.
var ErrConflict = errors.New("conditional update matched no rows")

func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.New(apperror.KindNotFound, notFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.New(apperror.KindInvalidState, "record already exists", err)
	default:
		return apperror.Internal("database error", err)
	}
}

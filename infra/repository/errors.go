package repository

import (
	"errors"

	"github.com/lensastro/astroapi/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors anywhere in err's chain to the
// matching domain error. Unknown errors are returned unchanged.
// Duplicate and foreign key errors are only produced when the connection is
// opened with gorm.Config.TranslateError.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}
	for current := err; current != nil; current = errors.Unwrap(current) {
		switch {
		case errors.Is(current, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(current, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		case errors.Is(current, gorm.ErrForeignKeyViolated):
			return domain.ErrValidation
		}
	}
	return err
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&model).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

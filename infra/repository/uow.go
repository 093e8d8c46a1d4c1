package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/lensastro/astroapi/pkg/repository"
	"github.com/lensastro/astroapi/pkg/repository/order"
	"github.com/lensastro/astroapi/pkg/repository/session"
	"github.com/lensastro/astroapi/pkg/repository/subscription"
	"github.com/lensastro/astroapi/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides a transaction boundary and repository access in one
// abstraction. Outside Do, repositories run on the plain connection pool.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*user.Repository)(nil)).Elem(): func(db *gorm.DB) any {
				return NewUserRepository(db)
			},
			reflect.TypeOf((*session.Repository)(nil)).Elem(): func(db *gorm.DB) any {
				return NewSessionRepository(db)
			},
			reflect.TypeOf((*order.Repository)(nil)).Elem(): func(db *gorm.DB) any {
				return NewOrderRepository(db)
			},
			reflect.TypeOf((*subscription.Repository)(nil)).Elem(): func(db *gorm.DB) any {
				return NewSubscriptionRepository(db)
			},
			reflect.TypeOf((*subscription.PlanRepository)(nil)).Elem(): func(db *gorm.DB) any {
				return NewPlanRepository(db)
			},
		},
	}
}

// Do runs fn in a transaction, providing a UoW whose repositories share it.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository returns the repository registered for repoType, bound to the
// current transaction when inside Do.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	conn := u.tx
	if conn == nil {
		conn = u.db
	}
	return constructor(conn), nil
}

func (u *UoW) UserRepository() (user.Repository, error) {
	return getTyped[user.Repository](u)
}

func (u *UoW) SessionRepository() (session.Repository, error) {
	return getTyped[session.Repository](u)
}

func (u *UoW) OrderRepository() (order.Repository, error) {
	return getTyped[order.Repository](u)
}

func (u *UoW) SubscriptionRepository() (subscription.Repository, error) {
	return getTyped[subscription.Repository](u)
}

func (u *UoW) PlanRepository() (subscription.PlanRepository, error) {
	return getTyped[subscription.PlanRepository](u)
}

func getTyped[T any](u *UoW) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}

var _ repository.UnitOfWork = (*UoW)(nil)

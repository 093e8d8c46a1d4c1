package repository

import (
	"context"
	"reflect"

	"github.com/lensastro/astroapi/pkg/repository/order"
	"github.com/lensastro/astroapi/pkg/repository/session"
	"github.com/lensastro/astroapi/pkg/repository/subscription"
	"github.com/lensastro/astroapi/pkg/repository/user"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access. Repositories obtained from the UnitOfWork passed to Do
// share that transaction.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error,
	// the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested type, bound to the
	// current transaction or session.
	//   repoAny, err := uow.GetRepository(reflect.TypeOf((*user.Repository)(nil)).Elem())
	GetRepository(repoType reflect.Type) (any, error)

	UserRepository() (user.Repository, error)
	SessionRepository() (session.Repository, error)
	OrderRepository() (order.Repository, error)
	SubscriptionRepository() (subscription.Repository, error)
	PlanRepository() (subscription.PlanRepository, error)
}

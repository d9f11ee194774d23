package unitofwork

import "context"

// RepositoryFactory hands out units of work. The gorm and in-memory backends
// both implement it.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

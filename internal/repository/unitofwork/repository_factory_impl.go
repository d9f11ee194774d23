package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type gormFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &gormFactory{db: db}
}

// NewUnitOfWork binds ctx to every statement the unit runs. Callers create
// one unit per store operation.
func (f *gormFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db.WithContext(ctx))
}

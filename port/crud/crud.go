// Package crud defines the storage ports that the reference API persists its resources through,
// and that the test cases use to look records up after a request.
package crud

import "context"

type Creator[ENT any] interface {
	// Create stores the entity and updates its ID field through the pointer.
	Create(ctx context.Context, ptr *ENT) error
}

type Finder[ENT, ID any] interface {
	ByIDFinder[ENT, ID]
	AllFinder[ENT]
}

type ByIDFinder[ENT, ID any] interface {
	// FindByID tries to find an ENT using its ID.
	// Instead of an error, the found boolean reports a missing entity.
	FindByID(ctx context.Context, id ID) (ent ENT, found bool, err error)
}

type AllFinder[ENT any] interface {
	// FindAll returns every stored ENT, ordered by their ID.
	FindAll(ctx context.Context) ([]ENT, error)
}

type Updater[ENT any] interface {
	// Update replaces the stored entity with the received one.
	// The ENT must have an ID which references an existing entity, else ErrNotFound is returned.
	Update(ctx context.Context, ptr *ENT) error
}

type ByIDDeleter[ID any] interface {
	// DeleteByID removes the entity with the given ID.
	// Deleting a missing entity yields ErrNotFound.
	DeleteByID(ctx context.Context, id ID) error
}

type Repository[ENT, ID any] interface {
	Creator[ENT]
	Finder[ENT, ID]
	Updater[ENT]
	ByIDDeleter[ID]
}

// ByIDFinderFunc is a function based ByIDFinder.
type ByIDFinderFunc[ENT, ID any] func(ctx context.Context, id ID) (ENT, bool, error)

func (fn ByIDFinderFunc[ENT, ID]) FindByID(ctx context.Context, id ID) (ENT, bool, error) {
	return fn(ctx, id)
}

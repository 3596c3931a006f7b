package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"go.llib.dev/frameless/pkg/errorkit"

	"go.llib.dev/restassured/port/crud"
	"go.llib.dev/restassured/port/crud/extid"
)

const ErrMissingID errorkit.Error = "ErrMissingID"

func NewRepository[ENT any, ID cmp.Ordered](ida extid.Accessor[ENT, ID]) *Repository[ENT, ID] {
	return &Repository[ENT, ID]{IDA: ida}
}

// Repository is an in-memory crud.Repository.
// The zero value is ready to use when ID is an integer type.
type Repository[ENT any, ID cmp.Ordered] struct {
	// IDA [optional] is the ID Accessor that maps the ID to the ENT field.
	IDA extid.Accessor[ENT, ID]
	// MakeID [optional] generates new IDs during creation.
	//
	// Default: sequential numbers starting from 1, for integer IDs.
	MakeID func(context.Context) (ID, error)

	m        sync.RWMutex
	entities map[ID]ENT
	sequence int64
}

func (r *Repository[ENT, ID]) Create(ctx context.Context, ptr *ENT) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ptr == nil {
		return fmt.Errorf("nil %T given to Create", ptr)
	}
	r.m.Lock()
	defer r.m.Unlock()
	id, ok := r.IDA.Lookup(*ptr)
	if !ok {
		newID, err := r.mkID(ctx)
		if err != nil {
			return err
		}
		if err := r.IDA.Set(ptr, newID); err != nil {
			return err
		}
		id = newID
	}
	if _, found := r.entities[id]; found {
		return crud.ErrAlreadyExists.F("%T already exists with id: %v", *ptr, id)
	}
	if r.entities == nil {
		r.entities = make(map[ID]ENT)
	}
	r.entities[id] = *ptr
	return nil
}

func (r *Repository[ENT, ID]) FindByID(ctx context.Context, id ID) (ENT, bool, error) {
	var zero ENT
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	r.m.RLock()
	defer r.m.RUnlock()
	ent, ok := r.entities[id]
	return ent, ok, nil
}

func (r *Repository[ENT, ID]) FindAll(ctx context.Context) ([]ENT, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.RLock()
	defer r.m.RUnlock()
	ids := make([]ID, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]ENT, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.entities[id])
	}
	return out, nil
}

func (r *Repository[ENT, ID]) Update(ctx context.Context, ptr *ENT) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ptr == nil {
		return fmt.Errorf("nil %T given to Update", ptr)
	}
	id, ok := r.IDA.Lookup(*ptr)
	if !ok {
		return ErrMissingID
	}
	r.m.Lock()
	defer r.m.Unlock()
	if _, found := r.entities[id]; !found {
		return crud.ErrNotFound.F("%T with id %v", *ptr, id)
	}
	r.entities[id] = *ptr
	return nil
}

func (r *Repository[ENT, ID]) DeleteByID(ctx context.Context, id ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()
	if _, found := r.entities[id]; !found {
		return crud.ErrNotFound.F("%T with id %v", *new(ENT), id)
	}
	delete(r.entities, id)
	return nil
}

func (r *Repository[ENT, ID]) mkID(ctx context.Context) (ID, error) {
	if r.MakeID != nil {
		return r.MakeID(ctx)
	}
	r.sequence++
	var id ID
	switch ptr := any(&id).(type) {
	case *int:
		*ptr = int(r.sequence)
	case *int64:
		*ptr = r.sequence
	case *int32:
		*ptr = int32(r.sequence)
	case *uint64:
		*ptr = uint64(r.sequence)
	case *string:
		*ptr = fmt.Sprint(r.sequence)
	default:
		return id, fmt.Errorf("MakeID is required for %T IDs", id)
	}
	return id, nil
}

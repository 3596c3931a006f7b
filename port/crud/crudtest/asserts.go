// Package crudtest has assertion helpers for the crud ports.
package crudtest

import (
	"context"
	"testing"

	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/port/crud"
	"go.llib.dev/restassured/port/crud/extid"
)

func HasID[ENT, ID any](tb testing.TB, ida extid.Accessor[ENT, ID], ent ENT) ID {
	tb.Helper()
	id, ok := ida.Lookup(ent)
	if !ok {
		tb.Fatalf("expected to find the ID in %#v", ent)
	}
	return id
}

func IsPresent[ENT, ID any](tb testing.TB, subject crud.ByIDFinder[ENT, ID], ctx context.Context, id ID) ENT {
	tb.Helper()
	ent, found, err := subject.FindByID(ctx, id)
	assert.NoError(tb, err)
	if !found {
		tb.Fatalf("it was expected that %T with id %#v will be findable", ent, id)
	}
	return ent
}

func IsAbsent[ENT, ID any](tb testing.TB, subject crud.ByIDFinder[ENT, ID], ctx context.Context, id ID) {
	tb.Helper()
	_, found, err := subject.FindByID(ctx, id)
	assert.NoError(tb, err)
	if found {
		tb.Fatalf("it was expected that %T with id %#v will be absent", *new(ENT), id)
	}
}

type creator[ENT, ID any] interface {
	crud.Creator[ENT]
	crud.ByIDDeleter[ID]
}

// Create stores the entity and removes it at the end of the test.
func Create[ENT, ID any](tb testing.TB, subject creator[ENT, ID], ida extid.Accessor[ENT, ID], ctx context.Context, ptr *ENT) ID {
	tb.Helper()
	assert.NoError(tb, subject.Create(ctx, ptr))
	id := HasID(tb, ida, *ptr)
	tb.Cleanup(func() { _ = subject.DeleteByID(context.Background(), id) })
	return id
}

// Package crudcontract is the behavioural contract of a crud.Repository.
// Every storage adapter runs it to prove that it can back the reference API.
package crudcontract

import (
	"context"
	"testing"

	"go.llib.dev/testcase"

	"go.llib.dev/restassured/port/contract"
	"go.llib.dev/restassured/port/crud"
	"go.llib.dev/restassured/port/crud/crudtest"
	"go.llib.dev/restassured/port/crud/extid"
)

type Config[ENT, ID any] struct {
	// MakeContext [optional] returns the context for the calls against the subject.
	//
	// Default: context.Background
	MakeContext func(testing.TB) context.Context
	// MakeEntity returns a populated entity without an ID.
	MakeEntity func(testing.TB) ENT
	// ChangeEntity [optional] changes the fields an Update is expected to persist.
	//
	// Default: the entity is replaced with a fresh MakeEntity value, keeping its ID.
	ChangeEntity func(testing.TB, *ENT)
	// IDA [optional] is the ID Accessor.
	// Configure this if the entity has neither an ID field nor an `ext:"id"` tag.
	IDA extid.Accessor[ENT, ID]
}

func (c Config[ENT, ID]) makeContext(tb testing.TB) context.Context {
	if c.MakeContext != nil {
		return c.MakeContext(tb)
	}
	return context.Background()
}

func (c Config[ENT, ID]) changeEntity(tb testing.TB, ptr *ENT) {
	if c.ChangeEntity != nil {
		c.ChangeEntity(tb, ptr)
		return
	}
	id := crudtest.HasID(tb, c.IDA, *ptr)
	*ptr = c.MakeEntity(tb)
	if err := c.IDA.Set(ptr, id); err != nil {
		tb.Fatal(err)
	}
}

func Repository[ENT, ID any](mk contract.Make[crud.Repository[ENT, ID]], c Config[ENT, ID]) contract.Contract {
	s := testcase.NewSpec(nil)

	subject := testcase.Let(s, func(t *testcase.T) crud.Repository[ENT, ID] {
		return mk(t)
	})
	Context := testcase.Let(s, func(t *testcase.T) context.Context {
		return c.makeContext(t)
	})
	ptr := testcase.Let(s, func(t *testcase.T) *ENT {
		v := c.MakeEntity(t)
		return &v
	})
	create := func(t *testcase.T) ID {
		return crudtest.Create[ENT, ID](t, subject.Get(t), c.IDA, Context.Get(t), ptr.Get(t))
	}
	// absentID yields an ID which belonged to an entity that no longer exists.
	absentID := func(t *testcase.T) ID {
		v := c.MakeEntity(t)
		t.Must.NoError(subject.Get(t).Create(Context.Get(t), &v))
		id := crudtest.HasID(t, c.IDA, v)
		t.Must.NoError(subject.Get(t).DeleteByID(Context.Get(t), id))
		return id
	}

	s.Describe("Create", func(s *testcase.Spec) {
		s.Then("the ID of the entity is set", func(t *testcase.T) {
			t.Must.NoError(subject.Get(t).Create(Context.Get(t), ptr.Get(t)))
			id := crudtest.HasID(t, c.IDA, *ptr.Get(t))
			t.Defer(subject.Get(t).DeleteByID, context.Background(), id)
		})

		s.Then("the created entity can be found by its ID", func(t *testcase.T) {
			id := create(t)
			t.Must.Equal(*ptr.Get(t), crudtest.IsPresent[ENT, ID](t, subject.Get(t), Context.Get(t), id))
		})

		s.Then("every creation yields a new ID", func(t *testcase.T) {
			id1 := create(t)
			other := c.MakeEntity(t)
			id2 := crudtest.Create[ENT, ID](t, subject.Get(t), c.IDA, Context.Get(t), &other)
			t.Must.NotEqual(id1, id2)
		})

		s.When("the context is cancelled", func(s *testcase.Spec) {
			Context.Let(s, func(t *testcase.T) context.Context {
				ctx, cancel := context.WithCancel(c.makeContext(t))
				cancel()
				return ctx
			})

			s.Then("it returns the context error", func(t *testcase.T) {
				t.Must.ErrorIs(context.Canceled, subject.Get(t).Create(Context.Get(t), ptr.Get(t)))
			})
		})
	})

	s.Describe("FindByID", func(s *testcase.Spec) {
		s.Then("a missing entity is reported as not found", func(t *testcase.T) {
			_, found, err := subject.Get(t).FindByID(Context.Get(t), absentID(t))
			t.Must.NoError(err)
			t.Must.False(found)
		})
	})

	s.Describe("FindAll", func(s *testcase.Spec) {
		s.Then("it lists the created entities", func(t *testcase.T) {
			create(t)
			other := c.MakeEntity(t)
			crudtest.Create[ENT, ID](t, subject.Get(t), c.IDA, Context.Get(t), &other)

			all, err := subject.Get(t).FindAll(Context.Get(t))
			t.Must.NoError(err)
			t.Must.Contain(all, *ptr.Get(t))
			t.Must.Contain(all, other)
		})
	})

	s.Describe("Update", func(s *testcase.Spec) {
		s.Then("the stored entity is replaced", func(t *testcase.T) {
			id := create(t)
			updated := *ptr.Get(t)
			c.changeEntity(t, &updated)
			t.Must.NoError(subject.Get(t).Update(Context.Get(t), &updated))
			t.Must.Equal(updated, crudtest.IsPresent[ENT, ID](t, subject.Get(t), Context.Get(t), id))
		})

		s.Then("updating a missing entity yields ErrNotFound", func(t *testcase.T) {
			v := c.MakeEntity(t)
			t.Must.NoError(c.IDA.Set(&v, absentID(t)))
			t.Must.ErrorIs(crud.ErrNotFound, subject.Get(t).Update(Context.Get(t), &v))
		})
	})

	s.Describe("DeleteByID", func(s *testcase.Spec) {
		s.Then("the entity is no longer findable", func(t *testcase.T) {
			id := create(t)
			t.Must.NoError(subject.Get(t).DeleteByID(Context.Get(t), id))
			crudtest.IsAbsent[ENT, ID](t, subject.Get(t), Context.Get(t), id)
		})

		s.Then("deleting a missing entity yields ErrNotFound", func(t *testcase.T) {
			t.Must.ErrorIs(crud.ErrNotFound, subject.Get(t).DeleteByID(Context.Get(t), absentID(t)))
		})
	})

	return s.AsSuite("Repository")
}

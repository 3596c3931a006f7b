package stuff_test

import (
	"strings"
	"testing"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/domain/stuff"
)

func TestStuff_Validate(t *testing.T) {
	s := testcase.NewSpec(t)

	subject := testcase.Let(s, func(t *testcase.T) stuff.Stuff {
		return stuff.Stuff{Name: t.Random.String(), Status: stuff.StatusDraft}
	})
	act := func(t *testcase.T) error {
		return subject.Get(t).Validate()
	}

	s.Then("a named draft is valid", func(t *testcase.T) {
		t.Must.NoError(act(t))
	})

	s.When("the name is blank", func(s *testcase.Spec) {
		s.Before(func(t *testcase.T) {
			v := subject.Get(t)
			v.Name = "  "
			subject.Set(t, v)
		})

		s.Then("it is invalid", func(t *testcase.T) {
			t.Must.ErrorIs(stuff.ErrInvalid, act(t))
		})
	})

	s.When("the name is too long", func(s *testcase.Spec) {
		s.Before(func(t *testcase.T) {
			v := subject.Get(t)
			v.Name = strings.Repeat("x", 201)
			subject.Set(t, v)
		})

		s.Then("it is invalid", func(t *testcase.T) {
			t.Must.ErrorIs(stuff.ErrInvalid, act(t))
		})
	})

	s.When("the answer is out of range", func(s *testcase.Spec) {
		s.Before(func(t *testcase.T) {
			v := subject.Get(t)
			answer := stuff.MaxAnswer + 1
			v.Answer = &answer
			subject.Set(t, v)
		})

		s.Then("it is invalid", func(t *testcase.T) {
			t.Must.ErrorIs(stuff.ErrInvalid, act(t))
		})
	})

	s.When("the status is unknown", func(s *testcase.Spec) {
		s.Before(func(t *testcase.T) {
			v := subject.Get(t)
			v.Status = "lost"
			subject.Set(t, v)
		})

		s.Then("it is invalid", func(t *testcase.T) {
			t.Must.ErrorIs(stuff.ErrInvalid, act(t))
		})
	})
}

func TestStuff_Transition(t *testing.T) {
	v := stuff.Stuff{Name: "x", Status: stuff.StatusDraft}

	assert.NoError(t, v.Transition("publish"))
	assert.Equal(t, stuff.StatusPublished, v.Status)

	assert.ErrorIs(t, stuff.ErrTransitionNotAllowed, v.Transition("publish"))
	assert.ErrorIs(t, stuff.ErrUnknownTransition, v.Transition("fly"))

	assert.NoError(t, v.Transition("archive"))
	assert.NoError(t, v.Transition("restore"))
	assert.Equal(t, stuff.StatusDraft, v.Status)

	assert.Equal(t, []string{"archive", "publish", "restore"}, stuff.Transitions())
}

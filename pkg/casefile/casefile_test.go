package casefile_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/adapter/httpapi"
	"go.llib.dev/restassured/domain/stuff"
	"go.llib.dev/restassured/pkg/casefile"
	"go.llib.dev/restassured/pkg/fixture"
	"go.llib.dev/restassured/pkg/restclient"
	"go.llib.dev/restassured/pkg/verify"
	"go.llib.dev/restassured/port/restcase"
)

func TestLoad(t *testing.T) {
	s := testcase.NewSpec(t)

	file := testcase.Let(s, func(t *testcase.T) casefile.File {
		f, err := casefile.Load(filepath.Join("testdata", "cases.yaml"))
		t.Must.NoError(err)
		return f
	})

	s.Test("every case is loaded", func(t *testcase.T) {
		t.Must.Equal([]string{"manyrelatedstuff", "relatedstuff", "stuff", "stuff-put"}, file.Get(t).Names())
	})

	s.Test("the case name is the default base name", func(t *testcase.T) {
		c, err := file.Get(t).Lookup("stuff")
		t.Must.NoError(err)
		t.Must.Equal("stuff", c.BaseName)
		t.Must.Equal("results", c.PaginationResultsField)
		t.Must.Equal([]string{"id", "name"}, c.AttributesToCheck)
		t.Must.Equal("foo", c.CreateData["name"])
		t.Must.Equal(42, c.CreateData["answer"])
	})

	s.Test("an explicit base name is kept", func(t *testcase.T) {
		c, err := file.Get(t).Lookup("stuff-put")
		t.Must.NoError(err)
		t.Must.Equal("stuff", c.BaseName)
		t.Must.NotNil(c.UsePatch)
		t.Must.False(*c.UsePatch)
	})

	s.Test("an unknown case is reported", func(t *testcase.T) {
		_, err := file.Get(t).Lookup("unknown")
		t.Must.ErrorIs(casefile.ErrCaseNotFound, err)
	})

	s.Test("the schema is converted", func(t *testcase.T) {
		c, err := file.Get(t).Lookup("manyrelatedstuff")
		t.Must.NoError(err)
		schema, err := c.VerifySchema()
		t.Must.NoError(err)
		t.Must.Equal(verify.Schema{"stuff": verify.MultiRelation}, schema)
	})
}

func TestLoad_missingFile(t *testing.T) {
	_, err := casefile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		f, err := casefile.Decode(strings.NewReader(""))
		assert.NoError(t, err)
		assert.Equal(t, 0, len(f.Cases))
	})
	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := casefile.Decode(strings.NewReader("cases:\n  stuff:\n    unknown_option: 1\n"))
		assert.Error(t, err)
	})
	t.Run("unknown field kind", func(t *testing.T) {
		f, err := casefile.Decode(strings.NewReader("cases:\n  stuff:\n    schema:\n      thing: graph\n"))
		assert.NoError(t, err)
		c, err := f.Lookup("stuff")
		assert.NoError(t, err)
		_, err = c.VerifySchema()
		assert.ErrorIs(t, verify.ErrUnknownFieldKind, err)
	})
}

func TestApply(t *testing.T) {
	f, err := casefile.Load(filepath.Join("testdata", "cases.yaml"))
	assert.NoError(t, err)

	storage := httpapi.MemoryStorage()
	api, err := httpapi.NewAPI(httpapi.Config{Storage: storage})
	assert.NoError(t, err)

	newCase := func(name string) *restcase.Case[stuff.Stuff, int64] {
		c := &restcase.Case[stuff.Stuff, int64]{
			Routes: api.Routes,
			Client: &restclient.Client{Handler: api},
			Factory: fixture.FactoryFunc[stuff.Stuff](func(ctx context.Context) (stuff.Stuff, error) {
				ent := stuff.Stuff{Name: fixture.Name(), Status: stuff.StatusDraft}
				return ent, storage.Stuff.Create(ctx, &ent)
			}),
			Finder: storage.Stuff,
		}
		fc, err := f.Lookup(name)
		assert.NoError(t, err)
		assert.NoError(t, casefile.Apply(fc, c))
		c.Setup(t)
		return c
	}

	t.Run("stuff", func(t *testing.T) {
		c := newCase("stuff")
		assert.Equal(t, "stuff", c.BaseName)
		assert.Equal(t, 2, len(c.AttributesToCheck))
		c.TestList(t)
		c.TestDetail(t)
		_, created := c.TestCreate(t, nil)
		assert.Equal(t, "foo", created.Name)
		_, updated := c.TestUpdate(t, nil, nil)
		assert.Equal(t, "other things", updated.Name)
	})

	t.Run("stuff-put", func(t *testing.T) {
		c := newCase("stuff-put")
		_, updated := c.TestUpdate(t, nil, nil)
		assert.NotNil(t, updated.Answer)
		assert.Equal(t, 7, *updated.Answer)
	})

	t.Run("invalid schema", func(t *testing.T) {
		err := casefile.Apply(casefile.Case{Schema: map[string]string{"thing": "graph"}}, &restcase.Case[stuff.Stuff, int64]{})
		assert.ErrorIs(t, verify.ErrUnknownFieldKind, err)
	})
}

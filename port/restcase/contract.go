package restcase

import (
	"testing"

	"go.llib.dev/testcase"

	"go.llib.dev/restassured/pkg/restclient"
	"go.llib.dev/restassured/port/contract"
)

type Setuper interface {
	Setup(tb testing.TB)
}

type Lister interface {
	Setuper
	ListURL(tb testing.TB) string
	ListResponse(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response
	TestList(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response
}

type Detailer interface {
	Setuper
	DetailURL(tb testing.TB) string
	DetailResponse(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response
	TestDetail(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response
}

type Creator[Entity any] interface {
	Setuper
	CreateURL(tb testing.TB) string
	CreateResponse(tb testing.TB, data map[string]any, opts ...restclient.RequestOption) *restclient.Response
	TestCreate(tb testing.TB, data map[string]any, opts ...restclient.RequestOption) (*restclient.Response, Entity)
}

type Updater[Entity any] interface {
	Setuper
	UpdateURL(tb testing.TB) string
	UpdateResponse(tb testing.TB, data map[string]any, opts ...restclient.RequestOption) *restclient.Response
	TestUpdate(tb testing.TB, data, results map[string]any, opts ...restclient.RequestOption) (*restclient.Response, Entity)
}

type Destroyer interface {
	Setuper
	DestroyURL(tb testing.TB) string
	DestroyResponse(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response
	TestDestroy(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response
}

type Transitioner interface {
	Setuper
	TransitionURL(tb testing.TB, transition string) string
	Transition(tb testing.TB, result any, transition string, opts ...restclient.RequestOption) *restclient.Response
}

// Read covers the read operations of a resource.
type Read interface {
	Lister
	Detailer
}

// Write covers the write operations of a resource.
type Write[Entity any] interface {
	Creator[Entity]
	Updater[Entity]
	Destroyer
}

// ReadWrite covers every successful CRUD operation of a resource.
type ReadWrite[Entity any] interface {
	Read
	Write[Entity]
}

var (
	_ ReadWrite[struct{}] = &Case[struct{}, int]{}
	_ Transitioner        = &Case[struct{}, int]{}
)

func ListContract(mk contract.Make[Lister]) contract.Contract {
	s := testcase.NewSpec(nil)
	specList(s, letSubject(s, mk))
	return s.AsSuite("List")
}

func DetailContract(mk contract.Make[Detailer]) contract.Contract {
	s := testcase.NewSpec(nil)
	specDetail(s, letSubject(s, mk))
	return s.AsSuite("Detail")
}

func CreateContract[Entity any](mk contract.Make[Creator[Entity]]) contract.Contract {
	s := testcase.NewSpec(nil)
	specCreate[Entity](s, letSubject(s, mk))
	return s.AsSuite("Create")
}

func UpdateContract[Entity any](mk contract.Make[Updater[Entity]]) contract.Contract {
	s := testcase.NewSpec(nil)
	specUpdate[Entity](s, letSubject(s, mk))
	return s.AsSuite("Update")
}

func DestroyContract(mk contract.Make[Destroyer]) contract.Contract {
	s := testcase.NewSpec(nil)
	specDestroy(s, letSubject(s, mk))
	return s.AsSuite("Destroy")
}

func ReadContract(mk contract.Make[Read]) contract.Contract {
	s := testcase.NewSpec(nil)
	subject := letSubject(s, mk)
	specList(s, subject)
	specDetail(s, subject)
	return s.AsSuite("Read")
}

func WriteContract[Entity any](mk contract.Make[Write[Entity]]) contract.Contract {
	s := testcase.NewSpec(nil)
	subject := letSubject(s, mk)
	specCreate[Entity](s, subject)
	specUpdate[Entity](s, subject)
	specDestroy(s, subject)
	return s.AsSuite("Write")
}

func ReadWriteContract[Entity any](mk contract.Make[ReadWrite[Entity]]) contract.Contract {
	s := testcase.NewSpec(nil)
	subject := letSubject(s, mk)
	specList(s, subject)
	specDetail(s, subject)
	specCreate[Entity](s, subject)
	specUpdate[Entity](s, subject)
	specDestroy(s, subject)
	return s.AsSuite("ReadWrite")
}

// letSubject makes a test case which is already set up.
func letSubject[S Setuper](s *testcase.Spec, mk contract.Make[S]) testcase.Var[S] {
	return testcase.Let(s, func(t *testcase.T) S {
		subject := mk(t)
		subject.Setup(t)
		return subject
	})
}

func specList[S Lister](s *testcase.Spec, subject testcase.Var[S]) {
	s.Test("list responds with the result set", func(t *testcase.T) {
		subject.Get(t).TestList(t)
	})
}

func specDetail[S Detailer](s *testcase.Spec, subject testcase.Var[S]) {
	s.Test("detail responds with the object", func(t *testcase.T) {
		subject.Get(t).TestDetail(t)
	})
}

func specCreate[Entity any, S Creator[Entity]](s *testcase.Spec, subject testcase.Var[S]) {
	s.Test("create persists a new object", func(t *testcase.T) {
		subject.Get(t).TestCreate(t, nil)
	})
}

func specUpdate[Entity any, S Updater[Entity]](s *testcase.Spec, subject testcase.Var[S]) {
	s.Test("update persists the submitted changes", func(t *testcase.T) {
		subject.Get(t).TestUpdate(t, nil, nil)
	})
}

func specDestroy[S Destroyer](s *testcase.Spec, subject testcase.Var[S]) {
	s.Test("destroy removes the object", func(t *testcase.T) {
		subject.Get(t).TestDestroy(t)
	})
}

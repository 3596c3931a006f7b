// Package restcase provides reusable test cases for REST API endpoints
// that manage a persisted resource: list, detail, create, update, destroy,
// and state transitions.
//
// A Case holds the resource under test and the options of every capability.
// The capability interfaces and the contracts compose them the way a test needs:
//
//	func TestStuffAPI(t *testing.T) {
//		restcase.ReadWriteContract(func(tb testing.TB) restcase.ReadWrite {
//			return &restcase.Case[stuff.Stuff, int64]{
//				BaseName: "stuff",
//				Routes:   api.Routes,
//				Client:   &restclient.Client{Handler: api},
//				Factory:  stuffFactory,
//				Finder:   storage.Stuff,
//				CreateOptions: restcase.CreateOptions{
//					CreateData: map[string]any{"name": "foo"},
//				},
//			}
//		}).Test(t)
//	}
package restcase

import (
	"context"
	"fmt"
	"testing"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/fixture"
	"go.llib.dev/restassured/pkg/restclient"
	"go.llib.dev/restassured/pkg/route"
	"go.llib.dev/restassured/port/crud"
	"go.llib.dev/restassured/port/crud/extid"
)

const (
	DefaultListSuffix   = "-list"
	DefaultDetailSuffix = "-detail"
)

// Case is the base of every REST endpoint test case.
type Case[Entity, ID any] struct {
	// BaseName is the route name prefix of the resource endpoints.
	BaseName string
	// Routes resolves the route names into request paths.
	Routes route.Reverser
	// Client sends the requests to the API under test.
	Client *restclient.Client
	// Factory creates the Object of the test case.
	Factory fixture.Factory[Entity]
	// Finder looks the records up in the storage after a request.
	Finder crud.ByIDFinder[Entity, ID]
	// IDOf [optional] returns the lookup identifier of an entity.
	//
	// Default: the entity's ID field, or the field tagged with `ext:"id"`.
	IDOf func(Entity) ID
	// ListSuffix [optional] is appended to BaseName to get the list route name.
	//
	// Default: DefaultListSuffix
	ListSuffix string
	// DetailSuffix [optional] is appended to BaseName to get the detail route name.
	//
	// Default: DefaultDetailSuffix
	DetailSuffix string
	// FormatID [optional] turns an ID into a route argument.
	//
	// Default: fmt.Sprint
	FormatID func(ID) string
	// UserFactory [optional] creates the user that the Client authenticates as.
	UserFactory fixture.Factory[restclient.User]
	// MakeContext [optional] returns the context of the requests and storage lookups.
	//
	// Default: context.Background
	MakeContext func(testing.TB) context.Context

	ListOptions
	DetailOptions[Entity]
	CreateOptions
	UpdateOptions[Entity]
	DestroyOptions
	TransitionOptions

	// Object is the main test subject, created during Setup.
	Object Entity
	// User is the authenticated user, created during Setup when UserFactory is set.
	User restclient.User
}

// Setup creates the user when a UserFactory is configured and authenticates the Client with it,
// then creates the Object.
func (c *Case[Entity, ID]) Setup(tb testing.TB) {
	tb.Helper()
	ctx := c.Context(tb)
	if c.UserFactory != nil {
		user, err := c.UserFactory.Create(ctx)
		assert.NoError(tb, err, assert.Message("creating the user of the test case"))
		c.User = user
		c.Client.ForceAuthenticate(user)
	}
	obj, err := c.Factory.Create(ctx)
	assert.NoError(tb, err, assert.Message("creating the object of the test case"))
	c.Object = obj
	logger.Debug(ctx, "restcase setup done",
		logging.Field("base_name", c.BaseName),
		logging.Field("authenticated", c.User != nil))
}

func (c *Case[Entity, ID]) Context(tb testing.TB) context.Context {
	if c.MakeContext != nil {
		return c.MakeContext(tb)
	}
	return context.Background()
}

// ObjectID returns the identifier of the Object.
func (c *Case[Entity, ID]) ObjectID(tb testing.TB) ID {
	tb.Helper()
	return c.idOf(tb, c.Object)
}

func (c *Case[Entity, ID]) idOf(tb testing.TB, ent Entity) ID {
	tb.Helper()
	if c.IDOf != nil {
		return c.IDOf(ent)
	}
	id, ok := extid.Lookup[ID](ent)
	if !ok {
		tb.Fatalf("restcase: unable to look up the ID of %T, configure Case.IDOf", ent)
	}
	return id
}

func (c *Case[Entity, ID]) formatID(id ID) string {
	if c.FormatID != nil {
		return c.FormatID(id)
	}
	return fmt.Sprint(id)
}

func (c *Case[Entity, ID]) listName() string {
	if c.ListSuffix != "" {
		return c.BaseName + c.ListSuffix
	}
	return c.BaseName + DefaultListSuffix
}

func (c *Case[Entity, ID]) detailName() string {
	if c.DetailSuffix != "" {
		return c.BaseName + c.DetailSuffix
	}
	return c.BaseName + DefaultDetailSuffix
}

func (c *Case[Entity, ID]) reverse(tb testing.TB, name string, args ...string) string {
	tb.Helper()
	path, err := c.Routes.Reverse(name, args...)
	assert.NoError(tb, err, assert.Message(fmt.Sprintf("reversing the %s route", name)))
	return path
}

// objectURL resolves a detail-like route of the Object.
func (c *Case[Entity, ID]) objectURL(tb testing.TB, name string) string {
	tb.Helper()
	return c.reverse(tb, name, c.formatID(c.ObjectID(tb)))
}

// find reloads an entity from the storage.
func (c *Case[Entity, ID]) find(tb testing.TB, id ID) (Entity, bool) {
	tb.Helper()
	ent, found, err := c.Finder.FindByID(c.Context(tb), id)
	assert.NoError(tb, err, assert.Message(fmt.Sprintf("looking up %s %v", c.BaseName, id)))
	return ent, found
}

func (c *Case[Entity, ID]) send(tb testing.TB, method, path string, body any, opts []restclient.RequestOption) *restclient.Response {
	tb.Helper()
	resp, err := c.Client.Do(c.Context(tb), method, path, body, opts...)
	assert.NoError(tb, err, assert.Message(fmt.Sprintf("%s %s", method, path)))
	return resp
}

func assertStatus(tb testing.TB, expected int, resp *restclient.Response) {
	tb.Helper()
	assert.Equal(tb, expected, resp.StatusCode, assert.Message(resp.String()))
}

// requestBody turns missing request data into an empty body.
func requestBody(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return data
}

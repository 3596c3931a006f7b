package restcase

import (
	"fmt"
	"net/http"
	"testing"

	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/restclient"
)

type DestroyOptions struct {
	// DestroyName [optional] is the route name of the destroy endpoint.
	//
	// Default: the detail route name
	DestroyName string
}

func (c *Case[Entity, ID]) destroyName() string {
	if c.DestroyName != "" {
		return c.DestroyName
	}
	return c.detailName()
}

// DestroyURL returns the path of the Object's destroy endpoint.
func (c *Case[Entity, ID]) DestroyURL(tb testing.TB) string {
	tb.Helper()
	return c.objectURL(tb, c.destroyName())
}

// DestroyResponse sends the destroy request.
func (c *Case[Entity, ID]) DestroyResponse(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	return c.send(tb, http.MethodDelete, c.DestroyURL(tb), nil, opts)
}

// TestDestroy checks that the destroy endpoint responds with 204
// and that the Object is no longer in the storage.
func (c *Case[Entity, ID]) TestDestroy(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	resp := c.DestroyResponse(tb, opts...)
	assertStatus(tb, http.StatusNoContent, resp)
	id := c.ObjectID(tb)
	_, found := c.find(tb, id)
	assert.False(tb, found, assert.Message(fmt.Sprintf("%s %v is still in the storage", c.BaseName, id)))
	return resp
}

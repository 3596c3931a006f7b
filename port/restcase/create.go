package restcase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/restclient"
)

const DefaultResponseLookupField = "id"

type CreateOptions struct {
	// CreateData is the body of the create request.
	CreateData map[string]any
	// MakeCreateData [optional] computes the create request body, and takes priority over CreateData.
	MakeCreateData func(tb testing.TB) map[string]any
	// CreateName [optional] is the route name of the create endpoint.
	//
	// Default: the list route name
	CreateName string
	// ResponseLookupField [optional] is the field of the response data that identifies the created record.
	//
	// Default: DefaultResponseLookupField
	ResponseLookupField string
}

func (c *Case[Entity, ID]) createData(tb testing.TB) map[string]any {
	if c.MakeCreateData != nil {
		return c.MakeCreateData(tb)
	}
	return c.CreateData
}

func (c *Case[Entity, ID]) createName() string {
	if c.CreateName != "" {
		return c.CreateName
	}
	return c.listName()
}

// CreateURL returns the path of the create endpoint.
func (c *Case[Entity, ID]) CreateURL(tb testing.TB) string {
	tb.Helper()
	return c.reverse(tb, c.createName())
}

// CreateResponse sends the create request.
// A nil data falls back to the configured create data.
func (c *Case[Entity, ID]) CreateResponse(tb testing.TB, data map[string]any, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	if data == nil {
		data = c.createData(tb)
	}
	return c.send(tb, http.MethodPost, c.CreateURL(tb), requestBody(data), opts)
}

// LookupFromResponse returns the identifier of the created record from the response data.
func (c *Case[Entity, ID]) LookupFromResponse(tb testing.TB, data map[string]any) ID {
	tb.Helper()
	field := c.ResponseLookupField
	if field == "" {
		field = DefaultResponseLookupField
	}
	raw, ok := data[field]
	assert.True(tb, ok, assert.Message(fmt.Sprintf("the %q lookup field is missing from the response", field)))
	var id ID
	bs, err := json.Marshal(raw)
	assert.NoError(tb, err)
	if err := json.Unmarshal(bs, &id); err != nil {
		tb.Fatalf("restcase: the %q lookup field (%v) is not a valid %T: %v", field, raw, id, err)
	}
	return id
}

// TestCreate checks that the create endpoint responds with 201
// and that the created record exists in the storage.
func (c *Case[Entity, ID]) TestCreate(tb testing.TB, data map[string]any, opts ...restclient.RequestOption) (*restclient.Response, Entity) {
	tb.Helper()
	resp := c.CreateResponse(tb, data, opts...)
	assertStatus(tb, http.StatusCreated, resp)
	body, err := resp.DataMap()
	assert.NoError(tb, err)
	id := c.LookupFromResponse(tb, body)
	created, found := c.find(tb, id)
	assert.True(tb, found, assert.Message(fmt.Sprintf("the created %s %v was not found in the storage", c.BaseName, id)))
	return resp, created
}

package restcase

import (
	"fmt"
	"net/http"
	"testing"

	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/restclient"
	"go.llib.dev/restassured/pkg/verify"
)

type DetailOptions[Entity any] struct {
	// AttributesToCheck are compared between the Object and the detail response data.
	//
	// Default: id
	AttributesToCheck []Attribute[Entity]
}

// Attribute is a field of the detail response data.
type Attribute[Entity any] struct {
	Name string
	// Value [optional] computes the expected value from the Object.
	//
	// Default: the Object's field with the same name.
	Value func(Entity) any
}

// Attributes is a shorthand for attributes that are read from the Object's fields.
func Attributes[Entity any](names ...string) []Attribute[Entity] {
	attrs := make([]Attribute[Entity], 0, len(names))
	for _, name := range names {
		attrs = append(attrs, Attribute[Entity]{Name: name})
	}
	return attrs
}

func (c *Case[Entity, ID]) attributesToCheck() []Attribute[Entity] {
	if c.AttributesToCheck != nil {
		return c.AttributesToCheck
	}
	return Attributes[Entity]("id")
}

// DetailURL returns the path of the Object's detail endpoint.
func (c *Case[Entity, ID]) DetailURL(tb testing.TB) string {
	tb.Helper()
	return c.objectURL(tb, c.detailName())
}

// DetailResponse sends the detail request.
func (c *Case[Entity, ID]) DetailResponse(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	return c.send(tb, http.MethodGet, c.DetailURL(tb), nil, opts)
}

// TestDetail checks that the detail endpoint responds with 200
// and that the checked attributes match the Object.
func (c *Case[Entity, ID]) TestDetail(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	resp := c.DetailResponse(tb, opts...)
	assertStatus(tb, http.StatusOK, resp)
	data, err := resp.DataMap()
	assert.NoError(tb, err)
	c.checkAttributes(tb, data)
	return resp
}

func (c *Case[Entity, ID]) checkAttributes(tb testing.TB, data map[string]any) {
	tb.Helper()
	for _, attr := range c.attributesToCheck() {
		var expected any
		if attr.Value != nil {
			expected = attr.Value(c.Object)
		} else {
			v, err := verify.StructRecord(c.Object).Field(attr.Name)
			assert.NoError(tb, err)
			expected = v
		}
		actual, ok := data[attr.Name]
		assert.True(tb, ok, assert.Message(fmt.Sprintf("the detail response has no %q attribute", attr.Name)))
		assert.Equal(tb, verify.Stringify(expected), verify.Stringify(actual),
			assert.Message(fmt.Sprintf("the %q attribute of the detail response", attr.Name)))
	}
}

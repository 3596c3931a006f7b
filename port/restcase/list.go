package restcase

import (
	"net/http"
	"testing"

	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/restclient"
)

type ListOptions struct {
	// PaginationResultsField [optional] is the field of a paginated response that holds the result set.
	// When empty, the response body itself is expected to be the result set.
	PaginationResultsField string
}

// ListURL returns the path of the list endpoint.
func (c *Case[Entity, ID]) ListURL(tb testing.TB) string {
	tb.Helper()
	return c.reverse(tb, c.listName())
}

// ListResponse sends the list request.
func (c *Case[Entity, ID]) ListResponse(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	return c.send(tb, http.MethodGet, c.ListURL(tb), nil, opts)
}

// TestList checks that the list endpoint responds with 200
// and that the result set holds at least one record.
func (c *Case[Entity, ID]) TestList(tb testing.TB, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	resp := c.ListResponse(tb, opts...)
	assertStatus(tb, http.StatusOK, resp)
	if c.PaginationResultsField != "" {
		data, err := resp.DataMap()
		assert.NoError(tb, err)
		_, ok := data[c.PaginationResultsField]
		assert.True(tb, ok, assert.Message("the pagination results field is missing: "+c.PaginationResultsField))
	}
	results, err := resp.DataList(c.PaginationResultsField)
	assert.NoError(tb, err)
	assert.True(tb, 1 <= len(results), assert.Message("the result set is empty"))
	return resp
}

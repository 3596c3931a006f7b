package restcase

import (
	"fmt"
	"net/http"
	"testing"

	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/restclient"
	"go.llib.dev/restassured/pkg/verify"
)

const DefaultStateAttribute = "status"

type TransitionOptions struct {
	// StateAttribute [optional] is the response field that holds the state.
	//
	// Default: DefaultStateAttribute
	StateAttribute string
}

// TransitionURL returns the path of a state transition endpoint of the Object,
// which is the transition name appended to the detail path.
func (c *Case[Entity, ID]) TransitionURL(tb testing.TB, transition string) string {
	tb.Helper()
	return c.DetailURL(tb) + transition + "/"
}

// Transition triggers a state transition of the Object,
// and checks that the response holds the expected state.
func (c *Case[Entity, ID]) Transition(tb testing.TB, result any, transition string, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	resp := c.send(tb, http.MethodPost, c.TransitionURL(tb, transition), nil, opts)
	data, err := resp.DataMap()
	assert.NoError(tb, err, assert.Message(resp.String()))
	attribute := c.StateAttribute
	if attribute == "" {
		attribute = DefaultStateAttribute
	}
	state, ok := data[attribute]
	assert.True(tb, ok, assert.Message(fmt.Sprintf("the transition response has no %q attribute", attribute)))
	assert.Equal(tb, verify.Stringify(result), verify.Stringify(state),
		assert.Message(fmt.Sprintf("the %q attribute after the %s transition", attribute, transition)))
	return resp
}

package restcase

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/restclient"
	"go.llib.dev/restassured/pkg/verify"
)

type UpdateOptions[Entity any] struct {
	// UpdateData is the body of the update request.
	UpdateData map[string]any
	// MakeUpdateData [optional] computes the update request body, and takes priority over UpdateData.
	MakeUpdateData func(tb testing.TB) map[string]any
	// UpdateResults [optional] maps fields to the values expected in the storage after the update.
	// Fields missing from UpdateResults are expected to hold their submitted value.
	UpdateResults map[string]any
	// UsePatch [optional] tells whether the update is sent as PATCH or as PUT.
	//
	// Default: PATCH
	UsePatch *bool
	// UpdateName [optional] is the route name of the update endpoint.
	//
	// Default: the detail route name
	UpdateName string
	// Schema [optional] tells which submitted fields are relations.
	//
	// Default: inferred from the Entity's struct tags
	Schema verify.Schema
	// Record [optional] exposes the persisted entity to the verification.
	//
	// Default: verify.StructRecord
	Record func(ctx context.Context, ent Entity) verify.Record
	// RelationValue [optional] overrides how related records are represented in the verification.
	//
	// Default: verify.DefaultRelationValue
	RelationValue verify.RelationValueFunc
}

func (c *Case[Entity, ID]) updateData(tb testing.TB) map[string]any {
	if c.MakeUpdateData != nil {
		return c.MakeUpdateData(tb)
	}
	return c.UpdateData
}

func (c *Case[Entity, ID]) updateName() string {
	if c.UpdateName != "" {
		return c.UpdateName
	}
	return c.detailName()
}

func (c *Case[Entity, ID]) usePatch() bool {
	return c.UsePatch == nil || *c.UsePatch
}

func (c *Case[Entity, ID]) schema(tb testing.TB) verify.Schema {
	tb.Helper()
	if c.Schema != nil {
		return c.Schema
	}
	schema, err := verify.InferSchema(c.Object)
	assert.NoError(tb, err, assert.Message("inferring the update schema, configure UpdateOptions.Schema"))
	return schema
}

func (c *Case[Entity, ID]) record(ctx context.Context, ent Entity) verify.Record {
	if c.Record != nil {
		return c.Record(ctx, ent)
	}
	return verify.StructRecord(ent)
}

// UpdateURL returns the path of the Object's update endpoint.
func (c *Case[Entity, ID]) UpdateURL(tb testing.TB) string {
	tb.Helper()
	return c.objectURL(tb, c.updateName())
}

// UpdateResponse sends the update request.
// A nil data falls back to the configured update data.
func (c *Case[Entity, ID]) UpdateResponse(tb testing.TB, data map[string]any, opts ...restclient.RequestOption) *restclient.Response {
	tb.Helper()
	if data == nil {
		data = c.updateData(tb)
	}
	method := http.MethodPut
	if c.usePatch() {
		method = http.MethodPatch
	}
	return c.send(tb, method, c.UpdateURL(tb), requestBody(data), opts)
}

// TestUpdate checks that the update endpoint responds with 200,
// then reloads the Object from the storage and verifies that every submitted field took effect.
//
// A nil data falls back to the configured update data,
// and a nil results falls back to UpdateResults.
func (c *Case[Entity, ID]) TestUpdate(tb testing.TB, data, results map[string]any, opts ...restclient.RequestOption) (*restclient.Response, Entity) {
	tb.Helper()
	if data == nil {
		data = c.updateData(tb)
	}
	if results == nil {
		results = c.UpdateResults
	}
	resp := c.UpdateResponse(tb, requestBody(data), opts...)
	assertStatus(tb, http.StatusOK, resp)

	id := c.ObjectID(tb)
	updated, found := c.find(tb, id)
	assert.True(tb, found, assert.Message(fmt.Sprintf("the updated %s %v was not found in the storage", c.BaseName, id)))

	ctx := c.Context(tb)
	verifier := verify.Verifier{Schema: c.schema(tb), RelationValue: c.RelationValue}
	if err := verifier.Verify(c.record(ctx, updated), verify.Submitted(data), verify.Expected(results)); err != nil {
		logger.Debug(ctx, "update verification failed",
			logging.Field("base_name", c.BaseName),
			logging.ErrField(err))
		tb.Fatalf("restcase: the update of %s %v did not take effect: %v", c.BaseName, id, err)
	}
	return resp, updated
}

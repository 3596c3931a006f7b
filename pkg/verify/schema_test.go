package verify_test

import (
	"testing"

	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/verify"
)

type RelatedStuff struct {
	ID         int64   `json:"id"`
	Thing      int64   `json:"thing" rest:",relation"`
	OtherStuff []int64 `rest:"stuff,relations"`
	CreatedBy  string
	Ignored    string `rest:"-"`
	internal   string
}

func TestInferSchema(t *testing.T) {
	schema, err := verify.InferSchema(&RelatedStuff{})
	assert.NoError(t, err)
	assert.Equal(t, verify.Schema{
		"id":         verify.Scalar,
		"thing":      verify.SingleRelation,
		"stuff":      verify.MultiRelation,
		"created_by": verify.Scalar,
	}, schema)

	t.Run("non struct type", func(t *testing.T) {
		_, err := verify.InferSchema(42)
		assert.Error(t, err)
	})

	t.Run("unknown kind in the tag", func(t *testing.T) {
		type Bad struct {
			Field string `rest:"field,graph"`
		}
		_, err := verify.InferSchema(Bad{})
		assert.ErrorIs(t, verify.ErrUnknownFieldKind, err)
	})
}

func TestParseFieldKind(t *testing.T) {
	for _, kind := range []verify.FieldKind{verify.Scalar, verify.SingleRelation, verify.MultiRelation} {
		got, err := verify.ParseFieldKind(kind.String())
		assert.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	got, err := verify.ParseFieldKind("m2m")
	assert.NoError(t, err)
	assert.Equal(t, verify.MultiRelation, got)
	_, err = verify.ParseFieldKind("graph")
	assert.ErrorIs(t, verify.ErrUnknownFieldKind, err)
}

func TestSchema_KindOf(t *testing.T) {
	var empty verify.Schema
	assert.Equal(t, verify.Scalar, empty.KindOf("thing"))
	assert.Equal(t, verify.SingleRelation, verify.Schema{"thing": verify.SingleRelation}.KindOf("thing"))
}

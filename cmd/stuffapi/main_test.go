package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.llib.dev/testcase/assert"
)

func TestMain_routes(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, Main(context.Background(), []string{"routes"}, &out))
	routes := strings.Fields(out.String())
	assert.Contain(t, routes, "stuff-list")
	assert.Contain(t, routes, "stuff-detail")
	assert.Contain(t, routes, "stuff-transition")
	assert.Contain(t, routes, "relatedstuff-linked-detail")
	assert.Contain(t, routes, "manyrelatedstuff-list")
}

func TestMain_serveWithInvalidStorage(t *testing.T) {
	err := Main(context.Background(), []string{"serve", "--storage", "cassandra"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestMain_unknownCommand(t *testing.T) {
	assert.Error(t, Main(context.Background(), []string{"explode"}, &bytes.Buffer{}))
}

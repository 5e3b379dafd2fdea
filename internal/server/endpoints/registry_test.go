package endpoints

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestAllRoutesDocumented(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var openapi struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &openapi))

	for _, ep := range All(Config{}) {
		method, path, _ := ep.Route()
		if strings.HasPrefix(path, "/swagger") {
			continue
		}
		path = strings.ReplaceAll(path, "...}", "}")
		ops, ok := openapi.Paths[path]
		if assert.True(t, ok, "route %s %s is not documented", method, path) {
			assert.Contains(t, ops, strings.ToLower(method), path)
		}
	}
}

func TestAllCommands(t *testing.T) {
	for _, ep := range All(Config{}) {
		method, path, handler := ep.Route()
		assert.NotEmpty(t, method)
		assert.True(t, strings.HasPrefix(path, "/"), path)
		assert.NotNil(t, handler, path)
		assert.NotNil(t, ep.Command(func() string { return "http://localhost:8080" }), path)
	}
}

package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocument(t *testing.T) {
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "Location Map API", doc.Info.Title)

	routes := map[string]string{
		"/api/v1/health":                                    "get",
		"/api/v1/locations":                                 "get",
		"/api/v1/sessions":                                  "post",
		"/api/v1/sessions/{id}":                             "delete",
		"/api/v1/sessions/{id}/scene":                       "get",
		"/api/v1/sessions/{id}/patches":                     "get",
		"/api/v1/sessions/{id}/markers/{location_id}/click": "post",
		"/api/v1/sessions/{id}/zoom":                        "post",
		"/api/v1/devices/{device_id}/positions":             "post",
	}
	for path, method := range routes {
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, path) {
			assert.Contains(t, ops, method, path)
		}
	}

	assert.Contains(t, doc.Definitions, "handler.HealthResponse")
}

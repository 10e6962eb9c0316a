package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestReadDoc_IsValidSwagger(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "2.0", doc["swagger"])
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/weather")

	defs := doc["definitions"].(map[string]any)
	assert.Contains(t, defs, "WeatherResponse")
	assert.Contains(t, defs, "Error")

	info := doc["info"].(map[string]any)
	assert.Equal(t, "OpenWeatherMap Service API", info["title"])
}

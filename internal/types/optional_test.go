package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalPresence(t *testing.T) {
	var p RecipePayload
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Pie","tags":[],"text":null}`), &p))

	assert.True(t, p.Name.Set)
	assert.Equal(t, "Pie", p.Name.Value)

	assert.True(t, p.Tags.Set)
	assert.Empty(t, p.Tags.Value)

	assert.True(t, p.Text.Set)
	assert.Equal(t, "", p.Text.Value)

	assert.False(t, p.Image.Set)
	assert.False(t, p.Ingredients.Set)
	assert.False(t, p.CookingTime.Set)
}

func TestOptionalKeepsRawNumbers(t *testing.T) {
	var p RecipePayload
	require.NoError(t, json.Unmarshal([]byte(`{"cooking_time":"15","ingredients":[{"id":"x","amount":200}]}`), &p))

	assert.Equal(t, `"15"`, string(p.CookingTime.Value))
	require.Len(t, p.Ingredients.Value, 1)
	assert.Equal(t, "200", string(p.Ingredients.Value[0].Amount))
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(out))
}

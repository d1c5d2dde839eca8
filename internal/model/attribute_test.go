package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeTypeJSON(t *testing.T) {
	var a ProductAttribute
	require.NoError(t, json.Unmarshal([]byte(`{"value":"Large","type":"SIZE","productId":1}`), &a))
	assert.Equal(t, AttributeSize, *a.Type)

	err := json.Unmarshal([]byte(`{"type":"WEIGHT"}`), &a)
	assert.ErrorContains(t, err, "unknown attribute type")

	out, err := json.Marshal(ProductAttribute{Identity: Identity{ID: 1}, Type: Ptr(AttributeColor)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"value":null,"type":"COLOR","productId":null}`, string(out))
}

func TestParseAttributeType(t *testing.T) {
	got, err := ParseAttributeType("COLOR")
	require.NoError(t, err)
	assert.Equal(t, AttributeColor, got)

	_, err = ParseAttributeType("color")
	assert.Error(t, err)
}

package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/mchoji/clairvoyancex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRefRoundTrip(t *testing.T) {
	cases := []schema.TypeRef{
		{Name: "String", Kind: schema.SCALAR, IsNullable: true},                                         // T
		{Name: "String", Kind: schema.SCALAR, IsNullable: false},                                        // T!
		{Name: "User", Kind: schema.OBJECT, IsList: true, IsListItemNullable: true, IsNullable: true},    // [T]
		{Name: "User", Kind: schema.OBJECT, IsList: true, IsListItemNullable: false, IsNullable: true},   // [T!]
		{Name: "User", Kind: schema.OBJECT, IsList: true, IsListItemNullable: false, IsNullable: false},  // [T!]!
	}

	for _, c := range cases {
		data, err := json.Marshal(c)
		require.NoError(t, err)

		var out schema.TypeRef
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, c, out)
	}
}

func TestTypeRefUnsupportedShapeFails(t *testing.T) {
	// "[T]!" is not one of the five supported shapes.
	bad := schema.TypeRef{Name: "User", Kind: schema.OBJECT, IsList: true, IsListItemNullable: true, IsNullable: false}
	_, err := json.Marshal(bad)
	assert.Error(t, err)

	var modelErr *schema.ModelError
	assert.ErrorAs(t, err, &modelErr)
}

func TestTypeRefEncodesCanonicalNesting(t *testing.T) {
	ref := schema.TypeRef{Name: "String", Kind: schema.SCALAR, IsList: true, IsListItemNullable: false, IsNullable: false}
	data, err := json.Marshal(ref)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &generic))

	assert.Equal(t, "NON_NULL", generic["kind"])
	ofType := generic["ofType"].(map[string]interface{})
	assert.Equal(t, "LIST", ofType["kind"])
	inner := ofType["ofType"].(map[string]interface{})
	assert.Equal(t, "NON_NULL", inner["kind"])
	innermost := inner["ofType"].(map[string]interface{})
	assert.Equal(t, "String", innermost["name"])
	assert.Equal(t, "SCALAR", innermost["kind"])
}

package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/mchoji/clairvoyancex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTypeIsIdempotent(t *testing.T) {
	s := schema.New("Query", "", "")

	s.AddType("User", schema.OBJECT)
	s.AddType("User", schema.INPUT_OBJECT) // must not downgrade/change kind

	typ := s.Type("User")
	require.NotNil(t, typ)
	assert.Equal(t, schema.OBJECT, typ.Kind)
}

func TestGetTypeWithoutFieldsDeterministicOrder(t *testing.T) {
	s := schema.New("Query", "", "")
	s.AddType("Alpha", schema.OBJECT)
	s.AddType("Beta", schema.OBJECT)

	// New inserts the String and ID scalars first, then Query; none of
	// them has fields yet. The scalars are ignored, as the loop does.
	ignore := map[string]bool{"String": true, "ID": true}
	assert.Equal(t, "Query", s.GetTypeWithoutFields(ignore))

	ignore["Query"] = true
	assert.Equal(t, "Alpha", s.GetTypeWithoutFields(ignore))

	ignore["Alpha"] = true
	assert.Equal(t, "Beta", s.GetTypeWithoutFields(ignore))

	ignore["Beta"] = true
	assert.Equal(t, "", s.GetTypeWithoutFields(ignore))
}

func TestGetTypeWithoutFieldsSkipsInputObjectsAndResolvedTypes(t *testing.T) {
	s := schema.New("Query", "", "")
	s.AddType("CreateUserInput", schema.INPUT_OBJECT)

	q := s.Type("Query")
	q.AddField(schema.Field{Name: "user", Type: schema.NamedRef("User", schema.OBJECT)})

	ignore := map[string]bool{"String": true, "ID": true}
	assert.Equal(t, "", s.GetTypeWithoutFields(ignore))
}

func TestGetPathFromRootUnknownType(t *testing.T) {
	s := schema.New("Query", "", "")
	_, err := s.GetPathFromRoot("Nope")
	assert.Error(t, err)

	var modelErr *schema.ModelError
	assert.ErrorAs(t, err, &modelErr)
}

func TestGetPathFromRootAndConvertPathToDocument(t *testing.T) {
	s := schema.New("Query", "", "")
	s.AddType("User", schema.OBJECT)
	s.AddType("Post", schema.OBJECT)

	q := s.Type("Query")
	q.AddField(schema.Field{Name: "user", Type: schema.NamedRef("User", schema.OBJECT)})
	u := s.Type("User")
	u.AddField(schema.Field{Name: "posts", Type: schema.TypeRef{Name: "Post", Kind: schema.OBJECT, IsList: true, IsListItemNullable: true, IsNullable: true}})

	path, err := s.GetPathFromRoot("Post")
	require.NoError(t, err)
	assert.Equal(t, []string{"Query", "user", "posts"}, path)

	doc := s.ConvertPathToDocument(path)
	assert.Equal(t, "query { user { posts { FUZZ } } }", doc)
}

// S1 from spec.md §8: seed queryType="Query", oracle recognizes only
// "user" on Query with return type User!.
func TestScenarioS1(t *testing.T) {
	s := schema.New("Query", "", "")
	q := s.Type("Query")
	q.AddField(schema.Field{Name: "user", Type: schema.TypeRef{Name: "User", Kind: schema.OBJECT, IsNullable: false}})
	s.RegisterNamedType("User")

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out schema.Schema
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "Query", out.QueryType)
	user := out.Type("User")
	require.NotNil(t, user)
	assert.Equal(t, schema.OBJECT, user.Kind)

	query := out.Type("Query")
	require.Len(t, query.Fields, 1)
	assert.Equal(t, "user", query.Fields[0].Name)
	assert.Equal(t, "User", query.Fields[0].Type.Name)
	assert.False(t, query.Fields[0].Type.IsNullable)
}

// Round-trip property (spec.md §8 item 1): from_json(to_json(S)) == S
// modulo the dummy placeholder field for empty objects.
func TestSchemaRoundTrip(t *testing.T) {
	s := schema.New("Query", "Mutation", "")
	s.AddType("User", schema.OBJECT)
	q := s.Type("Query")
	q.AddField(schema.Field{
		Name: "user",
		Type: schema.NamedRef("User", schema.OBJECT),
		Args: []schema.InputValue{{Name: "id", Type: schema.NamedRef("ID", schema.SCALAR)}},
	})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out schema.Schema
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, s.QueryType, out.QueryType)
	assert.Equal(t, s.MutationType, out.MutationType)
	assert.Equal(t, s.Type("Query").Fields, out.Type("Query").Fields)

	// User has no discovered fields: emitted with the dummy placeholder
	// on the wire, but from_json strips it back out.
	assert.Empty(t, out.Type("User").Fields)
}

// An unresolved INPUT_OBJECT must still satisfy spec.md §6: exactly one
// of fields/inputFields non-null. It gets the dummy placeholder in
// inputFields rather than falling back to null in both.
func TestMarshalJSONInputObjectGetsDummyInputFields(t *testing.T) {
	s := schema.New("Query", "", "")
	s.AddType("CreateUserInput", schema.INPUT_OBJECT)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw struct {
		Data struct {
			Schema struct {
				Types []struct {
					Name        string            `json:"name"`
					Kind        string            `json:"kind"`
					Fields      json.RawMessage   `json:"fields"`
					InputFields []json.RawMessage `json:"inputFields"`
				} `json:"types"`
			} `json:"__schema"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	var found bool
	for _, typ := range raw.Data.Schema.Types {
		if typ.Name != "CreateUserInput" {
			continue
		}
		found = true
		assert.Equal(t, "null", string(typ.Fields))
		require.Len(t, typ.InputFields, 1)
	}
	assert.True(t, found)

	var out schema.Schema
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Empty(t, out.Type("CreateUserInput").Fields)
}

func TestFieldRejectsDuplicateArgNames(t *testing.T) {
	f := &schema.Field{Name: "user"}
	assert.True(t, f.AddArg(schema.InputValue{Name: "id", Type: schema.NamedRef("ID", schema.SCALAR)}))
	assert.False(t, f.AddArg(schema.InputValue{Name: "id", Type: schema.NamedRef("String", schema.SCALAR)}))
	assert.Len(t, f.Args, 1)
}

package oracle_test

import (
	"context"
	"testing"

	"github.com/mchoji/clairvoyancex/config"
	"github.com/mchoji/clairvoyancex/oracle"
	"github.com/mchoji/clairvoyancex/schema"
	"github.com/mchoji/clairvoyancex/transport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroLog() zerolog.Logger {
	return zerolog.Nop()
}

// fakeTransport scripts one *transport.Response per exact document
// string. A document with no script entry "succeeds" with no data and
// no errors, matching a server that silently accepts the probe.
type fakeTransport struct {
	scripted map[string]*transport.Response
	calls    []string
}

func newFakeTransport(scripted map[string]*transport.Response) *fakeTransport {
	return &fakeTransport{scripted: scripted}
}

func (f *fakeTransport) Request(_ context.Context, _ transport.Method, _ string, _, _ map[string]string, document string) (*transport.Response, error) {
	f.calls = append(f.calls, document)
	if resp, ok := f.scripted[document]; ok {
		return resp, nil
	}
	return &transport.Response{}, nil
}

func errResp(messages ...string) *transport.Response {
	var errs []transport.GraphQLError
	for _, m := range messages {
		errs = append(errs, transport.GraphQLError{Message: m})
	}
	return &transport.Response{Errors: errs}
}

func TestProbeTypenameResolvesFromCannotQueryField(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { imwrongfield }": errResp(`Cannot query field "imwrongfield" on type "Query".`),
	})
	cfg := config.New("https://example.com/graphql")

	name, ok := oracle.ProbeTypename(context.Background(), tr, cfg, "query { FUZZ }", zeroLog())
	require.True(t, ok)
	assert.Equal(t, "Query", name)
}

func TestProbeTypenameFailsWhenNoDiagnosticMatches(t *testing.T) {
	tr := newFakeTransport(nil)
	cfg := config.New("https://example.com/graphql")

	_, ok := oracle.ProbeTypename(context.Background(), tr, cfg, "query { FUZZ }", zeroLog())
	assert.False(t, ok)
}

func TestProbeValidFieldsRemovesInvalidKeepsRest(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { user id }": errResp(`Cannot query field "id" on type "Query".`),
	})
	cfg := config.New("https://example.com/graphql")

	fields := oracle.ProbeValidFields(context.Background(), tr, cfg, []string{"user", "id"}, "query { FUZZ }", zeroLog())
	assert.Equal(t, []string{"user"}, fields)
}

func TestProbeValidFieldsShortCircuitsOnNoSubfields(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { a b }": errResp(`Field "x" must not have a selection since type "String" has no subfields.`),
	})
	cfg := config.New("https://example.com/graphql")

	fields := oracle.ProbeValidFields(context.Background(), tr, cfg, []string{"a", "b"}, "query { FUZZ }", zeroLog())
	assert.Empty(t, fields)
}

func TestProbeFieldTypeResolvesObjectViaSelectionRequired(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { user }": errResp(`Field "user" of type "User" must have a selection of subfields. Did you mean "user { ... }"?`),
	})
	cfg := config.New("https://example.com/graphql")

	ref, ok := oracle.ProbeFieldType(context.Background(), tr, cfg, "user", "query { FUZZ }", zeroLog())
	require.True(t, ok)
	assert.Equal(t, "User", ref.Name)
	assert.Equal(t, schema.OBJECT, ref.Kind)
	assert.True(t, ref.IsNullable)
}

func TestProbeFieldTypeResolvesScalarViaNoSubfields(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { id }":         {},
		"query { id { lol } }": errResp(`Field "id" must not have a selection since type "ID!" has no subfields.`),
	})
	cfg := config.New("https://example.com/graphql")

	ref, ok := oracle.ProbeFieldType(context.Background(), tr, cfg, "id", "query { FUZZ }", zeroLog())
	require.True(t, ok)
	assert.Equal(t, "ID", ref.Name)
	assert.Equal(t, schema.SCALAR, ref.Kind)
	assert.False(t, ref.IsNullable)
}

func TestProbeArgsRemovesUnknownKeepsRest(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { user(id: 7, bogus: 7) }": errResp(`Unknown argument "bogus" on field "user" of type "Query".`),
	})
	cfg := config.New("https://example.com/graphql")

	args := oracle.ProbeArgs(context.Background(), tr, cfg, "user", []string{"id", "bogus"}, "query { FUZZ }", zeroLog())
	assert.Equal(t, []string{"id"}, args)
}

func TestProbeArgTypeRefFromExpectedType(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { user(id: 7) }": errResp(`Expected type ID!, found 7.`),
	})
	cfg := config.New("https://example.com/graphql")

	ref, ok := oracle.ProbeArgTypeRef(context.Background(), tr, cfg, "user", "id", "query { FUZZ }", zeroLog())
	require.True(t, ok)
	assert.Equal(t, "ID", ref.Name)
	assert.False(t, ref.IsNullable)
}

func TestProbeInputFieldsFromRequiredDiagnostic(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"mutation { create(input: { name: 7, age: 7 }) }": errResp(
			`Field UserInput.email of required type String! was not provided.`,
		),
	})
	cfg := config.New("https://example.com/graphql")

	fields := oracle.ProbeInputFields(context.Background(), tr, cfg, "create", "input", []string{"name", "age"}, zeroLog())
	assert.ElementsMatch(t, []string{"name", "age", "email"}, fields)
}

func TestFetchRootTypenamesOnlyQueryConfigured(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { __typename }":        {Data: []byte(`{"__typename":"Query"}`)},
		"mutation { __typename }":      errResp("Schema is not configured for mutations."),
		"subscription { __typename }": errResp("Schema is not configured for subscriptions."),
	})
	cfg := config.New("https://example.com/graphql")

	q, m, s, err := oracle.FetchRootTypenames(context.Background(), tr, cfg, zeroLog())
	require.NoError(t, err)
	assert.Equal(t, "Query", q)
	assert.Empty(t, m)
	assert.Empty(t, s)
}

func TestFetchRootTypenamesAllUnreachableIsFatal(t *testing.T) {
	tr := newFakeTransport(nil)
	cfg := config.New("https://example.com/graphql")

	_, _, _, err := oracle.FetchRootTypenames(context.Background(), tr, cfg, zeroLog())
	assert.Error(t, err)
}

// TestRunDiscoversNestedObjectAndScalarField exercises the full loop
// end to end: Query.user resolves to an object type User, which in
// turn exposes a single scalar field User.id — covering probe
// monotonicity, path-from-root correctness, and termination (spec.md
// §8 properties 4, 6, 7) in one scripted scenario.
func TestRunDiscoversNestedObjectAndScalarField(t *testing.T) {
	tr := newFakeTransport(map[string]*transport.Response{
		"query { __typename }":        {Data: []byte(`{"__typename":"Query"}`)},
		"mutation { __typename }":      errResp("Schema is not configured for mutations."),
		"subscription { __typename }": errResp("Schema is not configured for subscriptions."),

		"query { imwrongfield }": errResp(`Cannot query field "imwrongfield" on type "Query".`),
		"query { user id }":      errResp(`Cannot query field "id" on type "Query".`),
		"query { user }":         errResp(`Field "user" of type "User" must have a selection of subfields. Did you mean "user { ... }"?`),
		"query { user(user: 7, id: 7) }": errResp(
			`Unknown argument "user" on field "user" of type "Query".`,
			`Unknown argument "id" on field "user" of type "Query".`,
		),

		"query { user { imwrongfield } }": errResp(`Cannot query field "imwrongfield" on type "User".`),
		"query { user { user id } }":      errResp(`Cannot query field "user" on type "User".`),
		"query { user { id } }":           {},
		"query { user { id { lol } } }":   errResp(`Field "id" must not have a selection since type "ID!" has no subfields.`),
	})
	cfg := config.New("https://example.com/graphql")

	sch, err := oracle.Run(context.Background(), cfg, tr, []string{"user", "id"}, nil, oracle.WithLogger(zeroLog()))
	require.NoError(t, err)

	queryType := sch.Type("Query")
	require.NotNil(t, queryType)
	require.Len(t, queryType.Fields, 1)
	assert.Equal(t, "user", queryType.Fields[0].Name)
	assert.Equal(t, "User", queryType.Fields[0].Type.Name)
	assert.Equal(t, schema.OBJECT, queryType.Fields[0].Type.Kind)
	assert.Empty(t, queryType.Fields[0].Args)

	userType := sch.Type("User")
	require.NotNil(t, userType)
	require.Len(t, userType.Fields, 1)
	assert.Equal(t, "id", userType.Fields[0].Name)
	assert.Equal(t, "ID", userType.Fields[0].Type.Name)
	assert.Equal(t, schema.SCALAR, userType.Fields[0].Type.Kind)
	assert.False(t, userType.Fields[0].Type.IsNullable)
}

func TestRunFailsWhenRootTypenamesUnreachable(t *testing.T) {
	tr := newFakeTransport(nil)
	cfg := config.New("https://example.com/graphql")

	_, err := oracle.Run(context.Background(), cfg, tr, []string{"user"}, nil)
	assert.Error(t, err)
}

package ioutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	ioutilx "github.com/mchoji/clairvoyancex/internal/ioutil"
	"github.com/mchoji/clairvoyancex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWordlistSkipsBlankAndCommentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("user\n\n# comment\nposts\n  \nid\n"), 0o644))

	words, err := ioutilx.LoadWordlist(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "posts", "id"}, words)
}

func TestLoadSeedSchemaEmptyPathReturnsNil(t *testing.T) {
	sch, err := ioutilx.LoadSeedSchema(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, sch)
}

func TestWriteThenLoadSeedSchemaRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")

	sch := schema.New("Query", "", "")
	sch.AddType("User", schema.OBJECT)

	require.NoError(t, ioutilx.WriteSchema(context.Background(), path, sch))

	loaded, err := ioutilx.LoadSeedSchema(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Query", loaded.QueryType)
	assert.True(t, loaded.HasType("User"))
}

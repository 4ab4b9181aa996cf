package kvpairs

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T) *DocumentRepo {
	repo := NewDocumentRepo(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestDocumentRepo_SaveAndFind(t *testing.T) {
	repo := testRepo(t)

	text := "a: [1, 2]\nempty: []\n"
	pairs, err := ParseKeyValuePairs(text)
	require.NoError(t, err)

	doc, err := repo.Save("holdings", "/tmp/holdings.kv", text, pairs)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Serial)
	assert.Equal(t, hash(text), doc.Hash)

	found, err := repo.Find("holdings")
	require.NoError(t, err)
	assert.Equal(t, doc.Serial, found.Serial)
	assert.Equal(t, "/tmp/holdings.kv", found.Source)

	stored, err := found.Pairs()
	require.NoError(t, err)
	assert.Equal(t, pairs, stored)
}

func TestDocumentRepo_SaveReplaces(t *testing.T) {
	repo := testRepo(t)

	first, err := repo.Save("doc", "v1.kv", "a: [1]", Pairs{"a": {1}, "b": {2}})
	require.NoError(t, err)
	second, err := repo.Save("doc", "v2.kv", "a: [3]", Pairs{"a": {3}})
	require.NoError(t, err)
	assert.Equal(t, first.Serial, second.Serial)

	found, err := repo.Find("doc")
	require.NoError(t, err)
	assert.Equal(t, "v2.kv", found.Source)

	stored, err := found.Pairs()
	require.NoError(t, err)
	assert.Equal(t, Pairs{"a": {3}}, stored)
}

func TestDocumentRepo_FindMissing(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.Find("nothing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDocumentRepo_ListAndRemove(t *testing.T) {
	repo := testRepo(t)

	for _, name := range []string{"alpha", "beta", "alps", "with_underscore"} {
		_, err := repo.Save(name, name+".kv", "", Pairs{"k": {1}})
		require.NoError(t, err)
	}

	docs, err := repo.List()
	require.NoError(t, err)
	require.Len(t, docs, 4)
	assert.Equal(t, "alpha", docs[0].Name)
	assert.Len(t, docs[0].Entries, 1)

	docs, err = repo.List("al*")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = repo.List("with_*", "beta")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	removed, err := repo.Remove("alpha", "beta", "missing")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	docs, err = repo.List()
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	removed, err = repo.Remove("missing")
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed)
}

func TestDocumentRepo_NoLocation(t *testing.T) {
	repo := NewDocumentRepo(NO_DATABASE)
	_, err := repo.List()
	assert.Error(t, err)
}

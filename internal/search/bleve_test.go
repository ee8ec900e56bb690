package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/microblog/internal/search"
)

func memIndex(t *testing.T) *search.BleveIndex {
	t.Helper()

	idx, err := search.NewMemBleve()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestUpsertAndQuery(t *testing.T) {
	idx := memIndex(t)

	require.NoError(t, idx.Upsert("posts", "1", map[string]interface{}{"body": "beautiful day in portland"}))
	require.NoError(t, idx.Upsert("posts", "2", map[string]interface{}{"body": "the avengers movie was so cool"}))

	ids, total, err := idx.Query("posts", "portland", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"1"}, ids)
}

func TestUpsertReplacesDocument(t *testing.T) {
	idx := memIndex(t)

	require.NoError(t, idx.Upsert("posts", "1", map[string]interface{}{"body": "old text"}))
	require.NoError(t, idx.Upsert("posts", "1", map[string]interface{}{"body": "new text"}))

	_, total, err := idx.Query("posts", "old", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	ids, total, err := idx.Query("posts", "new", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"1"}, ids)
}

func TestDelete(t *testing.T) {
	idx := memIndex(t)

	require.NoError(t, idx.Upsert("posts", "1", map[string]interface{}{"body": "to be removed"}))
	require.NoError(t, idx.Delete("posts", "1"))

	ids, total, err := idx.Query("posts", "removed", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, ids)
}

func TestQueryScopedToNamespace(t *testing.T) {
	idx := memIndex(t)

	require.NoError(t, idx.Upsert("posts", "1", map[string]interface{}{"body": "shared term"}))
	require.NoError(t, idx.Upsert("comments", "1", map[string]interface{}{"body": "shared term"}))

	ids, total, err := idx.Query("posts", "shared", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"1"}, ids)
}

func TestQueryPagination(t *testing.T) {
	idx := memIndex(t)

	require.NoError(t, idx.Upsert("posts", "1", map[string]interface{}{"body": "pagination target one"}))
	require.NoError(t, idx.Upsert("posts", "2", map[string]interface{}{"body": "pagination target two"}))
	require.NoError(t, idx.Upsert("posts", "3", map[string]interface{}{"body": "pagination target three"}))

	ids, total, err := idx.Query("posts", "pagination", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, ids, 2)

	ids, _, err = idx.Query("posts", "pagination", 2, 2)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestSyncPropagatesIndexErrors(t *testing.T) {
	cs := &search.ChangeSet{}
	cs.StageInsert(failingDoc{})

	err := search.Sync(failingIndex{}, cs)
	assert.Error(t, err)
}

type failingDoc struct{}

func (failingDoc) IndexName() string                   { return "posts" }
func (failingDoc) IndexID() string                     { return "1" }
func (failingDoc) IndexFields() map[string]interface{} { return nil }

type failingIndex struct{}

func (failingIndex) Upsert(string, string, map[string]interface{}) error { return assert.AnError }
func (failingIndex) Delete(string, string) error                         { return assert.AnError }
func (failingIndex) Query(string, string, int, int) ([]string, int64, error) {
	return nil, 0, assert.AnError
}

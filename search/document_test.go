package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/snapdex/core"
)

func TestAdd_SearchRoundTrip(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Add(item("a", "invoice total 42", "march groceries", "receipt")))

	results, err := idx.Search(&core.SearchQuery{Query: "invoice"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Id)
	assert.Positive(t, results[0].Score)
}

func TestAdd_RejectsInvalidItem(t *testing.T) {
	idx := newTestIndex(t)

	err := idx.Add(&core.SearchableItem{OcrText: "no id"})
	assert.ErrorIs(t, err, core.ErrEmptyID)
}

func TestUpdate_ReplacesNotAppends(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Add(item("x", "", "old note")))
	require.NoError(t, idx.Update(item("x", "", "new note")))

	results, err := idx.Search(&core.SearchQuery{Query: "old"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Search(&core.SearchQuery{Query: "new"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "x", results[0].Id)

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestUpdate_WithoutPriorDocumentActsAsAdd(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Update(item("fresh", "brand new", "")))

	results, err := idx.Search(&core.SearchQuery{Query: "brand"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fresh", results[0].Id)
}

func TestDelete_IsIdempotent(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Delete("never-added"))

	require.NoError(t, idx.Add(item("a", "some text", "")))
	require.NoError(t, idx.Delete("a"))
	require.NoError(t, idx.Delete("a"))

	results, err := idx.Search(&core.SearchQuery{Query: "some"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClear_EmptiesIndexAndStaysUsable(t *testing.T) {
	idx := newTestIndex(t)

	for n := 0; n < 25; n++ {
		require.NoError(t, idx.Add(item(fmt.Sprintf("doc-%d", n), "shared token", "")))
	}

	require.NoError(t, idx.Clear())

	stats, err := idx.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDocs())

	results, err := idx.Search(&core.SearchQuery{Query: "shared"})
	require.NoError(t, err)
	assert.Empty(t, results)

	// Store is still open and usable, not destroyed.
	require.NoError(t, idx.Add(item("after", "fresh content", "")))
	results, err = idx.Search(&core.SearchQuery{Query: "fresh"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestStats_ReportsLiveDocs(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Add(item("a", "one", "")))
	require.NoError(t, idx.Add(item("b", "two", "")))

	stats, err := idx.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.TotalDocs())
}

package snapdex

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/snapdex/core"
	"github.com/poiesic/snapdex/storage"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func testItem(id, text string) *core.SearchableItem {
	now := time.Now().UTC()
	return &core.SearchableItem{
		Id:        id,
		OcrText:   text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestEngine_AddSearchRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Add(ctx, testItem("a", "coffee receipt from the corner shop")))

	results, err := engine.Search(ctx, &core.SearchQuery{Query: "coffee"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Id)

	// The catalog holds the source record too.
	item, err := engine.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "coffee receipt from the corner shop", item.OcrText)
}

func TestEngine_AddInvalidItem(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	err := engine.Add(ctx, &core.SearchableItem{OcrText: "no id"})
	assert.ErrorIs(t, err, core.ErrEmptyID)

	err = engine.Add(ctx, nil)
	assert.ErrorIs(t, err, core.ErrInvalidItem)
}

func TestEngine_UpdateReplaces(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Add(ctx, testItem("a", "original wording")))
	require.NoError(t, engine.Update(ctx, testItem("a", "revised wording")))

	results, err := engine.Search(ctx, &core.SearchQuery{Query: "original"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = engine.Search(ctx, &core.SearchQuery{Query: "revised"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	item, err := engine.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "revised wording", item.OcrText)
}

func TestEngine_UpdateActsAsAdd(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Update(ctx, testItem("fresh", "never seen before")))

	results, err := engine.Search(ctx, &core.SearchQuery{Query: "never"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestEngine_Delete(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Add(ctx, testItem("a", "short lived")))
	require.NoError(t, engine.Delete(ctx, "a"))

	results, err := engine.Search(ctx, &core.SearchQuery{Query: "lived"})
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = engine.Get(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Absent ids are a no-op.
	assert.NoError(t, engine.Delete(ctx, "a"))
}

func TestEngine_Clear(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	for n := 0; n < 5; n++ {
		require.NoError(t, engine.Add(ctx, testItem(fmt.Sprintf("item-%d", n), "clearable content")))
	}

	require.NoError(t, engine.Clear(ctx))

	results, err := engine.Search(ctx, &core.SearchQuery{})
	require.NoError(t, err)
	assert.Empty(t, results)

	// Both stores stay open and usable.
	require.NoError(t, engine.Add(ctx, testItem("after", "still works")))
	results, err = engine.Search(ctx, &core.SearchQuery{Query: "works"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestEngine_Stats(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Add(ctx, testItem("a", "one")))
	require.NoError(t, engine.Add(ctx, testItem("b", "two")))

	stats, err := engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.TotalDocs())
	assert.Equal(t, uint64(2), stats["catalog_items"])
}

func TestEngine_Rebuild(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	for n := 0; n < 3; n++ {
		require.NoError(t, engine.Add(ctx, testItem(fmt.Sprintf("item-%d", n), "rebuildable content")))
	}

	count, err := engine.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	results, err := engine.Search(ctx, &core.SearchQuery{Query: "rebuildable"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestEngine_ClosedOperationsFail(t *testing.T) {
	engine, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, engine.Close())
	require.NoError(t, engine.Close())

	ctx := context.Background()
	assert.ErrorIs(t, engine.Add(ctx, testItem("a", "x")), ErrEngineClosed)
	assert.ErrorIs(t, engine.Update(ctx, testItem("a", "x")), ErrEngineClosed)
	assert.ErrorIs(t, engine.Delete(ctx, "a"), ErrEngineClosed)
	assert.ErrorIs(t, engine.Clear(ctx), ErrEngineClosed)

	_, err = engine.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrEngineClosed)
	_, err = engine.Search(ctx, &core.SearchQuery{})
	assert.ErrorIs(t, err, ErrEngineClosed)
	_, err = engine.Stats(ctx)
	assert.ErrorIs(t, err, ErrEngineClosed)
	_, err = engine.Rebuild(ctx)
	assert.ErrorIs(t, err, ErrEngineClosed)
}

func TestEngine_ImporterIntegration(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	importer, err := engine.NewImporter()
	require.NoError(t, err)
	defer importer.Release()

	items := []*core.SearchableItem{
		testItem("bulk-a", "imported alpha"),
		testItem("bulk-b", "imported beta"),
	}
	report, err := importer.Run(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), report.Imported)

	results, err := engine.Search(ctx, &core.SearchQuery{Query: "imported"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

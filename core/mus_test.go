package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchableItemMUS_RoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC)
	item := SearchableItem{
		Id:           "a1b2c3",
		OcrText:      "invoice total 42",
		Memo:         "march groceries",
		Tags:         []string{"receipt", "food"},
		LocationName: "Berlin",
		GroupTitle:   "2025 expenses",
		ImagePath:    "/captures/2025/03/invoice.png",
		CreatedAt:    created,
		UpdatedAt:    created.Add(time.Minute),
	}

	bs := make([]byte, SearchableItemMUS.Size(item))
	n := SearchableItemMUS.Marshal(item, bs)
	require.Equal(t, len(bs), n)

	got, n, err := SearchableItemMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, item, got)
}

func TestSearchableItemMUS_ZeroValues(t *testing.T) {
	item := SearchableItem{Id: "only-id"}

	bs := make([]byte, SearchableItemMUS.Size(item))
	SearchableItemMUS.Marshal(item, bs)

	got, _, err := SearchableItemMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, "only-id", got.Id)
	assert.Nil(t, got.Tags)
	assert.True(t, got.CreatedAt.IsZero())
	assert.True(t, got.UpdatedAt.IsZero())
}

func TestSearchableItemMUS_TruncatedData(t *testing.T) {
	item := SearchableItem{Id: "a1b2c3", OcrText: "some text"}
	bs := make([]byte, SearchableItemMUS.Size(item))
	SearchableItemMUS.Marshal(item, bs)

	_, _, err := SearchableItemMUS.Unmarshal(bs[:3])
	assert.Error(t, err)
}

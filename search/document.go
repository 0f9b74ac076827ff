// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/poiesic/snapdex/core"
)

// clearBatchSize bounds how many deletions go into one batch during Clear.
const clearBatchSize = 500

// buildDocument converts an item into the flat field map the index
// consumes. Missing optionals become empty strings rather than absent
// fields, so every document carries the full field set.
func buildDocument(item *core.SearchableItem) map[string]interface{} {
	return map[string]interface{}{
		FieldID:           item.Id,
		FieldOcrText:      item.OcrText,
		FieldMemo:         item.Memo,
		FieldTags:         item.FlattenedTags(),
		FieldLocationName: item.LocationName,
		FieldGroupTitle:   item.GroupTitle,
		FieldImagePath:    item.ImagePath,
		FieldCreatedAt:    item.CreatedAt,
		FieldUpdatedAt:    item.UpdatedAt,
	}
}

// Add indexes an item and commits it. The write is visible to the next
// query once Add returns.
func (i *Index) Add(item *core.SearchableItem) error {
	if i.closed {
		return ErrIndexClosed
	}
	if err := core.ValidateItem(item); err != nil {
		return err
	}
	if err := i.index.Index(item.Id, buildDocument(item)); err != nil {
		return fmt.Errorf("index item %q: %w", item.Id, err)
	}
	return nil
}

// Update replaces any existing document with the item's id. The delete
// and re-add travel in one batch, so the swap is committed atomically:
// a crash cannot leave the id missing. With no prior document this is
// equivalent to Add.
func (i *Index) Update(item *core.SearchableItem) error {
	if i.closed {
		return ErrIndexClosed
	}
	if err := core.ValidateItem(item); err != nil {
		return err
	}
	batch := i.index.NewBatch()
	batch.Delete(item.Id)
	if err := batch.Index(item.Id, buildDocument(item)); err != nil {
		return fmt.Errorf("stage item %q: %w", item.Id, err)
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("update item %q: %w", item.Id, err)
	}
	return nil
}

// AddBatch indexes a group of items in one batch, so the whole group
// becomes durable and visible in a single commit. Used by bulk import;
// interactive writes go through Add.
func (i *Index) AddBatch(items []*core.SearchableItem) error {
	if i.closed {
		return ErrIndexClosed
	}
	if len(items) == 0 {
		return nil
	}
	batch := i.index.NewBatch()
	for _, item := range items {
		if err := batch.Index(item.Id, buildDocument(item)); err != nil {
			return fmt.Errorf("stage item %q: %w", item.Id, err)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch of %d: %w", len(items), err)
	}
	return nil
}

// Delete removes the document with the given id and commits. Deleting
// an absent id succeeds as a no-op.
func (i *Index) Delete(id string) error {
	if i.closed {
		return ErrIndexClosed
	}
	if err := i.index.Delete(id); err != nil {
		return fmt.Errorf("delete item %q: %w", id, err)
	}
	return nil
}

// Clear deletes every document, in bounded batches, leaving the index
// open and usable.
func (i *Index) Clear() error {
	if i.closed {
		return ErrIndexClosed
	}
	for {
		req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), clearBatchSize, 0, false)
		res, err := i.index.Search(req)
		if err != nil {
			return fmt.Errorf("enumerate documents: %w", err)
		}
		if len(res.Hits) == 0 {
			return nil
		}
		batch := i.index.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
		if err := i.index.Batch(batch); err != nil {
			return fmt.Errorf("clear batch: %w", err)
		}
	}
}

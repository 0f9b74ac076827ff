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


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/snapdex/core"
	"github.com/poiesic/snapdex/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository on the given backend.
func NewItemRepository(backend *Backend) *ItemRepository {
	return &ItemRepository{backend: backend}
}

// Close is a no-op; the repository holds no resources beyond the
// backend, which is closed by its owner.
func (r *ItemRepository) Close() error {
	return nil
}

// PutItem stores an item, overwriting any existing item with the same id.
func (r *ItemRepository) PutItem(ctx context.Context, item *core.SearchableItem) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeItemKey(item.Id), storage.MarshalItem(item)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetItem retrieves a single item by id.
func (r *ItemRepository) GetItem(ctx context.Context, id string) (*core.SearchableItem, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var item *core.SearchableItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := tx.Get(makeItemKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return entry.Value(func(val []byte) error {
			item, err = storage.UnmarshalItem(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item by id. Absent ids are a no-op.
func (r *ItemRepository) DeleteItem(ctx context.Context, id string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeItemKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ForEachItem calls fn for every stored item.
func (r *ItemRepository) ForEachItem(ctx context.Context, fn func(item *core.SearchableItem) error) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = itemKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var item *core.SearchableItem
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(item); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// CountItems returns the number of stored items.
func (r *ItemRepository) CountItems(ctx context.Context) (uint64, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	var count uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = itemKeyPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// ClearItems removes every stored item.
func (r *ItemRepository) ClearItems(ctx context.Context) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.DropPrefix(itemKeyPrefix())
}

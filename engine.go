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


// Package snapdex is a local full-text search service for captured
// records: it catalogs items durably, indexes their text fields, and
// answers ranked, filterable queries with highlight synthesis.
//
// The Engine is an explicit handle: construct it once with Open and
// pass it to whatever dispatches host commands. There is no package
// global. All public operations serialize through one mutex, so callers
// get consistency rather than parallel speedup, and commits are synchronous
// disk I/O, so hosts with latency-sensitive foreground threads should
// call mutations from a background worker.
package snapdex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/poiesic/snapdex/core"
	"github.com/poiesic/snapdex/ingest"
	"github.com/poiesic/snapdex/search"
	"github.com/poiesic/snapdex/storage"
	"github.com/poiesic/snapdex/storage/badger"
)

// ErrEngineClosed is returned by every operation on a closed Engine.
var ErrEngineClosed = errors.New("engine is closed")

// Engine bundles the record catalog and the full-text index behind a
// single serialized handle.
type Engine struct {
	mu      sync.Mutex
	backend *badger.Backend
	catalog storage.ItemRepository
	index   *search.Index
	logger  *slog.Logger
	closed  bool
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open initializes the engine under dir, creating the directory tree on
// first use: the catalog lives in dir/catalog, the index in
// dir/index.bleve. Initialization failures (uncreatable directory,
// schema mismatch, lock contention) leave nothing half-open: whatever
// was opened is closed again before the error is returned.
func Open(dir string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filepath.Join(dir, "catalog"), false)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	catalog := badger.NewItemRepository(backend)

	index, err := search.Open(filepath.Join(dir, "index.bleve"), search.WithLogger(options.logger))
	if err != nil {
		catalog.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend: backend,
		catalog: catalog,
		index:   index,
		logger:  options.logger,
	}, nil
}

// Close closes the index and the catalog. Safe to call more than once;
// any operation after Close fails with ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	var firstErr error
	if err := e.index.Close(); err != nil {
		e.logger.Error("error closing index", "err", err)
		firstErr = err
	}
	if err := e.catalog.Close(); err != nil {
		e.logger.Error("error closing catalog", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing catalog backend", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Add catalogs and indexes an item. The index write is committed before
// Add returns; the next search observes it. If indexing fails the
// catalog entry is rolled back so both stores stay in step.
func (e *Engine) Add(ctx context.Context, item *core.SearchableItem) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	return e.addLocked(ctx, item)
}

func (e *Engine) addLocked(ctx context.Context, item *core.SearchableItem) error {
	if err := core.ValidateItem(item); err != nil {
		return err
	}
	if err := e.catalog.PutItem(ctx, item); err != nil {
		return fmt.Errorf("catalog item %q: %w", item.Id, err)
	}
	if err := e.index.Add(item); err != nil {
		if rbErr := e.catalog.DeleteItem(ctx, item.Id); rbErr != nil {
			e.logger.Error("catalog rollback failed", "id", item.Id, "err", rbErr)
		}
		return err
	}
	return nil
}

// Update replaces any existing item with the same id. Delete and re-add
// resolve within a single index commit; with no prior item Update
// behaves exactly like Add.
func (e *Engine) Update(ctx context.Context, item *core.SearchableItem) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if err := core.ValidateItem(item); err != nil {
		return err
	}
	if err := e.catalog.PutItem(ctx, item); err != nil {
		return fmt.Errorf("catalog item %q: %w", item.Id, err)
	}
	return e.index.Update(item)
}

// Delete removes an item by id from both stores. Absent ids succeed as
// a no-op.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if err := e.catalog.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete catalog item %q: %w", id, err)
	}
	return e.index.Delete(id)
}

// Get retrieves the cataloged source record for an id.
// Returns storage.ErrNotFound if the item doesn't exist.
func (e *Engine) Get(ctx context.Context, id string) (*core.SearchableItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	return e.catalog.GetItem(ctx, id)
}

// Search executes a query and returns ranked results.
func (e *Engine) Search(ctx context.Context, query *core.SearchQuery) ([]*core.SearchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	return e.index.Search(query)
}

// Clear removes every item from the catalog and the index, leaving both
// open and usable.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if err := e.catalog.ClearItems(ctx); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	return e.index.Clear()
}

// Stats reports live document counters from the current index snapshot,
// plus the catalog record count under "catalog_items".
func (e *Engine) Stats(ctx context.Context) (core.IndexStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	stats, err := e.index.Stats()
	if err != nil {
		return nil, err
	}
	if count, err := e.catalog.CountItems(ctx); err == nil {
		stats["catalog_items"] = count
	}
	return stats, nil
}

// Rebuild drops the index contents and re-adds every cataloged record.
// This is the recovery path for schema changes: delete the index
// directory, reopen the engine, and Rebuild restores query capability
// from the source data.
func (e *Engine) Rebuild(ctx context.Context) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, ErrEngineClosed
	}
	if err := e.index.Clear(); err != nil {
		return 0, err
	}
	var count uint64
	err := e.catalog.ForEachItem(ctx, func(item *core.SearchableItem) error {
		if err := e.index.Add(item); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// NewImporter creates a bulk import pipeline over this engine's stores.
// The importer takes the engine lock per batch, so imports interleave
// with regular operations instead of starving them.
func (e *Engine) NewImporter(opts ...ingest.Option) (*ingest.Importer, error) {
	return ingest.NewImporter(e.catalog, e.index, &e.mu, opts...)
}

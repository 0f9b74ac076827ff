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


package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/snapdex/core"
	"github.com/poiesic/snapdex/search"
	"github.com/poiesic/snapdex/storage"
)

const defaultBatchSize = 100

// Importer bulk-loads records into the catalog and the index.
type Importer struct {
	catalog   storage.ItemRepository
	index     *search.Index
	lock      sync.Locker
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Report summarizes one import run.
type Report struct {
	Imported uint64
	Failed   uint64
	Elapsed  time.Duration
}

// Option configures an Importer.
type Option func(*Importer) error

// WithPoolSize sets the worker pool size for item preparation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}
		if im.pool != nil {
			im.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		im.pool = pool
		return nil
	}
}

// WithBatchSize sets how many items share one index commit.
// Default is 100.
func WithBatchSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}
		im.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger
		return nil
	}
}

// NewImporter creates a bulk importer. The locker serializes index
// commits with the owning engine's other operations.
func NewImporter(catalog storage.ItemRepository, index *search.Index, lock sync.Locker, opts ...Option) (*Importer, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if lock == nil {
		return nil, ErrLockerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	im := &Importer{
		catalog:   catalog,
		index:     index,
		lock:      lock,
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(im); err != nil {
			im.Release()
			return nil, err
		}
	}
	return im, nil
}

// Release shuts the worker pool down. The catalog and index belong to
// the owning engine and stay open.
func (im *Importer) Release() {
	if im.pool != nil {
		im.pool.Release()
	}
}

// Run imports the given items. Workers validate each item, derive a
// content-based id when none is set, and write the catalog entry;
// prepared items are then indexed in batches, each batch one commit
// taken under the engine lock. Items that fail validation or cataloging
// are logged, counted in the report, and skipped.
func (im *Importer) Run(ctx context.Context, items []*core.SearchableItem) (*Report, error) {
	start := time.Now()
	report := &Report{}

	prepared := make(chan *core.SearchableItem, im.batchSize)

	var wg sync.WaitGroup
	var failures uint64
	var failuresMu sync.Mutex

	countFailure := func(id string, err error) {
		im.logger.Warn("skipping item", "id", id, "err", err)
		failuresMu.Lock()
		failures++
		failuresMu.Unlock()
	}

	for _, item := range items {
		item := item
		wg.Add(1)
		err := im.pool.Submit(func() {
			defer wg.Done()
			if item != nil && item.Id == "" {
				item.Id = core.IDFromContent(item.ImagePath + "\x00" + item.OcrText + "\x00" + item.Memo)
			}
			if err := core.ValidateItem(item); err != nil {
				countFailure(itemId(item), err)
				return
			}
			if err := im.catalog.PutItem(ctx, item); err != nil {
				countFailure(item.Id, err)
				return
			}
			prepared <- item
		})
		if err != nil {
			wg.Done()
			countFailure(itemId(item), err)
		}
	}

	go func() {
		wg.Wait()
		close(prepared)
	}()

	batch := make([]*core.SearchableItem, 0, im.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		im.lock.Lock()
		err := im.index.AddBatch(batch)
		im.lock.Unlock()
		if err != nil {
			return err
		}
		report.Imported += uint64(len(batch))
		batch = batch[:0]
		return nil
	}

	drainAndReturn := func(err error) (*Report, error) {
		// Unblock remaining workers before reporting the commit error.
		go func() {
			for range prepared {
			}
		}()
		report.Elapsed = time.Since(start)
		return report, err
	}

	for item := range prepared {
		batch = append(batch, item)
		if len(batch) >= im.batchSize {
			if err := flush(); err != nil {
				return drainAndReturn(err)
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}

	failuresMu.Lock()
	report.Failed = failures
	failuresMu.Unlock()
	report.Elapsed = time.Since(start)

	im.logger.Info("import finished",
		"imported", report.Imported,
		"failed", report.Failed,
		"elapsed", report.Elapsed)
	return report, nil
}

func itemId(item *core.SearchableItem) string {
	if item == nil {
		return ""
	}
	return item.Id
}

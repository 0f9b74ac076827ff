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
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Index is the single writable handle on an on-disk inverted index.
// At most one Index may be open per path per process; a second Open on
// the same path fails with ErrIndexLocked. Cross-process contention is
// caught by the underlying store's own file lock and surfaces as an
// open error.
type Index struct {
	path        string
	index       bleve.Index
	fingerprint string
	logger      *slog.Logger
	closed      bool
}

// openPaths tracks index paths held by this process so that a second
// writer fails loudly instead of corrupting state.
var openPaths sync.Map

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// Open opens the index at path, creating a new empty one (and the
// directory leading to it) if none exists. Reopening validates the
// on-disk schema against the compiled schema and fails with
// ErrSchemaMismatch on any difference; there is no migration path.
func Open(path string, opts ...Option) (*Index, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve index path: %w", err)
	}

	if _, held := openPaths.LoadOrStore(abs, struct{}{}); held {
		return nil, fmt.Errorf("%w: %s", ErrIndexLocked, abs)
	}

	idx, err := openOrCreate(abs)
	if err != nil {
		openPaths.Delete(abs)
		return nil, err
	}

	want, err := schemaFingerprint(buildIndexMapping())
	if err != nil {
		idx.Close()
		openPaths.Delete(abs)
		return nil, err
	}
	got, err := schemaFingerprint(idx.Mapping())
	if err != nil {
		idx.Close()
		openPaths.Delete(abs)
		return nil, err
	}
	if got != want {
		idx.Close()
		openPaths.Delete(abs)
		return nil, fmt.Errorf("%w: index at %s was built with a different schema; rebuild it from the catalog", ErrSchemaMismatch, abs)
	}

	i := &Index{
		path:        abs,
		index:       idx,
		fingerprint: got,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			i.Close()
			return nil, err
		}
	}
	return i, nil
}

// openOrCreate opens an existing index or creates a new empty one.
func openOrCreate(path string) (bleve.Index, error) {
	idx, err := bleve.Open(path)
	if err == nil {
		return idx, nil
	}
	if err != bleve.ErrorIndexPathDoesNotExist {
		return nil, fmt.Errorf("open index at %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	idx, err = bleve.New(path, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index at %s: %w", path, err)
	}
	return idx, nil
}

// Close closes the index and releases the path for other writers.
// Safe to call more than once.
func (i *Index) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	err := i.index.Close()
	openPaths.Delete(i.path)
	return err
}

// Path returns the resolved filesystem path of the index.
func (i *Index) Path() string {
	return i.path
}

// SchemaFingerprint returns the digest of the schema this index was
// opened with.
func (i *Index) SchemaFingerprint() string {
	return i.fingerprint
}

// DocCount returns the number of live documents in the current snapshot.
func (i *Index) DocCount() (uint64, error) {
	if i.closed {
		return 0, ErrIndexClosed
	}
	return i.index.DocCount()
}

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

import "errors"

var (
	// ErrIndexClosed indicates an operation was attempted on a closed index.
	ErrIndexClosed = errors.New("index is closed")

	// ErrIndexLocked indicates another writer already holds the index path.
	ErrIndexLocked = errors.New("index is locked by another writer")

	// ErrSchemaMismatch indicates the on-disk schema differs from the
	// compiled schema. There is no migration path; the index must be
	// rebuilt from the catalog.
	ErrSchemaMismatch = errors.New("index schema mismatch")

	// ErrQueryFailed indicates query execution failed. No partial
	// results are returned.
	ErrQueryFailed = errors.New("query execution failed")
)

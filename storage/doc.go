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


// Package storage provides the catalog abstraction layer for snapdex.
//
// The catalog is the durable source-of-truth copy of every indexed
// record, kept separately from the inverted index. The index can always
// be rebuilt from the catalog, which is what makes a fixed, versionless
// index schema workable: any schema change is handled by dropping the
// index and re-adding every catalog record.
//
// This package defines the ItemRepository interface that decouples the
// catalog from its storage backend. The badger subpackage provides the
// BadgerDB implementation; tests use its in-memory mode.
package storage

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


// Package search provides the full-text index over captured records.
//
// The Index type wraps a Bleve inverted index with a fixed, closed
// schema: the text fields of a record (OCR text, memo, flattened tags,
// location, group title) are tokenized and stored, while id and image
// path are stored-only payload. Queries combine free text, an optional
// field restriction, an inclusive created-at date range, and AND-ed tag
// filters; hits come back ranked by descending relevance with
// substring-based highlights and matched-field sets.
//
// Every mutation is committed individually; an update (delete + re-add)
// goes through one batch and therefore one commit. Queries always see
// the latest committed state: the underlying index refreshes its
// snapshot automatically on the next search.
package search

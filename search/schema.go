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
	"encoding/json"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/poiesic/snapdex/core"
)

// Index field names. The field set is closed: dynamic mapping is
// disabled and unmapped fields are never indexed.
const (
	FieldID           = "id"
	FieldOcrText      = "ocr_text"
	FieldMemo         = "memo"
	FieldTags         = "tags"
	FieldLocationName = "location_name"
	FieldGroupTitle   = "group_title"
	FieldImagePath    = "image_path"
	FieldCreatedAt    = "created_at"
	FieldUpdatedAt    = "updated_at"
)

// DefaultTextFields is the field set a free-text query searches when no
// field restriction is given.
var DefaultTextFields = []string{
	FieldOcrText,
	FieldMemo,
	FieldTags,
	FieldLocationName,
	FieldGroupTitle,
}

// highlightableFields are the stored text fields eligible for highlight
// synthesis. Tags are checked for matched-field detection but never
// emitted as a highlight.
var highlightableFields = []string{
	FieldOcrText,
	FieldMemo,
	FieldLocationName,
	FieldGroupTitle,
}

// buildIndexMapping defines the complete schema: which fields are
// tokenized with positions (searchable, highlightable) and which are
// stored-only payload. id and image_path are never searchable.
func buildIndexMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	for _, name := range DefaultTextFields {
		doc.AddFieldMappingsAt(name, tokenizedTextMapping())
	}
	doc.AddFieldMappingsAt(FieldID, storedOnlyMapping())
	doc.AddFieldMappingsAt(FieldImagePath, storedOnlyMapping())
	doc.AddFieldMappingsAt(FieldCreatedAt, dateTimeMapping())
	doc.AddFieldMappingsAt(FieldUpdatedAt, dateTimeMapping())

	imap := bleve.NewIndexMapping()
	imap.DefaultMapping = doc
	imap.StoreDynamic = false
	imap.IndexDynamic = false
	return imap
}

// tokenizedTextMapping indexes text with the standard analyzer, keeps
// term vectors for positions, and stores the raw value for retrieval.
func tokenizedTextMapping() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Store = true
	fm.Index = true
	fm.IncludeTermVectors = true
	fm.IncludeInAll = false
	return fm
}

// storedOnlyMapping stores the value as payload without indexing it.
func storedOnlyMapping() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Store = true
	fm.Index = false
	fm.IncludeTermVectors = false
	fm.IncludeInAll = false
	return fm
}

func dateTimeMapping() *mapping.FieldMapping {
	fm := bleve.NewDateTimeFieldMapping()
	fm.Store = true
	fm.Index = true
	fm.IncludeInAll = false
	return fm
}

// schemaFingerprint reduces an index mapping to a short digest over its
// canonical JSON form. Two mappings with the same fingerprint index
// documents identically.
func schemaFingerprint(m mapping.IndexMapping) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal index mapping: %w", err)
	}
	return core.FingerprintBytes(data), nil
}

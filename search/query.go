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
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/poiesic/snapdex/core"
)

// buildQuery compiles a SearchQuery into a boolean query tree: a main
// text query AND-ed with zero or more filters.
//
// Policy decisions, all covered by tests:
//   - An empty query string matches all documents; filters still apply.
//   - Unknown names in the field restriction are silently ignored. A
//     restriction naming only unknown fields matches nothing.
//   - The date range on created_at is inclusive at both bounds.
//   - Every tag in the tags filter must match (AND semantics) against
//     the flattened tags field.
func buildQuery(q *core.SearchQuery) bquery.Query {
	main := buildTextQuery(q)
	filters := buildFilters(q)
	if len(filters) == 0 {
		return main
	}

	bq := bleve.NewBooleanQuery()
	bq.AddMust(main)
	bq.AddMust(filters...)
	return bq
}

// buildTextQuery builds the main text query: an OR across the selected
// fields, with standard tokenization and OR-of-terms within each field.
func buildTextQuery(q *core.SearchQuery) bquery.Query {
	text := strings.TrimSpace(q.Query)
	if text == "" {
		return bleve.NewMatchAllQuery()
	}

	fields := DefaultTextFields
	if len(q.Fields) > 0 {
		fields = knownFields(q.Fields)
		if len(fields) == 0 {
			return bleve.NewMatchNoneQuery()
		}
	}

	subs := make([]bquery.Query, 0, len(fields))
	for _, field := range fields {
		mq := bleve.NewMatchQuery(text)
		mq.SetField(field)
		subs = append(subs, mq)
	}
	if len(subs) == 1 {
		return subs[0]
	}
	return bleve.NewDisjunctionQuery(subs...)
}

// buildFilters builds the must-clauses for date range and tags.
func buildFilters(q *core.SearchQuery) []bquery.Query {
	var filters []bquery.Query

	if q.DateFrom != nil || q.DateTo != nil {
		var start, end time.Time
		if q.DateFrom != nil {
			start = *q.DateFrom
		}
		if q.DateTo != nil {
			end = *q.DateTo
		}
		inclusive := true
		dr := bleve.NewDateRangeInclusiveQuery(start, end, &inclusive, &inclusive)
		dr.SetField(FieldCreatedAt)
		filters = append(filters, dr)
	}

	for _, tag := range q.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		// The standard analyzer lowercases terms at index time, so the
		// filter term must be lowercased to match.
		tq := bleve.NewTermQuery(strings.ToLower(tag))
		tq.SetField(FieldTags)
		filters = append(filters, tq)
	}

	return filters
}

// knownFields filters a field restriction down to names present in the
// schema's searchable field set, preserving order.
func knownFields(requested []string) []string {
	known := make([]string, 0, len(requested))
	for _, name := range requested {
		for _, field := range DefaultTextFields {
			if name == field {
				known = append(known, name)
				break
			}
		}
	}
	return known
}

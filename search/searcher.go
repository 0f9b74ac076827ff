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
	bsearch "github.com/blevesearch/bleve/v2/search"
	"github.com/samber/lo"

	"github.com/poiesic/snapdex/core"
)

// Search executes a query against the current snapshot and returns up
// to the query's limit hits, ordered by descending relevance score with
// document id as the tie-break, so equal-score ordering is stable.
func (i *Index) Search(q *core.SearchQuery) ([]*core.SearchResult, error) {
	if i.closed {
		return nil, ErrIndexClosed
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), q.EffectiveLimit(), 0, false)
	req.Fields = []string{"*"}
	req.SortBy([]string{"-_score", "_id"})

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	raw := q.Query
	return lo.Map(res.Hits, func(hit *bsearch.DocumentMatch, _ int) *core.SearchResult {
		return synthesizeResult(hit, raw)
	}), nil
}

// synthesizeResult derives highlights and matched fields for one hit.
//
// Highlighting is substring-based, not positional: a highlightable
// field whose stored text contains the raw query case-insensitively
// contributes one "<field>: <full stored text>" entry, the full value
// rather than a trimmed excerpt. Matched-field detection runs the same test
// across all five text fields (tags included) regardless of which field
// produced the score.
func synthesizeResult(hit *bsearch.DocumentMatch, rawQuery string) *core.SearchResult {
	id, _ := hit.Fields[FieldID].(string)

	highlights := make([]string, 0, len(highlightableFields))
	for _, field := range highlightableFields {
		if text, ok := hit.Fields[field].(string); ok && containsFold(text, rawQuery) {
			highlights = append(highlights, field+": "+text)
		}
	}

	matched := make([]string, 0, len(DefaultTextFields))
	for _, field := range DefaultTextFields {
		if text, ok := hit.Fields[field].(string); ok && containsFold(text, rawQuery) {
			matched = append(matched, field)
		}
	}

	return &core.SearchResult{
		Id:            id,
		Score:         float32(hit.Score),
		Highlights:    highlights,
		MatchedFields: matched,
	}
}

package core

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// SearchableItem is a captured record as handed to the engine: the OCR
// text extracted from an image, the user's memo, tags, and optional
// location and grouping metadata. The engine keeps its own serialized
// copy; callers may discard the value after a successful Add.
type SearchableItem struct {
	Id           string    `json:"id"`
	OcrText      string    `json:"ocr_text"`
	Memo         string    `json:"memo"`
	Tags         []string  `json:"tags"`
	LocationName string    `json:"location_name,omitempty"`
	GroupTitle   string    `json:"group_title,omitempty"`
	ImagePath    string    `json:"image_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FlattenedTags joins the item's tags into the single space-separated
// string that gets indexed. Flattening trades exact tag-boundary
// matching for simplicity: a query can still match part of one tag.
func (i *SearchableItem) FlattenedTags() string {
	return strings.Join(i.Tags, " ")
}

// DefaultSearchLimit is the number of hits returned when a query does
// not specify a limit.
const DefaultSearchLimit = 20

// SearchQuery is a search request against the engine.
//
// An empty Query matches all documents; any filters still apply. A nil
// Fields slice searches the full default field set; unknown field names
// are silently ignored. Tags combine with AND semantics: every listed
// tag must match. A zero Limit means DefaultSearchLimit.
type SearchQuery struct {
	Query    string     `json:"query"`
	Fields   []string   `json:"fields,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Tags     []string   `json:"tags,omitempty"`
	Limit    int        `json:"limit,omitempty"`
}

// EffectiveLimit returns the hit limit to use for this query.
func (q *SearchQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultSearchLimit
	}
	return q.Limit
}

// SearchResult is a single ranked hit. Results are ordered by
// descending Score; equal scores are broken by document id so ordering
// is deterministic.
//
// Highlights holds "<field>: <full stored value>" entries for every
// highlightable field whose stored text contains the raw query string
// case-insensitively. MatchedFields lists every text field (including
// the flattened tags) containing the raw query string, independent of
// whether that field contributed to the score.
type SearchResult struct {
	Id            string   `json:"id"`
	Score         float32  `json:"score"`
	Highlights    []string `json:"highlights"`
	MatchedFields []string `json:"matched_fields"`
}

// IndexStats maps an opaque counter name to its value, computed from
// the current index snapshot. Diagnostics only.
type IndexStats map[string]uint64

// TotalDocs returns the live document count from a stats report.
func (s IndexStats) TotalDocs() uint64 {
	return s["docs"]
}

// IDFromContent derives a deterministic item id from text content using
// BLAKE2b hashing. Identical content always produces the identical id.
// The importer uses this for records that arrive without an id.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintBytes hashes arbitrary bytes to a short hex digest.
// Used to fingerprint the index schema for reopen validation.
func FingerprintBytes(data []byte) string {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

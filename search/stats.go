package search

import (
	"strings"

	"github.com/poiesic/snapdex/core"
)

// Stats reports live document counts from the current snapshot, keyed
// by opaque counter names. "docs" is the aggregate live document count;
// the remaining entries are the underlying index's own num_* counters
// (segment counts among them). Diagnostics only; names and presence of
// individual counters may change with the index library.
func (i *Index) Stats() (core.IndexStats, error) {
	if i.closed {
		return nil, ErrIndexClosed
	}

	count, err := i.index.DocCount()
	if err != nil {
		return nil, err
	}
	stats := core.IndexStats{"docs": count}

	if idxStats, ok := i.index.StatsMap()["index"].(map[string]interface{}); ok {
		for name, value := range idxStats {
			if !strings.HasPrefix(name, "num_") {
				continue
			}
			switch n := value.(type) {
			case uint64:
				stats[name] = n
			case int64:
				stats[name] = uint64(n)
			case int:
				stats[name] = uint64(n)
			case float64:
				stats[name] = uint64(n)
			}
		}
	}

	return stats, nil
}

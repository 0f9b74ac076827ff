package search

import "strings"

// containsFold reports whether s contains substr, ignoring case.
// An empty substr never matches: highlight and matched-field synthesis
// skip empty queries rather than flagging every field.
func containsFold(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

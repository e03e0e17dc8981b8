package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal
// whitespace runs. Display names are normalized with it before storage.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

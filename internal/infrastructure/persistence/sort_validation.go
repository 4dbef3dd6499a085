package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// orderByCreated returns a created_at ordering with id as the tiebreak, so
// pages stay stable when rows share a timestamp.
func orderByCreated(orderDir string) string {
	dir := ValidateSortOrder(orderDir)
	return "created_at " + dir + ", id " + dir
}

package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold normalizes s for case-insensitive comparison of tags and categories.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

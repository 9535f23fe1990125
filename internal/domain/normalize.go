package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

var nameFolder = cases.Fold()

// NameKeyOf returns the normalized lookup key for an ingredient or recipe
// name: trimmed and Unicode case-folded. Written to the NameKey column on
// every insert/update so equality checks never depend on the database's
// collation.
func NameKeyOf(name string) string {
	return nameFolder.String(strings.TrimSpace(name))
}

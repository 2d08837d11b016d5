package gen

import (
	"strings"

	"github.com/syssam/gqlreq/schema"
)

// SelectFields returns the target names of the schema fields in declaration
// order, each exactly once. Relations select the foreign key, not the
// related object.
func SelectFields(s *schema.Schema) []string {
	fields := s.SortedFields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Target())
	}
	return names
}

// selectionSet renders a selection set: "{ id name done }".
// No fields render as "{ }".
func selectionSet(fields []string) string {
	if len(fields) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(fields, " ") + " }"
}

// connectionSet renders the selection of a list query page.
func connectionSet(fields []string) string {
	return "{ items " + selectionSet(fields) + " nextToken }"
}

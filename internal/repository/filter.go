package repository

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Params maps a filter attribute to the list of values it may take. The values
// of one attribute are ORed together; attributes are ANDed. An attribute mapped
// to an empty list matches nothing.
type Params map[string][]any

// filterColumns is the static allowlist of filterable attributes. Anything
// outside it fails with ErrInvalidAttribute before a query is built.
var filterColumns = map[string]string{
	"id":   "id",
	"name": "name",
	"tag":  "tag",
}

// buildFilter turns params into a WHERE fragment with `?` placeholders and the
// matching argument list. Attributes are emitted in sorted order so the same
// params always produce the same SQL; AND and OR are commutative, so ordering
// cannot change the result set. An empty params map yields an empty fragment.
func buildFilter(params Params) (string, []any, error) {
	if len(params) == 0 {
		return "", nil, nil
	}

	fields := make([]string, 0, len(params))
	for field := range params {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	clauses := make([]string, 0, len(fields))
	var args []any
	for _, field := range fields {
		column, ok := filterColumns[field]
		if !ok {
			err := fmt.Errorf("%w: %q does not correspond to any metadata attribute", ErrInvalidAttribute, field)
			slog.Error("rejecting filter", "field", field, "error", err)
			return "", nil, err
		}

		values := params[field]
		if len(values) == 0 {
			// An empty value list is a vacuously false OR.
			clauses = append(clauses, "1 = 0")
			continue
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", column, placeholders))
		args = append(args, values...)
	}

	return strings.Join(clauses, " AND "), args, nil
}

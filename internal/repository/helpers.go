package repository

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// ilike builds a case-insensitive contains pattern, escaping LIKE wildcards in q.
func ilike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

// containsAny matches q against any of columns; an empty q yields no condition.
func containsAny(q string, columns ...string) squirrel.Sqlizer {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	pattern := ilike(q)
	or := make(squirrel.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, squirrel.ILike{col: pattern})
	}
	return or
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

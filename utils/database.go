package utils

import (
	"reflect"
	"strings"
)

// ColumnList returns the `db` tags of a struct, in field order, to be used in a select
// statement. Tables can be prefixed to disambiguate joins.
func ColumnList[T any](prefixes ...string) []string {
	var zero T
	t := reflect.TypeOf(zero)

	prefix := ""
	if len(prefixes) > 0 {
		prefix = strings.Join(prefixes, ".") + "."
	}

	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		columns = append(columns, prefix+tag)
	}
	return columns
}

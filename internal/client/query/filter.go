package query

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Operator is a PostgREST filter operator.
type Operator string

const (
	OpEq   Operator = "eq"
	OpNeq  Operator = "neq"
	OpGt   Operator = "gt"
	OpGte  Operator = "gte"
	OpLt   Operator = "lt"
	OpLte  Operator = "lte"
	OpLike Operator = "like"
	OpIn   Operator = "in"
)

// Filter is one column predicate. Value is already encoded for the wire.
type Filter struct {
	Column   string
	Operator Operator
	Value    string
}

func (f Filter) String() string {
	return url.QueryEscape(f.Column) + "=" + string(f.Operator) + "." + f.Value
}

// OrderClause is one sort key.
type OrderClause struct {
	Column    string
	Ascending bool
}

func (o OrderClause) String() string {
	dir := "desc"
	if o.Ascending {
		dir = "asc"
	}
	return url.QueryEscape(o.Column) + "." + dir
}

// EncodeValue renders a filter operand. nil (including typed nil pointers)
// becomes the bare token null. Strings that would otherwise read as null or
// break the operand grammar are double-quoted, so the string "null" encodes
// as %22null%22. Everything is percent-escaped.
func EncodeValue(v any) string {
	if v == nil {
		return "null"
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null"
		}
		return EncodeValue(rv.Elem().Interface())
	}

	var s string
	switch value := v.(type) {
	case string:
		s = quoteReserved(value)
	case time.Time:
		s = value.UTC().Format(time.RFC3339Nano)
	case bool:
		s = strconv.FormatBool(value)
	case float64:
		s = strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(value), 'f', -1, 32)
	case fmt.Stringer:
		s = value.String()
	default:
		s = fmt.Sprint(value)
	}
	return url.QueryEscape(s)
}

// reservedChars separate or group operands in PostgREST filter syntax.
const reservedChars = `,.:()"\`

// quoteReserved wraps s in double quotes when it is the literal null or
// contains a reserved character. Quotes and backslashes inside are
// backslash-escaped.
func quoteReserved(s string) string {
	if !strings.EqualFold(s, "null") && !strings.ContainsAny(s, reservedChars) {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func encodeSet(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = EncodeValue(v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// encodeSelect escapes each column name but keeps the * wildcard and the
// separating commas readable.
func encodeSelect(columns []string) string {
	var parts []string
	for _, c := range columns {
		for _, col := range strings.Split(c, ",") {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			parts = append(parts, strings.ReplaceAll(url.QueryEscape(col), "%2A", "*"))
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ",")
}

package ghost

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// KeyParam is the query parameter carrying the Content API key.
const KeyParam = "key"

// NormalizeParams converts caller parameters into a Content API query.
// Nil values and empty lists are dropped, lists are joined with commas,
// booleans become "true"/"false" and everything else is stringified.
// The key is always set and cannot be overridden by params.
func NormalizeParams(key string, params map[string]any) url.Values {
	q := url.Values{}
	for name, v := range params {
		s, ok := formatParam(v)
		if !ok {
			continue
		}
		q.Set(name, s)
	}
	q.Set(KeyParam, key)
	return q
}

// formatParam renders one parameter value; ok is false when it should be omitted.
func formatParam(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case []string:
		if len(t) == 0 {
			return "", false
		}
		return strings.Join(t, ","), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return formatParam(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return "", false
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, ok := formatParam(rv.Index(i).Interface())
			if !ok {
				continue
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	}
	return fmt.Sprint(v), true
}

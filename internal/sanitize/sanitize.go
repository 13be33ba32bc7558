// Package sanitize strips markup from user-submitted answers before they are stored.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// policy allows no elements and no attributes; bluemonday policies are
// safe for concurrent use once built
var policy = bluemonday.StrictPolicy()

// String removes every HTML tag from s, keeping text content. The result
// is HTML-escaped text, so "Q&A" is stored as "Q&amp;A".
func String(s string) string {
	return policy.Sanitize(s)
}

// ResponseData returns a copy of data with every string value sanitized.
// Lists and nested objects are walked; other values are kept as is.
func ResponseData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = value(v)
	}
	return out
}

func value(v any) any {
	switch t := v.(type) {
	case string:
		return String(t)
	case []any:
		list := make([]any, len(t))
		for i, item := range t {
			list[i] = value(item)
		}
		return list
	case map[string]any:
		return ResponseData(t)
	default:
		return v
	}
}
